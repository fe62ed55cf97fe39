package dto

import (
	"github.com/google/uuid"
)

// Incident — запись журнала внутренних ошибок обработки загрузок.
type Incident struct {
	ID        int64     `json:"id" example:"42"`
	UploadID  uuid.UUID `json:"upload_id"`
	FileName  string    `json:"file_name" example:"assignments.csv"`
	Message   string    `json:"message" example:"Server error."` // Что увидел клиент
	Detail    string    `json:"detail"`                          // Полный текст ошибки
	CreatedAt string    `json:"created_at" example:"2025-10-19T10:15:30Z"`
}
