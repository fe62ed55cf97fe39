package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventReceiveUpload = "ReceiveUpload"
	EventUploadError   = "UploadError"
)

// Notification — событие канала рассылки результатов загрузки.
type Notification struct {
	Event     string        `json:"event" example:"ReceiveUpload"`                            // ReceiveUpload | UploadError
	UploadID  uuid.UUID     `json:"upload_id" example:"6b6f9c38-3e2a-4b3d-9a9a-9f1c0f8b2a10"` // Идентификатор загрузки
	FileName  string        `json:"file_name,omitempty" example:"assignments.csv"`
	Overlaps  []PairOverlap `json:"overlaps"` // Результат (только для ReceiveUpload)
	Message   string        `json:"message,omitempty" example:"The file must be a CSV."`
	Timestamp time.Time     `json:"timestamp"`
}
