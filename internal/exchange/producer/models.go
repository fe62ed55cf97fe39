package producer

import (
	"time"

	"github.com/google/uuid"
)

// Envelope — сообщение топика уведомлений о загрузках.
type Envelope[T any] struct {
	Kind      string    `json:"kind" example:"ReceiveUpload"`                              // ReceiveUpload | UploadError
	MessageID uuid.UUID `json:"message_id" example:"c7e06db5-4b71-4c54-9334-3f9a6e6c5d0e"` // Идентификатор события (UUID v4)
	Payload   T         `json:"payload"`                                                   // Полезная нагрузка
	Timestamp time.Time `json:"timestamp" example:"2025-10-19T12:34:56Z"`                  // Время формирования события
	Source    string    `json:"source" example:"pair-overlap-api"`                         // Сервис-источник
}
