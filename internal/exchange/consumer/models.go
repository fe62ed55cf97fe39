package consumer

import (
	"time"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/google/uuid"
)

type Envelope struct {
	Kind      string           `json:"kind"`
	MessageID uuid.UUID        `json:"message_id"`
	Payload   dto.Notification `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
	Source    string           `json:"source"`
}
