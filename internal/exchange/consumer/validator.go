package consumer

import (
	"fmt"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/google/uuid"
)

func validateEnvelope(env Envelope) string {
	switch env.Kind {
	case dto.EventReceiveUpload, dto.EventUploadError:
	default:
		return fmt.Sprintf("invalid enum value: kind %q", env.Kind)
	}

	if env.Payload.Event != env.Kind {
		return fmt.Sprintf("invalid value in field 'payload.event'=%s, kind=%s", env.Payload.Event, env.Kind)
	}

	if env.Payload.UploadID == uuid.Nil {
		return "required field 'payload.upload_id'"
	}

	if env.Kind == dto.EventUploadError && env.Payload.Message == "" {
		return "required field 'payload.message'"
	}

	return ""
}
