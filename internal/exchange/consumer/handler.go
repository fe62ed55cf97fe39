package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Artexxx/pair-overlap/internal/dto"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// Broadcaster pushes a notification to locally connected listeners.
type Broadcaster interface {
	Notify(ctx context.Context, n dto.Notification) error
}

type handler struct {
	broadcaster Broadcaster
	log         zerolog.Logger
}

func (h *handler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *handler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		h.process(sess.Context(), msg)
		// уведомления не переигрываются: битое сообщение коммитится вместе с остальными
		sess.MarkMessage(msg, "")
	}
	return nil
}

func (h *handler) process(ctx context.Context, msg *sarama.ConsumerMessage) {
	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		h.skip(msg, fmt.Sprintf("invalid_json: %v", err))
		return
	}

	if verr := validateEnvelope(env); verr != "" {
		h.skip(msg, verr)
		return
	}

	if err := h.broadcaster.Notify(ctx, env.Payload); err != nil {
		h.log.Error().
			Err(err).
			Str("message_id", env.MessageID.String()).
			Str("event", env.Kind).
			Msg("broadcast failed")
	}
}

func (h *handler) skip(msg *sarama.ConsumerMessage, reason string) {
	h.log.Warn().
		Str("topic", msg.Topic).
		Int32("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Str("reason", reason).
		Msg("message skipped")
}
