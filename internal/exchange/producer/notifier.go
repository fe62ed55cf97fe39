package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Notifier struct {
	sp     sarama.SyncProducer
	topic  string
	source string
	log    zerolog.Logger
}

type Config struct {
	Topic  string
	Source string
}

func NewNotifier(sp sarama.SyncProducer, cfg Config, log zerolog.Logger) *Notifier {
	return &Notifier{
		sp:     sp,
		topic:  cfg.Topic,
		source: cfg.Source,
		log:    log.With().Str("component", "UploadNotifier").Logger(),
	}
}

func (p *Notifier) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

// Notify publishes n to the notifications topic keyed by upload id.
func (p *Notifier) Notify(ctx context.Context, n dto.Notification) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}

	env := Envelope[dto.Notification]{
		Kind:      n.Event,
		MessageID: uuid.New(),
		Payload:   n,
		Timestamp: n.Timestamp,
		Source:    p.source,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", n.Event, err)
	}

	return p.send(ctx, p.topic, n.UploadID.String(), body, map[string]string{
		"event-kind":   n.Event,
		"message-id":   env.MessageID.String(),
		"source":       p.source,
		"content-type": "application/json",
	})
}

func (p *Notifier) send(_ context.Context, topic, key string, value []byte, headers map[string]string) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: hs,
	}

	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Int("bytes", len(value)).
			Msg("failed to send kafka message")
		return fmt.Errorf("send kafka message: %w", err)
	}

	p.log.Info().
		Str("topic", topic).
		Str("key", key).
		Int32("partition", part).
		Int64("offset", off).
		Int("bytes", len(value)).
		Msg("kafka message sent")
	return nil
}
