package emitter

import (
	"context"
	"fmt"
	"time"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/Artexxx/pair-overlap/internal/overlap"
	"github.com/google/uuid"
)

// Notifier delivers upload notifications to listeners.
type Notifier interface {
	Notify(ctx context.Context, n dto.Notification) error
}

type Emitter struct {
	notifier Notifier
	now      func() time.Time
}

func New(notifier Notifier) *Emitter {
	return &Emitter{notifier: notifier, now: time.Now}
}

// Flatten returns the accumulators as a list, never nil.
func Flatten(result *overlap.Result) []dto.PairOverlap {
	return result.Overlaps()
}

// Success publishes the ReceiveUpload event.
func (e *Emitter) Success(ctx context.Context, uploadID uuid.UUID, fileName string, overlaps []dto.PairOverlap) error {
	if overlaps == nil {
		overlaps = []dto.PairOverlap{}
	}

	return e.send(ctx, dto.Notification{
		Event:    dto.EventReceiveUpload,
		UploadID: uploadID,
		FileName: fileName,
		Overlaps: overlaps,
	})
}

// Failure publishes the UploadError event.
func (e *Emitter) Failure(ctx context.Context, uploadID uuid.UUID, fileName, message string) error {
	return e.send(ctx, dto.Notification{
		Event:    dto.EventUploadError,
		UploadID: uploadID,
		FileName: fileName,
		Message:  message,
	})
}

func (e *Emitter) send(ctx context.Context, n dto.Notification) error {
	if e == nil || e.notifier == nil {
		return nil
	}

	n.Timestamp = e.now().UTC()

	if err := e.notifier.Notify(ctx, n); err != nil {
		return fmt.Errorf("notifier.Notify %s: %w", n.Event, err)
	}

	return nil
}
