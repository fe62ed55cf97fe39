package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Notify(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	n := dto.Notification{
		Event:    dto.EventReceiveUpload,
		UploadID: uuid.New(),
		FileName: "staff.csv",
		Overlaps: []dto.PairOverlap{{EmployeeLowID: 1, EmployeeHighID: 2, ProjectID: 9, DaysWorkedTogether: 17}},
	}

	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env Envelope[dto.Notification]
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		if env.Kind != dto.EventReceiveUpload || env.Source != "pair-overlap-api" {
			return errors.New("unexpected envelope header")
		}
		if env.Payload.UploadID != n.UploadID || len(env.Payload.Overlaps) != 1 {
			return errors.New("unexpected payload")
		}
		if env.MessageID == uuid.Nil || env.Timestamp.IsZero() {
			return errors.New("envelope metadata missing")
		}
		return nil
	})

	notifier := NewNotifier(sp, Config{Topic: "uploads.notifications", Source: "pair-overlap-api"}, zerolog.Nop())
	require.NoError(t, notifier.Notify(context.Background(), n))
	require.NoError(t, notifier.Close())
}

func TestNotifier_SendFails(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(errors.New("leader not available"))

	notifier := NewNotifier(sp, Config{Topic: "uploads.notifications"}, zerolog.Nop())
	err := notifier.Notify(context.Background(), dto.Notification{Event: dto.EventUploadError, Message: "Server error."})

	require.Error(t, err)
	require.Contains(t, err.Error(), "leader not available")
	require.NoError(t, notifier.Close())
}

func TestNotifier_NotInitialized(t *testing.T) {
	var notifier *Notifier

	require.Error(t, notifier.Notify(context.Background(), dto.Notification{}))
	require.NoError(t, notifier.Close())
}
