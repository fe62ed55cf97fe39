package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Artexxx/pair-overlap/internal/decoder"
	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/Artexxx/pair-overlap/internal/emitter"
	"github.com/Artexxx/pair-overlap/internal/metrics"
	"github.com/Artexxx/pair-overlap/internal/overlap"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	csvExtension  = ".csv"
	serverFailure = "Server error."
)

type IncidentRepository interface {
	Insert(ctx context.Context, incident dto.Incident) (int64, error)
}

// Upload — одна загрузка файла с назначениями.
type Upload struct {
	ID         uuid.UUID
	FileName   string
	DateFormat string
	Body       io.Reader
}

type Deps struct {
	Emitter   *emitter.Emitter
	Incidents IncidentRepository
	Metrics   *metrics.Metrics
	Clock     func() time.Time
	Log       zerolog.Logger
}

type Service struct {
	emitter   *emitter.Emitter
	incidents IncidentRepository
	metrics   *metrics.Metrics
	clock     func() time.Time
	log       zerolog.Logger
}

func NewService(d Deps) *Service {
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		emitter:   d.Emitter,
		incidents: d.Incidents,
		metrics:   d.Metrics,
		clock:     clock,
		log:       d.Log.With().Str("component", "UploadPipeline").Logger(),
	}
}

// Process validates, decodes and aggregates one upload, then notifies
// listeners with ReceiveUpload or UploadError. Returned errors wrap
// dto.ErrValidation, dto.ErrDecode or are *dto.InternalError.
func (s *Service) Process(ctx context.Context, up Upload) ([]dto.PairOverlap, error) {
	if up.ID == uuid.Nil {
		up.ID = uuid.New()
	}

	begin := time.Now()
	records, overlaps, err := s.run(up)
	took := time.Since(begin)

	if err != nil {
		return nil, s.fail(ctx, up, err, took)
	}

	s.metrics.ObserveUpload(metrics.ResultOK, records, len(overlaps), took)

	s.logger(ctx).Info().
		Str("upload_id", up.ID.String()).
		Str("file_name", up.FileName).
		Int("records", records).
		Int("overlaps", len(overlaps)).
		Dur("took", took).
		Msg("upload processed")

	if nerr := s.emitter.Success(ctx, up.ID, up.FileName, overlaps); nerr != nil {
		s.logger(ctx).Error().Err(nerr).Str("upload_id", up.ID.String()).Msg("result notification failed")
	}

	return overlaps, nil
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if id := RequestID(ctx); id != "" {
		l := s.log.With().Str("request_id", id).Logger()
		return &l
	}
	return &s.log
}

func (s *Service) run(up Upload) (records int, overlaps []dto.PairOverlap, err error) {
	if err := Validate(up.FileName, up.DateFormat); err != nil {
		return 0, nil, err
	}

	defer func() {
		if rvr := recover(); rvr != nil {
			records, overlaps = 0, nil
			err = &dto.InternalError{Err: fmt.Errorf("panic: %v", rvr)}
		}
	}()

	if up.Body == nil {
		return 0, nil, &dto.InternalError{Err: errors.New("upload body is nil")}
	}

	rows, err := decoder.Decode(up.Body, up.DateFormat)
	if err != nil {
		if errors.Is(err, dto.ErrDecode) || errors.Is(err, dto.ErrValidation) {
			return 0, nil, err
		}
		return 0, nil, &dto.InternalError{Err: fmt.Errorf("decoder.Decode: %w", err)}
	}

	today := decoder.DateOnly(s.clock())
	result := overlap.Compute(rows, today)

	return len(rows), emitter.Flatten(result), nil
}

func (s *Service) fail(ctx context.Context, up Upload, err error, took time.Duration) error {
	var (
		result   string
		message  string
		internal *dto.InternalError
	)

	switch {
	case errors.Is(err, dto.ErrValidation):
		result, message = metrics.ResultValidation, dto.ValidationMessage(err)
		s.logger(ctx).Warn().Err(err).Str("upload_id", up.ID.String()).Str("file_name", up.FileName).Msg("upload rejected")
	case errors.Is(err, dto.ErrDecode):
		result, message = metrics.ResultDecode, err.Error()
		s.logger(ctx).Warn().Err(err).Str("upload_id", up.ID.String()).Str("file_name", up.FileName).Msg("upload is malformed")
	default:
		if !errors.As(err, &internal) {
			internal = &dto.InternalError{Err: err}
			err = internal
		}
		result, message = metrics.ResultInternal, serverFailure
		s.recordIncident(ctx, up, internal)
	}

	s.metrics.ObserveUpload(result, 0, 0, took)

	if nerr := s.emitter.Failure(ctx, up.ID, up.FileName, message); nerr != nil {
		s.logger(ctx).Error().Err(nerr).Str("upload_id", up.ID.String()).Msg("error notification failed")
	}

	return err
}

func (s *Service) recordIncident(ctx context.Context, up Upload, internal *dto.InternalError) {
	detail := fmt.Sprintf("%v", internal.Err)

	s.logger(ctx).Error().
		Time("at", s.clock().UTC()).
		Str("upload_id", up.ID.String()).
		Str("file_name", up.FileName).
		Str("detail", detail).
		Msg("upload failed")

	if s.incidents == nil {
		return
	}

	_, err := s.incidents.Insert(ctx, dto.Incident{
		UploadID: up.ID,
		FileName: up.FileName,
		Message:  serverFailure,
		Detail:   detail,
	})
	if err != nil {
		s.logger(ctx).Error().Err(err).Str("upload_id", up.ID.String()).Msg("incidents.Insert failed")
	}
}

// Validate checks what can be rejected before decoding starts.
func Validate(fileName, dateFormat string) error {
	if !strings.EqualFold(filepath.Ext(strings.TrimSpace(fileName)), csvExtension) {
		return dto.ErrNotCSV
	}

	if strings.TrimSpace(dateFormat) == "" {
		return dto.ErrDateFormatRequired
	}

	return nil
}
