package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/Artexxx/pair-overlap/internal/pipeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const (
	formFileField    = "file"
	headerDateFormat = "Date-Format"
	headerUploadID   = "X-Upload-ID"
)

// @Summary Загрузка CSV с назначениями сотрудников на проекты
// @Description Результат (список пар) рассылается событием ReceiveUpload в /uploads/stream, ошибка событием UploadError.
// @Tags    Upload
// @Accept  multipart/form-data
// @Produce json
// @Param   file        formData file   true "CSV: EmpID, ProjectID, DateFrom, DateTo"
// @Param   Date-Format header   string true "Формат дат, например yyyy-MM-dd"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router  /upload/single [post]
func (s *Service) uploadSingle(ctx *fasthttp.RequestCtx) {
	uploadID := uuid.New()
	ctx.Response.Header.Set(headerUploadID, uploadID.String())

	up := pipeline.Upload{
		ID:         uploadID,
		DateFormat: string(ctx.Request.Header.Peek(headerDateFormat)),
	}

	fh, err := ctx.FormFile(formFileField)
	switch {
	case err == nil:
		up.FileName = fh.Filename

		body, cerr := openFormFile(fh)
		if cerr != nil {
			up.Body = errReader{err: cerr}
			break
		}
		defer func() { _ = body.Close() }()
		up.Body = body
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
		// без файла расширение пустое: пайплайн отклонит загрузку как не-CSV
	default:
		log.Warn().Err(err).Str("upload_id", uploadID.String()).Msg("multipart form is malformed")
	}

	if _, err := s.uploader.Process(requestContext(ctx), up); err != nil {
		uploadError(ctx, err)
		return
	}

	ok(ctx, "Файл обработан")
}

func openFormFile(fh *multipart.FileHeader) (multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("fh.Open: %w", err)
	}

	return f, nil
}

// errReader hands an open failure to the pipeline so it is reported as an internal error.
type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}

var _ io.Reader = errReader{}
