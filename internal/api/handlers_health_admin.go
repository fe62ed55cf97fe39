package api

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

// @Summary Проверка здоровья сервиса
// @Tags    Admin
// @Success 200 {object} okResponse
// @Router  /health [get]
func (s *Service) healthHandler(ctx *fasthttp.RequestCtx) {
	ok(ctx, "OK")
}

// @Summary Журнал внутренних ошибок обработки загрузок
// @Tags    Admin
// @Produce json
// @Param   limit  query int false "Лимит"   default(50)
// @Param   offset query int false "Смещение" default(0)
// @Success 200 {object} listResponse
// @Failure 501 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router  /admin/incidents [get]
func (s *Service) listIncidents(ctx *fasthttp.RequestCtx) {
	if s.incidents == nil {
		notImplemented(ctx, "journal_not_configured", "Журнал ошибок не настроен (postgres.conn пуст)")
		return
	}

	limit, offset := parseLO(ctx)
	rows, err := s.incidents.List(ctx, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("incidents.List failed")
		serverError(ctx)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, listResponse{Items: rows, Limit: limit, Offset: offset})
}

// @Summary Очистка журнала ошибок
// @Tags    Admin
// @Success 200 {object} okResponse
// @Failure 501 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router  /admin/reset [post]
func (s *Service) resetHandler(ctx *fasthttp.RequestCtx) {
	if s.incidents == nil {
		notImplemented(ctx, "journal_not_configured", "Журнал ошибок не настроен (postgres.conn пуст)")
		return
	}

	if err := s.incidents.ResetAll(ctx); err != nil {
		log.Error().Err(err).Msg("incidents.ResetAll failed")
		serverError(ctx)
		return
	}

	ok(ctx, "Журнал очищен")
}

func parseLO(ctx *fasthttp.RequestCtx) (int, int) {
	q := ctx.URI().QueryArgs()
	limit := 50
	offset := 0

	if v, err := strconv.Atoi(string(q.Peek("limit"))); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if s := string(q.Peek("offset")); s != "" {
		if x, err := strconv.Atoi(s); err == nil && x >= 0 {
			offset = x
		}
	}

	return limit, offset
}
