package api

import (
	"encoding/json"
	"errors"

	"github.com/Artexxx/pair-overlap/internal/dto"

	"github.com/valyala/fasthttp"
)

type okResponse struct {
	Status string `json:"status" example:"ok"`
	Msg    string `json:"msg" example:"Готово"`
}

type errorResponse struct {
	Code    string `json:"code" example:"validation_error"`
	Message string `json:"message" example:"The file must be a CSV."`
}

type listResponse struct {
	Items  any `json:"items"`
	Limit  int `json:"limit" example:"50"`
	Offset int `json:"offset" example:"0"`
}

func writeJSON(ctx *fasthttp.RequestCtx, statusCode int, body any) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(statusCode)

	_ = json.NewEncoder(ctx).Encode(body)
}

func ok(ctx *fasthttp.RequestCtx, msg string) {
	writeJSON(ctx, fasthttp.StatusOK, okResponse{Status: "ok", Msg: msg})
}

func writeError(ctx *fasthttp.RequestCtx, httpStatus int, code, message string) {
	writeJSON(ctx, httpStatus, errorResponse{Code: code, Message: message})
}

func badRequest(ctx *fasthttp.RequestCtx, code, message string) {
	writeError(ctx, fasthttp.StatusBadRequest, code, message)
}

func notImplemented(ctx *fasthttp.RequestCtx, code, message string) {
	writeError(ctx, fasthttp.StatusNotImplemented, code, message)
}

// serverError never leaks err to the caller; details are logged by the pipeline.
func serverError(ctx *fasthttp.RequestCtx) {
	writeError(ctx, fasthttp.StatusInternalServerError, "internal_error", "Server error.")
}

func uploadError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, dto.ErrValidation):
		badRequest(ctx, "validation_error", dto.ValidationMessage(err))
	case errors.Is(err, dto.ErrDecode):
		// разбор упал на данных файла: 500, но с описанием строки и колонки
		writeError(ctx, fasthttp.StatusInternalServerError, "decode_error", err.Error())
	default:
		serverError(ctx)
	}
}
