package api

import (
	"bufio"
	"fmt"
	"time"

	"github.com/Artexxx/pair-overlap/internal/broadcast"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

// @Summary Поток уведомлений о загрузках (Server-Sent Events)
// @Description События ReceiveUpload (data: уведомление со списком пар) и UploadError (data: уведомление с сообщением).
// @Tags    Upload
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 501 {object} errorResponse
// @Router  /uploads/stream [get]
func (s *Service) uploadsStream(ctx *fasthttp.RequestCtx) {
	if s.hub == nil {
		notImplemented(ctx, "stream_not_configured", "Канал уведомлений не настроен")
		return
	}

	ctx.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")

	hub, heartbeat := s.hub, s.heartbeat
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		id, events, err := hub.Subscribe()
		if err != nil {
			return
		}
		defer hub.Unsubscribe(id)

		log.Debug().Uint64("subscriber", id).Msg("stream opened")
		defer log.Debug().Uint64("subscriber", id).Msg("stream closed")

		if err := writeComment(w, "connected"); err != nil {
			return
		}

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case ev, open := <-events:
				if !open {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					return
				}
			case <-ticker.C:
				if err := writeComment(w, "ping"); err != nil {
					return
				}
			}
		}
	})
}

func writeEvent(w *bufio.Writer, ev broadcast.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
