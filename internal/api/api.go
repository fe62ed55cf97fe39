package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Artexxx/pair-overlap/internal/broadcast"
	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/Artexxx/pair-overlap/internal/pipeline"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// @title           Pair Overlap API
// @version         1.0
// @description     Загрузка CSV с историей назначений сотрудников на проекты и расчёт дней совместной работы пар сотрудников. Результат рассылается слушателям событиями ReceiveUpload / UploadError.
//
// @BasePath  /
// @schemes   http
// @produce   json

const (
	defaultMaxBodySize = 8 << 20 // 8 MiB
	defaultHeartbeat   = 15 * time.Second
)

type Uploader interface {
	Process(ctx context.Context, up pipeline.Upload) ([]dto.PairOverlap, error)
}

type IncidentRepository interface {
	List(ctx context.Context, limit, offset int) ([]dto.Incident, error)
	ResetAll(ctx context.Context) error
}

type ServiceDeps struct {
	Port        int
	MaxBodySize int

	Uploader  Uploader
	Hub       *broadcast.Hub
	Incidents IncidentRepository
	Gatherer  prometheus.Gatherer

	// Heartbeat — интервал комментариев-пингов в SSE-потоке.
	Heartbeat time.Duration
}

type Service struct {
	r      *router.Router
	server *fasthttp.Server
	port   int

	uploader  Uploader
	hub       *broadcast.Hub
	incidents IncidentRepository
	gatherer  prometheus.Gatherer
	heartbeat time.Duration
}

func NewService(d ServiceDeps) *Service {
	rt := router.New()

	s := &Service{
		r:         rt,
		port:      d.Port,
		uploader:  d.Uploader,
		hub:       d.Hub,
		incidents: d.Incidents,
		gatherer:  d.Gatherer,
		heartbeat: d.Heartbeat,
	}

	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.heartbeat <= 0 {
		s.heartbeat = defaultHeartbeat
	}

	maxBody := d.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	s.mountRoutes()

	s.server = &fasthttp.Server{
		Handler:            RecoveryMiddleware(LoggingMiddleware(CORS(s.r.Handler))),
		Name:               "pair-overlap-api",
		ReadTimeout:        30 * time.Second,
		MaxRequestBodySize: maxBody,
	}

	return s
}

// Handler returns the full middleware chain.
func (s *Service) Handler() fasthttp.RequestHandler {
	return s.server.Handler
}

func (s *Service) Start(ctx context.Context) error {
	log.Info().Int("port", s.port).Msg("Starting pair overlap API")

	emergencyShutdown := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe(fmt.Sprintf(":%d", s.port))
		emergencyShutdown <- err
	}()

	select {
	case <-ctx.Done():
		// SSE-потоки держат соединения: закрываем хаб, чтобы писатели завершились
		if s.hub != nil {
			s.hub.Close()
		}
		return s.server.Shutdown()
	case e := <-emergencyShutdown:
		return e
	}
}

func (s *Service) mountRoutes() {
	s.r.POST("/upload/single", s.uploadSingle)
	s.r.GET("/uploads/stream", s.uploadsStream)

	// Admin & Health
	s.r.GET("/health", s.healthHandler)
	s.r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	s.r.GET("/admin/incidents", s.listIncidents)
	s.r.POST("/admin/reset", s.resetHandler)
}
