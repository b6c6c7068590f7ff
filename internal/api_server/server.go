package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/config"
	handlers "github.com/careerkit/career-assistant/internal/handlers/v1alpha1"
	"github.com/careerkit/career-assistant/internal/pipeline"
	"github.com/careerkit/career-assistant/internal/service"
	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/pkg/metrics"
	"github.com/careerkit/career-assistant/pkg/middleware"
)

const gracefulShutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *config.Config
	store    store.Store
	pipeline *pipeline.Pipeline
	listener net.Listener
}

// New returns a new instance of the career-assistant API server.
func New(cfg *config.Config, store store.Store, pl *pipeline.Pipeline, listener net.Listener) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		pipeline: pl,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	h := handlers.NewHandler(
		service.NewLetterService(s.store, s.pipeline),
		service.NewPostingService(s.store),
		service.NewExperienceService(s.store),
	)
	h.Routes(router)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("serving API: %s", s.cfg.Service.Address)
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
