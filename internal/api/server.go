package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/millops/config"
	"example.com/millops/internal/api/handlers"
	"example.com/millops/internal/api/middleware"
	"example.com/millops/internal/metrics"
	"example.com/millops/internal/service"
	"example.com/millops/internal/tracing"
)

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	service    *service.Service
	metrics    *metrics.Metrics
	tracer     tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, svc *service.Service, m *metrics.Metrics, tracer tracing.Tracer) *Server {
	server := &Server{
		config:  cfg,
		service: svc,
		metrics: m,
		tracer:  tracer,
	}

	router := server.setupRouter()
	server.router = router

	httpServer := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}
	server.httpServer = httpServer

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(s.metrics))

	handlers.NewAuthHandler(s.service, s.tracer).RegisterRoutes(router)
	handlers.NewAdminHandler(s.service, s.tracer).RegisterRoutes(router)
	handlers.NewOperatorHandler(s.service, s.tracer).RegisterRoutes(router)
	handlers.NewCustomerHandler(s.service, s.tracer).RegisterRoutes(router)
	handlers.NewDriverHandler(s.service, s.tracer).RegisterRoutes(router)
	handlers.NewCommsHandler(s.service).RegisterRoutes(router)
	handlers.NewMetricsHandler(s.service, s.metrics, s.tracer).RegisterRoutes(router)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
