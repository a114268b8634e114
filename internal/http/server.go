package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	authHTTP "github.com/allisson/phiguard/internal/auth/http"
	authUseCase "github.com/allisson/phiguard/internal/auth/usecase"
	"github.com/allisson/phiguard/internal/config"
	eventsHTTP "github.com/allisson/phiguard/internal/events/http"
	"github.com/allisson/phiguard/internal/metrics"
	recordsHTTP "github.com/allisson/phiguard/internal/records/http"
	tenantHTTP "github.com/allisson/phiguard/internal/tenant/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// ServerDeps carries the handlers and cross-cutting dependencies the router
// needs.
type ServerDeps struct {
	ClientUseCase authUseCase.ClientUseCase
	RecordHandler *recordsHTTP.RecordHandler
	EventHandler  *eventsHTTP.EventHandler
	TenantHandler *tenantHTTP.TenantHandler
	MeterProvider otelmetric.MeterProvider
	DBPing        func() error
}

// NewServer creates the API server with all routes and middleware wired.
func NewServer(cfg *config.Config, deps ServerDeps, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if deps.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MeterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", readinessHandler(deps.DBPing))

	// Authenticated API routes. The authentication middleware derives the
	// tenant scope for every request; rate limiting is per client.
	v1 := router.Group("/v1")
	v1.Use(authHTTP.AuthenticationMiddleware(deps.ClientUseCase, logger))
	if cfg.RateLimitEnabled {
		v1.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	records := v1.Group("/records")
	{
		records.POST("", deps.RecordHandler.CreateHandler)
		records.GET("", deps.RecordHandler.ListHandler)
		records.POST("/find", deps.RecordHandler.FindHandler)
		records.GET("/:id", deps.RecordHandler.GetHandler)
		records.PATCH("/:id", deps.RecordHandler.UpdateHandler)
		records.DELETE("/:id", deps.RecordHandler.DeleteHandler)
		records.POST("/:id/documents", deps.RecordHandler.AttachDocumentHandler)
		records.GET("/:id/documents", deps.RecordHandler.ListDocumentsHandler)
	}

	events := v1.Group("/events")
	{
		events.POST("", deps.EventHandler.IngestHandler)
		events.GET("", deps.EventHandler.ListHandler)
		events.GET("/:id", deps.EventHandler.GetHandler)
	}

	tenants := v1.Group("/tenants")
	tenants.Use(authHTTP.RequireRoles(logger, authDomain.RoleAdmin))
	{
		tenants.POST("", deps.TenantHandler.CreateHandler)
		tenants.GET("", deps.TenantHandler.ListHandler)
		tenants.GET("/:id", deps.TenantHandler.GetHandler)
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
