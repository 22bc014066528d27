package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/internal/config"
	"gitlab.com/witness-archive/api/archive-ingest/internal/handler"
	"gitlab.com/witness-archive/api/archive-ingest/internal/storage"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/utils"
)

const readyTimeout = 2 * time.Second

// Server is the HTTP server for the webhook, the translation endpoint and
// the operational probes.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	health     storage.HealthChecker
	version    string
}

// Handlers groups the request handlers mounted by the server.
type Handlers struct {
	Webhook      *handler.WebhookHandler
	Translations *handler.TranslationHandler
}

// HealthResponse is the response structure for health check endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// NewServer builds the gin engine and its routes.
func NewServer(cfg *config.Config, version string, health storage.HealthChecker, h Handlers) *Server {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(RequestID(), AccessLog(), Recovery())

	if len(cfg.CORS.AllowOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORS.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Content-Type", RequestIDHeader, handler.SecretHeader},
			MaxAge:       12 * time.Hour,
		}))
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		engine:  engine,
		health:  health,
		version: version,
	}

	engine.GET("/health", s.handleHealth)
	engine.GET("/ready", s.handleReady)
	if cfg.Metrics.Enabled {
		logger.Log.Info("Registering /metrics endpoint")
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if h.Webhook != nil {
		engine.POST(cfg.Webhook.Path, h.Webhook.Handle)
	}
	if h.Translations != nil {
		engine.GET("/api/translations/:locale", h.Translations.Get)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving in the background.
func (s *Server) Start() {
	utils.SafeGo(func() {
		logger.Log.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("HTTP server error", zap.Error(err))
		}
	}, nil)
}

// Stop gracefully shuts down the HTTP server, waiting for in-flight requests
// until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	logger.Log.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles the /health endpoint for liveness probes
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "UP",
		Version: s.version,
	})
}

// handleReady handles the /ready endpoint for readiness probes
func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := s.health.Ping(ctx); err != nil {
		logger.FromContext(ctx).Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:  "NOT_READY",
			Details: map[string]string{"database": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "READY",
		Details: map[string]string{
			"timestamp": utils.FormatISO8601(utils.Now()),
		},
	})
}
