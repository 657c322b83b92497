// Package webapi exposes wordclaw's operations over HTTP for the
// conversation-browser front end.
package webapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tinyland-inc/wordclaw/pkg/broadcast"
	"github.com/tinyland-inc/wordclaw/pkg/config"
	"github.com/tinyland-inc/wordclaw/pkg/logger"
	"github.com/tinyland-inc/wordclaw/pkg/metrics"
	"github.com/tinyland-inc/wordclaw/pkg/orchestrator"
)

// Server hosts the JSON API in front of the stateless orchestrator.
type Server struct {
	orch       *orchestrator.Orchestrator
	runner     *broadcast.Runner
	meters     *metrics.MeterStore
	cfg        *config.Config
	engine     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfg *config.Config, orch *orchestrator.Orchestrator) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	if cfg.Server.EnableCORS {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
		engine.Use(cors.New(corsCfg))
	}

	s := &Server{
		orch:   orch,
		runner: broadcast.NewRunner(orch),
		meters: metrics.NewMeterStore(),
		cfg:    cfg,
		engine: engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/metrics", s.handleMetrics)
	api.POST("/get-threads", s.handleGetThreads)
	api.POST("/send-vocabulary", s.handleSendVocabulary)
	api.POST("/broadcast", s.handleBroadcastStart)
	api.GET("/broadcast/:id", s.handleBroadcastStatus)
	api.DELETE("/broadcast/:id", s.handleBroadcastStop)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving and blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // deliveries ride the request
	}

	logger.InfoCF("webapi", "API server listening", map[string]any{"addr": addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
