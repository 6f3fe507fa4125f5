package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/config"
	tryhttp "github.com/whitesnakegang/ouroboros-sub007/internal/http"
	"github.com/whitesnakegang/ouroboros-sub007/internal/middleware"
	"github.com/whitesnakegang/ouroboros-sub007/internal/monitoring"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/analyze"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/backend"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/normalize"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/retrieve"
	"github.com/whitesnakegang/ouroboros-sub007/internal/try/store"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router *gin.Engine
	engine *try.Engine
	logger *zap.Logger
}

// NewServer creates a new server instance. The storage strategy is chosen
// here, once: a configured backend URL selects pass-through storage with
// backend retrieval, otherwise spans stay in the local buffer.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.New(registry)

	var (
		spanStore store.Store
		retriever retrieve.Retriever
	)
	if cfg.Backend.Enabled() {
		client := backend.New(backend.Config{
			URL:     cfg.Backend.URL,
			Timeout: cfg.Backend.Timeout,
		}, logger)
		spanStore = store.NewPassthrough(logger)
		retriever = retrieve.NewBackend(client, normalize.New(logger), logger)
		logger.Info("trace backend configured", zap.String("url", cfg.Backend.URL))
	} else {
		local := store.NewLocal(cfg.Store.MaxSessions, logger)
		spanStore = local
		retriever = retrieve.NewLocal(local)
		logger.Info("local span storage configured",
			zap.Int("max_sessions", cfg.Store.MaxSessions),
		)
	}

	analyzer := analyze.New(analyze.Config{
		CandidatePercent:  cfg.Analyze.CandidatePercent,
		MediumPercent:     cfg.Analyze.MediumPercent,
		HighPercent:       cfg.Analyze.HighPercent,
		CriticalPercent:   cfg.Analyze.CriticalPercent,
		NPlusOneThreshold: cfg.Analyze.NPlusOneThreshold,
	}, logger)

	engine := try.New(try.Deps{
		Store:       spanStore,
		Retriever:   retriever,
		Analyzer:    analyzer,
		Metrics:     metrics,
		Logger:      logger,
		UsesBackend: cfg.Backend.Enabled(),
	}, try.Config{
		PollAttempts: cfg.Backend.PollAttempts,
		PollInterval: cfg.Backend.PollInterval,
	})

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))
	router.Use(tryhttp.Capture(engine, metrics, logger))

	// Create handlers
	handlers := tryhttp.NewHandlers(engine)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Debug session queries
	api := router.Group("/api/try")
	api.GET("/sessions", handlers.ListSessions)
	api.GET("/traces/:traceId", handlers.GetTraceByID)
	api.GET("/:id/summary", handlers.GetSummary)
	api.GET("/:id/trace", handlers.GetTrace)
	api.GET("/:id/issues", handlers.GetIssues)
	api.DELETE("/:id", handlers.DeleteTrace)

	return &Server{
		router: router,
		engine: engine,
		logger: logger,
	}, nil
}

// Engine exposes the try engine so hosts can instrument their own call sites.
func (s *Server) Engine() *try.Engine {
	return s.engine
}

// Run starts the server
func (s *Server) Run(addr string) error {
	s.logger.Info("starting try service", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close cleans up resources
func (s *Server) Close() error {
	if err := s.logger.Sync(); err != nil {
		// Sync on stdout fails on some platforms; nothing actionable.
		return nil
	}
	return nil
}
