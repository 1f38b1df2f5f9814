package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/terminus-math/internal/coordinate"
	handlers "github.com/GriffinCanCode/terminus-math/internal/http"
	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/config"
	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/logging"
	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/terminus-math/internal/math/optimize"
	"github.com/GriffinCanCode/terminus-math/internal/middleware"
	coordinateProvider "github.com/GriffinCanCode/terminus-math/internal/providers/coordinate"
	geometryProvider "github.com/GriffinCanCode/terminus-math/internal/providers/geometry"
	mathProvider "github.com/GriffinCanCode/terminus-math/internal/providers/math"
	optimizeProvider "github.com/GriffinCanCode/terminus-math/internal/providers/optimize"
	"github.com/GriffinCanCode/terminus-math/internal/providers/packaging"
	"github.com/GriffinCanCode/terminus-math/internal/recipe"
	"github.com/GriffinCanCode/terminus-math/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance. A nil logger is built from cfg.Logging.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing terminus-math server",
		zap.String("port", cfg.Server.Port),
		zap.String("recipe_version", cfg.Recipe.Version),
	)

	metrics := monitoring.NewMetrics()

	rcp, err := loadRecipe(cfg.Recipe)
	if err != nil {
		return nil, err
	}
	logger.Info("Package recipe loaded", zap.String("reference", rcp.Ref().String()))

	cache, err := coordinate.NewCache(cfg.Cache.DatumSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create datum cache: %w", err)
	}

	registry := service.NewRegistry()
	registerProviders(registry, providerDeps{
		recipe:   rcp,
		cache:    cache,
		settings: solverSettings(cfg.Optimize),
		logger:   logger,
		metrics:  metrics,
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Named("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limit.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limit))

		if global := cfg.RateLimit.GlobalRequestsPerSecond; global > 0 {
			burst := cfg.RateLimit.GlobalBurst
			if burst <= 0 {
				burst = global
			}
			logger.Info("Global rate limit enabled", zap.Int("rps", global), zap.Int("burst", burst))
			router.Use(middleware.GlobalRateLimit(middleware.RateLimitConfig{
				RequestsPerSecond: global,
				Burst:             burst,
			}))
		}
	}

	h := handlers.NewHandlers(registry, metrics, logger, rcp.Version)

	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	// Service management
	router.GET("/services", h.ListServices)
	router.POST("/services/discover", h.DiscoverServices)
	router.POST("/services/execute", h.ExecuteService)

	// Package recipe
	router.GET("/package", h.PackageInfo)
	router.GET("/package/lock", h.PackageLock)
	router.POST("/package/toolchain", h.PackageToolchain)
	router.POST("/package/id", h.PackageID)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully",
		zap.Int("services", len(registry.List(nil))),
	)

	return &Server{
		router:  router,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

// Close flushes the logger
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	_ = s.logger.Sync()
	return nil
}

func loadRecipe(cfg config.RecipeConfig) (*recipe.Recipe, error) {
	if cfg.Path != "" {
		r, err := recipe.LoadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipe %s: %w", cfg.Path, err)
		}
		return r, nil
	}
	r, err := recipe.Builtin(cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in recipe: %w", err)
	}
	return r, nil
}

func solverSettings(cfg config.OptimizeConfig) optimize.Settings {
	return optimize.Settings{
		AbsTolerance:  cfg.AbsTolerance,
		RelTolerance:  cfg.RelTolerance,
		MaxIterations: cfg.MaxIterations,
	}
}

type providerDeps struct {
	recipe   *recipe.Recipe
	cache    *coordinate.Cache
	settings optimize.Settings
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

func registerProviders(registry *service.Registry, deps providerDeps) {
	providers := []service.Provider{
		mathProvider.NewProvider(),
		mathProvider.NewVectorProvider(),
		mathProvider.NewMatrixProvider(),
		mathProvider.NewQuaternionProvider(),
		geometryProvider.NewProvider(),
		coordinateProvider.NewProvider(deps.cache, deps.metrics.RecordDatumLookup),
		optimizeProvider.NewProvider(deps.settings, deps.logger.Named("lm"), deps.metrics.RecordSolve),
		packaging.NewProvider(deps.recipe),
	}

	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			deps.logger.Warn("Failed to register provider",
				zap.String("service", p.Definition().ID),
				zap.Error(err),
			)
		}
	}
}
