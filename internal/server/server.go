package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/handlers"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/metrics"
	"github.com/Naya-01/PAE/internal/middleware/auth"
	"github.com/Naya-01/PAE/internal/middleware/events"
	"github.com/Naya-01/PAE/internal/services"
	"github.com/Naya-01/PAE/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	backend    storage.Backend
	tokens     auth.Verifier
	engine     *lifecycle.Engine
}

// New creates a new server instance. images may be nil, picture uploads then
// answer 503.
func New(cfg *config.Config, backend storage.Backend, tokens auth.Verifier, images lifecycle.ImageStore) *Server {
	var opts []lifecycle.Option
	if images != nil {
		opts = append(opts, lifecycle.WithImageStore(images, cfg.Images.MaxFileSize))
	}

	return &Server{
		config:  cfg,
		backend: backend,
		tokens:  tokens,
		engine:  lifecycle.NewEngine(backend, opts...),
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.Router(),

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.Server.GinMode != "" {
		gin.SetMode(s.config.Server.GinMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(events.CreateEvent())
	router.Use(metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(s.config.CORS.AllowOrigins)
	corsConfig.AllowMethods = config.SplitList(s.config.CORS.AllowMethods)
	corsConfig.AllowHeaders = config.SplitList(s.config.CORS.AllowHeaders)
	corsConfig.ExposeHeaders = []string{events.RequestIDHeader}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/ping", s.ping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.setupAPIRoutes(router)

	return router
}

func (s *Server) ping(c *gin.Context) {
	if err := s.backend.Health(); err != nil {
		logger.HTTP().Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": "Donnamis API storage is unavailable",
			"status":  "unhealthy",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Donnamis API is running",
		"status":  "healthy",
		"storage": s.backend.GetInfo()["type"],
	})
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(router *gin.Engine) {
	offerHandler := handlers.NewOfferHandler(s.engine)
	objectHandler := handlers.NewObjectHandler(s.engine)
	interestHandler := handlers.NewInterestHandler(s.engine)
	typeHandler := handlers.NewTypeHandler(services.NewTypeService(s.backend.Types()))

	api := router.Group("/api")
	api.Use(auth.Authorize(s.tokens))
	handlers.RegisterRoutes(api, offerHandler, objectHandler, interestHandler, typeHandler)
}
