package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/casefetch/court-api/internal/api/handlers"
	"github.com/casefetch/court-api/internal/api/middleware"
	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/services"
)

// Server represents the HTTP server
type Server struct {
	Router   *gin.Engine
	config   *config.Config
	logger   *logrus.Logger
	services *services.Container
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, logger *logrus.Logger, services *services.Container) *Server {
	server := &Server{
		config:   cfg,
		logger:   logger,
		services: services,
	}

	server.setupRouter()
	return server
}

// setupRouter configures the router with all routes and middleware
func (s *Server) setupRouter() {
	s.Router = gin.New()

	// Global middleware
	s.Router.Use(middleware.Logger(s.logger))
	s.Router.Use(middleware.Recovery(s.logger))
	s.Router.Use(middleware.CORS(s.config.Security.CORS))
	s.Router.Use(middleware.Security())
	s.Router.Use(middleware.RequestID())

	rateLimiter := middleware.NewRateLimiter(s.config.Security.RateLimit)
	s.Router.Use(rateLimiter.Middleware())

	// Health check endpoints
	healthHandler := handlers.NewHealthHandler(s.services, s.logger)
	s.Router.GET("/health", healthHandler.GetHealth)
	s.Router.GET("/health/ready", healthHandler.GetReadiness)
	s.Router.GET("/health/live", healthHandler.GetLiveness)

	// Swagger documentation
	if s.config.Server.Environment != "production" {
		s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		s.Router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
	}

	// API v1 routes
	v1 := s.Router.Group("/api/v1")
	{
		caseHandler := handlers.NewCaseHandler(s.services.CaseService, s.logger)
		cases := v1.Group("/cases")
		{
			cases.POST("/search", caseHandler.Search)
			cases.POST("/retry", caseHandler.Retry)
			cases.GET("", caseHandler.History)
			cases.GET("/stats", caseHandler.Stats)
			cases.GET("/types", caseHandler.CaseTypes)
			cases.GET("/lookup/:number", caseHandler.Lookup)
			cases.GET("/:id", caseHandler.GetCase)
		}

		orderHandler := handlers.NewOrderHandler(s.services.CaseService, s.logger)
		orders := v1.Group("/orders")
		{
			orders.GET("/:id/download", orderHandler.Download)
		}

		diagnosticsHandler := handlers.NewDiagnosticsHandler(s.services.CaseService, s.logger)
		diagnostics := v1.Group("/diagnostics")
		{
			diagnostics.GET("/captcha", diagnosticsHandler.ProbeCaptcha)
		}

		cacheHandler := handlers.NewCacheHandler(s.services.CacheService, s.logger)
		cache := v1.Group("/cache")
		{
			cache.GET("/stats", cacheHandler.GetStats)
			cache.DELETE("/clear", cacheHandler.Clear)
			cache.DELETE("/case", cacheHandler.Delete)
		}
	}

	// 404 handler
	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not Found",
			"message":   "The requested resource was not found",
			"timestamp": time.Now(),
			"path":      c.Request.URL.Path,
		})
	})

	// 405 handler
	s.Router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":     "Method Not Allowed",
			"message":   "The requested method is not allowed for this resource",
			"timestamp": time.Now(),
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
		})
	})
}
