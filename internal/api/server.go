// Package api provides the HTTP API server for boxtrace. It uses the Echo
// framework to serve container tracking and demurrage calculation endpoints
// over the lookup orchestrator and the calculation engine.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/freightops-pro/boxtrace/internal/adapters"
	"github.com/freightops-pro/boxtrace/internal/config"
	"github.com/freightops-pro/boxtrace/internal/demurrage"
	"github.com/freightops-pro/boxtrace/internal/tracking"
	"github.com/freightops-pro/boxtrace/internal/validation"
	"github.com/freightops-pro/boxtrace/internal/version"
)

// Server represents the boxtrace API server.
type Server struct {
	echo         *echo.Echo
	config       *config.Config
	registry     *adapters.Registry
	orchestrator *tracking.Orchestrator
	rules        *demurrage.RuleTable
	validator    *validation.Validator
}

// debugLog logs a message only if debug mode is enabled in config
func (s *Server) debugLog(format string, args ...interface{}) {
	if s.config.Server.Debug {
		log.Printf(format, args...)
	}
}

// New creates a new API server instance.
func New(cfg *config.Config, registry *adapters.Registry, orchestrator *tracking.Orchestrator, rules *demurrage.RuleTable) *Server {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug

	e.HTTPErrorHandler = HTTPErrorHandler

	server := &Server{
		echo:         e,
		config:       cfg,
		registry:     registry,
		orchestrator: orchestrator,
		rules:        rules,
		validator:    validation.New(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${time_rfc3339}] ${status} ${method} ${uri} (${latency_human})\n",
	}))

	s.echo.Use(middleware.Recover())

	s.echo.Use(SecurityHeaders)

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-API-Key"},
		}))
	}

	s.echo.Use(middleware.RequestID())

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}

	s.echo.Use(ValidateContentType)
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/", s.healthCheck)

	v1 := s.echo.Group("/api/v1", APIKeyAuth(s.config.Security.APIKeys))

	containers := v1.Group("/containers")
	containers.POST("/track", s.trackContainer)
	containers.GET("/:number/events", s.containerEvents)

	ports := v1.Group("/ports")
	ports.GET("", s.listPorts)
	ports.GET("/:code/rules", s.portRules)

	dem := v1.Group("/demurrage")
	dem.POST("/calculate", s.calculateDemurrage)
	dem.POST("/check", s.checkDemurrage)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	fmt.Printf("Starting boxtrace API server\n")
	fmt.Printf("   Address:  http://%s\n", addr)
	fmt.Printf("   Adapters: %d across %d ports\n", s.registry.Count(), len(s.registry.Ports()))
	fmt.Printf("   Debug:    %v\n", s.config.Server.Debug)
	fmt.Println()

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	fmt.Println("\nShutting down boxtrace API server...")

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	fmt.Println("Server shutdown complete")
	return nil
}

// healthCheck handles health check requests.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"service":  "boxtrace",
		"version":  version.Get().Version,
		"adapters": s.registry.Count(),
		"ports":    s.registry.Ports(),
	})
}

// ServeHTTP allows Server to implement http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
