// Package api provides the HTTP API server for svgg.
// It uses Echo framework to serve REST endpoints for inspecting and
// mutating container documents inside a configured work directory.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"evalgo.org/svgg/internal/config"
	"evalgo.org/svgg/internal/operations"
	"evalgo.org/svgg/internal/validation"
	"evalgo.org/svgg/internal/version"
)

const containerExt = ".svg"

// Server represents the svgg API server.
type Server struct {
	echo      *echo.Echo
	ops       *operations.Service
	config    *config.Config
	validator *validation.Validator
}

// New creates a new API server instance.
func New(cfg *config.Config, ops *operations.Service) *Server {
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug

	// Set custom error handler
	e.HTTPErrorHandler = HTTPErrorHandler

	server := &Server{
		echo:      e,
		ops:       ops,
		config:    cfg,
		validator: validation.New(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Logger middleware
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${time_rfc3339}] ${status} ${method} ${uri} (${latency_human})\n",
	}))

	// Recover middleware
	s.echo.Use(middleware.Recover())

	// Security headers middleware
	s.echo.Use(SecurityHeaders)

	// CORS middleware
	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-API-Key"},
		}))
	}

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Rate limiting
	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}

	// Content-Type and Accept validation for API routes
	s.echo.Use(ValidateContentType)
	s.echo.Use(ValidateAcceptHeader)
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/", s.healthCheck)

	auth := RequireAPIKey(s.config.Security.APIKeys)

	// API v1 group
	v1 := s.echo.Group("/api/v1", auth)

	// Container routes
	containers := v1.Group("/containers")
	containers.GET("", s.listContainers)
	containers.POST("", s.createContainer)
	containers.GET("/:name", s.getContainer, ValidateContainerName)

	// Entry routes
	containers.GET("/:name/entries", s.listEntries, ValidateContainerName)
	containers.GET("/:name/entries/*", s.downloadEntry, ValidateContainerName)
	containers.POST("/:name/import", s.importFiles, ValidateContainerName)
	containers.POST("/:name/exclude", s.excludeEntries, ValidateContainerName)

	// Metadata routes
	containers.GET("/:name/metadata", s.getMetadata, ValidateContainerName)
	containers.PUT("/:name/metadata", s.updateMetadata, ValidateContainerName)
	containers.DELETE("/:name/metadata", s.removeMetadata, ValidateContainerName)

	// Structure and changelog routes
	containers.GET("/:name/structure", s.getStructure, ValidateContainerName)
	containers.GET("/:name/changelog", s.getChangelog, ValidateContainerName)

	// Integrity routes
	containers.GET("/:name/audit", s.auditContainer, ValidateContainerName)
	containers.POST("/:name/repair", s.repairContainer, ValidateContainerName)

	// Validation routes
	validate := v1.Group("/validate")
	validate.POST("/document", s.validateDocument)
	validate.POST("/container/:name", s.validateContainer, ValidateContainerName)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	fmt.Printf("Starting svgg API server\n")
	fmt.Printf("   Address: http://%s\n", addr)
	fmt.Printf("   Work directory: %s\n", s.config.Server.WorkDir)
	fmt.Printf("   Debug: %v\n", s.config.Server.Debug)
	fmt.Println()

	// Configure server timeouts
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}

// healthCheck handles health check requests.
func (s *Server) healthCheck(c echo.Context) error {
	if _, err := os.Stat(s.config.Server.WorkDir); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   "work directory unavailable",
			"details": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"service":  "svgg",
		"version":  version.Version,
		"work_dir": s.config.Server.WorkDir,
	})
}

// containerPath resolves a container name inside the work directory.
// Names arrive pre-validated, the Clean is a second fence.
func (s *Server) containerPath(name string) string {
	if !strings.HasSuffix(name, containerExt) {
		name += containerExt
	}
	return filepath.Join(s.config.Server.WorkDir, filepath.Clean(name))
}

// ServeHTTP allows Server to implement http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
