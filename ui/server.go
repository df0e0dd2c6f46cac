package ui

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"filplus/internal"
	"filplus/ports"

	"github.com/gin-gonic/gin"
)

// DefaultMetric is selected when the page is opened without a metric
const DefaultMetric = "c_owner_verified_deal_concentration"

// Title is the page and window title
const Title = "Fil+ Client Metric Explorer"

// DatasetInfo describes the loaded file for the page footer and health check
type DatasetInfo struct {
	Source      string `json:"source"`
	LastUpdated string `json:"last_updated"`
	Rows        int    `json:"rows"`
}

// Server represents the web server hosting the client metric dashboard
type Server struct {
	router    *gin.Engine
	views     ports.MetricViewPort
	info      DatasetInfo
	templates *template.Template
	assets    fs.FS
	logger    *internal.Logger
	bins      int
}

// NewServer creates a new web server instance serving assets (templates/ and static/)
func NewServer(assets fs.FS, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Server{
		router: gin.New(),
		assets: assets,
		logger: logger.With("Server"),
	}
}

// Initialize sets up the server with dependencies
func (s *Server) Initialize(views ports.MetricViewPort, info DatasetInfo, bins int) error {
	s.views = views
	s.info = info
	s.bins = bins

	templates, err := parseTemplates(s.assets)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/about", s.handleAbout)
	s.router.GET("/healthz", s.handleHealth)

	// HTMX fragment swapped in whenever a selector changes
	s.router.GET("/fragments/view", s.handleViewFragment)

	api := s.router.Group("/api")
	api.GET("/clients", s.handleClients)
	api.GET("/metrics", s.handleMetrics)
	api.GET("/clients/:id/table", s.handleClientTable)
	api.GET("/distribution", s.handleDistribution)

	s.router.GET("/chart/histogram.png", s.handleHistogramPNG)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting %s on http://%s", Title, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
