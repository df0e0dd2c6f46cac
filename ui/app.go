package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"filplus/internal"
	"filplus/internal/errors"
	"filplus/ports"
)

// App serves the JSON API and chart on chi, for hosts that do not run gin
type App struct {
	router *chi.Mux
	views  ports.MetricViewPort
	info   DatasetInfo
	bins   int
	logger *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Info DatasetInfo
	Bins int
}

// NewApp creates a new UI application
func NewApp(views ports.MetricViewPort, config Config, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	app := &App{
		router: chi.NewRouter(),
		views:  views,
		info:   config.Info,
		bins:   config.Bins,
		logger: logger.With("App"),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5, "application/json"))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/clients", a.handleClients)
		r.Get("/metrics", a.handleMetrics)
		r.Get("/clients/{id}/table", a.handleClientTable)
		r.Get("/distribution", a.handleDistribution)
	})

	a.router.Get("/chart/histogram.png", a.handleHistogramPNG)
}

// ServeHTTP makes App an http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"rows":         a.info.Rows,
		"last_updated": a.info.LastUpdated,
	})
}

func (a *App) handleClients(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"clients": a.views.Clients()})
}

func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"metrics": a.views.Metrics()})
}

func (a *App) handleClientTable(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	rows, err := a.views.ClientRows(clientID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"client_id": clientID, "rows": rows})
}

func (a *App) histogram(r *http.Request) (*ports.HistogramView, error) {
	q := r.URL.Query()
	bins, err := parseBins(q.Get("bins"))
	if err != nil {
		return nil, err
	}
	if bins == 0 {
		bins = a.bins
	}
	metricID, clientID := q.Get("metric"), q.Get("client")
	if metricID == "" || clientID == "" {
		return nil, errors.InvalidInput("metric and client query parameters are required")
	}
	return a.views.Histogram(metricID, clientID, bins)
}

func (a *App) handleDistribution(w http.ResponseWriter, r *http.Request) {
	view, err := a.histogram(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, view)
}

func (a *App) handleHistogramPNG(w http.ResponseWriter, r *http.Request) {
	view, err := a.histogram(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	png, err := RenderHistogramPNG(view)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error("Error writing JSON response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("Request %s failed: %v", middleware.GetReqID(r.Context()), err)
	}
	a.writeJSON(w, status, map[string]interface{}{
		"error":      err.Error(),
		"code":       errors.GetCode(err),
		"request_id": middleware.GetReqID(r.Context()),
	})
}
