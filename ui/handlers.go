package ui

import (
	"net/http"
	"net/url"
	"strconv"

	"filplus/internal/errors"
	"filplus/ports"
	"filplus/ui/middleware"
	"filplus/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// viewData is the model shared by the index page and the view fragment
type viewData struct {
	Title          string
	Info           DatasetInfo
	Clients        []string
	Metrics        []ports.MetricOption
	SelectedClient string
	SelectedMetric string
	Rows           []ports.DisplayRow
	Label          string
	ChartURL       string
}

// handleIndex renders the dashboard page
func (s *Server) handleIndex(c *gin.Context) {
	data, err := s.buildView(c.Query("client"), c.Query("metric"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.IndexPage, data)
}

// handleViewFragment renders the table and chart for the current selection
func (s *Server) handleViewFragment(c *gin.Context) {
	data, err := s.buildView(c.Query("client"), c.Query("metric"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.ViewFragment, data)
}

// buildView resolves the selection, applying defaults for empty parameters
func (s *Server) buildView(clientID, metricID string) (*viewData, error) {
	data := &viewData{
		Title:   Title,
		Info:    s.info,
		Clients: s.views.Clients(),
		Metrics: s.views.Metrics(),
	}
	if clientID == "" && len(data.Clients) > 0 {
		clientID = data.Clients[0]
	}
	if metricID == "" {
		metricID = s.defaultMetric(data.Metrics)
	}
	data.SelectedClient = clientID
	data.SelectedMetric = metricID

	if clientID == "" || metricID == "" {
		return data, nil
	}

	rows, err := s.views.ClientRows(clientID)
	if err != nil {
		return nil, err
	}
	dist, err := s.views.Distribution(metricID, clientID)
	if err != nil {
		return nil, err
	}
	data.Rows = rows
	data.Label = dist.Label
	data.ChartURL = chartURL(metricID, clientID)
	return data, nil
}

func (s *Server) defaultMetric(options []ports.MetricOption) string {
	for _, option := range options {
		if option.ID == DefaultMetric {
			return DefaultMetric
		}
	}
	if len(options) > 0 {
		return options[0].ID
	}
	return ""
}

func chartURL(metricID, clientID string) string {
	q := url.Values{}
	q.Set("metric", metricID)
	q.Set("client", clientID)
	return "/chart/histogram.png?" + q.Encode()
}

// handleClients lists the client selector entries
func (s *Server) handleClients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clients": s.views.Clients()})
}

// handleMetrics lists the metric selector entries
func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": s.views.Metrics()})
}

// handleClientTable returns the client table as JSON, or as HTML for HTMX
func (s *Server) handleClientTable(c *gin.Context) {
	clientID := c.Param("id")
	rows, err := s.views.ClientRows(clientID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if isHTMX(c) {
		s.renderTemplate(c, http.StatusOK, fragments.ClientTableFragment, gin.H{
			"ClientID": clientID,
			"Rows":     rows,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client_id": clientID, "rows": rows})
}

// handleDistribution returns the histogram population, buckets and marker
func (s *Server) handleDistribution(c *gin.Context) {
	view, err := s.histogram(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// handleHistogramPNG renders the distribution chart as an image
func (s *Server) handleHistogramPNG(c *gin.Context) {
	view, err := s.histogram(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	png, err := RenderHistogramPNG(view)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// handleAbout renders the metric glossary
func (s *Server) handleAbout(c *gin.Context) {
	body, err := s.aboutHTML()
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.AboutPage, gin.H{
		"Title": Title,
		"Info":  s.info,
		"Body":  body,
	})
}

// handleHealth reports liveness and the loaded row count
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"rows":         s.info.Rows,
		"last_updated": s.info.LastUpdated,
	})
}

// histogram answers a metric/client/bins query
func (s *Server) histogram(c *gin.Context) (*ports.HistogramView, error) {
	bins, err := parseBins(c.Query("bins"))
	if err != nil {
		return nil, err
	}
	if bins == 0 {
		bins = s.bins
	}
	metricID, clientID := c.Query("metric"), c.Query("client")
	if metricID == "" || clientID == "" {
		return nil, errors.InvalidInput("metric and client query parameters are required")
	}
	return s.views.Histogram(metricID, clientID, bins)
}

// parseBins reads an optional positive bucket count; "" means the default
func parseBins(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	bins, err := strconv.Atoi(raw)
	if err != nil || bins <= 0 || bins > maxBins {
		return 0, errors.InvalidInput("bins must be an integer between 1 and " + strconv.Itoa(maxBins))
	}
	return bins, nil
}

const maxBins = 500

// StatusFor maps an error code to an HTTP status. Errors without a code are 500.
func StatusFor(err error) int {
	switch {
	case !errors.IsAppError(err):
		return http.StatusInternalServerError
	case errors.HasCode(err, errors.CodeClientNotFound), errors.HasCode(err, errors.CodeUnknownMetric):
		return http.StatusNotFound
	case errors.HasCode(err, errors.CodeInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON, or as an HTML fragment for HTMX requests
func (s *Server) respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	code := errors.GetCode(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request %s failed: %v", middleware.GetRequestID(c), err)
	} else {
		s.logger.Debug("Request %s rejected: %v", middleware.GetRequestID(c), err)
	}

	if isHTMX(c) {
		s.renderTemplate(c, status, fragments.ErrorFragment, gin.H{"Code": code, "Message": err.Error()})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}
