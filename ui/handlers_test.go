package ui

import (
	"io"
	"net/http"
	"testing"

	"filplus/internal"
	"filplus/internal/errors"
	"filplus/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockViews struct {
	mock.Mock
}

func (m *mockViews) Clients() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockViews) Metrics() []ports.MetricOption {
	return m.Called().Get(0).([]ports.MetricOption)
}

func (m *mockViews) ClientRows(clientID string) ([]ports.DisplayRow, error) {
	args := m.Called(clientID)
	rows, _ := args.Get(0).([]ports.DisplayRow)
	return rows, args.Error(1)
}

func (m *mockViews) Distribution(metricID, clientID string) (*ports.Distribution, error) {
	args := m.Called(metricID, clientID)
	dist, _ := args.Get(0).(*ports.Distribution)
	return dist, args.Error(1)
}

func (m *mockViews) Histogram(metricID, clientID string, bins int) (*ports.HistogramView, error) {
	args := m.Called(metricID, clientID, bins)
	view, _ := args.Get(0).(*ports.HistogramView)
	return view, args.Error(1)
}

func newMockServer(t *testing.T, views ports.MetricViewPort, bins int) *Server {
	t.Helper()
	server := NewServer(Assets(), internal.NewLoggerTo(io.Discard, internal.LogLevelError))
	require.NoError(t, server.Initialize(views, DatasetInfo{Rows: 0}, bins))
	return server
}

func TestHistogramUsesServerDefaultBins(t *testing.T) {
	views := &mockViews{}
	views.On("Histogram", "c_a", "f01", 30).Return(nil, errors.InternalError("bucketing failed"))
	server := newMockServer(t, views, 30)

	w := get(t, server.Handler(), "/api/distribution?metric=c_a&client=f01")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errors.CodeInternalError, decode(t, w)["code"])
	views.AssertExpectations(t)
}

func TestHistogramPassesRequestedBins(t *testing.T) {
	views := &mockViews{}
	views.On("Histogram", "c_a", "f01", 7).Return(nil, errors.UnknownMetric("c_a"))
	server := newMockServer(t, views, 30)

	w := get(t, server.Handler(), "/api/distribution?metric=c_a&client=f01&bins=7")
	assert.Equal(t, http.StatusNotFound, w.Code)
	views.AssertExpectations(t)
}

func TestIndexEmptyDataset(t *testing.T) {
	views := &mockViews{}
	views.On("Clients").Return([]string{})
	views.On("Metrics").Return([]ports.MetricOption{})
	server := newMockServer(t, views, 30)

	w := get(t, server.Handler(), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), Title)
	assert.NotContains(t, w.Body.String(), "<img")
	views.AssertNotCalled(t, "ClientRows", mock.Anything)
}

func TestIndexFallsBackToFirstMetric(t *testing.T) {
	views := &mockViews{}
	views.On("Clients").Return([]string{"f01"})
	views.On("Metrics").Return([]ports.MetricOption{{ID: "c_other", Name: "Other"}})
	views.On("ClientRows", "f01").Return([]ports.DisplayRow{{MetricID: "c_other", Metric: "Other", Value: "1", Percentile: "50"}}, nil)
	views.On("Distribution", "c_other", "f01").Return(&ports.Distribution{MetricID: "c_other", Label: "c_other: 1"}, nil)
	server := newMockServer(t, views, 30)

	w := get(t, server.Handler(), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="c_other" selected>Other</option>`)
	views.AssertExpectations(t)
}
