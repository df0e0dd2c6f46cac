package ui

import (
	"io"
	"net/http"
	"testing"

	"filplus/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	svc := newTestService(t)
	return NewApp(svc, Config{
		Info: DatasetInfo{Rows: svc.Snapshot().RowCount(), LastUpdated: svc.Snapshot().LastUpdated()},
		Bins: 4,
	}, internal.NewLoggerTo(io.Discard, internal.LogLevelError))
}

func TestAppRoutes(t *testing.T) {
	a := newTestApp(t)

	w := get(t, a, "/api/clients")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"X", "Y", "Z"}, decode(t, w)["clients"])

	w = get(t, a, "/api/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["metrics"], 20)

	w = get(t, a, "/api/clients/Y/table")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Y", decode(t, w)["client_id"])

	w = get(t, a, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode(t, w)["rows"])
}

func TestAppDistributionUsesConfiguredBins(t *testing.T) {
	a := newTestApp(t)

	w := get(t, a, "/api/distribution?metric=c_datacap_utilization_rate&client=Z")
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode(t, w)["histogram"].(map[string]interface{})
	assert.Len(t, hist["buckets"], 4)
}

func TestAppErrors(t *testing.T) {
	a := newTestApp(t)

	w := get(t, a, "/api/clients/nobody/table")
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, "CLIENT_NOT_FOUND", body["code"])
	assert.NotEmpty(t, body["request_id"])

	w = get(t, a, "/api/distribution?metric=c_nope&client=X")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(t, a, "/chart/histogram.png?client=X")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppHistogramPNG(t *testing.T) {
	a := newTestApp(t)

	w := get(t, a, "/chart/histogram.png?metric=c_owner_verified_deal_concentration&client=X")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}
