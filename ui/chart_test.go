package ui

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"filplus/internal/profiling"
	"filplus/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramView(t *testing.T, population []float64, marker float64) *ports.HistogramView {
	t.Helper()
	h, err := profiling.NewHistogramBuilder(5).Build(population)
	require.NoError(t, err)
	return &ports.HistogramView{
		Distribution: &ports.Distribution{
			MetricID:     "c_datacap_utilization_rate",
			MetricName:   "Datacap used (%)",
			ClientID:     "X",
			Population:   population,
			Marker:       marker,
			MarkerValid:  !math.IsNaN(marker),
			Label:        "c_datacap_utilization_rate: 50.0",
			MarkerYRange: [2]float64{1, float64(len(population))},
		},
		Histogram:    h,
		MarkerBucket: h.BucketIndex(marker),
	}
}

func TestRenderHistogramPNG(t *testing.T) {
	out, err := RenderHistogramPNG(histogramView(t, []float64{10, 20, 50, 50, 90}, 50))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, ChartWidth, img.Bounds().Dx())
	assert.Equal(t, ChartHeight, img.Bounds().Dy())
}

func TestRenderHistogramPNGDegenerate(t *testing.T) {
	_, err := RenderHistogramPNG(histogramView(t, []float64{7, 7, 7}, 7))
	assert.NoError(t, err)

	_, err = RenderHistogramPNG(histogramView(t, []float64{math.NaN(), math.NaN()}, math.NaN()))
	assert.NoError(t, err)
}

func TestStepSeriesOutline(t *testing.T) {
	view := histogramView(t, []float64{0, 1, 2, 3, 4}, 0)
	xs, ys := stepSeries(view)

	require.Len(t, xs, 2*len(view.Histogram.Buckets)+2)
	assert.Equal(t, len(xs), len(ys))
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, 0.0, ys[0])
	assert.Equal(t, 0.0, ys[len(ys)-1])
	for i := 1; i < len(xs); i++ {
		assert.GreaterOrEqual(t, xs[i], xs[i-1])
	}
}
