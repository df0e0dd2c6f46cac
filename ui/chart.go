package ui

import (
	"bytes"
	"math"

	"filplus/internal/errors"
	"filplus/ports"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart geometry of the distribution figure
const (
	ChartWidth  = 600
	ChartHeight = 500
)

var (
	barColor    = drawing.ColorFromHex("1f77b4")
	markerColor = drawing.ColorFromHex("d62728")
)

// RenderHistogramPNG draws the bucketed population as a filled step series
// with a vertical line at the selected client's value.
func RenderHistogramPNG(view *ports.HistogramView) ([]byte, error) {
	dist := view.Distribution
	h := view.Histogram

	xs, ys := stepSeries(view)
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    dist.MetricID,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: barColor,
				FillColor:   barColor.WithAlpha(160),
				StrokeWidth: 1,
			},
		},
	}

	yMax := math.Max(float64(h.MaxCount), dist.MarkerYRange[1])
	if yMax < 1 {
		yMax = 1
	}

	if dist.MarkerValid {
		series = append(series, chart.ContinuousSeries{
			Name:    dist.Label,
			XValues: []float64{dist.Marker, dist.Marker},
			YValues: []float64{dist.MarkerYRange[0], dist.MarkerYRange[1]},
			Style: chart.Style{
				StrokeColor: markerColor,
				StrokeWidth: 2,
			},
		})
	}

	ch := chart.Chart{
		Title:      dist.Label,
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  dist.MetricName,
			Range: &chart.ContinuousRange{Min: xs[0], Max: xs[len(xs)-1]},
		},
		YAxis: chart.YAxis{
			Name:  "clients",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrapf(err, "rendering histogram for %s", dist.MetricID)
	}
	return buf.Bytes(), nil
}

// stepSeries traces the bucket outline; an empty histogram becomes a flat line
func stepSeries(view *ports.HistogramView) ([]float64, []float64) {
	buckets := view.Histogram.Buckets
	if len(buckets) == 0 {
		lo, hi := 0.0, 1.0
		if view.Distribution.MarkerValid {
			lo, hi = view.Distribution.Marker-0.5, view.Distribution.Marker+0.5
		}
		return []float64{lo, hi}, []float64{0, 0}
	}

	xs := make([]float64, 0, 2*len(buckets)+2)
	ys := make([]float64, 0, 2*len(buckets)+2)
	xs = append(xs, buckets[0].Lower)
	ys = append(ys, 0)
	for _, b := range buckets {
		xs = append(xs, b.Lower, b.Upper)
		c := float64(b.Count)
		ys = append(ys, c, c)
	}
	last := buckets[len(buckets)-1].Upper
	xs = append(xs, last)
	ys = append(ys, 0)
	return xs, ys
}
