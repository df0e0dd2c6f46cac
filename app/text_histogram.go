package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"filplus/ports"

	"github.com/fatih/color"
)

var (
	labelColor  = color.New(color.Bold)
	barColor    = color.New(color.FgCyan)
	markerColor = color.New(color.FgRed, color.Bold)
	dimColor    = color.New(color.Faint)
)

// WriteTextHistogram draws view as one bar per bucket, scaled so the fullest
// bucket is width characters. The marker bucket is highlighted.
func WriteTextHistogram(w io.Writer, view *ports.HistogramView, width int) error {
	if width < 1 {
		width = 1
	}
	dist, h := view.Distribution, view.Histogram

	if _, err := labelColor.Fprintln(w, dist.Label); err != nil {
		return err
	}
	summary := fmt.Sprintf("%s, %d clients", dist.MetricName, h.Total)
	if h.Skipped > 0 {
		summary += fmt.Sprintf(", %d without a value", h.Skipped)
	}
	if _, err := dimColor.Fprintln(w, summary); err != nil {
		return err
	}
	if len(h.Buckets) == 0 {
		_, err := fmt.Fprintln(w, "no values to plot")
		return err
	}

	lowers := make([]string, len(h.Buckets))
	uppers := make([]string, len(h.Buckets))
	lw, uw := 0, 0
	for i, b := range h.Buckets {
		lowers[i] = formatEdge(b.Lower)
		uppers[i] = formatEdge(b.Upper)
		lw = max(lw, len(lowers[i]))
		uw = max(uw, len(uppers[i]))
	}

	for i, b := range h.Buckets {
		n := 0
		if h.MaxCount > 0 {
			n = b.Count * width / h.MaxCount
		}
		if b.Count > 0 && n == 0 {
			n = 1
		}
		bar := strings.Repeat("#", n)
		edge := fmt.Sprintf("[%*s, %*s)", lw, lowers[i], uw, uppers[i])

		var err error
		if i == view.MarkerBucket {
			_, err = fmt.Fprintf(w, "%s %s %d  %s\n", edge, markerColor.Sprint(bar), b.Count, markerColor.Sprint("<- "+dist.ClientID))
		} else {
			_, err = fmt.Fprintf(w, "%s %s %d\n", edge, barColor.Sprint(bar), b.Count)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
