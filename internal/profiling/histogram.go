package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bucket is one histogram bar covering [Lower, Upper)
type Bucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram is the bucketed view of a population, ready for plotting
type Histogram struct {
	Buckets  []Bucket `json:"buckets"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Total    int      `json:"total"`
	Skipped  int      `json:"skipped"` // NaN or infinite entries not plotted
	MaxCount int      `json:"max_count"`
}

// HistogramBuilder buckets populations into equal-width bins
type HistogramBuilder struct {
	bins int
}

// NewHistogramBuilder creates a builder producing bins buckets. Non-positive counts fall back to 1.
func NewHistogramBuilder(bins int) *HistogramBuilder {
	if bins < 1 {
		bins = 1
	}
	return &HistogramBuilder{bins: bins}
}

// Bins returns the configured bucket count
func (b *HistogramBuilder) Bins() int {
	return b.bins
}

// Build buckets population. NaN and infinite values are counted as skipped.
func (b *HistogramBuilder) Build(population []float64) (*Histogram, error) {
	values := make([]float64, 0, len(population))
	for _, v := range population {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			values = append(values, v)
		}
	}

	h := &Histogram{Total: len(population), Skipped: len(population) - len(values)}
	if len(values) == 0 {
		return h, nil
	}

	min, err := stats.Min(values)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return nil, err
	}
	h.Min, h.Max = min, max

	upper := max
	if upper == min {
		upper = min + 1
	}
	dividers := floats.Span(make([]float64, b.bins+1), min, upper)
	// stat.Histogram excludes the last divider, nudge it past the maximum
	dividers[b.bins] = math.Nextafter(upper, math.Inf(1))

	sort.Float64s(values)
	counts := stat.Histogram(nil, dividers, values, nil)

	h.Buckets = make([]Bucket, b.bins)
	for i := range h.Buckets {
		c := int(counts[i])
		h.Buckets[i] = Bucket{Lower: dividers[i], Upper: dividers[i+1], Count: c}
		if c > h.MaxCount {
			h.MaxCount = c
		}
	}
	return h, nil
}

// BucketIndex returns the bucket holding x, or -1 when x is outside the histogram
func (h *Histogram) BucketIndex(x float64) int {
	if len(h.Buckets) == 0 || math.IsNaN(x) {
		return -1
	}
	for i, bucket := range h.Buckets {
		if x >= bucket.Lower && x < bucket.Upper {
			return i
		}
	}
	return -1
}
