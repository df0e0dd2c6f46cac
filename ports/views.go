package ports

import (
	"encoding/json"
	"math"

	"filplus/internal/profiling"
)

// MetricViewPort is what a UI host needs from the core: selector contents and
// the two selection-driven queries. Implementations must be safe for
// concurrent use.
type MetricViewPort interface {
	Clients() []string
	Metrics() []MetricOption
	ClientRows(clientID string) ([]DisplayRow, error)
	Distribution(metricID, clientID string) (*Distribution, error)
	Histogram(metricID, clientID string, bins int) (*HistogramView, error)
}

// MetricOption is one entry of the metric selector
type MetricOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayRow is one line of the client table
type DisplayRow struct {
	MetricID   string `json:"metric_id"`
	Metric     string `json:"metric"`
	Value      string `json:"value"`
	Percentile string `json:"percentile"`
}

// Distribution is the histogram population for one metric plus the selected
// client's marker. Population has one entry per dataset row; missing cells are NaN.
type Distribution struct {
	MetricID     string
	MetricName   string
	ClientID     string
	Population   []float64
	Marker       float64
	MarkerValid  bool
	Label        string
	MarkerYRange [2]float64
}

type distributionJSON struct {
	MetricID     string     `json:"metric_id"`
	MetricName   string     `json:"metric_name"`
	ClientID     string     `json:"client_id"`
	Population   []*float64 `json:"population"`
	Marker       *float64   `json:"marker"`
	Label        string     `json:"label"`
	MarkerYRange [2]float64 `json:"marker_y_range"`
}

// MarshalJSON encodes NaN entries as null
func (d *Distribution) MarshalJSON() ([]byte, error) {
	out := distributionJSON{
		MetricID:     d.MetricID,
		MetricName:   d.MetricName,
		ClientID:     d.ClientID,
		Population:   make([]*float64, len(d.Population)),
		Marker:       nullable(d.Marker),
		Label:        d.Label,
		MarkerYRange: d.MarkerYRange,
	}
	for i, v := range d.Population {
		out.Population[i] = nullable(v)
	}
	return json.Marshal(out)
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// HistogramView is a distribution with its buckets and the bucket holding the marker
type HistogramView struct {
	Distribution *Distribution        `json:"distribution"`
	Histogram    *profiling.Histogram `json:"histogram"`
	MarkerBucket int                  `json:"marker_bucket"`
}
