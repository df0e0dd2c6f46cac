package app

import (
	"math"
	"strconv"
	"strings"

	"filplus/domain/dataset"
	"filplus/domain/metrics"
	"filplus/internal/errors"
	"filplus/internal/profiling"
	"filplus/ports"
)

// ViewService answers the two dashboard queries against a loaded snapshot.
// It holds no mutable state, so one instance serves concurrent requests.
type ViewService struct {
	snapshot  *dataset.Snapshot
	histogram *profiling.HistogramBuilder
}

var _ ports.MetricViewPort = (*ViewService)(nil)

// NewViewService creates a view service over snapshot bucketing histograms into bins buckets
func NewViewService(snapshot *dataset.Snapshot, bins int) *ViewService {
	return &ViewService{
		snapshot:  snapshot,
		histogram: profiling.NewHistogramBuilder(bins),
	}
}

// Snapshot returns the snapshot the views read from
func (s *ViewService) Snapshot() *dataset.Snapshot {
	return s.snapshot
}

// Clients lists the selectable client ids
func (s *ViewService) Clients() []string {
	return s.snapshot.ClientIDs()
}

// Metrics lists the selectable metrics in dataset column order
func (s *ViewService) Metrics() []ports.MetricOption {
	cols := s.snapshot.MetricColumns()
	out := make([]ports.MetricOption, len(cols))
	for i, id := range cols {
		out[i] = ports.MetricOption{ID: id, Name: metrics.DisplayName(id)}
	}
	return out
}

// ClientRows builds the client table: one row per metric column, in column
// order, pairing the normalized value with the aligned percentile.
func (s *ViewService) ClientRows(clientID string) ([]ports.DisplayRow, error) {
	i, ok := s.snapshot.RowIndex(clientID)
	if !ok {
		return nil, errors.ClientNotFound(clientID)
	}
	values := s.snapshot.Metrics.Rows[i].Values
	percentiles := s.snapshot.Percentiles.Rows[i].Values

	rows := make([]ports.DisplayRow, len(s.snapshot.Metrics.Columns))
	for j, metricID := range s.snapshot.Metrics.Columns {
		value := formatValue(values[j])
		if metrics.Truncated(metricID) {
			value = truncate(formatDecimal(values[j]), metrics.TruncateWidth)
		}
		rows[j] = ports.DisplayRow{
			MetricID:   metricID,
			Metric:     metrics.DisplayName(metricID),
			Value:      value,
			Percentile: formatValue(percentiles[j]),
		}
	}
	return rows, nil
}

// Distribution returns every row's value for metricID and the selected client's marker
func (s *ViewService) Distribution(metricID, clientID string) (*ports.Distribution, error) {
	j, ok := s.snapshot.MetricIndex(metricID)
	if !ok {
		return nil, errors.UnknownMetric(metricID)
	}
	i, ok := s.snapshot.RowIndex(clientID)
	if !ok {
		return nil, errors.ClientNotFound(clientID)
	}

	rows := s.snapshot.Metrics.Rows
	population := make([]float64, len(rows))
	for r, row := range rows {
		population[r] = number(row.Values[j])
	}
	marker := rows[i].Values[j]

	return &ports.Distribution{
		MetricID:     metricID,
		MetricName:   metrics.DisplayName(metricID),
		ClientID:     clientID,
		Population:   population,
		Marker:       number(marker),
		MarkerValid:  marker.Valid,
		Label:        metricID + ": " + formatDecimal(marker),
		MarkerYRange: [2]float64{1, float64(len(rows))},
	}, nil
}

// Histogram buckets the distribution of metricID. bins <= 0 uses the service default.
func (s *ViewService) Histogram(metricID, clientID string, bins int) (*ports.HistogramView, error) {
	dist, err := s.Distribution(metricID, clientID)
	if err != nil {
		return nil, err
	}

	builder := s.histogram
	if bins > 0 {
		builder = profiling.NewHistogramBuilder(bins)
	}
	h, err := builder.Build(dist.Population)
	if err != nil {
		return nil, errors.Wrapf(err, "bucketing %s", metricID)
	}

	return &ports.HistogramView{
		Distribution: dist,
		Histogram:    h,
		MarkerBucket: h.BucketIndex(dist.Marker),
	}, nil
}

func number(v dataset.Value) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Number
}

// formatValue renders the shortest decimal form; missing cells render empty
func formatValue(v dataset.Value) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// formatDecimal is formatValue with a trailing ".0" on whole numbers, so 50 renders as 50.0
func formatDecimal(v dataset.Value) string {
	s := formatValue(v)
	if s == "" || math.IsInf(v.Number, 0) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width]
}
