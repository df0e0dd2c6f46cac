package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"filplus/adapters/excel"
	domain "filplus/domain/dataset"
	"filplus/domain/metrics"
	"filplus/internal"
	"filplus/internal/errors"
)

// Loader reads the upstream metrics export once and produces an immutable snapshot
type Loader struct {
	policy domain.DuplicatePolicy
	logger *internal.Logger
}

// NewLoader creates a loader that indexes duplicate clients with policy
func NewLoader(policy domain.DuplicatePolicy, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{policy: policy, logger: logger.With("Loader")}
}

// LoadFile reads path (csv or xlsx) and builds the snapshot
func (l *Loader) LoadFile(path string) (*domain.Snapshot, error) {
	start := time.Now()

	data, err := excel.NewDataReader(excel.DefaultReaderConfig(path)).ReadData()
	if err != nil {
		return nil, errors.WithCode(errors.CodeLoadFailed, errors.Wrapf(err, "reading %s", path))
	}

	snapshot, err := l.Build(path, data)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded %s: %d rows, %d clients, %d metrics in %s",
		path, snapshot.RowCount(), len(snapshot.ClientIDs()), len(snapshot.Metrics.Columns), time.Since(start))
	return snapshot, nil
}

// columnLayout records where each column family sits in the raw headers
type columnLayout struct {
	statDate    int
	clientID    int
	metrics     []int
	percentiles []int
	dropped     []string
}

func partition(headers []string) (*columnLayout, error) {
	layout := &columnLayout{statDate: -1, clientID: -1}
	for i, h := range headers {
		switch {
		case h == domain.ColumnStatDate:
			layout.statDate = i
		case h == domain.ColumnClientID:
			layout.clientID = i
		case strings.HasPrefix(h, metrics.MetricPrefix):
			layout.metrics = append(layout.metrics, i)
		case strings.HasPrefix(h, metrics.PercentilePrefix):
			layout.percentiles = append(layout.percentiles, i)
		default:
			layout.dropped = append(layout.dropped, h)
		}
	}

	if layout.statDate < 0 {
		return nil, errors.LoadFailed("missing required column " + domain.ColumnStatDate)
	}
	if layout.clientID < 0 {
		return nil, errors.LoadFailed("missing required column " + domain.ColumnClientID)
	}
	if len(layout.metrics) != len(layout.percentiles) {
		return nil, errors.LoadFailed(fmt.Sprintf("found %d %s columns but %d %s columns",
			len(layout.metrics), metrics.MetricPrefix, len(layout.percentiles), metrics.PercentilePrefix))
	}
	return layout, nil
}

// Build partitions the raw columns, normalizes the metric family and pairs it
// positionally with the untouched percentile family.
func (l *Loader) Build(source string, data *excel.ExcelData) (*domain.Snapshot, error) {
	layout, err := partition(data.Headers)
	if err != nil {
		return nil, err
	}
	if len(layout.dropped) > 0 {
		l.logger.Debug("Dropping %d working columns: %v", len(layout.dropped), layout.dropped)
	}

	metricCols := make([]string, len(layout.metrics))
	kinds := make([]metrics.Normalization, len(layout.metrics))
	percentileCols := make([]string, len(layout.percentiles))
	for k, idx := range layout.metrics {
		metricCols[k] = data.Headers[idx]
		kinds[k] = metrics.NormalizationFor(metricCols[k])
		percentileCols[k] = data.Headers[layout.percentiles[k]]

		if strings.TrimPrefix(metricCols[k], metrics.MetricPrefix) != strings.TrimPrefix(percentileCols[k], metrics.PercentilePrefix) {
			l.logger.Warn("Column %s is paired with %s by position", metricCols[k], percentileCols[k])
		}
		if _, ok := metrics.Lookup(metricCols[k]); !ok {
			l.logger.Warn("Metric %s is not catalogued; showing it unconverted", metricCols[k])
		}
	}

	metricTable := domain.Table{Columns: metricCols, Rows: make([]domain.Row, 0, len(data.Rows))}
	percentileTable := domain.Table{Columns: percentileCols, Rows: make([]domain.Row, 0, len(data.Rows))}

	for r, raw := range data.Rows {
		statDate := raw[layout.statDate]
		clientID := raw[layout.clientID]

		mrow := domain.Row{StatDate: statDate, ClientID: clientID, Values: make([]domain.Value, len(layout.metrics))}
		prow := domain.Row{StatDate: statDate, ClientID: clientID, Values: make([]domain.Value, len(layout.percentiles))}

		for k, idx := range layout.metrics {
			v, err := parseCell(raw[idx])
			if err != nil {
				return nil, rowError(r, data.Headers[idx], err)
			}
			if v.Valid {
				v.Number = Normalize(kinds[k], v.Number)
			}
			mrow.Values[k] = v
		}
		for k, idx := range layout.percentiles {
			v, err := parseCell(raw[idx])
			if err != nil {
				return nil, rowError(r, data.Headers[idx], err)
			}
			prow.Values[k] = v
		}

		metricTable.Rows = append(metricTable.Rows, mrow)
		percentileTable.Rows = append(percentileTable.Rows, prow)
	}

	snapshot, err := domain.NewSnapshot(source, metricTable, percentileTable, l.policy)
	if err != nil {
		return nil, errors.Wrapf(err, "building snapshot from %s", source)
	}
	return snapshot, nil
}

func parseCell(cell string) (domain.Value, error) {
	if cell == "" {
		return domain.Value{}, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return domain.Value{}, err
	}
	if math.IsNaN(v) {
		return domain.Value{}, nil
	}
	if math.IsInf(v, 0) {
		return domain.Value{}, errNotFinite
	}
	return domain.Num(v), nil
}

var errNotFinite = fmt.Errorf("value is infinite")

func rowError(row int, column string, cause error) error {
	problem := "is not numeric"
	if cause == errNotFinite {
		problem = "is not finite"
	}
	return &errors.AppError{
		Code:    errors.CodeLoadFailed,
		Message: fmt.Sprintf("row %d column %s %s", row+1, column, problem),
		Cause:   cause,
	}
}
