package dataset

import (
	"fmt"
	"time"

	"filplus/internal/errors"
)

// Metadata columns every input file must carry
const (
	ColumnStatDate = "stat_date"
	ColumnClientID = "client_id"
)

// DuplicatePolicy decides which row represents a client that appears more than once
type DuplicatePolicy string

const (
	// DuplicateLatest picks the row with the greatest stat_date, first one on ties
	DuplicateLatest DuplicatePolicy = "latest"
	// DuplicateFirst picks the first row in file order
	DuplicateFirst DuplicatePolicy = "first"
	// DuplicateReject fails snapshot construction
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy validates a policy name
func ParseDuplicatePolicy(name string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(name); p {
	case DuplicateLatest, DuplicateFirst, DuplicateReject:
		return p, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown duplicate policy %q", name))
}

// Value is one numeric cell. Valid is false for empty cells.
type Value struct {
	Number float64
	Valid  bool
}

// Num builds a valid Value
func Num(v float64) Value {
	return Value{Number: v, Valid: true}
}

// Row is one client record on one stat_date
type Row struct {
	StatDate string
	ClientID string
	Values   []Value
}

// Table holds rows whose Values are aligned with Columns
type Table struct {
	Columns []string
	Rows    []Row
}

// Snapshot is the immutable, load-once view of the input file. Metrics holds
// normalized computed metrics, Percentiles the untouched percentile ranks.
// Row i of Metrics and row i of Percentiles describe the same record, and
// column j of Metrics is ranked by column j of Percentiles.
type Snapshot struct {
	Source      string
	LoadedAt    time.Time
	Metrics     Table
	Percentiles Table

	policy      DuplicatePolicy
	clientRows  map[string]int
	clientIDs   []string
	metricIndex map[string]int
	lastUpdated string
}

// NewSnapshot checks alignment between the two tables and indexes clients per policy
func NewSnapshot(source string, metricsTable, percentiles Table, policy DuplicatePolicy) (*Snapshot, error) {
	if len(metricsTable.Columns) != len(percentiles.Columns) {
		return nil, errors.LoadFailed(fmt.Sprintf("%d metric columns but %d percentile columns",
			len(metricsTable.Columns), len(percentiles.Columns)))
	}
	if len(metricsTable.Rows) != len(percentiles.Rows) {
		return nil, errors.LoadFailed(fmt.Sprintf("%d metric rows but %d percentile rows",
			len(metricsTable.Rows), len(percentiles.Rows)))
	}

	s := &Snapshot{
		Source:      source,
		LoadedAt:    time.Now(),
		Metrics:     metricsTable,
		Percentiles: percentiles,
		policy:      policy,
		clientRows:  make(map[string]int),
		metricIndex: make(map[string]int, len(metricsTable.Columns)),
	}

	for j, col := range metricsTable.Columns {
		if _, dup := s.metricIndex[col]; dup {
			return nil, errors.LoadFailed(fmt.Sprintf("duplicate metric column %q", col))
		}
		s.metricIndex[col] = j
	}

	for i, row := range metricsTable.Rows {
		prow := percentiles.Rows[i]
		if row.ClientID != prow.ClientID || row.StatDate != prow.StatDate {
			return nil, errors.LoadFailed(fmt.Sprintf("row %d misaligned: metrics (%s, %s) vs percentiles (%s, %s)",
				i, row.ClientID, row.StatDate, prow.ClientID, prow.StatDate))
		}
		if len(row.Values) != len(metricsTable.Columns) || len(prow.Values) != len(percentiles.Columns) {
			return nil, errors.LoadFailed(fmt.Sprintf("row %d has the wrong number of values", i))
		}
		if row.ClientID == "" {
			return nil, errors.LoadFailed(fmt.Sprintf("row %d has an empty client_id", i))
		}
		if compareDates(row.StatDate, s.lastUpdated) > 0 {
			s.lastUpdated = row.StatDate
		}

		existing, seen := s.clientRows[row.ClientID]
		if !seen {
			s.clientRows[row.ClientID] = i
			s.clientIDs = append(s.clientIDs, row.ClientID)
			continue
		}
		switch policy {
		case DuplicateReject:
			return nil, errors.LoadFailed(fmt.Sprintf("client %q appears on more than one row (rows %d and %d)",
				row.ClientID, existing, i))
		case DuplicateLatest:
			if compareDates(row.StatDate, metricsTable.Rows[existing].StatDate) > 0 {
				s.clientRows[row.ClientID] = i
			}
		}
	}

	return s, nil
}

// RowCount is the number of records, duplicates included
func (s *Snapshot) RowCount() int {
	return len(s.Metrics.Rows)
}

// RowIndex returns the row selected for clientID
func (s *Snapshot) RowIndex(clientID string) (int, bool) {
	i, ok := s.clientRows[clientID]
	return i, ok
}

// MetricIndex returns the column position of metricID
func (s *Snapshot) MetricIndex(metricID string) (int, bool) {
	j, ok := s.metricIndex[metricID]
	return j, ok
}

// ClientIDs returns distinct client ids in first-appearance order
func (s *Snapshot) ClientIDs() []string {
	out := make([]string, len(s.clientIDs))
	copy(out, s.clientIDs)
	return out
}

// MetricColumns returns the computed-metric identifiers in file order
func (s *Snapshot) MetricColumns() []string {
	out := make([]string, len(s.Metrics.Columns))
	copy(out, s.Metrics.Columns)
	return out
}

// LastUpdated is the greatest stat_date present
func (s *Snapshot) LastUpdated() string {
	return s.lastUpdated
}

// Policy returns the duplicate policy the snapshot was indexed with
func (s *Snapshot) Policy() DuplicatePolicy {
	return s.policy
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

func parseDate(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// compareDates orders stat_date strings, parsing them when possible and
// falling back to lexical order. The empty string sorts first.
func compareDates(a, b string) int {
	switch {
	case a == b:
		return 0
	case b == "":
		return 1
	case a == "":
		return -1
	}
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	if okA && okB {
		return ta.Compare(tb)
	}
	if a < b {
		return -1
	}
	return 1
}
