package testkit

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"filplus/domain/metrics"
)

// WorkingColumn is an upstream intermediate column the loader must drop
const WorkingColumn = "deal_count_raw"

// Record is one upstream row with raw metric values keyed by c_ identifier
// and percentile ranks keyed by p_ identifier
type Record struct {
	StatDate    string
	ClientID    string
	Metrics     map[string]float64
	Percentiles map[string]float64
	// Missing lists c_ identifiers written as empty cells
	Missing []string
}

// PercentileColumn returns the p_ column paired with a c_ metric
func PercentileColumn(metricID string) string {
	return metrics.PercentilePrefix + strings.TrimPrefix(metricID, metrics.MetricPrefix)
}

// Header returns the export header: pandas index, metadata, metrics, a working column, percentiles
func Header() []string {
	all := metrics.All()
	header := []string{"", "stat_date", "client_id"}
	for _, d := range all {
		header = append(header, d.ID)
	}
	header = append(header, WorkingColumn)
	for _, d := range all {
		header = append(header, PercentileColumn(d.ID))
	}
	return header
}

// Rows renders records as CSV rows, header first
func Rows(records []Record) [][]string {
	all := metrics.All()
	rows := [][]string{Header()}
	for i, rec := range records {
		missing := make(map[string]bool, len(rec.Missing))
		for _, id := range rec.Missing {
			missing[id] = true
		}
		row := []string{strconv.Itoa(i), rec.StatDate, rec.ClientID}
		for _, d := range all {
			if missing[d.ID] {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(rec.Metrics[d.ID]))
		}
		row = append(row, strconv.Itoa(i*7))
		for _, d := range all {
			row = append(row, formatFloat(rec.Percentiles[PercentileColumn(d.ID)]))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes records in the upstream export format
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(records)); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSVFile writes records to dir/name and returns the path
func WriteCSVFile(dir, name string, records []Record) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteCSV(f, records); err != nil {
		return "", err
	}
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ThreeClientRecords returns three clients X, Y and Z with hand-picked raw values.
// Client X has owner concentration 0.253, average deal duration 5760 epochs,
// 2^41 bytes received and utilization 0.5.
func ThreeClientRecords() []Record {
	base := map[string][3]float64{
		"c_owner_verified_deal_concentration":     {0.253, 0.5, 0.9},
		"c_notary_datacap_alloc_concentration":    {0.1, 0.42, 1},
		"c_total_datacap_received":                {1 << 41, 1 << 40, 3 << 40},
		"c_total_datacap_used":                    {1 << 40, 1 << 39, 3 << 40},
		"c_datacap_utilization_rate":              {0.5, 0.5, 1},
		"c_max_single_provider_datacap_spent":     {1 << 39, 1 << 38, 1 << 40},
		"c_max_single_notary_datacap_received":    {1 << 40, 1 << 40, 1 << 41},
		"c_top3_provider_datacap_spent":           {1 << 40, 1 << 39, 2 << 40},
		"c_top3_notary_datacap_received":          {1 << 41, 1 << 40, 3 << 40},
		"c_top3_provider_concentration_verified":  {0.75, 0.333, 1},
		"c_top3_notary_concentration":             {1, 1, 1},
		"c_top5_provider_concentration_verified":  {0.9, 0.5, 1},
		"c_top5_notary_concentration":             {1, 1, 1},
		"c_verified_deal_duration_avg":            {5760, 1036800, 1555200},
		"c_verified_deal_duration_std":            {1440, 2880, 0},
		"c_avg_price_per_epoch_per_unit_verified": {0.000123456, 0, 0.5},
		"c_frac_paid_verified_deals":              {0.05, 0, 0.125},
		"c_verified_deal_frequency":               {0.123456789, 12.5, 3},
		"c_datacap_to_deal_timelapse_min":         {1234.56789, 60, 0},
		"c_datacap_to_deal_timelapse_avg":         {98765.4321, 120.25, 7},
	}
	ids := []string{"X", "Y", "Z"}
	percentiles := [3]float64{33.33, 66.67, 100}

	records := make([]Record, len(ids))
	for i, id := range ids {
		rec := Record{
			StatDate:    "2023-08-01",
			ClientID:    id,
			Metrics:     make(map[string]float64),
			Percentiles: make(map[string]float64),
		}
		for metricID, values := range base {
			rec.Metrics[metricID] = values[i]
			rec.Percentiles[PercentileColumn(metricID)] = percentiles[i]
		}
		records[i] = rec
	}
	return records
}
