package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"filplus/domain/metrics"
)

// ClientGeneratorConfig configures the synthetic client metrics generator
type ClientGeneratorConfig struct {
	ClientCount int       `json:"client_count"`
	StatDate    time.Time `json:"stat_date"`
	Seed        int64     `json:"seed"`
}

// DefaultClientConfig returns defaults sized like the production export
func DefaultClientConfig() ClientGeneratorConfig {
	return ClientGeneratorConfig{
		ClientCount: 1500,
		StatDate:    time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
		Seed:        42,
	}
}

// ClientDataGenerator produces records shaped like the upstream pipeline output,
// percentile ranks included
type ClientDataGenerator struct {
	config ClientGeneratorConfig
	rng    *rand.Rand
}

// NewClientDataGenerator creates a new generator
func NewClientDataGenerator(config ClientGeneratorConfig) *ClientDataGenerator {
	return &ClientDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns ClientCount records with raw (unnormalized) metric values
func (g *ClientDataGenerator) Generate() []Record {
	date := g.config.StatDate.Format("2006-01-02")
	records := make([]Record, g.config.ClientCount)
	for i := range records {
		records[i] = Record{
			StatDate:    date,
			ClientID:    fmt.Sprintf("f0%d", 100000+i*37),
			Metrics:     g.rawMetrics(),
			Percentiles: make(map[string]float64),
		}
	}
	assignPercentiles(records)
	return records
}

func (g *ClientDataGenerator) rawMetrics() map[string]float64 {
	out := make(map[string]float64)
	received := math.Exp(g.rng.NormFloat64()*1.5+3.5) * metrics.BytesPerTiB
	used := received * g.rng.Float64()
	for _, d := range metrics.All() {
		switch d.Normalization {
		case metrics.NormalizePercent:
			out[d.ID] = g.rng.Float64()
		case metrics.NormalizeEpochsToDays:
			out[d.ID] = float64(int(180+g.rng.Float64()*360) * int(metrics.EpochsPerDay))
		case metrics.NormalizeBytesToTiB:
			out[d.ID] = math.Floor(used * g.rng.Float64())
		default:
			out[d.ID] = g.rng.ExpFloat64() * 1e-3
		}
	}
	out["c_total_datacap_received"] = math.Floor(received)
	out["c_total_datacap_used"] = math.Floor(used)
	if used > 0 {
		out["c_datacap_utilization_rate"] = used / received
	}
	return out
}

// assignPercentiles ranks every metric across records on a 0-100 scale
func assignPercentiles(records []Record) {
	if len(records) == 0 {
		return
	}
	order := make([]int, len(records))
	for _, d := range metrics.All() {
		for i := range order {
			order[i] = i
		}
		id := d.ID
		sort.SliceStable(order, func(a, b int) bool {
			return records[order[a]].Metrics[id] < records[order[b]].Metrics[id]
		})
		for rank, idx := range order {
			p := 100.0
			if len(records) > 1 {
				p = float64(rank) / float64(len(records)-1) * 100
			}
			records[idx].Percentiles[PercentileColumn(id)] = math.Round(p*100) / 100
		}
	}
}
