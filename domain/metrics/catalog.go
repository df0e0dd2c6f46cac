package metrics

// Normalization identifies the unit conversion applied to a computed metric at load time
type Normalization string

const (
	// NormalizeNone passes the raw value through unrounded
	NormalizeNone Normalization = "none"
	// NormalizePercent turns a [0,1] fraction into a percentage with one decimal
	NormalizePercent Normalization = "percent"
	// NormalizeEpochsToDays converts chain epochs (30s each) into days with one decimal
	NormalizeEpochsToDays Normalization = "epochs_to_days"
	// NormalizeBytesToTiB converts bytes into tebibytes with one decimal
	NormalizeBytesToTiB Normalization = "bytes_to_tib"
)

// Conversion factors
const (
	EpochsPerDay  = 2880.0
	BytesPerTiB   = float64(1 << 40)
	PercentFactor = 100.0
)

// Prefixes marking dashboard-visible columns in the input file
const (
	MetricPrefix     = "c_"
	PercentilePrefix = "p_"
)

// Definition describes one computed metric
type Definition struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Normalization Normalization `json:"normalization"`
	// Truncated values are cut to TruncateWidth characters in the client table
	Truncated bool `json:"truncated"`
}

// TruncateWidth is the maximum number of characters kept for truncated values
const TruncateWidth = 5

var catalog = []Definition{
	{ID: "c_owner_verified_deal_concentration", Name: "Concentration of verified deals (%)", Normalization: NormalizePercent},
	{ID: "c_notary_datacap_alloc_concentration", Name: "Concentration of notary allocation (%)", Normalization: NormalizePercent},
	{ID: "c_total_datacap_received", Name: "Total datacap received (TiB)", Normalization: NormalizeBytesToTiB},
	{ID: "c_total_datacap_used", Name: "Total datacap used (TiB)", Normalization: NormalizeBytesToTiB},
	{ID: "c_datacap_utilization_rate", Name: "Datacap used (%)", Normalization: NormalizePercent},
	{ID: "c_max_single_provider_datacap_spent", Name: "Max datacap spend on an SP", Normalization: NormalizeBytesToTiB},
	{ID: "c_max_single_notary_datacap_received", Name: "Max datacap received from notary", Normalization: NormalizeBytesToTiB},
	{ID: "c_top3_provider_datacap_spent", Name: "Datacap spent on top 3 SPs", Normalization: NormalizeBytesToTiB},
	{ID: "c_top3_notary_datacap_received", Name: "Datacap received from top 3 notaries", Normalization: NormalizeBytesToTiB},
	{ID: "c_top3_provider_concentration_verified", Name: "Concentration of verified in top 3 SPs (%)", Normalization: NormalizePercent},
	{ID: "c_top3_notary_concentration", Name: "Concentration of datacap from top 3 notaries (%)", Normalization: NormalizePercent},
	{ID: "c_top5_provider_concentration_verified", Name: "Concentration of verified in top 5 SPs (%)", Normalization: NormalizePercent},
	{ID: "c_top5_notary_concentration", Name: "Concentration of datacap from top 5 notaries (%)", Normalization: NormalizePercent},
	{ID: "c_verified_deal_duration_avg", Name: "Avg. duration of verified deals (days)", Normalization: NormalizeEpochsToDays},
	{ID: "c_verified_deal_duration_std", Name: "Stdev. duration of verified deals (days)", Normalization: NormalizeEpochsToDays},
	{ID: "c_avg_price_per_epoch_per_unit_verified", Name: "Price per epoch per verified", Normalization: NormalizeNone},
	{ID: "c_frac_paid_verified_deals", Name: "Proportion of verified deals paid (%)", Normalization: NormalizePercent},
	{ID: "c_verified_deal_frequency", Name: "Verified deal frequency", Normalization: NormalizeNone, Truncated: true},
	{ID: "c_datacap_to_deal_timelapse_min", Name: "Min. time from allocation to deal", Normalization: NormalizeNone, Truncated: true},
	{ID: "c_datacap_to_deal_timelapse_avg", Name: "Avg. time from allocation to deal", Normalization: NormalizeNone, Truncated: true},
}

var byID = func() map[string]Definition {
	m := make(map[string]Definition, len(catalog))
	for _, d := range catalog {
		m[d.ID] = d
	}
	return m
}()

// Lookup returns the definition for id
func Lookup(id string) (Definition, bool) {
	d, ok := byID[id]
	return d, ok
}

// DisplayName returns the human readable name for id, or id itself when it is not catalogued
func DisplayName(id string) string {
	if d, ok := byID[id]; ok {
		return d.Name
	}
	return id
}

// NormalizationFor returns the conversion for id. Uncatalogued metrics pass through.
func NormalizationFor(id string) Normalization {
	if d, ok := byID[id]; ok {
		return d.Normalization
	}
	return NormalizeNone
}

// Truncated reports whether id's display value is cut to TruncateWidth characters
func Truncated(id string) bool {
	return byID[id].Truncated
}

// All returns a copy of the catalog in its fixed order
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}
