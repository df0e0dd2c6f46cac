package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Concentration of verified deals (%)", DisplayName("c_owner_verified_deal_concentration"))
	assert.Equal(t, "Datacap used (%)", DisplayName("c_datacap_utilization_rate"))
	// new upstream columns show up under their raw identifier
	assert.Equal(t, "c_brand_new_metric", DisplayName("c_brand_new_metric"))
}

func TestCatalogIsConsistent(t *testing.T) {
	all := All()
	assert.Len(t, all, 20)

	seen := make(map[string]bool)
	for _, d := range all {
		assert.True(t, strings.HasPrefix(d.ID, MetricPrefix), d.ID)
		assert.NotEmpty(t, d.Name, d.ID)
		assert.False(t, seen[d.ID], "duplicate %s", d.ID)
		seen[d.ID] = true
	}
}

func TestTruncatedList(t *testing.T) {
	var truncated []string
	for _, d := range All() {
		if Truncated(d.ID) {
			truncated = append(truncated, d.ID)
		}
	}
	assert.Equal(t, []string{
		"c_verified_deal_frequency",
		"c_datacap_to_deal_timelapse_min",
		"c_datacap_to_deal_timelapse_avg",
	}, truncated)
	assert.False(t, Truncated("c_unknown"))
}

func TestNormalizationFor(t *testing.T) {
	assert.Equal(t, NormalizePercent, NormalizationFor("c_frac_paid_verified_deals"))
	assert.Equal(t, NormalizeEpochsToDays, NormalizationFor("c_verified_deal_duration_std"))
	assert.Equal(t, NormalizeBytesToTiB, NormalizationFor("c_top3_notary_datacap_received"))
	assert.Equal(t, NormalizeNone, NormalizationFor("c_avg_price_per_epoch_per_unit_verified"))
	assert.Equal(t, NormalizeNone, NormalizationFor("c_unknown"))
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	assert.Equal(t, "Concentration of verified deals (%)", DisplayName(all[0].ID))
}
