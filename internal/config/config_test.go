package config

import (
	"testing"

	"filplus/domain/dataset"
	"filplus/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_FILE", "PORT", "GIN_MODE", "DUPLICATE_POLICY", "HISTOGRAM_BINS", "PPROF_ENABLED", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "assets/filplus_data.csv", cfg.Data.File)
	assert.Equal(t, string(dataset.DuplicateLatest), cfg.Data.DuplicatePolicy)
	assert.Equal(t, 30, cfg.Data.HistogramBins)
	assert.Equal(t, "8050", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_FILE", "/srv/data.xlsx")
	t.Setenv("DUPLICATE_POLICY", "FIRST")
	t.Setenv("HISTOGRAM_BINS", "12")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/data.xlsx", cfg.Data.File)
	assert.Equal(t, string(dataset.DuplicateFirst), cfg.Data.DuplicatePolicy)
	assert.Equal(t, 12, cfg.Data.HistogramBins)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DUPLICATE_POLICY", "newest"},
		{"HISTOGRAM_BINS", "0"},
		{"PORT", "http"},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			t.Setenv(test.key, test.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadAcceptsEveryDuplicatePolicy(t *testing.T) {
	for _, policy := range []dataset.DuplicatePolicy{dataset.DuplicateLatest, dataset.DuplicateFirst, dataset.DuplicateReject} {
		t.Setenv("DUPLICATE_POLICY", string(policy))
		cfg, err := Load()
		require.NoError(t, err, policy)
		assert.Equal(t, string(policy), cfg.Data.DuplicatePolicy)
	}

	t.Setenv("DUPLICATE_POLICY", "newest")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown duplicate policy "newest"`)
}
