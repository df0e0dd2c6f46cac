package dataset

import (
	"math"

	"filplus/domain/metrics"
)

// Round1 rounds v to one decimal place. Halves go to the even neighbour, as numpy does.
func Round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// Normalize applies the load-time conversion for kind to a raw value
func Normalize(kind metrics.Normalization, v float64) float64 {
	switch kind {
	case metrics.NormalizePercent:
		return Round1(v * metrics.PercentFactor)
	case metrics.NormalizeEpochsToDays:
		return Round1(v / metrics.EpochsPerDay)
	case metrics.NormalizeBytesToTiB:
		return Round1(v / metrics.BytesPerTiB)
	default:
		return v
	}
}
