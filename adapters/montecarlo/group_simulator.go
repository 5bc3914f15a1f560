package montecarlo

import (
	"fmt"
	"math"
	"math/rand"

	"gorisk/domain/core"
)

// SimulateGroupRisk draws one simulated risk estimate for a group of
// sampleSize subjects whose assumed true positive probability is p: it
// counts how many of sampleSize independent uniform draws in [0,1) fall
// strictly below p and divides by sampleSize. The result is distributed as
// Binomial(sampleSize, p) / sampleSize.
//
// The caller owns the stream; the draw consumes exactly sampleSize values.
func SimulateGroupRisk(rng *rand.Rand, sampleSize int, p float64) (float64, error) {
	if sampleSize <= 0 {
		return 0, fmt.Errorf("%w, got %d", core.ErrSampleSizeInvalid, sampleSize)
	}
	// The NaN check matters: NaN slips through plain range comparisons.
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w, got %v", core.ErrProbabilityInvalid, p)
	}

	positives := 0
	for i := 0; i < sampleSize; i++ {
		if rng.Float64() < p {
			positives++
		}
	}
	return float64(positives) / float64(sampleSize), nil
}
