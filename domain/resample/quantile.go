package resample

import (
	"fmt"
	"sort"

	"gorisk/domain/core"
)

// Quantile returns the empirical quantile q in [0,1] by linear interpolation
// between order statistics: h = (N-1)q, and the result interpolates between
// sorted[floor(h)] and sorted[ceil(h)]. The q=0.5 quantile of an odd-length
// sequence is its exact median element.
func (d Distribution) Quantile(q float64) (float64, error) {
	if len(d) == 0 {
		return 0, core.ErrDistributionEmpty
	}
	if q < 0 || q > 1 {
		return 0, core.NewInvalidArgumentError("quantile", fmt.Sprintf("must be within [0,1], got %v", q))
	}

	sorted := make([]float64, len(d))
	copy(sorted, d)
	sort.Float64s(sorted)

	h := q * float64(len(sorted)-1)
	lower := int(h)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1], nil
	}

	weight := h - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight, nil
}
