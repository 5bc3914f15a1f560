package resample

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"gorisk/domain/core"
)

// Summary holds the point estimate and uncertainty bounds derived from a
// resample distribution. Deterministic: the same distribution and confidence
// level always produce bit-identical output.
type Summary struct {
	Mean            float64 `json:"mean"`
	StandardError   float64 `json:"standard_error"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// Summarize computes the mean, the sample standard deviation (Bessel,
// divisor N-1) as the standard error, and the [(1-c)/2, 1-(1-c)/2]
// empirical quantile bounds of the distribution.
func Summarize(d Distribution, confidence float64) (Summary, error) {
	if len(d) == 0 {
		return Summary{}, core.ErrDistributionEmpty
	}
	if len(d) < 2 {
		return Summary{}, fmt.Errorf("%w, got %d", core.ErrDistributionTooShort, len(d))
	}
	if confidence <= 0 || confidence >= 1 {
		return Summary{}, fmt.Errorf("%w, got %v", core.ErrConfidenceInvalid, confidence)
	}

	data := stats.Float64Data(d)
	mean, _ := stats.Mean(data)
	standardError, _ := stats.StandardDeviationSample(data)

	alpha := (1 - confidence) / 2
	lower, err := d.Quantile(alpha)
	if err != nil {
		return Summary{}, err
	}
	upper, err := d.Quantile(1 - alpha)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Mean:            mean,
		StandardError:   standardError,
		LowerBound:      lower,
		UpperBound:      upper,
		ConfidenceLevel: confidence,
	}, nil
}
