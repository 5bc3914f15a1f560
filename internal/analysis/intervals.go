package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gorisk/domain/core"
)

// Interval estimation methods
const (
	MethodWilson = "wilson"
	MethodWald   = "wald"
)

// ApproxInterval is a closed-form confidence interval for an observed
// proportion. These are analytic cross-checks rendered beside the empirical
// resampling interval, not a replacement for it.
type ApproxInterval struct {
	Method     string  `json:"method"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Confidence float64 `json:"confidence"`
}

// WilsonInterval computes the Wilson score interval for a binomial
// proportion. More accurate than the normal approximation for small samples
// and extreme proportions, and never leaves [0,1].
func WilsonInterval(positives, sampleSize int, confidence float64) (ApproxInterval, error) {
	if err := validateProportionInputs(positives, sampleSize, confidence); err != nil {
		return ApproxInterval{}, err
	}

	z := zCritical(confidence)
	p := float64(positives) / float64(sampleSize)
	n := float64(sampleSize)

	denominator := 1 + z*z/n
	center := (p + z*z/(2*n)) / denominator
	spread := (z / denominator) * math.Sqrt(p*(1-p)/n+z*z/(4*n*n))

	lower := center - spread
	upper := center + spread
	if lower < 0 {
		lower = 0
	}
	if upper > 1 {
		upper = 1
	}

	return ApproxInterval{
		Method:     MethodWilson,
		Lower:      lower,
		Upper:      upper,
		Confidence: confidence,
	}, nil
}

// WaldInterval computes the textbook normal-approximation interval
// p ± z*sqrt(p(1-p)/n), clamped to [0,1]. Degenerates to zero width at
// p equal to 0 or 1, which is exactly why Wilson is reported alongside it.
func WaldInterval(positives, sampleSize int, confidence float64) (ApproxInterval, error) {
	if err := validateProportionInputs(positives, sampleSize, confidence); err != nil {
		return ApproxInterval{}, err
	}

	z := zCritical(confidence)
	p := float64(positives) / float64(sampleSize)
	n := float64(sampleSize)

	spread := z * math.Sqrt(p*(1-p)/n)

	lower := p - spread
	upper := p + spread
	if lower < 0 {
		lower = 0
	}
	if upper > 1 {
		upper = 1
	}

	return ApproxInterval{
		Method:     MethodWald,
		Lower:      lower,
		Upper:      upper,
		Confidence: confidence,
	}, nil
}

// zCritical returns the two-sided standard normal critical value for the
// confidence level
func zCritical(confidence float64) float64 {
	return distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
}

// validateProportionInputs checks count and confidence invariants shared by
// both interval methods
func validateProportionInputs(positives, sampleSize int, confidence float64) error {
	if sampleSize <= 0 {
		return fmt.Errorf("%w, got %d", core.ErrSampleSizeInvalid, sampleSize)
	}
	if positives < 0 || positives > sampleSize {
		return fmt.Errorf("%w, got %d of %d", core.ErrOutcomeCountInvalid, positives, sampleSize)
	}
	if confidence <= 0 || confidence >= 1 {
		return fmt.Errorf("%w, got %v", core.ErrConfidenceInvalid, confidence)
	}
	return nil
}
