package montecarlo

import (
	"fmt"
	"math/rand"

	"gorisk/domain/core"
	"gorisk/domain/resample"
	"gorisk/domain/trial"
)

// SimulateTrialStatistic simulates both arms of an observation independently
// under their observed risks, then derives the requested statistic from the
// two simulated risks. The control arm is always drawn first, so a run's
// stream position depends only on iteration order.
//
// A simulated control risk of exactly zero leaves the ratio undefined and
// surfaces ErrZeroRiskDivisor; with small counts this is a legitimate
// low-probability outcome, not invalid input.
func SimulateTrialStatistic(rng *rand.Rand, obs trial.Observation, kind resample.StatisticKind) (float64, error) {
	riskControl, err := SimulateGroupRisk(rng, obs.Control.SampleSize, obs.Control.Risk())
	if err != nil {
		return 0, fmt.Errorf("control arm: %w", err)
	}
	riskTreatment, err := SimulateGroupRisk(rng, obs.Treatment.SampleSize, obs.Treatment.Risk())
	if err != nil {
		return 0, fmt.Errorf("treatment arm: %w", err)
	}

	if riskControl == 0 {
		return 0, core.NewDivisionUndefinedError("simulated control risk")
	}

	ratio := riskTreatment / riskControl
	switch kind {
	case resample.StatisticRelativeRisk:
		return ratio, nil
	case resample.StatisticEfficacy:
		return 1 - ratio, nil
	default:
		return 0, core.NewInvalidArgumentError("statistic", fmt.Sprintf("unsupported kind %q", kind))
	}
}
