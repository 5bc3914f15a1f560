package trial

import (
	"gorisk/domain/core"
)

// PointEstimates holds the deterministic risk measures derived from observed
// counts, before any resampling.
type PointEstimates struct {
	RiskControl   float64 `json:"risk_control"`
	RiskTreatment float64 `json:"risk_treatment"`
	RelativeRisk  float64 `json:"relative_risk"`
	Efficacy      float64 `json:"efficacy"`
}

// ComputeEstimates derives the point estimates for a two-arm observation.
// RelativeRisk is treatment risk over control risk; Efficacy is one minus
// that ratio. A control risk of exactly zero leaves both ratios undefined
// and surfaces ErrZeroRiskDivisor rather than Inf or NaN.
func ComputeEstimates(obs Observation) (PointEstimates, error) {
	if err := obs.Validate(); err != nil {
		return PointEstimates{}, err
	}

	riskControl := obs.Control.Risk()
	riskTreatment := obs.Treatment.Risk()

	if riskControl == 0 {
		return PointEstimates{}, core.NewDivisionUndefinedError("observed control risk")
	}

	relativeRisk := riskTreatment / riskControl
	return PointEstimates{
		RiskControl:   riskControl,
		RiskTreatment: riskTreatment,
		RelativeRisk:  relativeRisk,
		Efficacy:      1 - relativeRisk,
	}, nil
}
