package trial

import (
	"math"
	"testing"

	"gorisk/domain/core"
)

// TestComputeEstimatesVaccineExample checks the point estimates against the
// published two-arm example: 23 cases of 717 controls, 19 cases of 750 treated.
func TestComputeEstimatesVaccineExample(t *testing.T) {
	obs := MustNewObservation(MustNewArm(717, 23), MustNewArm(750, 19))

	est, err := ComputeEstimates(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exactRR := (19.0 / 750.0) / (23.0 / 717.0)
	checks := []struct {
		name      string
		got       float64
		want      float64
		tolerance float64
	}{
		{"risk control", est.RiskControl, 0.03208, 0.00001},
		{"risk treatment", est.RiskTreatment, 0.02533, 0.00001},
		{"relative risk", est.RelativeRisk, exactRR, 1e-12},
		{"relative risk rounded", est.RelativeRisk, 0.7897, 0.0001},
		{"efficacy", est.Efficacy, 1 - exactRR, 1e-12},
		{"efficacy rounded", est.Efficacy, 0.2103, 0.0001},
	}
	for _, check := range checks {
		if math.Abs(check.got-check.want) > check.tolerance {
			t.Errorf("%s = %v, want %v within %v", check.name, check.got, check.want, check.tolerance)
		}
	}
}

func TestComputeEstimatesZeroControlRisk(t *testing.T) {
	obs := MustNewObservation(MustNewArm(100, 0), MustNewArm(100, 3))

	_, err := ComputeEstimates(obs)
	if err == nil {
		t.Fatal("expected division-undefined error for zero control risk")
	}
	if !core.IsDivisionUndefined(err) {
		t.Errorf("expected division-undefined error, got %v", err)
	}
	if core.IsInvalidArgument(err) {
		t.Error("zero control risk must not be classified as invalid input")
	}
}

func TestComputeEstimatesZeroTreatmentRisk(t *testing.T) {
	// Zero treatment risk is fine: relative risk 0, efficacy 1.
	obs := MustNewObservation(MustNewArm(100, 10), MustNewArm(100, 0))

	est, err := ComputeEstimates(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.RelativeRisk != 0 {
		t.Errorf("RelativeRisk = %v, want 0", est.RelativeRisk)
	}
	if est.Efficacy != 1 {
		t.Errorf("Efficacy = %v, want 1", est.Efficacy)
	}
}

func TestComputeEstimatesRejectsInvalidObservation(t *testing.T) {
	_, err := ComputeEstimates(Observation{})
	if err == nil {
		t.Fatal("expected error for zero-valued observation")
	}
	if !core.IsInvalidArgument(err) {
		t.Errorf("expected invalid-argument error, got %v", err)
	}
}
