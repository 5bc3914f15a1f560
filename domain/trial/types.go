package trial

import (
	"fmt"

	"gorisk/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// Arm holds the observed counts for one trial group. Immutable once
// constructed; counts come straight from the input data.
type Arm struct {
	SampleSize       int `json:"sample_size"`
	PositiveOutcomes int `json:"positive_outcomes"`
}

// Risk returns the observed proportion of positive outcomes, in [0,1].
func (a Arm) Risk() float64 {
	return float64(a.PositiveOutcomes) / float64(a.SampleSize)
}

// Observation pairs the control and treatment arms of a two-arm trial.
// Constructed once per analysis; read-only thereafter.
type Observation struct {
	Control   Arm `json:"control"`
	Treatment Arm `json:"treatment"`
}

// NewArm creates a validated trial arm
func NewArm(sampleSize, positiveOutcomes int) (Arm, error) {
	arm := Arm{SampleSize: sampleSize, PositiveOutcomes: positiveOutcomes}
	if err := validateArm(arm); err != nil {
		return Arm{}, err
	}
	return arm, nil
}

// MustNewArm creates a trial arm (panics on invalid input)
// Use only in tests and development - production code should handle validation errors
func MustNewArm(sampleSize, positiveOutcomes int) Arm {
	arm, err := NewArm(sampleSize, positiveOutcomes)
	if err != nil {
		panic(err)
	}
	return arm
}

// NewObservation creates a validated two-arm observation
func NewObservation(control, treatment Arm) (Observation, error) {
	if err := validateArm(control); err != nil {
		return Observation{}, fmt.Errorf("control arm: %w", err)
	}
	if err := validateArm(treatment); err != nil {
		return Observation{}, fmt.Errorf("treatment arm: %w", err)
	}
	return Observation{Control: control, Treatment: treatment}, nil
}

// MustNewObservation creates an observation (panics on invalid input)
func MustNewObservation(control, treatment Arm) Observation {
	obs, err := NewObservation(control, treatment)
	if err != nil {
		panic(err)
	}
	return obs
}

// Validate re-checks the observation invariants. Useful for values that
// arrived through JSON binding rather than the constructors.
func (o Observation) Validate() error {
	if err := validateArm(o.Control); err != nil {
		return fmt.Errorf("control arm: %w", err)
	}
	if err := validateArm(o.Treatment); err != nil {
		return fmt.Errorf("treatment arm: %w", err)
	}
	return nil
}

// validateArm checks arm count invariants
func validateArm(a Arm) error {
	if a.SampleSize <= 0 {
		return fmt.Errorf("%w, got %d", core.ErrSampleSizeInvalid, a.SampleSize)
	}
	if a.PositiveOutcomes < 0 || a.PositiveOutcomes > a.SampleSize {
		return fmt.Errorf("%w, got %d of %d", core.ErrOutcomeCountInvalid, a.PositiveOutcomes, a.SampleSize)
	}
	return nil
}
