package ports

import (
	"context"

	"gorisk/domain/resample"
	"gorisk/domain/trial"
)

// ResamplerPort runs Monte-Carlo resampling of simulated risk statistics
type ResamplerPort interface {
	// ResampleTrial builds the empirical distribution of a two-arm statistic
	// by replaying the trial simulation with fixed parameters and fresh draws
	ResampleTrial(ctx context.Context, req TrialResampleRequest) (*ResampleOutcome, error)

	// ResampleGroup builds the empirical distribution of a single simulated
	// group risk (the one-arm form of the same procedure)
	ResampleGroup(ctx context.Context, req GroupResampleRequest) (*ResampleOutcome, error)
}

// TrialResampleRequest fixes the parameters replayed on every iteration
type TrialResampleRequest struct {
	Observation trial.Observation
	Statistic   resample.StatisticKind
	Iterations  int // 0 selects the engine default
	Workers     int // 0 selects the engine default
	Seed        int64
	RunID       string
	// SkipUndefined retries iterations whose simulated comparator risk is
	// zero instead of aborting the run. Off by default.
	SkipUndefined bool
}

// GroupResampleRequest resamples one arm's risk under a fixed probability
type GroupResampleRequest struct {
	SampleSize  int
	Probability float64
	Iterations  int
	Workers     int
	Seed        int64
	RunID       string
}

// ResampleOutcome carries the generated distribution plus run accounting
type ResampleOutcome struct {
	Distribution resample.Distribution
	Iterations   int
	Skipped      int
	Workers      int
}
