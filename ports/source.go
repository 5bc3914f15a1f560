package ports

import (
	"context"

	"gorisk/domain/trial"
)

// TrialSourcePort loads two-arm trial counts from an external source.
// The ref is source-specific: a file path for the counts-file adapter, a
// fixture name for the in-memory test source.
type TrialSourcePort interface {
	LoadObservation(ctx context.Context, ref string) (trial.Observation, error)
}
