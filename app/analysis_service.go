package app

import (
	"context"
	"fmt"
	"time"

	"gorisk/domain/core"
	"gorisk/domain/resample"
	"gorisk/domain/trial"
	"gorisk/internal"
	"gorisk/internal/analysis"
	"gorisk/ports"
)

// DefaultConfidence is the confidence level applied when a request leaves
// it unset
const DefaultConfidence = 0.95

const codeVersion = "0.1.0"

// AnalysisService orchestrates a complete uncertainty analysis: point
// estimates from the observed counts, an empirical distribution from the
// resampling engine, summary bounds and analytic cross-checks, tied together
// under one auditable fingerprint.
type AnalysisService struct {
	resampler ports.ResamplerPort
	rngPort   ports.RNGPort
	logger    *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(resampler ports.ResamplerPort, rngPort ports.RNGPort, logger *internal.Logger) *AnalysisService {
	return &AnalysisService{
		resampler: resampler,
		rngPort:   rngPort,
		logger:    logger.WithComponent("AnalysisService"),
	}
}

// AuditableAnalysisRequest defines the inputs for a deterministic analysis run
type AuditableAnalysisRequest struct {
	Observation         trial.Observation
	Statistic           resample.StatisticKind // empty selects efficacy
	Iterations          int                    // 0 selects the engine default
	Confidence          float64                // 0 selects DefaultConfidence
	Seed                int64
	Workers             int             // 0 selects the engine default
	AnalysisID          core.AnalysisID // optional, generated if empty
	SkipUndefined       bool
	IncludeDistribution bool
}

// AnalysisManifest records what a run was asked to do, for audit and replay.
// All values are the resolved ones actually used, not the raw request.
type AnalysisManifest struct {
	AnalysisID    core.AnalysisID        `json:"analysis_id"`
	Statistic     resample.StatisticKind `json:"statistic"`
	Observation   trial.Observation      `json:"observation"`
	Iterations    int                    `json:"iterations"`
	Workers       int                    `json:"workers"`
	Confidence    float64                `json:"confidence"`
	Seed          int64                  `json:"seed"`
	SkipUndefined bool                   `json:"skip_undefined"`
	CodeVersion   string                 `json:"code_version"`
	CreatedAt     core.Timestamp         `json:"created_at"`
}

// AnalysisResult contains the complete output of an uncertainty analysis
type AnalysisResult struct {
	AnalysisID         core.AnalysisID           `json:"analysis_id"`
	Statistic          resample.StatisticKind    `json:"statistic"`
	Estimates          trial.PointEstimates      `json:"estimates"`
	Summary            resample.Summary          `json:"summary"`
	Shape              resample.Profile          `json:"shape"`
	ControlIntervals   []analysis.ApproxInterval `json:"control_intervals"`
	TreatmentIntervals []analysis.ApproxInterval `json:"treatment_intervals"`
	Skipped            int                       `json:"skipped"`
	Distribution       resample.Distribution     `json:"distribution,omitempty"`
	Manifest           AnalysisManifest          `json:"manifest"`
	Fingerprint        core.Hash                 `json:"fingerprint"`
	RuntimeMs          int64                     `json:"runtime_ms"`
	Success            bool                      `json:"success"`
}

// RunAuditableAnalysis executes a full uncertainty analysis with a complete
// audit trail. Identical requests (same seed, shape and counts) produce
// identical distributions, summaries and fingerprints.
func (s *AnalysisService) RunAuditableAnalysis(ctx context.Context, req AuditableAnalysisRequest) (*AnalysisResult, error) {
	startTime := time.Now()

	// Generate analysis ID if not provided
	analysisID := req.AnalysisID
	if analysisID == "" {
		analysisID = core.AnalysisID(core.NewID())
	}

	statistic := req.Statistic
	if statistic == "" {
		statistic = resample.StatisticEfficacy
	}
	confidence := req.Confidence
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	if err := req.Observation.Validate(); err != nil {
		return nil, err
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("%w, got %v", core.ErrConfidenceInvalid, confidence)
	}
	if err := s.verifySeedStability(ctx, req.Seed); err != nil {
		return nil, err
	}

	estimates, err := trial.ComputeEstimates(req.Observation)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Analysis %s starting: %s over control %d/%d vs treatment %d/%d (seed %d)",
		analysisID, statistic,
		req.Observation.Control.PositiveOutcomes, req.Observation.Control.SampleSize,
		req.Observation.Treatment.PositiveOutcomes, req.Observation.Treatment.SampleSize,
		req.Seed)

	outcome, err := s.resampler.ResampleTrial(ctx, ports.TrialResampleRequest{
		Observation:   req.Observation,
		Statistic:     statistic,
		Iterations:    req.Iterations,
		Workers:       req.Workers,
		Seed:          req.Seed,
		SkipUndefined: req.SkipUndefined,
	})
	if err != nil {
		s.logger.Error("Analysis %s resampling failed: %v", analysisID, err)
		return nil, err
	}

	summary, err := resample.Summarize(outcome.Distribution, confidence)
	if err != nil {
		return nil, err
	}

	controlIntervals, err := armIntervals(req.Observation.Control, confidence)
	if err != nil {
		return nil, err
	}
	treatmentIntervals, err := armIntervals(req.Observation.Treatment, confidence)
	if err != nil {
		return nil, err
	}

	manifest := AnalysisManifest{
		AnalysisID:    analysisID,
		Statistic:     statistic,
		Observation:   req.Observation,
		Iterations:    outcome.Iterations,
		Workers:       outcome.Workers,
		Confidence:    confidence,
		Seed:          req.Seed,
		SkipUndefined: req.SkipUndefined,
		CodeVersion:   codeVersion,
		CreatedAt:     core.Now(),
	}

	result := &AnalysisResult{
		AnalysisID:         analysisID,
		Statistic:          statistic,
		Estimates:          estimates,
		Summary:            summary,
		Shape:              outcome.Distribution.Profile(),
		ControlIntervals:   controlIntervals,
		TreatmentIntervals: treatmentIntervals,
		Skipped:            outcome.Skipped,
		Manifest:           manifest,
		Fingerprint:        computeAnalysisFingerprint(manifest, summary),
		RuntimeMs:          time.Since(startTime).Milliseconds(),
		Success:            true,
	}
	if req.IncludeDistribution {
		result.Distribution = outcome.Distribution
	}

	s.logger.Info("Analysis %s complete in %dms: mean %.6f, interval [%.6f, %.6f], %d skipped",
		analysisID, result.RuntimeMs, summary.Mean, summary.LowerBound, summary.UpperBound, outcome.Skipped)

	return result, nil
}

// VerifyReproducibility runs the same analysis twice and confirms the
// fingerprints agree, surfacing ErrNonDeterministic when they do not.
// The fingerprint excludes timestamps for exactly this reason.
func (s *AnalysisService) VerifyReproducibility(ctx context.Context, req AuditableAnalysisRequest) (core.Hash, error) {
	// Both runs must share an ID, otherwise the fingerprints differ trivially.
	if req.AnalysisID == "" {
		req.AnalysisID = core.AnalysisID(core.NewID())
	}
	req.IncludeDistribution = false

	first, err := s.RunAuditableAnalysis(ctx, req)
	if err != nil {
		return "", err
	}
	second, err := s.RunAuditableAnalysis(ctx, req)
	if err != nil {
		return "", err
	}

	if first.Fingerprint != second.Fingerprint {
		return "", fmt.Errorf("%w: fingerprints %s and %s differ for seed %d",
			core.ErrNonDeterministic, first.Fingerprint, second.Fingerprint, req.Seed)
	}
	return first.Fingerprint, nil
}

// verifySeedStability replays the first draws of a probe stream to confirm
// the generator is reproducible before a fingerprinted run is trusted
func (s *AnalysisService) verifySeedStability(ctx context.Context, seed int64) error {
	probe, err := s.rngPort.SeededStream(ctx, "seed-probe", seed)
	if err != nil {
		return err
	}
	expected := make([]float64, 3)
	for i := range expected {
		expected[i] = probe.Float64()
	}
	return s.rngPort.ValidateSeed(ctx, "seed-probe", seed, expected)
}

// armIntervals computes the analytic cross-check intervals for one arm
func armIntervals(arm trial.Arm, confidence float64) ([]analysis.ApproxInterval, error) {
	wilson, err := analysis.WilsonInterval(arm.PositiveOutcomes, arm.SampleSize, confidence)
	if err != nil {
		return nil, err
	}
	wald, err := analysis.WaldInterval(arm.PositiveOutcomes, arm.SampleSize, confidence)
	if err != nil {
		return nil, err
	}
	return []analysis.ApproxInterval{wilson, wald}, nil
}

// computeAnalysisFingerprint ties the resolved run inputs and summary outputs
// into one deterministic hash. CreatedAt is excluded: two runs of the same
// request must collide.
func computeAnalysisFingerprint(manifest AnalysisManifest, summary resample.Summary) core.Hash {
	return core.ComputeFieldsHash(
		manifest.AnalysisID,
		manifest.Statistic,
		manifest.Observation.Control.SampleSize,
		manifest.Observation.Control.PositiveOutcomes,
		manifest.Observation.Treatment.SampleSize,
		manifest.Observation.Treatment.PositiveOutcomes,
		manifest.Iterations,
		manifest.Workers,
		manifest.Confidence,
		manifest.Seed,
		summary.Mean,
		summary.LowerBound,
		summary.UpperBound,
	)
}
