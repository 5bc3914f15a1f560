package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"gorisk/domain/core"
	"gorisk/domain/resample"
	"gorisk/ports"
)

const (
	// DefaultIterations is the resample count used when a request leaves it unset
	DefaultIterations = 1000
	// DefaultWorkers is the parallel worker count for large runs
	DefaultWorkers = 4
	// minParallelIterations forces small runs onto a single worker, where
	// goroutine overhead would dominate the draws
	minParallelIterations = 100
	// maxIterations bounds a single run to prevent excessive computation
	maxIterations = 1000000
)

// Engine implements Monte-Carlo resampling of risk statistics: it replays a
// simulation with fixed parameters and independent draws, collecting the
// results into an empirical distribution. Iterations share no mutable state;
// the only advancing state is the random stream, which is partitioned into
// per-worker substreams when the run is parallel.
type Engine struct {
	rngPort           ports.RNGPort
	defaultIterations int
	defaultWorkers    int
}

// NewEngine creates a resampling engine with default settings
func NewEngine(rngPort ports.RNGPort) *Engine {
	return &Engine{
		rngPort:           rngPort,
		defaultIterations: DefaultIterations,
		defaultWorkers:    DefaultWorkers,
	}
}

// SetDefaultIterations configures the iteration count used by requests that
// leave it unset (clamped to [1, 1000000])
func (e *Engine) SetDefaultIterations(num int) {
	if num < 1 {
		num = 1
	}
	if num > maxIterations {
		num = maxIterations
	}
	e.defaultIterations = num
}

// SetDefaultWorkers configures the worker count used by requests that leave
// it unset
func (e *Engine) SetDefaultWorkers(num int) {
	if num < 1 {
		num = 1
	}
	e.defaultWorkers = num
}

// ResampleTrial builds the empirical distribution of a two-arm statistic.
// Every iteration replays the trial simulation with the same observation and
// fresh draws; the first failing iteration aborts the whole run unless the
// request opts into SkipUndefined.
func (e *Engine) ResampleTrial(ctx context.Context, req ports.TrialResampleRequest) (*ports.ResampleOutcome, error) {
	if err := req.Observation.Validate(); err != nil {
		return nil, err
	}
	switch req.Statistic {
	case resample.StatisticEfficacy, resample.StatisticRelativeRisk:
	default:
		return nil, core.NewInvalidArgumentError("statistic", fmt.Sprintf("unsupported kind %q", req.Statistic))
	}

	iterations, workers, err := e.resolveRunShape(req.Iterations, req.Workers)
	if err != nil {
		return nil, err
	}

	obs, kind := req.Observation, req.Statistic
	return e.collect(ctx, runSpec{
		label:      runLabel(req.RunID),
		scope:      "trial",
		iterations: iterations,
		workers:    workers,
		seed:       req.Seed,
		allowSkip:  req.SkipUndefined,
		draw: func(rng *rand.Rand) (float64, error) {
			return SimulateTrialStatistic(rng, obs, kind)
		},
	})
}

// ResampleGroup builds the empirical distribution of a single simulated
// group risk under a fixed probability
func (e *Engine) ResampleGroup(ctx context.Context, req ports.GroupResampleRequest) (*ports.ResampleOutcome, error) {
	if req.SampleSize <= 0 {
		return nil, fmt.Errorf("%w, got %d", core.ErrSampleSizeInvalid, req.SampleSize)
	}
	if math.IsNaN(req.Probability) || req.Probability < 0 || req.Probability > 1 {
		return nil, fmt.Errorf("%w, got %v", core.ErrProbabilityInvalid, req.Probability)
	}

	iterations, workers, err := e.resolveRunShape(req.Iterations, req.Workers)
	if err != nil {
		return nil, err
	}

	sampleSize, p := req.SampleSize, req.Probability
	return e.collect(ctx, runSpec{
		label:      runLabel(req.RunID),
		scope:      "group",
		iterations: iterations,
		workers:    workers,
		seed:       req.Seed,
		draw: func(rng *rand.Rand) (float64, error) {
			return SimulateGroupRisk(rng, sampleSize, p)
		},
	})
}

// drawFunc produces one simulated statistic from the given stream
type drawFunc func(rng *rand.Rand) (float64, error)

// runSpec is the resolved shape of one resample run
type runSpec struct {
	label      string
	scope      string
	iterations int
	workers    int
	seed       int64
	allowSkip  bool
	draw       drawFunc
}

// resolveRunShape applies defaults and bounds to the requested run shape.
// A zero value selects the engine default; negatives are invalid.
func (e *Engine) resolveRunShape(iterations, workers int) (int, int, error) {
	if iterations == 0 {
		iterations = e.defaultIterations
	}
	if iterations < 0 {
		return 0, 0, fmt.Errorf("%w, got %d", core.ErrIterationsInvalid, iterations)
	}
	if iterations > maxIterations {
		iterations = maxIterations
	}

	if workers == 0 {
		workers = e.defaultWorkers
	}
	if workers < 1 {
		workers = 1
	}
	if iterations < minParallelIterations {
		workers = 1
	}
	if workers > iterations {
		workers = iterations
	}
	return iterations, workers, nil
}

// runLabel falls back to a fixed label so that runs without an explicit ID
// still derive reproducible substreams from the seed alone
func runLabel(id string) string {
	if id == "" {
		return "resample"
	}
	return id
}

// collect is the repeat-and-collect loop shared by both resample forms.
// Results are written by iteration index, so arrival order never matters and
// the assembled distribution is deterministic for a fixed (seed, workers).
func (e *Engine) collect(ctx context.Context, spec runSpec) (*ports.ResampleOutcome, error) {
	results := make([]float64, spec.iterations)

	if spec.workers == 1 {
		rng, err := e.rngPort.Stream(ctx, spec.label, spec.scope, "worker-0", spec.seed)
		if err != nil {
			return nil, err
		}
		budget := 0
		if spec.allowSkip {
			budget = spec.iterations
		}
		skipped, _, err := runRange(ctx, rng, results, 0, spec.iterations, budget, spec.draw)
		if err != nil {
			return nil, err
		}
		return &ports.ResampleOutcome{
			Distribution: resample.Distribution(results),
			Iterations:   spec.iterations,
			Skipped:      skipped,
			Workers:      1,
		}, nil
	}

	chunk := (spec.iterations + spec.workers - 1) / spec.workers
	workerErrs := make([]error, spec.workers)
	workerErrIdx := make([]int, spec.workers)
	workerSkips := make([]int, spec.workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < spec.workers; w++ {
		start := w * chunk
		end := min(start+chunk, spec.iterations)
		if start >= end {
			break
		}

		w, start, end := w, start, end
		g.Go(func() error {
			rng, err := e.rngPort.Stream(gctx, spec.label, spec.scope, fmt.Sprintf("worker-%d", w), spec.seed)
			if err != nil {
				workerErrs[w], workerErrIdx[w] = err, start
				return err
			}
			budget := 0
			if spec.allowSkip {
				budget = end - start
			}
			skipped, failedIdx, err := runRange(gctx, rng, results, start, end, budget, spec.draw)
			workerSkips[w] = skipped
			if err != nil {
				workerErrs[w], workerErrIdx[w] = err, failedIdx
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, firstFailure(workerErrs, workerErrIdx, err)
	}

	skipped := 0
	for _, s := range workerSkips {
		skipped += s
	}
	return &ports.ResampleOutcome{
		Distribution: resample.Distribution(results),
		Iterations:   spec.iterations,
		Skipped:      skipped,
		Workers:      spec.workers,
	}, nil
}

// runRange fills results[start:end], retrying zero-divisor draws while the
// skip budget lasts. A zero budget means the first failure aborts.
func runRange(ctx context.Context, rng *rand.Rand, results []float64, start, end, budget int, draw drawFunc) (skipped, failedIdx int, err error) {
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return skipped, i, err
		}

		value, err := draw(rng)
		for err != nil && budget > 0 && core.IsDivisionUndefined(err) {
			budget--
			skipped++
			value, err = draw(rng)
		}
		if err != nil {
			if skipped > 0 && core.IsDivisionUndefined(err) {
				return skipped, i, fmt.Errorf("retry budget exhausted after %d skipped draws: %w", skipped, err)
			}
			return skipped, i, err
		}
		results[i] = value
	}
	return skipped, -1, nil
}

// firstFailure picks the worker error with the lowest failing iteration so a
// parallel run surfaces the same failure a sequential run would, regardless
// of goroutine scheduling. Cancellation noise from already-aborted workers
// never masks the real cause.
func firstFailure(workerErrs []error, workerErrIdx []int, waitErr error) error {
	chosenIdx := -1
	var chosen error
	for w, err := range workerErrs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			continue
		}
		if chosenIdx == -1 || workerErrIdx[w] < chosenIdx {
			chosenIdx = workerErrIdx[w]
			chosen = err
		}
	}
	if chosen != nil {
		return chosen
	}
	return waitErr
}
