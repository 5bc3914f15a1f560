package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gorisk/adapters/excel"
	"gorisk/adapters/montecarlo"
	"gorisk/adapters/rng"
	"gorisk/app"
	"gorisk/domain/resample"
	"gorisk/domain/trial"
	"gorisk/internal"
	"gorisk/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gorisk-cli",
		Short: "Resampling-based uncertainty analysis for two-arm trial counts",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newAnalyzeFileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// analyzeFlags are the run parameters shared by analyze and analyze-file
type analyzeFlags struct {
	statistic  string
	iterations int
	confidence float64
	seed       int64
	workers    int
	skip       bool
	jsonOut    bool
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.statistic, "statistic", "efficacy", "Statistic to resample: efficacy|relative_risk")
	cmd.Flags().IntVar(&f.iterations, "iterations", 1000, "Number of resampling iterations")
	cmd.Flags().Float64Var(&f.confidence, "confidence", 0.95, "Confidence level for the empirical interval")
	cmd.Flags().Int64Var(&f.seed, "seed", 42, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Resampling workers (0 uses the configured default)")
	cmd.Flags().BoolVar(&f.skip, "skip-undefined", false, "Redraw iterations whose simulated control risk is zero instead of aborting")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Emit the raw analysis result as JSON")
}

func newAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags
	var controlN, controlEvents, treatmentN, treatmentEvents int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Resample a two-arm trial from its counts",
		Long: `Quantify the uncertainty of a two-arm risk statistic by Monte-Carlo
resampling of the observed counts.

Example: gorisk-cli analyze --control-n 717 --control-events 23 --treatment-n 750 --treatment-events 19 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := trial.NewObservation(
				trial.Arm{SampleSize: controlN, PositiveOutcomes: controlEvents},
				trial.Arm{SampleSize: treatmentN, PositiveOutcomes: treatmentEvents},
			)
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), obs, flags)
		},
	}

	cmd.Flags().IntVar(&controlN, "control-n", 0, "Control arm sample size")
	cmd.Flags().IntVar(&controlEvents, "control-events", 0, "Control arm positive outcomes")
	cmd.Flags().IntVar(&treatmentN, "treatment-n", 0, "Treatment arm sample size")
	cmd.Flags().IntVar(&treatmentEvents, "treatment-events", 0, "Treatment arm positive outcomes")
	flags.register(cmd)

	for _, name := range []string{"control-n", "control-events", "treatment-n", "treatment-events"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newAnalyzeFileCmd() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze-file [counts-file]",
		Short: "Resample a two-arm trial from a counts file",
		Long: `Load control and treatment counts from a CSV or Excel file and run
the same analysis as analyze.

The file needs a header naming the arm, sample_size and positive_outcomes
columns (synonyms like group, enrolled and events are accepted) and one
row per arm.

Example: gorisk-cli analyze-file trial_counts.csv --iterations 2000 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := excel.NewFileSource().LoadObservation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), obs, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runAnalyze(ctx context.Context, obs trial.Observation, flags analyzeFlags) error {
	statistic, err := resample.ParseStatisticKind(flags.statistic)
	if err != nil {
		return err
	}

	// .env is optional for the CLI; flags override the configured defaults.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	rngPort := rng.NewSeededAdapter()
	engine := montecarlo.NewEngine(rngPort)
	engine.SetDefaultIterations(cfg.Analysis.Iterations)
	engine.SetDefaultWorkers(cfg.Analysis.Workers)

	service := app.NewAnalysisService(engine, rngPort, internal.NewDefaultLogger())

	result, err := service.RunAuditableAnalysis(ctx, app.AuditableAnalysisRequest{
		Observation:         obs,
		Statistic:           statistic,
		Iterations:          flags.iterations,
		Confidence:          flags.confidence,
		Seed:                flags.seed,
		Workers:             flags.workers,
		SkipUndefined:       flags.skip,
		IncludeDistribution: flags.jsonOut,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if flags.jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	renderResult(result, obs)
	return nil
}

// renderResult prints the human-readable report. All stored values are plain
// fractions; the display layer owns the percent conversion.
func renderResult(result *app.AnalysisResult, obs trial.Observation) {
	est := result.Estimates

	fmt.Printf("=== POINT ESTIMATES ===\n")
	fmt.Printf("Control risk:    %.4f%% (%d/%d)\n",
		est.RiskControl*100, obs.Control.PositiveOutcomes, obs.Control.SampleSize)
	fmt.Printf("Treatment risk:  %.4f%% (%d/%d)\n",
		est.RiskTreatment*100, obs.Treatment.PositiveOutcomes, obs.Treatment.SampleSize)
	fmt.Printf("Relative risk:   %.4f\n", est.RelativeRisk)
	fmt.Printf("Efficacy:        %.4f%%\n", est.Efficacy*100)

	summary := result.Summary
	fmt.Printf("\n=== RESAMPLED %s (N=%d, seed %d) ===\n",
		statisticLabel(result.Statistic), result.Manifest.Iterations, result.Manifest.Seed)
	fmt.Printf("Mean:            %s\n", formatStatistic(result.Statistic, summary.Mean))
	fmt.Printf("%.0f%% interval:    [%s, %s]\n",
		summary.ConfidenceLevel*100,
		formatStatistic(result.Statistic, summary.LowerBound),
		formatStatistic(result.Statistic, summary.UpperBound))
	fmt.Printf("Std error:       %.6f\n", summary.StandardError)
	fmt.Printf("Range:           [%s, %s], median %s\n",
		formatStatistic(result.Statistic, result.Shape.Min),
		formatStatistic(result.Statistic, result.Shape.Max),
		formatStatistic(result.Statistic, result.Shape.Median))
	if result.Skipped > 0 {
		fmt.Printf("Skipped draws:   %d\n", result.Skipped)
	}

	fmt.Printf("\n=== WILSON CROSS-CHECK (%.0f%%) ===\n", summary.ConfidenceLevel*100)
	fmt.Printf("Control risk:    [%.4f%%, %.4f%%]\n",
		result.ControlIntervals[0].Lower*100, result.ControlIntervals[0].Upper*100)
	fmt.Printf("Treatment risk:  [%.4f%%, %.4f%%]\n",
		result.TreatmentIntervals[0].Lower*100, result.TreatmentIntervals[0].Upper*100)

	fmt.Printf("\n=== AUDIT ===\n")
	fmt.Printf("Analysis ID:     %s\n", result.AnalysisID)
	fmt.Printf("Fingerprint:     %s\n", result.Fingerprint)
	fmt.Printf("Runtime:         %dms\n", result.RuntimeMs)
}

func statisticLabel(kind resample.StatisticKind) string {
	if kind == resample.StatisticRelativeRisk {
		return "RELATIVE RISK"
	}
	return "EFFICACY"
}

// formatStatistic renders efficacy as a percentage and relative risk as a
// plain ratio
func formatStatistic(kind resample.StatisticKind, value float64) string {
	if kind == resample.StatisticRelativeRisk {
		return fmt.Sprintf("%.4f", value)
	}
	return fmt.Sprintf("%.4f%%", value*100)
}
