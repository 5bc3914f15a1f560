package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorisk/adapters/excel"
	"gorisk/adapters/montecarlo"
	"gorisk/app"
	"gorisk/domain/resample"
	"gorisk/domain/trial"
	"gorisk/internal"
	"gorisk/internal/testkit"
	"gorisk/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gorisk-dev",
		Short: "Development tools for the resampling pipeline",
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newSmokeTestCmd(),
		newDeterminismTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	config := testkit.DefaultTrialConfig()

	cmd := &cobra.Command{
		Use:   "seed [output-file]",
		Short: "Generate a synthetic counts file for development",
		Long: `Draw one synthetic two-arm observation with known underlying risks and
write it as a counts file (csv or xlsx by extension) that analyze-file
accepts.

Example: gorisk-dev seed trial_counts.csv --control-risk 0.05 --efficacy 0.4 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSeedCounts(args[0], config)
		},
	}

	cmd.Flags().IntVar(&config.ControlSize, "control-n", config.ControlSize, "Control arm sample size")
	cmd.Flags().IntVar(&config.TreatmentSize, "treatment-n", config.TreatmentSize, "Treatment arm sample size")
	cmd.Flags().Float64Var(&config.ControlRisk, "control-risk", config.ControlRisk, "Underlying control arm risk")
	cmd.Flags().Float64Var(&config.TrueEfficacy, "efficacy", config.TrueEfficacy, "Underlying treatment efficacy")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed for deterministic operations")

	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run smoke tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context())
		},
	}
	return cmd
}

func newDeterminismTestCmd() *cobra.Command {
	var seed int64
	var iterations, workers int

	cmd := &cobra.Command{
		Use:   "determinism [counts-file]",
		Short: "Verify a run replays to an identical fingerprint",
		Long: `Run the same analysis twice and compare fingerprints. Without a counts
file the bundled vaccine fixture is used.

Example: gorisk-dev determinism trial_counts.csv --iterations 2000 --workers 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			countsFile := ""
			if len(args) == 1 {
				countsFile = args[0]
			}
			return testDeterminism(cmd.Context(), countsFile, seed, iterations, workers)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&iterations, "iterations", 1000, "Number of resampling iterations")
	cmd.Flags().IntVar(&workers, "workers", 4, "Resampling workers")

	return cmd
}

func generateSeedCounts(outputFile string, config testkit.TrialGeneratorConfig) error {
	fmt.Printf("Generating synthetic counts (control risk %.3f, efficacy %.3f, seed %d)...\n",
		config.ControlRisk, config.TrueEfficacy, config.Seed)

	generator, err := testkit.NewTrialDataGenerator(config)
	if err != nil {
		return err
	}
	obs, err := generator.GenerateObservation()
	if err != nil {
		return fmt.Errorf("failed to generate observation: %w", err)
	}

	if err := excel.NewCountsWriter(outputFile).WriteObservation(obs); err != nil {
		return err
	}

	fmt.Printf("Wrote %s: control %d/%d, treatment %d/%d\n", outputFile,
		obs.Control.PositiveOutcomes, obs.Control.SampleSize,
		obs.Treatment.PositiveOutcomes, obs.Treatment.SampleSize)
	return nil
}

// devService wires the engine and service the way main does, quieted for
// tool output
func devService() (*app.AnalysisService, *montecarlo.Engine, error) {
	kit, err := testkit.NewTestKit()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize test kit: %w", err)
	}
	rngPort := kit.RNGAdapter()
	engine := montecarlo.NewEngine(rngPort)
	service := app.NewAnalysisService(engine, rngPort, internal.NewLogger(internal.LogLevelError))
	return service, engine, nil
}

func runSmokeTests(ctx context.Context) error {
	fmt.Println("Running smoke tests...")

	service, engine, err := devService()
	if err != nil {
		return err
	}

	tests := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"point_estimates", func(ctx context.Context) error {
			estimates, err := trial.ComputeEstimates(testkit.FixtureObservation())
			if err != nil {
				return err
			}
			if estimates.Efficacy <= 0 || estimates.Efficacy > 1 {
				return fmt.Errorf("fixture efficacy out of range: %f", estimates.Efficacy)
			}
			return nil
		}},
		{"trial_resample", func(ctx context.Context) error {
			outcome, err := engine.ResampleTrial(ctx, ports.TrialResampleRequest{
				Observation: testkit.FixtureObservation(),
				Statistic:   resample.StatisticEfficacy,
				Iterations:  200,
				Workers:     4,
				Seed:        42,
			})
			if err != nil {
				return err
			}
			if outcome.Distribution.Len() != 200 {
				return fmt.Errorf("expected 200 values, got %d", outcome.Distribution.Len())
			}
			return nil
		}},
		{"group_resample", func(ctx context.Context) error {
			outcome, err := engine.ResampleGroup(ctx, ports.GroupResampleRequest{
				SampleSize:  500,
				Probability: 0.1,
				Iterations:  200,
				Workers:     4,
				Seed:        42,
			})
			if err != nil {
				return err
			}
			if outcome.Distribution.Len() != 200 {
				return fmt.Errorf("expected 200 values, got %d", outcome.Distribution.Len())
			}
			return nil
		}},
		{"full_analysis", func(ctx context.Context) error {
			result, err := service.RunAuditableAnalysis(ctx, app.AuditableAnalysisRequest{
				Observation: testkit.FixtureObservation(),
				Iterations:  200,
				Seed:        42,
			})
			if err != nil {
				return err
			}
			if result.Fingerprint == "" {
				return fmt.Errorf("empty fingerprint")
			}
			return nil
		}},
		{"counts_roundtrip", func(ctx context.Context) error {
			dir, err := os.MkdirTemp("", "gorisk-smoke")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)

			path := filepath.Join(dir, "counts.csv")
			obs := testkit.FixtureObservation()
			if err := excel.NewCountsWriter(path).WriteObservation(obs); err != nil {
				return err
			}
			loaded, err := excel.NewFileSource().LoadObservation(ctx, path)
			if err != nil {
				return err
			}
			if loaded != obs {
				return fmt.Errorf("round trip changed counts: %+v vs %+v", obs, loaded)
			}
			return nil
		}},
	}

	passed := 0
	for _, test := range tests {
		fmt.Printf("  Running %s...", test.name)
		if err := test.fn(ctx); err != nil {
			fmt.Printf(" FAILED: %v\n", err)
		} else {
			fmt.Println(" PASSED")
			passed++
		}
	}

	fmt.Printf("\nSmoke tests: %d/%d passed\n", passed, len(tests))
	if passed < len(tests) {
		return fmt.Errorf("some smoke tests failed")
	}

	return nil
}

func testDeterminism(ctx context.Context, countsFile string, seed int64, iterations, workers int) error {
	obs := testkit.FixtureObservation()
	if countsFile != "" {
		var err error
		obs, err = excel.NewFileSource().LoadObservation(ctx, countsFile)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Verifying reproducibility (N=%d, workers %d, seed %d)...\n", iterations, workers, seed)

	service, _, err := devService()
	if err != nil {
		return err
	}

	fingerprint, err := service.VerifyReproducibility(ctx, app.AuditableAnalysisRequest{
		Observation: obs,
		Iterations:  iterations,
		Workers:     workers,
		Seed:        seed,
	})
	if err != nil {
		return fmt.Errorf("determinism test failed: %w", err)
	}

	fmt.Printf("✓ Determinism test passed - fingerprint %s\n", fingerprint)
	return nil
}
