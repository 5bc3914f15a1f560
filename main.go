package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorisk/adapters/excel"
	"gorisk/adapters/montecarlo"
	"gorisk/adapters/rng"
	"gorisk/app"
	"gorisk/internal"
	"gorisk/internal/api"
	"gorisk/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	rngPort := rng.NewSeededAdapter()
	engine := montecarlo.NewEngine(rngPort)
	engine.SetDefaultIterations(appConfig.Analysis.Iterations)
	engine.SetDefaultWorkers(appConfig.Analysis.Workers)

	service := app.NewAnalysisService(engine, rngPort, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A configured counts file gets one analysis at boot, proving the
	// deterministic pipeline end to end before the API takes traffic.
	if appConfig.Data.CountsFile != "" {
		if err := runStartupAnalysis(ctx, service, appConfig); err != nil {
			log.Fatalf("Startup analysis failed: %v", err)
		}
	}

	server := api.NewServer(service, appConfig, logger)
	log.Printf("Starting gorisk API on port %s", appConfig.Server.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runStartupAnalysis(ctx context.Context, service *app.AnalysisService, cfg *config.Config) error {
	log.Printf("Using counts file: %s", cfg.Data.CountsFile)

	obs, err := excel.NewFileSource().LoadObservation(ctx, cfg.Data.CountsFile)
	if err != nil {
		return err
	}

	result, err := service.RunAuditableAnalysis(ctx, app.AuditableAnalysisRequest{
		Observation: obs,
		Iterations:  cfg.Analysis.Iterations,
		Confidence:  cfg.Analysis.Confidence,
		Seed:        cfg.Analysis.Seed,
		Workers:     cfg.Analysis.Workers,
	})
	if err != nil {
		return err
	}

	log.Printf("Startup analysis %s: mean %.6f, interval [%.6f, %.6f], fingerprint %s",
		result.AnalysisID, result.Summary.Mean, result.Summary.LowerBound,
		result.Summary.UpperBound, result.Fingerprint)
	return nil
}
