package excel

import (
	"path/filepath"
	"testing"

	"gorisk/domain/trial"
)

func TestCountsWriter_RoundTrip(t *testing.T) {
	obs := trial.MustNewObservation(
		trial.MustNewArm(717, 23),
		trial.MustNewArm(750, 19),
	)

	for _, ext := range []string{"csv", "xlsx"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "counts."+ext)

			if err := NewCountsWriter(path).WriteObservation(obs); err != nil {
				t.Fatalf("WriteObservation failed: %v", err)
			}

			loaded, err := NewCountsReader(path).ReadObservation()
			if err != nil {
				t.Fatalf("ReadObservation failed: %v", err)
			}
			if loaded != obs {
				t.Errorf("Round trip changed counts: wrote %+v, read %+v", obs, loaded)
			}
		})
	}
}

func TestCountsWriter_RejectsInvalidObservation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")

	err := NewCountsWriter(path).WriteObservation(trial.Observation{
		Control:   trial.Arm{SampleSize: 0, PositiveOutcomes: 0},
		Treatment: trial.Arm{SampleSize: 100, PositiveOutcomes: 5},
	})
	if err == nil {
		t.Fatal("Expected validation error for zero control sample size, got nil")
	}
}
