package montecarlo

import (
	"math"
	"math/rand"
	"testing"

	"gorisk/domain/core"
)

func TestSimulateGroupRisk_DrawsStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		risk, err := SimulateGroupRisk(rng, 50, 0.3)
		if err != nil {
			t.Fatalf("SimulateGroupRisk failed: %v", err)
		}
		if risk < 0 || risk > 1 {
			t.Fatalf("Draw %d produced risk %f outside [0,1]", i, risk)
		}
	}
}

func TestSimulateGroupRisk_Determinism(t *testing.T) {
	first := rand.New(rand.NewSource(42))
	second := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		a, errA := SimulateGroupRisk(first, 100, 0.25)
		b, errB := SimulateGroupRisk(second, 100, 0.25)
		if errA != nil || errB != nil {
			t.Fatalf("SimulateGroupRisk failed: %v / %v", errA, errB)
		}
		if a != b {
			t.Fatalf("Draw %d diverged for identical seeds: %f vs %f", i, a, b)
		}
	}
}

func TestSimulateGroupRisk_MeanApproachesProbability(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	reps := 10000
	sum := 0.0
	for i := 0; i < reps; i++ {
		risk, err := SimulateGroupRisk(rng, 10000, 0.5)
		if err != nil {
			t.Fatalf("SimulateGroupRisk failed: %v", err)
		}
		sum += risk
	}

	mean := sum / float64(reps)
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Expected mean risk within 0.01 of 0.5, got %f", mean)
	}
}

func TestSimulateGroupRisk_DegenerateProbabilities(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	tests := []struct {
		name       string
		sampleSize int
		p          float64
		expected   float64
	}{
		{name: "p=0 always yields zero risk", sampleSize: 200, p: 0.0, expected: 0.0},
		{name: "p=1 always yields full risk", sampleSize: 200, p: 1.0, expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				risk, err := SimulateGroupRisk(rng, tt.sampleSize, tt.p)
				if err != nil {
					t.Fatalf("SimulateGroupRisk failed: %v", err)
				}
				if risk != tt.expected {
					t.Fatalf("Expected risk %f, got %f", tt.expected, risk)
				}
			}
		})
	}
}

func TestSimulateGroupRisk_SingleSubjectGroup(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		risk, err := SimulateGroupRisk(rng, 1, 0.5)
		if err != nil {
			t.Fatalf("SimulateGroupRisk failed: %v", err)
		}
		if risk != 0.0 && risk != 1.0 {
			t.Fatalf("Single-subject risk must be 0 or 1, got %f", risk)
		}
	}
}

func TestSimulateGroupRisk_InvalidInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	tests := []struct {
		name       string
		sampleSize int
		p          float64
	}{
		{name: "zero sample size", sampleSize: 0, p: 0.5},
		{name: "negative sample size", sampleSize: -10, p: 0.5},
		{name: "negative probability", sampleSize: 100, p: -0.1},
		{name: "probability above one", sampleSize: 100, p: 1.1},
		{name: "NaN probability", sampleSize: 100, p: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulateGroupRisk(rng, tt.sampleSize, tt.p)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !core.IsInvalidArgument(err) {
				t.Errorf("Expected invalid argument error, got %v", err)
			}
		})
	}
}
