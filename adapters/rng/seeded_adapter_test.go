package rng

import (
	"context"
	"testing"

	"gorisk/domain/core"
)

func TestSeededAdapter_SeededStream(t *testing.T) {
	ctx := context.Background()
	adapter := NewSeededAdapter()

	first, err := adapter.SeededStream(ctx, "resample", 42)
	if err != nil {
		t.Fatalf("SeededStream failed: %v", err)
	}
	second, err := adapter.SeededStream(ctx, "resample", 42)
	if err != nil {
		t.Fatalf("SeededStream failed: %v", err)
	}

	for i := 0; i < 100; i++ {
		a, b := first.Float64(), second.Float64()
		if a != b {
			t.Fatalf("Draw %d diverged for identical seeds: %v vs %v", i, a, b)
		}
	}
}

func TestSeededAdapter_StreamIndependence(t *testing.T) {
	ctx := context.Background()
	adapter := NewSeededAdapter()

	tests := []struct {
		name            string
		runA, runB      string
		stageA, stageB  string
		keyA, keyB      string
		expectIdentical bool
	}{
		{
			name: "identical triples replay identically",
			runA: "run-1", runB: "run-1",
			stageA: "trial", stageB: "trial",
			keyA: "worker-0", keyB: "worker-0",
			expectIdentical: true,
		},
		{
			name: "different workers decorrelate",
			runA: "run-1", runB: "run-1",
			stageA: "trial", stageB: "trial",
			keyA: "worker-0", keyB: "worker-1",
			expectIdentical: false,
		},
		{
			name: "different runs decorrelate",
			runA: "run-1", runB: "run-2",
			stageA: "trial", stageB: "trial",
			keyA: "worker-0", keyB: "worker-0",
			expectIdentical: false,
		},
		{
			name: "different stages decorrelate",
			runA: "run-1", runB: "run-1",
			stageA: "trial", stageB: "group",
			keyA: "worker-0", keyB: "worker-0",
			expectIdentical: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streamA, err := adapter.Stream(ctx, tt.runA, tt.stageA, tt.keyA, 42)
			if err != nil {
				t.Fatalf("Stream failed: %v", err)
			}
			streamB, err := adapter.Stream(ctx, tt.runB, tt.stageB, tt.keyB, 42)
			if err != nil {
				t.Fatalf("Stream failed: %v", err)
			}

			identical := true
			for i := 0; i < 50; i++ {
				if streamA.Float64() != streamB.Float64() {
					identical = false
					break
				}
			}
			if identical != tt.expectIdentical {
				t.Errorf("Expected identical=%v, got %v", tt.expectIdentical, identical)
			}
		})
	}
}

func TestSeededAdapter_SeedChangesStream(t *testing.T) {
	ctx := context.Background()
	adapter := NewSeededAdapter()

	streamA, _ := adapter.Stream(ctx, "run-1", "trial", "worker-0", 42)
	streamB, _ := adapter.Stream(ctx, "run-1", "trial", "worker-0", 43)

	identical := true
	for i := 0; i < 50; i++ {
		if streamA.Float64() != streamB.Float64() {
			identical = false
			break
		}
	}
	if identical {
		t.Error("Expected different base seeds to produce different draws")
	}
}

func TestSeededAdapter_ValidateSeed(t *testing.T) {
	ctx := context.Background()
	adapter := NewSeededAdapter()

	// Record the stream's own first draws, then replay them.
	stream, err := adapter.SeededStream(ctx, "validation", 42)
	if err != nil {
		t.Fatalf("SeededStream failed: %v", err)
	}
	expected := make([]float64, 5)
	for i := range expected {
		expected[i] = stream.Float64()
	}

	if err := adapter.ValidateSeed(ctx, "validation", 42, expected); err != nil {
		t.Errorf("ValidateSeed rejected the stream's own draws: %v", err)
	}

	tampered := make([]float64, len(expected))
	copy(tampered, expected)
	tampered[2] += 0.5
	err = adapter.ValidateSeed(ctx, "validation", 42, tampered)
	if err == nil {
		t.Fatal("Expected seed mismatch error for tampered expectations")
	}
	if !core.IsDeterminismError(err) {
		t.Errorf("Expected determinism error, got %v", err)
	}
}

func TestDeriveSeed_EmptyLabelsReduceToBareSeed(t *testing.T) {
	if got := deriveSeed(42); got != 42 {
		t.Errorf("Expected bare seed 42, got %d", got)
	}
	if got := deriveSeed(42, "", "", ""); got != 42 {
		t.Errorf("Expected empty labels to be skipped, got %d", got)
	}
	if got := deriveSeed(42, "resample"); got == 42 {
		t.Error("Expected label to shift the derived seed")
	}
}
