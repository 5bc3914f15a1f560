package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	// Generate many IDs
	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseAnalysisID tests analysis ID parsing
func TestParseAnalysisID(t *testing.T) {
	tests := []struct {
		input    string
		expected AnalysisID
		hasError bool
	}{
		{"valid-id", AnalysisID("valid-id"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseAnalysisID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	tests := []struct {
		input    string
		expected RunID
		hasError bool
	}{
		{"run-123", RunID("run-123"), false},
		{"", "", true},
	}

	for _, test := range tests {
		result, err := ParseRunID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestErrorTaxonomy tests that wrapped sentinels stay distinguishable
func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantInvalid bool
		wantDivZero bool
	}{
		{"sample size", ErrSampleSizeInvalid, true, false},
		{"probability", ErrProbabilityInvalid, true, false},
		{"confidence", ErrConfidenceInvalid, true, false},
		{"short distribution", ErrDistributionTooShort, true, false},
		{"zero divisor", ErrZeroRiskDivisor, false, true},
		{"constructed invalid", NewInvalidArgumentError("iterations", "must be positive"), true, false},
		{"constructed division", NewDivisionUndefinedError("simulated control risk"), false, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsInvalidArgument(test.err); got != test.wantInvalid {
				t.Errorf("IsInvalidArgument(%v) = %v, want %v", test.err, got, test.wantInvalid)
			}
			if got := IsDivisionUndefined(test.err); got != test.wantDivZero {
				t.Errorf("IsDivisionUndefined(%v) = %v, want %v", test.err, got, test.wantDivZero)
			}
		})
	}
}

// TestComputeFieldsHash tests fingerprint stability and separator sensitivity
func TestComputeFieldsHash(t *testing.T) {
	a := ComputeFieldsHash("analysis-1", 1000, 0.95, int64(42))
	b := ComputeFieldsHash("analysis-1", 1000, 0.95, int64(42))
	if !a.Equals(b) {
		t.Errorf("identical fields produced different hashes: %s vs %s", a, b)
	}

	c := ComputeFieldsHash("analysis-1", 1000, 0.95, int64(43))
	if a.Equals(c) {
		t.Error("different seeds produced identical hashes")
	}

	if a.IsEmpty() {
		t.Error("hash should never be empty")
	}
	if len(a.String()) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a.String()))
	}
}
