package excel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"gorisk/domain/core"
)

func writeCountsCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counts.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write CSV fixture: %v", err)
	}
	return path
}

func writeCountsXLSX(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counts.xlsx")

	f := excelize.NewFile()
	cells := map[string]interface{}{
		"A1": "arm", "B1": "sample_size", "C1": "positive_outcomes",
		"A2": "control", "B2": 717, "C2": 23,
		"A3": "treatment", "B3": 750, "C3": 19,
	}
	for axis, value := range cells {
		if err := f.SetCellValue("Sheet1", axis, value); err != nil {
			t.Fatalf("Failed to set cell %s: %v", axis, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close workbook: %v", err)
	}
	return path
}

func TestCountsReader_ReadCSV(t *testing.T) {
	path := writeCountsCSV(t, "arm,sample_size,positive_outcomes\ncontrol,717,23\ntreatment,750,19\n")

	obs, err := NewCountsReader(path).ReadObservation()
	if err != nil {
		t.Fatalf("ReadObservation failed: %v", err)
	}

	if obs.Control.SampleSize != 717 || obs.Control.PositiveOutcomes != 23 {
		t.Errorf("Unexpected control arm: %+v", obs.Control)
	}
	if obs.Treatment.SampleSize != 750 || obs.Treatment.PositiveOutcomes != 19 {
		t.Errorf("Unexpected treatment arm: %+v", obs.Treatment)
	}
}

func TestCountsReader_ReadXLSX(t *testing.T) {
	path := writeCountsXLSX(t)

	obs, err := NewCountsReader(path).ReadObservation()
	if err != nil {
		t.Fatalf("ReadObservation failed: %v", err)
	}

	if obs.Control.SampleSize != 717 || obs.Control.PositiveOutcomes != 23 {
		t.Errorf("Unexpected control arm: %+v", obs.Control)
	}
	if obs.Treatment.SampleSize != 750 || obs.Treatment.PositiveOutcomes != 19 {
		t.Errorf("Unexpected treatment arm: %+v", obs.Treatment)
	}
}

func TestCountsReader_HeaderSynonyms(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "canonical names", header: "arm,sample_size,positive_outcomes"},
		{name: "group and enrollment synonyms", header: "Group,Enrolled,Events"},
		{name: "short statistical names", header: "GROUP,N,CASES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCountsCSV(t, tt.header+"\nControl,717,23\nTreatment,750,19\n")

			obs, err := NewCountsReader(path).ReadObservation()
			if err != nil {
				t.Fatalf("ReadObservation failed: %v", err)
			}
			if obs.Control.SampleSize != 717 || obs.Treatment.PositiveOutcomes != 19 {
				t.Errorf("Counts not parsed from synonym headers: %+v", obs)
			}
		})
	}
}

func TestCountsReader_IgnoresUnrelatedRows(t *testing.T) {
	path := writeCountsCSV(t, strings.Join([]string{
		"arm,sample_size,positive_outcomes",
		"exploratory,100,5",
		"control,717,23",
		",,",
		"treatment,750,19",
	}, "\n"))

	obs, err := NewCountsReader(path).ReadObservation()
	if err != nil {
		t.Fatalf("ReadObservation failed: %v", err)
	}
	if obs.Control.SampleSize != 717 || obs.Treatment.SampleSize != 750 {
		t.Errorf("Unrelated rows disturbed parsing: %+v", obs)
	}
}

func TestCountsReader_FloatFormattedCounts(t *testing.T) {
	path := writeCountsCSV(t, "arm,sample_size,positive_outcomes\ncontrol,717.0,23\ntreatment,750,19.0\n")

	obs, err := NewCountsReader(path).ReadObservation()
	if err != nil {
		t.Fatalf("ReadObservation failed: %v", err)
	}
	if obs.Control.SampleSize != 717 || obs.Treatment.PositiveOutcomes != 19 {
		t.Errorf("Integral float counts not accepted: %+v", obs)
	}
}

func TestCountsReader_Errors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantSubstr string
	}{
		{
			name:       "missing outcome column",
			content:    "arm,sample_size\ncontrol,717\ntreatment,750\n",
			wantSubstr: "missing required column",
		},
		{
			name:       "missing treatment row",
			content:    "arm,sample_size,positive_outcomes\ncontrol,717,23\n",
			wantSubstr: "no treatment arm row",
		},
		{
			name:       "duplicate control row",
			content:    "arm,sample_size,positive_outcomes\ncontrol,717,23\ncontrol,100,5\ntreatment,750,19\n",
			wantSubstr: "duplicate control",
		},
		{
			name:       "non-numeric count",
			content:    "arm,sample_size,positive_outcomes\ncontrol,abc,23\ntreatment,750,19\n",
			wantSubstr: "invalid sample size",
		},
		{
			name:       "fractional count",
			content:    "arm,sample_size,positive_outcomes\ncontrol,717.5,23\ntreatment,750,19\n",
			wantSubstr: "invalid sample size",
		},
		{
			name:       "header only",
			content:    "arm,sample_size,positive_outcomes\n",
			wantSubstr: "at least a header row and one data row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCountsCSV(t, tt.content)

			_, err := NewCountsReader(path).ReadObservation()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantSubstr, err)
			}
		})
	}
}

func TestCountsReader_InvalidCountsFailValidation(t *testing.T) {
	// Outcome counts above the sample size must surface as invalid argument
	// errors, not silently build an observation.
	path := writeCountsCSV(t, "arm,sample_size,positive_outcomes\ncontrol,100,150\ntreatment,750,19\n")

	_, err := NewCountsReader(path).ReadObservation()
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}
	if !core.IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument error, got %v", err)
	}
}

func TestCountsReader_FileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")

	_, err := NewCountsReader(path).ReadObservation()
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "file not found") {
		t.Errorf("Expected file-not-found error, got %v", err)
	}
}

func TestFileSource_LoadObservation(t *testing.T) {
	ctx := context.Background()
	path := writeCountsCSV(t, "arm,sample_size,positive_outcomes\ncontrol,717,23\ntreatment,750,19\n")

	obs, err := NewFileSource().LoadObservation(ctx, path)
	if err != nil {
		t.Fatalf("LoadObservation failed: %v", err)
	}
	if obs.Control.SampleSize != 717 || obs.Treatment.SampleSize != 750 {
		t.Errorf("Unexpected observation: %+v", obs)
	}
}
