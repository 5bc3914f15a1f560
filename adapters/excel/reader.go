package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gorisk/domain/trial"
)

// Column synonyms accepted in counts files. Matching is case-insensitive on
// trimmed headers.
var (
	armColumns    = []string{"arm", "group"}
	sizeColumns   = []string{"sample_size", "enrolled", "n"}
	eventsColumns = []string{"positive_outcomes", "events", "cases"}
)

// CountsReader loads two-arm trial counts from Excel and CSV files. The file
// holds one header row plus one row per arm, labeled control / treatment;
// unrelated rows are ignored.
type CountsReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewCountsReader creates a counts reader that handles both Excel and CSV files
func NewCountsReader(filePath string) *CountsReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &CountsReader{filePath: filePath, fileType: fileType}
}

// ReadObservation reads the counts table and assembles the validated
// two-arm observation
func (r *CountsReader) ReadObservation() (trial.Observation, error) {
	log.Printf("[CountsReader] Reading %s counts file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return trial.Observation{}, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return trial.Observation{}, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return trial.Observation{}, err
	}

	if len(rows) < 2 {
		return trial.Observation{}, fmt.Errorf("counts file must have at least a header row and one data row")
	}

	obs, err := parseCounts(rows)
	if err != nil {
		return trial.Observation{}, fmt.Errorf("%s: %w", r.filePath, err)
	}

	log.Printf("[CountsReader] Loaded counts: control %d/%d, treatment %d/%d",
		obs.Control.PositiveOutcomes, obs.Control.SampleSize,
		obs.Treatment.PositiveOutcomes, obs.Treatment.SampleSize)
	return obs, nil
}

// readExcelRows reads Sheet1 into raw string rows
func (r *CountsReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always use Sheet1
	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return rows, nil
}

// readCSVRows reads the whole CSV file into raw string rows
func (r *CountsReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// parseCounts locates the arm, sample size and outcome columns and collects
// the control and treatment rows
func parseCounts(rows [][]string) (trial.Observation, error) {
	header := rows[0]

	armCol, err := findColumn(header, armColumns)
	if err != nil {
		return trial.Observation{}, err
	}
	sizeCol, err := findColumn(header, sizeColumns)
	if err != nil {
		return trial.Observation{}, err
	}
	eventsCol, err := findColumn(header, eventsColumns)
	if err != nil {
		return trial.Observation{}, err
	}

	var control, treatment *trial.Arm
	for i := 1; i < len(rows); i++ {
		label := strings.ToLower(strings.TrimSpace(cell(rows[i], armCol)))
		if label != "control" && label != "treatment" {
			continue
		}

		sampleSize, err := parseCount(cell(rows[i], sizeCol), "sample size", label)
		if err != nil {
			return trial.Observation{}, err
		}
		events, err := parseCount(cell(rows[i], eventsCol), "positive outcome count", label)
		if err != nil {
			return trial.Observation{}, err
		}
		arm, err := trial.NewArm(sampleSize, events)
		if err != nil {
			return trial.Observation{}, fmt.Errorf("row %d (%s arm): %w", i+1, label, err)
		}

		if label == "control" {
			if control != nil {
				return trial.Observation{}, fmt.Errorf("duplicate control arm row at %d", i+1)
			}
			control = &arm
		} else {
			if treatment != nil {
				return trial.Observation{}, fmt.Errorf("duplicate treatment arm row at %d", i+1)
			}
			treatment = &arm
		}
	}

	if control == nil {
		return trial.Observation{}, fmt.Errorf("no control arm row found")
	}
	if treatment == nil {
		return trial.Observation{}, fmt.Errorf("no treatment arm row found")
	}
	return trial.NewObservation(*control, *treatment)
}

// findColumn returns the index of the first header matching any synonym
func findColumn(header []string, names []string) (int, error) {
	for i, raw := range header {
		cellName := strings.ToLower(strings.TrimSpace(raw))
		for _, name := range names {
			if cellName == name {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("missing required column (any of: %s)", strings.Join(names, ", "))
}

// cell returns the trimmed cell value, tolerating rows shorter than the
// header (Excel drops trailing empty cells)
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCount parses a count cell. Excel sometimes formats integers as
// floats, so integral float values are accepted.
func parseCount(raw, column, rowLabel string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("%s arm: empty %s cell", rowLabel, column)
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s arm: invalid %s value %q", rowLabel, column, raw)
	}
	return int(f), nil
}

// FileSource implements TrialSourcePort over counts files on disk
type FileSource struct{}

// NewFileSource creates a trial source that resolves references as file paths
func NewFileSource() *FileSource {
	return &FileSource{}
}

// LoadObservation treats ref as the path of an Excel or CSV counts file
func (s *FileSource) LoadObservation(ctx context.Context, ref string) (trial.Observation, error) {
	return NewCountsReader(ref).ReadObservation()
}
