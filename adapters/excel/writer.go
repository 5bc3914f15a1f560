package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gorisk/domain/trial"
)

// CountsWriter writes two-arm trial counts in the layout CountsReader
// accepts: a header row plus one row per arm
type CountsWriter struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewCountsWriter creates a counts writer that handles both Excel and CSV files
func NewCountsWriter(filePath string) *CountsWriter {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &CountsWriter{filePath: filePath, fileType: fileType}
}

// WriteObservation writes the observation's counts table
func (w *CountsWriter) WriteObservation(obs trial.Observation) error {
	if err := obs.Validate(); err != nil {
		return err
	}

	rows := [][]string{
		{"arm", "sample_size", "positive_outcomes"},
		{"control", strconv.Itoa(obs.Control.SampleSize), strconv.Itoa(obs.Control.PositiveOutcomes)},
		{"treatment", strconv.Itoa(obs.Treatment.SampleSize), strconv.Itoa(obs.Treatment.PositiveOutcomes)},
	}

	var err error
	switch w.fileType {
	case "csv":
		err = w.writeCSVRows(rows)
	case "xlsx":
		err = w.writeExcelRows(rows)
	default:
		err = fmt.Errorf("unsupported file type: %s", w.fileType)
	}
	if err != nil {
		return err
	}

	log.Printf("[CountsWriter] Wrote counts file %s: control %d/%d, treatment %d/%d",
		w.filePath,
		obs.Control.PositiveOutcomes, obs.Control.SampleSize,
		obs.Treatment.PositiveOutcomes, obs.Treatment.SampleSize)
	return nil
}

func (w *CountsWriter) writeCSVRows(rows [][]string) error {
	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := csv.NewWriter(file).WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

func (w *CountsWriter) writeExcelRows(rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, value := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to name cell %d,%d: %w", i, j, err)
			}
			if err := f.SetCellValue("Sheet1", cellRef, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cellRef, err)
			}
		}
	}

	if err := f.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
