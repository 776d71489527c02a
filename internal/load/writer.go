package load

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/membership-analytics/internal/domain"
)

// DefaultOutputPath is where the report is written when no path is configured.
const DefaultOutputPath = "XYZ_Data_Analysis_2019-2022.csv"

// SheetName is the worksheet holding the report in XLSX output.
const SheetName = "report"

// ErrUnsupportedFormat is returned for output paths that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Write persists rows to path. The extension selects CSV or XLSX.
func Write(path string, rows []domain.ReportRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("Write: creating %s: %w", dir, err)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, rows)
	case ".xlsx":
		return writeXLSX(path, rows)
	default:
		return fmt.Errorf("Write: %w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func writeCSV(path string, rows []domain.ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writeCSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(domain.ReportColumns); err != nil {
		return fmt.Errorf("writeCSV: writing header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(formatRow(r)); err != nil {
			return fmt.Errorf("writeCSV: writing row %d: %w", r.MembershipID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writeCSV: flushing: %w", err)
	}
	return f.Close()
}

func writeXLSX(path string, rows []domain.ReportRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("writeXLSX: naming sheet: %w", err)
	}

	header := make([]interface{}, len(domain.ReportColumns))
	for i, c := range domain.ReportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writeXLSX: writing header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("writeXLSX: %w", err)
		}
		values := xlsxRow(r)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writeXLSX: writing row %d: %w", r.MembershipID, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writeXLSX: saving %s: %w", path, err)
	}
	return nil
}

// xlsxRow keeps the id and churn flag typed; other cells use the CSV text.
func xlsxRow(r domain.ReportRow) []interface{} {
	text := formatRow(r)
	values := make([]interface{}, len(text))
	for i, v := range text {
		values[i] = v
	}
	values[0] = int64(r.MembershipID)
	values[2] = r.Churned
	return values
}
