package extract

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/membership-analytics/internal/dataset"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyInput is returned when a source holds no header row.
var ErrEmptyInput = errors.New("no rows found in input")

func stripBOM(payload []byte) []byte {
	return bytes.TrimPrefix(payload, byteOrderMark)
}

// readCSV parses a headed CSV document. Short rows are padded, fully blank
// rows skipped.
func readCSV(payload []byte) ([]string, [][]string, error) {
	reader := bufio.NewReader(bytes.NewReader(stripBOM(payload)))

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyInput
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if isBlank(row) {
			continue
		}
		rows = append(rows, padRow(row, len(header)))
	}
	return header, rows, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

// ReadMembership parses the membership CSV. Cells are kept as text, empty
// cells become nil; typing happens in the transform stage.
func ReadMembership(payload []byte) (dataset.Dataset, error) {
	header, rows, err := readCSV(payload)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("ReadMembership: %w", err)
	}

	records := make([]dataset.Record, len(rows))
	for i, row := range rows {
		rec := make(dataset.Record, len(header))
		for j, col := range header {
			if strings.TrimSpace(row[j]) == "" {
				rec[col] = nil
				continue
			}
			rec[col] = row[j]
		}
		records[i] = rec
	}
	return dataset.New("membership", header, records), nil
}
