package extract

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dvloznov/membership-analytics/internal/dataset"
)

// LogColumns is the projection kept from the lifecycle log export.
var LogColumns = []string{
	"event_name",
	"membership_id",
	"new_plan",
	"churn_date",
	"cancellation_date",
	"log_creation_time",
}

// ReadLogs parses the lifecycle log export, either a JSON array of objects or
// one object per line, and projects it to LogColumns.
func ReadLogs(payload []byte) (dataset.Dataset, error) {
	payload = bytes.TrimSpace(stripBOM(payload))
	if len(payload) == 0 {
		return dataset.Dataset{}, fmt.Errorf("ReadLogs: %w", ErrEmptyInput)
	}

	var objects []map[string]any
	if payload[0] == '[' {
		if err := json.Unmarshal(payload, &objects); err != nil {
			return dataset.Dataset{}, fmt.Errorf("ReadLogs: decoding array: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(payload))
		scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			text := bytes.TrimSpace(scanner.Bytes())
			if len(text) == 0 {
				continue
			}
			var obj map[string]any
			if err := json.Unmarshal(text, &obj); err != nil {
				return dataset.Dataset{}, fmt.Errorf("ReadLogs: line %d: %w", line, err)
			}
			objects = append(objects, obj)
		}
		if err := scanner.Err(); err != nil {
			return dataset.Dataset{}, fmt.Errorf("ReadLogs: scanning: %w", err)
		}
	}

	records := make([]dataset.Record, len(objects))
	for i, obj := range objects {
		records[i] = dataset.Record(obj)
	}
	return dataset.FromRecords("logs", records).Project(LogColumns...), nil
}
