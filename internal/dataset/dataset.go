package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingColumn is returned when a dataset lacks a column a transform reads.
var ErrMissingColumn = errors.New("missing required column")

// Record is one raw row keyed by column name. Values keep whatever type the
// source produced: strings from CSV, float64/string/nil from JSON, int64,
// float64, string or []byte from SQLite.
type Record map[string]any

// Dataset is a named, fully materialized table.
type Dataset struct {
	Name    string
	Columns []string
	Records []Record
}

// New builds a dataset with an explicit column list.
func New(name string, columns []string, records []Record) Dataset {
	return Dataset{Name: name, Columns: columns, Records: records}
}

// FromRecords builds a dataset whose columns are the union of the record keys,
// sorted by name.
func FromRecords(name string, records []Record) Dataset {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return Dataset{Name: name, Columns: columns, Records: records}
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// HasColumn reports whether name is one of the dataset's columns.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Require returns ErrMissingColumn naming the first absent column.
func (d Dataset) Require(columns ...string) error {
	for _, c := range columns {
		if !d.HasColumn(c) {
			return fmt.Errorf("%s: %w %q", d.Name, ErrMissingColumn, c)
		}
	}
	return nil
}

// Project returns a copy restricted to the given columns. Columns absent from
// a record come out as nil.
func (d Dataset) Project(columns ...string) Dataset {
	records := make([]Record, len(d.Records))
	for i, r := range d.Records {
		out := make(Record, len(columns))
		for _, c := range columns {
			out[c] = r[c]
		}
		records[i] = out
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Dataset{Name: d.Name, Columns: cols, Records: records}
}
