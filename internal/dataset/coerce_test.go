package dataset

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *string
	}{
		{"nil", nil, nil},
		{"blank", "   ", nil},
		{"trimmed", "  Gold ", strPtr("Gold")},
		{"bytes", []byte("EUR"), strPtr("EUR")},
		{"integer", int64(42), strPtr("42")},
		{"nan", math.NaN(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseString(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseString(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseString(%v) = %q, want %q", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestParseInt32(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   int32
		wantOK bool
	}{
		{"csv string", "101", 101, true},
		{"float string", "101.0", 101, true},
		{"json number", float64(202), 202, true},
		{"json.Number", json.Number("303"), 303, true},
		{"sqlite int", int64(404), 404, true},
		{"truncates", 7.9, 7, true},
		{"empty", "", 0, false},
		{"garbage", "abc", 0, false},
		{"nil", nil, 0, false},
		{"overflow", float64(math.MaxInt32) + 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInt32(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseInt32(%v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  string
		valid bool
	}{
		{"text amount", "100.50", "100.5", true},
		{"float", 85.25, "85.25", true},
		{"int", int64(-50), "-50", true},
		{"unparseable", "ten dollars", "", false},
		{"empty", "", "", false},
		{"nan", math.NaN(), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecimal(tt.in)
			if got.Valid != tt.valid {
				t.Fatalf("ParseDecimal(%v).Valid = %v, want %v", tt.in, got.Valid, tt.valid)
			}
			if tt.valid && !got.Decimal.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseDecimal(%v) = %s, want %s", tt.in, got.Decimal, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Time
		ok   bool
	}{
		{"iso date", "2021-03-01", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"datetime", "2021-03-01 10:30:00", time.Date(2021, 3, 1, 10, 30, 0, 0, time.UTC), true},
		{"rfc3339 offset", "2021-03-01T10:30:00+02:00", time.Date(2021, 3, 1, 8, 30, 0, 0, time.UTC), true},
		{"us date", "12/30/2022", time.Date(2022, 12, 30, 0, 0, 0, 0, time.UTC), true},
		{"epoch millis", float64(1614556800000), time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "not a date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.in)
			if (got != nil) != tt.ok {
				t.Fatalf("ParseTimestamp(%v) = %v, want ok=%v", tt.in, got, tt.ok)
			}
			if got != nil && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSchemaCoerce(t *testing.T) {
	schema := Schema{
		{Name: "membership_id", Kind: KindInteger},
		{Name: "creation_date", Kind: KindTimestamp},
		{Name: "membership_amount", Kind: KindDecimal},
		{Name: "company", Kind: KindString},
	}
	raw := Record{
		"membership_id":     "101",
		"creation_date":     "garbage",
		"membership_amount": "19.99",
		"extra":             "kept",
	}

	got := schema.Coerce(raw)

	if id, ok := got.Int32("membership_id"); !ok || id != 101 {
		t.Errorf("membership_id = %v, %v; want 101", id, ok)
	}
	if got.Time("creation_date") != nil {
		t.Errorf("creation_date should be nil for unparseable input")
	}
	if d := got.Decimal("membership_amount"); !d.Valid || d.Decimal.String() != "19.99" {
		t.Errorf("membership_amount = %v", d)
	}
	if got.Str("company") != nil {
		t.Errorf("company should be nil when absent")
	}
	if got["extra"] != "kept" {
		t.Errorf("undeclared column was not carried through")
	}
	if raw["membership_id"] != "101" {
		t.Errorf("Coerce mutated its input")
	}

	temporal := schema.Temporal()
	if len(temporal) != 1 || temporal[0] != "creation_date" {
		t.Errorf("Temporal() = %v", temporal)
	}
}

func strPtr(s string) *string { return &s }
