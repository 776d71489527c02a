package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 02, 2006",
}

// ParseString returns the trimmed text of v, or nil when v is missing or blank.
func ParseString(v any) *string {
	var s string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case []byte:
		s = string(val)
	case float64:
		if math.IsNaN(val) {
			return nil
		}
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		s = strconv.FormatInt(val, 10)
	case int:
		s = strconv.Itoa(val)
	case json.Number:
		s = val.String()
	case bool:
		s = strconv.FormatBool(val)
	default:
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParseInt32 casts v to a 32-bit identifier. Floats are truncated toward zero
// the way a numeric cast would; values outside the int32 range are rejected.
func ParseInt32(v any) (int32, bool) {
	var f float64
	switch val := v.(type) {
	case int32:
		return val, true
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case float64:
		f = val
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string, []byte:
		s := ParseString(val)
		if s == nil {
			return 0, false
		}
		if i, err := strconv.ParseInt(*s, 10, 32); err == nil {
			return int32(i), true
		}
		parsed, err := strconv.ParseFloat(*s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int32(f), true
}

// ParseDecimal converts v to a decimal. Unparseable input yields an invalid
// NullDecimal rather than an error.
func ParseDecimal(v any) decimal.NullDecimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return decimal.NewNullDecimal(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(val))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(val))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(val)))
	case int32:
		return decimal.NewNullDecimal(decimal.NewFromInt32(val))
	case json.Number, string, []byte:
		s := ParseString(val)
		if s == nil {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(*s)
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

// ParseTimestamp converts v to a UTC timestamp. Numbers are read as Unix
// milliseconds, which is how JSON exports encode datetimes. Anything that does
// not parse yields nil.
func ParseTimestamp(v any) *time.Time {
	var t time.Time
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		if val.IsZero() {
			return nil
		}
		t = val
	case *time.Time:
		if val == nil || val.IsZero() {
			return nil
		}
		t = *val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		t = time.UnixMilli(int64(val))
	case int64:
		t = time.UnixMilli(val)
	case json.Number:
		ms, err := val.Int64()
		if err != nil {
			return nil
		}
		t = time.UnixMilli(ms)
	case string, []byte:
		s := ParseString(val)
		if s == nil {
			return nil
		}
		parsed, ok := parseTimeString(*s)
		if !ok {
			return nil
		}
		t = parsed
	default:
		return nil
	}
	t = t.UTC()
	return &t
}

func parseTimeString(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Str reads a column of a coerced record as an optional string.
func (r Record) Str(key string) *string {
	if s, ok := r[key].(string); ok {
		return &s
	}
	return nil
}

// Int32 reads a column of a coerced record as an identifier.
func (r Record) Int32(key string) (int32, bool) {
	v, ok := r[key].(int32)
	return v, ok
}

// Decimal reads a column of a coerced record as an optional decimal.
func (r Record) Decimal(key string) decimal.NullDecimal {
	if d, ok := r[key].(decimal.Decimal); ok {
		return decimal.NewNullDecimal(d)
	}
	return decimal.NullDecimal{}
}

// Time reads a column of a coerced record as an optional timestamp.
func (r Record) Time(key string) *time.Time {
	if t, ok := r[key].(time.Time); ok {
		return &t
	}
	return nil
}
