package currency

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Series is one currency's historical quotes keyed by calendar date.
type Series map[civil.Date]decimal.Decimal

// RateTable holds, per date, one rate for every included currency.
// A rate is the reference-currency value of one unit of the foreign currency.
type RateTable struct {
	currencies []string
	rows       map[civil.Date]map[string]decimal.Decimal
}

// JoinSeries inner-joins per-currency series on date: a date survives only if
// every currency has a quote for it. Codes are case-insensitive; when two
// inputs name the same currency, the upper-case spelling and then the
// lexically first one wins each date.
func JoinSeries(series map[string]Series) *RateTable {
	raw := lo.Keys(series)
	sort.Strings(raw)

	merged := make(map[string]Series, len(raw))
	for _, key := range raw {
		code := strings.ToUpper(strings.TrimSpace(key))
		dst, ok := merged[code]
		if !ok {
			dst = make(Series, len(series[key]))
			merged[code] = dst
		}
		for date, rate := range series[key] {
			if _, taken := dst[date]; !taken {
				dst[date] = rate
			}
		}
	}

	codes := lo.Keys(merged)
	sort.Strings(codes)

	t := &RateTable{
		currencies: codes,
		rows:       make(map[civil.Date]map[string]decimal.Decimal),
	}
	if len(codes) == 0 {
		return t
	}

	for date := range merged[codes[0]] {
		row := make(map[string]decimal.Decimal, len(codes))
		complete := true
		for _, c := range codes {
			rate, ok := merged[c][date]
			if !ok {
				complete = false
				break
			}
			row[c] = rate
		}
		if complete {
			t.rows[date] = row
		}
	}
	return t
}

// Rate returns the rate for currency on date.
func (t *RateTable) Rate(currency string, date civil.Date) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Decimal{}, false
	}
	row, ok := t.rows[date]
	if !ok {
		return decimal.Decimal{}, false
	}
	rate, ok := row[strings.ToUpper(currency)]
	return rate, ok
}

// Currencies returns the included currency codes, sorted.
func (t *RateTable) Currencies() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.currencies))
	copy(out, t.currencies)
	return out
}

// Dates returns the covered dates in ascending order.
func (t *RateTable) Dates() []civil.Date {
	if t == nil {
		return nil
	}
	dates := lo.Keys(t.rows)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Len returns the number of covered dates.
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}
