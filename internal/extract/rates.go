package extract

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/membership-analytics/internal/currency"
)

var rateDateLayouts = []string{
	"01/02/2006",
	"2006-01-02",
	"Jan 02, 2006",
}

// ReadRateSeries parses one historical quote export. Only the Date and Price
// columns are read; the first quote for a date wins.
func ReadRateSeries(payload []byte) (currency.Series, error) {
	header, rows, err := readCSV(payload)
	if err != nil {
		return nil, fmt.Errorf("ReadRateSeries: %w", err)
	}

	dateIdx, priceIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(h) {
		case "date":
			dateIdx = i
		case "price":
			priceIdx = i
		}
	}
	if dateIdx < 0 || priceIdx < 0 {
		return nil, fmt.Errorf("ReadRateSeries: expected Date and Price columns, got %v", header)
	}

	series := make(currency.Series, len(rows))
	for n, row := range rows {
		date, err := parseRateDate(row[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("ReadRateSeries: row %d: %w", n+2, err)
		}
		price, err := parsePrice(row[priceIdx])
		if err != nil {
			return nil, fmt.Errorf("ReadRateSeries: row %d: %w", n+2, err)
		}
		if _, dup := series[date]; dup {
			continue
		}
		series[date] = price
	}
	return series, nil
}

func parseRateDate(raw string) (civil.Date, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range rateDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("unrecognized date %q", raw)
}

func parsePrice(raw string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", `"`, "", " ", "").Replace(raw)
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	return d, nil
}
