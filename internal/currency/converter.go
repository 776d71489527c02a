package currency

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// DefaultReference is the currency all charges are normalized to.
const DefaultReference = "USD"

// Converter turns (currency, date, amount) triples into reference-currency amounts.
type Converter struct {
	reference string
	rates     *RateTable
}

// NewConverter creates a converter against the given rate table.
func NewConverter(reference string, rates *RateTable) *Converter {
	return &Converter{
		reference: strings.ToUpper(strings.TrimSpace(reference)),
		rates:     rates,
	}
}

// Reference returns the reference currency code.
func (c *Converter) Reference() string {
	return c.reference
}

// Convert returns amount expressed in the reference currency.
//
// The reference currency passes through unchanged. A missing currency, a
// missing date, a missing amount or a (currency, date) pair absent from the
// rate table yields an invalid result; there is no nearest-date fallback.
func (c *Converter) Convert(currency *string, date *time.Time, amount decimal.NullDecimal) decimal.NullDecimal {
	if currency != nil && strings.EqualFold(strings.TrimSpace(*currency), c.reference) {
		return amount
	}
	if currency == nil || strings.TrimSpace(*currency) == "" {
		return decimal.NullDecimal{}
	}
	if date == nil || !amount.Valid {
		return decimal.NullDecimal{}
	}

	rate, ok := c.rates.Rate(strings.TrimSpace(*currency), civil.DateOf(*date))
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(amount.Decimal.Mul(rate))
}
