package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a typed charge row. ChargeAmount is invalid when the source
// amount could not be parsed.
type Transaction struct {
	ChargeAmount    decimal.NullDecimal
	Currency        *string // own currency, nil falls back to the membership's
	MembershipID    *int32
	Description     *string // category label
	Discount        decimal.NullDecimal
	Status          *string
	Message         *string
	TransactionDate *time.Time
	TriggeredBy     *string
	PaymentMethod   *string
}

// FinancialTotals is the per-membership charge summary in the reference currency.
type FinancialTotals struct {
	MembershipID           int32
	MembershipPaymentTotal decimal.Decimal
	ProjectPaymentTotal    decimal.Decimal
	AdditionalServiceTotal decimal.Decimal
	ChargeTotal            decimal.Decimal
}

// Add accumulates amount into the slot for category. CategoryOther is ignored.
func (f *FinancialTotals) Add(category Category, amount decimal.Decimal) {
	switch category {
	case CategoryMembershipPayment:
		f.MembershipPaymentTotal = f.MembershipPaymentTotal.Add(amount)
	case CategoryProjectPayment:
		f.ProjectPaymentTotal = f.ProjectPaymentTotal.Add(amount)
	case CategoryAdditionalService:
		f.AdditionalServiceTotal = f.AdditionalServiceTotal.Add(amount)
	}
}

// Sum returns the rounded total of the three retained categories.
func (f FinancialTotals) Sum() decimal.Decimal {
	return RoundMoney(f.MembershipPaymentTotal.Add(f.ProjectPaymentTotal).Add(f.AdditionalServiceTotal))
}

// RoundMoney rounds to cents, half to even.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
