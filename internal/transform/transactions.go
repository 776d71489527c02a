package transform

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/membership-analytics/internal/currency"
	"github.com/dvloznov/membership-analytics/internal/dataset"
	"github.com/dvloznov/membership-analytics/internal/domain"
)

// TransactionStats counts what transaction aggregation did to the batch.
type TransactionStats struct {
	Rows               int
	MissingID          int
	CurrencyBackfilled int
	Unresolved         int // conversion impossible, contributes zero
	Uncategorized      int // no category label
	Categories         []string
	Unmapped           map[string]decimal.Decimal // label -> converted total outside the retained slots
	ZeroTotal          int
	Memberships        int
}

// AggregateTransactions converts every charge to the reference currency and
// sums it per membership into the three retained category slots.
//
// A transaction whose currency is null takes its membership's currency; a
// blank currency is kept as is and cannot be converted.
// Each converted amount is rounded to cents before summing; amounts that
// cannot be converted count as zero. Labels that map to no slot are totalled
// in TransactionStats.Unmapped and never reach charge_total. Memberships whose
// charge_total is zero are left out. Output is ordered by membership_id.
func AggregateTransactions(
	ds dataset.Dataset,
	memberships []domain.Membership,
	conv *currency.Converter,
	categories domain.CategoryMap,
) ([]domain.FinancialTotals, TransactionStats, error) {
	stats := TransactionStats{Rows: ds.Len(), Unmapped: make(map[string]decimal.Decimal)}
	if err := ds.Require(ColMembershipID, ColChargeAmount, ColCurrency, ColDescriptionEvent, ColTransactionDate); err != nil {
		return nil, stats, err
	}

	fallback := make(map[int32]*string, len(memberships))
	for _, m := range memberships {
		fallback[m.MembershipID] = m.Currency
	}

	txs := make([]domain.Transaction, 0, ds.Len())
	for _, raw := range ds.Records {
		tx := typedTransaction(TransactionSchema.Coerce(raw))
		if tx.Currency == nil && isBlank(raw[ColCurrency]) {
			tx.Currency = new(string)
		}
		txs = append(txs, tx)
	}

	labels := lo.Uniq(lo.FilterMap(txs, func(tx domain.Transaction, _ int) (string, bool) {
		if tx.Description == nil {
			return "", false
		}
		return domain.NormalizeLabel(*tx.Description), true
	}))
	sort.Strings(labels)
	stats.Categories = labels

	slots := make(map[string]domain.Category, len(labels))
	for _, l := range labels {
		slots[l] = categories.Lookup(l)
	}

	byID := make(map[int32]*domain.FinancialTotals)
	for _, tx := range txs {
		if tx.Currency == nil && tx.MembershipID != nil {
			if c := fallback[*tx.MembershipID]; c != nil {
				tx.Currency = c
				stats.CurrencyBackfilled++
			}
		}

		converted := conv.Convert(tx.Currency, tx.TransactionDate, tx.ChargeAmount)
		amount := decimal.Zero
		if converted.Valid {
			amount = domain.RoundMoney(converted.Decimal)
		} else {
			stats.Unresolved++
		}

		if tx.MembershipID == nil {
			stats.MissingID++
			continue
		}
		if tx.Description == nil {
			stats.Uncategorized++
			continue
		}

		label := domain.NormalizeLabel(*tx.Description)
		slot := slots[label]
		if slot == domain.CategoryOther {
			stats.Unmapped[label] = stats.Unmapped[label].Add(amount)
			continue
		}

		totals, ok := byID[*tx.MembershipID]
		if !ok {
			totals = &domain.FinancialTotals{MembershipID: *tx.MembershipID}
			byID[*tx.MembershipID] = totals
		}
		totals.Add(slot, amount)
	}

	out := make([]domain.FinancialTotals, 0, len(byID))
	for _, totals := range byID {
		totals.ChargeTotal = totals.Sum()
		if totals.ChargeTotal.IsZero() {
			stats.ZeroTotal++
			continue
		}
		out = append(out, *totals)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MembershipID < out[j].MembershipID })
	stats.Memberships = len(out)

	return out, stats, nil
}

// isBlank reports whether v is present but empty text, as opposed to null.
func isBlank(v any) bool {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []byte:
		return strings.TrimSpace(string(val)) == ""
	default:
		return false
	}
}

func typedTransaction(rec dataset.Record) domain.Transaction {
	tx := domain.Transaction{
		ChargeAmount:    rec.Decimal(ColChargeAmount),
		Currency:        currencyCode(rec.Str(ColCurrency)),
		Description:     rec.Str(ColDescriptionEvent),
		Discount:        rec.Decimal(ColDiscount),
		Status:          rec.Str(ColStatus),
		Message:         rec.Str(ColMessage),
		TransactionDate: rec.Time(ColTransactionDate),
		TriggeredBy:     rec.Str(ColTriggeredBy),
		PaymentMethod:   rec.Str(ColPaymentMethod),
	}
	if id, ok := rec.Int32(ColMembershipID); ok {
		tx.MembershipID = &id
	}
	return tx
}
