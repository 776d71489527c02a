package load

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/membership-analytics/internal/domain"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

// Merge left-joins lifecycle and financial rows onto the normalized
// memberships. Output order follows the memberships.
func Merge(out *transform.Outputs) []domain.ReportRow {
	if out == nil {
		return nil
	}

	lifecycle := lo.KeyBy(out.Lifecycle, func(s domain.LifecycleState) int32 { return s.MembershipID })
	financials := lo.KeyBy(out.Financials, func(f domain.FinancialTotals) int32 { return f.MembershipID })

	rows := make([]domain.ReportRow, 0, len(out.Memberships))
	for _, m := range out.Memberships {
		row := domain.ReportRow{
			MembershipID:      m.MembershipID,
			CreationDate:      m.CreationDate,
			Company:           m.Company,
			CountryState:      m.CountryState,
			KeyAccountManager: m.KeyAccountManager,
			AnimationTeam:     m.AnimationTeam,
			MembershipPlan:    m.MembershipPlan,
		}
		if state, ok := lifecycle[m.MembershipID]; ok {
			row.Churned = state.Churned()
			if state.NewPlan != nil {
				row.MembershipPlan = state.NewPlan
			}
		}
		if f, ok := financials[m.MembershipID]; ok {
			row.MembershipPaymentTotal = valid(f.MembershipPaymentTotal)
			row.ProjectPaymentTotal = valid(f.ProjectPaymentTotal)
			row.AdditionalServiceTotal = valid(f.AdditionalServiceTotal)
			row.ChargedTotal = valid(f.ChargeTotal)
		}
		rows = append(rows, row)
	}
	return rows
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
