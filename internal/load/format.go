package load

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/membership-analytics/internal/domain"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// formatRow renders a report row in ReportColumns order. Missing values are empty.
func formatRow(r domain.ReportRow) []string {
	return []string{
		strconv.FormatInt(int64(r.MembershipID), 10),
		formatTime(r.CreationDate),
		formatBool(r.Churned),
		deref(r.Company),
		deref(r.CountryState),
		deref(r.KeyAccountManager),
		deref(r.AnimationTeam),
		deref(r.MembershipPlan),
		formatMoney(r.MembershipPaymentTotal),
		formatMoney(r.ProjectPaymentTotal),
		formatMoney(r.AdditionalServiceTotal),
		formatMoney(r.ChargedTotal),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return u.Format(dateLayout)
	}
	return u.Format(timestampLayout)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
