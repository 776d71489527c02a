package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is one row of the final per-membership analytics table.
// Financial columns are invalid for memberships without a financial row.
type ReportRow struct {
	MembershipID           int32
	CreationDate           *time.Time
	Churned                bool
	Company                *string
	CountryState           *string
	KeyAccountManager      *string
	AnimationTeam          *string
	MembershipPlan         *string
	MembershipPaymentTotal decimal.NullDecimal
	ProjectPaymentTotal    decimal.NullDecimal
	AdditionalServiceTotal decimal.NullDecimal
	ChargedTotal           decimal.NullDecimal
}

// ReportColumns is the column order of the persisted report.
var ReportColumns = []string{
	"membership_id",
	"creation_date",
	"churned",
	"company",
	"country_state",
	"key_account_manager",
	"animation_team",
	"membership_plan",
	"membership_payment_total",
	"project_payment_total",
	"additional_service_total",
	"charged_total",
}
