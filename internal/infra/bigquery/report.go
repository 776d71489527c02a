package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/membership-analytics/internal/domain"
)

// ReportRow is one row of the membership_report table.
type ReportRow struct {
	RunID        string `bigquery:"run_id"`        // REQUIRED
	MembershipID int64  `bigquery:"membership_id"` // REQUIRED

	CreationDate      bigquery.NullTimestamp `bigquery:"creation_date"`
	Churned           bool                   `bigquery:"churned"`
	Company           bigquery.NullString    `bigquery:"company"`
	CountryState      bigquery.NullString    `bigquery:"country_state"`
	KeyAccountManager bigquery.NullString    `bigquery:"key_account_manager"`
	AnimationTeam     bigquery.NullString    `bigquery:"animation_team"`
	MembershipPlan    bigquery.NullString    `bigquery:"membership_plan"`

	MembershipPaymentTotal *big.Rat `bigquery:"membership_payment_total"` // NUMERIC, NULLABLE
	ProjectPaymentTotal    *big.Rat `bigquery:"project_payment_total"`    // NUMERIC, NULLABLE
	AdditionalServiceTotal *big.Rat `bigquery:"additional_service_total"` // NUMERIC, NULLABLE
	ChargedTotal           *big.Rat `bigquery:"charged_total"`            // NUMERIC, NULLABLE

	LoadedTS time.Time `bigquery:"loaded_ts"`
}

// ToReportRows converts report rows for insertion, stamping each with runID and loadedAt.
func ToReportRows(runID string, rows []domain.ReportRow, loadedAt time.Time) []*ReportRow {
	out := make([]*ReportRow, len(rows))
	for i, r := range rows {
		out[i] = &ReportRow{
			RunID:                  runID,
			MembershipID:           int64(r.MembershipID),
			CreationDate:           nullTimestamp(r.CreationDate),
			Churned:                r.Churned,
			Company:                nullString(r.Company),
			CountryState:           nullString(r.CountryState),
			KeyAccountManager:      nullString(r.KeyAccountManager),
			AnimationTeam:          nullString(r.AnimationTeam),
			MembershipPlan:         nullString(r.MembershipPlan),
			MembershipPaymentTotal: numeric(r.MembershipPaymentTotal),
			ProjectPaymentTotal:    numeric(r.ProjectPaymentTotal),
			AdditionalServiceTotal: numeric(r.AdditionalServiceTotal),
			ChargedTotal:           numeric(r.ChargedTotal),
			LoadedTS:               loadedAt.UTC(),
		}
	}
	return out
}

func nullString(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: *s, Valid: true}
}

func nullTimestamp(t *time.Time) bigquery.NullTimestamp {
	if t == nil {
		return bigquery.NullTimestamp{}
	}
	return bigquery.NullTimestamp{Timestamp: t.UTC(), Valid: true}
}

func numeric(d decimal.NullDecimal) *big.Rat {
	if !d.Valid {
		return nil
	}
	return d.Decimal.Rat()
}
