package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Membership is one row of the normalized membership output.
// Optional columns are nil when the source value was missing or unparseable.
type Membership struct {
	MembershipID      int32
	CreationDate      *time.Time
	Company           *string
	CountryState      *string // 5th comma-delimited segment of the billing address
	KeyAccountManager *string
	AnimationTeam     *string
	MembershipPlan    *string
	MembershipAmount  decimal.NullDecimal
	Currency          *string // ISO code, upper case
}

// LifecycleState is the collapsed lifecycle row for one membership.
type LifecycleState struct {
	MembershipID     int32
	NewPlan          *string    // last known plan change
	ChurnDate        *time.Time // earliest in-window churn
	CancellationDate *time.Time // earliest in-window cancellation
}

// Churned reports whether either a churn or a cancellation was recorded.
func (s LifecycleState) Churned() bool {
	return s.ChurnDate != nil || s.CancellationDate != nil
}

// LogEvent is a typed lifecycle log entry.
type LogEvent struct {
	EventName        *string
	MembershipID     int32
	NewPlan          *string
	ChurnDate        *time.Time
	CancellationDate *time.Time
	LogCreationTime  *time.Time
}
