package transform

import (
	"time"

	"github.com/dvloznov/membership-analytics/internal/dataset"
)

var (
	membershipColumns  = []string{"membership_id", "creation_date", "company", "billing_address", "key_account_manager", "animation_team", "membership_plan", "membership_amount", "currency"}
	logColumns         = []string{"event_name", "membership_id", "new_plan", "churn_date", "cancellation_date", "log_creation_time"}
	transactionColumns = []string{"charge_amount", "currency", "membership_id", "description_event", "discount", "status", "message", "transaction_date", "triggered_by", "payment_method"}
)

func memberships(records ...dataset.Record) dataset.Dataset {
	return dataset.New("membership", membershipColumns, records)
}

func logs(records ...dataset.Record) dataset.Dataset {
	return dataset.New("logs", logColumns, records)
}

func transactions(records ...dataset.Record) dataset.Dataset {
	return dataset.New("transactions", transactionColumns, records)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
