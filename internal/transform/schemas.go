package transform

import "github.com/dvloznov/membership-analytics/internal/dataset"

// Column names shared by the raw datasets.
const (
	ColMembershipID      = "membership_id"
	ColCreationDate      = "creation_date"
	ColCompany           = "company"
	ColBillingAddress    = "billing_address"
	ColKeyAccountManager = "key_account_manager"
	ColAnimationTeam     = "animation_team"
	ColMembershipPlan    = "membership_plan"
	ColMembershipAmount  = "membership_amount"
	ColCurrency          = "currency"

	ColEventName        = "event_name"
	ColNewPlan          = "new_plan"
	ColChurnDate        = "churn_date"
	ColCancellationDate = "cancellation_date"
	ColLogCreationTime  = "log_creation_time"

	ColChargeAmount     = "charge_amount"
	ColDescriptionEvent = "description_event"
	ColDiscount         = "discount"
	ColStatus           = "status"
	ColMessage          = "message"
	ColTransactionDate  = "transaction_date"
	ColTriggeredBy      = "triggered_by"
	ColPaymentMethod    = "payment_method"
)

// MembershipSchema declares the typed columns of the membership dataset.
var MembershipSchema = dataset.Schema{
	{Name: ColMembershipID, Kind: dataset.KindInteger},
	{Name: ColCreationDate, Kind: dataset.KindTimestamp},
	{Name: ColCompany, Kind: dataset.KindString},
	{Name: ColBillingAddress, Kind: dataset.KindString},
	{Name: ColKeyAccountManager, Kind: dataset.KindString},
	{Name: ColAnimationTeam, Kind: dataset.KindString},
	{Name: ColMembershipPlan, Kind: dataset.KindString},
	{Name: ColMembershipAmount, Kind: dataset.KindDecimal},
	{Name: ColCurrency, Kind: dataset.KindString},
}

// LogSchema declares the typed columns of the lifecycle log dataset.
var LogSchema = dataset.Schema{
	{Name: ColEventName, Kind: dataset.KindString},
	{Name: ColMembershipID, Kind: dataset.KindInteger},
	{Name: ColNewPlan, Kind: dataset.KindString},
	{Name: ColChurnDate, Kind: dataset.KindTimestamp},
	{Name: ColCancellationDate, Kind: dataset.KindTimestamp},
	{Name: ColLogCreationTime, Kind: dataset.KindTimestamp},
}

// TransactionSchema declares the typed columns of the transaction dataset.
var TransactionSchema = dataset.Schema{
	{Name: ColChargeAmount, Kind: dataset.KindDecimal},
	{Name: ColCurrency, Kind: dataset.KindString},
	{Name: ColMembershipID, Kind: dataset.KindInteger},
	{Name: ColDescriptionEvent, Kind: dataset.KindString},
	{Name: ColDiscount, Kind: dataset.KindDecimal},
	{Name: ColStatus, Kind: dataset.KindString},
	{Name: ColMessage, Kind: dataset.KindString},
	{Name: ColTransactionDate, Kind: dataset.KindTimestamp},
	{Name: ColTriggeredBy, Kind: dataset.KindString},
	{Name: ColPaymentMethod, Kind: dataset.KindString},
}
