package transform

import (
	"errors"
	"testing"

	"github.com/dvloznov/membership-analytics/internal/dataset"
)

func TestNormalizeMemberships(t *testing.T) {
	ds := memberships(
		dataset.Record{
			"membership_id":     "102",
			"creation_date":     "2020-05-17",
			"company":           "Northwind",
			"billing_address":   "123 Main St, Suite 4, Metro, ExampleState, ZZ",
			"membership_plan":   "Gold",
			"membership_amount": "199.00",
			"currency":          "eur",
		},
		dataset.Record{"membership_id": "", "billing_address": "a,b,c,d,e"},
		dataset.Record{"membership_id": "101.0", "creation_date": "yesterday-ish", "billing_address": "Short road, Town"},
		dataset.Record{"membership_id": "102", "company": "Duplicate"},
	)

	got, stats, err := NormalizeMemberships(ds)
	if err != nil {
		t.Fatalf("NormalizeMemberships() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d memberships, want 2", len(got))
	}
	if got[0].MembershipID != 101 || got[1].MembershipID != 102 {
		t.Errorf("ids = %d, %d; want ordered 101, 102", got[0].MembershipID, got[1].MembershipID)
	}

	short := got[0]
	if short.CountryState != nil {
		t.Errorf("address with two segments: country_state = %q, want nil", *short.CountryState)
	}
	if short.CreationDate != nil {
		t.Errorf("unparseable creation_date should be nil, got %v", short.CreationDate)
	}

	full := got[1]
	if deref(full.CountryState) != "ZZ" {
		t.Errorf("country_state = %s, want ZZ", deref(full.CountryState))
	}
	if deref(full.Company) != "Northwind" {
		t.Errorf("duplicate id overwrote first row: company = %s", deref(full.Company))
	}
	if deref(full.Currency) != "EUR" {
		t.Errorf("currency = %s, want EUR", deref(full.Currency))
	}
	if full.CreationDate == nil || !full.CreationDate.Equal(day(2020, 5, 17)) {
		t.Errorf("creation_date = %v", full.CreationDate)
	}
	if !full.MembershipAmount.Valid || full.MembershipAmount.Decimal.String() != "199" {
		t.Errorf("membership_amount = %v", full.MembershipAmount)
	}

	if stats.Rows != 4 || stats.MissingID != 1 || stats.DuplicateID != 1 || stats.NoRegion != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestNormalizeMembershipsRequiresColumns(t *testing.T) {
	ds := dataset.New("membership", []string{"membership_id"}, nil)

	_, _, err := NormalizeMemberships(ds)
	if !errors.Is(err, dataset.ErrMissingColumn) {
		t.Errorf("error = %v, want ErrMissingColumn", err)
	}
}

func TestCountryState(t *testing.T) {
	tests := []struct {
		address *string
		want    string
	}{
		{strp("123 Main St, Suite 4, Metro, ExampleState, ZZ"), "ZZ"},
		{strp("a,b,c,d,e,f"), "e"},
		{strp("a,b,c,d"), "<nil>"},
		{strp("a,b,c,d, "), "<nil>"},
		{nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(deref(tt.address), func(t *testing.T) {
			if got := deref(countryState(tt.address)); got != tt.want {
				t.Errorf("countryState() = %s, want %s", got, tt.want)
			}
		})
	}
}

func strp(s string) *string { return &s }
