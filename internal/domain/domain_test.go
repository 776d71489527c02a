package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestWindowContains(t *testing.T) {
	w := DefaultWindow()

	tests := []struct {
		name string
		t    *time.Time
		want bool
	}{
		{"nil", nil, false},
		{"start is inclusive", timePtr(2019, 1, 1), true},
		{"inside", timePtr(2021, 6, 1), true},
		{"end is exclusive", timePtr(2023, 1, 1), false},
		{"before", timePtr(2018, 12, 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestNewWindowRejectsInverted(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := NewWindow(start, end); err == nil {
		t.Error("expected error for inverted window")
	}
}

func TestCategoryMapLookup(t *testing.T) {
	m := DefaultCategoryMap()

	tests := []struct {
		label string
		want  Category
	}{
		{"membership payment", CategoryMembershipPayment},
		{"membership_payment", CategoryMembershipPayment},
		{" charge for specific project ", CategoryProjectPayment},
		{"membership additional service", CategoryAdditionalService},
		{"refund", CategoryOther},
		{"Membership Payment", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := m.Lookup(tt.label); got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestNewCategoryMapReportsUnknownSlots(t *testing.T) {
	m, unknown := NewCategoryMap(map[string]string{
		"membership_payment": "subscription fee",
		"bogus":              "whatever",
	})

	if m.Lookup("subscription fee") != CategoryMembershipPayment {
		t.Errorf("custom label not mapped")
	}
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Errorf("unknown = %v, want [bogus]", unknown)
	}
}

func TestFinancialTotalsSum(t *testing.T) {
	var f FinancialTotals
	f.Add(CategoryMembershipPayment, decimal.RequireFromString("50"))
	f.Add(CategoryAdditionalService, decimal.RequireFromString("-50"))
	f.Add(CategoryOther, decimal.RequireFromString("999"))

	if !f.Sum().IsZero() {
		t.Errorf("Sum() = %s, want 0", f.Sum())
	}

	f.Add(CategoryProjectPayment, decimal.RequireFromString("10.125"))
	if got := f.Sum().String(); got != "10.12" {
		t.Errorf("Sum() = %s, want 10.12 (half to even)", got)
	}
}

func timePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
