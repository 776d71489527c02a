package domain

import (
	"strings"
)

// Category is the fixed output slot a transaction label maps to.
type Category int

const (
	CategoryOther Category = iota
	CategoryMembershipPayment
	CategoryProjectPayment
	CategoryAdditionalService
)

func (c Category) String() string {
	switch c {
	case CategoryMembershipPayment:
		return "membership_payment"
	case CategoryProjectPayment:
		return "charge_for_specific_project"
	case CategoryAdditionalService:
		return "membership_additional_service"
	default:
		return "other"
	}
}

// CategoryMap maps normalized transaction labels to output slots.
type CategoryMap map[string]Category

// DefaultCategoryMap returns the three retained labels.
func DefaultCategoryMap() CategoryMap {
	return CategoryMap{
		CategoryMembershipPayment.String(): CategoryMembershipPayment,
		CategoryProjectPayment.String():    CategoryProjectPayment,
		CategoryAdditionalService.String(): CategoryAdditionalService,
	}
}

// NewCategoryMap builds a map from slot name (as returned by Category.String)
// to raw label. Unknown slot names are skipped and reported.
func NewCategoryMap(labels map[string]string) (CategoryMap, []string) {
	slots := map[string]Category{
		CategoryMembershipPayment.String(): CategoryMembershipPayment,
		CategoryProjectPayment.String():    CategoryProjectPayment,
		CategoryAdditionalService.String(): CategoryAdditionalService,
	}
	m := make(CategoryMap, len(labels))
	var unknown []string
	for slot, label := range labels {
		c, ok := slots[strings.ToLower(strings.TrimSpace(slot))]
		if !ok {
			unknown = append(unknown, slot)
			continue
		}
		m[NormalizeLabel(label)] = c
	}
	return m, unknown
}

// Lookup returns the slot for a raw label, or CategoryOther.
func (m CategoryMap) Lookup(label string) Category {
	if c, ok := m[NormalizeLabel(label)]; ok {
		return c
	}
	return CategoryOther
}

// NormalizeLabel turns a free-text label into its column key:
// surrounding space trimmed, inner spaces replaced with underscores.
func NormalizeLabel(label string) string {
	return strings.ReplaceAll(strings.TrimSpace(label), " ", "_")
}
