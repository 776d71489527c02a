package transform

import (
	"sort"
	"strings"

	"github.com/dvloznov/membership-analytics/internal/dataset"
	"github.com/dvloznov/membership-analytics/internal/domain"
)

// regionSegment is the position of the state/region in a billing address.
const regionSegment = 4

// MembershipStats counts what normalization did to the batch.
type MembershipStats struct {
	Rows        int
	MissingID   int
	DuplicateID int
	NoRegion    int
}

// NormalizeMemberships cleans and types the membership dataset. Rows without
// a usable membership_id are dropped; for duplicate ids the first row wins.
// Output is ordered by membership_id.
func NormalizeMemberships(ds dataset.Dataset) ([]domain.Membership, MembershipStats, error) {
	stats := MembershipStats{Rows: ds.Len()}
	if err := ds.Require(ColMembershipID, ColBillingAddress); err != nil {
		return nil, stats, err
	}

	seen := make(map[int32]struct{}, ds.Len())
	out := make([]domain.Membership, 0, ds.Len())
	for _, raw := range ds.Records {
		rec := MembershipSchema.Coerce(raw)

		id, ok := rec.Int32(ColMembershipID)
		if !ok {
			stats.MissingID++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.DuplicateID++
			continue
		}
		seen[id] = struct{}{}

		m := domain.Membership{
			MembershipID:      id,
			CreationDate:      rec.Time(ColCreationDate),
			Company:           rec.Str(ColCompany),
			CountryState:      countryState(rec.Str(ColBillingAddress)),
			KeyAccountManager: rec.Str(ColKeyAccountManager),
			AnimationTeam:     rec.Str(ColAnimationTeam),
			MembershipPlan:    rec.Str(ColMembershipPlan),
			MembershipAmount:  rec.Decimal(ColMembershipAmount),
			Currency:          currencyCode(rec.Str(ColCurrency)),
		}
		if m.CountryState == nil {
			stats.NoRegion++
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].MembershipID < out[j].MembershipID })
	return out, stats, nil
}

// countryState returns the 5th comma-delimited segment of address, trimmed.
// Addresses with fewer segments have no region.
func countryState(address *string) *string {
	if address == nil {
		return nil
	}
	parts := strings.Split(*address, ",")
	if len(parts) <= regionSegment {
		return nil
	}
	region := strings.TrimSpace(parts[regionSegment])
	if region == "" {
		return nil
	}
	return &region
}

func currencyCode(s *string) *string {
	if s == nil {
		return nil
	}
	code := strings.ToUpper(*s)
	return &code
}
