package transform

import (
	"sort"
	"time"

	"github.com/dvloznov/membership-analytics/internal/dataset"
	"github.com/dvloznov/membership-analytics/internal/domain"
)

// LogStats counts what log aggregation did to the batch.
type LogStats struct {
	Rows        int
	MissingID   int
	Qualifying  int
	Memberships int
}

// AggregateLogs filters lifecycle events to the reporting window and collapses
// them to one row per membership.
//
// A row qualifies when its churn date or cancellation date falls inside
// window, or when it carries a plan change. Qualifying rows are ordered by
// log_creation_time (stable; rows without a creation time sort first, rows
// with equal times keep their input order). For each membership:
//
//	new_plan          last non-null plan in that order
//	churn_date        earliest non-null churn date among qualifying rows
//	cancellation_date earliest non-null cancellation date among qualifying rows
//
// Output is ordered by membership_id.
func AggregateLogs(ds dataset.Dataset, window domain.Window) ([]domain.LifecycleState, LogStats, error) {
	stats := LogStats{Rows: ds.Len()}
	if err := ds.Require(ColMembershipID); err != nil {
		return nil, stats, err
	}

	events := make([]domain.LogEvent, 0, ds.Len())
	for _, raw := range ds.Records {
		rec := LogSchema.Coerce(raw)
		ev := domain.LogEvent{
			EventName:        rec.Str(ColEventName),
			NewPlan:          rec.Str(ColNewPlan),
			ChurnDate:        rec.Time(ColChurnDate),
			CancellationDate: rec.Time(ColCancellationDate),
			LogCreationTime:  rec.Time(ColLogCreationTime),
		}
		if !qualifies(ev, window) {
			continue
		}
		id, ok := rec.Int32(ColMembershipID)
		if !ok {
			stats.MissingID++
			continue
		}
		ev.MembershipID = id
		events = append(events, ev)
	}
	stats.Qualifying = len(events)

	sort.SliceStable(events, func(i, j int) bool {
		return createdBefore(events[i].LogCreationTime, events[j].LogCreationTime)
	})

	byID := make(map[int32]*domain.LifecycleState)
	for _, ev := range events {
		state, ok := byID[ev.MembershipID]
		if !ok {
			state = &domain.LifecycleState{MembershipID: ev.MembershipID}
			byID[ev.MembershipID] = state
		}
		if ev.NewPlan != nil {
			state.NewPlan = ev.NewPlan
		}
		state.ChurnDate = earliest(state.ChurnDate, ev.ChurnDate)
		state.CancellationDate = earliest(state.CancellationDate, ev.CancellationDate)
	}

	out := make([]domain.LifecycleState, 0, len(byID))
	for _, s := range byID {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MembershipID < out[j].MembershipID })
	stats.Memberships = len(out)

	return out, stats, nil
}

func qualifies(ev domain.LogEvent, window domain.Window) bool {
	return window.Contains(ev.ChurnDate) || window.Contains(ev.CancellationDate) || ev.NewPlan != nil
}

// createdBefore orders missing creation times ahead of known ones.
func createdBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}

func earliest(current, candidate *time.Time) *time.Time {
	if candidate == nil {
		return current
	}
	if current == nil || candidate.Before(*current) {
		return candidate
	}
	return current
}
