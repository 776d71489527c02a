package domain

import (
	"fmt"
	"time"
)

// Window is a half-open reporting range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow is the 2019-2022 reporting window.
func DefaultWindow() Window {
	return Window{
		Start: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewWindow validates and builds a window.
func NewWindow(start, end time.Time) (Window, error) {
	if !start.Before(end) {
		return Window{}, fmt.Errorf("invalid window: start %s is not before end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// Contains reports whether t is inside the window. A nil time is never inside.
func (w Window) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(w.Start) && t.Before(w.End)
}
