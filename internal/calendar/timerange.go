package calendar

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrGridStep         = errors.New("grid step must be positive")
)

// TimeRange is the half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange validates that both bounds are set and Start < End.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Span returns [start, start+d).
func Span(start time.Time, d time.Duration) TimeRange {
	return TimeRange{Start: start, End: start.Add(d)}
}

func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Contains reports whether inner lies entirely inside tr.
func (tr TimeRange) Contains(inner TimeRange) bool {
	return !inner.Start.Before(tr.Start) && !inner.End.After(tr.End)
}

// Overlaps uses half-open semantics: touching ends do not overlap.
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

// HasOverlap reports whether newRange overlaps any of existing and returns the offenders.
func HasOverlap(newRange TimeRange, existing []TimeRange) (bool, []TimeRange) {
	var conflicts []TimeRange
	for _, tr := range existing {
		if newRange.Overlaps(tr) {
			conflicts = append(conflicts, tr)
		}
	}
	return len(conflicts) > 0, conflicts
}

// Grid returns candidate start points tr.Start, tr.Start+step, … strictly
// before tr.End. The grid is anchored to tr.Start, not to the clock.
func Grid(tr TimeRange, step time.Duration) ([]time.Time, error) {
	if step <= 0 {
		return nil, ErrGridStep
	}
	var points []time.Time
	for cur := tr.Start; cur.Before(tr.End); cur = cur.Add(step) {
		points = append(points, cur)
	}
	return points, nil
}

// DayStart returns local midnight of t's date in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// AtClock anchors a wall-clock offset (from midnight) to day. Computed via
// time.Date so DST shifts resolve the way the zone defines them.
func AtClock(day time.Time, offset time.Duration) time.Time {
	year, month, d := day.Date()
	minutes := int(offset / time.Minute)
	return time.Date(year, month, d, minutes/60, minutes%60, 0, 0, day.Location())
}
