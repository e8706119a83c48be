package domain

import (
	"fmt"
	"sort"
	"time"
)

// Interval is a booked time range [Start, End).
// swagger:model Interval
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval returns the interval [start, end). It does not validate ordering; use Valid.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Valid reports whether the interval starts strictly before it ends.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// IsZero reports whether both bounds are unset.
func (i Interval) IsZero() bool {
	return i.Start.IsZero() && i.End.IsZero()
}

// Equal reports whether both bounds denote the same instants.
func (i Interval) Equal(o Interval) bool {
	return i.Start.Equal(o.Start) && i.End.Equal(o.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(TimeLayout), i.End.Format(TimeLayout))
}

// Overlaps reports whether a and b conflict. Touching endpoints do not conflict,
// so back-to-back bookings are legal.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// TimeLayout is the wall-clock format accepted from callers ("yyyy-mm-dd hh:mm").
const TimeLayout = "2006-01-02 15:04"

// Booking pairs an event id with the interval booked for it.
// swagger:model Booking
type Booking struct {
	EventID  string   `json:"event_id"`
	Interval Interval `json:"interval"`
}

// HourRange is an hour-of-day window [Start, End] in which a room may be booked.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// AvailableHours is a room's sorted, non-overlapping set of bookable hour ranges.
type AvailableHours []HourRange

// NewAvailableHours sorts and validates ranges. Hours must lie in 0..23 with Start < End,
// and no two ranges may overlap.
func NewAvailableHours(ranges ...HourRange) (AvailableHours, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("at least one hour range is required: %w", ErrInvalidInput)
	}
	out := make(AvailableHours, len(ranges))
	copy(out, ranges)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	for i, r := range out {
		if r.Start < 0 || r.End > 23 || r.Start >= r.End {
			return nil, fmt.Errorf("hour range %d-%d: %w", r.Start, r.End, ErrInvalidInput)
		}
		if i > 0 && out[i-1].End > r.Start {
			return nil, fmt.Errorf("hour ranges %d-%d and %d-%d overlap: %w",
				out[i-1].Start, out[i-1].End, r.Start, r.End, ErrInvalidInput)
		}
	}
	return out, nil
}

// HourSlotContains reports whether startHour..endHour fits inside one of the ranges.
// It takes the greatest range whose start is <= startHour and checks its end against
// endHour. Slots wrapping past midnight are never contained.
func HourSlotContains(hours AvailableHours, startHour, endHour int) bool {
	if endHour < startHour {
		return false
	}
	i := sort.Search(len(hours), func(i int) bool { return hours[i].Start > startHour })
	if i == 0 {
		return false
	}
	return endHour <= hours[i-1].End
}

// Contains applies HourSlotContains to the hour-of-day of the interval's bounds.
// The calendar date is ignored.
func (h AvailableHours) Contains(iv Interval) bool {
	return HourSlotContains(h, iv.Start.Hour(), iv.End.Hour())
}
