package scheduling

import (
	"fmt"
	"time"
)

// Clock supplies the evaluation time.
type Clock func() time.Time

// Assistant binds the slot rules to a time zone and a clock so handlers can
// evaluate "today" consistently.
type Assistant struct {
	loc   *time.Location
	clock Clock
}

// NewAssistant returns an Assistant in loc. A nil loc means time.Local and a
// nil clock means time.Now.
func NewAssistant(loc *time.Location, clock Clock) *Assistant {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = time.Now
	}
	return &Assistant{loc: loc, clock: clock}
}

// Location is the zone absolute timestamps are resolved in.
func (a *Assistant) Location() *time.Location { return a.loc }

// Now returns the clock reading in the assistant's zone.
func (a *Assistant) Now() time.Time { return a.clock().In(a.loc) }

// ParseDate parses a YYYY-MM-DD date in the assistant's zone.
func (a *Assistant) ParseDate(raw string) (time.Time, error) {
	return ParseDate(raw, a.loc)
}

// ToAbsoluteTimestamp resolves the label on targetDate's calendar day with
// seconds and nanoseconds zeroed.
func (a *Assistant) ToAbsoluteTimestamp(targetDate time.Time, slotLabel string) (time.Time, error) {
	hour, minute, err := ParseLabel(slotLabel)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := targetDate.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, a.loc), nil
}

// AvailableSlots returns the grid for date keeping only slots strictly after
// now, so a slot starting this very minute is not offered. Days before today
// have no available slots.
func (a *Assistant) AvailableSlots(date time.Time) []TimeSlot {
	now := a.Now()
	day := a.onDay(date)
	if day.Before(a.onDay(now)) {
		return []TimeSlot{}
	}

	slots := GenerateSlots()
	out := slots[:0]
	for _, slot := range slots {
		if slot.On(day).After(now) {
			out = append(out, slot)
		}
	}
	return out
}

// ValidateSelection re-checks a chosen slot at submission time and returns its
// absolute timestamp. The label must be on the grid and strictly in the future.
func (a *Assistant) ValidateSelection(date time.Time, slotLabel string) (time.Time, error) {
	slot, err := FindSlot(slotLabel)
	if err != nil {
		return time.Time{}, err
	}
	at := slot.On(a.onDay(date))
	now := a.Now()
	if !at.After(now) {
		return time.Time{}, fmt.Errorf("%w: %s at %s", ErrSlotInPast, at.Format(DateLayout), slot.Label)
	}
	return at, nil
}

// onDay re-anchors date's calendar day to the assistant's zone.
func (a *Assistant) onDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.loc)
}
