// Package scheduling computes the bookable appointment grid and resolves
// 12-hour slot labels into absolute timestamps.
package scheduling

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format accepted from clients.
	DateLayout = "2006-01-02"
	// LabelLayout renders slot labels such as "02:30 PM".
	LabelLayout = "03:04 PM"

	firstSlotHour   = 10
	slotCount       = 15
	slotStepMinutes = 30
)

var labelPattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9])\s*(AM|PM)$`)

// TimeSlot is one half-hour window on the daily grid.
type TimeSlot struct {
	Label  string `json:"label"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// minutesOfDay orders slots within a day.
func (s TimeSlot) minutesOfDay() int {
	return s.Hour*60 + s.Minute
}

// On places the slot on the calendar day of date, in date's location.
func (s TimeSlot) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, s.Hour, s.Minute, 0, 0, date.Location())
}

// GenerateSlots returns the fixed daily grid: 10:00 AM through 04:30 PM in
// 30-minute steps. Every call returns a fresh slice with identical content.
func GenerateSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, slotCount)
	for i := 0; i < slotCount; i++ {
		total := firstSlotHour*60 + i*slotStepMinutes
		hour, minute := total/60, total%60
		slots = append(slots, TimeSlot{
			Label:  time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC).Format(LabelLayout),
			Hour:   hour,
			Minute: minute,
		})
	}
	return slots
}

// IsPast reports whether slot has already started on targetDate. It is always
// false when targetDate is not the same calendar day as now.
func IsPast(slot TimeSlot, targetDate, now time.Time) bool {
	if !SameDay(targetDate, now) {
		return false
	}
	return slot.On(targetDate).Before(now)
}

// SameDay compares calendar days, reading now in a's location.
func SameDay(a, now time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := now.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// ParseLabel converts "hh:mm AM|PM" into 24-hour clock values.
// 12 AM is hour 0 and 12 PM is hour 12.
func ParseLabel(label string) (hour, minute int, err error) {
	match := labelPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(label)))
	if match == nil {
		return 0, 0, &ParseError{Field: "time", Input: label, Err: errors.New(`expected "hh:mm AM" or "hh:mm PM"`)}
	}
	hour, _ = strconv.Atoi(match[1])
	minute, _ = strconv.Atoi(match[2])

	switch {
	case match[3] == "PM" && hour != 12:
		hour += 12
	case match[3] == "AM" && hour == 12:
		hour = 0
	}
	return hour, minute, nil
}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, &ParseError{Field: "date", Input: raw, Err: err}
	}
	return t, nil
}

// ToAbsoluteTimestamp combines targetDate's calendar day with the slot label,
// in the local time zone.
func ToAbsoluteTimestamp(targetDate time.Time, slotLabel string) (time.Time, error) {
	return NewAssistant(time.Local, nil).ToAbsoluteTimestamp(targetDate, slotLabel)
}

// FindSlot returns the grid slot whose clock time matches label.
func FindSlot(label string) (TimeSlot, error) {
	hour, minute, err := ParseLabel(label)
	if err != nil {
		return TimeSlot{}, err
	}
	for _, slot := range GenerateSlots() {
		if slot.Hour == hour && slot.Minute == minute {
			return slot, nil
		}
	}
	return TimeSlot{}, &ParseError{Field: "time", Input: label, Err: fmt.Errorf("not a bookable slot")}
}
