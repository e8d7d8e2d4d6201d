package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsGrid(t *testing.T) {
	slots := GenerateSlots()
	require.Len(t, slots, 15)
	assert.Equal(t, "10:00 AM", slots[0].Label)
	assert.Equal(t, "04:30 PM", slots[len(slots)-1].Label)
	assert.Equal(t, "12:00 PM", slots[4].Label)
	assert.Equal(t, "01:00 PM", slots[6].Label)

	for i := 1; i < len(slots); i++ {
		assert.Greater(t, slots[i].minutesOfDay(), slots[i-1].minutesOfDay(), "slot %d not increasing", i)
		assert.Contains(t, []int{0, 30}, slots[i].Minute)
	}
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	first := GenerateSlots()
	second := GenerateSlots()
	assert.Equal(t, first, second)

	first[0].Label = "mutated"
	assert.Equal(t, "10:00 AM", GenerateSlots()[0].Label)
}

func TestIsPast(t *testing.T) {
	loc := time.UTC
	today := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	now := time.Date(2025, 6, 2, 10, 30, 0, 0, loc)
	slot := TimeSlot{Label: "10:00 AM", Hour: 10, Minute: 0}

	assert.True(t, IsPast(slot, today, now))
	assert.False(t, IsPast(slot, today.AddDate(0, 0, 1), now))
	assert.False(t, IsPast(TimeSlot{Label: "10:30 AM", Hour: 10, Minute: 30}, today, now), "slot starting exactly now is not past")
	assert.False(t, IsPast(TimeSlot{Label: "11:00 AM", Hour: 11}, today, now))
	assert.False(t, IsPast(slot, today.AddDate(0, 0, -1), now), "other days are never past")
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		label        string
		hour, minute int
		wantErr      bool
	}{
		{"12:00 PM", 12, 0, false},
		{"12:00 AM", 0, 0, false},
		{"12:30 AM", 0, 30, false},
		{"01:30 PM", 13, 30, false},
		{"10:00 AM", 10, 0, false},
		{"4:30 pm", 16, 30, false},
		{"04:30PM", 16, 30, false},
		{"13:00 PM", 0, 0, true},
		{"10:60 AM", 0, 0, true},
		{"10:00", 0, 0, true},
		{"", 0, 0, true},
		{"noon", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			h, m, err := ParseLabel(tt.label)
			if tt.wantErr {
				var pErr *ParseError
				require.ErrorAs(t, err, &pErr)
				assert.Equal(t, "time", pErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.minute, m)
		})
	}
}

func TestToAbsoluteTimestamp(t *testing.T) {
	date := time.Date(2025, 6, 2, 17, 45, 12, 99, time.Local)

	noon, err := ToAbsoluteTimestamp(date, "12:00 PM")
	require.NoError(t, err)
	assert.Equal(t, 12, noon.Hour())
	assert.Equal(t, 0, noon.Second())
	assert.Equal(t, 0, noon.Nanosecond())
	assert.Equal(t, time.Local, noon.Location())

	midnight, err := ToAbsoluteTimestamp(date, "12:00 AM")
	require.NoError(t, err)
	assert.Equal(t, 0, midnight.Hour())
	assert.Equal(t, 2, midnight.Day())

	_, err = ToAbsoluteTimestamp(date, "25:00")
	var pErr *ParseError
	assert.ErrorAs(t, err, &pErr)
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d, err := ParseDate("2025-06-02", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, d.Location())
	assert.Equal(t, time.June, d.Month())

	_, err = ParseDate("06/02/2025", loc)
	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "date", pErr.Field)
	assert.Error(t, errors.Unwrap(err))
}

func TestFindSlot(t *testing.T) {
	slot, err := FindSlot("2:30 PM")
	require.NoError(t, err)
	assert.Equal(t, "02:30 PM", slot.Label)

	_, err = FindSlot("05:00 PM")
	var pErr *ParseError
	assert.ErrorAs(t, err, &pErr)

	_, err = FindSlot("09:30 AM")
	assert.ErrorAs(t, err, &pErr)
}
