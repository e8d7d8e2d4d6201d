package scheduling

import (
	"errors"
	"fmt"
)

// ErrSlotInPast is returned when a selected slot no longer lies in the future.
var ErrSlotInPast = errors.New("scheduling: selected time slot has already passed")

// ParseError reports a malformed date or time label.
type ParseError struct {
	Field string // "date" or "time"
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scheduling: cannot parse %s %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("scheduling: cannot parse %s %q", e.Field, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }
