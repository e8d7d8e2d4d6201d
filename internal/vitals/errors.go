package vitals

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports caller input that cannot become a Measurement.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vitals: invalid %s: %s", e.Field, e.Reason)
}

// ParseValue converts user-entered text into a reading value.
func ParseValue(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &ValidationError{Field: "value", Reason: "a value is required"}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: "value", Reason: quote(raw) + " is not a number"}
	}
	return v, nil
}

func quote(s string) string {
	return strconv.Quote(s)
}
