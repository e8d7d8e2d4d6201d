// Package vitals evaluates recent vital-sign readings and produces advisory text.
package vitals

import (
	"strings"
	"time"
)

// Kind identifies one of the tracked vital categories.
type Kind string

const (
	KindBloodPressure    Kind = "blood_pressure"
	KindHeartRate        Kind = "heart_rate"
	KindBloodSugar       Kind = "blood_sugar"
	KindWeight           Kind = "weight"
	KindTemperature      Kind = "temperature"
	KindOxygenSaturation Kind = "oxygen_saturation"
)

// Kinds lists every kind in advisory evaluation order.
var Kinds = []Kind{
	KindBloodPressure,
	KindHeartRate,
	KindBloodSugar,
	KindWeight,
	KindTemperature,
	KindOxygenSaturation,
}

// ParseKind normalizes raw input into a Kind.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", &ValidationError{Field: "metric_type", Reason: "unsupported metric type " + quote(raw)}
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBloodPressure, KindHeartRate, KindBloodSugar, KindWeight, KindTemperature, KindOxygenSaturation:
		return true
	}
	return false
}

// Unit returns the canonical unit a reading of this kind is recorded in.
func (k Kind) Unit() string {
	switch k {
	case KindBloodPressure:
		return "mmHg"
	case KindHeartRate:
		return "bpm"
	case KindBloodSugar:
		return "mg/dL"
	case KindWeight:
		return "kg"
	case KindTemperature:
		return "°C"
	case KindOxygenSaturation:
		return "%"
	}
	return ""
}

// DisplayName is the human label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindBloodPressure:
		return "Blood Pressure"
	case KindHeartRate:
		return "Heart Rate"
	case KindBloodSugar:
		return "Blood Sugar"
	case KindWeight:
		return "Weight"
	case KindTemperature:
		return "Temperature"
	case KindOxygenSaturation:
		return "Oxygen Saturation"
	}
	return string(k)
}

// Measurement is a single recorded reading.
type Measurement struct {
	Kind       Kind      `json:"kind"`
	Value      float64   `json:"value"`
	MeasuredAt time.Time `json:"measured_at"`
}
