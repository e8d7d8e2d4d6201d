package healthmetrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/healthcare-portal/internal/vitals"
)

// Metric is a single recorded vital sign.
type Metric struct {
	ID         string      `json:"id"`
	PatientID  string      `json:"patient_id"`
	Kind       vitals.Kind `json:"metric_type"`
	Value      float64     `json:"value"`
	Unit       string      `json:"unit"`
	Notes      string      `json:"notes,omitempty"`
	MeasuredAt time.Time   `json:"measured_at"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Measurement projects the record into the advisor's input type.
func (m *Metric) Measurement() vitals.Measurement {
	return vitals.Measurement{Kind: m.Kind, Value: m.Value, MeasuredAt: m.MeasuredAt}
}

// Measurements converts a list of records for vitals.Advise.
func Measurements(metrics []*Metric) []vitals.Measurement {
	out := make([]vitals.Measurement, 0, len(metrics))
	for _, m := range metrics {
		if m == nil {
			continue
		}
		out = append(out, m.Measurement())
	}
	return out
}

// RawValue accepts either a JSON number or a JSON string; forms submit strings.
type RawValue string

func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	*v = RawValue(data)
	return nil
}

// CreateMetricRequest is the body of POST /metrics.
type CreateMetricRequest struct {
	MetricType string   `json:"metric_type"`
	Value      RawValue `json:"value"`
	Unit       string   `json:"unit,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Normalize validates the request. Readings are stored in the kind's canonical
// unit; any other unit is rejected rather than converted.
func (r *CreateMetricRequest) Normalize() (vitals.Kind, float64, string, error) {
	kind, err := vitals.ParseKind(r.MetricType)
	if err != nil {
		return "", 0, "", err
	}
	value, err := vitals.ParseValue(string(r.Value))
	if err != nil {
		return "", 0, "", err
	}
	unit := kind.Unit()
	if custom := strings.TrimSpace(r.Unit); custom != "" && !strings.EqualFold(custom, unit) {
		return "", 0, "", &vitals.ValidationError{
			Field:  "unit",
			Reason: fmt.Sprintf("%s is recorded in %s, got %q", kind.DisplayName(), unit, custom),
		}
	}
	return kind, value, unit, nil
}
