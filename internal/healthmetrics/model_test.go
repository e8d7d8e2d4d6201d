package healthmetrics

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/healthcare-portal/internal/vitals"
)

func TestCreateMetricRequest_AcceptsStringOrNumber(t *testing.T) {
	for _, body := range []string{
		`{"metric_type":"heart_rate","value":"72"}`,
		`{"metric_type":"heart_rate","value":72}`,
	} {
		var req CreateMetricRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))

		kind, value, unit, err := req.Normalize()
		require.NoError(t, err, body)
		assert.Equal(t, vitals.KindHeartRate, kind)
		assert.Equal(t, 72.0, value)
		assert.Equal(t, "bpm", unit)
	}
}

func TestCreateMetricRequest_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateMetricRequest
		wantErr string
		unit    string
	}{
		{name: "canonical unit", req: CreateMetricRequest{MetricType: "weight", Value: "70.5", Unit: "KG"}, unit: "kg"},
		{name: "unit defaults", req: CreateMetricRequest{MetricType: "temperature", Value: "37"}, unit: "°C"},
		{name: "foreign unit", req: CreateMetricRequest{MetricType: "weight", Value: "155", Unit: "lbs"}, wantErr: "unit"},
		{name: "fahrenheit", req: CreateMetricRequest{MetricType: "temperature", Value: "98.6", Unit: "°F"}, wantErr: "unit"},
		{name: "unknown kind", req: CreateMetricRequest{MetricType: "cholesterol", Value: "180"}, wantErr: "metric_type"},
		{name: "blank value", req: CreateMetricRequest{MetricType: "weight", Value: " "}, wantErr: "value"},
		{name: "non numeric", req: CreateMetricRequest{MetricType: "weight", Value: "heavy"}, wantErr: "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, unit, err := tt.req.Normalize()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.unit, unit)
				return
			}
			var valErr *vitals.ValidationError
			require.True(t, errors.As(err, &valErr), "expected validation error, got %v", err)
			assert.Equal(t, tt.wantErr, valErr.Field)
		})
	}
}

func TestRawValue_Null(t *testing.T) {
	var req CreateMetricRequest
	require.NoError(t, json.Unmarshal([]byte(`{"metric_type":"weight","value":null}`), &req))
	assert.Equal(t, RawValue(""), req.Value)
}
