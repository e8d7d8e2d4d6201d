package vitals

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Heart_Rate ")
	require.NoError(t, err)
	assert.Equal(t, KindHeartRate, k)

	_, err = ParseKind("cholesterol")
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "metric_type", vErr.Field)
}

func TestKindUnitsAndNames(t *testing.T) {
	for _, k := range Kinds {
		assert.True(t, k.Valid())
		assert.NotEmpty(t, k.Unit(), "unit for %s", k)
		assert.NotEqual(t, string(k), k.DisplayName())
	}
	assert.Equal(t, "mmHg", KindBloodPressure.Unit())
	assert.Equal(t, "°C", KindTemperature.Unit())
	assert.False(t, Kind("bmi").Valid())
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"120", 120, false},
		{" 36.6 ", 36.6, false},
		{"", 0, true},
		{"   ", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"+Inf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseValue(tt.raw)
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "value", vErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
