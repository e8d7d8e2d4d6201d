package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/healthcare-portal/internal/identity"
	"github.com/wolfman30/healthcare-portal/internal/scheduling"
	"github.com/wolfman30/healthcare-portal/internal/vitals"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusConflict, "slot taken")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "slot taken", body.Error)
}

func TestPatientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	_, ok := PatientID(rec, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(identity.WithPatientID(req.Context(), "p-1"))
	rec = httptest.NewRecorder()
	id, ok := PatientID(rec, req)
	assert.True(t, ok)
	assert.Equal(t, "p-1", id)
}

func TestInputError(t *testing.T) {
	_, err := scheduling.ParseDate("tomorrow", nil)
	msg, ok := InputError(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Contains(t, msg, "date")

	_, err = vitals.ParseValue("abc")
	_, ok = InputError(err)
	assert.True(t, ok)

	_, ok = InputError(errors.New("db down"))
	assert.False(t, ok)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Name string }
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Name":"x"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "x", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(req, &dst))
}
