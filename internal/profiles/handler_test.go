package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/healthcare-portal/internal/identity"
)

type memoryStore struct {
	profiles map[string]*Profile
}

func (m *memoryStore) Get(ctx context.Context, patientID string) (*Profile, error) {
	p, ok := m.profiles[patientID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (m *memoryStore) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	stored := *p
	stored.UpdatedAt = time.Date(2026, 3, 4, 7, 40, 0, 0, time.UTC)
	m.profiles[p.PatientID] = &stored
	return &stored, nil
}

func patientRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/profile", strings.NewReader(body))
	return req.WithContext(identity.WithPatientID(req.Context(), "p-1"))
}

func TestHandlerGetAndUpdate(t *testing.T) {
	h := NewHandler(&memoryStore{profiles: map[string]*Profile{}}, time.UTC, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, patientRequest(http.MethodGet, ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, patientRequest(http.MethodPut, `{"full_name":"Priya Sharma","blood_type":"a-","allergies":["Latex"]}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Get(rec, patientRequest(http.MethodGet, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var got Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "A-", got.BloodType)
	assert.Equal(t, []string{"Latex"}, got.Allergies)
}

func TestHandlerUpdateValidation(t *testing.T) {
	h := NewHandler(&memoryStore{profiles: map[string]*Profile{}}, time.UTC, nil)

	for _, body := range []string{
		`{"full_name":""}`,
		`{"full_name":"Priya","blood_type":"XY"}`,
		`{"full_name":"Priya","date_of_birth":"yesterday"}`,
		`not json`,
	} {
		rec := httptest.NewRecorder()
		h.Update(rec, patientRequest(http.MethodPut, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
