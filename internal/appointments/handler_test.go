package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/healthcare-portal/internal/identity"
)

func newTestRouter(t *testing.T) (http.Handler, fixture) {
	t.Helper()
	f := newFixture(t)
	h := NewHandler(f.svc, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := identity.WithPatientID(req.Context(), "p-1")
			ctx = identity.WithEmail(ctx, "asha@example.com")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/appointments", h.List)
	r.Post("/appointments", h.Book)
	r.Get("/appointments/slots", h.Slots)
	r.Post("/appointments/{appointmentID}/cancel", h.Cancel)
	return r, f
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw)))
	return w
}

func TestHandlerBook(t *testing.T) {
	router, f := newTestRouter(t)

	w := postJSON(t, router, "/appointments", validRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var appt Appointment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&appt))
	assert.Equal(t, "p-1", appt.PatientID)
	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, "asha@example.com", f.dispatcher.sent[0].PatientEmail)
}

func TestHandlerBookErrorStatuses(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		req    BookRequest
		status int
	}{
		{"missing fields", BookRequest{}, http.StatusBadRequest},
		{"bad label", BookRequest{HospitalID: "h-1", DoctorID: "d-1", Date: "2026-03-04", Time: "2:30"}, http.StatusBadRequest},
		{"unknown doctor", BookRequest{HospitalID: "h-1", DoctorID: "nope", Date: "2026-03-04", Time: "02:30 PM"}, http.StatusNotFound},
		{"past slot", BookRequest{HospitalID: "h-1", DoctorID: "d-1", Date: "2026-03-04", Time: "10:00 AM"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/appointments", tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestHandlerSlots(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments/slots?date=2026-03-05", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp SlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Slots, 15)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments/slots?date=bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerListAndCancel(t *testing.T) {
	router, f := newTestRouter(t)
	appt, err := f.svc.Book(context.Background(), Patient{ID: "p-1"}, validRequest())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Appointments []Appointment `json:"appointments"`
		Count        int           `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, 1, list.Count)

	w = postJSON(t, router, "/appointments/"+appt.ID+"/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/appointments/"+appt.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, router, "/appointments/missing/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
