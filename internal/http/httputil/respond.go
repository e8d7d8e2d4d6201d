// Package httputil holds small JSON helpers shared by the patient API handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/healthcare-portal/internal/identity"
	"github.com/wolfman30/healthcare-portal/internal/scheduling"
	"github.com/wolfman30/healthcare-portal/internal/vitals"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes a JSON error body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

// PatientID resolves the authenticated patient or writes 401.
func PatientID(w http.ResponseWriter, r *http.Request) (string, bool) {
	patientID, ok := identity.PatientIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return patientID, true
}

// InputError reports whether err is caller-recoverable input trouble
// (malformed dates, labels or metric values) and returns its message.
func InputError(err error) (string, bool) {
	var parseErr *scheduling.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Error(), true
	}
	var valErr *vitals.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error(), true
	}
	return "", false
}
