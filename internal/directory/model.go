// Package directory stores the hospital and doctor catalogue patients book against.
package directory

import (
	"strings"
	"time"
)

// Hospital is a care facility patients can book at.
type Hospital struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Departments []string `json:"departments,omitempty"`
}

// Doctor practices at exactly one hospital.
type Doctor struct {
	ID             string   `json:"id"`
	HospitalID     string   `json:"hospital_id"`
	FullName       string   `json:"full_name"`
	Specialization string   `json:"specialization"`
	Department     string   `json:"department"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	AvailableDays  []string `json:"available_days,omitempty"`
}

// AvailableOn reports whether the doctor sees patients on day. An empty
// AvailableDays list means no restriction. Entries match on full names or
// three-letter abbreviations, case-insensitively.
func (d *Doctor) AvailableOn(day time.Weekday) bool {
	if len(d.AvailableDays) == 0 {
		return true
	}
	full := strings.ToLower(day.String())
	for _, raw := range d.AvailableDays {
		entry := strings.ToLower(strings.TrimSpace(raw))
		if entry == full || (len(entry) == 3 && strings.HasPrefix(full, entry)) {
			return true
		}
	}
	return false
}

// Seed is the bulk document format used to load the directory.
type Seed struct {
	Hospitals []Hospital `json:"hospitals"`
	Doctors   []Doctor   `json:"doctors"`
}
