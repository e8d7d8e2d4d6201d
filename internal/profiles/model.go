package profiles

import (
	"strings"
	"time"

	"github.com/wolfman30/healthcare-portal/internal/scheduling"
)

// BloodTypes lists the accepted ABO/Rh groups.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Profile is a patient's personal record.
type Profile struct {
	PatientID        string     `json:"patient_id"`
	FullName         string     `json:"full_name"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Address          string     `json:"address,omitempty"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	BloodType        string     `json:"blood_type,omitempty"`
	Allergies        []string   `json:"allergies"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UpdateRequest is the body of PUT /profile.
type UpdateRequest struct {
	FullName         string   `json:"full_name"`
	DateOfBirth      string   `json:"date_of_birth"`
	Gender           string   `json:"gender"`
	Phone            string   `json:"phone"`
	Address          string   `json:"address"`
	EmergencyContact string   `json:"emergency_contact"`
	BloodType        string   `json:"blood_type"`
	Allergies        []string `json:"allergies"`
}

// ToProfile validates the request and normalizes its fields.
func (r *UpdateRequest) ToProfile(patientID string, loc *time.Location) (*Profile, error) {
	name := strings.TrimSpace(r.FullName)
	if name == "" {
		return nil, ErrMissingName
	}
	p := &Profile{
		PatientID:        patientID,
		FullName:         name,
		Gender:           strings.TrimSpace(r.Gender),
		Phone:            strings.TrimSpace(r.Phone),
		Address:          strings.TrimSpace(r.Address),
		EmergencyContact: strings.TrimSpace(r.EmergencyContact),
		Allergies:        normalizeAllergies(r.Allergies),
	}
	if raw := strings.TrimSpace(r.DateOfBirth); raw != "" {
		dob, err := scheduling.ParseDate(raw, loc)
		if err != nil {
			return nil, err
		}
		p.DateOfBirth = &dob
	}
	bt, err := NormalizeBloodType(r.BloodType)
	if err != nil {
		return nil, err
	}
	p.BloodType = bt
	return p, nil
}

// NormalizeBloodType upper-cases raw and checks it against BloodTypes.
// Blank input is allowed and stays blank.
func NormalizeBloodType(raw string) (string, error) {
	bt := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))
	if bt == "" {
		return "", nil
	}
	for _, known := range BloodTypes {
		if bt == known {
			return bt, nil
		}
	}
	return "", ErrInvalidBloodType
}

func normalizeAllergies(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
