package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Repository stores profiles in the patient_profiles table.
type Repository struct {
	db    *sql.DB
	clock func() time.Time
}

// NewRepository creates a profiles repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("profiles: db required")
	}
	return &Repository{db: db, clock: time.Now}
}

// Get returns the patient's profile.
func (r *Repository) Get(ctx context.Context, patientID string) (*Profile, error) {
	var (
		p                                                   Profile
		dob                                                 sql.NullTime
		gender, phone, address, emergencyContact, bloodType sql.NullString
		allergies                                           pq.StringArray
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT patient_id, full_name, date_of_birth, gender, phone, address, emergency_contact, blood_type, allergies, updated_at
		FROM patient_profiles WHERE patient_id = $1`, patientID).
		Scan(&p.PatientID, &p.FullName, &dob, &gender, &phone, &address, &emergencyContact, &bloodType, &allergies, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profiles: get: %w", err)
	}
	if dob.Valid {
		d := dob.Time
		p.DateOfBirth = &d
	}
	p.Gender = gender.String
	p.Phone = phone.String
	p.Address = address.String
	p.EmergencyContact = emergencyContact.String
	p.BloodType = bloodType.String
	p.Allergies = []string(allergies)
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	return &p, nil
}

// Upsert creates or replaces the patient's profile and stamps updated_at.
func (r *Repository) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	stored := *p
	stored.UpdatedAt = r.clock().UTC()
	var dob any
	if stored.DateOfBirth != nil {
		dob = *stored.DateOfBirth
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_profiles (patient_id, full_name, date_of_birth, gender, phone, address, emergency_contact, blood_type, allergies, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (patient_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			emergency_contact = EXCLUDED.emergency_contact,
			blood_type = EXCLUDED.blood_type,
			allergies = EXCLUDED.allergies,
			updated_at = EXCLUDED.updated_at`,
		stored.PatientID, stored.FullName, dob, nullable(stored.Gender), nullable(stored.Phone),
		nullable(stored.Address), nullable(stored.EmergencyContact), nullable(stored.BloodType),
		pq.Array(stored.Allergies), stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("profiles: upsert: %w", err)
	}
	return &stored, nil
}

// PatientName returns the profile's full name, or "" when the patient has no profile yet.
func (r *Repository) PatientName(ctx context.Context, patientID string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT full_name FROM patient_profiles WHERE patient_id = $1`, patientID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("profiles: patient name: %w", err)
	}
	return strings.TrimSpace(name), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
