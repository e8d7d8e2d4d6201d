package visits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Repository stores visits in the health_visits table.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a visits repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("visits: db required")
	}
	return &Repository{db: db}
}

const visitColumns = `id, patient_id, doctor_name, hospital_name, visit_date, diagnosis, notes, specialization, created_at`

// ListByPatient returns the patient's visits, most recent first. limit <= 0 means all.
func (r *Repository) ListByPatient(ctx context.Context, patientID string, limit int) ([]*Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM health_visits WHERE patient_id = $1 ORDER BY visit_date DESC`
	args := []any{patientID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("visits: list: %w", err)
	}
	defer rows.Close()

	out := []*Visit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Get returns one of the patient's visits.
func (r *Repository) Get(ctx context.Context, patientID, id string) (*Visit, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrVisitNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+visitColumns+` FROM health_visits WHERE id = $1 AND patient_id = $2`, id, patientID)
	v, err := scanVisit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	return v, err
}

// Create inserts a visit.
func (r *Repository) Create(ctx context.Context, v *Visit) (*Visit, error) {
	stored := *v
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO health_visits (id, patient_id, doctor_name, hospital_name, visit_date, diagnosis, notes, specialization)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		stored.ID, stored.PatientID, stored.DoctorName, stored.HospitalName, stored.VisitDate,
		stored.Diagnosis, stored.Notes, stored.Specialization).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("visits: insert: %w", err)
	}
	return &stored, nil
}

// Update replaces the editable fields of an existing visit.
func (r *Repository) Update(ctx context.Context, v *Visit) error {
	if uuid.Validate(v.ID) != nil {
		return ErrVisitNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE health_visits
		SET doctor_name = $3, hospital_name = $4, visit_date = $5, diagnosis = $6, notes = $7, specialization = $8
		WHERE id = $1 AND patient_id = $2`,
		v.ID, v.PatientID, v.DoctorName, v.HospitalName, v.VisitDate, v.Diagnosis, v.Notes, v.Specialization)
	if err != nil {
		return fmt.Errorf("visits: update: %w", err)
	}
	return requireAffected(res)
}

// Delete removes one of the patient's visits.
func (r *Repository) Delete(ctx context.Context, patientID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrVisitNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_visits WHERE id = $1 AND patient_id = $2`, id, patientID)
	if err != nil {
		return fmt.Errorf("visits: delete: %w", err)
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVisit(s scanner) (*Visit, error) {
	var (
		v                                Visit
		diagnosis, notes, specialization sql.NullString
	)
	if err := s.Scan(&v.ID, &v.PatientID, &v.DoctorName, &v.HospitalName, &v.VisitDate,
		&diagnosis, &notes, &specialization, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Diagnosis = diagnosis.String
	v.Notes = notes.String
	v.Specialization = specialization.String
	return &v, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("visits: rows affected: %w", err)
	}
	if n == 0 {
		return ErrVisitNotFound
	}
	return nil
}
