package prescriptions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool used by the repository.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores prescriptions with medications as JSONB.
type Repository struct {
	pool PgxPool
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("prescriptions: pgx pool required")
	}
	return &Repository{pool: pool}
}

const columns = `id, patient_id, doctor_name, prescription_date, medications, instructions, duration_days, file_url, created_at`

func (r *Repository) ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+`
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY prescription_date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("prescriptions: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prescriptions: rows error: %w", err)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, patientID, id string) (*Prescription, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrPrescriptionNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM prescriptions WHERE id = $1 AND patient_id = $2`, id, patientID)
	p, err := scanPrescription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	return p, err
}

func (r *Repository) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	stored := *p
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	meds, err := json.Marshal(stored.Medications)
	if err != nil {
		return nil, fmt.Errorf("prescriptions: marshal medications: %w", err)
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO prescriptions (id, patient_id, doctor_name, prescription_date, medications, instructions, duration_days, file_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		stored.ID, stored.PatientID, stored.DoctorName, stored.PrescriptionDate, meds,
		stored.Instructions, stored.DurationDays, stored.FileURL,
	).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("prescriptions: insert failed: %w", err)
	}
	return &stored, nil
}

// SetFile records the storage key of an uploaded prescription document.
func (r *Repository) SetFile(ctx context.Context, patientID, id, fileURL string) error {
	if uuid.Validate(id) != nil {
		return ErrPrescriptionNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE prescriptions SET file_url = $3 WHERE id = $1 AND patient_id = $2`, id, patientID, fileURL)
	if err != nil {
		return fmt.Errorf("prescriptions: set file failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPrescriptionNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, patientID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrPrescriptionNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM prescriptions WHERE id = $1 AND patient_id = $2`, id, patientID)
	if err != nil {
		return fmt.Errorf("prescriptions: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPrescriptionNotFound
	}
	return nil
}

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var (
		p    Prescription
		meds []byte
	)
	if err := row.Scan(&p.ID, &p.PatientID, &p.DoctorName, &p.PrescriptionDate, &meds,
		&p.Instructions, &p.DurationDays, &p.FileURL, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("prescriptions: scan failed: %w", err)
	}
	if len(meds) > 0 {
		if err := json.Unmarshal(meds, &p.Medications); err != nil {
			return nil, fmt.Errorf("prescriptions: decode medications: %w", err)
		}
	}
	if p.Medications == nil {
		p.Medications = []Medication{}
	}
	return &p, nil
}
