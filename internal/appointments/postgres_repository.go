package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PgxPool is the subset of pgxpool.Pool used by the repository.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the appointments table.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const selectColumns = `id, patient_id, doctor_id, hospital_id, appointment_date, reason, status, created_at`

func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	stored := *appt
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Status == "" {
		stored.Status = StatusScheduled
	}

	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, hospital_id, appointment_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, query,
		stored.ID,
		stored.PatientID,
		stored.DoctorID,
		stored.HospitalID,
		stored.AppointmentDate,
		stored.Reason,
		string(stored.Status),
	).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	stored.CreatedAt = createdAt
	return &stored, nil
}

func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	query := `SELECT ` + selectColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date ASC`
	return r.query(ctx, query, patientID)
}

func (r *PostgresRepository) Upcoming(ctx context.Context, patientID string, now time.Time, limit int) ([]*Appointment, error) {
	query := `SELECT ` + selectColumns + `
		FROM appointments
		WHERE patient_id = $1 AND status = 'scheduled' AND appointment_date >= $2
		ORDER BY appointment_date ASC
		LIMIT $3`
	return r.query(ctx, query, patientID, now, limit)
}

func (r *PostgresRepository) Cancel(ctx context.Context, patientID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrAppointmentNotFound
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET status = 'cancelled'
		WHERE id = $1 AND patient_id = $2 AND status = 'scheduled'`, id, patientID)
	if err != nil {
		return fmt.Errorf("appointments: cancel failed: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var status string
	err = r.pool.QueryRow(ctx, `SELECT status FROM appointments WHERE id = $1 AND patient_id = $2`, id, patientID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return fmt.Errorf("appointments: cancel lookup failed: %w", err)
	}
	return ErrNotCancellable
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: query failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		var (
			a      Appointment
			status string
		)
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.HospitalID, &a.AppointmentDate, &a.Reason, &status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		a.Status = Status(status)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows error: %w", err)
	}
	return out, nil
}
