package healthmetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wolfman30/healthcare-portal/internal/vitals"
)

// PgxPool is the subset of pgxpool.Pool used by the repository.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores metrics in the health_metrics table.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("healthmetrics: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, metric *Metric) (*Metric, error) {
	if metric.PatientID == "" {
		return nil, ErrMissingPatient
	}
	stored := *metric
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	query := `
		INSERT INTO health_metrics (id, patient_id, metric_type, value, unit, notes, measured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		stored.ID,
		stored.PatientID,
		string(stored.Kind),
		stored.Value,
		stored.Unit,
		stored.Notes,
		stored.MeasuredAt,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("healthmetrics: insert failed: %w", err)
	}
	stored.CreatedAt = createdAt
	return &stored, nil
}

func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]*Metric, error) {
	query := `
		SELECT id, patient_id, metric_type, value, unit, notes, measured_at, created_at
		FROM health_metrics
		WHERE patient_id = $1
		ORDER BY measured_at DESC
	`
	args := []any{patientID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("healthmetrics: list failed: %w", err)
	}
	defer rows.Close()

	var metrics []*Metric
	for rows.Next() {
		var (
			m    Metric
			kind string
		)
		if err := rows.Scan(&m.ID, &m.PatientID, &kind, &m.Value, &m.Unit, &m.Notes, &m.MeasuredAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("healthmetrics: scan failed: %w", err)
		}
		m.Kind = vitals.Kind(kind)
		metrics = append(metrics, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("healthmetrics: rows error: %w", err)
	}
	return metrics, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, patientID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrMetricNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM health_metrics WHERE id = $1 AND patient_id = $2`, id, patientID)
	if err != nil {
		return fmt.Errorf("healthmetrics: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMetricNotFound
	}
	return nil
}
