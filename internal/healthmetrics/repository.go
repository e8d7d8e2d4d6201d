package healthmetrics

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines storage for health metrics.
type Repository interface {
	Create(ctx context.Context, metric *Metric) (*Metric, error)
	ListByPatient(ctx context.Context, patientID string, limit int) ([]*Metric, error)
	Delete(ctx context.Context, patientID, id string) error
}

// InMemoryRepository keeps metrics in process memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	metrics map[string]*Metric
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{metrics: make(map[string]*Metric)}
}

func (r *InMemoryRepository) Create(ctx context.Context, metric *Metric) (*Metric, error) {
	if strings.TrimSpace(metric.PatientID) == "" {
		return nil, ErrMissingPatient
	}
	stored := *metric
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.metrics[stored.ID] = &stored
	r.mu.Unlock()

	out := stored
	return &out, nil
}

// ListByPatient returns newest-first metrics; limit <= 0 means all.
func (r *InMemoryRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]*Metric, error) {
	r.mu.RLock()
	out := make([]*Metric, 0)
	for _, m := range r.metrics {
		if m.PatientID == patientID {
			cp := *m
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MeasuredAt.After(out[j].MeasuredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, patientID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.metrics[id]
	if !ok || m.PatientID != patientID {
		return ErrMetricNotFound
	}
	delete(r.metrics, id)
	return nil
}
