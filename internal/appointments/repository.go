package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines appointment storage.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)
	Upcoming(ctx context.Context, patientID string, now time.Time, limit int) ([]*Appointment, error)
	Cancel(ctx context.Context, patientID, id string) error
}

// InMemoryRepository keeps appointments in process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	appts map[string]*Appointment
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appts: make(map[string]*Appointment)}
}

func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appts {
		if existing.Status == StatusScheduled &&
			existing.DoctorID == appt.DoctorID &&
			existing.AppointmentDate.Equal(appt.AppointmentDate) {
			return nil, ErrSlotTaken
		}
	}

	stored := *appt
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Status == "" {
		stored.Status = StatusScheduled
	}
	stored.CreatedAt = time.Now().UTC()
	r.appts[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return r.filter(patientID, func(*Appointment) bool { return true }, 0), nil
}

func (r *InMemoryRepository) Upcoming(ctx context.Context, patientID string, now time.Time, limit int) ([]*Appointment, error) {
	return r.filter(patientID, func(a *Appointment) bool {
		return a.Status == StatusScheduled && !a.AppointmentDate.Before(now)
	}, limit), nil
}

func (r *InMemoryRepository) Cancel(ctx context.Context, patientID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appts[id]
	if !ok || appt.PatientID != patientID {
		return ErrAppointmentNotFound
	}
	if appt.Status != StatusScheduled {
		return ErrNotCancellable
	}
	appt.Status = StatusCancelled
	return nil
}

func (r *InMemoryRepository) filter(patientID string, keep func(*Appointment) bool, limit int) []*Appointment {
	r.mu.RLock()
	out := make([]*Appointment, 0)
	for _, a := range r.appts {
		if a.PatientID == patientID && keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppointmentDate.Before(out[j].AppointmentDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
