// Package dashboard assembles the patient's landing-page summary.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/healthcare-portal/internal/appointments"
	"github.com/wolfman30/healthcare-portal/internal/healthmetrics"
	"github.com/wolfman30/healthcare-portal/internal/profiles"
	"github.com/wolfman30/healthcare-portal/internal/visits"
	"github.com/wolfman30/healthcare-portal/internal/vitals"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

const (
	defaultAppointmentLimit = 3
	defaultVisitLimit       = 3
)

// ProfileSource loads the patient's profile.
type ProfileSource interface {
	Get(ctx context.Context, patientID string) (*profiles.Profile, error)
}

// AppointmentSource lists upcoming scheduled appointments.
type AppointmentSource interface {
	Upcoming(ctx context.Context, patientID string, limit int) ([]*appointments.Appointment, error)
}

// MetricSource lists recent readings and runs the advisor over them.
type MetricSource interface {
	List(ctx context.Context, patientID string, limit int) ([]*healthmetrics.Metric, error)
	Advise(ctx context.Context, metrics []*healthmetrics.Metric) vitals.Advice
}

// VisitSource lists recent visits.
type VisitSource interface {
	ListByPatient(ctx context.Context, patientID string, limit int) ([]*visits.Visit, error)
}

// Summary is the dashboard payload.
type Summary struct {
	Profile              *profiles.Profile           `json:"profile"`
	UpcomingAppointments []*appointments.Appointment `json:"upcoming_appointments"`
	RecentMetrics        []*healthmetrics.Metric     `json:"recent_metrics"`
	RecentVisits         []*visits.Visit             `json:"recent_visits"`
	Advisories           vitals.Advice               `json:"advisories"`
	Messages             []string                    `json:"messages"`
}

// Service builds dashboard summaries.
type Service struct {
	profiles     ProfileSource
	appointments AppointmentSource
	metrics      MetricSource
	visits       VisitSource
	metricLimit  int
	logger       *logging.Logger
}

// NewService creates a dashboard service. metricLimit bounds both the
// recent-metrics list and the advisor window.
func NewService(p ProfileSource, a AppointmentSource, m MetricSource, v VisitSource, metricLimit int, logger *logging.Logger) *Service {
	if p == nil || a == nil || m == nil || v == nil {
		panic("dashboard: all sources are required")
	}
	if metricLimit <= 0 {
		metricLimit = healthmetrics.DefaultAdvisoryWindow
	}
	return &Service{
		profiles:     p,
		appointments: a,
		metrics:      m,
		visits:       v,
		metricLimit:  metricLimit,
		logger:       logger.Named("dashboard"),
	}
}

// Summary loads every dashboard section concurrently. A missing profile is
// not an error; the section is left null.
func (s *Service) Summary(ctx context.Context, patientID string) (*Summary, error) {
	out := &Summary{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.profiles.Get(gctx, patientID)
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("dashboard: profile: %w", err)
		}
		out.Profile = p
		return nil
	})
	g.Go(func() error {
		appts, err := s.appointments.Upcoming(gctx, patientID, defaultAppointmentLimit)
		if err != nil {
			return fmt.Errorf("dashboard: appointments: %w", err)
		}
		out.UpcomingAppointments = appts
		return nil
	})
	g.Go(func() error {
		metrics, err := s.metrics.List(gctx, patientID, s.metricLimit)
		if err != nil {
			return fmt.Errorf("dashboard: metrics: %w", err)
		}
		out.RecentMetrics = metrics
		return nil
	})
	g.Go(func() error {
		recent, err := s.visits.ListByPatient(gctx, patientID, defaultVisitLimit)
		if err != nil {
			return fmt.Errorf("dashboard: visits: %w", err)
		}
		out.RecentVisits = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Advisories = s.metrics.Advise(ctx, out.RecentMetrics)
	out.Messages = out.Advisories.Messages()
	if out.UpcomingAppointments == nil {
		out.UpcomingAppointments = []*appointments.Appointment{}
	}
	if out.RecentMetrics == nil {
		out.RecentMetrics = []*healthmetrics.Metric{}
	}
	if out.RecentVisits == nil {
		out.RecentVisits = []*visits.Visit{}
	}
	if out.Advisories == nil {
		out.Advisories = vitals.Advice{}
	}
	return out, nil
}
