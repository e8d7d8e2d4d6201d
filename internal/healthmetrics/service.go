package healthmetrics

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/healthcare-portal/internal/vitals"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

var metricsTracer = otel.Tracer("healthcare.internal.healthmetrics")

// DefaultAdvisoryWindow is how many recent readings feed the advisor.
const DefaultAdvisoryWindow = 10

// AdvisoryObserver records emitted advisories.
type AdvisoryObserver interface {
	ObserveAdvisory(kind, level string)
}

// Service records metrics and derives advisories from them.
type Service struct {
	repo     Repository
	clock    func() time.Time
	loc      *time.Location
	observer AdvisoryObserver
	logger   *logging.Logger
}

// NewService constructs a metrics service. loc is the app timezone used for measured_at.
func NewService(repo Repository, loc *time.Location, observer AdvisoryObserver, logger *logging.Logger) *Service {
	if repo == nil {
		panic("healthmetrics: repository required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:     repo,
		clock:    time.Now,
		loc:      loc,
		observer: observer,
		logger:   logger.Named("healthmetrics"),
	}
}

// Record validates and stores a new reading measured now.
func (s *Service) Record(ctx context.Context, patientID string, req *CreateMetricRequest) (*Metric, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, ErrMissingPatient
	}
	kind, value, unit, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	metric, err := s.repo.Create(ctx, &Metric{
		PatientID:  patientID,
		Kind:       kind,
		Value:      value,
		Unit:       unit,
		Notes:      strings.TrimSpace(req.Notes),
		MeasuredAt: s.clock().In(s.loc),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("health metric recorded", "id", metric.ID, "patient_id", patientID, "metric_type", kind)
	return metric, nil
}

// List returns the patient's metrics newest first.
func (s *Service) List(ctx context.Context, patientID string, limit int) ([]*Metric, error) {
	return s.repo.ListByPatient(ctx, patientID, limit)
}

// Delete removes one of the patient's metrics.
func (s *Service) Delete(ctx context.Context, patientID, id string) error {
	if err := s.repo.Delete(ctx, patientID, id); err != nil {
		return err
	}
	s.logger.Info("health metric deleted", "id", id, "patient_id", patientID)
	return nil
}

// Advise evaluates already-loaded metrics and records what was emitted.
func (s *Service) Advise(ctx context.Context, metrics []*Metric) vitals.Advice {
	_, span := metricsTracer.Start(ctx, "healthmetrics.advise")
	defer span.End()

	advice := vitals.Advise(Measurements(metrics))
	span.SetAttributes(
		attribute.Int("healthcare.metrics.count", len(metrics)),
		attribute.Int("healthcare.advisories.count", len(advice)),
	)
	if s.observer != nil {
		for _, a := range advice {
			s.observer.ObserveAdvisory(string(a.Kind), string(a.Level))
		}
	}
	return advice
}

// AdviseRecent loads the patient's most recent readings and evaluates them.
func (s *Service) AdviseRecent(ctx context.Context, patientID string, window int) (vitals.Advice, error) {
	if window <= 0 {
		window = DefaultAdvisoryWindow
	}
	metrics, err := s.repo.ListByPatient(ctx, patientID, window)
	if err != nil {
		return nil, err
	}
	return s.Advise(ctx, metrics), nil
}
