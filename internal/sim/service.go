package sim

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"partnersim/pkg/domain"
)

// Service runs scenarios and archives the resulting run records. Each
// scenario gets its own engine, source, and population store; the service
// itself only coordinates and observes.
type Service struct {
	archive domain.PersistentStore
	metrics MetricsRecorder
	tracer  Tracer
	nowFn   func() time.Time
	idFn    func() string
}

// ServiceOption customizes service construction.
type ServiceOption func(*Service)

// WithMetricsRecorder wires a metrics recorder into the service.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer wires a tracer into the service.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(nowFn func() time.Time) ServiceOption {
	return func(s *Service) {
		if nowFn != nil {
			s.nowFn = nowFn
		}
	}
}

// NewService constructs a service backed by the supplied run archive.
func NewService(archive domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		archive: archive,
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		nowFn:   func() time.Time { return time.Now().UTC() },
		idFn:    newRunID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newRunID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// RunScenario builds an engine for the given configuration and optional seed
// table, runs it to the horizon, and archives the run record.
func (s *Service) RunScenario(ctx context.Context, cfg Config, table SeedTable) (record RunRecord, err error) {
	started := s.nowFn()
	ctx, span := s.tracer.Start(ctx, "run_scenario")
	defer func() {
		span.End(err)
		s.metrics.Observe(ctx, "run_scenario", err == nil, time.Since(started))
	}()

	engine, err := NewEngineWithSeed(cfg, table)
	if err != nil {
		return RunRecord{}, err
	}
	history, err := engine.Run(ctx)
	if err != nil {
		return RunRecord{}, err
	}

	record = RunRecord{
		ID:        s.idFn(),
		CreatedAt: started,
		Config:    cfg.Clone(),
		History:   history,
		People:    engine.People(),
	}
	if s.archive != nil {
		if _, err = s.archive.RunInTransaction(ctx, func(tx domain.ArchiveTransaction) error {
			_, txErr := tx.CreateRun(record)
			return txErr
		}); err != nil {
			return RunRecord{}, err
		}
	}
	return record, nil
}

// GetRun retrieves an archived run by ID.
func (s *Service) GetRun(id string) (RunRecord, bool) {
	if s.archive == nil {
		return RunRecord{}, false
	}
	return s.archive.GetRun(id)
}

// ListRuns returns all archived runs.
func (s *Service) ListRuns() []RunRecord {
	if s.archive == nil {
		return nil
	}
	return s.archive.ListRuns()
}
