package sim

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"partnersim/internal/infra/persistence/memory"
	"partnersim/pkg/domain"
)

func gatherFamilies(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	out := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "," + l.GetName() + "=" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestPrometheusRecorderObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusMetricsRecorder: %v", err)
	}
	ctx := context.Background()

	rec.Observe(ctx, "run_scenario", true, 30*time.Millisecond)
	rec.Observe(ctx, "run_scenario", true, 10*time.Millisecond)
	rec.Observe(ctx, "run_scenario", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Second) // dropped

	got := gatherFamilies(t, reg)
	if got["partnersim_service_operations_total,operation=run_scenario,status=success"] != 2 {
		t.Fatalf("success counter wrong: %+v", got)
	}
	if got["partnersim_service_operations_total,operation=run_scenario,status=error"] != 1 {
		t.Fatalf("error counter wrong: %+v", got)
	}
	if got["partnersim_service_operation_duration_seconds,operation=run_scenario"] != 3 {
		t.Fatalf("histogram sample count wrong: %+v", got)
	}
}

func TestPrometheusRecorderDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("duplicate registration accepted")
	}
}

func TestServiceWithPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusMetricsRecorder: %v", err)
	}
	svc := NewService(memory.NewStore(nil), WithMetricsRecorder(rec))

	cfg := domain.DefaultConfig()
	cfg.HorizonYears = 1
	if _, err := svc.RunScenario(context.Background(), cfg, nil); err != nil {
		t.Fatalf("RunScenario: %v", err)
	}

	got := gatherFamilies(t, reg)
	if got["partnersim_service_operations_total,operation=run_scenario,status=success"] != 1 {
		t.Fatalf("scenario not counted: %+v", got)
	}
}
