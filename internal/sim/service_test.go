package sim

import (
	"context"
	"testing"
	"time"

	"partnersim/internal/infra/persistence/memory"
	"partnersim/pkg/domain"
)

func TestRunScenarioArchivesRecord(t *testing.T) {
	archive := memory.NewStore(NewDefaultArchiveRulesEngine())
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc := NewService(archive, WithClock(func() time.Time { return fixed }))

	cfg := domain.DefaultConfig()
	cfg.HorizonYears = 5
	record, err := svc.RunScenario(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if record.ID == "" {
		t.Fatalf("expected generated run ID")
	}
	if !record.CreatedAt.Equal(fixed) {
		t.Fatalf("CreatedAt = %v, want %v", record.CreatedAt, fixed)
	}
	if len(record.History) != cfg.HorizonYears {
		t.Fatalf("history has %d rows, want %d", len(record.History), cfg.HorizonYears)
	}

	stored, ok := svc.GetRun(record.ID)
	if !ok {
		t.Fatalf("run %s not archived", record.ID)
	}
	if len(stored.People) != len(record.People) {
		t.Fatalf("archived population truncated")
	}
	if runs := svc.ListRuns(); len(runs) != 1 || runs[0].ID != record.ID {
		t.Fatalf("unexpected run listing: %+v", runs)
	}
}

func TestRunScenarioWithoutArchive(t *testing.T) {
	svc := NewService(nil)
	cfg := domain.DefaultConfig()
	cfg.HorizonYears = 2
	record, err := svc.RunScenario(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if record.ID == "" || len(record.History) != 2 {
		t.Fatalf("record not built without archive: %+v", record)
	}
	if _, ok := svc.GetRun(record.ID); ok {
		t.Fatalf("nil archive cannot return runs")
	}
	if svc.ListRuns() != nil {
		t.Fatalf("nil archive cannot list runs")
	}
}

func TestRunScenarioObservability(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	tracer := NewJSONTracer(nil)
	svc := NewService(memory.NewStore(nil), WithMetricsRecorder(recorder), WithTracer(tracer))

	cfg := domain.DefaultConfig()
	cfg.HorizonYears = 2
	if _, err := svc.RunScenario(context.Background(), cfg, nil); err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	// a malformed seed table fails before the engine runs
	if _, err := svc.RunScenario(context.Background(), cfg, SeedTable{{Status: "bogus"}}); err == nil {
		t.Fatalf("expected seed validation failure")
	}

	snap := recorder.Snapshot()
	if snap.Results["run_scenario"]["success"] != 1 || snap.Results["run_scenario"]["error"] != 1 {
		t.Fatalf("unexpected metrics: %+v", snap.Results)
	}
	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(entries))
	}
	if entries[0].Operation != "run_scenario" || entries[0].Status != "success" {
		t.Fatalf("unexpected first span: %+v", entries[0])
	}
	if entries[1].Status != "error" || entries[1].Error == "" {
		t.Fatalf("unexpected second span: %+v", entries[1])
	}
}

func TestRunScenarioGeneratesUniqueIDs(t *testing.T) {
	svc := NewService(memory.NewStore(nil))
	cfg := domain.DefaultConfig()
	cfg.HorizonYears = 1
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		record, err := svc.RunScenario(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("RunScenario: %v", err)
		}
		if seen[record.ID] {
			t.Fatalf("duplicate run ID %s", record.ID)
		}
		seen[record.ID] = true
	}
}
