package results

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	blobmemory "partnersim/internal/infra/blob/memory"
	"partnersim/internal/sim"
	"partnersim/pkg/domain"
)

type staticRunSource map[string]domain.RunRecord

func (s staticRunSource) GetRun(id string) (domain.RunRecord, bool) {
	r, ok := s[id]
	return r, ok
}

func sampleRun(id string) domain.RunRecord {
	cfg := domain.DefaultConfig()
	cfg.HorizonYears = 2
	return domain.RunRecord{
		ID:        id,
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Config:    cfg,
		History: domain.History{
			{Year: 2025, PartnersActive: 30, PartnersEmeritus: 30, PartnersEconomic: 45, PartnersVoting: 60, Trainees: 10, Living: 70},
			{Year: 2026, PartnersActive: 29, PartnersEmeritus: 31, PartnersEconomic: 44, PartnersVoting: 60, Trainees: 9, Living: 69},
		},
	}
}

func startWorker(t *testing.T, w *Worker) {
	t.Helper()
	w.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.Stop(ctx); err != nil {
			t.Fatalf("Stop: %v", err)
		}
	})
}

func awaitExport(t *testing.T, w *Worker, id string) ExportRecord {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, ok := w.GetExport(id)
		if !ok {
			t.Fatalf("export %s vanished", id)
		}
		if record.Status == ExportStatusSucceeded || record.Status == ExportStatusFailed {
			return record
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("export %s did not finish", id)
	return ExportRecord{}
}

func TestExportProducesJSONAndCSV(t *testing.T) {
	source := staticRunSource{"run-a": sampleRun("run-a")}
	store := NewMemoryObjectStore()
	audit := &MemoryAuditLog{}
	worker := NewWorker(source, store, audit)
	startWorker(t, worker)

	queued, err := worker.EnqueueExport(context.Background(), ExportInput{
		RunID:       "run-a",
		RequestedBy: "analyst",
		Reason:      "quarterly review",
	})
	if err != nil {
		t.Fatalf("EnqueueExport: %v", err)
	}
	if queued.Status != ExportStatusQueued {
		t.Fatalf("queued status = %s", queued.Status)
	}
	record := awaitExport(t, worker, queued.ID)
	if record.Status != ExportStatusSucceeded {
		t.Fatalf("export failed: %s", record.Error)
	}
	if len(record.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(record.Artifacts))
	}
	if record.CompletedAt == nil {
		t.Fatalf("completion time not set")
	}

	byFormat := map[Format]ExportArtifact{}
	for _, a := range record.Artifacts {
		byFormat[a.Format] = a
	}

	_, jsonPayload, err := store.Get(context.Background(), byFormat[FormatJSON].ID)
	if err != nil {
		t.Fatalf("get json artifact: %v", err)
	}
	var doc struct {
		RunID   string                `json:"run_id"`
		History []domain.TickSnapshot `json:"history"`
	}
	if err := json.Unmarshal(jsonPayload, &doc); err != nil {
		t.Fatalf("decode json artifact: %v", err)
	}
	if doc.RunID != "run-a" || len(doc.History) != 2 {
		t.Fatalf("json artifact mangled: %+v", doc)
	}

	_, csvPayload, err := store.Get(context.Background(), byFormat[FormatCSV].ID)
	if err != nil {
		t.Fatalf("get csv artifact: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(csvPayload))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv artifact: %v", err)
	}
	if !reflect.DeepEqual(rows[0], sim.SnapshotColumns()) {
		t.Fatalf("csv header %v", rows[0])
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	wantFirst := sim.SnapshotValues(sampleRun("run-a").History[0])
	for i, v := range wantFirst {
		if rows[1][i] != strconv.Itoa(v) {
			t.Fatalf("csv row mismatch at column %d: %s", i, rows[1][i])
		}
	}

	entries := audit.Entries()
	if len(entries) == 0 {
		t.Fatalf("no audit entries recorded")
	}
	last := entries[len(entries)-1]
	if last.Action != "results_export" || last.Status != ExportStatusSucceeded {
		t.Fatalf("unexpected final audit entry: %+v", last)
	}
}

func TestEnqueueExportValidation(t *testing.T) {
	source := staticRunSource{"run-a": sampleRun("run-a")}
	worker := NewWorker(source, NewMemoryObjectStore(), nil)

	if _, err := worker.EnqueueExport(context.Background(), ExportInput{RunID: ""}); err == nil {
		t.Fatalf("empty run ID accepted")
	}
	if _, err := worker.EnqueueExport(context.Background(), ExportInput{RunID: "missing"}); err == nil {
		t.Fatalf("unknown run accepted")
	}
	if _, err := worker.EnqueueExport(context.Background(), ExportInput{RunID: "run-a", Formats: []Format{"parquet"}}); err == nil {
		t.Fatalf("unsupported format accepted")
	}
}

func TestEnqueueExportDeduplicatesFormats(t *testing.T) {
	source := staticRunSource{"run-a": sampleRun("run-a")}
	worker := NewWorker(source, NewMemoryObjectStore(), nil)
	startWorker(t, worker)

	queued, err := worker.EnqueueExport(context.Background(), ExportInput{
		RunID:   "run-a",
		Formats: []Format{FormatCSV, FormatCSV, FormatJSON},
	})
	if err != nil {
		t.Fatalf("EnqueueExport: %v", err)
	}
	if len(queued.Formats) != 2 {
		t.Fatalf("formats not deduplicated: %v", queued.Formats)
	}
	record := awaitExport(t, worker, queued.ID)
	if len(record.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(record.Artifacts))
	}
}

func TestGetExportUnknownID(t *testing.T) {
	worker := NewWorker(staticRunSource{}, nil, nil)
	if _, ok := worker.GetExport("nope"); ok {
		t.Fatalf("phantom export record")
	}
}

func TestExportThroughBlobStore(t *testing.T) {
	source := staticRunSource{"run-a": sampleRun("run-a")}
	store := NewBlobObjectStore(blobmemory.New())
	worker := NewWorker(source, store, nil)
	startWorker(t, worker)

	queued, err := worker.EnqueueExport(context.Background(), ExportInput{RunID: "run-a", Formats: []Format{FormatJSON}})
	if err != nil {
		t.Fatalf("EnqueueExport: %v", err)
	}
	record := awaitExport(t, worker, queued.ID)
	if record.Status != ExportStatusSucceeded {
		t.Fatalf("export failed: %s", record.Error)
	}
	artifact := record.Artifacts[0]
	if artifact.ContentType != "application/json" {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}

	got, payload, err := store.Get(context.Background(), artifact.ID)
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}
	if got.SizeBytes != int64(len(payload)) {
		t.Fatalf("size mismatch: %d vs %d", got.SizeBytes, len(payload))
	}
	listed, err := store.List(context.Background(), "")
	if err != nil || len(listed) != 1 {
		t.Fatalf("List = %d, %v", len(listed), err)
	}
	removed, err := store.Delete(context.Background(), artifact.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
}

func TestMaterializeRejectsUnknownFormat(t *testing.T) {
	if _, err := materialize("xml", sampleRun("run-a")); err == nil {
		t.Fatalf("unknown format accepted")
	}
}
