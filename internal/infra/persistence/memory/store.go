// Package memory provides the in-memory run-archive store that the durable
// backends reuse for transactional semantics.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"partnersim/pkg/domain"
)

// Snapshot is the serializable archive state exchanged with durable backends.
type Snapshot struct {
	Runs []domain.RunRecord `json:"runs"`
}

// Store implements domain.PersistentStore entirely in memory.
type Store struct {
	mu     sync.RWMutex
	runs   map[string]domain.RunRecord
	engine *domain.ArchiveRulesEngine
}

// NewStore constructs an in-memory archive backed by the provided rules
// engine.
func NewStore(engine *domain.ArchiveRulesEngine) *Store {
	if engine == nil {
		engine = domain.NewArchiveRulesEngine()
	}
	return &Store{
		runs:   make(map[string]domain.RunRecord),
		engine: engine,
	}
}

type archiveState struct {
	runs map[string]domain.RunRecord
}

func (s archiveState) clone() archiveState {
	cloned := archiveState{runs: make(map[string]domain.RunRecord, len(s.runs))}
	for id, r := range s.runs {
		cloned.runs[id] = r.Clone()
	}
	return cloned
}

func (s archiveState) list() []domain.RunRecord {
	out := make([]domain.RunRecord, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type archiveView struct {
	state *archiveState
}

var _ domain.ArchiveView = archiveView{}

// ListRuns returns all archived runs ordered by creation time, then ID.
func (v archiveView) ListRuns() []domain.RunRecord {
	return v.state.list()
}

// FindRun retrieves a run by ID from the snapshot.
func (v archiveView) FindRun(id string) (domain.RunRecord, bool) {
	r, ok := v.state.runs[id]
	if !ok {
		return domain.RunRecord{}, false
	}
	return r.Clone(), true
}

type transaction struct {
	state   archiveState
	changes []domain.Change
}

var _ domain.ArchiveTransaction = (*transaction)(nil)

// Snapshot exposes the transaction state as a read-only view.
func (tx *transaction) Snapshot() domain.ArchiveView {
	return archiveView{state: &tx.state}
}

// CreateRun stores a new immutable run record.
func (tx *transaction) CreateRun(r domain.RunRecord) (domain.RunRecord, error) {
	if r.ID == "" {
		return domain.RunRecord{}, fmt.Errorf("run ID required")
	}
	if _, exists := tx.state.runs[r.ID]; exists {
		return domain.RunRecord{}, fmt.Errorf("run %q already exists", r.ID)
	}
	tx.state.runs[r.ID] = r.Clone()
	tx.changes = append(tx.changes, domain.Change{Entity: domain.EntityRun, Action: domain.ActionCreate, After: r.Clone()})
	return r.Clone(), nil
}

// DeleteRun removes a run record.
func (tx *transaction) DeleteRun(id string) error {
	current, ok := tx.state.runs[id]
	if !ok {
		return fmt.Errorf("run %q not found", id)
	}
	delete(tx.state.runs, id)
	tx.changes = append(tx.changes, domain.Change{Entity: domain.EntityRun, Action: domain.ActionDelete, Before: current.Clone()})
	return nil
}

// RunInTransaction executes fn within a transactional copy of the archive.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.ArchiveTransaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{state: archiveState{runs: s.runs}.clone()}
	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		view := archiveView{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.runs = tx.state.runs
	return result, nil
}

// View executes fn against a read-only snapshot of the archive.
func (s *Store) View(ctx context.Context, fn func(domain.ArchiveView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := archiveState{runs: s.runs}.clone()
	return fn(archiveView{state: &snapshot})
}

// GetRun retrieves a run by ID from committed state.
func (s *Store) GetRun(id string) (domain.RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return domain.RunRecord{}, false
	}
	return r.Clone(), true
}

// ListRuns returns all runs from committed state.
func (s *Store) ListRuns() []domain.RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return archiveState{runs: s.runs}.list()
}

// ExportState returns a serializable snapshot of the archive.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Runs: archiveState{runs: s.runs}.list()}
}

// ImportState replaces the archive contents with the snapshot. Hydration
// bypasses rule evaluation: the snapshot was validated when first committed.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]domain.RunRecord, len(snapshot.Runs))
	for _, r := range snapshot.Runs {
		s.runs[r.ID] = r.Clone()
	}
}
