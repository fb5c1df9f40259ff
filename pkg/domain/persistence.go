package domain

import "context"

// ArchiveTransaction exposes the run-archive operations a persistence
// implementation must support within an atomic scope. Archived runs are
// immutable: there is no update operation.
type ArchiveTransaction interface {
	Snapshot() ArchiveView
	CreateRun(RunRecord) (RunRecord, error)
	DeleteRun(id string) error
}

// ArchiveView provides read-only access to archived runs. ListRuns returns
// records ordered by creation time, then ID.
type ArchiveView interface {
	ListRuns() []RunRecord
	FindRun(id string) (RunRecord, bool)
}

// ArchiveRule validates archived runs within a transaction boundary.
type ArchiveRule interface {
	Name() string
	Evaluate(ctx context.Context, view ArchiveView, changes []Change) (Result, error)
}

// ArchiveRulesEngine orchestrates archive rule evaluation.
type ArchiveRulesEngine struct {
	rules []ArchiveRule
}

// NewArchiveRulesEngine constructs an engine instance.
func NewArchiveRulesEngine() *ArchiveRulesEngine {
	return &ArchiveRulesEngine{}
}

// Register appends a rule to the engine.
func (e *ArchiveRulesEngine) Register(rule ArchiveRule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *ArchiveRulesEngine) Evaluate(ctx context.Context, view ArchiveView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}

// PersistentStore is a minimal abstraction over durable run-archive backends.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(ArchiveTransaction) error) (Result, error)
	View(ctx context.Context, fn func(ArchiveView) error) error
	GetRun(id string) (RunRecord, bool)
	ListRuns() []RunRecord
}
