package sim

import (
	"context"
	"fmt"

	"partnersim/pkg/domain"
)

// NewDefaultArchiveRulesEngine builds the archive rules engine applied to
// every run-archive commit.
func NewDefaultArchiveRulesEngine() *domain.ArchiveRulesEngine {
	engine := domain.NewArchiveRulesEngine()
	engine.Register(RunHistoryContinuityRule())
	engine.Register(RunAggregateConsistencyRule())
	return engine
}

// RunHistoryContinuityRule blocks archiving a run whose history does not
// cover exactly the configured horizon in strictly consecutive years from
// the configured start year.
func RunHistoryContinuityRule() domain.ArchiveRule {
	return runHistoryContinuityRule{}
}

type runHistoryContinuityRule struct{}

func (runHistoryContinuityRule) Name() string { return "run_history_continuity" }

func (runHistoryContinuityRule) Evaluate(_ context.Context, _ domain.ArchiveView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		record, ok := createdRun(change)
		if !ok {
			continue
		}
		if len(record.History) != record.Config.HorizonYears {
			res.Violations = append(res.Violations, runViolation(record.ID, "run_history_continuity",
				fmt.Sprintf("run %s history has %d rows for a %d-year horizon", record.ID, len(record.History), record.Config.HorizonYears)))
		}
		for i, row := range record.History {
			if want := record.Config.StartYear + i; row.Year != want {
				res.Violations = append(res.Violations, runViolation(record.ID, "run_history_continuity",
					fmt.Sprintf("run %s history row %d covers year %d, want %d", record.ID, i, row.Year, want)))
				break
			}
		}
	}
	return res, nil
}

// RunAggregateConsistencyRule blocks archiving a run with internally
// inconsistent snapshot rows: voting partners must equal active plus
// emeritus, and living must equal the sum of all non-deceased status counts.
func RunAggregateConsistencyRule() domain.ArchiveRule {
	return runAggregateConsistencyRule{}
}

type runAggregateConsistencyRule struct{}

func (runAggregateConsistencyRule) Name() string { return "run_aggregate_consistency" }

func (runAggregateConsistencyRule) Evaluate(_ context.Context, _ domain.ArchiveView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		record, ok := createdRun(change)
		if !ok {
			continue
		}
		for _, row := range record.History {
			if row.PartnersVoting != row.PartnersActive+row.PartnersEmeritus {
				res.Violations = append(res.Violations, runViolation(record.ID, "run_aggregate_consistency",
					fmt.Sprintf("run %s year %d: voting %d != active %d + emeritus %d",
						record.ID, row.Year, row.PartnersVoting, row.PartnersActive, row.PartnersEmeritus)))
			}
			living := row.PartnersActive + row.PartnersEmeritus + row.Trainees + row.Children + row.Washouts
			if row.Living != living {
				res.Violations = append(res.Violations, runViolation(record.ID, "run_aggregate_consistency",
					fmt.Sprintf("run %s year %d: living %d != non-deceased sum %d", record.ID, row.Year, row.Living, living)))
			}
		}
	}
	return res, nil
}

func createdRun(change Change) (RunRecord, bool) {
	if change.Entity != domain.EntityRun || change.Action != ActionCreate {
		return RunRecord{}, false
	}
	record, ok := change.After.(RunRecord)
	return record, ok
}

func runViolation(id, rule, message string) Violation {
	return Violation{
		Rule:     rule,
		Severity: SeverityBlock,
		Message:  message,
		Entity:   domain.EntityRun,
		EntityID: id,
	}
}
