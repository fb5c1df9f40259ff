package sim

import (
	"context"
	"fmt"
	"strconv"

	"partnersim/pkg/domain"
)

// LineageIntegrityRule enforces parent linkage constraints on persons created
// during a tick: every recorded parent must exist, no self or duplicate
// references, and the child's generation must be the recorded parent's
// generation plus one.
func LineageIntegrityRule() domain.Rule {
	return lineageIntegrityRule{}
}

type lineageIntegrityRule struct{}

func (lineageIntegrityRule) Name() string { return "lineage_integrity" }

func (lineageIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		if change.Action != ActionCreate {
			continue
		}
		_, child, _, ok := personChange(change)
		if !ok {
			continue
		}
		seen := make(map[int64]struct{}, len(child.ParentIDs))
		for i, parentID := range child.ParentIDs {
			if parentID == child.ID {
				res.Violations = append(res.Violations, lineageViolation(child.ID,
					fmt.Sprintf("person %d references itself as a parent", child.ID)))
				continue
			}
			if _, dup := seen[parentID]; dup {
				res.Violations = append(res.Violations, lineageViolation(child.ID,
					fmt.Sprintf("person %d lists parent %d multiple times", child.ID, parentID)))
				continue
			}
			seen[parentID] = struct{}{}

			parent, ok := view.FindPerson(parentID)
			if !ok {
				res.Violations = append(res.Violations, lineageViolation(child.ID,
					fmt.Sprintf("person %d references missing parent %d", child.ID, parentID)))
				continue
			}
			if i == 0 && child.Generation != parent.Generation+1 {
				res.Violations = append(res.Violations, lineageViolation(child.ID,
					fmt.Sprintf("person %d generation %d does not follow parent %d generation %d",
						child.ID, child.Generation, parentID, parent.Generation)))
			}
		}
	}
	return res, nil
}

func lineageViolation(id int64, message string) Violation {
	return Violation{
		Rule:     "lineage_integrity",
		Severity: SeverityBlock,
		Message:  message,
		Entity:   domain.EntityPerson,
		EntityID: strconv.FormatInt(id, 10),
	}
}
