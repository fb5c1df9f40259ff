package sim

import (
	"context"
	"fmt"
	"strconv"

	"partnersim/pkg/domain"
)

// StatusTransitionRule blocks any status change outside the monotone career
// path: child to trainee or washout, trainee to partner_active or washout,
// partner_active to partner_emeritus, and any non-deceased status to
// deceased. Deceased is terminal. In-transaction creations must enter as
// children; initial populations bypass the rules via import.
func StatusTransitionRule() domain.Rule {
	return statusTransitionRule{}
}

type statusTransitionRule struct{}

var legalTransitions = map[Status]map[Status]struct{}{
	StatusChild:           toSet(StatusTrainee, StatusWashout, StatusDeceased),
	StatusTrainee:         toSet(StatusPartnerActive, StatusWashout, StatusDeceased),
	StatusPartnerActive:   toSet(StatusPartnerEmeritus, StatusDeceased),
	StatusPartnerEmeritus: toSet(StatusDeceased),
	StatusWashout:         toSet(StatusDeceased),
	StatusDeceased:        {},
}

func (statusTransitionRule) Name() string { return "status_transition" }

func (statusTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		before, after, hasBefore, hasAfter := personChange(change)
		if !hasAfter {
			continue
		}
		if !after.Status.Valid() {
			res.Violations = append(res.Violations, statusViolation(after.ID,
				fmt.Sprintf("person %d is set to invalid status %s", after.ID, after.Status)))
			continue
		}
		if change.Action == ActionCreate {
			if after.Status != StatusChild {
				res.Violations = append(res.Violations, statusViolation(after.ID,
					fmt.Sprintf("person %d born with status %s", after.ID, after.Status)))
			}
			continue
		}
		if !hasBefore || before.Status == after.Status {
			continue
		}
		if _, ok := legalTransitions[before.Status][after.Status]; !ok {
			res.Violations = append(res.Violations, statusViolation(after.ID,
				fmt.Sprintf("person %d cannot move from %s to %s", after.ID, before.Status, after.Status)))
		}
	}
	return res, nil
}

func statusViolation(id int64, message string) Violation {
	return Violation{
		Rule:     "status_transition",
		Severity: SeverityBlock,
		Message:  message,
		Entity:   domain.EntityPerson,
		EntityID: strconv.FormatInt(id, 10),
	}
}
