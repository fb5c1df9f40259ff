package sim

import (
	"context"
	"fmt"
	"strconv"

	"partnersim/pkg/domain"
)

// ImmutableFieldsRule blocks updates that rewrite fields which are fixed for
// a person's lifetime: identity and lineage fields always, and the
// once-drawn milestone years (death, partner-since, emeritus-since,
// economic-rights-end) after they are first set.
func ImmutableFieldsRule() domain.Rule {
	return immutableFieldsRule{}
}

type immutableFieldsRule struct{}

func (immutableFieldsRule) Name() string { return "immutable_fields" }

func (immutableFieldsRule) Evaluate(_ context.Context, _ domain.RuleView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		if change.Action != ActionUpdate {
			continue
		}
		before, after, hasBefore, hasAfter := personChange(change)
		if !hasBefore || !hasAfter {
			continue
		}
		report := func(field string) {
			res.Violations = append(res.Violations, Violation{
				Rule:     "immutable_fields",
				Severity: SeverityBlock,
				Message:  fmt.Sprintf("person %d: %s is immutable", before.ID, field),
				Entity:   domain.EntityPerson,
				EntityID: strconv.FormatInt(before.ID, 10),
			})
		}
		if after.BirthYear != before.BirthYear {
			report("birth_year")
		}
		if after.Generation != before.Generation {
			report("generation")
		}
		if after.Sex != before.Sex {
			report("sex")
		}
		if !equalIDs(after.ParentIDs, before.ParentIDs) {
			report("parent_ids")
		}
		if rewritten(before.DeathYear, after.DeathYear) {
			report("death_year")
		}
		if rewritten(before.PartnerSince, after.PartnerSince) {
			report("partner_since")
		}
		if rewritten(before.EmeritusSince, after.EmeritusSince) {
			report("emeritus_since")
		}
		if rewritten(before.EconRightsEndYear, after.EconRightsEndYear) {
			report("econ_rights_end_year")
		}
	}
	return res, nil
}

// rewritten reports whether a once-set optional field was cleared or changed.
func rewritten(before, after *int) bool {
	if before == nil {
		return false
	}
	return after == nil || *after != *before
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
