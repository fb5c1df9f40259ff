package sim

import "partnersim/pkg/domain"

// snapshot aggregates the per-year counts from committed state. Economic
// partners are active or emeritus with rights not yet lapsed as of the
// snapshot year; voting partners are all active or emeritus, with no lapse
// condition separate from status.
func (e *Engine) snapshot(year int) TickSnapshot {
	row := TickSnapshot{Year: year}
	for _, p := range e.store.ListPersons() {
		switch p.Status {
		case StatusPartnerActive:
			row.PartnersActive++
		case StatusPartnerEmeritus:
			row.PartnersEmeritus++
		case StatusTrainee:
			row.Trainees++
		case StatusChild:
			row.Children++
		case StatusWashout:
			row.Washouts++
		}
		if p.Status.Partner() {
			row.PartnersVoting++
			if p.EconRightsEndYear == nil || year < *p.EconRightsEndYear {
				row.PartnersEconomic++
			}
		}
		if p.Status != StatusDeceased {
			row.Living++
		}
	}
	return row
}

// SnapshotColumns lists the history column names in output order, matching
// the JSON field names of domain.TickSnapshot.
func SnapshotColumns() []string {
	return []string{
		"year",
		"partners_active",
		"partners_emeritus",
		"partners_economic",
		"partners_voting",
		"trainees",
		"children",
		"washouts",
		"living",
	}
}

// SnapshotValues returns the row values in SnapshotColumns order.
func SnapshotValues(row domain.TickSnapshot) []int {
	return []int{
		row.Year,
		row.PartnersActive,
		row.PartnersEmeritus,
		row.PartnersEconomic,
		row.PartnersVoting,
		row.Trainees,
		row.Children,
		row.Washouts,
		row.Living,
	}
}
