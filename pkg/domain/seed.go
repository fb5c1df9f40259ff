package domain

import "fmt"

// SeedPerson is one row of an initial-population table. Pointer fields map
// missing values to "unset"; IDs are assigned by the engine in row order and
// parent references use those assigned IDs.
type SeedPerson struct {
	BirthYear         int     `json:"birth_year"`
	Generation        int     `json:"generation"`
	Status            Status  `json:"status"`
	ParentIDs         []int64 `json:"parent_ids,omitempty"`
	DeathYear         *int    `json:"death_year,omitempty"`
	PartnerSince      *int    `json:"partner_since,omitempty"`
	EmeritusSince     *int    `json:"emeritus_since,omitempty"`
	EconRightsEndYear *int    `json:"econ_rights_end_year,omitempty"`
	Sex               Sex     `json:"sex"`
}

// Validate fails fast on malformed rows. It checks shape only, not
// plausibility: a birth year in the future is the caller's problem.
func (s SeedPerson) Validate() error {
	if s.BirthYear == 0 {
		return fmt.Errorf("seed person: birth year required")
	}
	if !s.Status.Valid() {
		return fmt.Errorf("seed person: unknown status %q", s.Status)
	}
	switch s.Sex {
	case SexMale, SexFemale, "":
	default:
		return fmt.Errorf("seed person: unknown sex %q", s.Sex)
	}
	return nil
}

// SeedTable is an optional initial population, one row per person.
type SeedTable []SeedPerson

// Validate checks every row and reports the first failure with its row index.
func (t SeedTable) Validate() error {
	for i, row := range t {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}
