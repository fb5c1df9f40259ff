// Package domain defines the core entities, value types, and rule
// evaluation primitives used by partnersim.
package domain

import "time"

// EntityType identifies the type of record referenced by Change entries and
// persistence buckets.
type EntityType string

const (
	// EntityPerson identifies an individual population member record.
	EntityPerson EntityType = "person"
	// EntityRun identifies an archived simulation run record.
	EntityRun EntityType = "run"
)

// Status represents the canonical career states of a population member.
// Exactly one status holds at any time.
type Status string

const (
	// StatusChild indicates a person born inside the simulation who has not
	// yet reached the invitation decision age.
	StatusChild Status = "child"
	// StatusTrainee indicates an invited person inside the probation window.
	StatusTrainee Status = "trainee"
	// StatusPartnerActive indicates a full partner with economic and voting rights.
	StatusPartnerActive Status = "partner_active"
	// StatusPartnerEmeritus indicates a retired partner past the emeritus age.
	StatusPartnerEmeritus Status = "partner_emeritus"
	// StatusWashout indicates a person who failed invitation or probation.
	StatusWashout Status = "washout"
	// StatusDeceased is the terminal state. Records are retained after death.
	StatusDeceased Status = "deceased"
)

// Statuses lists every valid status value.
func Statuses() []Status {
	return []Status{
		StatusChild,
		StatusTrainee,
		StatusPartnerActive,
		StatusPartnerEmeritus,
		StatusWashout,
		StatusDeceased,
	}
}

// Valid reports whether s is one of the canonical status values.
func (s Status) Valid() bool {
	switch s {
	case StatusChild, StatusTrainee, StatusPartnerActive, StatusPartnerEmeritus, StatusWashout, StatusDeceased:
		return true
	}
	return false
}

// Partner reports whether s carries partner standing (active or emeritus).
func (s Status) Partner() bool {
	return s == StatusPartnerActive || s == StatusPartnerEmeritus
}

// Sex is the binary demographic attribute drawn at birth. Its only
// population-level effect is the sex-ratio draw; it gates no transition.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Person represents one individual's demographic and career state.
type Person struct {
	ID         int64   `json:"id"`
	BirthYear  int     `json:"birth_year"`
	Generation int     `json:"generation"`
	Status     Status  `json:"status"`
	ParentIDs  []int64 `json:"parent_ids,omitempty"`
	// DeathYear is drawn once, lazily, on the first tick that needs it and is
	// immutable afterwards.
	DeathYear         *int `json:"death_year,omitempty"`
	PartnerSince      *int `json:"partner_since,omitempty"`
	EmeritusSince     *int `json:"emeritus_since,omitempty"`
	EconRightsEndYear *int `json:"econ_rights_end_year,omitempty"`
	Sex               Sex  `json:"sex"`
}

// Age returns the person's age in the given simulation year.
func (p Person) Age(year int) int {
	return year - p.BirthYear
}

// Clone returns a deep copy of the person.
func (p Person) Clone() Person {
	cp := p
	cp.ParentIDs = append([]int64(nil), p.ParentIDs...)
	cp.DeathYear = cloneIntPtr(p.DeathYear)
	cp.PartnerSince = cloneIntPtr(p.PartnerSince)
	cp.EmeritusSince = cloneIntPtr(p.EmeritusSince)
	cp.EconRightsEndYear = cloneIntPtr(p.EconRightsEndYear)
	return cp
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// TickSnapshot is one row of the per-year metrics history.
type TickSnapshot struct {
	Year             int `json:"year"`
	PartnersActive   int `json:"partners_active"`
	PartnersEmeritus int `json:"partners_emeritus"`
	PartnersEconomic int `json:"partners_economic"`
	PartnersVoting   int `json:"partners_voting"`
	Trainees         int `json:"trainees"`
	Children         int `json:"children"`
	Washouts         int `json:"washouts"`
	Living           int `json:"living"`
}

// History is the ordered sequence of per-year snapshots produced by a run.
type History []TickSnapshot

// Clone returns a copy of the history.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// RunRecord captures an archived simulation run: the configuration it used,
// the metrics history it produced, and the final population end-state.
type RunRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Config    Config    `json:"config"`
	History   History   `json:"history"`
	People    []Person  `json:"people,omitempty"`
}

// Clone returns a deep copy of the run record.
func (r RunRecord) Clone() RunRecord {
	cp := r
	cp.Config = r.Config.Clone()
	cp.History = r.History.Clone()
	if r.People != nil {
		cp.People = make([]Person, len(r.People))
		for i, p := range r.People {
			cp.People[i] = p.Clone()
		}
	}
	return cp
}

// Change describes one mutation recorded inside a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate the mutations captured for rule evaluation.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
)

// Violation describes a single rule finding.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
