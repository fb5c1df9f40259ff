package sim

import (
	"context"
	"fmt"
)

// Engine advances a population one year at a time, applying the transition
// phases in a fixed order and appending one metrics snapshot per simulated
// year. An engine is single-threaded and owns its population store and
// random source exclusively; independent engines may run in parallel.
type Engine struct {
	cfg     Config
	rng     *Source
	store   *PopulationStore
	year    int
	history History
}

// NewEngine constructs an engine and bootstraps the default starting cohorts
// from the configuration.
func NewEngine(cfg Config) (*Engine, error) {
	e := newEngine(cfg)
	if err := e.bootstrap(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithSeed constructs an engine from an initial-population table,
// one person per row in row order. Malformed rows fail construction.
func NewEngineWithSeed(cfg Config, table SeedTable) (*Engine, error) {
	if table == nil {
		return NewEngine(cfg)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("seed table: %w", err)
	}
	e := newEngine(cfg)
	people := make([]Person, 0, len(table))
	for _, row := range table {
		people = append(people, Person{
			BirthYear:         row.BirthYear,
			Generation:        row.Generation,
			Status:            row.Status,
			ParentIDs:         append([]int64(nil), row.ParentIDs...),
			DeathYear:         row.DeathYear,
			PartnerSince:      row.PartnerSince,
			EmeritusSince:     row.EmeritusSince,
			EconRightsEndYear: row.EconRightsEndYear,
			Sex:               seedSex(row.Sex),
		})
	}
	if _, err := e.store.ImportPersons(people); err != nil {
		return nil, err
	}
	return e, nil
}

func newEngine(cfg Config) *Engine {
	return &Engine{
		cfg:   cfg.Clone(),
		rng:   NewSource(cfg.Seed),
		store: NewPopulationStore(NewDefaultRulesEngine()),
		year:  cfg.StartYear,
	}
}

func seedSex(s Sex) Sex {
	if s == "" {
		return SexFemale
	}
	return s
}

// Config returns a copy of the run configuration.
func (e *Engine) Config() Config { return e.cfg.Clone() }

// Year returns the next year to be simulated.
func (e *Engine) Year() int { return e.year }

// History returns the metrics snapshots recorded so far.
func (e *Engine) History() History { return e.history.Clone() }

// Person retrieves a person by ID for post-run inspection.
func (e *Engine) Person(id int64) (Person, bool) { return e.store.GetPerson(id) }

// People returns the full population end-state in ascending ID order,
// deceased records included.
func (e *Engine) People() []Person { return e.store.ListPersons() }

// Store exposes the population store for read-only drill-down.
func (e *Engine) Store() *PopulationStore { return e.store }

// Run executes the configured number of yearly ticks and returns the full
// metrics history. The population store remains inspectable afterwards.
func (e *Engine) Run(ctx context.Context) (History, error) {
	for i := 0; i < e.cfg.HorizonYears; i++ {
		if err := e.tick(ctx); err != nil {
			return nil, err
		}
	}
	return e.History(), nil
}

// tick simulates one year as a single transaction: mortality and rights
// first, then births, invitations, and promotions, each phase iterating an
// ID-ordered snapshot taken at its own start. Persons created in the birth
// phase are visible to later phases of the same tick but are not revisited
// by earlier ones. The metrics snapshot is taken from committed state.
func (e *Engine) tick(ctx context.Context) error {
	year := e.year
	if _, err := e.store.RunInTransaction(ctx, func(tx *Transaction) error {
		if err := e.applyMortality(tx, year); err != nil {
			return err
		}
		if err := e.applyBirths(tx, year); err != nil {
			return err
		}
		if err := e.applyInvitations(tx, year); err != nil {
			return err
		}
		return e.applyPromotions(tx, year)
	}); err != nil {
		return fmt.Errorf("year %d: %w", year, err)
	}
	e.history = append(e.history, e.snapshot(year))
	e.year++
	return nil
}
