package sim

import (
	"context"
	"fmt"
	"sync"

	"partnersim/pkg/domain"
)

type populationState struct {
	persons map[int64]Person
	// order holds IDs in allocation order. The allocator is monotonic and
	// IDs are never reused, so this is also ascending-ID order.
	order  []int64
	nextID int64
}

func newPopulationState() populationState {
	return populationState{
		persons: make(map[int64]Person),
		nextID:  1,
	}
}

func (s populationState) clone() populationState {
	cloned := populationState{
		persons: make(map[int64]Person, len(s.persons)),
		order:   append([]int64(nil), s.order...),
		nextID:  s.nextID,
	}
	for id, p := range s.persons {
		cloned.persons[id] = p.Clone()
	}
	return cloned
}

func (s *populationState) list() []Person {
	out := make([]Person, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.persons[id].Clone())
	}
	return out
}

// PopulationStore is the sole mutable state of a run: an identity-keyed
// collection of Person records behind a transactional boundary. Persons are
// never removed; reaching StatusDeceased is the only form of destruction.
type PopulationStore struct {
	mu     sync.RWMutex
	state  populationState
	engine *domain.RulesEngine
}

// NewPopulationStore constructs a store backed by the provided rules engine.
func NewPopulationStore(engine *domain.RulesEngine) *PopulationStore {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &PopulationStore{
		state:  newPopulationState(),
		engine: engine,
	}
}

// Transaction represents a mutation set applied to the store state.
type Transaction struct {
	store   *PopulationStore
	state   populationState
	changes []Change
}

type populationView struct {
	state *populationState
}

var _ domain.RuleView = populationView{}

// ListPersons returns every person in the snapshot in ascending ID order.
func (v populationView) ListPersons() []Person {
	return v.state.list()
}

// FindPerson retrieves a person by ID from the snapshot.
func (v populationView) FindPerson(id int64) (Person, bool) {
	p, ok := v.state.persons[id]
	if !ok {
		return Person{}, false
	}
	return p.Clone(), true
}

// RunInTransaction executes fn within a transactional copy of the store
// state. Registered rules evaluate the accumulated changes before commit;
// blocking violations abort the transaction.
func (s *PopulationStore) RunInTransaction(ctx context.Context, fn func(tx *Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		store: s,
		state: s.state.clone(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := populationView{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *PopulationStore) View(ctx context.Context, fn func(domain.RuleView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(populationView{state: &snapshot})
}

// ImportPersons hydrates the store with an initial population, assigning IDs
// in input order from the monotonic allocator. Hydration bypasses rule
// evaluation: seeded persons carry caller-provided generations and histories
// that the tick-time invariants do not constrain. It fails if the store
// already holds persons.
func (s *PopulationStore) ImportPersons(people []Person) ([]Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.persons) > 0 {
		return nil, fmt.Errorf("population already initialized")
	}
	out := make([]Person, 0, len(people))
	for _, p := range people {
		stored := p.Clone()
		stored.ID = s.state.nextID
		s.state.nextID++
		s.state.persons[stored.ID] = stored
		s.state.order = append(s.state.order, stored.ID)
		out = append(out, stored.Clone())
	}
	return out, nil
}

// GetPerson retrieves a person by ID from committed state.
func (s *PopulationStore) GetPerson(id int64) (Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.persons[id]
	if !ok {
		return Person{}, false
	}
	return p.Clone(), true
}

// ListPersons returns all persons from committed state in ascending ID order.
func (s *PopulationStore) ListPersons() []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.list()
}

// Len returns the number of person records, deceased included.
func (s *PopulationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.persons)
}

// Persons returns a point-in-time snapshot of the transaction state in
// ascending ID order. Mutations after the call do not alter the returned
// slice, so a tick phase can iterate it while creating or updating persons.
func (tx *Transaction) Persons() []Person {
	return tx.state.list()
}

// FindPerson retrieves a person by ID from the transaction state.
func (tx *Transaction) FindPerson(id int64) (Person, bool) {
	p, ok := tx.state.persons[id]
	if !ok {
		return Person{}, false
	}
	return p.Clone(), true
}

// Snapshot exposes the transaction state as a read-only rule view.
func (tx *Transaction) Snapshot() domain.RuleView {
	return populationView{state: &tx.state}
}

// CreatePerson stores a new person, assigning the next ID.
func (tx *Transaction) CreatePerson(p Person) (Person, error) {
	if p.ID != 0 {
		return Person{}, fmt.Errorf("person ID is allocator-assigned, got %d", p.ID)
	}
	stored := p.Clone()
	stored.ID = tx.state.nextID
	tx.state.nextID++
	tx.state.persons[stored.ID] = stored
	tx.state.order = append(tx.state.order, stored.ID)
	tx.changes = append(tx.changes, Change{Entity: domain.EntityPerson, Action: ActionCreate, After: stored.Clone()})
	return stored.Clone(), nil
}

// UpdatePerson mutates a person using the provided mutator function.
func (tx *Transaction) UpdatePerson(id int64, mutator func(*Person) error) (Person, error) {
	current, ok := tx.state.persons[id]
	if !ok {
		return Person{}, fmt.Errorf("person %d not found", id)
	}
	before := current.Clone()
	updated := current.Clone()
	if err := mutator(&updated); err != nil {
		return Person{}, err
	}
	updated.ID = id
	tx.state.persons[id] = updated.Clone()
	tx.changes = append(tx.changes, Change{Entity: domain.EntityPerson, Action: ActionUpdate, Before: before, After: updated.Clone()})
	return updated.Clone(), nil
}
