package sim

import "partnersim/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in invariant set
// applied to every tick transaction.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(StatusTransitionRule())
	engine.Register(ImmutableFieldsRule())
	engine.Register(LineageIntegrityRule())
	return engine
}

func personChange(change Change) (before, after Person, hasBefore, hasAfter bool) {
	if change.Entity != domain.EntityPerson {
		return Person{}, Person{}, false, false
	}
	if b, ok := change.Before.(Person); ok {
		before, hasBefore = b, true
	}
	if a, ok := change.After.(Person); ok {
		after, hasAfter = a, true
	}
	return before, after, hasBefore, hasAfter
}

func toSet(values ...Status) map[Status]struct{} {
	set := make(map[Status]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
