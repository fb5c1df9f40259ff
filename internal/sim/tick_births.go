package sim

import "partnersim/pkg/domain"

// applyBirths runs the birth phase: every active or emeritus partner inside
// the fertile age window draws an independent Bernoulli whose probability
// spreads the mean total births evenly across the window. The per-year
// hazard is a deliberate approximation, not a calibrated point process.
// Children record a single parent; there is no pairing model.
func (e *Engine) applyBirths(tx *Transaction, year int) error {
	window := e.cfg.FertilityAgeEnd - e.cfg.FertilityAgeStart + 1
	if window <= 0 {
		return nil
	}
	hazard := e.cfg.FertilityMean / float64(window)

	for _, parent := range tx.Persons() {
		if !parent.Status.Partner() {
			continue
		}
		age := parent.Age(year)
		if age < e.cfg.FertilityAgeStart || age > e.cfg.FertilityAgeEnd {
			continue
		}
		if !e.rng.Bernoulli(hazard) {
			continue
		}
		sex := SexFemale
		if e.rng.Bernoulli(e.cfg.SexRatio) {
			sex = SexMale
		}
		if _, err := tx.CreatePerson(domain.Person{
			BirthYear:  year,
			Generation: parent.Generation + 1,
			Status:     StatusChild,
			ParentIDs:  []int64{parent.ID},
			Sex:        sex,
		}); err != nil {
			return err
		}
	}
	return nil
}
