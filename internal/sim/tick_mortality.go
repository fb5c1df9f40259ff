package sim

// applyMortality runs the first tick phase over every non-deceased person:
// the lazy death-year draw, the death check, the economic-rights lapse, and
// the active-to-emeritus transition.
//
// The death year is drawn at most once per person, on the first tick that
// touches them rather than at creation. Seeded persons without a preset
// death year are handled identically, and the draw order stays tied to tick
// order, which keeps the stream reproducible.
//
// The rights lapse is evaluated against the status the person held at phase
// start, so a partner can lapse economic rights and die in the same year.
// The emeritus check reads the post-death status: the dead do not retire.
func (e *Engine) applyMortality(tx *Transaction, year int) error {
	for _, p := range tx.Persons() {
		if p.Status == StatusDeceased {
			continue
		}
		age := p.Age(year)
		phaseStatus := p.Status

		deathYear := 0
		if p.DeathYear == nil {
			deathYear = p.BirthYear + e.rng.NormalRound(e.cfg.MortalityMean, e.cfg.MortalitySD)
		}

		if _, err := tx.UpdatePerson(p.ID, func(cur *Person) error {
			if cur.DeathYear == nil {
				cur.DeathYear = &deathYear
			}
			if year >= *cur.DeathYear {
				cur.Status = StatusDeceased
			}
			if phaseStatus.Partner() && cur.EconRightsEndYear == nil && age >= e.cfg.AgeEconRightsEnd {
				lapsed := year
				cur.EconRightsEndYear = &lapsed
			}
			if cur.Status == StatusPartnerActive && age >= e.cfg.AgePartnerToEmeritus {
				since := year
				cur.Status = StatusPartnerEmeritus
				cur.EmeritusSince = &since
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
