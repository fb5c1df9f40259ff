package sim

// applyInvitations runs the invitation phase. A child whose age equals the
// decision age (derived from year minus birth year, so it fires exactly once
// per life) is gated on parent eligibility first: eligible when any recorded
// parent currently holds an eligible status, or unconditionally when the
// person has no recorded parents (bootstrap-seeded). Eligible children draw
// one Bernoulli(invite_prob); ineligible children wash out with no draw
// consumed, so the stream stays aligned regardless of the gate outcome mix.
func (e *Engine) applyInvitations(tx *Transaction, year int) error {
	for _, p := range tx.Persons() {
		if p.Status != StatusChild || p.Age(year) != e.cfg.InviteAge {
			continue
		}
		next := StatusWashout
		if e.parentEligible(tx, p) && e.rng.Bernoulli(e.cfg.InviteProb) {
			next = StatusTrainee
		}
		if _, err := tx.UpdatePerson(p.ID, func(cur *Person) error {
			cur.Status = next
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) parentEligible(tx *Transaction, child Person) bool {
	if len(child.ParentIDs) == 0 {
		return true
	}
	for _, id := range child.ParentIDs {
		parent, ok := tx.FindPerson(id)
		if ok && e.cfg.ParentEligible(parent.Status) {
			return true
		}
	}
	return false
}

// applyPromotions runs the promotion phase. A trainee whose years since the
// decision age fall inside the probation window draws one
// Bernoulli(promotion_prob) per year: success promotes to active partner,
// failure forces washout only once the window is exhausted, so a trainee may
// retry across several consecutive years.
func (e *Engine) applyPromotions(tx *Transaction, year int) error {
	for _, p := range tx.Persons() {
		if p.Status != StatusTrainee {
			continue
		}
		age := p.Age(year)
		yearsIn := age - e.cfg.InviteAge
		if yearsIn < e.cfg.ProbationMin || yearsIn > e.cfg.ProbationMax {
			continue
		}
		promoted := e.rng.Bernoulli(e.cfg.PromotionProb)
		if !promoted && age < e.cfg.InviteAge+e.cfg.ProbationMax {
			continue
		}
		if _, err := tx.UpdatePerson(p.ID, func(cur *Person) error {
			if promoted {
				since := year
				cur.Status = StatusPartnerActive
				cur.PartnerSince = &since
			} else {
				cur.Status = StatusWashout
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
