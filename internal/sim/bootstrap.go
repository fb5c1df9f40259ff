package sim

// Bootstrap age bounds for the default starting cohorts. Ages are
// independent uniform draws, bounds inclusive.
const (
	bootstrapActiveAgeMin   = 35
	bootstrapActiveAgeMax   = 55
	bootstrapEmeritusAgeMin = 56
	bootstrapEmeritusAgeMax = 85
	bootstrapTraineeAgeMin  = 27
	bootstrapTraineeAgeMax  = 32
	// bootstrapPartnerAge back-computes partner_since for seeded partners.
	bootstrapPartnerAge = 32
)

// bootstrap seeds the default starting population: active partners, emeritus
// partners, and trainees at the configured cohort sizes, all at the baseline
// generation. Milestone years for partners are back-computed from the drawn
// age so seeded careers look internally consistent.
func (e *Engine) bootstrap() error {
	var people []Person

	for i := 0; i < e.cfg.InitialActivePartners; i++ {
		birth := e.year - e.rng.IntBetween(bootstrapActiveAgeMin, bootstrapActiveAgeMax)
		since := birth + bootstrapPartnerAge
		people = append(people, Person{
			BirthYear:    birth,
			Generation:   e.cfg.BaselineGeneration,
			Status:       StatusPartnerActive,
			PartnerSince: &since,
			Sex:          SexFemale,
		})
	}
	for i := 0; i < e.cfg.InitialEmeritusPartners; i++ {
		birth := e.year - e.rng.IntBetween(bootstrapEmeritusAgeMin, bootstrapEmeritusAgeMax)
		partnerSince := birth + bootstrapPartnerAge
		emeritusSince := birth + e.cfg.AgePartnerToEmeritus
		people = append(people, Person{
			BirthYear:     birth,
			Generation:    e.cfg.BaselineGeneration,
			Status:        StatusPartnerEmeritus,
			PartnerSince:  &partnerSince,
			EmeritusSince: &emeritusSince,
			Sex:           SexFemale,
		})
	}
	for i := 0; i < e.cfg.InitialTrainees; i++ {
		birth := e.year - e.rng.IntBetween(bootstrapTraineeAgeMin, bootstrapTraineeAgeMax)
		people = append(people, Person{
			BirthYear:  birth,
			Generation: e.cfg.BaselineGeneration,
			Status:     StatusTrainee,
			Sex:        SexFemale,
		})
	}

	_, err := e.store.ImportPersons(people)
	return err
}
