package domain

// Config holds every parameter of a simulation run. It is a plain value
// object: the core performs no range validation, and behavior under
// out-of-range values (negative probabilities, inverted windows) is
// deliberately unspecified. Constraining inputs is the boundary layer's job.
type Config struct {
	StartYear    int   `json:"start_year"`
	HorizonYears int   `json:"horizon_years"`
	Seed         int64 `json:"seed"`

	// Demography.
	FertilityMean     float64 `json:"fertility_mean"`
	FertilityAgeStart int     `json:"fertility_age_start"`
	FertilityAgeEnd   int     `json:"fertility_age_end"`
	MortalityMean     float64 `json:"mortality_mean"`
	MortalitySD       float64 `json:"mortality_sd"`
	// SexRatio is the probability that a newborn is male.
	SexRatio float64 `json:"sex_ratio"`

	// Selection.
	InviteProb    float64 `json:"invite_prob"`
	InviteAge     int     `json:"invite_age"`
	PromotionProb float64 `json:"promotion_prob"`
	ProbationMin  int     `json:"probation_min"`
	ProbationMax  int     `json:"probation_max"`

	// Career.
	AgePartnerToEmeritus int `json:"age_partner_to_emeritus"`
	AgeEconRightsEnd     int `json:"age_econ_rights_end"`
	// EligibleParentStatuses lists the statuses a recorded parent must hold
	// for a child to qualify for the invitation draw.
	EligibleParentStatuses []Status `json:"eligible_parent_statuses"`

	// Bootstrap cohort sizes used when no seed table is supplied.
	InitialActivePartners   int `json:"initial_active_partners"`
	InitialEmeritusPartners int `json:"initial_emeritus_partners"`
	InitialTrainees         int `json:"initial_trainees"`
	// BaselineGeneration is assigned to every bootstrap-seeded person.
	BaselineGeneration int `json:"baseline_generation"`
}

// DefaultConfig returns the reference parameter set.
func DefaultConfig() Config {
	return Config{
		StartYear:    2025,
		HorizonYears: 100,
		Seed:         42,

		FertilityMean:     1.6,
		FertilityAgeStart: 28,
		FertilityAgeEnd:   42,
		MortalityMean:     85,
		MortalitySD:       8,
		SexRatio:          0.5,

		InviteProb:    0.6,
		InviteAge:     26,
		PromotionProb: 0.7,
		ProbationMin:  6,
		ProbationMax:  9,

		AgePartnerToEmeritus: 55,
		AgeEconRightsEnd:     65,
		EligibleParentStatuses: []Status{
			StatusPartnerActive,
			StatusPartnerEmeritus,
		},

		InitialActivePartners:   30,
		InitialEmeritusPartners: 30,
		InitialTrainees:         10,
		BaselineGeneration:      6,
	}
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	cp := c
	cp.EligibleParentStatuses = append([]Status(nil), c.EligibleParentStatuses...)
	return cp
}

// ParentEligible reports whether the given status qualifies a parent for the
// invitation eligibility gate.
func (c Config) ParentEligible(s Status) bool {
	for _, eligible := range c.EligibleParentStatuses {
		if s == eligible {
			return true
		}
	}
	return false
}
