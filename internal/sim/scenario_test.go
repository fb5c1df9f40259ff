package sim

import (
	"context"
	"testing"

	"partnersim/pkg/domain"
)

// scenarioConfig returns a one-year run configuration with mortality pushed
// far out, so scenarios control deaths through preset death years only.
func scenarioConfig() Config {
	cfg := domain.DefaultConfig()
	cfg.HorizonYears = 1
	cfg.MortalityMean = 500
	cfg.MortalitySD = 1
	return cfg
}

func runScenario(t *testing.T, cfg Config, table SeedTable) *Engine {
	t.Helper()
	e, err := NewEngineWithSeed(cfg, table)
	if err != nil {
		t.Fatalf("NewEngineWithSeed: %v", err)
	}
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return e
}

func far(year int) *int { return &year }

func TestTraineePromotedWithCertainty(t *testing.T) {
	cfg := scenarioConfig()
	cfg.PromotionProb = 1
	// age 32 in the start year: 6 years past the decision age, window start
	birth := cfg.StartYear - (cfg.InviteAge + cfg.ProbationMin)
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusTrainee, Sex: SexFemale, DeathYear: far(9999)},
	})
	p, _ := e.Person(1)
	if p.Status != StatusPartnerActive {
		t.Fatalf("expected promotion, got %s", p.Status)
	}
	if p.PartnerSince == nil || *p.PartnerSince != cfg.StartYear {
		t.Fatalf("partner_since not stamped with promotion year")
	}
}

func TestTraineeRetriesInsideProbationWindow(t *testing.T) {
	cfg := scenarioConfig()
	cfg.PromotionProb = 0
	birth := cfg.StartYear - (cfg.InviteAge + cfg.ProbationMin)
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusTrainee, Sex: SexFemale, DeathYear: far(9999)},
	})
	p, _ := e.Person(1)
	if p.Status != StatusTrainee {
		t.Fatalf("failed draw inside the window must keep trainee status, got %s", p.Status)
	}
}

func TestTraineeWashesOutWhenWindowExhausted(t *testing.T) {
	cfg := scenarioConfig()
	cfg.PromotionProb = 0
	birth := cfg.StartYear - (cfg.InviteAge + cfg.ProbationMax)
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusTrainee, Sex: SexFemale, DeathYear: far(9999)},
	})
	p, _ := e.Person(1)
	if p.Status != StatusWashout {
		t.Fatalf("expected washout at window end, got %s", p.Status)
	}
}

func TestActivePartnerRetiresAtThresholdAge(t *testing.T) {
	cfg := scenarioConfig()
	birth := cfg.StartYear - cfg.AgePartnerToEmeritus
	since := birth + 32
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusPartnerActive, Sex: SexMale, PartnerSince: &since, DeathYear: far(9999)},
	})
	p, _ := e.Person(1)
	if p.Status != StatusPartnerEmeritus {
		t.Fatalf("expected emeritus at age %d, got %s", cfg.AgePartnerToEmeritus, p.Status)
	}
	if p.EmeritusSince == nil || *p.EmeritusSince != cfg.StartYear {
		t.Fatalf("emeritus_since not stamped")
	}
}

func TestActivePartnerBelowThresholdStaysActive(t *testing.T) {
	cfg := scenarioConfig()
	birth := cfg.StartYear - (cfg.AgePartnerToEmeritus - 1)
	since := birth + 32
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusPartnerActive, Sex: SexMale, PartnerSince: &since, DeathYear: far(9999)},
	})
	p, _ := e.Person(1)
	if p.Status != StatusPartnerActive {
		t.Fatalf("expected active below threshold, got %s", p.Status)
	}
}

func TestCertainFertilityProducesChild(t *testing.T) {
	cfg := scenarioConfig()
	window := cfg.FertilityAgeEnd - cfg.FertilityAgeStart + 1
	cfg.FertilityMean = float64(window) // per-year hazard of exactly one
	birth := cfg.StartYear - cfg.FertilityAgeStart
	since := birth + 32
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusPartnerActive, Sex: SexFemale, PartnerSince: &since, DeathYear: far(9999)},
	})
	people := e.People()
	if len(people) != 2 {
		t.Fatalf("expected one child, population is %d", len(people))
	}
	child := people[1]
	if child.Status != StatusChild || child.BirthYear != cfg.StartYear {
		t.Fatalf("unexpected child record %+v", child)
	}
	if child.Generation != 7 {
		t.Fatalf("child generation %d, want parent+1", child.Generation)
	}
	if len(child.ParentIDs) != 1 || child.ParentIDs[0] != 1 {
		t.Fatalf("child parent linkage %v", child.ParentIDs)
	}
}

func TestPartnerOutsideFertilityWindowHasNoChildren(t *testing.T) {
	cfg := scenarioConfig()
	window := cfg.FertilityAgeEnd - cfg.FertilityAgeStart + 1
	cfg.FertilityMean = float64(window)
	birth := cfg.StartYear - (cfg.FertilityAgeEnd + 1)
	since := birth + 32
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusPartnerActive, Sex: SexFemale, PartnerSince: &since, DeathYear: far(9999)},
	})
	if len(e.People()) != 1 {
		t.Fatalf("partner past the window must not reproduce")
	}
}

func TestPresetDeathYearKillsOnSchedule(t *testing.T) {
	cfg := scenarioConfig()
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: 1960, Generation: 6, Status: StatusPartnerEmeritus, Sex: SexMale, DeathYear: far(cfg.StartYear)},
	})
	p, _ := e.Person(1)
	if p.Status != StatusDeceased {
		t.Fatalf("expected deceased at preset death year, got %s", p.Status)
	}
	if last := e.History()[0]; last.Living != 0 {
		t.Fatalf("deceased still counted as living: %+v", last)
	}
}

func TestIneligibleParentForcesWashout(t *testing.T) {
	cfg := scenarioConfig()
	cfg.InviteProb = 1 // eligibility gate must decide, not the draw
	childBirth := cfg.StartYear - cfg.InviteAge
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: 1970, Generation: 6, Status: StatusWashout, Sex: SexMale, DeathYear: far(9999)},
		{BirthYear: childBirth, Generation: 7, Status: StatusChild, ParentIDs: []int64{1}, Sex: SexFemale, DeathYear: far(9999)},
	})
	child, _ := e.Person(2)
	if child.Status != StatusWashout {
		t.Fatalf("child of ineligible parent must wash out, got %s", child.Status)
	}
}

func TestEligibleParentAllowsInvitation(t *testing.T) {
	cfg := scenarioConfig()
	cfg.InviteProb = 1
	childBirth := cfg.StartYear - cfg.InviteAge
	parentSince := 2005
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: 1970, Generation: 6, Status: StatusPartnerEmeritus, Sex: SexMale, PartnerSince: &parentSince, EmeritusSince: far(2025), DeathYear: far(9999)},
		{BirthYear: childBirth, Generation: 7, Status: StatusChild, ParentIDs: []int64{1}, Sex: SexFemale, DeathYear: far(9999)},
	})
	child, _ := e.Person(2)
	if child.Status != StatusTrainee {
		t.Fatalf("child of eligible parent must become trainee, got %s", child.Status)
	}
}

func TestParentlessChildInvitedUnconditionally(t *testing.T) {
	cfg := scenarioConfig()
	cfg.InviteProb = 1
	childBirth := cfg.StartYear - cfg.InviteAge
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: childBirth, Generation: 6, Status: StatusChild, Sex: SexFemale, DeathYear: far(9999)},
	})
	p, _ := e.Person(1)
	if p.Status != StatusTrainee {
		t.Fatalf("parentless child with certain invite must become trainee, got %s", p.Status)
	}
}

func TestEconomicRightsLapseAtThreshold(t *testing.T) {
	cfg := scenarioConfig()
	birth := cfg.StartYear - cfg.AgeEconRightsEnd
	since := birth + 32
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusPartnerEmeritus, Sex: SexFemale, PartnerSince: &since, EmeritusSince: far(birth + 55), DeathYear: far(9999)},
	})
	p, _ := e.Person(1)
	if p.EconRightsEndYear == nil || *p.EconRightsEndYear != cfg.StartYear {
		t.Fatalf("rights lapse not recorded: %+v", p.EconRightsEndYear)
	}
	row := e.History()[0]
	if row.PartnersVoting != 1 {
		t.Fatalf("lapsed partner must keep the vote: %+v", row)
	}
	if row.PartnersEconomic != 0 {
		t.Fatalf("lapsed partner still counted as economic: %+v", row)
	}
}

func TestLapseAndDeathInSameYear(t *testing.T) {
	cfg := scenarioConfig()
	birth := cfg.StartYear - 70
	since := birth + 32
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: birth, Generation: 6, Status: StatusPartnerActive, Sex: SexMale, PartnerSince: &since, DeathYear: far(cfg.StartYear)},
	})
	p, _ := e.Person(1)
	if p.Status != StatusDeceased {
		t.Fatalf("expected death, got %s", p.Status)
	}
	// lapse is judged on the status held at phase start, so the record
	// carries both the lapse year and the death
	if p.EconRightsEndYear == nil || *p.EconRightsEndYear != cfg.StartYear {
		t.Fatalf("rights lapse lost when death lands the same year")
	}
	if p.EmeritusSince != nil {
		t.Fatalf("the dead must not retire")
	}
}

func TestSnapshotAggregates(t *testing.T) {
	cfg := scenarioConfig()
	cfg.FertilityMean = 0 // counts below assume no births
	e := runScenario(t, cfg, SeedTable{
		{BirthYear: cfg.StartYear - 40, Generation: 6, Status: StatusPartnerActive, Sex: SexFemale, PartnerSince: far(2017), DeathYear: far(9999)},
		{BirthYear: cfg.StartYear - 60, Generation: 6, Status: StatusPartnerEmeritus, Sex: SexMale, PartnerSince: far(1997), EmeritusSince: far(2020), DeathYear: far(9999)},
		{BirthYear: cfg.StartYear - 30, Generation: 6, Status: StatusTrainee, Sex: SexFemale, DeathYear: far(9999)},
		{BirthYear: cfg.StartYear - 10, Generation: 7, Status: StatusChild, ParentIDs: []int64{1}, Sex: SexMale, DeathYear: far(9999)},
		{BirthYear: cfg.StartYear - 33, Generation: 6, Status: StatusWashout, Sex: SexMale, DeathYear: far(9999)},
	})
	row := e.History()[0]
	if row.PartnersActive != 1 || row.PartnersEmeritus != 1 || row.Trainees != 1 ||
		row.Children != 1 || row.Washouts != 1 {
		t.Fatalf("unexpected counts: %+v", row)
	}
	if row.PartnersVoting != row.PartnersActive+row.PartnersEmeritus {
		t.Fatalf("voting count must equal active+emeritus: %+v", row)
	}
	if row.Living != 5 {
		t.Fatalf("living count off: %+v", row)
	}
}
