package domain

import "testing"

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.StartYear != 2025 || cfg.HorizonYears != 100 || cfg.Seed != 42 {
		t.Fatalf("unexpected run parameters: %+v", cfg)
	}
	if cfg.FertilityMean != 1.6 || cfg.FertilityAgeStart != 28 || cfg.FertilityAgeEnd != 42 {
		t.Fatalf("unexpected fertility parameters: %+v", cfg)
	}
	if cfg.MortalityMean != 85 || cfg.MortalitySD != 8 || cfg.SexRatio != 0.5 {
		t.Fatalf("unexpected mortality parameters: %+v", cfg)
	}
	if cfg.InviteProb != 0.6 || cfg.InviteAge != 26 || cfg.PromotionProb != 0.7 {
		t.Fatalf("unexpected selection parameters: %+v", cfg)
	}
	if cfg.ProbationMin != 6 || cfg.ProbationMax != 9 {
		t.Fatalf("unexpected probation window: %+v", cfg)
	}
	if cfg.AgePartnerToEmeritus != 55 || cfg.AgeEconRightsEnd != 65 {
		t.Fatalf("unexpected career thresholds: %+v", cfg)
	}
	if cfg.InitialActivePartners != 30 || cfg.InitialEmeritusPartners != 30 || cfg.InitialTrainees != 10 {
		t.Fatalf("unexpected bootstrap sizes: %+v", cfg)
	}
	if cfg.BaselineGeneration != 6 {
		t.Fatalf("unexpected baseline generation %d", cfg.BaselineGeneration)
	}
}

func TestConfigCloneIndependence(t *testing.T) {
	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.EligibleParentStatuses[0] = StatusWashout
	if cfg.EligibleParentStatuses[0] != StatusPartnerActive {
		t.Fatalf("clone shares eligible-status slice")
	}
}

func TestParentEligible(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ParentEligible(StatusPartnerActive) || !cfg.ParentEligible(StatusPartnerEmeritus) {
		t.Fatalf("partners should be eligible by default")
	}
	for _, s := range []Status{StatusChild, StatusTrainee, StatusWashout, StatusDeceased} {
		if cfg.ParentEligible(s) {
			t.Fatalf("%s should not be eligible by default", s)
		}
	}
	cfg.EligibleParentStatuses = nil
	if cfg.ParentEligible(StatusPartnerActive) {
		t.Fatalf("no status should be eligible with an empty list")
	}
}
