package domain

import (
	"strings"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if Status("retired").Valid() {
		t.Fatalf("expected unknown status to be invalid")
	}
	if Status("").Valid() {
		t.Fatalf("expected empty status to be invalid")
	}
}

func TestStatusPartner(t *testing.T) {
	cases := map[Status]bool{
		StatusChild:           false,
		StatusTrainee:         false,
		StatusPartnerActive:   true,
		StatusPartnerEmeritus: true,
		StatusWashout:         false,
		StatusDeceased:        false,
	}
	for status, want := range cases {
		if got := status.Partner(); got != want {
			t.Fatalf("Partner(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestPersonAge(t *testing.T) {
	p := Person{BirthYear: 1990}
	if got := p.Age(2025); got != 35 {
		t.Fatalf("Age = %d, want 35", got)
	}
}

func TestPersonCloneIsDeep(t *testing.T) {
	p := Person{
		ID:           7,
		BirthYear:    1980,
		Generation:   3,
		Status:       StatusPartnerActive,
		ParentIDs:    []int64{1, 2},
		DeathYear:    intPtr(2060),
		PartnerSince: intPtr(2012),
		Sex:          SexFemale,
	}
	cp := p.Clone()
	cp.ParentIDs[0] = 99
	*cp.DeathYear = 2099
	*cp.PartnerSince = 1999
	if p.ParentIDs[0] != 1 {
		t.Fatalf("clone shares parent slice")
	}
	if *p.DeathYear != 2060 || *p.PartnerSince != 2012 {
		t.Fatalf("clone shares pointer fields")
	}
}

func TestHistoryClone(t *testing.T) {
	if History(nil).Clone() != nil {
		t.Fatalf("expected nil clone for nil history")
	}
	h := History{{Year: 2025, Living: 70}}
	cp := h.Clone()
	cp[0].Living = 0
	if h[0].Living != 70 {
		t.Fatalf("clone shares backing array")
	}
}

func TestRunRecordCloneIsDeep(t *testing.T) {
	r := RunRecord{
		ID:        "run-1",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Config:    DefaultConfig(),
		History:   History{{Year: 2025}},
		People:    []Person{{ID: 1, ParentIDs: []int64{5}}},
	}
	cp := r.Clone()
	cp.History[0].Year = 1900
	cp.People[0].ParentIDs[0] = 99
	cp.Config.EligibleParentStatuses[0] = StatusWashout
	if r.History[0].Year != 2025 {
		t.Fatalf("clone shares history")
	}
	if r.People[0].ParentIDs[0] != 5 {
		t.Fatalf("clone shares people")
	}
	if r.Config.EligibleParentStatuses[0] != StatusPartnerActive {
		t.Fatalf("clone shares config statuses")
	}
}

func TestResultMergeAndHasBlocking(t *testing.T) {
	var res Result
	if res.HasBlocking() {
		t.Fatalf("empty result should not block")
	}
	res.Merge(Result{Violations: []Violation{{Rule: "warn", Severity: SeverityWarn}}})
	if res.HasBlocking() {
		t.Fatalf("warn-only result should not block")
	}
	res.Merge(Result{Violations: []Violation{{Rule: "block", Severity: SeverityBlock}}})
	if !res.HasBlocking() {
		t.Fatalf("expected blocking after merge")
	}
	if len(res.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(res.Violations))
	}
}

func TestRuleViolationErrorMessage(t *testing.T) {
	err := RuleViolationError{Result: Result{Violations: []Violation{
		{Rule: "status_transition", Severity: SeverityBlock, Message: "bad move"},
	}}}
	if !strings.Contains(err.Error(), "blocked") {
		t.Fatalf("unexpected error message %q", err.Error())
	}
	if !err.Result.HasBlocking() {
		t.Fatalf("expected blocking result carried on error")
	}
}
