package transform

import "testing"

// spec.md scenario #3: tokens_per_message=[800,10,10,10,10], amount=25% ->
// total=840, target=210, remove_count=1 (the first message alone already
// clears the 210-token target), selected=800.
func TestPlanCompactPercentScenario(t *testing.T) {
	tokens := []uint64{800, 10, 10, 10, 10}
	pct := 25.0
	plan := PlanCompact(tokens, nil, &pct, 0)

	if plan.TotalTokens != 840 {
		t.Errorf("TotalTokens = %d, want 840", plan.TotalTokens)
	}
	if plan.TargetRemoveTokens != 210 {
		t.Errorf("TargetRemoveTokens = %d, want 210", plan.TargetRemoveTokens)
	}
	if plan.RemoveCount != 1 {
		t.Errorf("RemoveCount = %d, want 1", plan.RemoveCount)
	}
	if plan.SelectedRemoveTokens != 800 {
		t.Errorf("SelectedRemoveTokens = %d, want 800", plan.SelectedRemoveTokens)
	}
	if !plan.BudgetMet {
		t.Errorf("expected BudgetMet true")
	}
}

func TestPlanCompactAbsoluteTarget(t *testing.T) {
	tokens := []uint64{5, 5, 5, 5}
	target := uint64(12)
	plan := PlanCompact(tokens, &target, nil, 0)
	if plan.RemoveCount != 3 {
		t.Errorf("RemoveCount = %d, want 3 (5+5+5=15 >= 12)", plan.RemoveCount)
	}
	if plan.SelectedRemoveTokens != 15 {
		t.Errorf("SelectedRemoveTokens = %d, want 15", plan.SelectedRemoveTokens)
	}
}

func TestPlanCompactCannotMeetBudgetWithinKeepLast(t *testing.T) {
	tokens := []uint64{5, 5, 5, 5}
	target := uint64(100)
	plan := PlanCompact(tokens, &target, nil, 2)
	if plan.MaxRemovableCount != 2 {
		t.Fatalf("MaxRemovableCount = %d, want 2", plan.MaxRemovableCount)
	}
	if plan.BudgetMet {
		t.Errorf("expected BudgetMet false, removing everything removable still falls short")
	}
	if plan.RemoveCount != 2 {
		t.Errorf("RemoveCount = %d, want 2 (capped at MaxRemovableCount)", plan.RemoveCount)
	}
}

func TestPlanCompactZeroTargetIsAlreadyMet(t *testing.T) {
	tokens := []uint64{5, 5}
	target := uint64(0)
	plan := PlanCompact(tokens, &target, nil, 0)
	if !plan.BudgetMet || plan.RemoveCount != 0 {
		t.Errorf("expected a zero target to be trivially met with no removals, got %+v", plan)
	}
}

func TestCompactClaudeDelegatesToTrim(t *testing.T) {
	content := `{"type":"user","uuid":"u1","parentUuid":null,"message":{"role":"user","content":"hi"}}
{"type":"assistant","uuid":"a1","parentUuid":"u1","message":{"role":"assistant","content":"hello"}}
`
	doc, s := loadClaudeFixture(t, content)
	plan := CompactPlan{RemoveCount: 1}
	next, cs := CompactClaude(doc, s, plan)
	if len(next) != 1 || len(cs.Changes) != 2 {
		t.Fatalf("expected delegated trim behavior, got next=%d changes=%+v", len(next), cs.Changes)
	}
}
