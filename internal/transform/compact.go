package transform

import (
	"encoding/json"
	"math"

	"github.com/teunlao/eversession/internal/model"
)

// CompactPlan is the deterministic result of the token-budget removal
// planner (spec step 1-4): how many of the oldest messages to drop so the
// removed messages add up to at least a target number of tokens.
type CompactPlan struct {
	TotalTokens          uint64
	TargetRemoveTokens   uint64
	MaxRemovableCount    int
	RemoveCount          int
	SelectedRemoveTokens uint64
	BudgetMet            bool
}

// PlanCompact computes a CompactPlan from per-message token estimates and
// a removal target expressed as either an absolute token count or a
// percentage of the total. Exactly one of targetTokens/targetPercent
// should be set.
func PlanCompact(tokensPerMessage []uint64, targetTokens *uint64, targetPercent *float64, keepLastMessages int) CompactPlan {
	var total uint64
	for _, t := range tokensPerMessage {
		total += t
	}

	var target uint64
	switch {
	case targetPercent != nil:
		target = uint64(math.Floor(float64(total) * *targetPercent / 100))
	case targetTokens != nil:
		target = *targetTokens
	}

	maxRemovable := len(tokensPerMessage) - keepLastMessages
	if maxRemovable < 0 {
		maxRemovable = 0
	}

	plan := CompactPlan{
		TotalTokens:        total,
		TargetRemoveTokens: target,
		MaxRemovableCount:  maxRemovable,
	}

	if target == 0 {
		plan.BudgetMet = true
		return plan
	}

	var sum uint64
	for i := 1; i <= maxRemovable; i++ {
		sum += tokensPerMessage[i-1]
		if sum >= target {
			plan.RemoveCount = i
			plan.SelectedRemoveTokens = sum
			plan.BudgetMet = true
			return plan
		}
	}

	plan.RemoveCount = maxRemovable
	plan.SelectedRemoveTokens = sum
	plan.BudgetMet = false
	return plan
}

// CompactClaude applies a CompactPlan to the leaf chain: deletes the
// oldest plan.RemoveCount entries and relinks the new first kept entry to
// the root, same as TrimClaude.
func CompactClaude(doc *Document, s *model.ClaudeSession, plan CompactPlan) ([]json.RawMessage, *model.ChangeSet) {
	return TrimClaude(doc, s, TrimOptions{Count: intPtr(plan.RemoveCount), KeepLastMessages: 0})
}

// CompactCodex applies a CompactPlan to response_item entries.
func CompactCodex(doc *Document, s *model.CodexSession, plan CompactPlan) ([]json.RawMessage, *model.ChangeSet) {
	return TrimCodex(doc, s, TrimOptions{Count: intPtr(plan.RemoveCount), KeepLastMessages: 0})
}

func intPtr(n int) *int { return &n }
