package transform

import (
	"encoding/json"

	"github.com/teunlao/eversession/internal/model"
	"github.com/teunlao/eversession/internal/validator"
)

// FixOptions selects which repairs a Fix pass performs.
type FixOptions struct {
	RepairBrokenParentUUIDs bool
	FixThinkingBlockOrder   bool
	RemoveOrphanToolResults bool
	RemoveAPIErrorMessages  bool
	RemoveOrphanToolUses    bool
}

// DefaultPreReloadFixOptions are the options the supervisor's pre-reload
// hook uses: every repair except RemoveOrphanToolUses, which stays off by
// default because an in-flight tool call is a false-positive risk.
func DefaultPreReloadFixOptions() FixOptions {
	return FixOptions{
		RepairBrokenParentUUIDs: true,
		FixThinkingBlockOrder:   true,
		RemoveOrphanToolResults: true,
		RemoveAPIErrorMessages:  true,
		RemoveOrphanToolUses:    false,
	}
}

// Fix runs the selected Claude repairs over s and returns the resulting
// ChangeSet plus the document's next_values with that ChangeSet already
// applied. doc must have been loaded from the same file s was parsed
// from. Fix never mutates s or doc.
func Fix(doc *Document, s *model.ClaudeSession, opts FixOptions) ([]json.RawMessage, *model.ChangeSet, error) {
	cs := model.NewChangeSet()
	deleted := make(map[int]bool)

	if opts.FixThinkingBlockOrder {
		if err := fixThinkingOrder(s, cs, deleted); err != nil {
			return nil, nil, err
		}
	}
	if opts.RemoveOrphanToolResults {
		if err := removeOrphanBlocks(s, cs, deleted, validator.CollectToolUseIDs(s), model.BlockToolResult, "remove_orphan_tool_results"); err != nil {
			return nil, nil, err
		}
	}
	if opts.RemoveOrphanToolUses {
		if err := removeOrphanBlocks(s, cs, deleted, validator.CollectToolResultIDs(s), model.BlockToolUse, "remove_orphan_tool_uses"); err != nil {
			return nil, nil, err
		}
	}
	if opts.RemoveAPIErrorMessages {
		if err := removeAPIErrorMessages(s, cs, deleted); err != nil {
			return nil, nil, err
		}
	}
	if opts.RepairBrokenParentUUIDs {
		if err := repairBrokenParentUUIDs(s, cs, deleted); err != nil {
			return nil, nil, err
		}
	}

	next := Apply(doc, cs)
	return next, cs, nil
}

// removeOrphanBlocks drops blocks of kind whose id (tool_use.id or
// tool_result.tool_use_id — both stored in ToolUseID) has no counterpart
// in pairedIDs. A message left with zero blocks is deleted outright
// rather than updated to an empty content array.
func removeOrphanBlocks(s *model.ClaudeSession, cs *model.ChangeSet, deleted map[int]bool, pairedIDs map[string]bool, kind model.ClaudeBlockType, reason string) error {
	for _, e := range s.Entries {
		if deleted[e.Line] || e.IsSidechain || e.Message == nil || e.Message.IsString {
			continue
		}
		changed := false
		kept := make([]model.ClaudeBlock, 0, len(e.Message.Blocks))
		for _, b := range e.Message.Blocks {
			if b.Type == kind && !pairedIDs[b.ToolUseID] {
				changed = true
				continue
			}
			kept = append(kept, b)
		}
		if !changed {
			continue
		}
		if len(kept) == 0 {
			cs.AddDelete(e.Line, reason)
			deleted[e.Line] = true
			continue
		}
		newRaw, err := setEntryContent(e.Raw, blocksToRaw(kept))
		if err != nil {
			return err
		}
		cs.AddUpdate(e.Line, reason, newRaw)
	}
	return nil
}

// fixThinkingOrder partitions each assistant message's content into
// thinking blocks and non-thinking blocks, preserving relative order
// within each group, then emits all thinking blocks first.
func fixThinkingOrder(s *model.ClaudeSession, cs *model.ChangeSet, deleted map[int]bool) error {
	for _, e := range s.Entries {
		if deleted[e.Line] || e.Type != "assistant" || e.Message == nil || e.Message.IsString {
			continue
		}
		var thinking, rest []model.ClaudeBlock
		misordered := false
		sawNonThinking := false
		for _, b := range e.Message.Blocks {
			if b.Type == model.BlockThinking {
				thinking = append(thinking, b)
				if sawNonThinking {
					misordered = true
				}
			} else {
				rest = append(rest, b)
				sawNonThinking = true
			}
		}
		if !misordered {
			continue
		}
		reordered := append(append([]model.ClaudeBlock{}, thinking...), rest...)
		newRaw, err := setEntryContent(e.Raw, blocksToRaw(reordered))
		if err != nil {
			return err
		}
		cs.AddUpdate(e.Line, "fix_thinking_block_order", newRaw)
	}
	return nil
}

// removeAPIErrorMessages deletes assistant entries whose content is the
// well-known API error payload, relinking every child onto the deleted
// entry's own parent so the chain stays connected.
func removeAPIErrorMessages(s *model.ClaudeSession, cs *model.ChangeSet, deleted map[int]bool) error {
	for _, e := range s.Entries {
		if deleted[e.Line] || e.Type != "assistant" || e.Message == nil {
			continue
		}
		if !validator.IsAPIErrorMessage(e.Message) {
			continue
		}
		cs.AddDelete(e.Line, "remove_api_error_messages")
		deleted[e.Line] = true
		if err := relinkChildren(s, e, cs, deleted, "remove_api_error_messages"); err != nil {
			return err
		}
	}
	return nil
}

func relinkChildren(s *model.ClaudeSession, deletedEntry *model.ClaudeEntry, cs *model.ChangeSet, deleted map[int]bool, reason string) error {
	for _, childUUID := range s.Children[deletedEntry.UUID] {
		child, ok := s.ByUUID[childUUID]
		if !ok || deleted[child.Line] {
			continue
		}
		newRaw, err := setParentUUID(child.Raw, deletedEntry.ParentUUID)
		if err != nil {
			return err
		}
		cs.AddUpdate(child.Line, reason, newRaw)
	}
	return nil
}

// repairBrokenParentUUIDs sets entries whose parentUuid points at a
// missing uuid to the nearest preceding entry (by file order) that does
// have a uuid, falling back to null when no such entry exists.
func repairBrokenParentUUIDs(s *model.ClaudeSession, cs *model.ChangeSet, deleted map[int]bool) error {
	for i, e := range s.Entries {
		if deleted[e.Line] || e.ParentUUID == nil || *e.ParentUUID == "" {
			continue
		}
		if _, ok := s.ByUUID[*e.ParentUUID]; ok {
			continue
		}
		nearest := nearestPresentAncestor(s, i)
		newRaw, err := setParentUUID(e.Raw, nearest)
		if err != nil {
			return err
		}
		cs.AddUpdate(e.Line, "repair_broken_parent_uuids", newRaw)
	}
	return nil
}

func nearestPresentAncestor(s *model.ClaudeSession, entryIndex int) *string {
	for i := entryIndex - 1; i >= 0; i-- {
		if uuid := s.Entries[i].UUID; uuid != "" {
			return &uuid
		}
	}
	return nil
}

func blocksToRaw(blocks []model.ClaudeBlock) []json.RawMessage {
	out := make([]json.RawMessage, len(blocks))
	for i, b := range blocks {
		out[i] = b.Raw
	}
	return out
}
