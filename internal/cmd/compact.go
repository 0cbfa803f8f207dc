package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/dialect"
	"github.com/teunlao/eversession/internal/model"
	"github.com/teunlao/eversession/internal/tokens"
	"github.com/teunlao/eversession/internal/transform"
)

func newCompactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact <transcript.jsonl>",
		Short: "Drop the oldest messages until a target number of tokens is removed",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompact,
	}
	cmd.Flags().Uint64("target-tokens", 0, "absolute number of tokens to remove")
	cmd.Flags().Float64("target-percent", 0, "percentage of current tokens to remove (0-100)")
	cmd.Flags().Int("keep-last", 0, "never remove the most recent N messages")
	return cmd
}

func runCompact(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	targetTokens, _ := cmd.Flags().GetUint64("target-tokens")
	targetPercent, _ := cmd.Flags().GetFloat64("target-percent")
	keepLast, _ := cmd.Flags().GetInt("keep-last")
	if targetTokens == 0 && targetPercent == 0 {
		return usageErrorf("compact requires --target-tokens or --target-percent")
	}

	agent, res, _, err := loadSession(path)
	if err != nil {
		return usageErrorf("%w", err)
	}
	if !res.OK() {
		return runtimeErrorf("%s contained no recognizable entries", path)
	}

	var tokensTarget *uint64
	var percentTarget *float64
	if targetTokens > 0 {
		tokensTarget = &targetTokens
	} else {
		percentTarget = &targetPercent
	}

	var changed bool
	err = withSessionLock(cfg, path, func() error {
		doc, err := transform.LoadDocument(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}

		var next []json.RawMessage
		var cs *model.ChangeSet
		switch agent {
		case dialect.AgentClaude:
			perEntry := tokens.CountClaudeMessagesPerEntry(res.Claude, tokens.EstimateCount)
			plan := transform.PlanCompact(perEntry, tokensTarget, percentTarget, keepLast)
			fmt.Fprintf(os.Stdout, "total=%d target_remove=%d remove_count=%d budget_met=%t\n",
				plan.TotalTokens, plan.TargetRemoveTokens, plan.RemoveCount, plan.BudgetMet)
			next, cs = transform.CompactClaude(doc, res.Claude, plan)
		case dialect.AgentCodex:
			perEntry := tokens.CountCodexResponseItemsPerEntry(res.Codex, tokens.EstimateCount)
			plan := transform.PlanCompact(perEntry, tokensTarget, percentTarget, keepLast)
			fmt.Fprintf(os.Stdout, "total=%d target_remove=%d remove_count=%d budget_met=%t\n",
				plan.TotalTokens, plan.TargetRemoveTokens, plan.RemoveCount, plan.BudgetMet)
			next, cs = transform.CompactCodex(doc, res.Codex, plan)
		default:
			return fmt.Errorf("unsupported dialect %s", agent)
		}

		wrote, err := writeChangeSet(cfg, path, cs, next)
		if err != nil {
			return err
		}
		changed = wrote
		return nil
	})
	if err != nil {
		return runtimeErrorf("%w", err)
	}
	if !changed {
		fmt.Fprintln(os.Stdout, "no changes needed")
	}
	return nil
}
