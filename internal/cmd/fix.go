package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/dialect"
	"github.com/teunlao/eversession/internal/transform"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix <transcript.jsonl>",
		Short: "Repair broken parent links, thinking order, orphan blocks, and API-error messages",
		Args:  cobra.ExactArgs(1),
		RunE:  runFix,
	}
	cmd.Flags().Bool("repair-parents", true, "repair broken parentUuid links")
	cmd.Flags().Bool("fix-thinking-order", true, "reorder thinking blocks before other content")
	cmd.Flags().Bool("remove-orphan-tool-results", true, "remove tool_result blocks with no matching tool_use")
	cmd.Flags().Bool("remove-api-errors", true, "remove API-error assistant messages")
	cmd.Flags().Bool("remove-orphan-tool-uses", false, "remove tool_use blocks with no matching tool_result")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	agent, res, _, err := loadSession(path)
	if err != nil {
		return usageErrorf("%w", err)
	}
	if agent != dialect.AgentClaude {
		return usageErrorf("fix only supports Claude-dialect transcripts, got %s", agent)
	}
	if !res.OK() {
		return runtimeErrorf("%s contained no recognizable entries", path)
	}

	opts := transform.FixOptions{}
	opts.RepairBrokenParentUUIDs, _ = cmd.Flags().GetBool("repair-parents")
	opts.FixThinkingBlockOrder, _ = cmd.Flags().GetBool("fix-thinking-order")
	opts.RemoveOrphanToolResults, _ = cmd.Flags().GetBool("remove-orphan-tool-results")
	opts.RemoveAPIErrorMessages, _ = cmd.Flags().GetBool("remove-api-errors")
	opts.RemoveOrphanToolUses, _ = cmd.Flags().GetBool("remove-orphan-tool-uses")

	var changed bool
	err = withSessionLock(cfg, path, func() error {
		doc, err := transform.LoadDocument(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		next, cs, err := transform.Fix(doc, res.Claude, opts)
		if err != nil {
			return fmt.Errorf("fixing %s: %w", path, err)
		}
		wrote, err := writeChangeSet(cfg, path, cs, next)
		if err != nil {
			return err
		}
		changed = wrote
		if wrote {
			for _, c := range cs.Sorted() {
				fmt.Fprintf(os.Stdout, "%s: line %d (%s)\n", c.Kind, c.Line, c.Reason)
			}
		}
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
