package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/dialect"
	"github.com/teunlao/eversession/internal/model"
	"github.com/teunlao/eversession/internal/transform"
)

func newTrimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trim <transcript.jsonl>",
		Short: "Drop the oldest N (or N%) messages from a transcript's leaf chain",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrim,
	}
	cmd.Flags().Int("count", 0, "number of oldest messages to remove")
	cmd.Flags().Float64("percent", 0, "percentage of messages to remove (0-100)")
	cmd.Flags().Int("keep-last", 0, "never remove the most recent N messages")
	return cmd
}

func runTrim(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	count, _ := cmd.Flags().GetInt("count")
	percent, _ := cmd.Flags().GetFloat64("percent")
	keepLast, _ := cmd.Flags().GetInt("keep-last")
	if count == 0 && percent == 0 {
		return usageErrorf("trim requires --count or --percent")
	}

	opts := transform.TrimOptions{KeepLastMessages: keepLast}
	if count > 0 {
		opts.Count = &count
	} else {
		opts.Percent = &percent
	}

	agent, res, _, err := loadSession(path)
	if err != nil {
		return usageErrorf("%w", err)
	}
	if !res.OK() {
		return runtimeErrorf("%s contained no recognizable entries", path)
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
			n, c := transform.TrimClaude(doc, res.Claude, opts)
			next, cs = n, c
		case dialect.AgentCodex:
			n, c := transform.TrimCodex(doc, res.Codex, opts)
			next, cs = n, c
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
	if changed {
		fmt.Fprintln(os.Stdout, "trim applied")
	} else {
		fmt.Fprintln(os.Stdout, "no changes needed")
	}
	return nil
}
