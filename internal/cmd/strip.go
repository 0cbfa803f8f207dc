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

func newStripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strip <transcript.jsonl>",
		Short: "Remove noise entries (empty messages, turn_context/event_msg envelopes) with no conversational content",
		Args:  cobra.ExactArgs(1),
		RunE:  runStrip,
	}
}

func runStrip(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
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
			next, cs = transform.StripClaude(doc, res.Claude)
		case dialect.AgentCodex:
			next, cs = transform.StripCodex(doc, res.Codex)
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
