package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/dialect"
	"github.com/teunlao/eversession/internal/transform"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <transcript.jsonl>",
		Short: "Delete specific lines from a Claude transcript by line number",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
	cmd.Flags().String("lines", "", "comma-separated line numbers and ranges, e.g. \"3,7-9\"")
	_ = cmd.MarkFlagRequired("lines")
	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	spec, _ := cmd.Flags().GetString("lines")
	lines, err := transform.ParseLineSpec(spec)
	if err != nil {
		return usageErrorf("%w", err)
	}

	agent, res, _, err := loadSession(path)
	if err != nil {
		return usageErrorf("%w", err)
	}
	if agent != dialect.AgentClaude {
		return usageErrorf("remove only supports Claude-dialect transcripts, got %s", agent)
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
		next, cs, err := transform.RemoveClaude(doc, res.Claude, lines)
		if err != nil {
			return err
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
		fmt.Fprintf(os.Stdout, "removed %d line(s)\n", len(lines))
	} else {
		fmt.Fprintln(os.Stdout, "no changes needed")
	}
	return nil
}
