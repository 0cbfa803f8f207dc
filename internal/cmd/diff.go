package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/dialect"
	"github.com/teunlao/eversession/internal/projection"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old.jsonl> <new.jsonl>",
		Short: "Report entries added, removed, and relinked between two Claude transcript snapshots",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldPath, newPath := args[0], args[1]

	oldAgent, oldRes, oldIssues, err := loadSession(oldPath)
	if err != nil {
		return usageErrorf("%w", err)
	}
	newAgent, newRes, newIssues, err := loadSession(newPath)
	if err != nil {
		return usageErrorf("%w", err)
	}
	if oldAgent != dialect.AgentClaude || newAgent != dialect.AgentClaude {
		return usageErrorf("diff only supports Claude-dialect transcripts")
	}
	if !oldRes.OK() || !newRes.OK() {
		return runtimeErrorf("both files must contain recognizable entries")
	}

	changes := projection.DiffClaude(oldRes.Claude, newRes.Claude, oldIssues, newIssues)
	if len(changes) == 0 {
		fmt.Fprintln(os.Stdout, "no differences")
		return nil
	}
	for _, c := range changes {
		fmt.Fprintln(os.Stdout, c)
	}
	return &exitCodeError{code: exitDiffFound, err: fmt.Errorf("%d difference(s) found", len(changes))}
}
