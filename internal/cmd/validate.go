package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/model"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <transcript.jsonl>",
		Short: "Detect, parse, and validate a transcript, reporting issues",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return usageErrorf("%s: %w", path, err)
	}

	agent, res, issues, err := loadSession(path)
	if err != nil {
		return usageErrorf("%w", err)
	}
	if !res.OK() {
		printIssues(os.Stdout, issues)
		return runtimeErrorf("%s contained no recognizable entries", path)
	}

	fmt.Fprintf(os.Stdout, "dialect: %s\n", agent)
	if len(issues) == 0 {
		fmt.Fprintln(os.Stdout, "no issues found")
		return nil
	}
	printIssues(os.Stdout, issues)

	counts := model.CountBySeverity(issues)
	fmt.Fprintf(os.Stdout, "%d error(s), %d warning(s)\n", counts.Error, counts.Warning)

	if counts.Error > 0 {
		return runtimeErrorf("validation found %d error-level issue(s)", counts.Error)
	}
	return nil
}
