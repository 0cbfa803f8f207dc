package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/dialect"
	"github.com/teunlao/eversession/internal/projection"
	"github.com/teunlao/eversession/internal/tokens"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <transcript.jsonl>",
		Short: "Summarize a transcript: entry/message/tool counts, issue counts, estimated tokens used",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	agent, res, issues, err := loadSession(path)
	if err != nil {
		return usageErrorf("%w", err)
	}
	if !res.OK() {
		return runtimeErrorf("%s contained no recognizable entries", path)
	}

	var sum projection.Summary
	switch agent {
	case dialect.AgentClaude:
		sum = projection.AnalyzeClaude(res.Claude, issues, tokens.EstimateCount)
	case dialect.AgentCodex:
		sum = projection.AnalyzeCodex(res.Codex, issues)
	default:
		return usageErrorf("unsupported dialect %s", agent)
	}

	fmt.Fprintf(os.Stdout, "dialect:       %s\n", sum.Dialect)
	fmt.Fprintf(os.Stdout, "entries:       %d\n", sum.EntryCount)
	fmt.Fprintf(os.Stdout, "messages:      %d\n", sum.MessageCount)
	fmt.Fprintf(os.Stdout, "tool uses:     %d\n", sum.ToolUseCount)
	fmt.Fprintf(os.Stdout, "errors:        %d\n", sum.ErrorCount)
	fmt.Fprintf(os.Stdout, "warnings:      %d\n", sum.WarningCount)
	fmt.Fprintf(os.Stdout, "tokens (est.): %d\n", sum.TokensUsed)
	return nil
}
