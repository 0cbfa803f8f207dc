package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/dialect"
	"github.com/teunlao/eversession/internal/projection"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <transcript.jsonl>",
		Short: "Render a transcript as a typed JSON array on stdout (read-only)",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	agent, res, _, err := loadSession(path)
	if err != nil {
		return usageErrorf("%w", err)
	}
	if !res.OK() {
		return runtimeErrorf("%s contained no recognizable entries", path)
	}

	var out []byte
	switch agent {
	case dialect.AgentClaude:
		out, err = projection.ExportClaude(res.Claude)
	case dialect.AgentCodex:
		out, err = projection.ExportCodex(res.Codex)
	default:
		return usageErrorf("unsupported dialect %s", agent)
	}
	if err != nil {
		return runtimeErrorf("exporting %s: %w", path, err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
