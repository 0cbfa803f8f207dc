package cmd

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// NewRootCmd creates the root cobra command for eversession. Grounded on
// amurg-runtime's runtime/internal/cmd/root.go: one file per verb, added
// via root.AddCommand, a persistent --config flag every verb reads
// through loadConfig.
func NewRootCmd(v string) *cobra.Command {
	version = v

	root := &cobra.Command{
		Use:           "eversession",
		Short:         "EverSession — inspect and repair Claude/Codex JSONL transcripts",
		Long:          "EverSession detects, validates, and transforms Claude- and Codex-dialect coding-agent transcripts, and supervises a host agent process across context-reload cycles.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newFixCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newTrimCmd())
	root.AddCommand(newCompactCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newStripCmd())
	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newSuperviseCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newVersionCmd())

	root.PersistentFlags().StringP("config", "c", "", "path to config file")

	return root
}
