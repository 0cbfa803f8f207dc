package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/discovery"
)

func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Locate the transcript file for a working directory and agent",
		RunE:  runDiscover,
	}
	cmd.Flags().String("cwd", "", "working directory to match against (default: current directory)")
	cmd.Flags().String("agent", "auto", "agent preference: auto | claude | codex")
	cmd.Flags().String("match", "", "substring the tail of the file must contain")
	cmd.Flags().String("session-id", "", "resolve a specific session/thread id directly, bypassing scoring")
	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	agent, _ := cmd.Flags().GetString("agent")
	match, _ := cmd.Flags().GetString("match")
	sessionID, _ := cmd.Flags().GetString("session-id")
	if sessionID == "" {
		sessionID = pinnedSessionID()
	}

	opts := discovery.Options{
		Cwd:               cwd,
		Agent:             agent,
		Match:             match,
		SessionID:         sessionID,
		ClaudeProjectsDir: cfg.Discovery.ClaudeProjectsDir,
		CodexSessionsDir:  cfg.Discovery.CodexSessionsDir,
		CodexLookbackDays: cfg.Discovery.CodexLookbackDays,
		TailLines:         cfg.Discovery.TailLines,
	}

	report, err := discovery.Discover(opts)
	if err != nil {
		return runtimeErrorf("%w", err)
	}
	if report.Session == nil {
		for _, n := range report.Notes {
			fmt.Fprintln(os.Stderr, n)
		}
		return usageErrorf("no matching %s transcript found under %s", agent, cwd)
	}

	fmt.Fprintf(os.Stdout, "agent: %s\n", report.Agent)
	fmt.Fprintf(os.Stdout, "session: %s (score=%.3f age_ms=%d)\n", report.Session.Path, report.Session.Score, report.Session.AgeMs)
	for _, alt := range report.Alternatives {
		fmt.Fprintf(os.Stdout, "alternative: %s (score=%.3f age_ms=%d)\n", alt.Path, alt.Score, alt.AgeMs)
	}
	for _, n := range report.Notes {
		fmt.Fprintf(os.Stdout, "note: %s\n", n)
	}
	return nil
}
