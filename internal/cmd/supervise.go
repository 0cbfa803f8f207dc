package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/config"
	"github.com/teunlao/eversession/internal/supervisor"
)

func newSuperviseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supervise [-- <bin> [args...]]",
		Short: "Run a host agent under the reload supervisor",
		Long:  "Run a host agent under the reload supervisor. <bin> may be omitted if EVERSESSION_AGENT_BIN is set.",
		RunE:  runSupervise,
	}
	cmd.Flags().String("control-dir", "", "control directory (default: config's supervisor.control_dir)")
	cmd.Flags().String("evs-log-dir", "", "directory for the supervisor's event log (default: control-dir)")
	cmd.Flags().String("session-id", "", "session id used for the pre-reload fix hook and event log")
	cmd.Flags().String("cwd", "", "working directory for the child process")
	return cmd
}

// signalContext returns a context canceled on SIGINT/SIGTERM, following
// amurg-runtime's main.go signal-to-cancellation idiom.
func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, func() { signal.Stop(sigCh); cancel() }
}

func runSupervise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	controlDir, _ := cmd.Flags().GetString("control-dir")
	if controlDir == "" {
		controlDir = cfg.Supervisor.ControlDir
	}
	evsLogDir, _ := cmd.Flags().GetString("evs-log-dir")
	if evsLogDir == "" {
		evsLogDir = controlDir
	}
	sessionID, _ := cmd.Flags().GetString("session-id")
	cwd, _ := cmd.Flags().GetString("cwd")

	env := config.LoadEnvConfig()
	if sessionID == "" {
		sessionID = env.RunID
	}

	var bin string
	var initialArgs []string
	if len(args) > 0 {
		bin, initialArgs = args[0], args[1:]
	} else {
		bin = env.AgentBin
	}
	if bin == "" {
		return usageErrorf("supervise requires a <bin> argument or EVERSESSION_AGENT_BIN")
	}

	mode := supervisor.ReloadMode(cfg.Supervisor.ReloadMode)
	switch mode {
	case supervisor.ReloadManual, supervisor.ReloadAuto, supervisor.ReloadOff:
	default:
		mode = supervisor.ReloadManual
	}

	opts := supervisor.Options{
		Bin:                bin,
		InitialArgs:        initialArgs,
		Cwd:                cwd,
		ControlDir:         controlDir,
		EvsLogDir:          evsLogDir,
		SessionID:          sessionID,
		ReloadMode:         mode,
		PollInterval:       cfg.PollInterval(),
		RestartTimeout:     cfg.RestartTimeout(),
		StabilityWindow:    cfg.StabilityWindow(),
		StabilityTimeoutMs: cfg.Supervisor.StabilityTimeoutMs,
		BackupRetention:    cfg.Backup.RetentionCount,
		LockTimeoutMs:      cfg.Lock.TimeoutMs,
		LockMaxDelayMs:     cfg.Lock.MaxDelayMs,
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 150 * time.Millisecond
	}

	sup := supervisor.New(opts)
	ctx, stop := signalContext()
	defer stop()

	code, err := sup.Run(ctx)
	if err != nil && err != context.Canceled {
		return runtimeErrorf("supervise: %w", err)
	}
	fmt.Fprintf(os.Stdout, "child exited with code %d\n", code)
	if code != 0 {
		return runtimeErrorf("child exited with non-zero code %d", code)
	}
	return nil
}
