package supervisor

import (
	"context"
	"fmt"
	"log"
	"syscall"
	"time"

	"github.com/teunlao/eversession/internal/evslog"
	"github.com/teunlao/eversession/internal/jsonlio"
)

// Options configures one supervised run of a host agent.
type Options struct {
	Bin         string
	InitialArgs []string
	Cwd         string
	ControlDir  string
	EvsLogDir   string
	SessionID   string // used for the pre-reload fix hook and event log

	ReloadMode ReloadMode

	PollInterval    time.Duration
	RestartTimeout  time.Duration
	StabilityWindow time.Duration
	StabilityTimeoutMs int
	BackupRetention int

	// ResumeTemplate builds resume argv from a thread_id/session_id,
	// e.g. func(id string) []string { return []string{"--resume", id} }.
	ResumeTemplate func(id string) []string

	LockTimeoutMs  int
	LockMaxDelayMs int
}

// Supervisor runs the state machine for one child across restarts.
type Supervisor struct {
	opts           Options
	state          State
	child          *childProcess
	cursor         controlCursor
	logger         *evslog.Logger
	lastCPUPercent float64
}

// New constructs a Supervisor. Run() drives it to completion.
func New(opts Options) *Supervisor {
	var logger *evslog.Logger
	if opts.SessionID != "" && opts.EvsLogDir != "" {
		logger = evslog.New(opts.EvsLogDir, opts.SessionID)
	}
	return &Supervisor{opts: opts, state: Starting, logger: logger}
}

// State returns the supervisor's current lifecycle phase.
func (s *Supervisor) State() State { return s.state }

// Run drives Starting -> Running -> (Stopping -> Stopped -> Starting)*
// until the child exits cleanly (not via a reload) or ctx is canceled.
// It returns the child's final exit code.
func (s *Supervisor) Run(ctx context.Context) (int, error) {
	args := s.opts.InitialArgs
	for {
		child, err := spawnChild(s.opts.Bin, args, s.opts.Cwd)
		if err != nil {
			return -1, err
		}
		s.child = child
		s.state = Running
		s.logEvent(evslog.EventSupervisorStart, map[string]any{
			"args": args,
			"pid":  child.pid(),
		})
		log.Printf("[supervisor] started child pid=%d args=%v", child.pid(), args)

		exitCh := make(chan int, 1)
		go func() { exitCh <- child.waitExit() }()

		reload, code, err := s.watch(ctx, exitCh)
		if err != nil {
			return -1, err
		}
		if !reload {
			s.state = Stopped
			return code, nil
		}

		nextArgs, err := s.restart()
		if err != nil {
			log.Printf("[supervisor] restart preparation error (continuing with last args): %v", err)
			nextArgs = args
		}
		args = nextArgs
		s.state = Starting
	}
}

// watch polls control.jsonl/pending-reload.json and the child's exit
// channel at PollInterval until one fires. Returns reload=true when a
// reload was requested and the child was stopped in response.
func (s *Supervisor) watch(ctx context.Context, exitCh chan int) (reload bool, code int, err error) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.terminateChild()
			return false, -1, ctx.Err()

		case code := <-exitCh:
			return false, code, nil

		case <-ticker.C:
			if s.opts.ReloadMode == ReloadOff {
				continue
			}
			requested := len(s.cursor.pollNewReloads(s.opts.ControlDir)) > 0
			if s.opts.ReloadMode == ReloadAuto && consumePendingReload(s.opts.ControlDir) {
				requested = true
			}
			if !requested {
				continue
			}
			s.performReload()
			return true, 0, nil
		}
	}
}

// performReload runs the pre-reload fix hook (after waiting for file
// stability) and then signals the child to stop.
func (s *Supervisor) performReload() {
	s.state = Stopping
	if s.child != nil {
		s.lastCPUPercent = s.child.cpuPercent()
	}
	h, ok := ReadHandshake(s.opts.ControlDir)
	if ok && h.TranscriptPath != "" {
		if jsonlio.WaitStable(h.TranscriptPath, s.opts.StabilityTimeoutMs, int(s.opts.StabilityWindow.Milliseconds()), 50) {
			if err := s.fixBeforeReloadLocked(h.TranscriptPath); err != nil {
				log.Printf("[supervisor] pre-reload fix error (continuing): %v", err)
			}
		} else {
			log.Printf("[supervisor] transcript did not stabilize before reload; skipping pre-reload fix")
		}
	}
	s.terminateChild()
}

// fixBeforeReloadLocked wraps FixBeforeReload in the same exclusive-create
// lock every other transcript-writing command holds (spec.md §5: "writes
// are serialized per-session via the file lock"), so a reload racing a
// concurrent CLI fix/trim/compact invocation backs off instead of
// corrupting the file.
func (s *Supervisor) fixBeforeReloadLocked(transcriptPath string) error {
	lockPath := transcriptPath + ".evs.lock"
	timeoutMs := s.opts.LockTimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 3000
	}
	maxDelayMs := s.opts.LockMaxDelayMs
	if maxDelayMs <= 0 {
		maxDelayMs = 500
	}
	ok, err := jsonlio.AcquireLockWithMaxDelay(lockPath, timeoutMs, maxDelayMs)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("could not acquire lock on %s before pre-reload fix", transcriptPath)
	}
	defer func() { _ = jsonlio.ReleaseLock(lockPath) }()
	return FixBeforeReload(transcriptPath, s.opts.EvsLogDir, s.opts.SessionID, s.opts.BackupRetention)
}

// terminateChild sends SIGTERM and escalates to SIGKILL if the child
// doesn't exit within RestartTimeout.
func (s *Supervisor) terminateChild() {
	if s.child == nil {
		return
	}
	_ = s.child.signal(syscall.SIGTERM)
	if exited, _ := waitExitTimeout(s.child, s.opts.RestartTimeout); exited {
		return
	}
	log.Printf("[supervisor] child did not exit within %s, escalating to SIGKILL", s.opts.RestartTimeout)
	_ = s.child.signal(syscall.SIGKILL)
}

// restart reads the latest handshake and computes the next run's argv.
func (s *Supervisor) restart() ([]string, error) {
	h, ok := ReadHandshake(s.opts.ControlDir)
	template := s.opts.ResumeTemplate
	if template == nil {
		template = func(id string) []string { return append(append([]string{}, s.opts.InitialArgs...), "--resume", id) }
	}
	next := ResumeArgs(h, ok, s.opts.InitialArgs, template)
	s.logEvent(evslog.EventSupervisorRestart, map[string]any{
		"handshake_ok": ok,
		"thread_id":    h.ThreadID,
		"session_id":   h.SessionID,
		"args":         next,
		"cpu_percent":  s.lastCPUPercent,
	})
	return next, nil
}

// Abort forwards an external abort signal to the child and transitions
// to a terminal exit without restarting (spec.md §4.8 transition (d)).
func (s *Supervisor) Abort() {
	s.state = Stopping
	s.terminateChild()
	s.state = Stopped
}

func (s *Supervisor) logEvent(event string, data any) {
	if s.logger == nil {
		return
	}
	if err := s.logger.Append(event, data); err != nil {
		log.Printf("[supervisor] event log append error: %v", err)
	}
}
