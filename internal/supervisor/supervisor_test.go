package supervisor

import (
	"context"
	"testing"
	"time"
)

func testOptions(t *testing.T, mode ReloadMode) Options {
	t.Helper()
	return Options{
		Bin:             "sh",
		InitialArgs:     []string{"-c", "sleep 5"},
		ControlDir:      t.TempDir(),
		ReloadMode:      mode,
		PollInterval:    10 * time.Millisecond,
		RestartTimeout:  200 * time.Millisecond,
		StabilityWindow: 10 * time.Millisecond,
		StabilityTimeoutMs: 50,
	}
}

func TestWatchDetectsReloadFromControlLine(t *testing.T) {
	opts := testOptions(t, ReloadManual)
	s := New(opts)

	if err := AppendControlLine(opts.ControlDir, ControlLine{Ts: "t0", Cmd: "reload"}); err != nil {
		t.Fatalf("AppendControlLine: %v", err)
	}

	reload, _, err := s.watch(context.Background(), make(chan int))
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !reload {
		t.Errorf("expected watch to detect the reload command")
	}
}

func TestWatchHonorsReloadOff(t *testing.T) {
	opts := testOptions(t, ReloadOff)
	s := New(opts)

	if err := AppendControlLine(opts.ControlDir, ControlLine{Ts: "t0", Cmd: "reload"}); err != nil {
		t.Fatalf("AppendControlLine: %v", err)
	}

	exitCh := make(chan int, 1)
	go func() {
		time.Sleep(30 * time.Millisecond)
		exitCh <- 0
	}()

	reload, code, err := s.watch(context.Background(), exitCh)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if reload {
		t.Errorf("expected reload=false in off mode even with a reload command queued")
	}
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestWatchDetectsPendingReloadInAutoMode(t *testing.T) {
	opts := testOptions(t, ReloadAuto)
	s := New(opts)

	if err := TriggerPendingReload(opts.ControlDir, "auto-compact"); err != nil {
		t.Fatalf("TriggerPendingReload: %v", err)
	}

	reload, _, err := s.watch(context.Background(), make(chan int))
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !reload {
		t.Errorf("expected pending-reload.json to trigger a reload in auto mode")
	}
}

func TestWatchIgnoresPendingReloadInManualMode(t *testing.T) {
	opts := testOptions(t, ReloadManual)
	s := New(opts)

	if err := TriggerPendingReload(opts.ControlDir, "auto-compact"); err != nil {
		t.Fatalf("TriggerPendingReload: %v", err)
	}

	exitCh := make(chan int, 1)
	go func() {
		time.Sleep(30 * time.Millisecond)
		exitCh <- 0
	}()

	reload, _, err := s.watch(context.Background(), exitCh)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if reload {
		t.Errorf("expected pending-reload.json to be ignored in manual mode")
	}
}

func TestWatchReturnsOnChildExit(t *testing.T) {
	opts := testOptions(t, ReloadManual)
	s := New(opts)

	exitCh := make(chan int, 1)
	exitCh <- 7

	reload, code, err := s.watch(context.Background(), exitCh)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if reload {
		t.Errorf("expected reload=false on a clean child exit")
	}
	if code != 7 {
		t.Errorf("expected exit code 7, got %d", code)
	}
}

func TestRunSpawnsAndExitsCleanlyWithoutReload(t *testing.T) {
	opts := testOptions(t, ReloadManual)
	opts.InitialArgs = []string{"-c", "exit 3"}
	s := New(opts)

	code, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
	if s.State() != Stopped {
		t.Errorf("expected final state Stopped, got %s", s.State())
	}
}

func TestAbortTerminatesChildAndStopsState(t *testing.T) {
	opts := testOptions(t, ReloadManual)
	s := New(opts)
	child, err := spawnChild(opts.Bin, opts.InitialArgs, opts.Cwd)
	if err != nil {
		t.Fatalf("spawnChild: %v", err)
	}
	s.child = child
	s.state = Running

	s.Abort()

	if s.State() != Stopped {
		t.Errorf("expected state Stopped after Abort, got %s", s.State())
	}
}
