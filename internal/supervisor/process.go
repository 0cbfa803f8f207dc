package supervisor

import (
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// childProcess wraps the spawned host agent, providing the liveness and
// CPU% observability the supervisor records alongside restart events.
// Grounded on monitor/process.go's DiscoverProcessActivity, ported from
// its Linux-only hand-rolled /proc scraper onto gopsutil/v3/process — the
// same dependency the teacher's go.mod declares but the copied backend
// slice never imports directly.
type childProcess struct {
	cmd *exec.Cmd
}

// spawnChild starts bin with args, inheriting the supervisor's
// stdin/stdout/stderr so interactive host agents keep working normally.
func spawnChild(bin string, args []string, cwd string) (*childProcess, error) {
	cmd := exec.Command(bin, args...)
	cmd.Dir = cwd
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &childProcess{cmd: cmd}, nil
}

// pid returns the child's process id, or 0 if not started.
func (c *childProcess) pid() int {
	if c == nil || c.cmd.Process == nil {
		return 0
	}
	return c.cmd.Process.Pid
}

// alive reports whether the child PID is still a live process, confirmed
// via gopsutil rather than trusting cmd.ProcessState alone (a restarted
// PID could otherwise be misread as the same process).
func (c *childProcess) alive() bool {
	pid := c.pid()
	if pid == 0 {
		return false
	}
	running, err := process.PidExists(int32(pid))
	return err == nil && running
}

// cpuPercent samples the child's CPU utilization over a short interval.
// Returns 0 on any error (process gone, permission denied).
func (c *childProcess) cpuPercent() float64 {
	pid := c.pid()
	if pid == 0 {
		return 0
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return 0
	}
	pct, err := proc.CPUPercent()
	if err != nil {
		return 0
	}
	return pct
}

// signal sends sig to the child.
func (c *childProcess) signal(sig syscall.Signal) error {
	if c == nil || c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Signal(sig)
}

// waitExit blocks until the child exits, returning its exit code (or -1
// if it couldn't be determined).
func (c *childProcess) waitExit() int {
	err := c.cmd.Wait()
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// waitExitTimeout blocks until the child exits or timeout elapses,
// reporting whether it exited in time. Used after sending SIGTERM to
// decide whether to escalate.
func waitExitTimeout(c *childProcess, timeout time.Duration) (exited bool, code int) {
	done := make(chan int, 1)
	go func() {
		done <- c.waitExit()
	}()
	select {
	case code := <-done:
		return true, code
	case <-time.After(timeout):
		return false, -1
	}
}
