package session

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Runner manages the enforcement process a session keeps alive.
type Runner interface {
	// Start spawns the process. Calling Start on an already-running
	// runner is an error.
	Start(ctx context.Context) error

	// Alive reports whether the process is currently running.
	Alive() bool

	// Stop terminates the process: SIGTERM first, SIGKILL after the
	// timeout. Stopping a dead runner is a no-op.
	Stop(timeout time.Duration) error
}

// ExecRunner runs the enforcement process via os/exec.
type ExecRunner struct {
	command string
	args    []string
	logger  *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	doneCh chan struct{}
}

// NewExecRunner creates a runner for the given command line.
func NewExecRunner(command string, args []string) *ExecRunner {
	return &ExecRunner{
		command: command,
		args:    args,
		logger:  slog.Default().With("component", "session.runner"),
	}
}

// Start spawns the process and begins reaping it in the background.
func (r *ExecRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil && r.aliveLocked() {
		return &SpawnError{Command: r.command, Cause: errAlreadyRunning}
	}

	cmd := exec.Command(r.command, r.args...)
	if err := cmd.Start(); err != nil {
		return &SpawnError{Command: r.command, Cause: err}
	}

	done := make(chan struct{})
	r.cmd = cmd
	r.doneCh = done

	go func() {
		err := cmd.Wait()
		close(done)
		if err != nil {
			r.logger.Warn("enforcement process exited", "command", r.command, "error", err)
		} else {
			r.logger.Info("enforcement process exited", "command", r.command)
		}
	}()

	r.logger.Info("enforcement process started", "command", r.command, "pid", cmd.Process.Pid)
	return nil
}

// Alive reports whether the process is running.
func (r *ExecRunner) Alive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aliveLocked()
}

func (r *ExecRunner) aliveLocked() bool {
	if r.cmd == nil || r.doneCh == nil {
		return false
	}
	select {
	case <-r.doneCh:
		return false
	default:
		return true
	}
}

// Stop terminates the process, escalating from SIGTERM to SIGKILL after
// the timeout.
func (r *ExecRunner) Stop(timeout time.Duration) error {
	r.mu.Lock()
	cmd, done := r.cmd, r.doneCh
	r.cmd, r.doneCh = nil, nil
	r.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	default:
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		r.logger.Warn("enforcement process ignored SIGTERM, killing", "pid", cmd.Process.Pid)
		if err := cmd.Process.Kill(); err != nil {
			return err
		}
		<-done
		return nil
	}
}
