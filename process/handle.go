package process

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/sorki/pipes-cliff/fault"
	"github.com/sorki/pipes-cliff/logger"
)

// Handle identifies a spawned subprocess. It is owned by the scope that
// spawned it until awaited; scope teardown terminates and reaps the child
// if the caller has not.
type Handle struct {
	cmd    *exec.Cmd
	cmdStr string
	runID  string
	pgroup bool
	log    *logger.Logger

	waitOnce    sync.Once
	done        chan struct{}
	waitFailure error
}

func newHandle(cmd *exec.Cmd, cmdStr, runID string, pgroup bool, log *logger.Logger) *Handle {
	return &Handle{
		cmd:    cmd,
		cmdStr: cmdStr,
		runID:  runID,
		pgroup: pgroup,
		log:    log,
		done:   make(chan struct{}),
	}
}

// PID returns the OS process id.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// Cmd returns the rendered command, for diagnostics.
func (h *Handle) Cmd() string { return h.cmdStr }

// RunID returns the unique id assigned to this spawn.
func (h *Handle) RunID() string { return h.runID }

// Done returns a channel closed once the child has been reaped.
func (h *Handle) Done() <-chan struct{} {
	h.startWait()
	return h.done
}

// Wait blocks until the child exits and returns its exit code. It is
// idempotent: concurrent and repeated calls share one underlying wait. The
// returned error reports wait failures, not non-zero exits — those are in
// the code. A cancelled context abandons the caller's wait; the child is
// still reaped in the background.
func (h *Handle) Wait(ctx context.Context) (int, error) {
	h.startWait()
	select {
	case <-h.done:
		return h.ExitCode(), h.waitFailure
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// ExitCode returns the exit code, or -1 if the child has not been reaped.
func (h *Handle) ExitCode() int {
	if h.cmd.ProcessState == nil {
		return -1
	}
	return h.cmd.ProcessState.ExitCode()
}

// Terminate asks the child to stop with SIGTERM. With NewProcessGroup set
// at spawn, the whole group is signalled.
func (h *Handle) Terminate() error {
	return h.signal(syscall.SIGTERM)
}

// Kill stops the child with SIGKILL.
func (h *Handle) Kill() error {
	return h.signal(syscall.SIGKILL)
}

func (h *Handle) signal(sig syscall.Signal) error {
	if h.pgroup {
		return syscall.Kill(-h.cmd.Process.Pid, sig)
	}
	return h.cmd.Process.Signal(sig)
}

func (h *Handle) startWait() {
	h.waitOnce.Do(func() {
		go func() {
			err := h.cmd.Wait()
			var exitErr *exec.ExitError
			if err != nil && !errors.As(err, &exitErr) {
				h.waitFailure = err
			}
			h.log.Debug("process exited", logger.Fields(
				logger.FieldRunID, h.runID,
				"exit_code", h.cmd.ProcessState.ExitCode(),
			))
			close(h.done)
		}()
	})
}

// reap implements the teardown policy: request termination, escalate to
// SIGKILL after the grace period, and unconditionally await the exit so no
// zombie remains. Failures are routed to report as termination faults.
func (h *Handle) reap(grace time.Duration, report fault.Handler) {
	h.startWait()
	select {
	case <-h.done:
		return
	default:
	}

	if err := h.Terminate(); err != nil && !processGone(err) {
		report(fault.Terminating(h.cmdStr, err))
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-h.done:
	case <-timer.C:
		if err := h.Kill(); err != nil && !processGone(err) {
			report(fault.Terminating(h.cmdStr, err))
		}
		<-h.done
	}

	if h.waitFailure != nil {
		report(fault.Terminating(h.cmdStr, h.waitFailure))
	}
}

// processGone reports errors that only mean the child beat us to exiting.
func processGone(err error) bool {
	return errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH)
}
