package process

import (
	"os"
	"syscall"

	"github.com/google/uuid"

	"github.com/sorki/pipes-cliff/errors"
	"github.com/sorki/pipes-cliff/logger"
)

// wire is the resolved disposition for one standard stream: either an
// engine-owned pipe or a caller-controlled NonPipe.
type wire struct {
	pipe    bool
	nonPipe NonPipe
}

func asPipe() wire            { return wire{pipe: true} }
func asNonPipe(n NonPipe) wire { return wire{nonPipe: n} }

// spawned is what the spawn primitive yields: the process handle plus the
// parent-side end of every pipe that was requested.
type spawned struct {
	handle  *Handle
	stdinW  *os.File // parent writes the child's stdin
	stdoutR *os.File // parent reads the child's stdout
	stderrR *os.File // parent reads the child's stderr
}

// spawn invokes the OS process-spawn primitive. Failures here are hard
// errors for the caller; nothing is routed through fault handlers because
// no pipeline exists yet. On failure every descriptor created along the
// way is closed before returning.
func spawn(spec Spec, stdin, stdout, stderr wire) (*spawned, error) {
	if spec.Cmd.IsZero() {
		return nil, errors.InvalidSpec("process: no command given")
	}

	cmd := spec.Cmd.command()
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.ExtraFiles = spec.ExtraFiles
	if spec.NewProcessGroup {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	sp := &spawned{}
	var childEnds []*os.File
	closeAll := func(files ...*os.File) {
		for _, f := range files {
			if f != nil {
				f.Close()
			}
		}
	}

	if stdin.pipe {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, errors.SpawnFailed(spec.Cmd.Render(), err)
		}
		cmd.Stdin = r
		childEnds = append(childEnds, r)
		sp.stdinW = w
	} else {
		cmd.Stdin = stdin.nonPipe.resolve(os.Stdin)
	}

	if stdout.pipe {
		r, w, err := os.Pipe()
		if err != nil {
			closeAll(sp.stdinW)
			closeAll(childEnds...)
			return nil, errors.SpawnFailed(spec.Cmd.Render(), err)
		}
		cmd.Stdout = w
		childEnds = append(childEnds, w)
		sp.stdoutR = r
	} else {
		cmd.Stdout = stdout.nonPipe.resolve(os.Stdout)
	}

	if stderr.pipe {
		r, w, err := os.Pipe()
		if err != nil {
			closeAll(sp.stdinW, sp.stdoutR)
			closeAll(childEnds...)
			return nil, errors.SpawnFailed(spec.Cmd.Render(), err)
		}
		cmd.Stderr = w
		childEnds = append(childEnds, w)
		sp.stderrR = r
	} else {
		cmd.Stderr = stderr.nonPipe.resolve(os.Stderr)
	}

	if err := cmd.Start(); err != nil {
		closeAll(sp.stdinW, sp.stdoutR, sp.stderrR)
		closeAll(childEnds...)
		return nil, errors.SpawnFailed(spec.Cmd.Render(), err)
	}

	// The child holds its own copies now.
	closeAll(childEnds...)

	runID := uuid.NewString()
	log := spec.log().WithComponent("process")
	log.Debug("process started", logger.Fields(
		logger.FieldRunID, runID,
		logger.FieldPID, cmd.Process.Pid,
		logger.FieldCommand, spec.Cmd.Render(),
	))

	sp.handle = newHandle(cmd, spec.Cmd.Render(), runID, spec.NewProcessGroup, log)
	return sp, nil
}
