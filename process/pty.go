package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"syscall"

	"github.com/creack/pty"
	"github.com/google/uuid"

	apperrors "github.com/sorki/pipes-cliff/errors"
	"github.com/sorki/pipes-cliff/fault"
	"github.com/sorki/pipes-cliff/logger"
	"github.com/sorki/pipes-cliff/mailbox"
	"github.com/sorki/pipes-cliff/pipeline"
	"github.com/sorki/pipes-cliff/scope"
)

// PTY is a subprocess attached to a fresh pseudo-terminal. Input and
// Output ride the same terminal master; a terminal has no separate error
// stream. Unix only.
type PTY struct {
	Input  *Consumer
	Output *pipeline.Pipeline[[]byte]
	Handle *Handle

	master *os.File
}

// Resize changes the terminal dimensions seen by the child.
func (p *PTY) Resize(rows, cols uint16) error {
	return pty.Setsize(p.master, &pty.Winsize{Rows: rows, Cols: cols})
}

// StartPTY spawns the child on a pseudo-terminal of the given size, wired
// through the same scope-owned pump machinery as pipe streams. The pty
// gives the child a controlling terminal and its own session, so
// NewProcessGroup and DelegateCtrlC on the spec are ignored here.
func StartPTY(ctx context.Context, s *scope.Scope, rows, cols uint16, spec Spec) (*PTY, error) {
	if spec.Cmd.IsZero() {
		return nil, apperrors.InvalidSpec("process: no command given")
	}

	tun := spec.tunables()
	report := spec.handler()
	log := spec.log().WithComponent("pty")
	cmdStr := spec.Cmd.Render()

	cmd := spec.Cmd.command()
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.ExtraFiles = spec.ExtraFiles

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		return nil, apperrors.SpawnFailed(cmdStr, err)
	}

	runID := uuid.NewString()
	log.Debug("process started on pty", logger.Fields(
		logger.FieldRunID, runID,
		logger.FieldPID, cmd.Process.Pid,
		logger.FieldCommand, cmdStr,
	))
	h := newHandle(cmd, cmdStr, runID, false, log)
	recordSpawn(ctx, spec.Cmd.IsShell())
	ctx, span := startSpan(ctx, cmdStr, runID)

	ref := &masterRef{f: master}
	ref.remaining.Store(2)

	abort := func(cause error) error {
		master.Close()
		h.reap(tun.GracePeriod, report)
		span.End()
		return apperrors.ScopeClosed(cause)
	}

	if err := s.Defer(fmt.Sprintf("terminate %s", cmdStr), func() error {
		h.reap(tun.GracePeriod, report)
		return nil
	}); err != nil {
		return nil, abort(err)
	}
	if err := s.Go(func() {
		<-h.Done()
		span.End()
	}); err != nil {
		return nil, abort(err)
	}

	inMB := mailbox.New[[]byte](tun.MailboxCapacity)
	outMB := mailbox.New[[]byte](tun.MailboxCapacity)
	if err := s.Defer("seal pty input mailbox", sealAction(inMB)); err != nil {
		return nil, abort(err)
	}
	if err := s.Defer("seal pty output mailbox", sealAction(outMB)); err != nil {
		return nil, abort(err)
	}

	wp := newPump(fault.Stdin, cmdStr, report, log)
	if err := s.Go(func() { wp.runWriter(ctx, &masterWriter{ref}, inMB) }); err != nil {
		return nil, abort(err)
	}
	rp := newPump(fault.Stdout, cmdStr, report, log)
	if err := s.Go(func() { rp.runReader(ctx, &masterReader{ref}, outMB, tun.ChunkSize) }); err != nil {
		inMB.Seal()
		return nil, abort(err)
	}

	if spec.Slot != nil {
		spec.Slot.put(h)
	}

	return &PTY{
		Input:  &Consumer{mb: inMB},
		Output: producer(outMB),
		Handle: h,
		master: master,
	}, nil
}

// masterRef shares one pty master between the two pumps; the descriptor is
// closed when the second pump releases it.
type masterRef struct {
	f         *os.File
	remaining atomic.Int32
}

func (m *masterRef) release() error {
	if m.remaining.Add(-1) == 0 {
		return m.f.Close()
	}
	return nil
}

type masterReader struct{ m *masterRef }

func (r *masterReader) Read(p []byte) (int, error) {
	n, err := r.m.f.Read(p)
	// A pty master reports EIO when the child's side is gone; that is
	// this stream's end-of-file.
	if err != nil && errors.Is(err, syscall.EIO) {
		return n, io.EOF
	}
	return n, err
}

func (r *masterReader) Close() error { return r.m.release() }

type masterWriter struct{ m *masterRef }

func (w *masterWriter) Write(p []byte) (int, error) { return w.m.f.Write(p) }

func (w *masterWriter) Close() error { return w.m.release() }
