package process

import (
	"context"
	"fmt"
	"os"

	"github.com/sorki/pipes-cliff/errors"
	"github.com/sorki/pipes-cliff/fault"
	"github.com/sorki/pipes-cliff/mailbox"
	"github.com/sorki/pipes-cliff/pipeline"
	"github.com/sorki/pipes-cliff/scope"
)

// started bundles everything one spawn produced.
type started struct {
	consumer *Consumer
	stdout   *pipeline.Pipeline[[]byte]
	stderr   *pipeline.Pipeline[[]byte]
	handle   *Handle
}

// start spawns the child and wires every requested pipe through a pump and
// mailbox inside the scope. On any registration failure the child is
// reaped and all created handles closed before returning, so a
// concurrently-closing scope cannot leak what was just acquired.
func start(ctx context.Context, s *scope.Scope, spec Spec, stdin, stdout, stderr wire) (*started, error) {
	tun := spec.tunables()
	report := spec.handler()
	log := spec.log().WithComponent("engine")
	cmdStr := spec.Cmd.Render()

	var restoreCtlc func()
	if spec.DelegateCtrlC {
		restoreCtlc = delegateCtrlC()
		if err := s.Defer("restore interrupt handling", func() error {
			restoreCtlc()
			return nil
		}); err != nil {
			restoreCtlc()
			return nil, errors.ScopeClosed(err)
		}
	}

	sp, err := spawn(spec, stdin, stdout, stderr)
	if err != nil {
		return nil, err
	}
	h := sp.handle
	recordSpawn(ctx, spec.Cmd.IsShell())
	ctx, span := startSpan(ctx, cmdStr, h.RunID())

	// Bail out of a partially-wired spawn: close parent pipe ends that no
	// pump owns yet, reap the child, end the span.
	abort := func(cause error) error {
		for _, f := range []*os.File{sp.stdinW, sp.stdoutR, sp.stderrR} {
			if f != nil {
				f.Close()
			}
		}
		h.reap(tun.GracePeriod, report)
		span.End()
		return errors.ScopeClosed(cause)
	}

	// Registered before the per-stream seals so teardown runs seals first,
	// then termination, in reverse order.
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

	out := &started{handle: h}

	if stdin.pipe {
		mb := mailbox.New[[]byte](tun.MailboxCapacity)
		p := newPump(fault.Stdin, cmdStr, report, log)
		if err := s.Defer("seal stdin mailbox", sealAction(mb)); err != nil {
			return nil, abort(err)
		}
		f := sp.stdinW
		sp.stdinW = nil
		if err := s.Go(func() { p.runWriter(ctx, f, mb) }); err != nil {
			f.Close()
			return nil, abort(err)
		}
		out.consumer = &Consumer{mb: mb}
	}

	if stdout.pipe {
		mb := mailbox.New[[]byte](tun.MailboxCapacity)
		p := newPump(fault.Stdout, cmdStr, report, log)
		if err := s.Defer("seal stdout mailbox", sealAction(mb)); err != nil {
			return nil, abort(err)
		}
		f := sp.stdoutR
		sp.stdoutR = nil
		if err := s.Go(func() { p.runReader(ctx, f, mb, tun.ChunkSize) }); err != nil {
			f.Close()
			return nil, abort(err)
		}
		out.stdout = producer(mb)
	}

	if stderr.pipe {
		mb := mailbox.New[[]byte](tun.MailboxCapacity)
		p := newPump(fault.Stderr, cmdStr, report, log)
		if err := s.Defer("seal stderr mailbox", sealAction(mb)); err != nil {
			return nil, abort(err)
		}
		f := sp.stderrR
		sp.stderrR = nil
		if err := s.Go(func() { p.runReader(ctx, f, mb, tun.ChunkSize) }); err != nil {
			f.Close()
			return nil, abort(err)
		}
		out.stderr = producer(mb)
	}

	if spec.Slot != nil {
		spec.Slot.put(h)
	}

	return out, nil
}

func sealAction(mb *mailbox.Mailbox[[]byte]) func() error {
	return func() error {
		mb.Seal()
		return nil
	}
}

// NoPipes spawns the child with all three standard streams connected per
// the given dispositions. The scope still owns termination and reaping.
func NoPipes(ctx context.Context, s *scope.Scope, stdin, stdout, stderr NonPipe, spec Spec) (*Handle, error) {
	st, err := start(ctx, s, spec, asNonPipe(stdin), asNonPipe(stdout), asNonPipe(stderr))
	if err != nil {
		return nil, err
	}
	return st.handle, nil
}

// PipeInput spawns the child with a piped standard input, returning the
// consumer endpoint. Stdout and stderr follow the given dispositions.
func PipeInput(ctx context.Context, s *scope.Scope, stdout, stderr NonPipe, spec Spec) (*Consumer, *Handle, error) {
	st, err := start(ctx, s, spec, asPipe(), asNonPipe(stdout), asNonPipe(stderr))
	if err != nil {
		return nil, nil, err
	}
	return st.consumer, st.handle, nil
}

// PipeOutput spawns the child with a piped standard output, returning the
// producer endpoint. Stdin and stderr follow the given dispositions.
func PipeOutput(ctx context.Context, s *scope.Scope, stdin, stderr NonPipe, spec Spec) (*pipeline.Pipeline[[]byte], *Handle, error) {
	st, err := start(ctx, s, spec, asNonPipe(stdin), asPipe(), asNonPipe(stderr))
	if err != nil {
		return nil, nil, err
	}
	return st.stdout, st.handle, nil
}

// PipeError spawns the child with a piped standard error, returning the
// producer endpoint. Stdin and stdout follow the given dispositions.
func PipeError(ctx context.Context, s *scope.Scope, stdin, stdout NonPipe, spec Spec) (*pipeline.Pipeline[[]byte], *Handle, error) {
	st, err := start(ctx, s, spec, asNonPipe(stdin), asNonPipe(stdout), asPipe())
	if err != nil {
		return nil, nil, err
	}
	return st.stderr, st.handle, nil
}

// PipeInputOutput pipes both standard input and output.
func PipeInputOutput(ctx context.Context, s *scope.Scope, stderr NonPipe, spec Spec) (*Consumer, *pipeline.Pipeline[[]byte], *Handle, error) {
	st, err := start(ctx, s, spec, asPipe(), asPipe(), asNonPipe(stderr))
	if err != nil {
		return nil, nil, nil, err
	}
	return st.consumer, st.stdout, st.handle, nil
}

// PipeInputError pipes both standard input and error.
func PipeInputError(ctx context.Context, s *scope.Scope, stdout NonPipe, spec Spec) (*Consumer, *pipeline.Pipeline[[]byte], *Handle, error) {
	st, err := start(ctx, s, spec, asPipe(), asNonPipe(stdout), asPipe())
	if err != nil {
		return nil, nil, nil, err
	}
	return st.consumer, st.stderr, st.handle, nil
}

// PipeOutputError pipes both standard output and error. The two producers
// are independent; their relative interleaving is whatever the child
// produced, with no cross-stream ordering guarantee.
func PipeOutputError(ctx context.Context, s *scope.Scope, stdin NonPipe, spec Spec) (*pipeline.Pipeline[[]byte], *pipeline.Pipeline[[]byte], *Handle, error) {
	st, err := start(ctx, s, spec, asNonPipe(stdin), asPipe(), asPipe())
	if err != nil {
		return nil, nil, nil, err
	}
	return st.stdout, st.stderr, st.handle, nil
}

// PipeInputOutputError pipes all three standard streams.
func PipeInputOutputError(ctx context.Context, s *scope.Scope, spec Spec) (*Consumer, *pipeline.Pipeline[[]byte], *pipeline.Pipeline[[]byte], *Handle, error) {
	st, err := start(ctx, s, spec, asPipe(), asPipe(), asPipe())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return st.consumer, st.stdout, st.stderr, st.handle, nil
}

// Convey runs a pipeline effect in the background, tied to the scope: the
// scope will not finish closing before the effect returns. The returned
// channel yields the effect's result exactly once.
func Convey(ctx context.Context, s *scope.Scope, r *pipeline.Runnable) (<-chan error, error) {
	result := make(chan error, 1)
	if err := s.Go(func() {
		result <- r.Run(ctx)
	}); err != nil {
		return nil, errors.ScopeClosed(err)
	}
	return result, nil
}
