package process

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sorki/pipes-cliff/fault"
	"github.com/sorki/pipes-cliff/logger"
	"github.com/sorki/pipes-cliff/mailbox"
)

// pumpState tracks one piped stream's lifecycle. Transitions are driven
// only by end-of-data, an I/O error, or owning-scope teardown.
type pumpState int32

const (
	pumpCreated pumpState = iota
	pumpPiping
	pumpDraining
	pumpClosed
)

func (s pumpState) String() string {
	switch s {
	case pumpCreated:
		return "created"
	case pumpPiping:
		return "piping"
	case pumpDraining:
		return "draining"
	case pumpClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// pump is a background worker moving bytes between one OS handle and one
// mailbox. The handle is owned by the pump for its entire life: no other
// goroutine touches it, and the pump closes it exactly once on the way out.
type pump struct {
	role   fault.Role
	cmdStr string
	report fault.Handler
	log    *logger.Logger
	state  atomic.Int32
}

func newPump(role fault.Role, cmdStr string, report fault.Handler, log *logger.Logger) *pump {
	return &pump{role: role, cmdStr: cmdStr, report: report, log: log}
}

func (p *pump) to(s pumpState) {
	p.state.Store(int32(s))
	p.log.Trace("pump state", logger.Fields(
		logger.FieldStream, p.role.String(),
		"state", s.String(),
	))
}

// runReader moves bytes from the OS handle into the mailbox: the child's
// stdout or stderr. A zero-length read means end-of-stream; read failures
// are reported and stop the pump; a sealed mailbox means the consumer is
// no longer interested and stops the pump without a fault.
func (p *pump) runReader(ctx context.Context, f io.ReadCloser, mb *mailbox.Mailbox[[]byte], chunkSize int) {
	defer p.finish(f, mb)
	p.to(pumpPiping)
	for {
		buf := make([]byte, chunkSize)
		n, err := f.Read(buf)
		if n > 0 {
			recordBytes(ctx, p.role, n)
			if serr := mb.Send(ctx, buf[:n]); serr != nil {
				p.to(pumpDraining)
				return
			}
		}
		if err != nil {
			p.to(pumpDraining)
			if err != io.EOF {
				p.report(fault.New(fault.Reading, p.role, p.cmdStr, err))
			}
			return
		}
	}
}

// runWriter drains the mailbox into the OS handle: the child's stdin.
// End-of-stream stops the pump; write failures (broken pipe included) are
// reported and stop the pump without propagating into the producer's
// control flow.
func (p *pump) runWriter(ctx context.Context, f io.WriteCloser, mb *mailbox.Mailbox[[]byte]) {
	defer p.finish(f, mb)
	p.to(pumpPiping)
	for {
		chunk, ok, err := mb.Receive(ctx)
		if err != nil || !ok {
			p.to(pumpDraining)
			return
		}
		if _, werr := f.Write(chunk); werr != nil {
			p.to(pumpDraining)
			p.report(fault.New(fault.Writing, p.role, p.cmdStr, werr))
			return
		}
		recordBytes(ctx, p.role, len(chunk))
	}
}

// finish runs whatever way the pump stopped: seal the mailbox so the other
// side sees end-of-stream, and close the owned OS handle. A close failure
// is reported, not raised.
func (p *pump) finish(f io.Closer, mb *mailbox.Mailbox[[]byte]) {
	mb.Seal()
	if err := f.Close(); err != nil {
		p.report(fault.New(fault.Closing, p.role, p.cmdStr, err))
	}
	p.to(pumpClosed)
}
