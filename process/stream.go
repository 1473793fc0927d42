package process

import (
	"context"
	"errors"
	"io"

	apperrors "github.com/sorki/pipes-cliff/errors"
	"github.com/sorki/pipes-cliff/mailbox"
	"github.com/sorki/pipes-cliff/pipeline"
)

// Consumer accepts byte chunks for the child's standard input. It is
// single-pass and intended for one sender; chunks are delivered to the
// child in Send order.
type Consumer struct {
	mb *mailbox.Mailbox[[]byte]
}

// Send delivers one chunk, blocking while the child is behind. Once the
// input pump has stopped — for example when the child exited or closed its
// stdin — Send returns a MAILBOX_SEALED error wrapping mailbox.ErrSealed.
// Its signature matches pipeline sinks:
//
//	pipeline.Drain(chunks, consumer.Send).Run(ctx)
func (c *Consumer) Send(ctx context.Context, chunk []byte) error {
	if err := c.mb.Send(ctx, chunk); err != nil {
		if errors.Is(err, mailbox.ErrSealed) {
			return apperrors.New(apperrors.ErrCodeMailboxSealed, "child input is closed").WithCause(err)
		}
		return err
	}
	return nil
}

// Close marks the input complete. Buffered chunks still reach the child,
// then its stdin closes. Close is idempotent.
func (c *Consumer) Close() error {
	c.mb.Seal()
	return nil
}

// Writer adapts the consumer to io.WriteCloser for use with io.Copy and
// friends. The given context bounds every write.
func (c *Consumer) Writer(ctx context.Context) io.WriteCloser {
	return &consumerWriter{ctx: ctx, c: c}
}

type consumerWriter struct {
	ctx context.Context
	c   *Consumer
}

func (w *consumerWriter) Write(p []byte) (int, error) {
	// Send hands the slice to another goroutine; it must not be reused by
	// the caller, so copy.
	chunk := make([]byte, len(p))
	copy(chunk, p)
	if err := w.c.Send(w.ctx, chunk); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *consumerWriter) Close() error { return w.c.Close() }

// producer exposes the mailbox-facing end of an output pump as a lazy
// pipeline. Single pass: the underlying mailbox has exactly one consumer.
// Closing the iterator seals the mailbox, telling the pump to stop.
func producer(mb *mailbox.Mailbox[[]byte]) *pipeline.Pipeline[[]byte] {
	return pipeline.FromFunc(func(_ context.Context) pipeline.Iterator[[]byte] {
		return &mailboxIter{mb: mb}
	})
}

type mailboxIter struct {
	mb *mailbox.Mailbox[[]byte]
}

func (it *mailboxIter) Next(ctx context.Context) ([]byte, bool, error) {
	return it.mb.Receive(ctx)
}

func (it *mailboxIter) Close() error {
	it.mb.Seal()
	return nil
}
