package pipeline

import (
	"bytes"
	"context"
	"io"
)

// DefaultChunkSize is the read size used by FromReader when none is given.
const DefaultChunkSize = 1024

// FromReader creates a byte-chunk pipeline reading from r in chunks of at
// most chunkSize bytes (DefaultChunkSize if chunkSize <= 0). The pipeline
// ends at io.EOF. If r is an io.Closer, closing the iterator closes it.
func FromReader(r io.Reader, chunkSize int) *Pipeline[[]byte] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pipeline[[]byte]{
		create: func(_ context.Context) Iterator[[]byte] {
			return &readerIter{r: r, size: chunkSize}
		},
	}
}

// ToWriter creates a Runnable that drains every chunk into w.
func ToWriter(p *Pipeline[[]byte], w io.Writer) *Runnable {
	return Drain(p, func(_ context.Context, chunk []byte) error {
		_, err := w.Write(chunk)
		return err
	})
}

// Lines converts a chunk stream into a line stream. Lines are split on
// '\n'; terminators (including a preceding '\r') are removed. A final
// unterminated line is still emitted. Chunk boundaries never split,
// reorder, or duplicate line content.
func Lines(p *Pipeline[[]byte]) *Pipeline[string] {
	return &Pipeline[string]{
		create: func(ctx context.Context) Iterator[string] {
			return &linesIter{source: p.create(ctx)}
		},
	}
}

// Unlines converts a line stream back into chunks, one chunk per line with
// a trailing newline.
func Unlines(p *Pipeline[string]) *Pipeline[[]byte] {
	return Map(p, func(_ context.Context, line string) ([]byte, error) {
		return append([]byte(line), '\n'), nil
	})
}

type readerIter struct {
	r    io.Reader
	size int
	done bool
}

func (it *readerIter) Next(ctx context.Context) ([]byte, bool, error) {
	if it.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	buf := make([]byte, it.size)
	for {
		n, err := it.r.Read(buf)
		if n > 0 {
			return buf[:n], true, nil
		}
		if err == io.EOF {
			it.done = true
			return nil, false, nil
		}
		if err != nil {
			it.done = true
			return nil, false, err
		}
	}
}

func (it *readerIter) Close() error {
	it.done = true
	if c, ok := it.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type linesIter struct {
	source  Iterator[[]byte]
	pending []byte
	eof     bool
}

func (it *linesIter) Next(ctx context.Context) (string, bool, error) {
	for {
		if i := bytes.IndexByte(it.pending, '\n'); i >= 0 {
			line := trimCR(it.pending[:i])
			it.pending = it.pending[i+1:]
			return string(line), true, nil
		}
		if it.eof {
			if len(it.pending) > 0 {
				line := trimCR(it.pending)
				it.pending = nil
				return string(line), true, nil
			}
			return "", false, nil
		}
		chunk, ok, err := it.source.Next(ctx)
		if err != nil {
			return "", false, err
		}
		if !ok {
			it.eof = true
			continue
		}
		it.pending = append(it.pending, chunk...)
	}
}

func (it *linesIter) Close() error { return it.source.Close() }

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}
