// Package pipeline provides composable, pull-based streams.
//
// Pipelines are lazy — no work happens until values are pulled via Collect,
// Drain, or ForEach. Each stage pulls from the previous stage on demand,
// providing natural backpressure without explicit flow control. A pipeline
// is single-pass: iterate it once, through one consumer.
//
// Subprocess standard output and error are exposed as Pipeline[[]byte]
// values, so external commands compose with in-process stages exactly like
// any other source.
//
// # Operators
//
//   - Map: transform each value
//   - FlatMap: transform each value into multiple values
//   - Filter: keep values matching a predicate
//   - Tap: side-effect without altering the value
//   - Take: stop after n values, closing the upstream
//   - Reduce: accumulate all values into one result
//   - Concat: join pipelines sequentially
//   - Buffer: decouple producer/consumer with a buffered channel
//
// Byte-stream helpers:
//
//   - Lines: chunk stream to line stream (newline-split, terminators removed)
//   - Unlines: line stream back to chunks with trailing newlines
//   - FromReader / ToWriter: bridge io.Reader and io.Writer
//
// # Usage
//
//	out, handle, err := process.PipeOutput(ctx, s, process.Inherit(), process.Inherit(), spec)
//	lines := pipeline.Lines(out)
//	first := pipeline.Take(lines, 300)
//	got, err := pipeline.Collect(ctx, first)
package pipeline
