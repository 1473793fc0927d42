// Package mailbox provides a bounded, sealable handoff channel between one
// producer and one consumer.
//
// A Mailbox holds at most a fixed number of in-flight values (one by
// default), giving natural backpressure: a producer that outruns its
// consumer blocks instead of buffering without bound. Either side may Seal
// the mailbox; sealing is idempotent and is the only cross-goroutine
// shutdown signal — a sealed mailbox refuses further sends, and a receiver
// drains whatever was already buffered before seeing end-of-stream.
package mailbox
