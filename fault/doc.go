// Package fault carries the circumstances of a subprocess I/O failure to a
// user-supplied handler.
//
// I/O around a child process fails in ways that should degrade the pipeline,
// not crash it: a downstream pager quits and stdin breaks, a handle refuses
// to close, a terminate request races process exit. Each such event is
// captured at the point it happens as a Fault — which stream, which
// activity, which command, and the underlying error — and dispatched
// synchronously to the Handler configured on the process spec. Failures of
// any other nature (notably spawn failures) are never routed here; they
// surface as ordinary errors.
//
// The stock handlers cover the common cases: Default writes a formatted
// warning to standard error, Discard stays silent, Logged emits through a
// structured logger.
package fault
