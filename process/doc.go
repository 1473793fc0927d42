// Package process launches subprocesses and streams bytes into and out of
// them through composable pipeline endpoints.
//
// Each standard stream of a child can be inherited, attached to a caller
// supplied handle, or piped. Piped streams are serviced by a background
// pump that moves bytes between the OS handle and a bounded mailbox; the
// mailbox-facing end is returned to the caller as an ordinary
// pipeline.Pipeline[[]byte] producer (stdout, stderr) or a Consumer
// (stdin). Backpressure crosses the process boundary naturally: a slow
// reader blocks the pump, the pump stops reading, the child blocks on a
// full pipe.
//
// Everything a spawn acquires — pipe handles, pump goroutines, the child
// itself — is registered in the caller's scope.Scope. Closing the scope
// seals the mailboxes, stops the pumps, terminates the child (SIGTERM,
// then SIGKILL after a grace period) and reaps it, so abandoning a
// pipeline midway leaks neither descriptors nor zombies.
//
// I/O failures during pumping are routed to the fault.Handler on the Spec
// and never crash the pipeline; a broken pipe from a consumer that quit
// early is an expected event, silenced with fault.Discard. Spawn failures
// are different: they return a hard error, since no pipeline exists yet.
//
// # Usage
//
//	s := scope.New()
//	defer s.Close()
//
//	out, _, err := process.PipeOutput(ctx, s, process.Inherit(), process.Inherit(), process.Spec{
//	    Cmd: process.Prog("grep", "pattern", "file.txt"),
//	})
//	if err != nil {
//	    return err
//	}
//	lines, err := pipeline.Collect(ctx, pipeline.Lines(out))
package process
