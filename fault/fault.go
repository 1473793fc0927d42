package fault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sorki/pipes-cliff/logger"
)

// Activity is what the worker was doing when the fault occurred.
type Activity int

const (
	Reading Activity = iota + 1
	Writing
	Closing
)

// String returns the activity as it appears in diagnostics.
func (a Activity) String() string {
	switch a {
	case Reading:
		return "reading"
	case Writing:
		return "writing"
	case Closing:
		return "closing"
	default:
		return fmt.Sprintf("activity(%d)", int(a))
	}
}

// Role identifies which standard stream was involved.
type Role int

const (
	Stdin Role = iota + 1
	Stdout
	Stderr
)

// String returns the stream name as it appears in diagnostics.
func (r Role) String() string {
	switch r {
	case Stdin:
		return "input"
	case Stdout:
		return "output"
	case Stderr:
		return "error"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Fault records one I/O failure around a subprocess. A zero Activity and
// Role mean the failure happened while terminating the process itself
// rather than on a particular stream.
type Fault struct {
	Activity Activity
	Role     Role
	Cmd      string
	Err      error
}

// New builds a Fault for a stream operation.
func New(activity Activity, role Role, cmd string, err error) Fault {
	return Fault{Activity: activity, Role: role, Cmd: cmd, Err: err}
}

// Terminating builds a Fault for a failure while stopping the process.
func Terminating(cmd string, err error) Fault {
	return Fault{Cmd: cmd, Err: err}
}

// WhileTerminating reports whether the fault has no stream attached.
func (f Fault) WhileTerminating() bool {
	return f.Activity == 0 && f.Role == 0
}

// String renders the diagnostic line, without the program-name prefix.
func (f Fault) String() string {
	if f.WhileTerminating() {
		return fmt.Sprintf("warning: when running command %s: when terminating process: %v", f.Cmd, f.Err)
	}
	return fmt.Sprintf("warning: when running command %s: when %s standard %s: %v",
		f.Cmd, f.Activity, f.Role, f.Err)
}

// Handler consumes a Fault. Handlers run synchronously on the worker that
// detected the failure, so they must not block indefinitely.
type Handler func(Fault)

// Discard drops every fault.
func Discard(Fault) {}

// Writer returns a handler that writes formatted diagnostics to w, one line
// per fault, prefixed with the program name.
func Writer(w io.Writer) Handler {
	prog := filepath.Base(os.Args[0])
	return func(f Fault) {
		fmt.Fprintf(w, "%s: %s\n", prog, f)
	}
}

// Default returns the stock handler: formatted warnings on standard error.
func Default() Handler {
	return Writer(os.Stderr)
}

// Logged returns a handler that emits faults through log at warn level.
func Logged(log *logger.Logger) Handler {
	return func(f Fault) {
		fields := logger.Fields("command", f.Cmd)
		if !f.WhileTerminating() {
			fields["activity"] = f.Activity.String()
			fields["stream"] = f.Role.String()
		}
		log.WithError(f.Err).Warn("subprocess I/O fault", fields)
	}
}

// Serialized wraps h so concurrent workers cannot interleave inside it.
// Useful when several pumps share one handler writing to a common stream.
func Serialized(h Handler) Handler {
	var mu sync.Mutex
	return func(f Fault) {
		mu.Lock()
		defer mu.Unlock()
		h(f)
	}
}

// Tee dispatches each fault to every handler in order.
func Tee(handlers ...Handler) Handler {
	return func(f Fault) {
		for _, h := range handlers {
			h(f)
		}
	}
}
