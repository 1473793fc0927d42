package process

import (
	"context"
	"os"
	"sync"

	"github.com/sorki/pipes-cliff/config"
	"github.com/sorki/pipes-cliff/fault"
	"github.com/sorki/pipes-cliff/logger"
)

// NonPipe describes how a standard stream not requested as a pipe connects
// to the child: inherited from the parent, or attached to a caller-supplied
// handle. Caller-supplied handles are never owned by the engine — they are
// not closed at teardown.
type NonPipe struct {
	file *os.File
}

// Inherit connects the stream to the parent's corresponding stream.
func Inherit() NonPipe { return NonPipe{} }

// UseHandle connects the stream to the given open handle. The caller keeps
// ownership and closes it.
func UseHandle(f *os.File) NonPipe { return NonPipe{file: f} }

// resolve returns the file to wire, given the parent's own stream.
func (n NonPipe) resolve(parent *os.File) *os.File {
	if n.file != nil {
		return n.file
	}
	return parent
}

// Spec is the full descriptor of a subprocess to launch. It is built once
// and consumed by exactly one spawn call.
type Spec struct {
	// Cmd is the command to run. Required.
	Cmd CmdSpec
	// Dir is the working directory. Empty means the parent's.
	Dir string
	// Env is the environment. Nil means inherit the parent's; an empty
	// non-nil slice means an empty environment.
	Env []string
	// ExtraFiles are descriptors passed to the child beyond the standard
	// three. All other descriptors are closed in the child.
	ExtraFiles []*os.File
	// NewProcessGroup starts the child in its own process group, so
	// signals aimed at the parent's group do not reach it, and Terminate
	// signals the whole tree.
	NewProcessGroup bool
	// DelegateCtrlC makes the parent ignore SIGINT and SIGQUIT while the
	// child runs, leaving terminal interrupts to the child.
	DelegateCtrlC bool
	// Slot, when set, is populated with the Handle shortly after spawn.
	Slot *HandleSlot
	// Handler receives per-stream I/O faults and termination faults for
	// this subprocess. Nil means fault.Default().
	Handler fault.Handler
	// Tunables overrides the engine defaults for this subprocess.
	Tunables *config.Tunables
	// Log, when set, receives debug logging from the engine and pumps.
	Log *logger.Logger
}

func (s Spec) handler() fault.Handler {
	if s.Handler != nil {
		return s.Handler
	}
	return fault.Default()
}

func (s Spec) tunables() config.Tunables {
	if s.Tunables != nil {
		t := *s.Tunables
		t.ApplyDefaults()
		return t
	}
	return config.DefaultTunables()
}

func (s Spec) log() *logger.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logger.Nop()
}

// HandleSlot is an out-slot for the process handle, for callers who need
// to await or signal the child themselves while the stream endpoints are
// consumed elsewhere. It is populated exactly once, shortly after spawn.
type HandleSlot struct {
	once  sync.Once
	ready chan struct{}
	h     *Handle
}

// NewHandleSlot creates an empty slot.
func NewHandleSlot() *HandleSlot {
	return &HandleSlot{ready: make(chan struct{})}
}

// Get blocks until the slot is populated or ctx is done.
func (s *HandleSlot) Get(ctx context.Context) (*Handle, error) {
	select {
	case <-s.ready:
		return s.h, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryGet returns the handle if the slot has been populated.
func (s *HandleSlot) TryGet() (*Handle, bool) {
	select {
	case <-s.ready:
		return s.h, true
	default:
		return nil, false
	}
}

func (s *HandleSlot) put(h *Handle) {
	s.once.Do(func() {
		s.h = h
		close(s.ready)
	})
}
