package process

import (
	"os/signal"
	"sync"
	"syscall"
)

// Ctrl-C delegation is process-wide state in the parent, so it is
// refcounted: the first delegating child turns interrupt handling off,
// the last one restores it.
var (
	ctlcMu    sync.Mutex
	ctlcCount int
)

// delegateCtrlC makes the parent ignore SIGINT and SIGQUIT until the
// returned release runs. Release is idempotent.
func delegateCtrlC() (release func()) {
	ctlcMu.Lock()
	ctlcCount++
	if ctlcCount == 1 {
		signal.Ignore(syscall.SIGINT, syscall.SIGQUIT)
	}
	ctlcMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			ctlcMu.Lock()
			ctlcCount--
			if ctlcCount == 0 {
				signal.Reset(syscall.SIGINT, syscall.SIGQUIT)
			}
			ctlcMu.Unlock()
		})
	}
}
