package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Spawn and specification errors
const (
	// ErrCodeSpawnFailed indicates the child process could not be started.
	ErrCodeSpawnFailed ErrorCode = "SPAWN_FAILED"
	// ErrCodeInvalidSpec indicates the process specification is malformed.
	ErrCodeInvalidSpec ErrorCode = "INVALID_SPEC"
)

// Lifecycle errors
const (
	// ErrCodeScopeClosed indicates the owning resource scope was already torn down.
	ErrCodeScopeClosed ErrorCode = "SCOPE_CLOSED"
	// ErrCodeMailboxSealed indicates the stream handoff was already sealed.
	ErrCodeMailboxSealed ErrorCode = "MAILBOX_SEALED"
	// ErrCodeTerminateFailed indicates the child resisted termination.
	ErrCodeTerminateFailed ErrorCode = "TERMINATE_FAILED"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTerminateFailed: true,
}

// IsRetryableCode reports whether operations failing with code may be retried.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
