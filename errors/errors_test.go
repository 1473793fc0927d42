package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidSpec, "no command given")
	if got := err.Error(); got != "INVALID_SPEC: no command given" {
		t.Fatalf("got %q", got)
	}
}

func TestErrorStringWithCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := SpawnFailed("./tool", cause)
	if !strings.Contains(err.Error(), "SPAWN_FAILED") || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("got %q", err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := TerminateFailed("sleep 100", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("errors.Is should reach the cause")
	}
}

func TestCodeOf(t *testing.T) {
	err := SpawnFailed("cat", stderrors.New("enoent"))
	if CodeOf(err) != ErrCodeSpawnFailed {
		t.Fatalf("got %q", CodeOf(err))
	}
	wrapped := stderrors.Join(stderrors.New("outer"), err)
	if CodeOf(wrapped) != ErrCodeSpawnFailed {
		t.Fatalf("got %q through wrapping", CodeOf(wrapped))
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Fatal("plain error should have empty code")
	}
}

func TestRetryable(t *testing.T) {
	if New(ErrCodeSpawnFailed, "x").Retryable {
		t.Fatal("spawn failures are not retryable")
	}
	if !New(ErrCodeTerminateFailed, "x").Retryable {
		t.Fatal("terminate failures are retryable")
	}
}

func TestWithDetail(t *testing.T) {
	err := InvalidSpec("empty command").WithDetail("field", "cmd")
	if err.Details["field"] != "cmd" {
		t.Fatalf("got %v", err.Details)
	}
}
