package process_test

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/sorki/pipes-cliff/errors"
	"github.com/sorki/pipes-cliff/fault"
	"github.com/sorki/pipes-cliff/pipeline"
	"github.com/sorki/pipes-cliff/process"
	"github.com/sorki/pipes-cliff/scope"
)

func TestStartPTY(t *testing.T) {
	s := scope.New()
	defer s.Close()
	ctx := context.Background()

	p, err := process.StartPTY(ctx, s, 24, 80, process.Spec{
		Cmd:      process.Prog("echo", "terminal"),
		Handler:  fault.Discard,
		Tunables: quickTunables(),
	})
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}

	chunks, err := pipeline.Collect(ctx, p.Output)
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	for _, c := range chunks {
		out.Write(c)
	}
	// The terminal line discipline turns \n into \r\n.
	if got := out.String(); !strings.Contains(got, "terminal") {
		t.Fatalf("pty output = %q", got)
	}

	if code, werr := p.Handle.Wait(ctx); werr != nil || code != 0 {
		t.Fatalf("wait = (%d, %v)", code, werr)
	}
}

func TestStartPTYInteractive(t *testing.T) {
	s := scope.New()
	defer s.Close()
	ctx := context.Background()

	p, err := process.StartPTY(ctx, s, 24, 80, process.Spec{
		Cmd:      process.Prog("cat"),
		Handler:  fault.Discard,
		Tunables: quickTunables(),
	})
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}

	if err := p.Input.Send(ctx, []byte("ping\n")); err != nil {
		t.Fatal(err)
	}

	// cat echoes the line back; the terminal also echoes what we typed,
	// so just wait until the reply shows up.
	var out strings.Builder
	iter := p.Output.Iter(ctx)
	defer iter.Close()
	for !strings.Contains(out.String(), "ping") {
		chunk, ok, nerr := iter.Next(ctx)
		if nerr != nil {
			t.Fatal(nerr)
		}
		if !ok {
			t.Fatalf("pty closed before echo, got %q", out.String())
		}
		out.Write(chunk)
	}
}

func TestStartPTYEmptyCommand(t *testing.T) {
	s := scope.New()
	defer s.Close()

	_, err := process.StartPTY(context.Background(), s, 24, 80, process.Spec{})
	if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidSpec {
		t.Fatalf("got %v, want INVALID_SPEC", err)
	}
}
