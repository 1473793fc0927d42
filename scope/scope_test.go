package scope

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCloseReverseOrder(t *testing.T) {
	s := New()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		if err := s.Defer(name, func() error {
			order = append(order, name)
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "b", "a"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got order %v, want %v", order, want)
		}
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := New()
	count := 0
	_ = s.Defer("counter", func() error {
		count++
		return nil
	})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("release ran %d times, want 1", count)
	}
}

func TestDeferAfterClose(t *testing.T) {
	s := New()
	_ = s.Close()
	err := s.Defer("late", func() error { return nil })
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}

func TestCloseContinuesPastFailure(t *testing.T) {
	s := New()
	ran := false
	_ = s.Defer("first", func() error {
		ran = true
		return nil
	})
	_ = s.Defer("second", func() error { return errors.New("boom") })
	err := s.Close()
	if err == nil {
		t.Fatal("expected error from failing release")
	}
	if !ran {
		t.Fatal("release after the failing one did not run")
	}
}

func TestErrorSink(t *testing.T) {
	var gotName string
	var gotErr error
	s := New(WithErrorSink(func(name string, err error) {
		gotName, gotErr = name, err
	}))
	boom := errors.New("boom")
	_ = s.Defer("leaky", func() error { return boom })
	if err := s.Close(); err != nil {
		t.Fatalf("with a sink installed Close should return nil, got %v", err)
	}
	if gotName != "leaky" || !errors.Is(gotErr, boom) {
		t.Fatalf("sink got (%q, %v)", gotName, gotErr)
	}
}

func TestAcquire(t *testing.T) {
	s := New()
	released := false
	v, err := Acquire(s, "thing", func() (int, error) {
		return 42, nil
	}, func(int) error {
		released = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
	_ = s.Close()
	if !released {
		t.Fatal("resource not released at Close")
	}
}

func TestAcquireOnClosedScope(t *testing.T) {
	s := New()
	_ = s.Close()
	released := false
	_, err := Acquire(s, "thing", func() (int, error) {
		t.Fatal("acquire ran on a closed scope")
		return 0, nil
	}, func(int) error {
		released = true
		return nil
	})
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
	if released {
		t.Fatal("nothing was acquired, nothing should be released")
	}
}

func TestGoWaitedAtClose(t *testing.T) {
	s := New()
	stop := make(chan struct{})
	done := make(chan struct{})
	_ = s.Defer("stop worker", func() error {
		close(stop)
		return nil
	})
	if err := s.Go(func() {
		<-stop
		close(done)
	}); err != nil {
		t.Fatal(err)
	}
	closed := make(chan struct{})
	go func() {
		_ = s.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not finish; worker not unblocked by release actions")
	}
	select {
	case <-done:
	default:
		t.Fatal("Close returned before worker finished")
	}
}

func TestGoAfterClose(t *testing.T) {
	s := New()
	_ = s.Close()
	err := s.Go(func() {
		t.Error("worker ran on a closed scope")
	})
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}

func TestConcurrentDefer(t *testing.T) {
	s := New()
	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Defer("n", func() error {
				mu.Lock()
				count++
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	_ = s.Close()
	if count != 50 {
		t.Fatalf("ran %d releases, want 50", count)
	}
}
