package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFromSlice_Collect(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	p := FromSlice([]int{})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestMap(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	doubled := Map(p, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})
	got, err := Collect(context.Background(), doubled)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 4, 6}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMap_Error(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	fail := Map(p, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("bad value")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), fail)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestFilter(t *testing.T) {
	p := FromSlice([]int{1, 2, 3, 4, 5})
	evens := Filter(p, func(n int) bool { return n%2 == 0 })
	got, err := Collect(context.Background(), evens)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{2, 4}) {
		t.Errorf("got %v, want [2 4]", got)
	}
}

func TestTap(t *testing.T) {
	var seen []int
	p := FromSlice([]int{1, 2, 3})
	tapped := Tap(p, func(_ context.Context, n int) error {
		seen = append(seen, n)
		return nil
	})
	got, err := Collect(context.Background(), tapped)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) || !intSliceEqual(seen, []int{1, 2, 3}) {
		t.Errorf("got %v, seen %v", got, seen)
	}
}

func TestReduce(t *testing.T) {
	p := FromSlice([]int{1, 2, 3, 4})
	sum := Reduce(p, 0, func(acc, n int) int { return acc + n })
	got, err := Collect(context.Background(), sum)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 10 {
		t.Errorf("got %v, want [10]", got)
	}
}

func TestConcat(t *testing.T) {
	a := FromSlice([]int{1, 2})
	b := FromSlice([]int{3})
	got, err := Collect(context.Background(), Concat(a, b))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
}

func TestFlatMap(t *testing.T) {
	p := FromSlice([]int{1, 2})
	expanded := FlatMap(p, func(_ context.Context, n int) (Iterator[int], error) {
		return FromSlice([]int{n, n * 10}).Iter(context.Background()), nil
	})
	got, err := Collect(context.Background(), expanded)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 10, 2, 20}) {
		t.Errorf("got %v", got)
	}
}

func TestGenerateTake(t *testing.T) {
	nums := Generate(func(i int) string { return fmt.Sprintf("%d", i) })
	first := Take(nums, 5)
	got, err := Collect(context.Background(), first)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0", "1", "2", "3", "4"}
	if !strSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTakeClosesUpstream(t *testing.T) {
	closed := false
	src := &closeTracker{inner: FromSlice([]int{1, 2, 3, 4}).Iter(context.Background()), onClose: func() { closed = true }}
	got, err := Collect(context.Background(), Take(From[int](src), 2))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2}) {
		t.Errorf("got %v", got)
	}
	if !closed {
		t.Error("upstream not closed once the limit was reached")
	}
}

func TestTakeShortSource(t *testing.T) {
	got, err := Collect(context.Background(), Take(FromSlice([]int{1, 2}), 10))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2}) {
		t.Errorf("got %v", got)
	}
}

func TestBuffer(t *testing.T) {
	p := FromSlice([]int{1, 2, 3, 4, 5})
	got, err := Collect(context.Background(), Buffer(p, 2))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("got %v", got)
	}
}

type closeTracker struct {
	inner   Iterator[int]
	onClose func()
}

func (c *closeTracker) Next(ctx context.Context) (int, bool, error) { return c.inner.Next(ctx) }

func (c *closeTracker) Close() error {
	c.onClose()
	return c.inner.Close()
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func strSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
