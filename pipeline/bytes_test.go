package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFromReaderChunks(t *testing.T) {
	p := FromReader(strings.NewReader("abcdefgh"), 3)
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	var joined []byte
	for _, chunk := range got {
		if len(chunk) == 0 {
			t.Fatal("zero-length chunk emitted")
		}
		if len(chunk) > 3 {
			t.Fatalf("chunk of %d bytes exceeds read size", len(chunk))
		}
		joined = append(joined, chunk...)
	}
	if string(joined) != "abcdefgh" {
		t.Fatalf("got %q", joined)
	}
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	p := FromReader(strings.NewReader("hello world"), 4)
	if err := ToWriter(p, &buf).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello world" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestLines(t *testing.T) {
	chunks := [][]byte{[]byte("one\ntw"), []byte("o\nthree")}
	got, err := Collect(context.Background(), Lines(FromSlice(chunks)))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"one", "two", "three"}
	if !strSliceEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLinesCRLF(t *testing.T) {
	chunks := [][]byte{[]byte("a\r\nb\r\n")}
	got, err := Collect(context.Background(), Lines(FromSlice(chunks)))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
}

func TestLinesEmptyStream(t *testing.T) {
	got, err := Collect(context.Background(), Lines(FromSlice([][]byte{})))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestLinesSplitAcrossManyChunks(t *testing.T) {
	// One logical line delivered a byte at a time.
	var chunks [][]byte
	for _, b := range []byte("scattered\n") {
		chunks = append(chunks, []byte{b})
	}
	got, err := Collect(context.Background(), Lines(FromSlice(chunks)))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"scattered"}) {
		t.Fatalf("got %v", got)
	}
}

func TestUnlinesRoundTrip(t *testing.T) {
	lines := FromSlice([]string{"x", "y", "z"})
	back, err := Collect(context.Background(), Lines(Unlines(lines)))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(back, []string{"x", "y", "z"}) {
		t.Fatalf("got %v", back)
	}
}
