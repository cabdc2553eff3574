package logbuf

import (
	"bytes"
	"testing"
)

func TestAcquireWriteReleaseDrain(t *testing.T) {
	reset()
	defer reset()

	frame := Acquire()
	frame.Write([]byte("hello"))
	frame.Release()

	var buf bytes.Buffer
	if err := Drain(&buf); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if buf.String() != "hello" {
		t.Fatalf("Drain wrote %q, want %q", buf.String(), "hello")
	}
}

func TestAcquireReentrantPanics(t *testing.T) {
	reset()
	defer reset()

	defer func() {
		if recover() == nil {
			t.Fatal("expected reentrant Acquire to panic")
		}
	}()

	Acquire()
	Acquire() // must panic: already taken
}

func TestWriteAfterReleasePanics(t *testing.T) {
	reset()
	defer reset()

	frame := Acquire()
	frame.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("expected write-after-release to panic")
		}
	}()
	frame.Write([]byte("late"))
}

func TestPrintfGoesThroughRing(t *testing.T) {
	reset()
	defer reset()

	Printf("count=%d", 3)

	var buf bytes.Buffer
	if err := Drain(&buf); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if buf.String() != "count=3" {
		t.Fatalf("Drain wrote %q, want %q", buf.String(), "count=3")
	}
}

func TestDrainFlushesOnEmptyFullPacket(t *testing.T) {
	reset()
	defer reset()

	frame := Acquire()
	frame.Write(bytes.Repeat([]byte{'x'}, MTU))
	frame.Release()

	var buf bytes.Buffer
	var writes int
	cw := countingWriter{w: &buf, count: &writes}
	if err := Drain(&cw); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if writes != 2 {
		t.Fatalf("expected data write + zero-length flush write, got %d writes", writes)
	}
}

type countingWriter struct {
	w     *bytes.Buffer
	count *int
}

func (c countingWriter) Write(p []byte) (int, error) {
	*c.count++
	return c.w.Write(p)
}
