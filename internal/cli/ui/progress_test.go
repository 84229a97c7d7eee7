package ui

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, SpinnerOptions{Message: "loading", NoColor: true, Interval: time.Millisecond})
	s.Start()
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Success("loaded")
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "loading") {
		t.Errorf("expected spinner frames, got %q", out)
	}
	if !strings.HasSuffix(out, "✓ loaded\n") {
		t.Errorf("expected success line, got %q", out)
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, SpinnerOptions{NoColor: true})
	s.Stop()
	if buf.String() != "" {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWithSpinner(t *testing.T) {
	var buf syncBuffer
	boom := errors.New("boom")
	err := WithSpinner(&buf, "writing", true, func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !strings.Contains(buf.String(), "writing failed") {
		t.Errorf("expected failure line, got %q", buf.String())
	}

	buf = syncBuffer{}
	if err := WithSpinner(&buf, "writing", true, func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "✓ writing") {
		t.Errorf("expected success line, got %q", buf.String())
	}
}
