package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/potentials/pkg/observability"
)

// lockedBuffer is a bytes.Buffer safe for the spinner goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, buf *lockedBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%q", want, buf.String())
}

func TestSpinnerCompileHooks(t *testing.T) {
	var buf lockedBuffer
	s := newSpinner(context.Background(), &buf, "Solving...")
	s.Start()
	defer s.Stop()

	waitFor(t, &buf, "Solving...")

	s.OnCompileStart(context.Background(), "classic")
	waitFor(t, &buf, "Compiling classic.pdf...")

	s.OnCompileComplete(context.Background(), "classic", 2048, 1500*time.Millisecond, nil)
	waitFor(t, &buf, "Compiled classic.pdf")
	waitFor(t, &buf, "(2.0 KB in 1.5s)")
}

func TestSpinnerCompileFailure(t *testing.T) {
	var buf lockedBuffer
	s := newSpinner(context.Background(), &buf, "Solving...")

	s.OnCompileStart(context.Background(), "broken")
	s.OnCompileComplete(context.Background(), "broken", 0, time.Second, errors.New("pdflatex failed"))

	out := buf.String()
	if !strings.Contains(out, "broken.pdf failed") {
		t.Errorf("missing failure line: %q", out)
	}
	if strings.Contains(out, "Compiled") {
		t.Errorf("failed compile reported as success: %q", out)
	}
}

func TestSpinnerRegisteredAsCompileHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf lockedBuffer
	s := newSpinner(context.Background(), &buf, "Solving...")
	observability.SetCompileHooks(s)

	observability.Compile().OnCompileComplete(context.Background(), "report", 100, time.Millisecond, nil)
	if !strings.Contains(buf.String(), "Compiled report.pdf") {
		t.Errorf("hooks did not reach the spinner: %q", buf.String())
	}
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	var buf lockedBuffer
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &buf, "Solving...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf lockedBuffer
	s := newSpinner(context.Background(), &buf, "Solving...")
	s.Start()
	waitFor(t, &buf, "Solving...")

	s.Stop()
	s.Stop()

	out := buf.String()
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("status line not cleared after stop: %q", out)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
