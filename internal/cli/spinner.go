package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/potentials/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line while a render runs. It is registered as
// the compile hooks for the duration of the command, so each pdflatex run
// replaces the message and leaves a result line behind when it finishes.
type Spinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	width   int // printed width of the current status line
}

var _ observability.CompileHooks = (*Spinner)(nil)

// newSpinner creates a spinner writing to w. It stops on its own when ctx
// is cancelled.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop ends the animation and clears the status line. It is safe to call
// more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		s.clearLocked()
		s.mu.Unlock()
	})
}

// OnCompileStart switches the message to the document being compiled.
func (s *Spinner) OnCompileStart(_ context.Context, name string) {
	s.mu.Lock()
	s.message = fmt.Sprintf("Compiling %s.pdf...", name)
	s.mu.Unlock()
}

// OnCompileComplete prints the outcome of a pdflatex run above the status
// line.
func (s *Spinner) OnCompileComplete(_ context.Context, name string, size int, d time.Duration, err error) {
	line := styleIconSuccess.Render(iconSuccess) + " " +
		fmt.Sprintf("Compiled %s.pdf ", name) + StyleDim.Render(fmt.Sprintf("(%s in %s)", formatSize(size), d.Round(time.Millisecond)))
	if err != nil {
		line = styleIconFailure.Render(iconFailure) + " " + fmt.Sprintf("%s.pdf failed", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	fmt.Fprintln(s.w, line)
	s.message = "Writing artifacts..."
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	s.clearLocked()
	fmt.Fprint(s.w, line)
	s.width = lipgloss.Width(line)
}

func (s *Spinner) clearLocked() {
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

// formatSize renders a byte count as B, KB or MB.
func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
