package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

// spinnerInterval is the delay between animation frames.
const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line while a pipeline stage runs. It stops when
// Stop is called or when the parent context is done. When stderr is not a
// terminal nothing is drawn, so piped output and logs stay clean.
type spinner struct {
	w       io.Writer
	errw    io.Writer // failure report, written even when w is nil
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	start   sync.Once
	stopped chan struct{}

	mu      sync.Mutex
	message string
	drawn   int // widest line drawn so far, in runes
}

// newSpinner creates a spinner on stderr that is bound to ctx.
func newSpinner(ctx context.Context, message string) *spinner {
	var w io.Writer
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		w = os.Stderr
	}
	return newSpinnerTo(ctx, w, message)
}

// newSpinnerTo creates a spinner that draws on w. A nil w disables drawing.
func newSpinnerTo(ctx context.Context, w io.Writer, message string) *spinner {
	if ctx == nil {
		ctx = context.Background()
	}
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		errw:    os.Stdout,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation. Calling it more than once has no effect.
func (s *spinner) Start() {
	s.start.Do(func() {
		if s.w == nil {
			close(s.stopped)
			return
		}
		go s.run()
	})
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := utf8.RuneCountInString(s.message) + 2; n > s.drawn {
		s.drawn = n
	}
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	}
}

// Stop ends the animation and clears its line. It is safe to call more than
// once and on a spinner that was never started.
func (s *spinner) Stop() {
	s.Start()
	s.cancel()
	<-s.stopped
}

// StopWithError stops the spinner and prints message as an error. Nothing is
// printed when the parent context ended; interrupts are not failures.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	if s.Cancelled() {
		return
	}
	fprintError(s.errw, "%s", message)
}

// Cancelled reports whether the parent context ended, as opposed to Stop.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
