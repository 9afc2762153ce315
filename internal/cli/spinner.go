package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerOut receives spinner frames; stderr keeps piped stdout clean.
var spinnerOut io.Writer = os.Stderr

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerTick = 80 * time.Millisecond

// Spinner animates a status line with the elapsed time while a conversion
// runs. It stops by itself when the parent context ends.
type Spinner struct {
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc

	wg    sync.WaitGroup
	once  sync.Once
	width int // widest frame written, for clearing
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{message: message, parent: ctx, ctx: sctx, cancel: cancel}
}

func (s *Spinner) Start() {
	start := time.Now()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				fmt.Fprintf(spinnerOut, "\r%s\r", strings.Repeat(" ", s.width))
				return
			case <-ticker.C:
				s.frame(spinnerFrames[i%len(spinnerFrames)], time.Since(start))
			}
		}
	}()
}

func (s *Spinner) frame(r rune, elapsed time.Duration) {
	secs := fmt.Sprintf("%.1fs", elapsed.Seconds())
	fmt.Fprintf(spinnerOut, "\r%s %s %s", styleIconSpinner.Render(string(r)), StyleDim.Render(s.message), StyleDim.Render(secs))
	s.width = max(s.width, len([]rune(s.message))+len(secs)+4)
}

// Stop ends the animation and clears the line. Repeated calls are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}

// StopWithError stops the spinner and prints message as an error.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context, not Stop, ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
