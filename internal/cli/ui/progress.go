package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Spinner animates a message while an operation of unknown length runs
type Spinner struct {
	writer   io.Writer
	message  string
	interval time.Duration
	noColor  bool

	mu       sync.Mutex
	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

// SpinnerOptions configures spinner behavior
type SpinnerOptions struct {
	Message  string
	NoColor  bool
	Interval time.Duration
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner
func NewSpinner(w io.Writer, opts SpinnerOptions) *Spinner {
	interval := opts.Interval
	if interval == 0 {
		interval = 100 * time.Millisecond
	}
	return &Spinner{
		writer:   w,
		message:  opts.Message,
		interval: interval,
		noColor:  opts.NoColor,
		done:     make(chan struct{}),
	}
}

// Start begins the animation
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.animate()
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.started {
			fmt.Fprint(s.writer, "\r\033[K")
		}
	})
}

// Success stops the spinner and prints a success line
func (s *Spinner) Success(message string) {
	s.Stop()
	WriteSuccess(s.writer, message, s.noColor)
}

// Fail stops the spinner and prints a failure line
func (s *Spinner) Fail(message string) {
	s.Stop()
	WriteError(s.writer, ErrorOptions{Problem: message, NoColor: s.noColor})
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	cyan := newColor(s.noColor, color.FgCyan)
	for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			select {
			case <-s.done:
				s.mu.Unlock()
				return
			default:
			}
			cyan.Fprintf(s.writer, "\r%s %s", spinnerFrames[frame], s.message)
			s.mu.Unlock()
		}
	}
}

// WithSpinner runs fn while a spinner shows message
func WithSpinner(w io.Writer, message string, noColor bool, fn func() error) error {
	s := NewSpinner(w, SpinnerOptions{Message: message, NoColor: noColor})
	s.Start()
	if err := fn(); err != nil {
		s.Fail(message + " failed")
		return err
	}
	s.Success(message)
	return nil
}
