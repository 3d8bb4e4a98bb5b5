package console

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner wraps the terminal spinner with TTY detection; it is a no-op when
// stdout is not a terminal.
type Spinner struct {
	spinner *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner with the given message. The spinner is
// disabled automatically when not running in a TTY.
func NewSpinner(message string) *Spinner {
	enabled := isatty.IsTerminal(1)

	s := &Spinner{enabled: enabled}
	if enabled {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.spinner.Suffix = " " + message
		_ = s.spinner.Color("cyan")
	}
	return s
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if s.enabled && s.spinner != nil {
		s.spinner.Start()
	}
}

// Stop stops the spinner animation.
func (s *Spinner) Stop() {
	if s.enabled && s.spinner != nil {
		s.spinner.Stop()
	}
}

// UpdateMessage updates the spinner message.
func (s *Spinner) UpdateMessage(message string) {
	if s.enabled && s.spinner != nil {
		s.spinner.Suffix = " " + message
	}
}

// IsEnabled reports whether the spinner animates (that is, stdout is a TTY).
func (s *Spinner) IsEnabled() bool {
	return s.enabled
}
