package ui

import (
	"io"
	"sync"
)

// IndicatorState is the visible state of a StatusIndicator
type IndicatorState int

const (
	StateIdle IndicatorState = iota
	StateLoading
	StateSuccess
	StateFailure
)

func (s IndicatorState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "idle"
	}
}

// StatusIndicator reports the progress of one generation. It is created per
// command and disposed when the command ends; updates after Dispose are ignored.
type StatusIndicator struct {
	mu       sync.Mutex
	printer  *StreamPrinter
	state    IndicatorState
	disposed bool
}

// NewStatusIndicator creates an indicator writing to w
func NewStatusIndicator(w io.Writer, opts ...StreamPrinterOption) *StatusIndicator {
	return &StatusIndicator{printer: NewStreamPrinter(w, opts...)}
}

// Update moves the indicator to state and prints message for it
func (s *StatusIndicator) Update(state IndicatorState, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.state = state

	if message == "" {
		return
	}
	switch state {
	case StateLoading:
		_ = s.printer.PrintProgress(message)
	case StateSuccess:
		_ = s.printer.PrintSuccess(message)
	case StateFailure:
		_ = s.printer.PrintError(message)
	default:
		_ = s.printer.PrintInfo(message)
	}
}

// State returns the current state
func (s *StatusIndicator) State() IndicatorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispose releases the indicator. It is safe to call more than once.
func (s *StatusIndicator) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.state = StateIdle
}
