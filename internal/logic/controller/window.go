package controller

import (
	"fmt"
	"sync"
	"time"
)

// maxWindowSteps bounds the walk over cron occurrences between two checks.
const maxWindowSteps = 10_000

// PauseWindow pauses scaling of one namespace between a disable and an enable
// cron occurrence. It starts unpaused; at each check the most recent occurrence
// since the previous check decides the state.
type PauseWindow struct {
	parser      scheduleParser
	namespace   string
	disableSpec string
	enableSpec  string
	tz          string

	mu        sync.Mutex
	lastCheck time.Time
	paused    bool
}

// NewPauseWindow validates both specs against the parser. Empty specs are allowed
// and never fire.
func NewPauseWindow(
	parser scheduleParser,
	namespace,
	disableSpec,
	enableSpec,
	tz string,
	now time.Time,
) (*PauseWindow, error) {
	for _, spec := range []string{disableSpec, enableSpec} {
		if spec == "" {
			continue
		}

		if _, err := parser.NextAfter(spec, tz, now); err != nil {
			return nil, fmt.Errorf("pause window for namespace %s: %w", namespace, err)
		}
	}

	return &PauseWindow{
		parser:      parser,
		namespace:   namespace,
		disableSpec: disableSpec,
		enableSpec:  enableSpec,
		tz:          tz,
		lastCheck:   now,
	}, nil
}

// Paused reports whether scaling of namespace is paused at now.
func (w *PauseWindow) Paused(namespace string, now time.Time) bool {
	if w == nil || namespace != w.namespace {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	disabledAt, disabled := w.lastOccurrence(w.disableSpec, now)
	enabledAt, enabled := w.lastOccurrence(w.enableSpec, now)

	switch {
	case disabled && enabled:
		w.paused = disabledAt.After(enabledAt)
	case disabled:
		w.paused = true
	case enabled:
		w.paused = false
	}

	if now.After(w.lastCheck) {
		w.lastCheck = now
	}

	return w.paused
}

// lastOccurrence returns the latest occurrence of spec in (lastCheck, now].
func (w *PauseWindow) lastOccurrence(spec string, now time.Time) (time.Time, bool) {
	if spec == "" {
		return time.Time{}, false
	}

	var (
		last  time.Time
		found bool
	)

	cursor := w.lastCheck

	for range maxWindowSteps {
		next, err := w.parser.NextAfter(spec, w.tz, cursor)
		if err != nil || next.IsZero() || next.After(now) {
			break
		}

		last, found = next, true
		cursor = next
	}

	return last, found
}
