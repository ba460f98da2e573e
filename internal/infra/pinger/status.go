package pinger

import (
	"sync"
	"time"
)

// Status is a point-in-time view of one pinger.
type Status struct {
	IsReady             bool          `json:"ready"`
	IsHealthy           bool          `json:"healthy"`
	LastRun             time.Time     `json:"lastRun"`
	LastLatency         time.Duration `json:"lastLatency"`
	LastError           string        `json:"lastError,omitempty"`
	SuccessCount        int           `json:"successCount"`
	ErrorCount          int           `json:"errorCount"`
	ConsecutiveFailures int           `json:"consecutiveFailures"`
}

type pingerInfo struct {
	pinger         Pinger
	readyCritical  bool
	healthCritical bool
	timeout        time.Duration

	mu                  sync.RWMutex
	ran                 bool
	lastRun             time.Time
	lastLatency         time.Duration
	lastError           error
	successCount        int
	errorCount          int
	consecutiveFailures int
}

func (i *pingerInfo) record(at time.Time, latency time.Duration, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.ran = true
	i.lastRun = at
	i.lastLatency = latency
	i.lastError = err

	if err != nil {
		i.errorCount++
		i.consecutiveFailures++

		return
	}

	i.successCount++
	i.consecutiveFailures = 0
}

// ok reports whether the pinger has run and its last run succeeded.
func (i *pingerInfo) ok() bool {
	return i.ran && i.lastError == nil
}

func (i *pingerInfo) status() Status {
	i.mu.RLock()
	defer i.mu.RUnlock()

	status := Status{
		IsReady:             !i.readyCritical || i.ok(),
		IsHealthy:           !i.healthCritical || i.lastError == nil,
		LastRun:             i.lastRun,
		LastLatency:         i.lastLatency,
		SuccessCount:        i.successCount,
		ErrorCount:          i.errorCount,
		ConsecutiveFailures: i.consecutiveFailures,
	}

	if i.lastError != nil {
		status.LastError = i.lastError.Error()
	}

	return status
}
