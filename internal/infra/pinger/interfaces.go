package pinger

import (
	"context"
	"time"
)

// Pinger defines the interface for health check pingers
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Optional interfaces a Pinger may implement to tune how it is judged.
type readyCriticalPinger interface {
	PingerReadyCritical() bool
}

type healthCriticalPinger interface {
	PingerCritical() bool
}

type timeoutPinger interface {
	PingerTimeout() time.Duration
}

// upRecorder publishes the outcome of each ping.
type upRecorder interface {
	SetComponentUp(component string, up bool)
}
