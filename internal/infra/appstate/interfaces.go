package appstate

import (
	"context"
	"time"

	"github.com/skillcoder/scaligator/internal/infra/pinger"
	"github.com/skillcoder/scaligator/internal/infra/shutdown"
)

// pingerServer is an internal interface for pinger management
type pingerServer interface {
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
	Register(pinger pinger.Pinger) error
	Statuses() map[string]pinger.Status
	IsReady() bool
	IsHealthy() bool
}

type healthChecker interface {
	IsHealthy() bool
}

type readyChecker interface {
	IsReady() bool
}

type statusGetter interface {
	GetState() State
	GetUptime() time.Duration
	GetStartTime() time.Time
	Components() map[string]pinger.Status
}
