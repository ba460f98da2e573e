package app

import (
	"context"

	"github.com/skillcoder/scaligator/internal/infra/pinger"
	"github.com/skillcoder/scaligator/internal/infra/shutdown"
)

// appstater defines the interface for application state management
type appstater interface {
	RegisterPinger(pinger pinger.Pinger) error
	RegisterShutdowner(shutdowner shutdown.Shutdowner)
	SetStarting(ctx context.Context) error
	SetRunning(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type pingerServer interface {
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
}

type appServer interface {
	pinger.Pinger
	shutdown.Shutdowner
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	Wait(ctx context.Context) error
}

type controllerService interface {
	pinger.Pinger
	shutdown.Shutdowner
	RunCommand(ctx context.Context) error
	Ready() <-chan struct{}
}

type signalWaiter interface {
	Wait(ctx context.Context) error
}
