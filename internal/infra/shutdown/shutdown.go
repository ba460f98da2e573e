package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultTimeout bounds the whole graceful shutdown.
const DefaultTimeout = 5 * time.Second

// ErrSignalReceived is returned by SignalWatcher.Wait when SIGTERM or SIGINT arrives.
var ErrSignalReceived = errors.New("termination signal received")

// Notify returns a channel that will receive SIGTERM and SIGINT signals.
// This should be called as the first thing in main() before any other initialization.
func Notify() <-chan os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	return signals
}

type SignalWatcher struct {
	logger  *slog.Logger
	signals <-chan os.Signal
}

func NewSignalWatcher(logger *slog.Logger, signals <-chan os.Signal) *SignalWatcher {
	return &SignalWatcher{
		logger:  logger,
		signals: signals,
	}
}

// Wait blocks until a signal arrives or ctx is done. A signal yields
// ErrSignalReceived so an errgroup cancels its siblings; ctx done yields nil.
func (w *SignalWatcher) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		w.logger.InfoContext(ctx, "terminating signal watcher due to context done")

		return nil
	case sig, ok := <-w.signals:
		if !ok {
			return nil
		}

		w.logger.InfoContext(ctx, "received termination signal, terminating", "signal", sig.String())

		return ErrSignalReceived
	}
}

// GracefulShutdown shuts the components down in reverse order within DefaultTimeout.
// It keeps going past failing components and returns their errors joined.
func GracefulShutdown(
	originCtx context.Context,
	logger *slog.Logger,
	shutdowners []Shutdowner,
) error {
	// shutdown continues even if originCtx is cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(originCtx), DefaultTimeout)
	defer cancel()

	var errs []error

	for i := len(shutdowners) - 1; i >= 0; i-- {
		start := time.Now()
		shutdowner := shutdowners[i]
		name := shutdowner.Name()

		if err := shutdowner.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "component shutdown failed",
				"component", name,
				"duration", time.Since(start),
				"reason", err,
			)

			errs = append(errs, fmt.Errorf("%s: %w", name, err))

			continue
		}

		logger.InfoContext(ctx, "component shutdown completed",
			"component", name,
			"duration", time.Since(start),
		)
	}

	return errors.Join(errs...)
}
