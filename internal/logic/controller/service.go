package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options configures the reconciliation service.
type Options struct {
	Namespaces   []string
	Policy       Policy
	Interval     time.Duration
	ActuationQPS float64

	// PauseWindow is optional; nil never pauses.
	PauseWindow *PauseWindow
}

type Service struct {
	logger               *slog.Logger
	repo                 Repository
	fetcher              UsageFetcher
	recorder             Recorder
	limiter              *rate.Limiter
	window               *PauseWindow
	namespaces           []string
	policy               Policy
	interval             time.Duration
	ready                chan struct{}
	doneCh               chan struct{}
	inShutdown           atomic.Bool
	mu                   sync.RWMutex
	lastReconcileEndTime time.Time
}

// New creates a new controller service.
func New(
	logger *slog.Logger,
	repo Repository,
	fetcher UsageFetcher,
	recorder Recorder,
	opts Options,
) *Service {
	limit := rate.Inf
	if opts.ActuationQPS > 0 {
		limit = rate.Limit(opts.ActuationQPS)
	}

	interval := max(opts.Interval, minInterval)

	policy := opts.Policy
	policy.MinReplicas = max(policy.MinReplicas, MinReplicas)

	return &Service{
		logger:     logger,
		repo:       repo,
		fetcher:    fetcher,
		recorder:   recorder,
		limiter:    rate.NewLimiter(limit, defaultActuationBurst),
		window:     opts.PauseWindow,
		namespaces: opts.Namespaces,
		policy:     policy,
		interval:   interval,
		ready:      make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Name returns the name of the controller component
func (s *Service) Name() string {
	return "scaligator-controller"
}

func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		lastReconcileAge := s.getLastReconcileAge()
		if lastReconcileAge > staleReconcileFactor*s.interval {
			return fmt.Errorf("last reconcile was too long ago: %s", lastReconcileAge.Round(time.Second).String())
		}

		return nil
	default:
		return fmt.Errorf("controller service is not ready")
	}
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Done is closed when RunCommand has returned.
func (s *Service) Done() <-chan struct{} {
	return s.doneCh
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "controller service is already shutting down, skipping shutdown")

		return nil
	}

	defer func() {
		s.logger.InfoContext(ctx, "controller service shut downed")
	}()

	s.logger.InfoContext(ctx, "shutting down controller service")

	// RunCommand exits on cancellation of its own context
	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before controller loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "controller loop exited")
	}

	return nil
}

// RunCommand reconciles all namespaces, sleeps for the interval and repeats
// until ctx is cancelled. It returns nil on cancellation.
func (s *Service) RunCommand(ctx context.Context) error {
	defer close(s.doneCh)

	logger := s.logger.With("controller", "RunCommand")

	if s.inShutdown.Load() {
		logger.InfoContext(ctx, "controller service is shutting down, skipping start")

		return nil
	}

	close(s.ready)

	logger.InfoContext(ctx, "starting reconcile loop",
		"namespaces", s.namespaces,
		"interval", s.interval,
		"scaleUpThreshold", s.policy.ScaleUpThreshold,
		"scaleDownThreshold", s.policy.ScaleDownThreshold,
	)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		start := time.Now()

		err := s.ReconcileCommand(ctx)
		if err != nil {
			logger.WarnContext(ctx, "reconcile finished with failures", "reason", err)
		}

		s.recorder.ObserveReconcileDuration(time.Since(start))
		s.setLastReconcileEndTime()

		timer.Reset(s.interval)

		select {
		case <-timer.C:
		case <-ctx.Done():
			logger.InfoContext(ctx, "terminating main controller loop")

			return nil
		}
	}
}

// ReconcileCommand runs one pass over all configured namespaces.
// A failing namespace is logged and skipped; the joined failures are returned.
func (s *Service) ReconcileCommand(ctx context.Context) error {
	logger := s.logger.With(
		"controller", "ReconcileCommand",
		"reconcileID", uuid.NewString(),
	)

	var errs []error

	for _, namespace := range s.namespaces {
		if ctx.Err() != nil {
			logger.InfoContext(ctx, "context done, stopping reconciliation")

			return nil
		}

		nsLogger := logger.With("namespace", namespace)

		if s.window.Paused(namespace, time.Now()) {
			nsLogger.InfoContext(ctx, "scaling paused for namespace, skipping")

			continue
		}

		err := s.reconcileNamespace(ctx, nsLogger, namespace)
		if err != nil {
			if ctx.Err() != nil {
				logger.InfoContext(ctx, "context done, stopping reconciliation")

				return nil
			}

			nsLogger.ErrorContext(ctx, "namespace reconcile failed", "reason", err)
			s.recorder.RecordReconcileFailure(namespace)

			errs = append(errs, fmt.Errorf("namespace %s: %w", namespace, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrReconcile, errors.Join(errs...))
	}

	return nil
}

func (s *Service) reconcileNamespace(
	ctx context.Context,
	logger *slog.Logger,
	namespace string,
) error {
	var (
		workloads []Workload
		usage     Usage
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		list, err := s.repo.ListWorkloadsQuery(groupCtx, namespace)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrListWorkloads, err)
		}

		workloads = list

		return nil
	})

	group.Go(func() error {
		fetched, err := s.fetcher.FetchUsageQuery(groupCtx, namespace)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFetchUsage, err)
		}

		usage = fetched

		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	names := make([]string, 0, len(workloads))
	for i := range workloads {
		names = append(names, workloads[i].Name)
	}

	aggregated, invalid := Aggregate(usage, names)
	if len(invalid) > 0 {
		logger.WarnContext(ctx, "skipping unusable cpu samples", "pods", invalid)
		s.recorder.RecordInvalidSamples(namespace, len(invalid))
	}

	logger.DebugContext(ctx, "usage aggregated",
		"workloads", len(workloads),
		"pods", len(usage),
		"measured", len(aggregated),
	)

	var errs []error

	for i := range workloads {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		workload := workloads[i]

		cpu, ok := aggregated[workload.Name]
		if !ok {
			logger.DebugContext(ctx, "no cpu samples for workload, skipping", "workload", workload.Name)

			continue
		}

		decision := Decide(workload.Replicas, cpu, s.policy)

		err := s.applyCommand(ctx, logger, workload, decision)
		if err != nil {
			logger.ErrorContext(ctx, "apply scaling decision error",
				"workload", workload.Name,
				"reason", err,
			)

			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *Service) getLastReconcileAge() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastReconcileEndTime.IsZero() {
		return 0
	}

	return time.Since(s.lastReconcileEndTime)
}

func (s *Service) setLastReconcileEndTime() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastReconcileEndTime = time.Now()
}
