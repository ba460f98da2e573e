package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// applyCommand writes the decided replica count. A no-op decision makes no cluster call.
func (s *Service) applyCommand(
	ctx context.Context,
	logger *slog.Logger,
	workload Workload,
	decision Decision,
) error {
	logger = logger.With(
		"workload", workload.Name,
		"cpu", decision.CPU,
		"replicas", decision.From,
	)

	if decision.Action == ActionNone {
		logger.InfoContext(ctx, "no scaling needed")

		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: wait for actuation slot: %w", ErrScaleWorkload, err)
	}

	err := s.repo.ScaleWorkloadCommand(ctx, workload, decision.To)
	if err != nil {
		var notFoundTarget notFound
		if errors.As(err, &notFoundTarget) {
			logger.WarnContext(ctx, "workload not found when scaling",
				"action", decision.Action.String(),
			)
		}

		var conflictTarget conflict
		if errors.As(err, &conflictTarget) {
			logger.WarnContext(ctx, "workload changed since it was read, will retry next tick",
				"action", decision.Action.String(),
			)
		}

		return fmt.Errorf("%w %s to %d: %w", ErrScaleWorkload, workload.Name, decision.To, err)
	}

	switch decision.Action {
	case ActionScaleUp:
		s.recorder.RecordScaleUp()
	case ActionScaleDown:
		s.recorder.RecordScaleDown()
	case ActionNone:
	}

	logger.InfoContext(ctx, "workload scaled",
		"action", decision.Action.String(),
		"newReplicas", decision.To,
	)

	return nil
}
