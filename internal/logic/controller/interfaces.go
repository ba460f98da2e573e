package controller

import (
	"context"
	"time"
)

// Repository is the port interface for cluster workload operations.
// Implementations are provided by adapters in the outbound layer.
type Repository interface {
	ListWorkloadsQuery(
		ctx context.Context,
		namespace string,
	) ([]Workload, error)

	// ScaleWorkloadCommand re-reads the workload, refuses to write when its spec
	// generation moved past workload.Generation and replaces it with the given
	// replica count.
	ScaleWorkloadCommand(
		ctx context.Context,
		workload Workload,
		replicas int32,
	) error
}

// UsageFetcher returns per-pod CPU samples for a namespace.
type UsageFetcher interface {
	FetchUsageQuery(
		ctx context.Context,
		namespace string,
	) (Usage, error)
}

// Recorder receives scaling and reconcile events for observability.
type Recorder interface {
	RecordScaleUp()
	RecordScaleDown()
	RecordReconcileFailure(namespace string)
	RecordInvalidSamples(namespace string, count int)
	ObserveReconcileDuration(d time.Duration)
}

// scheduleParser computes the next occurrence of a cron spec.
type scheduleParser interface {
	NextAfter(spec, tz string, after time.Time) (time.Time, error)
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}

// conflict is a private interface for checking optimistic concurrency failures
// without importing the adapter package.
type conflict interface {
	IsConflict()
}
