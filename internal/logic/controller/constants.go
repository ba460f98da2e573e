package controller

import "time"

const (
	// MinReplicas is the replica floor. The controller never scales a workload below it.
	MinReplicas int32 = 1

	// ownerSuffixSegments is the number of generated segments (ReplicaSet hash and
	// pod hash) trailing a Deployment-owned pod name.
	ownerSuffixSegments = 2

	// staleReconcileFactor marks the service unhealthy when the last finished
	// reconcile is older than this many intervals.
	staleReconcileFactor = 2

	defaultActuationBurst = 1

	// minInterval guards the loop against a zero or negative interval.
	minInterval = time.Second
)
