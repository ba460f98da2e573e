package k8s

import "errors"

// WorkloadNotFoundError represents a deployment that disappeared between list and write.
type WorkloadNotFoundError struct{}

func (e *WorkloadNotFoundError) Error() string {
	return "workload not found"
}

func (e *WorkloadNotFoundError) IsNotFound() {}

var errWorkloadNotFound = &WorkloadNotFoundError{}

// ConflictError represents a write rejected because the deployment changed since it was read.
type ConflictError struct{}

func (e *ConflictError) Error() string {
	return "workload modified concurrently"
}

func (e *ConflictError) IsConflict() {}

var errConflict = &ConflictError{}

var errMetricsClientMissing = errors.New("metrics-server client is not configured")
