package controller

import "errors"

var (
	ErrListWorkloads = errors.New("list workloads")
	ErrFetchUsage    = errors.New("fetch usage")
	ErrScaleWorkload = errors.New("scale workload")
	ErrReconcile     = errors.New("reconcile namespaces")

	// ErrInvalidSample marks a sample whose value is not a finite non-negative number.
	ErrInvalidSample = errors.New("invalid cpu sample")
)
