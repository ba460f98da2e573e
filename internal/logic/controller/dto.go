package controller

// Workload is a Deployment as seen by the controller.
type Workload struct {
	Namespace string
	Name      string
	Replicas  int32
	// Generation is the spec generation observed when the workload was listed.
	Generation int64
}

// Sample is the CPU rate of one pod, in cores.
// Err is set when the source value could not be used; CPU is then meaningless.
type Sample struct {
	CPU float64
	Err error
}

// Usage maps a pod name to its CPU sample.
type Usage map[string]Sample

// WorkloadUsage maps a workload name to the mean CPU rate of its pods.
// A workload without any valid sample is absent, never zero.
type WorkloadUsage map[string]float64
