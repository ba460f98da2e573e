package controller

import (
	"maps"
	"slices"
	"strings"
)

// OwnerName derives the Deployment name from a generated pod name by dropping up
// to two trailing hyphen-delimited segments. A name without hyphens is returned as is.
func OwnerName(pod string) string {
	name := pod

	for range ownerSuffixSegments {
		idx := strings.LastIndexByte(name, '-')
		if idx < 0 {
			break
		}

		name = name[:idx]
	}

	return name
}

// Aggregate averages valid samples per owning workload, restricted to the given
// workload names. Workloads with no valid sample are omitted. Pods whose sample
// carries an error are skipped and returned sorted.
func Aggregate(usage Usage, workloads []string) (WorkloadUsage, []string) {
	known := make(map[string]struct{}, len(workloads))
	for _, name := range workloads {
		known[name] = struct{}{}
	}

	type group struct {
		sum   float64
		count int
	}

	groups := make(map[string]*group, len(workloads))

	var invalid []string

	// sorted iteration keeps float summation order stable across calls
	for _, pod := range slices.Sorted(maps.Keys(usage)) {
		sample := usage[pod]
		if sample.Err != nil {
			invalid = append(invalid, pod)

			continue
		}

		owner := OwnerName(pod)
		if _, ok := known[owner]; !ok {
			continue
		}

		g, ok := groups[owner]
		if !ok {
			g = &group{}
			groups[owner] = g
		}

		g.sum += sample.CPU
		g.count++
	}

	out := make(WorkloadUsage, len(groups))
	for name, g := range groups {
		out[name] = g.sum / float64(g.count)
	}

	return out, invalid
}
