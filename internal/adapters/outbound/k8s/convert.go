package k8s

import (
	"context"
	"log/slog"

	appsv1 "k8s.io/api/apps/v1"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"

	"github.com/skillcoder/scaligator/internal/logic/controller"
)

// defaultReplicas mirrors the API server default for an unset spec.replicas.
const defaultReplicas int32 = 1

func toDomainWorkload(deployment *appsv1.Deployment) controller.Workload {
	replicas := defaultReplicas
	if deployment.Spec.Replicas != nil {
		replicas = *deployment.Spec.Replicas
	}

	return controller.Workload{
		Namespace:  deployment.Namespace,
		Name:       deployment.Name,
		Replicas:   replicas,
		Generation: deployment.Generation,
	}
}

func toDomainUsage(
	ctx context.Context,
	logger *slog.Logger,
	items []metricsv1beta1.PodMetrics,
) controller.Usage {
	usage := make(controller.Usage, len(items))

	for i := range items {
		podMetrics := &items[i]
		cpu := 0.0

		for j := range podMetrics.Containers {
			containerCPU := podMetrics.Containers[j].Usage.Cpu()
			if containerCPU == nil {
				logger.WarnContext(ctx, "container cpu usage is nil, skipping",
					"pod", podMetrics.Name,
					"namespace", podMetrics.Namespace,
					"container", podMetrics.Containers[j].Name,
				)

				continue
			}

			cpu += containerCPU.AsApproximateFloat64()
		}

		usage[podMetrics.Name] = controller.Sample{CPU: cpu}
	}

	return usage
}
