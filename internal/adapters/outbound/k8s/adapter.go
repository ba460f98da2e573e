package k8s

import (
	"context"
	"fmt"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"
	"k8s.io/utils/ptr"

	"github.com/skillcoder/scaligator/internal/logic/controller"
)

// fieldManager identifies the controller's writes in managedFields.
const fieldManager = "scaligator"

const versionPath = "/version"

type Adapter struct {
	logger           *slog.Logger
	clientset        kubernetes.Interface
	metricsClientset metricsv.Interface
}

// New creates a new K8s adapter. metricsClientset may be nil when the
// metrics-server usage source is not used.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
	metricsClientset metricsv.Interface,
) *Adapter {
	return &Adapter{
		logger:           logger,
		clientset:        clientset,
		metricsClientset: metricsClientset,
	}
}

var (
	_ controller.Repository   = (*Adapter)(nil)
	_ controller.UsageFetcher = (*Adapter)(nil)
)

func (a *Adapter) ListWorkloadsQuery(
	ctx context.Context,
	namespace string,
) ([]controller.Workload, error) {
	deployments, err := a.clientset.AppsV1().Deployments(namespace).List(
		ctx,
		metav1.ListOptions{},
	)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}

	workloads := make([]controller.Workload, 0, len(deployments.Items))
	for i := range deployments.Items {
		workloads = append(workloads, toDomainWorkload(&deployments.Items[i]))
	}

	return workloads, nil
}

// ScaleWorkloadCommand reads the Deployment fresh, rejects the write when its spec
// changed since workload was listed, and replaces it with the new replica count.
// Status-only updates leave the generation alone and do not block the write. The
// replace carries the read resourceVersion, so the API server rejects it when
// someone else wrote between the read and the replace.
func (a *Adapter) ScaleWorkloadCommand(
	ctx context.Context,
	workload controller.Workload,
	replicas int32,
) error {
	deployments := a.clientset.AppsV1().Deployments(workload.Namespace)

	deployment, err := deployments.Get(ctx, workload.Name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("get deployment: %w", errWorkloadNotFound)
		}

		return fmt.Errorf("get deployment: %w", err)
	}

	if workload.Generation != 0 && deployment.Generation != workload.Generation {
		return fmt.Errorf(
			"deployment generation %d, listed %d: %w",
			deployment.Generation,
			workload.Generation,
			errConflict,
		)
	}

	deployment.Spec.Replicas = ptr.To(replicas)

	_, err = deployments.Update(ctx, deployment, metav1.UpdateOptions{FieldManager: fieldManager})
	if err != nil {
		switch {
		case apierrors.IsConflict(err):
			return fmt.Errorf("replace deployment: %w", errConflict)
		case apierrors.IsNotFound(err):
			return fmt.Errorf("replace deployment: %w", errWorkloadNotFound)
		}

		return fmt.Errorf("replace deployment: %w", err)
	}

	return nil
}

// FetchUsageQuery reads current pod CPU usage from metrics-server.
func (a *Adapter) FetchUsageQuery(
	ctx context.Context,
	namespace string,
) (controller.Usage, error) {
	if a.metricsClientset == nil {
		return nil, errMetricsClientMissing
	}

	podMetrics, err := a.metricsClientset.MetricsV1beta1().PodMetricses(namespace).List(
		ctx,
		metav1.ListOptions{},
	)
	if err != nil {
		return nil, fmt.Errorf("list pod metrics: %w", err)
	}

	return toDomainUsage(ctx, a.logger, podMetrics.Items), nil
}

// Name returns the name of the adapter component
func (a *Adapter) Name() string {
	return "kubernetes"
}

// Ping asks the API server for its version, bounded by ctx.
func (a *Adapter) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	discovery := a.clientset.Discovery()

	restClient := discovery.RESTClient()
	if restClient == nil {
		// fake discovery clients carry no REST client
		if _, err := discovery.ServerVersion(); err != nil {
			return fmt.Errorf("kubernetes server version: %w", err)
		}

		return nil
	}

	if err := restClient.Get().AbsPath(versionPath).Do(ctx).Error(); err != nil {
		return fmt.Errorf("kubernetes server version: %w", err)
	}

	return nil
}

// PingerCritical keeps an unreachable API server out of the liveness verdict.
func (a *Adapter) PingerCritical() bool {
	return false
}
