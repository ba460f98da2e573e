package prometheus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/api"
	"github.com/prometheus/common/model"

	"github.com/skillcoder/scaligator/internal/logic/controller"
)

const (
	queryEndpoint = "/api/v1/query"

	// rateWindow is the range the per-pod CPU rate is computed over.
	rateWindow = 2 * time.Minute

	cpuUsageMetric = "container_cpu_usage_seconds_total"

	podLabel model.LabelName = "pod"

	defaultQueryTimeout = 10 * time.Second
)

// Fetcher reads per-pod CPU rates from the Prometheus HTTP query API.
type Fetcher struct {
	logger  *slog.Logger
	client  api.Client
	timeout time.Duration
}

// New creates a fetcher for the Prometheus server at address.
func New(logger *slog.Logger, address string, timeout time.Duration) (*Fetcher, error) {
	client, err := api.NewClient(api.Config{
		Address: address,
	})
	if err != nil {
		return nil, fmt.Errorf("create prometheus client: %w", err)
	}

	return NewWithClient(logger, client, timeout), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(logger *slog.Logger, client api.Client, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &Fetcher{
		logger:  logger,
		client:  client,
		timeout: timeout,
	}
}

var _ controller.UsageFetcher = (*Fetcher)(nil)

// CPUQuery returns the PromQL expression for per-series CPU rate in namespace.
func CPUQuery(namespace string) string {
	return fmt.Sprintf(
		"rate(%s{namespace=%s}[%s])",
		cpuUsageMetric,
		strconv.Quote(namespace),
		model.Duration(rateWindow).String(),
	)
}

// FetchUsageQuery runs the CPU rate query for namespace. A namespace without
// series yields empty usage; transport failures and malformed responses are errors.
func (f *Fetcher) FetchUsageQuery(
	ctx context.Context,
	namespace string,
) (controller.Usage, error) {
	body, err := f.query(ctx, CPUQuery(namespace))
	if err != nil {
		return nil, err
	}

	usage, dropped, err := parseUsage(body)
	if err != nil {
		return nil, err
	}

	if dropped > 0 {
		f.logger.DebugContext(ctx, "dropped series without pod label",
			"namespace", namespace,
			"count", dropped,
		)
	}

	return usage, nil
}

// Name returns the name of the fetcher component
func (f *Fetcher) Name() string {
	return "prometheus"
}

// Ping checks that the query API answers.
func (f *Fetcher) Ping(ctx context.Context) error {
	body, err := f.query(ctx, "vector(1)")
	if err != nil {
		return err
	}

	if _, err := decodeResponse(body); err != nil {
		return err
	}

	return nil
}

// PingerReadyCritical keeps an unreachable Prometheus out of the readiness verdict.
// Namespaces fail their reconcile until it recovers.
func (f *Fetcher) PingerReadyCritical() bool {
	return false
}

func (f *Fetcher) PingerCritical() bool {
	return false
}

func (f *Fetcher) query(ctx context.Context, query string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	u := f.client.URL(queryEndpoint, nil)
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build prometheus request: %w", err)
	}

	resp, body, err := f.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("query prometheus: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: %s", errUnexpectedStatus, resp.Status)
	}

	return body, nil
}
