package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns every collector of the process. It is built once at startup and
// shared by pointer; its set of collectors never changes afterwards.
type Registry struct {
	registry              *prometheus.Registry
	scaleUpEventsTotal    prometheus.Counter
	scaleDownEventsTotal  prometheus.Counter
	httpRequestsTotal     prometheus.Counter
	reconcileFailureTotal *prometheus.CounterVec
	invalidSamplesTotal   *prometheus.CounterVec
	reconcileDuration     prometheus.Histogram
	componentUp           *prometheus.GaugeVec
}

// New creates the registry with the controller counters and the Go and process collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		registry: reg,
		scaleUpEventsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scale_up_events_total",
			Help: "Total amount of scale up events",
		}),
		scaleDownEventsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scale_down_events_total",
			Help: "Total amount of scale down events",
		}),
		httpRequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total amount of http requests",
		}),
		reconcileFailureTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_failures_total",
				Help: "Total number of namespace reconciles that failed.",
			},
			[]string{"namespace"},
		),
		invalidSamplesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invalid_samples_total",
				Help: "Total number of pod cpu samples skipped because the value was unusable.",
			},
			[]string{"namespace"},
		),
		reconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconcile_duration_seconds",
			Help:    "Duration of a full reconcile pass over all namespaces.",
			Buckets: prometheus.DefBuckets,
		}),
		componentUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "component_up",
				Help: "Whether the last health ping of a component succeeded (1) or failed (0).",
			},
			[]string{"component"},
		),
	}
}

// Handler serves the registry in the text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Registry) RecordScaleUp() {
	r.scaleUpEventsTotal.Inc()
}

func (r *Registry) RecordScaleDown() {
	r.scaleDownEventsTotal.Inc()
}

func (r *Registry) RecordHTTPRequest() {
	r.httpRequestsTotal.Inc()
}

func (r *Registry) RecordReconcileFailure(namespace string) {
	r.reconcileFailureTotal.WithLabelValues(namespace).Inc()
}

func (r *Registry) RecordInvalidSamples(namespace string, count int) {
	r.invalidSamplesTotal.WithLabelValues(namespace).Add(float64(count))
}

func (r *Registry) ObserveReconcileDuration(d time.Duration) {
	r.reconcileDuration.Observe(d.Seconds())
}

func (r *Registry) SetComponentUp(component string, up bool) {
	value := 0.0
	if up {
		value = 1
	}

	r.componentUp.WithLabelValues(component).Set(value)
}
