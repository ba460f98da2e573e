package config

import "time"

// Config keys. Every key can be set in the config file or through the environment
// with the SCALIGATOR_ prefix, e.g. SCALIGATOR_PROMETHEUS_URL. Duration values accept
// a bare number of seconds or explicit units (e.g. 30, 45s, 5m).

const envPrefix = "SCALIGATOR"

// Config file looked up in the working directory when no explicit path is given.
const (
	defaultConfigName = "Config"
	defaultConfigPath = "."
)

// Base URL of the Prometheus server.
const keyPrometheusURL = "prometheus_url"

// Comma separated list of namespaces to reconcile.
const keyWatchNamespaces = "watch_namespaces"

// Mean CPU (cores) above which a workload gains a replica.
const keyScaleUpCPUThreshold = "scale_up_cpu_threshold"

// Mean CPU (cores) below which a workload loses a replica.
const keyScaleDownCPUThreshold = "scale_down_cpu_threshold"

// Pause between reconcile passes.
const (
	keyReconcileInterval = "reconcile_interval"
	minReconcileInterval = time.Second
)

// Upper replica bound; 0 disables it.
const keyMaxReplicas = "max_replicas"

// Where per-pod CPU comes from: prometheus or metrics-server.
const keyUsageSource = "usage_source"

// Timeout for one usage query.
const keyQueryTimeout = "query_timeout"

// Maximum replica updates per second across all namespaces.
const keyActuationQPS = "actuation_qps"

// Namespace paused and resumed by the two cron schedules below.
const keyDevNamespace = "dev_namespace"

// Cron schedule after which scaling of the dev namespace stops.
const keyDisableDevAfter = "disable_dev_after"

// Cron schedule after which scaling of the dev namespace resumes.
const keyEnableDevAfter = "enable_dev_after"

// IANA time zone the schedules are evaluated in; empty means UTC.
const keyScheduleTZ = "schedule_tz"

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const (
	keyKubeConfig            = "kubeconfig"
	envKeyKubeConfig         = "SCALIGATOR_KUBECONFIG"
	envKeyKubeConfigFallback = "KUBECONFIG"
)

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const (
	keyKubeMaster            = "kube_master"
	envKeyKubeMaster         = "SCALIGATOR_KUBE_MASTER"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)

// Log level: debug, info, warn, error.
const keyLogLevel = "log_level"

// Log format: json or text.
const keyLogFormat = "log_format"

// Port of the HTTP server. If unset, PORT is used as fallback.
const (
	keyHTTPPort            = "http_port"
	envKeyHTTPPort         = "SCALIGATOR_HTTP_PORT"
	envKeyHTTPPortFallback = "PORT"
)

// Component health check interval.
const (
	keyPingerInterval = "pinger_interval"
	minPingerInterval = time.Second
)
