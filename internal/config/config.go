package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	UsageSourcePrometheus    = "prometheus"
	UsageSourceMetricsServer = "metrics-server"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	PrometheusURL         string
	WatchNamespaces       []string
	ScaleUpCPUThreshold   float64
	ScaleDownCPUThreshold float64
	ReconcileInterval     time.Duration
	MaxReplicas           int32
	UsageSource           string
	QueryTimeout          time.Duration
	ActuationQPS          float64
	DevNamespace          string
	DisableDevAfter       string
	EnableDevAfter        string
	ScheduleTZ            string
	KubeConfig            string
	KubeMaster            string
	LogLevel              string
	LogFormat             string
	HTTPPort              string
	PingerInterval        time.Duration
}

// Load reads defaults, then the config file, then the environment. An empty path
// looks for an optional Config.{yaml,json,toml} in the working directory; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPrometheusURL, "http://localhost:9090")
	v.SetDefault(keyWatchNamespaces, "default, scaling, dev")
	v.SetDefault(keyScaleUpCPUThreshold, 0.7)
	v.SetDefault(keyScaleDownCPUThreshold, 0.2)
	v.SetDefault(keyReconcileInterval, 30)
	v.SetDefault(keyMaxReplicas, 0)
	v.SetDefault(keyUsageSource, UsageSourcePrometheus)
	v.SetDefault(keyQueryTimeout, "10s")
	v.SetDefault(keyActuationQPS, 5)
	v.SetDefault(keyDevNamespace, "dev")
	v.SetDefault(keyDisableDevAfter, "")
	v.SetDefault(keyEnableDevAfter, "")
	v.SetDefault(keyScheduleTZ, "")
	v.SetDefault(keyKubeConfig, "")
	v.SetDefault(keyKubeMaster, "")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "json")
	v.SetDefault(keyHTTPPort, "8080")
	v.SetDefault(keyPingerInterval, "10s")
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindings := [][]string{
		{keyKubeConfig, envKeyKubeConfig, envKeyKubeConfigFallback},
		{keyKubeMaster, envKeyKubeMaster, envKeyKubeMasterFallback},
		{keyHTTPPort, envKeyHTTPPort, envKeyHTTPPortFallback},
	}

	for _, binding := range bindings {
		if err := v.BindEnv(binding...); err != nil {
			return fmt.Errorf("bind env %s: %w", binding[0], err)
		}
	}

	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}

		return nil
	}

	v.SetConfigName(defaultConfigName)
	v.AddConfigPath(defaultConfigPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("read config file: %w", err)
	}

	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	reconcileInterval, err := parseDuration(v.GetString(keyReconcileInterval))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, keyReconcileInterval, err)
	}

	queryTimeout, err := parseDuration(v.GetString(keyQueryTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, keyQueryTimeout, err)
	}

	pingerInterval, err := parseDuration(v.GetString(keyPingerInterval))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, keyPingerInterval, err)
	}

	maxReplicas := v.GetInt64(keyMaxReplicas)
	if maxReplicas < 0 || maxReplicas > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %s out of range: %d", ErrInvalidConfig, keyMaxReplicas, maxReplicas)
	}

	return &Config{
		PrometheusURL:         strings.TrimSpace(v.GetString(keyPrometheusURL)),
		WatchNamespaces:       namespaces(v),
		ScaleUpCPUThreshold:   v.GetFloat64(keyScaleUpCPUThreshold),
		ScaleDownCPUThreshold: v.GetFloat64(keyScaleDownCPUThreshold),
		ReconcileInterval:     reconcileInterval,
		MaxReplicas:           int32(maxReplicas),
		UsageSource:           strings.ToLower(strings.TrimSpace(v.GetString(keyUsageSource))),
		QueryTimeout:          queryTimeout,
		ActuationQPS:          v.GetFloat64(keyActuationQPS),
		DevNamespace:          strings.TrimSpace(v.GetString(keyDevNamespace)),
		DisableDevAfter:       strings.TrimSpace(v.GetString(keyDisableDevAfter)),
		EnableDevAfter:        strings.TrimSpace(v.GetString(keyEnableDevAfter)),
		ScheduleTZ:            strings.TrimSpace(v.GetString(keyScheduleTZ)),
		KubeConfig:            v.GetString(keyKubeConfig),
		KubeMaster:            v.GetString(keyKubeMaster),
		LogLevel:              v.GetString(keyLogLevel),
		LogFormat:             v.GetString(keyLogFormat),
		HTTPPort:              v.GetString(keyHTTPPort),
		PingerInterval:        pingerInterval,
	}, nil
}

// namespaces accepts a comma separated string or a list from the config file.
// Entries are trimmed; empty and repeated entries are dropped.
func namespaces(v *viper.Viper) []string {
	var raw []string

	switch v.Get(keyWatchNamespaces).(type) {
	case []any, []string:
		raw = v.GetStringSlice(keyWatchNamespaces)
	default:
		raw = strings.Split(v.GetString(keyWatchNamespaces), ",")
	}

	seen := make(map[string]struct{}, len(raw))
	result := make([]string, 0, len(raw))

	for _, namespace := range raw {
		namespace = strings.TrimSpace(namespace)
		if namespace == "" {
			continue
		}

		if _, ok := seen[namespace]; ok {
			continue
		}

		seen[namespace] = struct{}{}
		result = append(result, namespace)
	}

	return result
}

// parseDuration reads a bare number as seconds, anything else as a Go duration.
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", value, err)
	}

	return d, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	if c.ReconcileInterval < minReconcileInterval {
		errs = append(errs, fmt.Errorf("%s must be at least %s, got %s", keyReconcileInterval, minReconcileInterval, c.ReconcileInterval))
	}

	if c.PingerInterval < minPingerInterval {
		errs = append(errs, fmt.Errorf("%s must be at least %s, got %s", keyPingerInterval, minPingerInterval, c.PingerInterval))
	}

	if c.QueryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", keyQueryTimeout, c.QueryTimeout))
	}

	if !isNonNegative(c.ScaleUpCPUThreshold) {
		errs = append(errs, fmt.Errorf("%s must be a non-negative number, got %v", keyScaleUpCPUThreshold, c.ScaleUpCPUThreshold))
	}

	if !isNonNegative(c.ScaleDownCPUThreshold) {
		errs = append(errs, fmt.Errorf("%s must be a non-negative number, got %v", keyScaleDownCPUThreshold, c.ScaleDownCPUThreshold))
	}

	if len(c.WatchNamespaces) == 0 {
		errs = append(errs, fmt.Errorf("%s must name at least one namespace", keyWatchNamespaces))
	}

	if !isNonNegative(c.ActuationQPS) || c.ActuationQPS == 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", keyActuationQPS, c.ActuationQPS))
	}

	switch c.UsageSource {
	case UsageSourcePrometheus:
		if c.PrometheusURL == "" {
			errs = append(errs, fmt.Errorf("%s is required for usage source %s", keyPrometheusURL, UsageSourcePrometheus))
		}
	case UsageSourceMetricsServer:
	default:
		errs = append(errs, fmt.Errorf("%s must be %s or %s, got %q",
			keyUsageSource, UsageSourcePrometheus, UsageSourceMetricsServer, c.UsageSource))
	}

	if c.ScheduleTZ != "" {
		if _, err := time.LoadLocation(c.ScheduleTZ); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", keyScheduleTZ, err))
		}
	}

	if (c.DisableDevAfter != "" || c.EnableDevAfter != "") && c.DevNamespace == "" {
		errs = append(errs, fmt.Errorf("%s is required when a dev schedule is set", keyDevNamespace))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// ThresholdsInverted reports a scale-up threshold at or below the scale-down one.
// It is accepted and only warned about.
func (c *Config) ThresholdsInverted() bool {
	return c.ScaleUpCPUThreshold <= c.ScaleDownCPUThreshold
}

// PauseScheduled reports whether any dev namespace schedule is configured.
func (c *Config) PauseScheduled() bool {
	return c.DisableDevAfter != "" || c.EnableDevAfter != ""
}

func isNonNegative(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value >= 0
}
