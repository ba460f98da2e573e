package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/skillcoder/scaligator/internal/adapters/outbound/k8s"
	"github.com/skillcoder/scaligator/internal/adapters/outbound/prometheus"
	"github.com/skillcoder/scaligator/internal/config"
	"github.com/skillcoder/scaligator/internal/httpserver"
	"github.com/skillcoder/scaligator/internal/infra/appstate"
	"github.com/skillcoder/scaligator/internal/infra/cronparser"
	"github.com/skillcoder/scaligator/internal/infra/metrics"
	"github.com/skillcoder/scaligator/internal/infra/pinger"
	"github.com/skillcoder/scaligator/internal/infra/shutdown"
	"github.com/skillcoder/scaligator/internal/logic/controller"
)

const userAgent = "scaligator"

type App struct {
	logger     *slog.Logger
	appState   appstater
	pingers    pingerServer
	server     appServer
	controller controllerService
	signals    signalWaiter
}

// New creates a new application instance with all dependencies wired.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	signals <-chan os.Signal,
	appStart time.Time,
) (*App, error) {
	if cfg.ThresholdsInverted() {
		logger.Warn("scale up threshold is not above scale down threshold, replicas may oscillate",
			"scaleUpThreshold", cfg.ScaleUpCPUThreshold,
			"scaleDownThreshold", cfg.ScaleDownCPUThreshold,
		)
	}

	registry := metrics.New()

	kubeConfig, err := clientcmd.BuildConfigFromFlags(cfg.KubeMaster, cfg.KubeConfig)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	kubeConfig.UserAgent = userAgent

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	var metricsClientset metricsv.Interface

	if cfg.UsageSource == config.UsageSourceMetricsServer {
		mc, err := metricsv.NewForConfig(kubeConfig)
		if err != nil {
			return nil, fmt.Errorf("create metrics clientset: %w", err)
		}

		metricsClientset = mc
	}

	k8sAdapter := k8s.New(logger.With("adapter", "k8s"), clientset, metricsClientset)

	components := []pinger.Pinger{k8sAdapter}

	var fetcher controller.UsageFetcher = k8sAdapter

	if cfg.UsageSource == config.UsageSourcePrometheus {
		promFetcher, err := prometheus.New(logger.With("adapter", "prometheus"), cfg.PrometheusURL, cfg.QueryTimeout)
		if err != nil {
			return nil, fmt.Errorf("create prometheus fetcher: %w", err)
		}

		fetcher = promFetcher
		components = append(components, promFetcher)
	}

	var window *controller.PauseWindow

	if cfg.PauseScheduled() {
		window, err = controller.NewPauseWindow(
			cronparser.New(),
			cfg.DevNamespace,
			cfg.DisableDevAfter,
			cfg.EnableDevAfter,
			cfg.ScheduleTZ,
			time.Now(),
		)
		if err != nil {
			return nil, fmt.Errorf("create pause window: %w", err)
		}
	}

	controllerService := controller.New(
		logger,
		k8sAdapter,
		fetcher,
		registry,
		controller.Options{
			Namespaces: cfg.WatchNamespaces,
			Policy: controller.Policy{
				ScaleUpThreshold:   cfg.ScaleUpCPUThreshold,
				ScaleDownThreshold: cfg.ScaleDownCPUThreshold,
				MinReplicas:        controller.MinReplicas,
				MaxReplicas:        cfg.MaxReplicas,
			},
			Interval:     cfg.ReconcileInterval,
			ActuationQPS: cfg.ActuationQPS,
			PauseWindow:  window,
		},
	)

	pingerService := pinger.New(logger, cfg.PingerInterval, registry)
	appState := appstate.New(logger, appStart, pingerService)

	router := httpserver.NewRouter(logger, httpserver.Routes{
		AppState: appState,
		Metrics:  registry.Handler(),
		Recorder: registry,
	})
	server := httpserver.New(logger, router, cfg.HTTPPort)

	components = append(components, server, controllerService)

	return assemble(
		logger,
		appState,
		pingerService,
		server,
		controllerService,
		shutdown.NewSignalWatcher(logger, signals),
		components...,
	)
}

// assemble registers the pingers and the shutdown order. Components shut down in
// reverse: pinger first, then the controller loop, the HTTP server last.
func assemble(
	logger *slog.Logger,
	appState appstater,
	pingers pingerServer,
	server appServer,
	controllerService controllerService,
	signals signalWaiter,
	components ...pinger.Pinger,
) (*App, error) {
	for _, component := range components {
		if err := appState.RegisterPinger(component); err != nil {
			return nil, fmt.Errorf("register pinger %s: %w", component.Name(), err)
		}
	}

	appState.RegisterShutdowner(server)
	appState.RegisterShutdowner(controllerService)
	appState.RegisterShutdowner(pingers)

	return &App{
		logger:     logger,
		appState:   appState,
		pingers:    pingers,
		server:     server,
		controller: controllerService,
		signals:    signals,
	}, nil
}

// Run serves HTTP, runs the controller loop and watches for signals until one of
// them returns. A signal or ctx cancellation yields nil; a server or controller
// failure is returned. Components are shut down in both cases.
func (a *App) Run(originCtx context.Context) error {
	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	if err := a.appState.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting application state: %w", err)
	}

	a.logger.InfoContext(ctx, "starting application")

	if err := a.server.Start(ctx); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.signals.Wait(groupCtx)
	})

	group.Go(func() error {
		if err := a.server.Wait(groupCtx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		if err := a.controller.RunCommand(groupCtx); err != nil {
			return fmt.Errorf("controller: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		return a.markRunning(groupCtx)
	})

	runErr := group.Wait()

	shutdownErr := a.appState.Shutdown(originCtx)
	if shutdownErr != nil {
		a.logger.ErrorContext(originCtx, "graceful shutdown finished with errors", "reason", shutdownErr)
	}

	if runErr == nil || errors.Is(runErr, shutdown.ErrSignalReceived) {
		return nil
	}

	return runErr
}

// markRunning flips the state to running once the server and the controller are
// ready and the first round of pings is done.
func (a *App) markRunning(ctx context.Context) error {
	<-allChannelsClose(ctx, a.logger, a.server.Ready(), a.controller.Ready())

	if ctx.Err() != nil {
		return nil
	}

	if err := a.pingers.Start(ctx); err != nil {
		return fmt.Errorf("start pinger: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil
	case <-a.pingers.Ready():
	}

	if err := a.appState.SetRunning(ctx); err != nil {
		return fmt.Errorf("set running application state: %w", err)
	}

	return nil
}

// allChannelsClose returns a channel closed once every input channel is closed
// or ctx is done.
func allChannelsClose(ctx context.Context, logger *slog.Logger, chans ...<-chan struct{}) <-chan struct{} {
	out := make(chan struct{})

	go func() {
		defer close(out)

		for _, ch := range chans {
			select {
			case <-ch:
			case <-ctx.Done():
				logger.DebugContext(ctx, "stopped waiting for components to become ready")

				return
			}
		}
	}()

	return out
}
