package httpserver_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/scaligator/internal/httpserver"
	"github.com/skillcoder/scaligator/internal/infra/appstate"
	"github.com/skillcoder/scaligator/internal/infra/metrics"
	"github.com/skillcoder/scaligator/internal/infra/pinger"
)

func newRunningState(t *testing.T) *appstate.AppState {
	t.Helper()

	state := appstate.New(slog.Default(), time.Now(), pinger.New(slog.Default(), time.Second, nil))
	require.NoError(t, state.SetStarting(t.Context()))
	require.NoError(t, state.SetRunning(t.Context()))

	return state
}

func newRouter(t *testing.T, state *appstate.AppState) (http.Handler, *metrics.Registry) {
	t.Helper()

	reg := metrics.New()

	return httpserver.NewRouter(slog.Default(), httpserver.Routes{
		AppState: state,
		Metrics:  reg.Handler(),
		Recorder: reg,
	}), reg
}

func TestRouter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		giveMethod   string
		givePath     string
		giveBody     string
		giveRunning  bool
		wantCode     int
		wantContains string
	}{
		{
			name:         "health",
			giveMethod:   http.MethodGet,
			givePath:     "/health",
			wantCode:     http.StatusOK,
			wantContains: "OK",
		},
		{
			name:         "ready while running",
			giveMethod:   http.MethodGet,
			givePath:     "/ready",
			giveRunning:  true,
			wantCode:     http.StatusOK,
			wantContains: "READY",
		},
		{
			name:       "not ready before running",
			giveMethod: http.MethodGet,
			givePath:   "/ready",
			wantCode:   http.StatusServiceUnavailable,
		},
		{
			name:         "metrics exposition",
			giveMethod:   http.MethodGet,
			givePath:     "/metrics",
			wantCode:     http.StatusOK,
			wantContains: "scale_up_events_total 0",
		},
		{
			name:       "alerts accepted",
			giveMethod: http.MethodPost,
			givePath:   "/alerts",
			giveBody:   `{"alerts":[{"labels":{"alertname":"HighCPUUsage","pod":"web-1"},"annotations":{"cpu":"0.9"}}]}`,
			wantCode:   http.StatusOK,
		},
		{
			name:       "alerts malformed",
			giveMethod: http.MethodPost,
			givePath:   "/alerts",
			giveBody:   `not json`,
			wantCode:   http.StatusBadRequest,
		},
		{
			name:       "alerts wrong method",
			giveMethod: http.MethodGet,
			givePath:   "/alerts",
			wantCode:   http.StatusMethodNotAllowed,
		},
		{
			name:         "status",
			giveMethod:   http.MethodGet,
			givePath:     "/-/status",
			giveRunning:  true,
			wantCode:     http.StatusOK,
			wantContains: `"state":"running"`,
		},
		{
			name:       "readyz before running",
			giveMethod: http.MethodGet,
			givePath:   "/-/readyz",
			wantCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := appstate.New(slog.Default(), time.Now(), pinger.New(slog.Default(), time.Second, nil))
			if tt.giveRunning {
				state = newRunningState(t)
			}

			router, _ := newRouter(t, state)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.giveMethod, tt.givePath, strings.NewReader(tt.giveBody))

			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			require.Contains(t, rec.Body.String(), tt.wantContains)
		})
	}
}

func TestRouter_CountsRequests(t *testing.T) {
	t.Parallel()

	router, reg := newRouter(t, newRunningState(t))

	for _, path := range []string{"/health", "/ready", "/metrics", "/-/healthz", "/-/status", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(
		http.MethodPost, "/alerts", strings.NewReader(`{"alerts":[]}`),
	))

	expected := `
# HELP http_requests_total Total amount of http requests
# TYPE http_requests_total counter
http_requests_total 3
`
	require.NoError(t, testutil.GatherAndCompare(reg.Gatherer(), strings.NewReader(expected), "http_requests_total"))
}

func TestServer_Name(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(slog.Default(), http.NotFoundHandler(), "")

	require.Equal(t, "http-server", srv.Name())
	require.Empty(t, srv.Addr())
}

func TestServer_Lifecycle(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t, newRunningState(t))
	srv := httpserver.New(slog.Default(), router, "0")

	require.Error(t, srv.Ping(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Start(ctx))

	select {
	case <-srv.Ready():
	case <-time.After(time.Second):
		t.Fatal("server did not become ready")
	}

	require.NoError(t, srv.Ping(t.Context()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+srv.Addr()+"/health", http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, "OK", string(body))

	waitCtx, waitCancel := context.WithCancel(t.Context())
	waitCancel()
	require.NoError(t, srv.Wait(waitCtx))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	require.NoError(t, srv.Shutdown(shutdownCtx))
	require.NoError(t, srv.Shutdown(shutdownCtx))
}

func TestServer_StartPortInUse(t *testing.T) {
	t.Parallel()

	first := httpserver.New(slog.Default(), http.NotFoundHandler(), "0")
	require.NoError(t, first.Start(t.Context()))

	t.Cleanup(func() {
		_ = first.Shutdown(context.Background())
	})

	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)

	second := httpserver.New(slog.Default(), http.NotFoundHandler(), port)
	require.Error(t, second.Start(t.Context()))
}
