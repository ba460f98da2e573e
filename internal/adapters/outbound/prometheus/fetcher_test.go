package prometheus_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/scaligator/internal/adapters/outbound/prometheus"
	"github.com/skillcoder/scaligator/internal/logic/controller"
)

func newFetcher(t *testing.T, status int, body string) (*prometheus.Fetcher, *atomic.Value) {
	t.Helper()

	gotQuery := &atomic.Value{}
	gotQuery.Store("")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	fetcher, err := prometheus.New(slog.Default(), server.URL, time.Second)
	require.NoError(t, err)

	return fetcher, gotQuery
}

func TestCPUQuery(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		`rate(container_cpu_usage_seconds_total{namespace="default"}[2m])`,
		prometheus.CPUQuery("default"),
	)
	require.Equal(t,
		`rate(container_cpu_usage_seconds_total{namespace="a\"b"}[2m])`,
		prometheus.CPUQuery(`a"b`),
	)
}

func TestFetcher_FetchUsageQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		giveStatus  int
		giveBody    string
		wantErr     bool
		wantCPU     map[string]float64
		wantInvalid []string
	}{
		{
			name:       "vector result",
			giveStatus: http.StatusOK,
			giveBody: `{"status":"success","data":{"resultType":"vector","result":[
				{"metric":{"pod":"web-abc-1","namespace":"default"},"value":[1700000000.1,"0.9"]},
				{"metric":{"pod":"web-abc-2","namespace":"default"},"value":[1700000000.1,"0.5"]}
			]}}`,
			wantCPU: map[string]float64{"web-abc-1": 0.9, "web-abc-2": 0.5},
		},
		{
			name:       "empty result",
			giveStatus: http.StatusOK,
			giveBody:   `{"status":"success","data":{"resultType":"vector","result":[]}}`,
			wantCPU:    map[string]float64{},
		},
		{
			name:       "series without pod label dropped",
			giveStatus: http.StatusOK,
			giveBody: `{"status":"success","data":{"resultType":"vector","result":[
				{"metric":{"namespace":"default"},"value":[1700000000,"0.4"]},
				{"metric":{"pod":"api-x-y"},"value":[1700000000,"0.1"]}
			]}}`,
			wantCPU: map[string]float64{"api-x-y": 0.1},
		},
		{
			name:       "later duplicate wins",
			giveStatus: http.StatusOK,
			giveBody: `{"status":"success","data":{"resultType":"vector","result":[
				{"metric":{"pod":"web-a-b","container":"app"},"value":[1700000000,"0.2"]},
				{"metric":{"pod":"web-a-b","container":"sidecar"},"value":[1700000000,"0.6"]}
			]}}`,
			wantCPU: map[string]float64{"web-a-b": 0.6},
		},
		{
			name:       "unusable values become invalid samples",
			giveStatus: http.StatusOK,
			giveBody: `{"status":"success","data":{"resultType":"vector","result":[
				{"metric":{"pod":"nan-a-b"},"value":[1700000000,"NaN"]},
				{"metric":{"pod":"inf-a-b"},"value":[1700000000,"+Inf"]},
				{"metric":{"pod":"neg-a-b"},"value":[1700000000,"-0.5"]},
				{"metric":{"pod":"txt-a-b"},"value":[1700000000,"abc"]},
				{"metric":{"pod":"short-a-b"},"value":[1700000000]},
				{"metric":{"pod":"ok-a-b"},"value":[1700000000,"0"]}
			]}}`,
			wantCPU:     map[string]float64{"ok-a-b": 0},
			wantInvalid: []string{"nan-a-b", "inf-a-b", "neg-a-b", "txt-a-b", "short-a-b"},
		},
		{
			name:       "error status",
			giveStatus: http.StatusBadRequest,
			giveBody:   `{"status":"error","errorType":"bad_data","error":"parse error"}`,
			wantErr:    true,
		},
		{
			name:       "error in body with ok status",
			giveStatus: http.StatusOK,
			giveBody:   `{"status":"error","errorType":"timeout","error":"query timed out"}`,
			wantErr:    true,
		},
		{
			name:       "missing data",
			giveStatus: http.StatusOK,
			giveBody:   `{"status":"success"}`,
			wantErr:    true,
		},
		{
			name:       "not json",
			giveStatus: http.StatusOK,
			giveBody:   `<html>`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fetcher, gotQuery := newFetcher(t, tt.giveStatus, tt.giveBody)

			got, err := fetcher.FetchUsageQuery(t.Context(), "default")
			require.Equal(t, prometheus.CPUQuery("default"), gotQuery.Load())

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.wantCPU)+len(tt.wantInvalid))

			for pod, cpu := range tt.wantCPU {
				require.NoError(t, got[pod].Err, pod)
				require.InDelta(t, cpu, got[pod].CPU, 1e-9, pod)
			}

			for _, pod := range tt.wantInvalid {
				require.ErrorIs(t, got[pod].Err, controller.ErrInvalidSample, pod)
			}
		})
	}
}

func TestFetcher_FetchUsageQuery_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	fetcher, err := prometheus.New(slog.Default(), address, time.Second)
	require.NoError(t, err)

	_, err = fetcher.FetchUsageQuery(t.Context(), "default")
	require.Error(t, err)
}

func TestFetcher_Ping(t *testing.T) {
	t.Parallel()

	fetcher, gotQuery := newFetcher(t, http.StatusOK,
		`{"status":"success","data":{"resultType":"vector","result":[{"metric":{},"value":[1700000000,"1"]}]}}`)

	require.NoError(t, fetcher.Ping(t.Context()))
	require.Equal(t, "vector(1)", gotQuery.Load())
	require.Equal(t, "prometheus", fetcher.Name())
	require.False(t, fetcher.PingerReadyCritical())

	broken, _ := newFetcher(t, http.StatusServiceUnavailable, `unavailable`)
	require.Error(t, broken.Ping(t.Context()))
}
