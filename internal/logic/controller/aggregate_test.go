package controller_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/scaligator/internal/logic/controller"
)

func TestOwnerName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		givePod   string
		wantOwner string
	}{
		{givePod: "web-7d9f8c6b5-xk2pl", wantOwner: "web"},
		{givePod: "api-gateway-5c6d7e8f9-abcde", wantOwner: "api-gateway"},
		{givePod: "web-abc-1", wantOwner: "web"},
		{givePod: "web-abc", wantOwner: "web"},
		{givePod: "web", wantOwner: "web"},
		{givePod: "", wantOwner: ""},
	}

	for _, tt := range tests {
		t.Run(tt.givePod, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.wantOwner, controller.OwnerName(tt.givePod))
		})
	}
}

type aggregateCase struct {
	name          string
	giveUsage     controller.Usage
	giveWorkloads []string
	wantUsage     controller.WorkloadUsage
	wantInvalid   []string
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	errBad := errors.New("bad value")

	tests := []aggregateCase{
		{
			name: "mean per workload",
			giveUsage: controller.Usage{
				"web-abc-1": {CPU: 0.9},
				"web-abc-2": {CPU: 0.5},
				"db-xyz-1":  {CPU: 0.3},
			},
			giveWorkloads: []string{"web", "db"},
			wantUsage: controller.WorkloadUsage{
				"web": 0.7,
				"db":  0.3,
			},
		},
		{
			name: "unmatched pods are ignored",
			giveUsage: controller.Usage{
				"web-abc-1":          {CPU: 0.4},
				"cronjob-123-abcde":  {CPU: 2.0},
				"standalone":         {CPU: 1.0},
				"other-7d9f8c6b5-xk": {CPU: 1.0},
			},
			giveWorkloads: []string{"web"},
			wantUsage: controller.WorkloadUsage{
				"web": 0.4,
			},
		},
		{
			name: "workload without samples is omitted",
			giveUsage: controller.Usage{
				"web-abc-1": {CPU: 0.0},
			},
			giveWorkloads: []string{"web", "idle"},
			wantUsage: controller.WorkloadUsage{
				"web": 0.0,
			},
		},
		{
			name: "invalid samples are skipped and reported",
			giveUsage: controller.Usage{
				"web-abc-1": {CPU: 0.8},
				"web-abc-2": {Err: errBad},
				"db-xyz-1":  {Err: errBad},
			},
			giveWorkloads: []string{"web", "db"},
			wantUsage: controller.WorkloadUsage{
				"web": 0.8,
			},
			wantInvalid: []string{"db-xyz-1", "web-abc-2"},
		},
		{
			name:          "empty usage",
			giveUsage:     controller.Usage{},
			giveWorkloads: []string{"web"},
			wantUsage:     controller.WorkloadUsage{},
		},
		{
			name:          "nil usage",
			giveUsage:     nil,
			giveWorkloads: nil,
			wantUsage:     controller.WorkloadUsage{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, invalid := controller.Aggregate(tt.giveUsage, tt.giveWorkloads)

			if diff := cmp.Diff(tt.wantUsage, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Aggregate() usage mismatch (-want +got):\n%s", diff)
			}

			require.Equal(t, tt.wantInvalid, invalid)
		})
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	t.Parallel()

	usage := controller.Usage{
		"web-a-1": {CPU: 0.1},
		"web-a-2": {CPU: 0.2},
		"web-a-3": {CPU: 0.3},
		"web-b-4": {CPU: 0.7},
		"api-c-1": {CPU: 1.0 / 3},
		"api-c-2": {CPU: 2.0 / 7},
	}
	workloads := []string{"web", "api"}

	first, _ := controller.Aggregate(usage, workloads)

	for range 50 {
		again, _ := controller.Aggregate(usage, workloads)
		require.Equal(t, first, again)
	}
}
