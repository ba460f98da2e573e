package appstate_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/scaligator/internal/infra/appstate"
	"github.com/skillcoder/scaligator/internal/infra/pinger"
	"github.com/skillcoder/scaligator/internal/infra/shutdown/mocks"
)

func newAppState(t *testing.T) (*appstate.AppState, *pinger.Service) {
	t.Helper()

	logger := slog.Default()
	pingerService := pinger.New(logger, time.Second, nil)

	return appstate.New(logger, time.Now(), pingerService), pingerService
}

func TestAppState_StateTransitions(t *testing.T) {
	t.Parallel()

	t.Run("init to starting", func(t *testing.T) {
		t.Parallel()

		s, _ := newAppState(t)
		require.NoError(t, s.SetStarting(t.Context()))
		require.Equal(t, appstate.StateStarting, s.GetState())
	})

	t.Run("starting to running", func(t *testing.T) {
		t.Parallel()

		s, _ := newAppState(t)
		require.NoError(t, s.SetStarting(t.Context()))
		require.NoError(t, s.SetRunning(t.Context()))
		require.Equal(t, appstate.StateRunning, s.GetState())
	})

	t.Run("running to terminating", func(t *testing.T) {
		t.Parallel()

		s, _ := newAppState(t)
		require.NoError(t, s.SetStarting(t.Context()))
		require.NoError(t, s.SetRunning(t.Context()))
		require.NoError(t, s.SetTerminating(t.Context()))
		require.Equal(t, appstate.StateTerminating, s.GetState())
	})

	t.Run("invalid: init to running", func(t *testing.T) {
		t.Parallel()

		s, _ := newAppState(t)
		err := s.SetRunning(t.Context())
		require.ErrorIs(t, err, appstate.ErrInvalidStateTransition)
		require.Equal(t, appstate.StateInit, s.GetState())
	})

	t.Run("invalid: terminated cannot change", func(t *testing.T) {
		t.Parallel()

		s, _ := newAppState(t)
		require.NoError(t, s.SetStarting(t.Context()))
		require.NoError(t, s.SetRunning(t.Context()))
		require.NoError(t, s.Shutdown(t.Context()))
		require.Equal(t, appstate.StateTerminated, s.GetState())

		require.Error(t, s.SetStarting(t.Context()))
		require.ErrorIs(t, s.SetTerminating(t.Context()), appstate.ErrAlreadyTerminated)
		require.Equal(t, appstate.StateTerminated, s.GetState())
	})
}

func TestAppState_QueryMethods(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	startTime := time.Now()
	s := appstate.New(slog.Default(), startTime, pinger.New(slog.Default(), time.Second, nil))

	require.Equal(t, appstate.StateInit, s.GetState())
	require.Equal(t, startTime, s.GetStartTime())
	require.False(t, s.IsHealthy())
	require.False(t, s.IsReady())

	require.NoError(t, s.SetStarting(ctx))
	require.False(t, s.IsReady())

	require.NoError(t, s.SetRunning(ctx))
	require.True(t, s.IsHealthy())
	require.True(t, s.IsReady())
	require.Empty(t, s.Components())
	require.Greater(t, s.GetUptime(), time.Duration(0))
}

func TestAppState_ReadyFollowsComponents(t *testing.T) {
	t.Parallel()

	s, _ := newAppState(t)

	require.NoError(t, s.RegisterPinger(failingPinger{}))
	require.NoError(t, s.SetStarting(t.Context()))
	require.NoError(t, s.SetRunning(t.Context()))

	// never pinged yet
	require.False(t, s.IsReady())
	require.True(t, s.IsHealthy())
	require.Contains(t, s.Components(), "failing")
}

func TestAppState_Shutdown(t *testing.T) {
	t.Parallel()

	s, _ := newAppState(t)

	var order []string

	for _, name := range []string{"first", "second"} {
		m := mocks.NewMockShutdowner(t)
		m.EXPECT().Name().Return(name).Once()
		m.EXPECT().Shutdown(mock.Anything).Run(func(context.Context) {
			order = append(order, name)
		}).Return(nil).Once()

		s.RegisterShutdowner(m)
	}

	require.NoError(t, s.SetStarting(t.Context()))
	require.NoError(t, s.SetRunning(t.Context()))

	require.NoError(t, s.Shutdown(t.Context()))
	require.Equal(t, appstate.StateTerminated, s.GetState())
	require.Equal(t, []string{"second", "first"}, order)

	// idempotent, components are not shut down twice
	require.NoError(t, s.Shutdown(t.Context()))
	require.Equal(t, appstate.StateTerminated, s.GetState())
}

func TestAppState_Shutdown_ComponentError(t *testing.T) {
	t.Parallel()

	s, _ := newAppState(t)
	errBoom := errors.New("boom")

	m := mocks.NewMockShutdowner(t)
	m.EXPECT().Name().Return("broken").Once()
	m.EXPECT().Shutdown(mock.Anything).Return(errBoom).Once()
	s.RegisterShutdowner(m)

	err := s.Shutdown(t.Context())
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, appstate.StateTerminated, s.GetState())
}

type failingPinger struct{}

func (failingPinger) Name() string { return "failing" }

func (failingPinger) Ping(context.Context) error { return errors.New("down") }
