package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShutdown_NewestFirst(t *testing.T) {
	m := New(time.Second, zap.NewNop())

	var order []string
	m.Register("store", func(context.Context) error {
		order = append(order, "store")
		return nil
	})
	m.Register("http_server", func(context.Context) error {
		order = append(order, "http_server")
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "store"}, order)
}

func TestShutdown_FailingHookDoesNotBlockOthers(t *testing.T) {
	m := New(time.Second, zap.NewNop())

	stopped := false
	m.Register("store", func(context.Context) error {
		stopped = true
		return nil
	})
	m.Register("http_server", func(context.Context) error {
		return assert.AnError
	})

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "http_server")
	assert.True(t, stopped)
}

func TestShutdown_SecondCallIsNoOp(t *testing.T) {
	m := New(time.Second, zap.NewNop())

	calls := 0
	m.Register("store", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestShutdown_HooksSeeGraceDeadline(t *testing.T) {
	m := New(50*time.Millisecond, zap.NewNop())

	var deadline time.Time
	m.Register("store", func(ctx context.Context) error {
		d, ok := ctx.Deadline()
		require.True(t, ok)
		deadline = d
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 40*time.Millisecond)
}

func TestRegister_IgnoresNilAndLateHooks(t *testing.T) {
	m := New(time.Second, zap.NewNop())

	m.Register("noop", nil)
	require.NoError(t, m.Shutdown(context.Background()))

	late := false
	m.Register("late", func(context.Context) error {
		late = true
		return nil
	})
	require.NoError(t, m.Shutdown(context.Background()))
	assert.False(t, late)
}
