package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var order []string
	for _, name := range []string{"redis", "http", "watcher"} {
		h.OnShutdown(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	h.Trigger()
	require.NoError(t, h.Wait(context.Background()))
	assert.Equal(t, []string{"watcher", "http", "redis"}, order)

	select {
	case <-h.Done():
	default:
		t.Fatal("done not closed")
	}
}

func TestHandler_JoinsErrors(t *testing.T) {
	h := NewHandler(time.Second)
	boom := errors.New("boom")

	h.OnShutdown("ok", func(context.Context) error { return nil })
	h.OnShutdown("bad", func(context.Context) error { return boom })

	h.Trigger()
	err := h.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "shutdown bad: boom")

	var he *HookError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "bad", he.Name)
}

func TestHandler_ContextCancel(t *testing.T) {
	h := NewHandler(time.Second)
	ran := false
	h.OnShutdown("x", func(context.Context) error { ran = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, h.Wait(ctx))
	assert.True(t, ran)
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(20 * time.Millisecond)
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	h.Trigger()
	h.Trigger()
	err := h.Wait(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
