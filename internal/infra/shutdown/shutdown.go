// Package shutdown coordinates graceful process termination.
package shutdown

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook releases one component. It should return once ctx expires.
type Hook func(ctx context.Context) error

// Handler runs shutdown hooks.
type Handler struct {
	timeout time.Duration

	mu    sync.Mutex
	hooks []namedHook

	trigger     chan struct{}
	triggerOnce sync.Once
	done        chan struct{}
}

type namedHook struct {
	name string
	fn   Hook
}

// NewHandler creates a handler whose hooks share a deadline of timeout.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		trigger: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a hook. Hooks run in reverse order of registration.
func (h *Handler) OnShutdown(name string, hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, namedHook{name: name, fn: hook})
}

// Trigger starts shutdown without a signal. Extra calls are ignored.
func (h *Handler) Trigger() {
	h.triggerOnce.Do(func() { close(h.trigger) })
}

// Wait blocks until a termination signal, Trigger or cancellation of ctx,
// then runs every hook. Hook failures are joined and annotated with the
// hook name.
func (h *Handler) Wait(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
	case <-h.trigger:
	}

	return h.run()
}

func (h *Handler) run() error {
	defer close(h.done)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]namedHook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(ctx); err != nil {
			errs = append(errs, &HookError{Name: hooks[i].name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Done is closed after every hook has returned.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// HookError reports a failed hook.
type HookError struct {
	Name string
	Err  error
}

func (e *HookError) Error() string {
	return "shutdown " + e.Name + ": " + e.Err.Error()
}

func (e *HookError) Unwrap() error {
	return e.Err
}

