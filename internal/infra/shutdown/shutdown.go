// Package shutdown provides graceful shutdown handling.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler handles graceful shutdown. Teardown runs at most once,
// whether triggered by a signal or directly by the caller (the
// idle-exit path).
type Handler struct {
	timeout time.Duration
	hooks   []func(context.Context) error
	mu      sync.Mutex
	once    sync.Once
	sigOnce sync.Once
	sigCh   chan os.Signal
	done    chan struct{}
	err     error
}

// NewHandler creates a new shutdown handler.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		hooks:   make([]func(context.Context) error, 0),
		sigCh:   make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(hook func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Signal returns a channel that receives SIGINT/SIGTERM.
// Use it in select loops that also watch other exit conditions.
func (h *Handler) Signal() <-chan os.Signal {
	h.sigOnce.Do(func() {
		signal.Notify(h.sigCh, syscall.SIGINT, syscall.SIGTERM)
	})
	return h.sigCh
}

// Shutdown executes the registered hooks in reverse order, at most once.
// Subsequent calls return the result of the first run.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := make([]func(context.Context) error, len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](ctx); err != nil {
				h.err = err
			}
		}

		close(h.done)
	})

	<-h.done
	return h.err
}

// Wait waits for a shutdown signal and executes hooks.
func (h *Handler) Wait() error {
	<-h.Signal()
	return h.Shutdown()
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
