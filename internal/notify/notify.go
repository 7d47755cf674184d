// Package notify emits one-way notifications without blocking the caller.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/core"
)

// Notifier delivers a notification to its recipient.
type Notifier interface {
	Notify(ctx context.Context, n core.Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n core.Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n core.Notification) error { return f(ctx, n) }

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n core.Notification) error {
	slog.InfoContext(ctx, "Notification",
		"user_id", n.UserID,
		"transaction_id", n.TransactionID,
		"kind", n.Kind,
		"message", n.Message)
	return nil
}

// Dispatcher runs emissions on detached goroutines. Each emission gets its
// own timeout and survives cancellation of the request context.
type Dispatcher struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

const defaultTimeout = 10 * time.Second

func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{timeout: timeout}
}

// Go starts fn and returns immediately. Failures are logged, never returned.
func (d *Dispatcher) Go(ctx context.Context, op string, fn func(context.Context) error) {
	if d == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "Background emission panicked", "op", op, "panic", r)
			}
		}()
		if err := fn(ctx); err != nil {
			slog.WarnContext(ctx, "Background emission failed", "op", op, "error", err)
		}
	}()
}

// Wait blocks until all started emissions finish.
func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}
