package services

import (
	"context"
	"time"

	"fintrack/internal/ledger"
	"fintrack/internal/notify"
)

// Option configures the shared dependencies of a service.
type Option func(*options)

type options struct {
	now        func() time.Time
	loc        *time.Location
	dispatcher *notify.Dispatcher
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the location used for calendar arithmetic.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithDispatcher sets where fire-and-forget emissions run.
func WithDispatcher(d *notify.Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

func (o options) clock() time.Time { return o.now().In(o.loc) }

// withinTx runs fn as a unit of work when the store supports it.
func withinTx(ctx context.Context, store ledger.Store, fn func(ledger.Store) error) error {
	if tx, ok := store.(ledger.Transactor); ok {
		return tx.WithinTx(ctx, fn)
	}
	return fn(store)
}
