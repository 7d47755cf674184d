package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/core"
)

func TestDispatcherSurvivesCanceledRequest(t *testing.T) {
	d := NewDispatcher(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ctxErr atomic.Value
	var delivered atomic.Int32
	n := NotifierFunc(func(ctx context.Context, _ core.Notification) error {
		if ctx.Err() != nil {
			ctxErr.Store(ctx.Err())
		}
		delivered.Add(1)
		return nil
	})

	d.Go(ctx, "notify", func(ctx context.Context) error {
		return n.Notify(ctx, core.Notification{UserID: "UI-1", Message: "hi"})
	})
	d.Wait()

	assert.Equal(t, int32(1), delivered.Load())
	assert.Nil(t, ctxErr.Load(), "emission context must not inherit request cancellation")
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	d := NewDispatcher(0)
	d.Go(context.Background(), "fail", func(context.Context) error { return errors.New("broker down") })
	d.Go(context.Background(), "panic", func(context.Context) error { panic("boom") })
	d.Wait()
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	called := false
	d.Go(context.Background(), "x", func(context.Context) error { called = true; return nil })
	d.Wait()
	assert.False(t, called)
}

func TestLogNotifier(t *testing.T) {
	err := LogNotifier{}.Notify(context.Background(), core.Notification{UserID: "UI-1", Kind: core.NotifyDue})
	assert.NoError(t, err)
}
