package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type blockingService struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (b *blockingService) Run(ctx context.Context) error {
	b.started.Store(true)
	<-ctx.Done()
	b.stopped.Store(true)
	return nil
}

func runAsync(lc *Lifecycle, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()
	return done
}

func TestLifecycleStartsAndStopsServices(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	svc1 := &blockingService{}
	svc2 := &blockingService{}
	lc.Add("svc1", svc1)
	lc.Add("svc2", svc2)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(lc, ctx)

	require.Eventually(t, func() bool {
		return svc1.started.Load() && svc2.started.Load()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	assert.True(t, svc1.stopped.Load())
	assert.True(t, svc2.stopped.Load())
}

func TestLifecycleFinishedServiceStopsTheRest(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	other := &blockingService{}
	lc.Add("other", other)
	lc.Add("bounded", ServiceFunc(func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		return nil
	}))

	require.NoError(t, lc.Run(context.Background()))
	assert.True(t, other.stopped.Load())
}

func TestLifecycleReturnsServiceError(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t), time.Second)
	boom := errors.New("boom")
	other := &blockingService{}
	lc.Add("other", other)
	lc.Add("broken", ServiceFunc(func(context.Context) error { return boom }))

	err := lc.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service broken")
	assert.True(t, other.stopped.Load())
}

func TestLifecycleShutdownTimeout(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t), 20*time.Millisecond)
	release := make(chan struct{})
	defer close(release)
	lc.Add("stubborn", ServiceFunc(func(context.Context) error {
		<-release
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, lc.Run(ctx), ErrShutdownTimeout)
}

func TestServiceFunc(t *testing.T) {
	called := false
	svc := ServiceFunc(func(context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, svc.Run(context.Background()))
	assert.True(t, called)
}

func TestNewLifecyclePreconditions(t *testing.T) {
	assert.Panics(t, func() { NewLifecycle(nil, 0) })
	lc := NewLifecycle(nil, time.Second)
	assert.Panics(t, func() { lc.Add("", &blockingService{}) })
	assert.Panics(t, func() { lc.Add("svc", nil) })
}
