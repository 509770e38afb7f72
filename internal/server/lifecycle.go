// Package server runs the simulator's long-lived services and shuts them
// down together on a signal, a service failure or context cancellation.
package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Run blocks until ctx is cancelled or
// the service finishes on its own.
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context) error

// Run calls f.
func (f ServiceFunc) Run(ctx context.Context) error { return f(ctx) }

// ErrShutdownTimeout is returned when services are still running after the
// shutdown grace period.
var ErrShutdownTimeout = errors.New("services did not stop before the shutdown timeout")

// Lifecycle runs a group of services. The first service to return ends the
// group: every other service sees its context cancelled.
type Lifecycle struct {
	logger   *zap.Logger
	grace    time.Duration
	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a Lifecycle that waits up to grace for services to
// return after shutdown begins.
//
// Precondition: grace must be > 0.
func NewLifecycle(logger *zap.Logger, grace time.Duration) *Lifecycle {
	if grace <= 0 {
		panic("server.NewLifecycle: grace must be > 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lifecycle{logger: logger, grace: grace}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	if name == "" || svc == nil {
		panic("server.Lifecycle.Add: name and service are required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

type result struct {
	name string
	err  error
}

// Run starts every service and blocks until one returns, SIGINT or SIGTERM
// arrives, or ctx is done. It then cancels the rest and waits for them.
//
// Postcondition: returns the first service error, ErrShutdownTimeout when a
// service outlives the grace period, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan result, len(services))
	var wg sync.WaitGroup
	for _, ns := range services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.logger.Info("starting service", zap.String("service", ns.name))
			err := ns.service.Run(ctx)
			results <- result{name: ns.name, err: err}
		}()
	}
	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	var first error
	if len(services) > 0 {
		select {
		case r := <-results:
			first = l.record(r)
			if first == nil {
				l.logger.Info("service finished, shutting down", zap.String("service", r.name))
			}
		case <-ctx.Done():
			l.logger.Info("shutting down", zap.NamedError("cause", context.Cause(ctx)))
		}
	}
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(l.grace):
		l.logger.Error("shutdown timed out", zap.Duration("grace", l.grace))
		return ErrShutdownTimeout
	}
	close(results)
	for r := range results {
		err := l.record(r)
		if first == nil {
			first = err
		}
	}

	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return first
}

func (l *Lifecycle) record(r result) error {
	if r.err == nil || errors.Is(r.err, context.Canceled) {
		l.logger.Info("service stopped", zap.String("service", r.name))
		return nil
	}
	l.logger.Error("service failed", zap.String("service", r.name), zap.Error(r.err))
	return fmt.Errorf("service %s: %w", r.name, r.err)
}
