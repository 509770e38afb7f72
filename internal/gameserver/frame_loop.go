// Package gameserver drives a combat encounter in real time.
package gameserver

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// FrameLoop invokes a tick callback at a fixed interval from a single
// goroutine.
//
// Invariant: the callback is never invoked concurrently with itself and
// always receives the configured interval as its frame delta.
type FrameLoop struct {
	interval time.Duration
	tick     func(dt time.Duration)
	logger   *zap.Logger
	frames   atomic.Uint64
	running  atomic.Bool
}

// NewFrameLoop returns a loop that calls tick every interval.
//
// Precondition: interval must be > 0; tick must not be nil.
func NewFrameLoop(interval time.Duration, tick func(dt time.Duration), logger *zap.Logger) *FrameLoop {
	if interval <= 0 {
		panic("gameserver.NewFrameLoop: interval must be > 0")
	}
	if tick == nil {
		panic("gameserver.NewFrameLoop: tick must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrameLoop{
		interval: interval,
		tick:     tick,
		logger:   logger.Named("frame_loop"),
	}
}

// Interval returns the frame length.
func (l *FrameLoop) Interval() time.Duration { return l.interval }

// Frames returns the number of ticks run so far.
func (l *FrameLoop) Frames() uint64 { return l.frames.Load() }

// Run ticks until ctx is cancelled. It blocks on the caller's goroutine.
//
// Precondition: Run must not already be running.
// Postcondition: returns nil once ctx is done; no tick is in flight.
func (l *FrameLoop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		panic("gameserver.FrameLoop.Run: already running")
	}
	defer l.running.Store(false)

	start := time.Now()
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	l.logger.Info("frame loop started", zap.Duration("interval", l.interval))
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("frame loop stopped",
				zap.Uint64("frames", l.frames.Load()),
				zap.Duration("uptime", time.Since(start)),
			)
			return nil
		case <-ticker.C:
			l.tick(l.interval)
			l.frames.Add(1)
		}
	}
}
