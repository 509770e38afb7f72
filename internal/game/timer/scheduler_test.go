package timer_test

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/shooter/internal/game/timer"
)

func TestScheduler_After_FiresOnceWhenDue(t *testing.T) {
	s := timer.NewScheduler(nil)
	o := s.NewOwner()
	called := 0
	s.After(o, "reload", 100*time.Millisecond, func() { called++ })

	s.Advance(99 * time.Millisecond)
	if called != 0 {
		t.Fatalf("fired early: called=%d", called)
	}
	s.Advance(time.Millisecond)
	if called != 1 {
		t.Fatalf("expected 1 call at due time, got %d", called)
	}
	s.Advance(time.Second)
	if called != 1 {
		t.Fatalf("one-shot fired again: called=%d", called)
	}
}

func TestScheduler_Cancel_PreventsCallback(t *testing.T) {
	s := timer.NewScheduler(nil)
	o := s.NewOwner()
	called := false
	h := s.After(o, "fire", 50*time.Millisecond, func() { called = true })
	s.Cancel(h)
	s.Advance(time.Second)
	if called {
		t.Fatal("cancelled entry fired")
	}
	if s.Active(h) {
		t.Fatal("cancelled handle still active")
	}
}

func TestScheduler_Reset_ReplacesPendingEntry(t *testing.T) {
	s := timer.NewScheduler(nil)
	o := s.NewOwner()
	var fired []string
	var h timer.Handle
	s.Reset(&h, o, "first", 50*time.Millisecond, func() { fired = append(fired, "first") })
	s.Advance(30 * time.Millisecond)
	s.Reset(&h, o, "second", 50*time.Millisecond, func() { fired = append(fired, "second") })
	s.Advance(time.Second)
	if len(fired) != 1 || fired[0] != "second" {
		t.Fatalf("expected only second to fire, got %v", fired)
	}
}

func TestScheduler_Release_InvalidatesOwnerEntries(t *testing.T) {
	s := timer.NewScheduler(nil)
	dead := s.NewOwner()
	live := s.NewOwner()
	deadCalls, liveCalls := 0, 0
	s.After(dead, "destroy", 10*time.Millisecond, func() { deadCalls++ })
	s.Every(dead, "pulse", 10*time.Millisecond, func() { deadCalls++ })
	s.After(live, "attack", 10*time.Millisecond, func() { liveCalls++ })

	s.Release(dead)
	s.Release(dead)
	s.Advance(time.Second)

	if deadCalls != 0 {
		t.Fatalf("released owner's timers fired %d times", deadCalls)
	}
	if liveCalls != 1 {
		t.Fatalf("live owner's timer fired %d times, want 1", liveCalls)
	}
	if s.Alive(dead) {
		t.Fatal("released owner reported alive")
	}
	if h := s.After(dead, "late", time.Millisecond, func() { deadCalls++ }); !h.IsZero() {
		t.Fatal("scheduling on a released owner returned a live handle")
	}
}

func TestScheduler_ReleaseFromCallback_SkipsLaterEntries(t *testing.T) {
	s := timer.NewScheduler(nil)
	o := s.NewOwner()
	second := false
	s.After(o, "first", 10*time.Millisecond, func() { s.Release(o) })
	s.After(o, "second", 20*time.Millisecond, func() { second = true })
	s.Advance(time.Second)
	if second {
		t.Fatal("entry ran after its owner was released mid-advance")
	}
}

func TestScheduler_Every_RepeatsAndTracksElapsed(t *testing.T) {
	s := timer.NewScheduler(nil)
	o := s.NewOwner()
	calls := 0
	h := s.Every(o, "pulse", 100*time.Millisecond, func() { calls++ })
	for i := 0; i < 10; i++ {
		s.Advance(50 * time.Millisecond)
	}
	if calls != 5 {
		t.Fatalf("expected 5 pulses in 500ms, got %d", calls)
	}
	s.Advance(30 * time.Millisecond)
	if got := s.Elapsed(h); got != 30*time.Millisecond {
		t.Fatalf("Elapsed = %v, want 30ms", got)
	}
}

func TestScheduler_OrderByDueTime(t *testing.T) {
	s := timer.NewScheduler(nil)
	o := s.NewOwner()
	var order []string
	s.After(o, "late", 30*time.Millisecond, func() { order = append(order, "late") })
	s.After(o, "early", 10*time.Millisecond, func() { order = append(order, "early") })
	s.Advance(time.Second)
	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Fatalf("unexpected order %v", order)
	}
}

// TestProperty_Scheduler_NowIsSumOfAdvances verifies Now() tracks total advanced time.
func TestProperty_Scheduler_NowIsSumOfAdvances(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := timer.NewScheduler(nil)
		steps := rapid.SliceOf(rapid.Int64Range(0, int64(time.Second))).Draw(rt, "steps")
		var total time.Duration
		for _, st := range steps {
			s.Advance(time.Duration(st))
			total += time.Duration(st)
		}
		if s.Now() != total {
			rt.Fatalf("Now()=%v want %v", s.Now(), total)
		}
	})
}
