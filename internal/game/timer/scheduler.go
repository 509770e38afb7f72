// Package timer provides the per-entity game-time scheduler that drives every
// delayed effect in the combat core: fire cooldowns, reload and equip windows,
// stun recovery, attack cooldowns, death-to-destroy delays and cosmetic pulses.
//
// The scheduler is advanced explicitly from the frame loop; callbacks run on
// the caller's goroutine. It is NOT safe for concurrent use.
package timer

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// Owner identifies the entity a set of timers belongs to.
// Releasing an Owner invalidates every timer it owns.
//
// Invariant: the zero Owner is never issued by a Scheduler.
type Owner struct {
	id  uint64
	gen uint64
}

// Handle refers to one scheduled entry. The zero Handle refers to nothing.
type Handle struct {
	id uint64
}

// IsZero reports whether h was never assigned.
func (h Handle) IsZero() bool { return h.id == 0 }

type entry struct {
	id      uint64
	owner   Owner
	label   string
	started time.Duration
	due     time.Duration
	period  time.Duration // 0 for one-shot entries
	fn      func()
}

// Scheduler owns cancellable, generation-stamped timer entries.
//
// Invariant: an entry fires only while its owner's current generation equals
// the generation stamped on the entry at creation.
type Scheduler struct {
	now     time.Duration
	nextID  uint64
	entries map[uint64]*entry
	owners  map[uint64]uint64 // owner id → live generation
	logger  *zap.Logger
}

// NewScheduler returns an empty Scheduler positioned at game time zero.
//
// Postcondition: Now() == 0; no entries are pending.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		entries: make(map[uint64]*entry),
		owners:  make(map[uint64]uint64),
		logger:  logger,
	}
}

// Now returns the current game time.
func (s *Scheduler) Now() time.Duration { return s.now }

// NewOwner registers a new live owner.
//
// Postcondition: Alive(returned owner) is true.
func (s *Scheduler) NewOwner() Owner {
	s.nextID++
	o := Owner{id: s.nextID, gen: 1}
	s.owners[o.id] = o.gen
	return o
}

// Alive reports whether o has not been released.
func (s *Scheduler) Alive(o Owner) bool {
	gen, ok := s.owners[o.id]
	return ok && gen == o.gen
}

// Release invalidates o and drops every entry it owns. Safe to call more than once.
//
// Postcondition: no callback owned by o will run after Release returns.
func (s *Scheduler) Release(o Owner) {
	if !s.Alive(o) {
		return
	}
	delete(s.owners, o.id)
	dropped := 0
	for id, e := range s.entries {
		if e.owner.id == o.id {
			delete(s.entries, id)
			dropped++
		}
	}
	s.logger.Debug("timer owner released", zap.Uint64("owner", o.id), zap.Int("dropped", dropped))
}

// After schedules fn to run once, d after the current game time.
//
// Precondition: d >= 0; fn must not be nil; o must be alive.
// Postcondition: returns a valid Handle, or the zero Handle when o is not alive.
func (s *Scheduler) After(o Owner, label string, d time.Duration, fn func()) Handle {
	return s.add(o, label, d, 0, fn)
}

// Every schedules fn to run every period, first at now+period.
//
// Precondition: period > 0 (panics otherwise); fn must not be nil.
// Postcondition: returns a valid Handle, or the zero Handle when o is not alive.
func (s *Scheduler) Every(o Owner, label string, period time.Duration, fn func()) Handle {
	if period <= 0 {
		panic("timer: Scheduler.Every: period must be > 0")
	}
	return s.add(o, label, period, period, fn)
}

// Reset cancels the entry *h refers to (if any) and schedules a new one-shot
// entry in its place, mirroring "set timer on an existing handle".
//
// Precondition: h must not be nil.
// Postcondition: *h refers to the new entry.
func (s *Scheduler) Reset(h *Handle, o Owner, label string, d time.Duration, fn func()) {
	s.Cancel(*h)
	*h = s.After(o, label, d, fn)
}

// Cancel removes the entry h refers to. No-op for zero, fired or cancelled handles.
func (s *Scheduler) Cancel(h Handle) {
	delete(s.entries, h.id)
}

// Active reports whether h refers to a pending entry.
func (s *Scheduler) Active(h Handle) bool {
	_, ok := s.entries[h.id]
	return ok
}

// Elapsed returns how long h's current cycle has been running, or 0 when h is
// not active.
func (s *Scheduler) Elapsed(h Handle) time.Duration {
	e, ok := s.entries[h.id]
	if !ok {
		return 0
	}
	return s.now - e.started
}

// Pending returns the number of live entries.
func (s *Scheduler) Pending() int { return len(s.entries) }

// Advance moves game time forward by dt and runs every entry that comes due,
// in due-time order (ties broken by creation order).
//
// Entries created by callbacks during Advance first run on a later Advance,
// even when their due time has already passed.
//
// Precondition: dt >= 0.
// Postcondition: Now() has increased by dt.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		panic("timer: Scheduler.Advance: dt must be >= 0")
	}
	s.now += dt

	var due []*entry
	for _, e := range s.entries {
		if e.due <= s.now {
			due = append(due, e)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})

	for _, e := range due {
		// An earlier callback may have cancelled this entry or released its owner.
		if cur, ok := s.entries[e.id]; !ok || cur != e {
			continue
		}
		if !s.Alive(e.owner) {
			delete(s.entries, e.id)
			continue
		}
		if e.period > 0 {
			e.started = e.due
			e.due += e.period
		} else {
			delete(s.entries, e.id)
		}
		e.fn()
	}
}

func (s *Scheduler) add(o Owner, label string, d, period time.Duration, fn func()) Handle {
	if fn == nil {
		panic("timer: Scheduler: fn must not be nil")
	}
	if d < 0 {
		panic("timer: Scheduler: duration must be >= 0")
	}
	if !s.Alive(o) {
		s.logger.Debug("timer refused for released owner", zap.String("label", label))
		return Handle{}
	}
	s.nextID++
	e := &entry{
		id:      s.nextID,
		owner:   o,
		label:   label,
		started: s.now,
		due:     s.now + d,
		period:  period,
		fn:      fn,
	}
	s.entries[e.id] = e
	return Handle{id: e.id}
}
