package inventory

import (
	"fmt"
	"sort"
)

// AmmoType is the ammunition category a weapon consumes.
type AmmoType string

const (
	// Ammo9mm feeds pistols and submachine guns.
	Ammo9mm AmmoType = "9mm"
	// AmmoAR feeds assault rifles.
	AmmoAR AmmoType = "ar"
)

// Valid reports whether t is a known ammunition category.
func (t AmmoType) Valid() bool {
	return t == Ammo9mm || t == AmmoAR
}

// AmmoLedger maps ammunition category to the number of rounds carried outside
// of any magazine.
//
// Invariant: every count is >= 0.
type AmmoLedger struct {
	counts map[AmmoType]int
}

// NewAmmoLedger returns a ledger seeded with the given starting counts.
//
// Precondition: every starting count is >= 0 (panics otherwise).
func NewAmmoLedger(start map[AmmoType]int) *AmmoLedger {
	l := &AmmoLedger{counts: make(map[AmmoType]int, len(start))}
	for t, n := range start {
		if n < 0 {
			panic(fmt.Sprintf("inventory: NewAmmoLedger: count for %q must be >= 0, got %d", t, n))
		}
		l.counts[t] = n
	}
	return l
}

// Count returns the rounds carried of type t.
func (l *AmmoLedger) Count(t AmmoType) int {
	return l.counts[t]
}

// Carrying reports whether at least one round of type t is carried.
func (l *AmmoLedger) Carrying(t AmmoType) bool {
	return l.counts[t] > 0
}

// Add increases the count for t by n.
//
// Precondition: n >= 0 (panics otherwise).
// Postcondition: Count(t) increased by n.
func (l *AmmoLedger) Add(t AmmoType, n int) {
	if n < 0 {
		panic(fmt.Sprintf("inventory: AmmoLedger.Add: n must be >= 0, got %d", n))
	}
	l.counts[t] += n
}

// Take removes up to n rounds of type t and returns how many were removed.
//
// Precondition: n >= 0 (panics otherwise).
// Postcondition: 0 <= result <= n; Count(t) decreased by result and stays >= 0.
func (l *AmmoLedger) Take(t AmmoType, n int) int {
	if n < 0 {
		panic(fmt.Sprintf("inventory: AmmoLedger.Take: n must be >= 0, got %d", n))
	}
	have := l.counts[t]
	if n > have {
		n = have
	}
	l.counts[t] = have - n
	return n
}

// ReloadInto transfers min(w's empty magazine space, carried rounds of w's
// ammo type) from the ledger into w's magazine.
//
// Precondition: w must not be nil.
// Postcondition: the magazine and the ledger change by the same amount, which
// is returned. Neither bound is ever exceeded.
func (l *AmmoLedger) ReloadInto(w *Weapon) int {
	t := w.AmmoType()
	amount := min(w.EmptySpace(), l.Count(t))
	if amount <= 0 {
		return 0
	}
	w.Reload(amount)
	l.counts[t] -= amount
	return amount
}

// Types returns every ammunition type with a ledger entry, sorted.
func (l *AmmoLedger) Types() []AmmoType {
	out := make([]AmmoType, 0, len(l.counts))
	for t := range l.counts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
