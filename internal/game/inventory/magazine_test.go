package inventory_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/shooter/internal/game/inventory"
)

// TestMagazine_NewMagazine_Loaded verifies that NewMagazine stores the
// requested loaded count and capacity.
func TestMagazine_NewMagazine_Loaded(t *testing.T) {
	m := inventory.NewMagazine("pistol", 15, 10)
	if m.Loaded != 10 {
		t.Fatalf("expected Loaded=10, got %d", m.Loaded)
	}
	if m.Capacity != 15 {
		t.Fatalf("expected Capacity=15, got %d", m.Capacity)
	}
	if m.EmptySpace() != 5 {
		t.Fatalf("expected EmptySpace=5, got %d", m.EmptySpace())
	}
}

// TestMagazine_ConsumeOne_ClampsAtZero verifies that consuming from an empty
// magazine leaves it at zero and reports failure.
func TestMagazine_ConsumeOne_ClampsAtZero(t *testing.T) {
	m := inventory.NewMagazine("pistol", 2, 1)
	if !m.ConsumeOne() {
		t.Fatal("expected first ConsumeOne to succeed")
	}
	if m.ConsumeOne() {
		t.Fatal("expected ConsumeOne on empty magazine to fail")
	}
	if m.Loaded != 0 {
		t.Fatalf("expected Loaded=0, got %d", m.Loaded)
	}
}

// TestMagazine_Load_PanicsOnOverflow verifies that loading past capacity is
// treated as a programming error.
func TestMagazine_Load_PanicsOnOverflow(t *testing.T) {
	m := inventory.NewMagazine("smg", 30, 25)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on overflow, got none")
		}
	}()
	m.Load(6)
}

// TestMagazine_Load_PanicsOnNegative verifies Load(-1) panics.
func TestMagazine_Load_PanicsOnNegative(t *testing.T) {
	m := inventory.NewMagazine("smg", 30, 25)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on negative load, got none")
		}
	}()
	m.Load(-1)
}

// TestMagazine_NewMagazine_PanicsOnZeroCapacity verifies NewMagazine panics
// when capacity is zero.
func TestMagazine_NewMagazine_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on capacity=0, got none")
		}
	}()
	_ = inventory.NewMagazine("pistol", 0, 0)
}

// TestProperty_Magazine_LoadedWithinBounds asserts Loaded ∈ [0, Capacity] for
// arbitrary consume/load sequences that respect the Load precondition.
func TestProperty_Magazine_LoadedWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 60).Draw(rt, "capacity")
		m := inventory.NewMagazine("w", capacity, rapid.IntRange(0, capacity).Draw(rt, "loaded"))
		ops := rapid.SliceOf(rapid.IntRange(-1, capacity)).Draw(rt, "ops")
		for _, op := range ops {
			if op < 0 {
				m.ConsumeOne()
			} else {
				m.Load(min(op, m.EmptySpace()))
			}
			if m.Loaded < 0 || m.Loaded > m.Capacity {
				rt.Fatalf("Loaded=%d out of range [0, %d]", m.Loaded, m.Capacity)
			}
		}
	})
}
