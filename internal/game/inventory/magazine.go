package inventory

import "fmt"

// Magazine tracks loaded round count for one weapon instance.
// Invariant: 0 <= Loaded <= Capacity.
type Magazine struct {
	// WeaponID identifies the weapon this magazine belongs to.
	WeaponID string
	// Loaded is the number of rounds currently available.
	Loaded int
	// Capacity is the maximum number of rounds the magazine can hold.
	Capacity int
}

// NewMagazine returns a Magazine for weaponID holding loaded rounds.
//
// Precondition:  capacity > 0 and 0 <= loaded <= capacity (panics otherwise).
// Postcondition: Loaded == loaded, Capacity == capacity.
func NewMagazine(weaponID string, capacity, loaded int) *Magazine {
	if capacity <= 0 {
		panic(fmt.Sprintf("inventory: NewMagazine: capacity must be > 0, got %d", capacity))
	}
	if loaded < 0 || loaded > capacity {
		panic(fmt.Sprintf("inventory: NewMagazine: loaded must be in [0, %d], got %d", capacity, loaded))
	}
	return &Magazine{
		WeaponID: weaponID,
		Loaded:   loaded,
		Capacity: capacity,
	}
}

// IsEmpty returns true when Loaded <= 0.
//
// Postcondition: result == (Loaded <= 0).
func (m *Magazine) IsEmpty() bool {
	return m.Loaded <= 0
}

// IsFull returns true when Loaded >= Capacity.
func (m *Magazine) IsFull() bool {
	return m.Loaded >= m.Capacity
}

// EmptySpace returns Capacity - Loaded.
func (m *Magazine) EmptySpace() int {
	return m.Capacity - m.Loaded
}

// ConsumeOne removes one round, clamping at zero.
//
// Postcondition: returns false and leaves Loaded unchanged when empty;
// otherwise Loaded decreases by exactly 1 and returns true.
func (m *Magazine) ConsumeOne() bool {
	if m.Loaded <= 0 {
		m.Loaded = 0
		return false
	}
	m.Loaded--
	return true
}

// Load inserts n rounds.
//
// Precondition:  n >= 0 and Loaded+n <= Capacity. Violation means the caller's
// ammo accounting is broken, so Load panics rather than clamping.
// Postcondition: Loaded increases by n.
func (m *Magazine) Load(n int) {
	if n < 0 {
		panic(fmt.Sprintf("inventory: Magazine.Load: n must be >= 0, got %d", n))
	}
	if m.Loaded+n > m.Capacity {
		panic(fmt.Sprintf("inventory: Magazine.Load: %d + %d exceeds capacity %d for weapon %q",
			m.Loaded, n, m.Capacity, m.WeaponID))
	}
	m.Loaded += n
}
