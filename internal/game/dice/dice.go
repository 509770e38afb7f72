// Package dice provides the randomness abstraction used by the combat core:
// stun rolls, hit-reaction cooldowns, throw impulses and attack selection.
package dice

import "fmt"

// Source is the randomness provider for all combat draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// Draw records a single random draw for audit logging.
//
// Postcondition: Lo <= Value <= Hi.
type Draw struct {
	Label string  // what the draw decides, e.g. "enemy_stun"
	Lo    float64 // inclusive lower bound
	Hi    float64 // upper bound
	Value float64 // the drawn value
}

// String returns a human-readable audit string such as "enemy_stun [0, 1] = 0.42".
func (d Draw) String() string {
	return fmt.Sprintf("%s [%g, %g] = %.4f", d.Label, d.Lo, d.Hi, d.Value)
}

// FRandRange returns a uniform float in [lo, hi] drawn from src.
//
// Precondition: src must be non-nil; lo <= hi.
// Postcondition: lo <= result <= hi.
func FRandRange(src Source, lo, hi float64) float64 {
	if hi < lo {
		panic(fmt.Sprintf("dice: FRandRange called with hi %g < lo %g", hi, lo))
	}
	return lo + src.Float64()*(hi-lo)
}

// RandRange returns a uniform int in [lo, hi] inclusive drawn from src.
//
// Precondition: src must be non-nil; lo <= hi.
// Postcondition: lo <= result <= hi.
func RandRange(src Source, lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("dice: RandRange called with hi %d < lo %d", hi, lo))
	}
	return lo + src.Intn(hi-lo+1)
}
