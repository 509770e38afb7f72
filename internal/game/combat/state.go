// Package combat implements the player-side combat coordinator and the
// two-stage hit-scan resolver.
package combat

import "fmt"

// CombatState is the player's action state. Only one of fire, reload or
// equip may be in flight at a time.
type CombatState int

const (
	Unoccupied CombatState = iota
	FireTimerInProgress
	Reloading
	Equipping
	Stunned
)

// String returns a human-readable state label.
func (s CombatState) String() string {
	switch s {
	case Unoccupied:
		return "unoccupied"
	case FireTimerInProgress:
		return "fire_timer_in_progress"
	case Reloading:
		return "reloading"
	case Equipping:
		return "equipping"
	case Stunned:
		return "stunned"
	default:
		return fmt.Sprintf("CombatState(%d)", int(s))
	}
}

// blocksAim reports whether s refuses aim-down-sights.
func (s CombatState) blocksAim() bool {
	return s == Reloading || s == Equipping || s == Stunned
}
