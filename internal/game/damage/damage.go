// Package damage defines the actor tagging and the generic damage application
// channel shared by player-on-enemy and enemy-on-player combat.
package damage

import (
	"fmt"

	"go.uber.org/zap"
)

// Kind distinguishes the closed set of actor variants the combat core reacts to.
type Kind int

const (
	// KindOther is any actor the combat core does not treat as a combatant.
	KindOther Kind = iota
	// KindPlayer is the player-controlled character.
	KindPlayer
	// KindEnemy is an autonomous enemy.
	KindEnemy
)

// String returns a human-readable kind label.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "other"
	}
}

// Actor is a tagged reference to a world actor, resolved once when a
// collision or trace event is produced.
type Actor struct {
	Kind Kind
	ID   string
}

// None is the zero Actor: no actor at all.
var None = Actor{}

// IsNone reports whether a refers to no actor.
func (a Actor) IsNone() bool { return a.ID == "" }

// String returns "kind:id".
func (a Actor) String() string {
	if a.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", a.Kind, a.ID)
}

// Target is anything that can receive damage through a Channel.
type Target interface {
	// Ref returns the actor reference of the damaged entity.
	Ref() Actor
	// TakeDamage applies amount and returns the damage actually accounted.
	TakeDamage(amount float64, instigator, causer Actor) float64
}

// Stunnable is an actor that may be stunned by melee contact.
type Stunnable interface {
	// StunChance returns the actor's current stun susceptibility in [0, 1].
	StunChance() float64
	// Stun requests a stun; returns false when the request was refused.
	Stun() bool
}

// Channel applies damage uniformly for every damage source.
type Channel interface {
	Apply(target Target, amount float64, instigator, causer Actor) float64
}

// Direct is the default Channel: it forwards damage straight to the target.
type Direct struct {
	logger *zap.Logger
}

// NewDirect returns a Direct channel.
//
// Postcondition: a nil logger is replaced by a no-op logger.
func NewDirect(logger *zap.Logger) *Direct {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Direct{logger: logger}
}

// Apply forwards amount to target.
//
// Postcondition: a nil target or a non-positive amount is a no-op returning 0.
func (d *Direct) Apply(target Target, amount float64, instigator, causer Actor) float64 {
	if target == nil {
		d.logger.Debug("damage skipped: nil target", zap.Stringer("instigator", instigator))
		return 0
	}
	if amount <= 0 {
		return 0
	}
	applied := target.TakeDamage(amount, instigator, causer)
	d.logger.Debug("damage applied",
		zap.Stringer("target", target.Ref()),
		zap.Stringer("instigator", instigator),
		zap.Stringer("causer", causer),
		zap.Float64("amount", applied),
	)
	return applied
}
