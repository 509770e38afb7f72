// Package ai holds the typed fact channel between an enemy's combat controller
// and the external AI driver that decides movement and attacks.
//
// The combat core is the only writer; the driver reads through View.
package ai

import (
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/geom"
)

// Facts is the full set of values an AI driver may read for one enemy.
type Facts struct {
	CanAttack     bool
	InAttackRange bool
	Stunned       bool
	Dead          bool
	CharacterDead bool
	Target        damage.Actor
	PatrolPoint   geom.Vec3
	PatrolPoint2  geom.Vec3
}

// HasTarget reports whether a target has been published.
func (f Facts) HasTarget() bool { return !f.Target.IsNone() }

// View is the read-only side of a Blackboard handed to the AI driver.
type View interface {
	// Facts returns the last published snapshot.
	Facts() Facts
	// Version increases by one on every publication that changed a fact.
	Version() uint64
}

// Blackboard stages writes from the combat controller and publishes them in
// one step at the end of a tick, so the driver never observes a half-applied
// frame.
//
// Invariant: Facts() only changes inside Publish.
type Blackboard struct {
	staged    Facts
	published Facts
	version   uint64
}

// NewBlackboard returns a Blackboard whose staged and published facts are
// both initial.
func NewBlackboard(initial Facts) *Blackboard {
	return &Blackboard{staged: initial, published: initial}
}

// Staged returns the facts written since the last publication.
func (b *Blackboard) Staged() Facts { return b.staged }

// Facts returns the published snapshot.
func (b *Blackboard) Facts() Facts { return b.published }

// Version returns the publication counter.
func (b *Blackboard) Version() uint64 { return b.version }

func (b *Blackboard) SetCanAttack(v bool)          { b.staged.CanAttack = v }
func (b *Blackboard) SetInAttackRange(v bool)      { b.staged.InAttackRange = v }
func (b *Blackboard) SetStunned(v bool)            { b.staged.Stunned = v }
func (b *Blackboard) SetDead(v bool)               { b.staged.Dead = v }
func (b *Blackboard) SetCharacterDead(v bool)      { b.staged.CharacterDead = v }
func (b *Blackboard) SetTarget(a damage.Actor)     { b.staged.Target = a }
func (b *Blackboard) SetPatrolPoints(p1, p2 geom.Vec3) {
	b.staged.PatrolPoint = p1
	b.staged.PatrolPoint2 = p2
}

// Publish copies the staged facts into the readable snapshot.
//
// Postcondition: Facts() == Staged(); Version() is incremented iff the
// snapshot changed. Returns whether it changed.
func (b *Blackboard) Publish() bool {
	if b.staged == b.published {
		return false
	}
	b.published = b.staged
	b.version++
	return true
}
