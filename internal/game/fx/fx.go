// Package fx defines the presentation collaborator the combat core drives:
// animation sections, sounds, particles, hit numbers and item pulses.
//
// Every call is fire-and-forget; the combat core never consumes a result.
package fx

import (
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/geom"
)

// Presenter receives cosmetic requests from the combat core.
type Presenter interface {
	// PlayMontage requests that actor play section of montage at rate.
	PlayMontage(actor damage.Actor, montage, section string, rate float64)
	// PauseAnimations freezes actor's animation.
	PauseAnimations(actor damage.Actor)
	// PlaySound plays sound at a world location.
	PlaySound(sound string, at geom.Vec3)
	// SpawnParticles spawns the particle system ref at a world location.
	SpawnParticles(ref string, at geom.Vec3)
	// SpawnBeam draws a bullet beam between two world points.
	SpawnBeam(from, to geom.Vec3)
	// ShowHitNumber displays a floating damage number over enemy.
	ShowHitNumber(enemy damage.Actor, amount float64, at geom.Vec3, headshot bool)
	// SetHealthBarVisible toggles the enemy's health bar widget.
	SetHealthBarVisible(enemy damage.Actor, visible bool)
	// PulseItem restarts the glow pulse on a dropped item.
	PulseItem(itemID string)
}

// Nop discards every request.
type Nop struct{}

func (Nop) PlayMontage(damage.Actor, string, string, float64)    {}
func (Nop) PauseAnimations(damage.Actor)                         {}
func (Nop) PlaySound(string, geom.Vec3)                          {}
func (Nop) SpawnParticles(string, geom.Vec3)                     {}
func (Nop) SpawnBeam(geom.Vec3, geom.Vec3)                       {}
func (Nop) ShowHitNumber(damage.Actor, float64, geom.Vec3, bool) {}
func (Nop) SetHealthBarVisible(damage.Actor, bool)               {}
func (Nop) PulseItem(string)                                     {}
