package arena

import (
	"github.com/cory-johannsen/shooter/internal/game/combat"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/inventory"
)

// HUD is the overlay state a renderer draws for the current frame.
type HUD struct {
	Spread    float64
	Crosshair combat.Crosshair
	// Loaded is the equipped weapon's magazine count, -1 when unarmed.
	Loaded int
	// Carried is the ammunition ledger by type.
	Carried     map[inventory.AmmoType]int
	SlideMoving bool
	// HealthBars maps each living enemy to its health bar scale.
	HealthBars map[string]float64
	// Falling lists the IDs of thrown weapons still in flight.
	Falling []string
}

// HUD samples the overlay state as of the last Tick.
func (a *Arena) HUD() HUD {
	p := a.player
	h := HUD{
		Spread:     p.CrosshairSpread(),
		Crosshair:  p.Crosshair(),
		Loaded:     -1,
		Carried:    make(map[inventory.AmmoType]int),
		HealthBars: make(map[string]float64),
	}
	if w := p.Equipped(); w != nil {
		h.Loaded = w.Ammo()
		h.SlideMoving = w.MovingSlide()
	}
	for _, t := range p.Ammo().Types() {
		h.Carried[t] = p.Ammo().Count(t)
	}
	camera := a.cameraOrigin(geom.ForwardFromYaw(p.Yaw))
	for _, e := range a.enemies.All() {
		if e.Dying() {
			continue
		}
		h.HealthBars[e.ID] = e.HealthBarScale(camera, p.Aiming())
	}
	for _, w := range a.WorldWeapons() {
		if w.Falling() {
			h.Falling = append(h.Falling, w.ID)
		}
	}
	return h
}
