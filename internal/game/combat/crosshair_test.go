package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/shooter/internal/game/combat"
	"github.com/cory-johannsen/shooter/internal/game/geom"
)

const frame = 1.0 / 60

func TestCrosshair_AtRest(t *testing.T) {
	var c combat.Crosshair
	assert.InDelta(t, 0.5, c.Update(frame, combat.Motion{}, false, false), 1e-9)
}

func TestCrosshair_VelocityMapsFromWalkSpeed(t *testing.T) {
	var c combat.Crosshair
	c.Update(frame, combat.Motion{Velocity: geom.Vec3{X: 300, Z: -900}}, false, false)
	assert.InDelta(t, 0.5, c.Velocity, 1e-9, "vertical speed is ignored")

	c.Update(frame, combat.Motion{Velocity: geom.Vec3{X: 5000}}, false, false)
	assert.InDelta(t, 1.0, c.Velocity, 1e-9)
}

func TestCrosshair_FactorsConverge(t *testing.T) {
	var c combat.Crosshair
	for i := 0; i < 600; i++ {
		c.Update(frame, combat.Motion{InAir: true}, true, true)
	}
	assert.InDelta(t, 2.25, c.InAir, 1e-3)
	assert.InDelta(t, 0.6, c.Aim, 1e-3)
	assert.InDelta(t, 0.3, c.Shooting, 1e-3)
	assert.InDelta(t, 0.5+2.25-0.6+0.3, c.Spread(), 1e-2)

	for i := 0; i < 120; i++ {
		c.Update(frame, combat.Motion{}, false, false)
	}
	assert.InDelta(t, 0.5, c.Spread(), 1e-3)
}

func TestCrosshair_InAirRisesSlowerThanItLands(t *testing.T) {
	var rise combat.Crosshair
	rise.Update(frame, combat.Motion{InAir: true}, false, false)

	land := combat.Crosshair{InAir: 2.25}
	land.Update(frame, combat.Motion{}, false, false)

	assert.Less(t, rise.InAir, 2.25-land.InAir)
}

// TestProperty_Crosshair_SpreadBounded asserts the spread stays within the
// range reachable from its factor targets.
func TestProperty_Crosshair_SpreadBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var c combat.Crosshair
		steps := rapid.IntRange(1, 200).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			m := combat.Motion{
				Velocity: geom.Vec3{X: rapid.Float64Range(-2000, 2000).Draw(rt, "vx")},
				InAir:    rapid.Bool().Draw(rt, "air"),
			}
			dt := rapid.Float64Range(0, 0.1).Draw(rt, "dt")
			s := c.Update(dt, m, rapid.Bool().Draw(rt, "aim"), rapid.Bool().Draw(rt, "shoot"))
			if s < 0.5-0.6-1e-9 || s > 0.5+1+2.25+0.3+1e-9 {
				rt.Fatalf("spread %v out of range", s)
			}
		}
	})
}
