package combat

import "github.com/cory-johannsen/shooter/internal/game/geom"

const (
	spreadBase = 0.5

	walkSpeedMax = 600.0

	inAirTarget    = 2.25
	inAirRiseRate  = 3.0
	inAirLandRate  = 30.0
	aimTarget      = 0.6
	aimRate        = 30.0
	shootingTarget = 0.3
	shootingRate   = 60.0
)

// Motion is the movement input sampled once per tick.
type Motion struct {
	Velocity geom.Vec3
	InAir    bool
}

// Crosshair tracks the four spread factors. Each factor eases toward its
// target independently.
type Crosshair struct {
	Velocity float64
	InAir    float64
	Aim      float64
	Shooting float64
}

// Update advances every factor by dt seconds and returns the new spread.
func (c *Crosshair) Update(dt float64, m Motion, aiming, shooting bool) float64 {
	c.Velocity = geom.MapRangeClamped(m.Velocity.Len2D(), 0, walkSpeedMax, 0, 1)

	if m.InAir {
		c.InAir = geom.InterpTo(c.InAir, inAirTarget, dt, inAirRiseRate)
	} else {
		c.InAir = geom.InterpTo(c.InAir, 0, dt, inAirLandRate)
	}

	aimGoal := 0.0
	if aiming {
		aimGoal = aimTarget
	}
	c.Aim = geom.InterpTo(c.Aim, aimGoal, dt, aimRate)

	shootGoal := 0.0
	if shooting {
		shootGoal = shootingTarget
	}
	c.Shooting = geom.InterpTo(c.Shooting, shootGoal, dt, shootingRate)

	return c.Spread()
}

// Spread returns the crosshair spread multiplier.
func (c Crosshair) Spread() float64 {
	return spreadBase + c.Velocity + c.InAir - c.Aim + c.Shooting
}
