// Package sim scripts a self-running combat encounter: a player that shoots
// the nearest enemy and a blackboard-driven enemy controller.
package sim

import (
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/npc"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

// Locator resolves an actor to its current world position.
type Locator func(actor damage.Actor) (geom.Vec3, bool)

// SwingTiming is the contact window opened by each attack montage.
type SwingTiming struct {
	// Windup is the delay between the attack starting and the volume opening.
	Windup time.Duration
	// Contact is how long the volume stays open.
	Contact time.Duration
}

// DefaultSwingTiming returns the stock contact window.
func DefaultSwingTiming() SwingTiming {
	return SwingTiming{Windup: 300 * time.Millisecond, Contact: 250 * time.Millisecond}
}

// patrolArrival is how close an enemy must get to a patrol point before
// heading for the other one.
const patrolArrival = 25.0

// Driver decides movement and attacks for every enemy from its published
// facts only. It never reads enemy internals the blackboard does not carry.
type Driver struct {
	sched  *timer.Scheduler
	locate Locator
	swing  SwingTiming
	logger *zap.Logger

	// legs records which patrol point each enemy is walking to.
	legs map[string]bool
	// windows holds the pending contact window timers of each enemy.
	windows map[string][]timer.Handle
}

// NewDriver creates a Driver whose contact windows run on sched under each
// enemy's own timer owner.
//
// Precondition: sched and locate must not be nil.
func NewDriver(sched *timer.Scheduler, locate Locator, swing SwingTiming, logger *zap.Logger) *Driver {
	if sched == nil || locate == nil {
		panic("sim.NewDriver: sched and locate must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		sched:   sched,
		locate:  locate,
		swing:   swing,
		logger:  logger.Named("driver"),
		legs:    make(map[string]bool),
		windows: make(map[string][]timer.Handle),
	}
}

// Step advances every enemy's behavior by dt.
//
// Postcondition: a dead or stunned enemy neither moves nor attacks; an enemy
// whose target is in range and whose attack gate is open starts an attack.
func (d *Driver) Step(dt time.Duration, enemies []*npc.Enemy) {
	for _, e := range enemies {
		f := e.Blackboard().Facts()
		if f.Dead {
			delete(d.legs, e.ID)
			d.cancelWindows(e.ID)
			continue
		}
		if f.Stunned {
			continue
		}
		if !f.HasTarget() || f.CharacterDead {
			d.patrol(dt, e, f.PatrolPoint, f.PatrolPoint2)
			continue
		}
		pos, ok := d.locate(f.Target)
		if !ok {
			d.patrol(dt, e, f.PatrolPoint, f.PatrolPoint2)
			continue
		}
		face(e, pos)
		if f.InAttackRange {
			if f.CanAttack {
				d.attack(e)
			}
			continue
		}
		moveToward(e, pos, e.Template.Speed*dt.Seconds())
	}
}

func (d *Driver) attack(e *npc.Enemy) {
	section := e.RandomAttackSection()
	if !e.Attack(section) {
		return
	}
	side := npc.Right
	if strings.HasPrefix(section, "AttackL") {
		side = npc.Left
	}
	d.logger.Debug("attack", zap.String("enemy", e.ID), zap.String("section", section))
	opening := e.After("swing_open", d.swing.Windup, func() {
		if !e.Dying() && !e.Stunned() {
			e.ActivateWeapon(side)
		}
	})
	closing := e.After("swing_close", d.swing.Windup+d.swing.Contact, func() {
		e.DeactivateWeapon(side)
	})
	pending := d.windows[e.ID][:0]
	for _, h := range d.windows[e.ID] {
		if d.sched.Active(h) {
			pending = append(pending, h)
		}
	}
	d.windows[e.ID] = append(pending, opening, closing)
}

func (d *Driver) cancelWindows(id string) {
	for _, h := range d.windows[id] {
		d.sched.Cancel(h)
	}
	delete(d.windows, id)
}

func (d *Driver) patrol(dt time.Duration, e *npc.Enemy, p1, p2 geom.Vec3) {
	if p1 == p2 {
		return
	}
	goal := p1
	if d.legs[e.ID] {
		goal = p2
	}
	if e.Location.Dist(goal) <= patrolArrival {
		d.legs[e.ID] = !d.legs[e.ID]
		return
	}
	face(e, goal)
	moveToward(e, goal, e.Template.Speed*dt.Seconds())
}

// Stop cancels every contact window the driver has scheduled.
func (d *Driver) Stop() {
	for id := range d.windows {
		d.cancelWindows(id)
	}
}

func face(e *npc.Enemy, at geom.Vec3) {
	if yaw, ok := YawToward(e.Location, at); ok {
		e.Yaw = yaw
	}
}

func moveToward(e *npc.Enemy, goal geom.Vec3, step float64) {
	delta := goal.Sub(e.Location)
	delta.Z = 0
	dist := delta.Len()
	if dist == 0 || step <= 0 {
		return
	}
	if step > dist {
		step = dist
	}
	e.Location = e.Location.Add(delta.Scale(step / dist))
}

// YawToward returns the yaw in degrees that faces from toward to in the
// horizontal plane. ok is false when the points coincide horizontally.
func YawToward(from, to geom.Vec3) (float64, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx == 0 && dy == 0 {
		return 0, false
	}
	return math.Atan2(dy, dx) * 180 / math.Pi, true
}
