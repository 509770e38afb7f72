package npc

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/ai"
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/dice"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

// State is the enemy's combat state, derived from its flags.
type State int

const (
	StatePassive State = iota
	StateAggroed
	StateStunned
	StateDying
	StateDead
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePassive:
		return "passive"
	case StateAggroed:
		return "aggroed"
	case StateStunned:
		return "stunned"
	case StateDying:
		return "dying"
	case StateDead:
		return "dead"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Side selects one of the two melee weapon volumes.
type Side int

const (
	Left Side = iota
	Right
)

// Attack sections an enemy picks from when the AI driver requests an attack.
const (
	AttackLFast = "AttackLFast"
	AttackRFast = "AttackRFast"
	AttackL     = "AttackL"
	AttackR     = "AttackR"

	hitReactSection = "HitReactFront"

	healthBarScale    = 40.0
	healthBarScaleAim = 100.0
	meleeSideOffset   = 30.0
)

// Victim is the player as seen by an enemy's melee volumes.
type Victim interface {
	damage.Target
	damage.Stunnable
	Position() geom.Vec3
	MeleeImpactSound() string
	BloodParticles() string
}

// Deps bundles the collaborators an Enemy needs.
type Deps struct {
	Scheduler *timer.Scheduler
	Presenter fx.Presenter
	Roller    *dice.Roller
	Damage    damage.Channel
	Logger    *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Scheduler == nil {
		panic("npc: Deps.Scheduler must not be nil")
	}
	if d.Presenter == nil {
		d.Presenter = fx.Nop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Roller == nil {
		d.Roller = dice.NewLoggedRoller(dice.NewCryptoSource(), d.Logger)
	}
	if d.Damage == nil {
		d.Damage = damage.NewDirect(d.Logger)
	}
	return d
}

type meleeVolume struct {
	active bool
	struck bool
}

// Enemy is the combat controller for one live enemy.
//
// Invariant: 0 <= Health() <= MaxHealth(); once Dying() is true it never
// becomes false.
type Enemy struct {
	ID       string
	Template *Template
	Location geom.Vec3
	Yaw      float64

	health        float64
	maxHealth     float64
	stunned       bool
	stunChance    float64
	stunCount     int
	canAttack     bool
	inAttackRange bool
	dying         bool
	destroyed     bool
	canHitReact   bool
	collision     bool
	weapons       [2]meleeVolume

	bb     *ai.Blackboard
	deps   Deps
	logger *zap.Logger
	owner  timer.Owner

	hitReactTimer  timer.Handle
	attackTimer    timer.Handle
	stunTimer      timer.Handle
	healthBarTimer timer.Handle
	deathTimer     timer.Handle

	onDestroyed func(*Enemy)
}

// NewEnemy creates a live enemy from tmpl standing at loc facing yaw.
//
// Precondition: tmpl must be valid; deps.Scheduler must not be nil.
// Postcondition: Health() == MaxHealth() == tmpl.Health; CanAttack() is true;
// patrol points are staged in world space.
func NewEnemy(id string, tmpl *Template, loc geom.Vec3, yaw float64, deps Deps) *Enemy {
	if tmpl == nil {
		panic("npc: NewEnemy: tmpl must not be nil")
	}
	deps = deps.withDefaults()
	e := &Enemy{
		ID:          id,
		Template:    tmpl,
		Location:    loc,
		Yaw:         yaw,
		health:      tmpl.Health,
		maxHealth:   tmpl.Health,
		stunChance:  tmpl.StunChance,
		canAttack:   true,
		canHitReact: true,
		collision:   true,
		deps:        deps,
		logger:      deps.Logger.With(zap.String("enemy", id), zap.String("template", tmpl.ID)),
		owner:       deps.Scheduler.NewOwner(),
	}
	e.bb = ai.NewBlackboard(ai.Facts{})
	e.bb.SetCanAttack(true)
	e.bb.SetPatrolPoints(e.toWorld(tmpl.PatrolPoint), e.toWorld(tmpl.PatrolPoint2))
	return e
}

// toWorld transforms a point local to the enemy's spawn transform into world space.
func (e *Enemy) toWorld(local geom.Vec3) geom.Vec3 {
	return e.Location.Add(local.RotateAngleAxis(e.Yaw, geom.Up))
}

// Ref returns the enemy's tagged actor reference.
func (e *Enemy) Ref() damage.Actor { return damage.Actor{Kind: damage.KindEnemy, ID: e.ID} }

// Health returns the current health in [0, MaxHealth].
func (e *Enemy) Health() float64 { return e.health }

// MaxHealth returns the template health.
func (e *Enemy) MaxHealth() float64 { return e.maxHealth }

// Stunned reports whether a stun is in effect.
func (e *Enemy) Stunned() bool { return e.stunned }

// StunCount returns how many times the enemy has been stunned.
func (e *Enemy) StunCount() int { return e.stunCount }

// CanAttack reports whether the attack gate is open.
func (e *Enemy) CanAttack() bool { return e.canAttack }

// InAttackRange reports whether the target is inside the combat range sphere.
func (e *Enemy) InAttackRange() bool { return e.inAttackRange }

// Dying reports whether the death sequence has started. It never reverts.
func (e *Enemy) Dying() bool { return e.dying }

// Destroyed reports whether the enemy has been removed after its death time.
func (e *Enemy) Destroyed() bool { return e.destroyed }

// CanHitReact reports whether the hit reaction cooldown has elapsed.
func (e *Enemy) CanHitReact() bool { return e.canHitReact }

// CollisionEnabled reports whether the enemy still blocks other pawns.
func (e *Enemy) CollisionEnabled() bool { return e.collision }

// HeadRegion returns the skeletal region that counts as a headshot.
func (e *Enemy) HeadRegion() string { return e.Template.HeadBone }

// StunChance returns the current stun threshold used by TakeDamage.
func (e *Enemy) StunChance() float64 { return e.stunChance }

// SetStunChance overrides the stun threshold for the next hit.
func (e *Enemy) SetStunChance(v float64) { e.stunChance = v }

// Blackboard returns the AI driver's read-only view of this enemy's facts.
func (e *Enemy) Blackboard() ai.View { return e.bb }

// State derives the enemy's combat state.
func (e *Enemy) State() State {
	switch {
	case e.destroyed:
		return StateDead
	case e.dying:
		return StateDying
	case e.stunned:
		return StateStunned
	case e.bb.Staged().HasTarget():
		return StateAggroed
	default:
		return StatePassive
	}
}

// OnAggroOverlap handles an actor entering the aggro sensor.
func (e *Enemy) OnAggroOverlap(other damage.Actor) {
	if e.destroyed || other.Kind != damage.KindPlayer {
		return
	}
	e.bb.SetTarget(other)
	e.logger.Debug("aggro", zap.Stringer("target", other))
}

// OnCombatRangeBegin handles an actor entering the combat range sensor.
func (e *Enemy) OnCombatRangeBegin(other damage.Actor) {
	if e.destroyed || other.Kind != damage.KindPlayer {
		return
	}
	e.inAttackRange = true
	e.bb.SetInAttackRange(true)
}

// OnCombatRangeEnd handles an actor leaving the combat range sensor.
func (e *Enemy) OnCombatRangeEnd(other damage.Actor) {
	if e.destroyed || other.Kind != damage.KindPlayer {
		return
	}
	e.inAttackRange = false
	e.bb.SetInAttackRange(false)
}

// ActivateWeapon opens the contact window for side.
func (e *Enemy) ActivateWeapon(side Side) {
	e.weapons[side] = meleeVolume{active: true}
}

// DeactivateWeapon closes the contact window for side.
func (e *Enemy) DeactivateWeapon(side Side) {
	e.weapons[side] = meleeVolume{}
}

// WeaponActive reports whether side's contact window is open.
func (e *Enemy) WeaponActive(side Side) bool { return e.weapons[side].active }

// WeaponVolume returns the world-space sphere of side's contact volume.
func (e *Enemy) WeaponVolume(side Side) (center geom.Vec3, radius float64) {
	offset := meleeSideOffset
	if side == Left {
		offset = -offset
	}
	center = e.Location.
		Add(geom.ForwardFromYaw(e.Yaw).Scale(e.Template.MeleeReach)).
		Add(geom.RightFromYaw(e.Yaw).Scale(offset))
	return center, e.Template.MeleeRadius
}

// OnWeaponOverlap handles the player touching side's contact volume.
//
// Postcondition: only the first contact of an open window has any effect:
// base damage through the damage channel, the contact sound, blood at the
// weapon and a stun roll against the victim's susceptibility.
func (e *Enemy) OnWeaponOverlap(side Side, victim Victim) {
	if victim == nil || e.dying || e.destroyed {
		return
	}
	vol := &e.weapons[side]
	if !vol.active || vol.struck {
		return
	}
	vol.struck = true

	e.deps.Damage.Apply(victim, e.Template.BaseDamage, e.Ref(), e.Ref())
	e.deps.Presenter.PlaySound(victim.MeleeImpactSound(), victim.Position())
	socket, _ := e.WeaponVolume(side)
	e.deps.Presenter.SpawnParticles(victim.BloodParticles(), socket)

	draw := e.deps.Roller.Uniform("player_stun", 0, 1)
	if victim.StunChance() >= draw {
		victim.Stun()
	}
}

// TakeDamage applies a hit from instigator.
//
// The instigator is always staged as the AI target, even while dying. A
// dying enemy otherwise ignores damage and returns 0.
//
// Postcondition: lethal damage clamps Health() to 0 and starts dying;
// non-lethal damage shows the health bar, plays a hit reaction when the
// cooldown allows and stuns when draw <= StunChance() or StunCount() <= 0.
func (e *Enemy) TakeDamage(amount float64, instigator, _ damage.Actor) float64 {
	if e.destroyed {
		return 0
	}
	if !instigator.IsNone() {
		e.bb.SetTarget(instigator)
	}
	if e.dying {
		return 0
	}

	if e.health-amount <= 0 {
		e.health = 0
		e.Die()
		return amount
	}
	e.health -= amount

	e.ShowHealthBar()
	e.PlayHitReact(hitReactSection, 1)

	draw := e.deps.Roller.Uniform("enemy_stun", 0, 1)
	if draw <= e.stunChance || e.stunCount <= 0 {
		e.SetStunned(true)
	}
	e.logger.Debug("enemy damaged",
		zap.Float64("amount", amount),
		zap.Float64("health", e.health),
		zap.Bool("stunned", e.stunned),
	)
	return amount
}

// PlayHitReact plays a hit reaction unless the reaction cooldown is running.
func (e *Enemy) PlayHitReact(section string, rate float64) {
	if !e.canHitReact {
		return
	}
	e.deps.Presenter.PlayMontage(e.Ref(), e.Template.Montages.Hit, section, rate)
	e.canHitReact = false
	wait := e.deps.Roller.Uniform("hit_react_cooldown", e.Template.HitReactMin, e.Template.HitReactMax)
	e.deps.Scheduler.Reset(&e.hitReactTimer, e.owner, "hit_react", seconds(wait), func() {
		e.canHitReact = true
	})
}

// SetStunned changes the stun flag. Stunning increments StunCount and
// schedules recovery after the template's stun duration.
func (e *Enemy) SetStunned(v bool) {
	if e.dying || e.destroyed {
		return
	}
	e.stunned = v
	e.bb.SetStunned(v)
	if !v {
		e.deps.Scheduler.Cancel(e.stunTimer)
		return
	}
	e.stunCount++
	e.deps.Scheduler.Reset(&e.stunTimer, e.owner, "enemy_stun", seconds(e.Template.StunDuration), func() {
		e.SetStunned(false)
	})
}

// ShowHealthBar shows the health bar and (re)starts its hide timer.
func (e *Enemy) ShowHealthBar() {
	e.deps.Presenter.SetHealthBarVisible(e.Ref(), true)
	e.deps.Scheduler.Reset(&e.healthBarTimer, e.owner, "health_bar", seconds(e.Template.HealthBarTime), e.hideHealthBar)
}

func (e *Enemy) hideHealthBar() {
	e.deps.Scheduler.Cancel(e.healthBarTimer)
	e.deps.Presenter.SetHealthBarVisible(e.Ref(), false)
}

// HealthBarScale returns the render scale of the health bar seen from a
// camera at cameraPos.
func (e *Enemy) HealthBarScale(cameraPos geom.Vec3, aiming bool) float64 {
	d := e.Location.Dist(cameraPos)
	if d <= 0 {
		return 1
	}
	base := healthBarScale
	if aiming {
		base = healthBarScaleAim
	}
	return base / math.Sqrt(d)
}

// ShowHitNumber forwards a damage number to the presenter.
func (e *Enemy) ShowHitNumber(amount float64, at geom.Vec3, headshot bool) {
	e.deps.Presenter.ShowHitNumber(e.Ref(), amount, at, headshot)
}

// BulletHit plays the enemy's own impact effects at the hit location.
func (e *Enemy) BulletHit(at geom.Vec3) {
	e.deps.Presenter.PlaySound(e.Template.Sounds.Impact, e.Location)
	e.deps.Presenter.SpawnParticles(e.Template.ImpactParticles, at)
}

// Die starts the dying sequence. Calling it again is a no-op.
//
// Postcondition: Dying() is true; pawn collision is off; animation is paused;
// Dead is staged; the enemy is destroyed after the template's death time.
func (e *Enemy) Die() {
	if e.dying || e.destroyed {
		return
	}
	e.dying = true
	e.collision = false
	e.weapons = [2]meleeVolume{}
	e.stunned = false
	e.deps.Scheduler.Cancel(e.stunTimer)
	e.bb.SetStunned(false)
	e.hideHealthBar()
	e.deps.Presenter.PlayMontage(e.Ref(), e.Template.Montages.Death, "", 1)
	e.deps.Presenter.PauseAnimations(e.Ref())
	e.bb.SetDead(true)
	e.deathTimer = e.deps.Scheduler.After(e.owner, "enemy_destroy", seconds(e.Template.DeathTime), e.destroy)
	e.logger.Info("enemy dying")
}

func (e *Enemy) destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.deps.Scheduler.Release(e.owner)
	e.logger.Info("enemy destroyed")
	if e.onDestroyed != nil {
		e.onDestroyed(e)
	}
}

// Attack plays section of the attack montage and closes the attack gate
// until the template's attack wait time has elapsed.
//
// Postcondition: returns false without effect when dying or when the gate is closed.
func (e *Enemy) Attack(section string) bool {
	if e.dying || e.destroyed || !e.canAttack {
		return false
	}
	e.deps.Presenter.PlayMontage(e.Ref(), e.Template.Montages.Attack, section, 1)
	e.canAttack = false
	e.bb.SetCanAttack(false)
	e.deps.Scheduler.Reset(&e.attackTimer, e.owner, "attack_wait", seconds(e.Template.AttackWaitTime), func() {
		e.canAttack = true
		e.bb.SetCanAttack(true)
	})
	return true
}

// After schedules fn under the enemy's own timer owner, so destroying the
// enemy invalidates it. Returns a zero Handle once the enemy is destroyed.
func (e *Enemy) After(label string, d time.Duration, fn func()) timer.Handle {
	return e.deps.Scheduler.After(e.owner, label, d, fn)
}

// RandomAttackSection picks one of the four attack sections uniformly.
func (e *Enemy) RandomAttackSection() string {
	switch e.deps.Roller.IntRange("attack_section", 1, 4) {
	case 1:
		return AttackLFast
	case 2:
		return AttackRFast
	case 3:
		return AttackL
	default:
		return AttackR
	}
}

// NotifyCharacterDead records that this enemy killed the player.
func (e *Enemy) NotifyCharacterDead() {
	e.bb.SetCharacterDead(true)
}

// PublishFacts makes this tick's staged facts visible to the AI driver.
func (e *Enemy) PublishFacts() bool {
	return e.bb.Publish()
}
