package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/dice"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

// ItemState is the physical state of a weapon instance.
type ItemState int

const (
	// StateDropped lies in the world and may be picked up.
	StateDropped ItemState = iota
	// StateThrown is falling after being thrown out of the inventory.
	StateThrown
	// StatePickedUp is carried in the inventory but not in hand.
	StatePickedUp
	// StateEquipped is the weapon in the owner's hand.
	StateEquipped
)

// String returns the state name.
func (s ItemState) String() string {
	switch s {
	case StateDropped:
		return "dropped"
	case StateThrown:
		return "thrown"
	case StatePickedUp:
		return "picked_up"
	case StateEquipped:
		return "equipped"
	default:
		return fmt.Sprintf("ItemState(%d)", int(s))
	}
}

// IsHeld reports whether the weapon is owned by a character.
func (s ItemState) IsHeld() bool {
	return s == StatePickedUp || s == StateEquipped
}

const (
	throwLateralDeg   = -20.0
	throwYawMinDeg    = 10.0
	throwYawMaxDeg    = 30.0
	throwImpulse      = 20000.0
	maxSlideDisplace  = 4.0
	maxRecoilRotation = 20.0
)

// Timing holds the weapon-instance delays that are not part of a WeaponDef.
type Timing struct {
	ThrowTime  time.Duration
	PulseCycle time.Duration
	SlideTime  time.Duration
}

// DefaultTiming returns the stock weapon timings.
func DefaultTiming() Timing {
	return Timing{
		ThrowTime:  700 * time.Millisecond,
		PulseCycle: 5 * time.Second,
		SlideTime:  100 * time.Millisecond,
	}
}

// Deps bundles the collaborators a Weapon instance needs.
type Deps struct {
	Scheduler *timer.Scheduler
	Presenter fx.Presenter
	Roller    *dice.Roller
	Logger    *zap.Logger
	Timing    Timing
}

func (d Deps) withDefaults() Deps {
	if d.Scheduler == nil {
		panic("inventory: Deps.Scheduler must not be nil")
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
	if d.Timing == (Timing{}) {
		d.Timing = DefaultTiming()
	}
	return d
}

// Weapon is one live weapon instance: its magazine, physical state, slot and
// the pistol slide timeline.
//
// Invariant: 0 <= Ammo() <= MagazineCapacity().
type Weapon struct {
	ID     string
	Def    *WeaponDef
	Rarity *RarityDef

	// Damage and HeadshotDamage are the definition values scaled by rarity.
	Damage         float64
	HeadshotDamage float64

	State     ItemState
	SlotIndex int
	// Yaw is the mesh yaw in degrees; the throw impulse is derived from it.
	Yaw      float64
	Location geom.Vec3
	// Impulse is the last impulse applied by Throw.
	Impulse geom.Vec3

	mag   *Magazine
	deps  Deps
	owner timer.Owner

	throwTimer timer.Handle
	pulseTimer timer.Handle
	slideTimer timer.Handle

	movingSlide       bool
	SlideDisplacement float64
	RecoilRotation    float64
}

// NewWeapon creates a dropped weapon instance from def scaled by rarity.
//
// Precondition: def must not be nil and must be valid; deps.Scheduler must not be nil.
// Postcondition: Ammo() == def.StartingAmmo; State == StateDropped; SlotIndex == NoSlot.
func NewWeapon(def *WeaponDef, rarity *RarityDef, deps Deps) *Weapon {
	if def == nil {
		panic("inventory: NewWeapon: def must not be nil")
	}
	deps = deps.withDefaults()
	id := uuid.NewString()
	w := &Weapon{
		ID:             id,
		Def:            def,
		Rarity:         rarity,
		Damage:         def.Damage * rarity.Multiplier(),
		HeadshotDamage: def.HeadshotDamage * rarity.Multiplier(),
		State:          StateDropped,
		SlotIndex:      NoSlot,
		mag:            NewMagazine(id, def.MagazineCapacity, def.StartingAmmo),
		deps:           deps,
		owner:          deps.Scheduler.NewOwner(),
	}
	deps.Logger.Debug("weapon spawned",
		zap.String("weapon", w.ID),
		zap.String("def", def.ID),
		zap.Float64("damage", w.Damage),
	)
	return w
}

// Ammo returns the rounds loaded in the magazine.
func (w *Weapon) Ammo() int { return w.mag.Loaded }

// MagazineCapacity returns the magazine capacity.
func (w *Weapon) MagazineCapacity() int { return w.mag.Capacity }

// EmptySpace returns how many rounds fit into the magazine.
func (w *Weapon) EmptySpace() int { return w.mag.EmptySpace() }

// HasAmmo reports whether at least one round is loaded.
func (w *Weapon) HasAmmo() bool { return !w.mag.IsEmpty() }

// AmmoType returns the ammunition category the weapon consumes.
func (w *Weapon) AmmoType() AmmoType { return w.Def.AmmoType }

// Automatic reports whether holding the trigger keeps firing.
func (w *Weapon) Automatic() bool { return w.Def.Automatic }

// Fire spends one round.
//
// Postcondition: with an empty magazine nothing changes and false is
// returned; otherwise Ammo() decreases by exactly 1 and pistols start the
// slide timeline.
func (w *Weapon) Fire() bool {
	if !w.mag.ConsumeOne() {
		return false
	}
	if w.Def.IsPistol() {
		w.startSlide()
	}
	return true
}

// Reload inserts amount rounds into the magazine.
//
// Precondition: amount >= 0 and Ammo()+amount <= MagazineCapacity() (panics otherwise).
func (w *Weapon) Reload(amount int) {
	w.mag.Load(amount)
}

// IsClipFull reports whether the magazine is at capacity.
func (w *Weapon) IsClipFull() bool { return w.mag.IsFull() }

// SetState moves the weapon to s. Moving into a held state stops the throw
// and pulse timers.
func (w *Weapon) SetState(s ItemState) {
	if s.IsHeld() {
		w.deps.Scheduler.Cancel(w.throwTimer)
		w.deps.Scheduler.Cancel(w.pulseTimer)
		w.throwTimer, w.pulseTimer = timer.Handle{}, timer.Handle{}
	}
	w.State = s
}

// Throw ejects the weapon into the world.
//
// The impulse is the mesh right vector tilted throwLateralDeg about the mesh
// forward axis, then yawed by a uniform angle in [10°, 30°] about the vertical.
//
// Postcondition: State == StateThrown; after Timing.ThrowTime the weapon
// becomes StateDropped and starts pulsing every Timing.PulseCycle.
func (w *Weapon) Throw() {
	forward := geom.ForwardFromYaw(w.Yaw)
	right := geom.RightFromYaw(w.Yaw)
	dir := right.RotateAngleAxis(throwLateralDeg, forward)
	yaw := w.deps.Roller.Uniform("weapon_throw_yaw", throwYawMinDeg, throwYawMaxDeg)
	dir = dir.RotateAngleAxis(yaw, geom.Up)
	w.Impulse = dir.Scale(throwImpulse)
	w.State = StateThrown
	w.SlotIndex = NoSlot
	w.deps.Scheduler.Cancel(w.pulseTimer)
	w.pulseTimer = timer.Handle{}
	w.deps.Scheduler.Reset(&w.throwTimer, w.owner, "weapon_throw", w.deps.Timing.ThrowTime, w.stopFalling)
	w.deps.Logger.Debug("weapon thrown", zap.String("weapon", w.ID), zap.Float64("yaw", yaw))
}

// Falling reports whether the weapon is still in its thrown flight.
func (w *Weapon) Falling() bool { return w.State == StateThrown }

// Pulsing reports whether the dropped-item pulse timer is running.
func (w *Weapon) Pulsing() bool { return w.deps.Scheduler.Active(w.pulseTimer) }

func (w *Weapon) stopFalling() {
	if w.State != StateThrown {
		return
	}
	w.State = StateDropped
	w.deps.Presenter.PulseItem(w.ID)
	w.pulseTimer = w.deps.Scheduler.Every(w.owner, "weapon_pulse", w.deps.Timing.PulseCycle, func() {
		w.deps.Presenter.PulseItem(w.ID)
	})
}

func (w *Weapon) startSlide() {
	w.movingSlide = true
	w.deps.Scheduler.Reset(&w.slideTimer, w.owner, "weapon_slide", w.deps.Timing.SlideTime, func() {
		w.movingSlide = false
		w.SlideDisplacement = 0
		w.RecoilRotation = 0
	})
}

// MovingSlide reports whether the pistol slide timeline is running.
func (w *Weapon) MovingSlide() bool { return w.movingSlide }

// UpdateSlide samples the slide curve at the elapsed slide time.
func (w *Weapon) UpdateSlide() {
	if !w.movingSlide {
		return
	}
	v := SlideCurve(w.deps.Scheduler.Elapsed(w.slideTimer), w.deps.Timing.SlideTime)
	w.SlideDisplacement = v * maxSlideDisplace
	w.RecoilRotation = v * maxRecoilRotation
}

// SlideCurve is the triangular slide timeline: 0 at the start, 1 at the
// midpoint, 0 at total.
func SlideCurve(elapsed, total time.Duration) float64 {
	if total <= 0 || elapsed <= 0 || elapsed >= total {
		return 0
	}
	u := float64(elapsed) / float64(total)
	if u <= 0.5 {
		return 2 * u
	}
	return 2 * (1 - u)
}

// Destroy releases every timer the weapon owns.
func (w *Weapon) Destroy() {
	w.deps.Scheduler.Release(w.owner)
}
