package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/inventory"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

const (
	muzzleForward = 60.0
	muzzleHeight  = 50.0
)

// Montages names the player animation montages requested from the presenter.
type Montages struct {
	HipFire  string
	Reload   string
	Equip    string
	HitReact string
	Death    string
}

// Config holds the player's tunables.
type Config struct {
	Health            float64
	StunChance        float64
	StunDuration      time.Duration
	StartingAmmo      map[inventory.AmmoType]int
	InventoryCapacity int
	// ShootTime is how long the crosshair stays widened after a shot.
	ShootTime        time.Duration
	MeleeImpactSound string
	BloodParticles   string
	Montages         Montages
}

// DefaultConfig returns the stock player configuration.
func DefaultConfig() Config {
	return Config{
		Health:       100,
		StunChance:   0.25,
		StunDuration: time.Second,
		StartingAmmo: map[inventory.AmmoType]int{
			inventory.Ammo9mm: 85,
			inventory.AmmoAR:  120,
		},
		InventoryCapacity: inventory.DefaultCapacity,
		ShootTime:         50 * time.Millisecond,
		MeleeImpactSound:  "SC_MeleeImpact",
		BloodParticles:    "P_Blood",
		Montages: Montages{
			HipFire:  "HipFireMontage",
			Reload:   "ReloadMontage",
			Equip:    "EquipMontage",
			HitReact: "HitReactMontage",
			Death:    "DeathMontage",
		},
	}
}

// Deps bundles the collaborators a Player needs.
type Deps struct {
	Scheduler *timer.Scheduler
	Presenter fx.Presenter
	Logger    *zap.Logger
	// OnDrop is called with every weapon the player throws into the world.
	OnDrop func(w *inventory.Weapon)
	// OnKilled is called once with the actor that dealt the lethal blow.
	OnKilled func(killer damage.Actor)
}

// Player is the player-side combat coordinator. It owns the inventory and
// ammo ledger and gates fire, reload, equip and stun transitions.
//
// Invariant: at most one of fire, reload or equip is in flight; every timer
// completion re-checks State() before acting.
type Player struct {
	ID       string
	Location geom.Vec3
	Yaw      float64

	cfg    Config
	deps   Deps
	logger *zap.Logger
	owner  timer.Owner

	state      CombatState
	health     float64
	maxHealth  float64
	stunChance float64
	dead       bool

	inv      *inventory.Inventory
	ammo     *inventory.AmmoLedger
	equipped *inventory.Weapon

	fireHeld bool
	aimHeld  bool
	aiming   bool
	shooting bool

	crosshair Crosshair
	spread    float64

	fireTimer   timer.Handle
	reloadTimer timer.Handle
	equipTimer  timer.Handle
	stunTimer   timer.Handle
	shootTimer  timer.Handle

	shots []Shot
}

// NewPlayer creates a player with an empty inventory and the configured
// starting ammunition.
//
// Precondition: deps.Scheduler must not be nil.
func NewPlayer(id string, cfg Config, deps Deps) *Player {
	if deps.Scheduler == nil {
		panic("combat: NewPlayer: Scheduler must not be nil")
	}
	if deps.Presenter == nil {
		deps.Presenter = fx.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.InventoryCapacity <= 0 {
		cfg.InventoryCapacity = inventory.DefaultCapacity
	}
	return &Player{
		ID:         id,
		cfg:        cfg,
		deps:       deps,
		logger:     deps.Logger.With(zap.String("player", id)),
		owner:      deps.Scheduler.NewOwner(),
		health:     cfg.Health,
		maxHealth:  cfg.Health,
		stunChance: cfg.StunChance,
		inv:        inventory.NewInventory(cfg.InventoryCapacity),
		ammo:       inventory.NewAmmoLedger(cfg.StartingAmmo),
		spread:     spreadBase,
	}
}

// Ref returns the player's tagged actor reference.
func (p *Player) Ref() damage.Actor { return damage.Actor{Kind: damage.KindPlayer, ID: p.ID} }

// State returns the current combat state.
func (p *Player) State() CombatState { return p.state }

// Health returns the current health in [0, MaxHealth].
func (p *Player) Health() float64 { return p.health }

// MaxHealth returns the configured starting health.
func (p *Player) MaxHealth() float64 { return p.maxHealth }

// Dead reports whether the player has died. It never reverts.
func (p *Player) Dead() bool { return p.dead }

// Aiming reports whether the aim view is active.
func (p *Player) Aiming() bool { return p.aiming }

// Equipped returns the weapon in hand, or nil.
func (p *Player) Equipped() *inventory.Weapon { return p.equipped }

// Inventory returns the weapon slots.
func (p *Player) Inventory() *inventory.Inventory { return p.inv }

// Ammo returns the carried ammunition ledger.
func (p *Player) Ammo() *inventory.AmmoLedger { return p.ammo }

// CrosshairSpread returns the spread computed by the last Tick.
func (p *Player) CrosshairSpread() float64 { return p.spread }

// Position returns the player location for melee volume tests.
func (p *Player) Position() geom.Vec3 { return p.Location }

// MeleeImpactSound is played where an enemy weapon connects.
func (p *Player) MeleeImpactSound() string { return p.cfg.MeleeImpactSound }

// BloodParticles is spawned where an enemy weapon connects.
func (p *Player) BloodParticles() string { return p.cfg.BloodParticles }

// StunChance returns the player's stun susceptibility.
func (p *Player) StunChance() float64 { return p.stunChance }

// MuzzleLocation returns the world position shots leave from.
func (p *Player) MuzzleLocation() geom.Vec3 {
	return p.Location.
		Add(geom.ForwardFromYaw(p.Yaw).Scale(muzzleForward)).
		Add(geom.Up.Scale(muzzleHeight))
}

// GiveWeapon stores w in the inventory and equips it when nothing is equipped.
//
// Postcondition: returns false when w is nil or the inventory is full.
func (p *Player) GiveWeapon(w *inventory.Weapon) bool {
	if w == nil {
		return false
	}
	if _, ok := p.inv.Add(w); !ok {
		return false
	}
	if p.equipped == nil {
		p.equip(w)
	} else {
		w.SetState(inventory.StatePickedUp)
	}
	return true
}

func (p *Player) equip(w *inventory.Weapon) {
	p.equipped = w
	w.SetState(inventory.StateEquipped)
	p.deps.Presenter.PlaySound(w.Def.EquipSound, p.Location)
}

// FireButtonPressed latches the trigger and attempts a shot.
func (p *Player) FireButtonPressed() {
	if p.dead {
		return
	}
	p.fireHeld = true
	p.Fire()
}

// FireButtonReleased releases the trigger.
func (p *Player) FireButtonReleased() {
	p.fireHeld = false
}

// Fire fires one round from the equipped weapon.
//
// Postcondition: returns false without effect unless the player is alive,
// Unoccupied and the equipped weapon has ammo. On success the shot is queued
// for hit resolution and State() is FireTimerInProgress for the weapon's
// auto-fire interval.
func (p *Player) Fire() bool {
	if p.dead || p.state != Unoccupied {
		return false
	}
	w := p.equipped
	if w == nil {
		p.logger.Debug("fire refused: no weapon equipped")
		return false
	}
	if !w.Fire() {
		p.logger.Debug("fire refused: magazine empty", zap.String("weapon", w.ID))
		return false
	}

	muzzle := p.MuzzleLocation()
	p.deps.Presenter.PlaySound(w.Def.FireSound, muzzle)
	p.deps.Presenter.PlayMontage(p.Ref(), p.cfg.Montages.HipFire, "StartFire", 1)
	p.shots = append(p.shots, Shot{
		Instigator:     p.Ref(),
		WeaponID:       w.ID,
		Muzzle:         muzzle,
		Damage:         w.Damage,
		HeadshotDamage: w.HeadshotDamage,
		MuzzleFlash:    w.Def.MuzzleFlash,
	})

	p.shooting = true
	p.deps.Scheduler.Reset(&p.shootTimer, p.owner, "crosshair_shot", p.cfg.ShootTime, func() {
		p.shooting = false
	})

	p.setState(FireTimerInProgress)
	p.deps.Scheduler.Reset(&p.fireTimer, p.owner, "auto_fire", w.Def.AutoFireDuration(), p.autoFireReset)
	return true
}

func (p *Player) autoFireReset() {
	if p.dead || p.state != FireTimerInProgress {
		return
	}
	p.setState(Unoccupied)
	w := p.equipped
	if w == nil {
		return
	}
	if w.HasAmmo() {
		if p.fireHeld && w.Automatic() {
			p.Fire()
		}
		return
	}
	p.Reload()
}

// DrainShots returns the shots queued since the last call and clears the queue.
func (p *Player) DrainShots() []Shot {
	out := p.shots
	p.shots = nil
	return out
}

func (p *Player) carryingAmmo() bool {
	return p.equipped != nil && p.ammo.Carrying(p.equipped.AmmoType())
}

// Reload starts reloading the equipped weapon.
//
// Postcondition: returns false and leaves State() unchanged unless the player
// is Unoccupied, carries matching ammo and the magazine is not full. On
// success aim is cancelled and the transfer happens when the reload
// animation completes.
func (p *Player) Reload() bool {
	if p.dead || p.state != Unoccupied {
		return false
	}
	w := p.equipped
	if w == nil || !p.carryingAmmo() || w.IsClipFull() {
		p.logger.Debug("reload refused",
			zap.Bool("equipped", w != nil),
			zap.Bool("carrying", p.carryingAmmo()),
		)
		return false
	}
	if p.aiming {
		p.StopAiming()
	}
	p.setState(Reloading)
	p.deps.Presenter.PlayMontage(p.Ref(), p.cfg.Montages.Reload, w.Def.ReloadSection, 1)
	p.deps.Scheduler.Reset(&p.reloadTimer, p.owner, "reload", w.Def.ReloadDuration(), p.finishReloading)
	return true
}

func (p *Player) finishReloading() {
	if p.dead || p.state != Reloading {
		return
	}
	p.setState(Unoccupied)
	if p.aimHeld {
		p.Aim()
	}
	if p.equipped == nil {
		return
	}
	moved := p.ammo.ReloadInto(p.equipped)
	p.logger.Debug("reload finished",
		zap.Int("moved", moved),
		zap.Int("magazine", p.equipped.Ammo()),
		zap.Int("carried", p.ammo.Count(p.equipped.AmmoType())),
	)
}

// Stun interrupts whatever the player is doing.
//
// Postcondition: refused (false) once health has reached zero; otherwise
// State() is Stunned until the stun duration elapses.
func (p *Player) Stun() bool {
	if p.dead || p.health <= 0 {
		return false
	}
	if p.aiming {
		p.StopAiming()
	}
	p.setState(Stunned)
	p.deps.Presenter.PlayMontage(p.Ref(), p.cfg.Montages.HitReact, "HitReactFront", 1)
	p.deps.Scheduler.Reset(&p.stunTimer, p.owner, "player_stun", p.cfg.StunDuration, p.EndStun)
	return true
}

// EndStun leaves the Stunned state and re-applies aim if the aim button is held.
func (p *Player) EndStun() {
	if p.state != Stunned {
		return
	}
	p.deps.Scheduler.Cancel(p.stunTimer)
	p.setState(Unoccupied)
	if p.aimHeld {
		p.Aim()
	}
}

// TakeDamage applies a hit from instigator and returns the damage accounted.
//
// Postcondition: Health() never drops below 0; lethal damage kills the player
// once and reports the killer.
func (p *Player) TakeDamage(amount float64, instigator, _ damage.Actor) float64 {
	if p.dead || amount <= 0 {
		return 0
	}
	if p.health-amount <= 0 {
		p.health = 0
		p.die(instigator)
		return amount
	}
	p.health -= amount
	p.logger.Debug("player damaged", zap.Float64("amount", amount), zap.Float64("health", p.health))
	return amount
}

func (p *Player) die(killer damage.Actor) {
	if p.dead {
		return
	}
	p.dead = true
	p.fireHeld = false
	p.aimHeld = false
	p.aiming = false
	p.deps.Presenter.PlayMontage(p.Ref(), p.cfg.Montages.Death, "", 1)
	p.logger.Info("player died", zap.Stringer("killer", killer))
	if p.deps.OnKilled != nil {
		p.deps.OnKilled(killer)
	}
}

// SelectSlot exchanges the equipped weapon for the one in slot target.
func (p *Player) SelectSlot(target int) bool {
	if p.equipped == nil {
		return false
	}
	return p.ExchangeItems(p.equipped.SlotIndex, target)
}

// ExchangeItems stows the weapon in slot current and equips the one in target.
//
// Postcondition: refused unless current is the equipped weapon's slot,
// current != target, target holds a weapon and State() is Unoccupied or
// Equipping. On success State() is Equipping for the
// new weapon's equip time, then Unoccupied unless a stun intervened.
func (p *Player) ExchangeItems(current, target int) bool {
	if p.dead || current == target || !p.inv.Occupied(target) {
		return false
	}
	if p.equipped == nil || p.equipped.SlotIndex != current {
		return false
	}
	if p.state != Unoccupied && p.state != Equipping {
		return false
	}
	if p.aiming {
		p.StopAiming()
	}
	next := p.inv.At(target)
	p.equipped.SetState(inventory.StatePickedUp)
	p.equip(next)
	p.setState(Equipping)
	p.deps.Presenter.PlayMontage(p.Ref(), p.cfg.Montages.Equip, "Equip", 1)
	p.deps.Scheduler.Reset(&p.equipTimer, p.owner, "equip", next.Def.EquipDuration(), p.finishEquipping)
	return true
}

func (p *Player) finishEquipping() {
	if p.dead || p.state != Equipping {
		return
	}
	p.setState(Unoccupied)
	if p.aimHeld {
		p.Aim()
	}
}

// Pickup collects an item the player is touching.
//
// Postcondition: returns false for items the player cannot take.
func (p *Player) Pickup(item inventory.Pickup) bool {
	if p.dead {
		return false
	}
	switch item.Kind {
	case inventory.PickupWeapon:
		return p.pickupWeapon(item.Weapon)
	case inventory.PickupAmmo:
		return p.PickupAmmo(item.Ammo)
	default:
		p.logger.Debug("pickup ignored", zap.String("item", item.ID()))
		return false
	}
}

func (p *Player) pickupWeapon(w *inventory.Weapon) bool {
	if w == nil || w.State.IsHeld() {
		return false
	}
	p.deps.Presenter.PlaySound(w.Def.PickupSound, p.Location)
	if _, ok := p.inv.Add(w); ok {
		w.SetState(inventory.StatePickedUp)
		if p.equipped == nil {
			p.equip(w)
		}
		return true
	}
	return p.swapWeapon(w)
}

// swapWeapon puts w in the equipped weapon's slot, throws the old weapon and
// equips w.
func (p *Player) swapWeapon(w *inventory.Weapon) bool {
	old := p.equipped
	if old == nil || !p.inv.Occupied(old.SlotIndex) {
		return false
	}
	p.inv.Replace(old.SlotIndex, w)
	p.dropWeapon(old)
	p.equip(w)
	p.logger.Debug("weapon swapped",
		zap.String("dropped", old.ID),
		zap.String("equipped", w.ID),
		zap.Int("slot", w.SlotIndex),
	)
	return true
}

func (p *Player) dropWeapon(w *inventory.Weapon) {
	if w == p.equipped {
		p.equipped = nil
	}
	w.Location = p.MuzzleLocation()
	w.Yaw = p.Yaw
	w.Throw()
	if p.deps.OnDrop != nil {
		p.deps.OnDrop(w)
	}
}

// PickupAmmo adds box to the ledger and reloads when the equipped weapon
// takes that ammo and its magazine is empty.
func (p *Player) PickupAmmo(box *inventory.AmmoBox) bool {
	if p.dead || box == nil || box.Count <= 0 {
		return false
	}
	p.ammo.Add(box.Type, box.Count)
	if w := p.equipped; w != nil && w.AmmoType() == box.Type && !w.HasAmmo() {
		p.Reload()
	}
	return true
}

// AimPressed latches the aim button and aims when the state allows it.
func (p *Player) AimPressed() {
	if p.dead {
		return
	}
	p.aimHeld = true
	p.Aim()
}

// AimReleased releases the aim button.
func (p *Player) AimReleased() {
	p.aimHeld = false
	p.StopAiming()
}

// Aim enters aim-down-sights unless reloading, equipping or stunned.
func (p *Player) Aim() bool {
	if p.dead || p.state.blocksAim() {
		return false
	}
	p.aiming = true
	return true
}

// StopAiming leaves aim-down-sights.
func (p *Player) StopAiming() {
	p.aiming = false
}

// Tick recomputes the per-frame derived values: crosshair spread and the
// equipped pistol's slide.
func (p *Player) Tick(dt time.Duration, m Motion) {
	p.spread = p.crosshair.Update(dt.Seconds(), m, p.aiming, p.shooting)
	if p.equipped != nil {
		p.equipped.UpdateSlide()
	}
}

// Crosshair returns the current spread factors.
func (p *Player) Crosshair() Crosshair { return p.crosshair }

func (p *Player) setState(s CombatState) {
	if p.state == s {
		return
	}
	p.logger.Debug("combat state", zap.Stringer("from", p.state), zap.Stringer("to", s))
	p.state = s
}
