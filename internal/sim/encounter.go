package sim

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/config"
	"github.com/cory-johannsen/shooter/internal/game/arena"
	"github.com/cory-johannsen/shooter/internal/game/catalog"
	"github.com/cory-johannsen/shooter/internal/game/combat"
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/dice"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/inventory"
	"github.com/cory-johannsen/shooter/internal/game/npc"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

const (
	enemyRingStart   = 700.0
	enemyRingSpacing = 250.0
	enemyRingArcDeg  = 35.0
	ammoBoxRounds    = 60
	hudLogFrames     = 60
)

// PlayerConfig converts the configured player tunables into a combat.Config.
func PlayerConfig(p config.PlayerConfig) combat.Config {
	c := combat.DefaultConfig()
	c.Health = p.Health
	c.StunChance = p.StunChance
	c.StunDuration = p.StunDuration
	c.ShootTime = p.ShootTime
	c.StartingAmmo = make(map[inventory.AmmoType]int, len(p.StartingAmmo))
	for t, n := range p.StartingAmmo {
		c.StartingAmmo[inventory.AmmoType(t)] = n
	}
	return c
}

// WeaponTiming converts the configured weapon timings into an inventory.Timing.
func WeaponTiming(t config.TimingConfig) inventory.Timing {
	return inventory.Timing{ThrowTime: t.ThrowTime, PulseCycle: t.PulseCycle, SlideTime: t.SlideTime}
}

// NewSource returns a seeded source, or crypto/rand when seed is 0.
func NewSource(seed uint64) dice.Source {
	if seed == 0 {
		return dice.NewCryptoSource()
	}
	return dice.NewSeededSource(seed)
}

// Summary tallies what happened during an encounter.
type Summary struct {
	Frames       uint64
	Elapsed      time.Duration
	Shots        int
	Hits         int
	Headshots    int
	DamageDealt  float64
	PlayerHealth float64
	PlayerDead   bool
	EnemiesLeft  int
}

// Encounter is a scripted fight: the player engages the nearest enemy while
// the Driver runs every enemy from its blackboard.
type Encounter struct {
	arena  *arena.Arena
	driver *Driver
	logger *zap.Logger

	firing  bool
	summary Summary
}

// Deps bundles the collaborators of an Encounter.
type Deps struct {
	Presenter fx.Presenter
	Source    dice.Source
	Logger    *zap.Logger
	Swing     SwingTiming
}

// NewEncounter builds an arena from cfg, arms the player with the configured
// starting weapon and spawns one of every enemy in the catalog on an arc in
// front of the player.
//
// Postcondition: returns a wrapped catalog.ErrNotFound when the starting
// weapon or rarity is unknown.
func NewEncounter(cfg config.Config, cat *catalog.Catalog, deps Deps) (*Encounter, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Source == nil {
		deps.Source = NewSource(cfg.Simulation.Seed)
	}
	if deps.Swing == (SwingTiming{}) {
		deps.Swing = DefaultSwingTiming()
	}
	sched := timer.NewScheduler(deps.Logger)

	acfg := arena.DefaultConfig()
	acfg.Player = PlayerConfig(cfg.Player)
	a := arena.New(acfg, arena.Deps{
		Scheduler: sched,
		Presenter: deps.Presenter,
		Roller:    dice.NewLoggedRoller(deps.Source, deps.Logger),
		Damage:    damage.NewDirect(deps.Logger),
		Logger:    deps.Logger,
		Timing:    WeaponTiming(cfg.Timing),
	})

	rarity := inventory.Rarity(cfg.Player.StartingRarity)
	start, err := cat.NewWeapon(cfg.Player.StartingWeapon, rarity, a.WeaponDeps())
	if err != nil {
		return nil, fmt.Errorf("starting weapon: %w", err)
	}
	a.Player().GiveWeapon(start)
	a.PlaceAmmo(inventory.NewAmmoBox(start.AmmoType(), ammoBoxRounds, geom.Vec3{Y: 80}))

	for i, def := range cat.Weapons() {
		if def.ID == start.Def.ID {
			continue
		}
		spare, err := cat.NewWeapon(def.ID, rarity, a.WeaponDeps())
		if err != nil {
			return nil, fmt.Errorf("spare weapon: %w", err)
		}
		a.PlaceWeapon(spare, geom.Vec3{X: -60, Y: float64(i-1) * 60})
	}

	for i, tmpl := range cat.Enemies() {
		dist := enemyRingStart + float64(i)*enemyRingSpacing
		angle := float64(i) * enemyRingArcDeg
		if i%2 == 1 {
			angle = -angle
		}
		loc := geom.ForwardFromYaw(angle).Scale(dist)
		if _, err := a.SpawnEnemy(tmpl, loc, angle+180); err != nil {
			return nil, err
		}
	}

	enc := &Encounter{arena: a, logger: deps.Logger.Named("encounter")}
	enc.driver = NewDriver(sched, enc.locate, deps.Swing, deps.Logger)
	enc.summary.EnemiesLeft = a.Enemies().Len()
	enc.summary.PlayerHealth = a.Player().Health()
	return enc, nil
}

// Arena exposes the underlying arena.
func (enc *Encounter) Arena() *arena.Arena { return enc.arena }

// Step runs one frame: the player script, the enemy driver, then the arena tick.
func (enc *Encounter) Step(dt time.Duration) {
	enc.scriptPlayer()
	enc.driver.Step(dt, enc.arena.Enemies().All())
	enc.arena.Tick(dt)

	for _, out := range enc.arena.LastOutcomes() {
		enc.summary.Shots++
		if out.TargetKind == combat.TargetEnemy {
			enc.summary.Hits++
			enc.summary.DamageDealt += out.Damage
			if out.Headshot {
				enc.summary.Headshots++
			}
		}
	}
	enc.summary.Frames = enc.arena.Frame()
	enc.summary.Elapsed = enc.arena.Scheduler().Now()
	enc.summary.PlayerHealth = enc.arena.Player().Health()
	enc.summary.PlayerDead = enc.arena.Player().Dead()
	enc.summary.EnemiesLeft = enc.arena.Enemies().Len()

	if enc.summary.Frames%hudLogFrames == 0 {
		enc.logHUD()
	}
}

func (enc *Encounter) logHUD() {
	hud := enc.arena.HUD()
	enc.logger.Debug("hud",
		zap.Uint64("frame", enc.summary.Frames),
		zap.Float64("spread", hud.Spread),
		zap.Float64("spread_velocity", hud.Crosshair.Velocity),
		zap.Float64("spread_shooting", hud.Crosshair.Shooting),
		zap.Int("loaded", hud.Loaded),
		zap.Any("carried", hud.Carried),
		zap.Bool("slide_moving", hud.SlideMoving),
		zap.Any("health_bars", hud.HealthBars),
		zap.Strings("falling", hud.Falling),
	)
}

// Done reports whether either side has been wiped out.
func (enc *Encounter) Done() bool {
	return enc.arena.Player().Dead() || enc.arena.Enemies().Len() == 0
}

// Summary returns the running tally.
func (enc *Encounter) Summary() Summary { return enc.summary }

// Close cancels every pending contact window.
func (enc *Encounter) Close() { enc.driver.Stop() }

func (enc *Encounter) locate(actor damage.Actor) (geom.Vec3, bool) {
	switch actor.Kind {
	case damage.KindPlayer:
		p := enc.arena.Player()
		if p.Dead() || actor.ID != p.ID {
			return geom.Vec3{}, false
		}
		return p.Location, true
	case damage.KindEnemy:
		e, ok := enc.arena.Enemies().Get(actor.ID)
		if !ok {
			return geom.Vec3{}, false
		}
		return e.Location, true
	default:
		return geom.Vec3{}, false
	}
}

// scriptPlayer faces the nearest living enemy and holds the trigger while one
// exists, pressing again whenever the player is free to fire.
func (enc *Encounter) scriptPlayer() {
	p := enc.arena.Player()
	if p.Dead() {
		return
	}
	if len(enc.arena.WorldAmmo()) > 0 || len(enc.arena.WorldWeapons()) > 0 {
		enc.arena.Queue(arena.Action{Kind: arena.ActionInteract})
	}

	target := enc.nearestEnemy(p.Location)
	if target == nil {
		if enc.firing {
			enc.arena.Queue(arena.Action{Kind: arena.ActionFireReleased})
			enc.firing = false
		}
		return
	}
	if yaw, ok := YawToward(p.Location, target.Location); ok {
		enc.arena.SetMotion(combat.Motion{}, yaw)
	}

	if w := p.Equipped(); w != nil && !w.HasAmmo() && !p.Ammo().Carrying(w.AmmoType()) {
		enc.switchToLoadedWeapon()
	}

	if !enc.firing || p.State() == combat.Unoccupied {
		enc.arena.Queue(arena.Action{Kind: arena.ActionFirePressed})
		enc.firing = true
	}
}

func (enc *Encounter) switchToLoadedWeapon() {
	p := enc.arena.Player()
	for _, w := range p.Inventory().Weapons() {
		if w == p.Equipped() {
			continue
		}
		if w.HasAmmo() || p.Ammo().Carrying(w.AmmoType()) {
			enc.logger.Debug("switching weapon", zap.String("weapon", w.Def.ID), zap.Int("slot", w.SlotIndex))
			enc.arena.Queue(arena.Action{Kind: arena.ActionSelectSlot, Slot: w.SlotIndex})
			return
		}
	}
}

func (enc *Encounter) nearestEnemy(from geom.Vec3) *npc.Enemy {
	var best *npc.Enemy
	bestDist := math.Inf(1)
	for _, e := range enc.arena.Enemies().All() {
		if e.Dying() {
			continue
		}
		if d := e.Location.Dist(from); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}
