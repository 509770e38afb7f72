// Package arena runs one combat encounter frame by frame: it owns the
// scheduler, the player, the live enemies, the collision scene and the items
// lying in the world, and advances them in a fixed phase order.
package arena

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/combat"
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/dice"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/inventory"
	"github.com/cory-johannsen/shooter/internal/game/npc"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

// BodyRegion is the region reported for hits on an enemy's torso volume.
const BodyRegion = "spine_02"

const (
	headRadiusFactor = 0.5
	dropDistance     = 150.0
)

// ActionKind enumerates the player input transitions the arena accepts.
type ActionKind int

const (
	ActionFirePressed ActionKind = iota
	ActionFireReleased
	ActionAimPressed
	ActionAimReleased
	ActionReload
	ActionSelectSlot
	ActionInteract
)

// Action is one queued input transition. Slot is only read by ActionSelectSlot.
type Action struct {
	Kind ActionKind
	Slot int
}

// Config holds the arena tunables.
type Config struct {
	PlayerID     string
	Player       combat.Config
	Spawn        geom.Vec3
	SpawnYaw     float64
	PlayerRadius float64
	PickupRadius float64
	CameraBack   float64
	CameraHeight float64
	// ImpactParticles is spawned where shots hit non-enemy geometry.
	ImpactParticles string
	Walls           []Box
}

// DefaultConfig returns the stock arena configuration.
func DefaultConfig() Config {
	return Config{
		PlayerID:        "player",
		Player:          combat.DefaultConfig(),
		PlayerRadius:    42,
		PickupRadius:    120,
		CameraBack:      300,
		CameraHeight:    70,
		ImpactParticles: "P_Impact",
	}
}

// Deps bundles the collaborators shared by everything in the arena.
type Deps struct {
	Scheduler *timer.Scheduler
	Presenter fx.Presenter
	Roller    *dice.Roller
	Damage    damage.Channel
	Logger    *zap.Logger
	// Timing configures weapons spawned into the arena.
	Timing inventory.Timing
}

// Arena is a single-threaded combat encounter. Nothing in it may be touched
// from any goroutine other than the one calling Tick.
type Arena struct {
	cfg    Config
	sched  *timer.Scheduler
	logger *zap.Logger

	player  *combat.Player
	enemies *npc.Manager
	scanner *combat.HitScanner
	scene   *Scene
	weapons inventory.Deps

	actions []Action
	motion  combat.Motion

	drops map[string]*inventory.Weapon
	boxes map[string]*inventory.AmmoBox

	aggroed map[string]bool
	inRange map[string]bool

	frame    uint64
	outcomes []combat.HitOutcome
}

// New builds an arena around a fresh player.
//
// Precondition: deps.Scheduler must not be nil.
func New(cfg Config, deps Deps) *Arena {
	if deps.Scheduler == nil {
		panic("arena: New: Scheduler must not be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Presenter == nil {
		deps.Presenter = fx.Nop{}
	}
	if deps.Roller == nil {
		deps.Roller = dice.NewLoggedRoller(dice.NewCryptoSource(), deps.Logger)
	}
	if deps.Damage == nil {
		deps.Damage = damage.NewDirect(deps.Logger)
	}
	if cfg.PlayerID == "" {
		cfg.PlayerID = "player"
	}

	a := &Arena{
		cfg:     cfg,
		sched:   deps.Scheduler,
		logger:  deps.Logger.Named("arena"),
		scene:   NewScene(cfg.Walls...),
		drops:   make(map[string]*inventory.Weapon),
		boxes:   make(map[string]*inventory.AmmoBox),
		aggroed: make(map[string]bool),
		inRange: make(map[string]bool),
		weapons: inventory.Deps{
			Scheduler: deps.Scheduler,
			Presenter: deps.Presenter,
			Roller:    deps.Roller,
			Logger:    deps.Logger,
			Timing:    deps.Timing,
		},
	}
	a.enemies = npc.NewManager(npc.Deps{
		Scheduler: deps.Scheduler,
		Presenter: deps.Presenter,
		Roller:    deps.Roller,
		Damage:    deps.Damage,
		Logger:    deps.Logger,
	})
	a.player = combat.NewPlayer(cfg.PlayerID, cfg.Player, combat.Deps{
		Scheduler: deps.Scheduler,
		Presenter: deps.Presenter,
		Logger:    deps.Logger,
		OnDrop:    a.onDrop,
		OnKilled:  a.onPlayerKilled,
	})
	a.player.Location = cfg.Spawn
	a.player.Yaw = cfg.SpawnYaw
	a.scanner = combat.NewHitScanner(combat.ScannerConfig{
		World:           a.scene,
		Targets:         a.resolveTarget,
		Damage:          deps.Damage,
		Presenter:       deps.Presenter,
		ImpactParticles: cfg.ImpactParticles,
		Logger:          deps.Logger,
	})
	return a
}

// Player returns the arena's player.
func (a *Arena) Player() *combat.Player { return a.player }

// Enemies returns the live enemy manager.
func (a *Arena) Enemies() *npc.Manager { return a.enemies }

// Scene returns the collision world shots are traced against.
func (a *Arena) Scene() *Scene { return a.scene }

// Scheduler returns the game-time scheduler Tick advances.
func (a *Arena) Scheduler() *timer.Scheduler { return a.sched }

// Frame returns the number of completed ticks.
func (a *Arena) Frame() uint64 { return a.frame }

// WeaponDeps returns the collaborators weapons spawned into this arena must use.
func (a *Arena) WeaponDeps() inventory.Deps { return a.weapons }

// LastOutcomes returns the hit outcomes resolved during the last Tick.
func (a *Arena) LastOutcomes() []combat.HitOutcome { return a.outcomes }

// SpawnEnemy adds an enemy built from tmpl at loc facing yaw.
func (a *Arena) SpawnEnemy(tmpl *npc.Template, loc geom.Vec3, yaw float64) (*npc.Enemy, error) {
	e, err := a.enemies.Spawn(tmpl, loc, yaw)
	if err != nil {
		return nil, fmt.Errorf("spawning enemy: %w", err)
	}
	return e, nil
}

// PlaceWeapon puts a dropped weapon into the world at loc.
//
// Precondition: w must not be held.
func (a *Arena) PlaceWeapon(w *inventory.Weapon, loc geom.Vec3) {
	if w.State.IsHeld() {
		panic("arena: PlaceWeapon: weapon is held")
	}
	w.Location = loc
	a.drops[w.ID] = w
}

// PlaceAmmo puts an ammo box into the world.
func (a *Arena) PlaceAmmo(box *inventory.AmmoBox) {
	a.boxes[box.ID] = box
}

// WorldWeapons returns the weapons lying in the world ordered by ID.
func (a *Arena) WorldWeapons() []*inventory.Weapon {
	out := make([]*inventory.Weapon, 0, len(a.drops))
	for _, w := range a.drops {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WorldAmmo returns the ammo boxes lying in the world ordered by ID.
func (a *Arena) WorldAmmo() []*inventory.AmmoBox {
	out := make([]*inventory.AmmoBox, 0, len(a.boxes))
	for _, b := range a.boxes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Queue records an input transition for the next Tick.
func (a *Arena) Queue(act Action) {
	a.actions = append(a.actions, act)
}

// SetMotion sets the player's velocity, airborne flag and facing for the
// following ticks.
func (a *Arena) SetMotion(m combat.Motion, yaw float64) {
	a.motion = m
	a.player.Yaw = yaw
}

// Tick advances the encounter by dt.
//
// Phases, in order: queued inputs and overlap sensors; scheduler advance;
// hit resolution of every shot fired in the first two phases; per-frame
// derived values; blackboard publication.
func (a *Arena) Tick(dt time.Duration) {
	a.frame++

	a.applyActions()
	a.movePlayer(dt)
	a.updateSensors()

	a.sched.Advance(dt)

	a.resolveShots()

	a.player.Tick(dt, a.motion)

	for _, e := range a.enemies.All() {
		e.PublishFacts()
	}
}

func (a *Arena) applyActions() {
	actions := a.actions
	a.actions = nil
	for _, act := range actions {
		switch act.Kind {
		case ActionFirePressed:
			a.player.FireButtonPressed()
		case ActionFireReleased:
			a.player.FireButtonReleased()
		case ActionAimPressed:
			a.player.AimPressed()
		case ActionAimReleased:
			a.player.AimReleased()
		case ActionReload:
			a.player.Reload()
		case ActionSelectSlot:
			a.player.SelectSlot(act.Slot)
		case ActionInteract:
			a.interact()
		default:
			a.logger.Warn("unknown action", zap.Int("kind", int(act.Kind)))
		}
	}
}

func (a *Arena) movePlayer(dt time.Duration) {
	if a.player.Dead() {
		return
	}
	a.player.Location = a.player.Location.Add(a.motion.Velocity.Scale(dt.Seconds()))
}

// interact picks up the nearest reachable item.
func (a *Arena) interact() {
	item, ok := a.nearestItem()
	if !ok {
		return
	}
	if !a.player.Pickup(item) {
		return
	}
	switch item.Kind {
	case inventory.PickupWeapon:
		delete(a.drops, item.Weapon.ID)
	case inventory.PickupAmmo:
		delete(a.boxes, item.Ammo.ID)
	}
}

func (a *Arena) nearestItem() (inventory.Pickup, bool) {
	best := a.cfg.PickupRadius
	var found inventory.Pickup
	ok := false
	pos := a.player.Location
	for _, w := range a.WorldWeapons() {
		if w.State != inventory.StateDropped {
			continue
		}
		if d := w.Location.Dist(pos); d <= best {
			best, found, ok = d, inventory.WeaponPickup(w), true
		}
	}
	for _, b := range a.WorldAmmo() {
		if d := b.Location.Dist(pos); d <= best {
			best, found, ok = d, inventory.AmmoPickup(b), true
		}
	}
	return found, ok
}

// updateSensors raises the begin/end overlap events of every enemy's aggro
// sphere, combat range sphere and melee volumes against the player.
func (a *Arena) updateSensors() {
	if a.player.Dead() {
		return
	}
	ref := a.player.Ref()
	pos := a.player.Location
	for _, e := range a.enemies.All() {
		if e.Dying() {
			continue
		}
		d := e.Location.Dist(pos)

		inAggro := d <= e.Template.AggroRadius+a.cfg.PlayerRadius
		if inAggro && !a.aggroed[e.ID] {
			e.OnAggroOverlap(ref)
		}
		a.aggroed[e.ID] = inAggro

		inCombat := d <= e.Template.CombatRadius+a.cfg.PlayerRadius
		switch {
		case inCombat && !a.inRange[e.ID]:
			e.OnCombatRangeBegin(ref)
		case !inCombat && a.inRange[e.ID]:
			e.OnCombatRangeEnd(ref)
		}
		a.inRange[e.ID] = inCombat

		for _, side := range []npc.Side{npc.Left, npc.Right} {
			if !e.WeaponActive(side) {
				continue
			}
			center, radius := e.WeaponVolume(side)
			if Overlaps(center, radius, pos, a.cfg.PlayerRadius) {
				e.OnWeaponOverlap(side, a.player)
			}
		}
	}
}

func (a *Arena) resolveShots() {
	a.outcomes = a.outcomes[:0]
	shots := a.player.DrainShots()
	if len(shots) == 0 {
		return
	}
	a.syncScene()
	for _, shot := range shots {
		out := a.scanner.Resolve(shot)
		a.outcomes = append(a.outcomes, out)
		a.logger.Debug("shot resolved",
			zap.String("weapon", shot.WeaponID),
			zap.Stringer("target", out.TargetKind),
			zap.Bool("headshot", out.Headshot),
			zap.Float64("damage", out.Damage),
		)
	}
}

// syncScene rebuilds enemy hit volumes and the camera ray from the current frame.
func (a *Arena) syncScene() {
	spheres := make([]Sphere, 0, 2*a.enemies.Len())
	for _, e := range a.enemies.All() {
		if !e.CollisionEnabled() {
			continue
		}
		t := e.Template
		headR := t.CapsuleRadius * headRadiusFactor
		spheres = append(spheres,
			Sphere{Actor: e.Ref(), Region: BodyRegion, Center: e.Location, Radius: t.CapsuleRadius},
			Sphere{
				Actor:  e.Ref(),
				Region: e.HeadRegion(),
				Center: e.Location.Add(geom.Up.Scale(t.CapsuleHalfHeight - headR)),
				Radius: headR,
			},
		)
	}
	a.scene.SetSpheres(spheres)

	fwd := geom.ForwardFromYaw(a.player.Yaw)
	a.scene.SetCamera(a.cameraOrigin(fwd), fwd)
}

func (a *Arena) cameraOrigin(fwd geom.Vec3) geom.Vec3 {
	return a.player.Location.
		Add(geom.Up.Scale(a.cfg.CameraHeight)).
		Sub(fwd.Scale(a.cfg.CameraBack))
}

func (a *Arena) resolveTarget(actor damage.Actor) (combat.HitTarget, bool) {
	if actor.Kind != damage.KindEnemy {
		return nil, false
	}
	e, ok := a.enemies.Get(actor.ID)
	if !ok {
		return nil, false
	}
	return e, true
}

func (a *Arena) onDrop(w *inventory.Weapon) {
	dir := w.Impulse.Normalize()
	if dir == (geom.Vec3{}) {
		dir = geom.RightFromYaw(a.player.Yaw)
	}
	a.PlaceWeapon(w, a.player.Location.Add(dir.Scale(dropDistance)))
	a.logger.Debug("weapon dropped", zap.String("weapon", w.ID))
}

func (a *Arena) onPlayerKilled(killer damage.Actor) {
	if killer.Kind != damage.KindEnemy {
		return
	}
	if e, ok := a.enemies.Get(killer.ID); ok {
		e.NotifyCharacterDead()
	}
}
