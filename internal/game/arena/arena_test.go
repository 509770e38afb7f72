package arena_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/shooter/internal/game/arena"
	"github.com/cory-johannsen/shooter/internal/game/combat"
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/dice"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/inventory"
	"github.com/cory-johannsen/shooter/internal/game/npc"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

const frame = 50 * time.Millisecond

func smgDef() *inventory.WeaponDef {
	return &inventory.WeaponDef{
		ID:               "smg",
		Name:             "Submachine Gun",
		Class:            inventory.ClassSMG,
		AmmoType:         inventory.Ammo9mm,
		MagazineCapacity: 30,
		StartingAmmo:     30,
		Damage:           15,
		HeadshotDamage:   30,
		AutoFireInterval: 0.1,
		Automatic:        true,
		ReloadTime:       1.2,
		EquipTime:        0.5,
	}
}

func gruxTemplate() *npc.Template {
	return &npc.Template{
		ID:                "grux",
		Name:              "Grux",
		CapsuleHalfHeight: 88,
		CapsuleRadius:     50,
		Health:            100,
		BaseDamage:        20,
		HeadBone:          "head",
		StunChance:        0.5,
		StunDuration:      1.2,
		HitReactMin:       0.5,
		HitReactMax:       0.75,
		AttackWaitTime:    1,
		DeathTime:         4,
		HealthBarTime:     4,
		AggroRadius:       800,
		CombatRadius:      150,
		MeleeReach:        80,
		MeleeRadius:       40,
	}
}

type fixture struct {
	arena *arena.Arena
	fx    *fx.Recorder
	sched *timer.Scheduler
}

func newFixture(t *testing.T, mutate func(*arena.Config), draws ...float64) *fixture {
	t.Helper()
	if len(draws) == 0 {
		draws = []float64{0.9}
	}
	rec := &fx.Recorder{}
	sched := timer.NewScheduler(nil)
	cfg := arena.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	a := arena.New(cfg, arena.Deps{
		Scheduler: sched,
		Presenter: rec,
		Roller:    dice.NewLoggedRoller(dice.NewFixedSource(draws...), zap.NewNop()),
	})
	return &fixture{arena: a, fx: rec, sched: sched}
}

func (f *fixture) armed(t *testing.T) *inventory.Weapon {
	t.Helper()
	w := inventory.NewWeapon(smgDef(), nil, f.arena.WeaponDeps())
	require.True(t, f.arena.Player().GiveWeapon(w))
	return w
}

func (f *fixture) spawn(t *testing.T, loc geom.Vec3, yaw float64) *npc.Enemy {
	t.Helper()
	e, err := f.arena.SpawnEnemy(gruxTemplate(), loc, yaw)
	require.NoError(t, err)
	return e
}

func TestArena_ShotResolvesSameTickAsTrigger(t *testing.T) {
	f := newFixture(t, nil)
	f.armed(t)
	e := f.spawn(t, geom.Vec3{X: 1000}, 180)

	f.arena.Queue(arena.Action{Kind: arena.ActionFirePressed})
	f.arena.Tick(frame)

	out := f.arena.LastOutcomes()
	require.Len(t, out, 1)
	assert.Equal(t, combat.TargetEnemy, out[0].TargetKind)
	assert.True(t, out[0].Headshot, "camera ray at head height")
	assert.Equal(t, 70.0, e.Health())

	facts := e.Blackboard().Facts()
	assert.Equal(t, f.arena.Player().Ref(), facts.Target)
	assert.True(t, facts.Stunned, "first hit always stuns")
}

func TestArena_AutoFireShotResolvedInTimerTick(t *testing.T) {
	f := newFixture(t, nil)
	w := f.armed(t)

	f.arena.Queue(arena.Action{Kind: arena.ActionFirePressed})
	f.arena.Tick(frame)
	require.Len(t, f.arena.LastOutcomes(), 1)

	f.arena.Tick(frame)
	require.Len(t, f.arena.LastOutcomes(), 1, "auto-fire completion at 100ms fires and resolves in the same tick")
	assert.Equal(t, combat.TargetNone, f.arena.LastOutcomes()[0].TargetKind)
	assert.Equal(t, 28, w.Ammo())

	f.arena.Queue(arena.Action{Kind: arena.ActionFireReleased})
	f.arena.Tick(frame)
	f.arena.Tick(frame)
	assert.Empty(t, f.arena.LastOutcomes())
	assert.Equal(t, 28, w.Ammo())
}

func TestArena_SensorsPublishTargetAndRange(t *testing.T) {
	f := newFixture(t, nil)
	e := f.spawn(t, geom.Vec3{X: 600}, 180)

	f.arena.Tick(frame)
	facts := e.Blackboard().Facts()
	assert.Equal(t, f.arena.Player().Ref(), facts.Target)
	assert.False(t, facts.InAttackRange)

	e.Location = geom.Vec3{X: 150}
	f.arena.Tick(frame)
	assert.True(t, e.Blackboard().Facts().InAttackRange)

	e.Location = geom.Vec3{X: 400}
	f.arena.Tick(frame)
	assert.False(t, e.Blackboard().Facts().InAttackRange)
}

func TestArena_MeleeContactOncePerWindow(t *testing.T) {
	f := newFixture(t, nil, 0.9)
	e := f.spawn(t, geom.Vec3{X: 100}, 180)
	p := f.arena.Player()

	e.ActivateWeapon(npc.Right)
	f.arena.Tick(frame)
	assert.Equal(t, 80.0, p.Health())
	assert.NotEqual(t, combat.Stunned, p.State(), "0.25 < 0.9 draw")

	f.arena.Tick(frame)
	assert.Equal(t, 80.0, p.Health(), "second overlap in the same window")

	e.DeactivateWeapon(npc.Right)
	e.ActivateWeapon(npc.Right)
	f.arena.Tick(frame)
	assert.Equal(t, 60.0, p.Health())
}

func TestArena_MeleeStunsOnLowDraw(t *testing.T) {
	f := newFixture(t, nil, 0.1)
	e := f.spawn(t, geom.Vec3{X: 100}, 180)

	e.ActivateWeapon(npc.Left)
	f.arena.Tick(frame)
	assert.Equal(t, combat.Stunned, f.arena.Player().State())
}

func TestArena_PlayerDeathPublishesCharacterDead(t *testing.T) {
	f := newFixture(t, func(c *arena.Config) { c.Player.Health = 20 })
	e := f.spawn(t, geom.Vec3{X: 100}, 180)

	e.ActivateWeapon(npc.Right)
	f.arena.Tick(frame)

	assert.True(t, f.arena.Player().Dead())
	assert.True(t, e.Blackboard().Facts().CharacterDead)
}

func TestArena_InteractPicksUpNearestItem(t *testing.T) {
	f := newFixture(t, nil)
	w := f.armed(t)
	require.Equal(t, 30, w.Ammo())
	p := f.arena.Player()
	before := p.Ammo().Count(inventory.Ammo9mm)

	far := inventory.NewAmmoBox(inventory.Ammo9mm, 50, geom.Vec3{X: 500})
	near := inventory.NewAmmoBox(inventory.Ammo9mm, 20, geom.Vec3{X: 60})
	f.arena.PlaceAmmo(far)
	f.arena.PlaceAmmo(near)

	f.arena.Queue(arena.Action{Kind: arena.ActionInteract})
	f.arena.Tick(frame)

	assert.Equal(t, before+20, p.Ammo().Count(inventory.Ammo9mm))
	require.Len(t, f.arena.WorldAmmo(), 1)
	assert.Equal(t, far.ID, f.arena.WorldAmmo()[0].ID)
}

func TestArena_InteractCollectsDroppedWeapon(t *testing.T) {
	f := newFixture(t, nil)
	f.armed(t)
	spare := inventory.NewWeapon(smgDef(), nil, f.arena.WeaponDeps())
	f.arena.PlaceWeapon(spare, geom.Vec3{Y: 50})

	f.arena.Queue(arena.Action{Kind: arena.ActionInteract})
	f.arena.Tick(frame)

	assert.Empty(t, f.arena.WorldWeapons())
	assert.Equal(t, inventory.StatePickedUp, spare.State)
	assert.Equal(t, 1, spare.SlotIndex)
}

func TestArena_SwapThrowsWeaponIntoWorld(t *testing.T) {
	f := newFixture(t, func(c *arena.Config) { c.Player.InventoryCapacity = 1 }, 0.5)
	held := f.armed(t)
	spare := inventory.NewWeapon(smgDef(), nil, f.arena.WeaponDeps())
	f.arena.PlaceWeapon(spare, geom.Vec3{Y: 50})

	f.arena.Queue(arena.Action{Kind: arena.ActionInteract})
	f.arena.Tick(frame)

	assert.Same(t, spare, f.arena.Player().Equipped())
	require.Len(t, f.arena.WorldWeapons(), 1)
	assert.Equal(t, held.ID, f.arena.WorldWeapons()[0].ID)
	assert.Equal(t, inventory.StateThrown, held.State)

	for i := 0; i < 14; i++ {
		f.arena.Tick(frame)
	}
	assert.Equal(t, inventory.StateDropped, held.State)
	assert.True(t, held.Pulsing())
}

func TestArena_HUD(t *testing.T) {
	f := newFixture(t, func(c *arena.Config) {
		c.Player.InventoryCapacity = 1
		c.Player.StartingAmmo = map[inventory.AmmoType]int{inventory.Ammo9mm: 40}
	})
	f.armed(t)
	e := f.spawn(t, geom.Vec3{X: 1000}, 180)
	dying := f.spawn(t, geom.Vec3{X: -1000}, 0)
	dying.Die()

	hud := f.arena.HUD()
	assert.Equal(t, 30, hud.Loaded)
	assert.Equal(t, map[inventory.AmmoType]int{inventory.Ammo9mm: 40}, hud.Carried)
	assert.False(t, hud.SlideMoving)
	require.Len(t, hud.HealthBars, 1)
	assert.InDelta(t, e.HealthBarScale(geom.Vec3{X: -300, Z: 70}, false), hud.HealthBars[e.ID], 1e-9)
	assert.Empty(t, hud.Falling)

	spare := inventory.NewWeapon(smgDef(), nil, f.arena.WeaponDeps())
	f.arena.PlaceWeapon(spare, geom.Vec3{Y: 50})
	f.arena.Queue(arena.Action{Kind: arena.ActionInteract})
	f.arena.Tick(frame)

	hud = f.arena.HUD()
	require.Len(t, hud.Falling, 1)
	assert.NotEqual(t, spare.ID, hud.Falling[0])
}

func TestArena_DeadEnemyStopsBlockingShots(t *testing.T) {
	f := newFixture(t, nil)
	w := f.armed(t)
	e := f.spawn(t, geom.Vec3{X: 1000}, 180)
	e.Die()

	f.arena.Queue(arena.Action{Kind: arena.ActionFirePressed})
	f.arena.Tick(frame)
	require.Len(t, f.arena.LastOutcomes(), 1)
	assert.Equal(t, combat.TargetNone, f.arena.LastOutcomes()[0].TargetKind)
	assert.Equal(t, 100.0, e.Health())
	assert.Equal(t, 29, w.Ammo())

	for i := 0; i < 80; i++ {
		f.arena.Tick(frame)
	}
	assert.Zero(t, f.arena.Enemies().Len(), "destroyed after the death time")
}

func TestArena_WallShieldsEnemy(t *testing.T) {
	wall := arena.Box{
		Actor: damage.Actor{Kind: damage.KindOther, ID: "wall"},
		Min:   geom.Vec3{X: 500, Y: -200, Z: -100},
		Max:   geom.Vec3{X: 520, Y: 200, Z: 300},
	}
	f := newFixture(t, func(c *arena.Config) { c.Walls = []arena.Box{wall} })
	f.armed(t)
	e := f.spawn(t, geom.Vec3{X: 1000}, 180)

	f.arena.Queue(arena.Action{Kind: arena.ActionFirePressed})
	f.arena.Tick(frame)

	out := f.arena.LastOutcomes()
	require.Len(t, out, 1)
	assert.Equal(t, combat.TargetOtherSurface, out[0].TargetKind)
	assert.Equal(t, 100.0, e.Health())
	last, ok := f.fx.Last("particles")
	require.True(t, ok)
	assert.Equal(t, "P_Impact", last.Name)
}

func TestArena_MotionMovesPlayer(t *testing.T) {
	f := newFixture(t, nil)
	f.arena.SetMotion(combat.Motion{Velocity: geom.Vec3{X: 600}}, 0)
	f.arena.Tick(500 * time.Millisecond)

	assert.True(t, f.arena.Player().Location.ApproxEqual(geom.Vec3{X: 300}, 1e-9))
	assert.Greater(t, f.arena.Player().CrosshairSpread(), 0.5)
}

func TestArena_PropertyHealthStaysBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		draws := rapid.SliceOfN(rapid.Float64Range(0, 0.999), 1, 8).Draw(rt, "draws")
		f := newFixture(t, nil, draws...)
		f.armed(t)
		e, err := f.arena.SpawnEnemy(gruxTemplate(), geom.Vec3{X: 120}, 180)
		if err != nil {
			rt.Fatal(err)
		}
		steps := rapid.SliceOfN(rapid.IntRange(0, 4), 1, 60).Draw(rt, "steps")
		for _, s := range steps {
			switch s {
			case 0:
				f.arena.Queue(arena.Action{Kind: arena.ActionFirePressed})
			case 1:
				f.arena.Queue(arena.Action{Kind: arena.ActionFireReleased})
			case 2:
				f.arena.Queue(arena.Action{Kind: arena.ActionReload})
			case 3:
				if !e.Dying() {
					e.ActivateWeapon(npc.Right)
				}
			case 4:
				e.DeactivateWeapon(npc.Right)
			}
			f.arena.Tick(frame)

			p := f.arena.Player()
			if p.Health() < 0 || p.Health() > p.MaxHealth() {
				rt.Fatalf("player health %v out of range", p.Health())
			}
			if e.Health() < 0 || e.Health() > e.MaxHealth() {
				rt.Fatalf("enemy health %v out of range", e.Health())
			}
		}
	})
}
