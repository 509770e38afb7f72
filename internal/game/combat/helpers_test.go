package combat_test

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/combat"
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/dice"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/inventory"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

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
		ReloadSection:    "Reload SMG",
		ReloadTime:       1.2,
		EquipTime:        0.5,
		FireSound:        "SC_SMGFire",
		MuzzleFlash:      "P_MuzzleFlash",
	}
}

func rifleDef() *inventory.WeaponDef {
	return &inventory.WeaponDef{
		ID:               "rifle",
		Name:             "Assault Rifle",
		Class:            inventory.ClassAssaultRifle,
		AmmoType:         inventory.AmmoAR,
		MagazineCapacity: 30,
		StartingAmmo:     30,
		Damage:           20,
		HeadshotDamage:   45,
		AutoFireInterval: 0.12,
		Automatic:        true,
		ReloadSection:    "Reload AR",
		ReloadTime:       1.5,
		EquipTime:        0.5,
	}
}

func pistolDef() *inventory.WeaponDef {
	return &inventory.WeaponDef{
		ID:               "pistol",
		Name:             "Pistol",
		Class:            inventory.ClassPistol,
		AmmoType:         inventory.Ammo9mm,
		MagazineCapacity: 12,
		StartingAmmo:     12,
		Damage:           25,
		HeadshotDamage:   60,
		AutoFireInterval: 0.25,
		ReloadSection:    "Reload Pistol",
		ReloadTime:       1.0,
		EquipTime:        0.4,
	}
}

type harness struct {
	sched   *timer.Scheduler
	fx      *fx.Recorder
	weapons inventory.Deps
	dropped []*inventory.Weapon
	killer  damage.Actor
	kills   int
}

func newHarness() *harness {
	h := &harness{sched: timer.NewScheduler(nil), fx: &fx.Recorder{}}
	h.weapons = inventory.Deps{
		Scheduler: h.sched,
		Presenter: h.fx,
		Roller:    dice.NewLoggedRoller(dice.NewFixedSource(0.5), zap.NewNop()),
		Timing:    inventory.DefaultTiming(),
	}
	return h
}

func (h *harness) weapon(def *inventory.WeaponDef) *inventory.Weapon {
	return inventory.NewWeapon(def, nil, h.weapons)
}

// weaponWithAmmo builds a weapon whose magazine holds loaded rounds.
func (h *harness) weaponWithAmmo(def *inventory.WeaponDef, loaded int) *inventory.Weapon {
	d := *def
	d.StartingAmmo = loaded
	return h.weapon(&d)
}

func (h *harness) player(cfg combat.Config) *combat.Player {
	return combat.NewPlayer("player", cfg, combat.Deps{
		Scheduler: h.sched,
		Presenter: h.fx,
		OnDrop:    func(w *inventory.Weapon) { h.dropped = append(h.dropped, w) },
		OnKilled: func(killer damage.Actor) {
			h.killer = killer
			h.kills++
		},
	})
}

// armed returns a player holding w with the given carried ammo.
func (h *harness) armed(w *inventory.Weapon, carried map[inventory.AmmoType]int) *combat.Player {
	cfg := combat.DefaultConfig()
	cfg.StartingAmmo = carried
	p := h.player(cfg)
	p.GiveWeapon(w)
	return p
}

func seconds(s float64) time.Duration { return inventory.Seconds(s) }

var enemyRef = damage.Actor{Kind: damage.KindEnemy, ID: "grux-1"}

// scriptedWorld replays trace results in order and records every trace.
type scriptedWorld struct {
	origin geom.Vec3
	dir    geom.Vec3
	noRay  bool
	hits   []combat.TraceHit
	traces [][2]geom.Vec3
}

func (w *scriptedWorld) ViewportRay() (geom.Vec3, geom.Vec3, bool) {
	return w.origin, w.dir, !w.noRay
}

func (w *scriptedWorld) LineTrace(start, end geom.Vec3) combat.TraceHit {
	w.traces = append(w.traces, [2]geom.Vec3{start, end})
	if len(w.hits) == 0 {
		return combat.TraceHit{}
	}
	hit := w.hits[0]
	w.hits = w.hits[1:]
	return hit
}

type fakeTarget struct {
	ref        damage.Actor
	head       string
	stunChance float64
	taken      []float64
	numbers    []float64
	impacts    int
}

func (t *fakeTarget) Ref() damage.Actor { return t.ref }
func (t *fakeTarget) TakeDamage(amount float64, _, _ damage.Actor) float64 {
	t.taken = append(t.taken, amount)
	return amount
}
func (t *fakeTarget) HeadRegion() string      { return t.head }
func (t *fakeTarget) SetStunChance(v float64) { t.stunChance = v }
func (t *fakeTarget) BulletHit(geom.Vec3)     { t.impacts++ }
func (t *fakeTarget) ShowHitNumber(amount float64, _ geom.Vec3, _ bool) {
	t.numbers = append(t.numbers, amount)
}
