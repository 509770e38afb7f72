package inventory_test

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/dice"
	"github.com/cory-johannsen/shooter/internal/game/fx"
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
	sched *timer.Scheduler
	fx    *fx.Recorder
	deps  inventory.Deps
}

func newHarness(draws ...float64) *harness {
	if len(draws) == 0 {
		draws = []float64{0.5}
	}
	h := &harness{sched: timer.NewScheduler(nil), fx: &fx.Recorder{}}
	h.deps = inventory.Deps{
		Scheduler: h.sched,
		Presenter: h.fx,
		Roller:    dice.NewLoggedRoller(dice.NewFixedSource(draws...), zap.NewNop()),
		Timing:    inventory.DefaultTiming(),
	}
	return h
}
