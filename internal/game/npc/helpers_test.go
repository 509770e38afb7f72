package npc_test

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/dice"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/npc"
	"github.com/cory-johannsen/shooter/internal/game/timer"
)

func gruxTemplate() *npc.Template {
	return &npc.Template{
		ID:             "grux",
		Name:           "Grux",
		Health:         100,
		BaseDamage:     20,
		HeadBone:       "head",
		StunChance:     0.5,
		StunDuration:   1.2,
		HitReactMin:    0.5,
		HitReactMax:    0.75,
		AttackWaitTime: 1,
		DeathTime:      4,
		HealthBarTime:  4,
		AggroRadius:    800,
		CombatRadius:   150,
		MeleeReach:     80,
		MeleeRadius:    40,
		PatrolPoint:    geom.Vec3{X: 500},
		PatrolPoint2:   geom.Vec3{Y: 500},
		Montages:       npc.Montages{Hit: "Hit", Attack: "Attack", Death: "Death"},
	}
}

type harness struct {
	sched *timer.Scheduler
	fx    *fx.Recorder
	deps  npc.Deps
}

// newHarness scripts the random draws the enemy will see, in order.
func newHarness(draws ...float64) *harness {
	if len(draws) == 0 {
		draws = []float64{0.99}
	}
	h := &harness{sched: timer.NewScheduler(nil), fx: &fx.Recorder{}}
	h.deps = npc.Deps{
		Scheduler: h.sched,
		Presenter: h.fx,
		Roller:    dice.NewLoggedRoller(dice.NewFixedSource(draws...), zap.NewNop()),
		Damage:    damage.NewDirect(nil),
	}
	return h
}

var playerRef = damage.Actor{Kind: damage.KindPlayer, ID: "player"}

type fakeVictim struct {
	health     float64
	stunChance float64
	stuns      int
	hits       []float64
}

func (v *fakeVictim) Ref() damage.Actor { return playerRef }
func (v *fakeVictim) TakeDamage(amount float64, _, _ damage.Actor) float64 {
	v.hits = append(v.hits, amount)
	v.health -= amount
	return amount
}
func (v *fakeVictim) StunChance() float64      { return v.stunChance }
func (v *fakeVictim) Stun() bool               { v.stuns++; return true }
func (v *fakeVictim) Position() geom.Vec3      { return geom.Vec3{X: 100} }
func (v *fakeVictim) MeleeImpactSound() string { return "SC_MeleeImpact" }
func (v *fakeVictim) BloodParticles() string   { return "P_Blood" }
