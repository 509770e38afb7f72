package fx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
)

var (
	_ fx.Presenter = fx.Nop{}
	_ fx.Presenter = (*fx.LogPresenter)(nil)
	_ fx.Presenter = (*fx.Recorder)(nil)
)

func TestLogPresenter_HitNumberLoggedAtInfo(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := fx.NewLogPresenter(zap.New(core))

	p.ShowHitNumber(damage.Actor{Kind: damage.KindEnemy, ID: "grux-1"}, 45, geom.Vec3{X: 1}, true)

	entries := logs.FilterMessage("hit number").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, true, entries[0].ContextMap()["headshot"])
	assert.Equal(t, "enemy:grux-1", entries[0].ContextMap()["enemy"])
}

func TestLogPresenter_EmptySoundSkipped(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := fx.NewLogPresenter(zap.New(core))

	p.PlaySound("", geom.Vec3{})
	p.SpawnParticles("", geom.Vec3{})

	assert.Zero(t, logs.Len())
}

func TestRecorder_CountAndLast(t *testing.T) {
	r := &fx.Recorder{}
	r.PlaySound("a", geom.Vec3{})
	r.PlaySound("b", geom.Vec3{})
	r.PulseItem("w1")

	assert.Equal(t, 2, r.Count("sound"))
	last, ok := r.Last("sound")
	require.True(t, ok)
	assert.Equal(t, "b", last.Name)
	_, ok = r.Last("beam")
	assert.False(t, ok)
}
