package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/shooter/internal/game/dice"
)

// TestDraw_String verifies the audit string contains label, bounds and value.
func TestDraw_String(t *testing.T) {
	d := dice.Draw{Label: "enemy_stun", Lo: 0, Hi: 1, Value: 0.42}
	assert.Equal(t, "enemy_stun [0, 1] = 0.4200", d.String())
}

// TestSeededSource_Deterministic verifies two sources with the same seed agree.
func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(7)
	b := dice.NewSeededSource(7)
	for i := 0; i < 32; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.Intn(100), b.Intn(100))
	}
}

// TestProperty_FRandRange_WithinBounds verifies the FRandRange postcondition.
func TestProperty_FRandRange_WithinBounds(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.Float64Range(-1000, 1000).Draw(rt, "lo")
		span := rapid.Float64Range(0, 1000).Draw(rt, "span")
		v := dice.FRandRange(src, lo, lo+span)
		if v < lo || v > lo+span {
			rt.Fatalf("value %v outside [%v, %v]", v, lo, lo+span)
		}
	})
}

// TestProperty_RandRange_Inclusive verifies RandRange stays inside [lo, hi].
func TestProperty_RandRange_Inclusive(t *testing.T) {
	src := dice.NewSeededSource(99)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := lo + rapid.IntRange(0, 10).Draw(rt, "span")
		v := dice.RandRange(src, lo, hi)
		if v < lo || v > hi {
			rt.Fatalf("value %d outside [%d, %d]", v, lo, hi)
		}
	})
}

// TestFRandRange_PanicsOnInvertedBounds verifies the precondition panic.
func TestFRandRange_PanicsOnInvertedBounds(t *testing.T) {
	assert.Panics(t, func() { dice.FRandRange(dice.NewCryptoSource(), 1, 0) })
}

// TestRoller_LogsEachDraw verifies the logged roller emits one debug entry per draw.
func TestRoller_LogsEachDraw(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.New(core))

	v := r.Uniform("hit_react", 0.5, 0.75)
	n := r.IntRange("attack_section", 1, 4)

	assert.GreaterOrEqual(t, v, 0.5)
	assert.LessOrEqual(t, v, 0.75)
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 4)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "hit_react", logs.All()[0].ContextMap()["label"])
}
