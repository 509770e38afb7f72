package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/shooter/internal/game/inventory"
)

func TestLoadRarities_ParsesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rarity.yaml")
	content := `rarities:
  - id: damaged
    stars: 1
    damage_multiplier: 0.75
  - id: legendary
    stars: 5
    damage_multiplier: 2.0
    glow_color: "#ffb000"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rs, err := inventory.LoadRarities(path)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, inventory.RarityLegendary, rs[1].ID)
	assert.Equal(t, 2.0, rs[1].Multiplier())
}

func TestLoadRarities_RejectsDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rarity.yaml")
	content := `rarities:
  - {id: common, stars: 2, damage_multiplier: 1}
  - {id: common, stars: 2, damage_multiplier: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	_, err := inventory.LoadRarities(path)
	assert.Error(t, err)
}

func TestRarityDef_Validate(t *testing.T) {
	assert.Error(t, (&inventory.RarityDef{ID: "rare", Stars: 9, DamageMultiplier: 1}).Validate())
	assert.Error(t, (&inventory.RarityDef{ID: "rare", Stars: 3}).Validate())
	assert.NoError(t, (&inventory.RarityDef{ID: "rare", Stars: 4, DamageMultiplier: 1.5}).Validate())
}

func TestRarityDef_NilMultiplierIsOne(t *testing.T) {
	var r *inventory.RarityDef
	assert.Equal(t, 1.0, r.Multiplier())
}
