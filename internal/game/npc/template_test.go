package npc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/shooter/internal/game/npc"
)

const gruxYAML = `id: grux
name: Grux
mesh: SK_Grux
speed: 300
capsule_half_height: 88
capsule_radius: 50
health: 100
base_damage: 20
head_bone: head
stun_chance: 0.5
stun_duration: 1.2
hit_react_min: 0.5
hit_react_max: 0.75
attack_wait_time: 1
death_time: 4
health_bar_time: 4
aggro_radius: 800
combat_radius: 150
melee_reach: 80
melee_radius: 40
patrol_point: {x: 500, y: 0, z: 0}
patrol_point_2: {x: 0, y: 500, z: 0}
impact_particles: P_Blood
sounds:
  impact: SC_GruxImpact
montages:
  hit: HitReactMontage
  attack: AttackMontage
  death: DeathMontage
`

func TestLoadTemplateFromBytes_Grux(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(gruxYAML))
	require.NoError(t, err)
	assert.Equal(t, "grux", tmpl.ID)
	assert.Equal(t, "head", tmpl.HeadBone)
	assert.Equal(t, 500.0, tmpl.PatrolPoint.X)
	assert.Equal(t, 500.0, tmpl.PatrolPoint2.Y)
	assert.Equal(t, "DeathMontage", tmpl.Montages.Death)
}

func TestTemplate_Validate_RejectsBadRanges(t *testing.T) {
	cases := map[string]func(*npc.Template){
		"no id":          func(t *npc.Template) { t.ID = "" },
		"zero health":    func(t *npc.Template) { t.Health = 0 },
		"stun > 1":       func(t *npc.Template) { t.StunChance = 1.5 },
		"react inverted": func(t *npc.Template) { t.HitReactMax = 0.1 },
		"aggro < combat": func(t *npc.Template) { t.AggroRadius = 100 },
		"no head":        func(t *npc.Template) { t.HeadBone = "" },
		"no death time":  func(t *npc.Template) { t.DeathTime = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tmpl := gruxTemplate()
			mutate(tmpl)
			assert.Error(t, tmpl.Validate())
		})
	}
}

func TestLoadTemplates_Dir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grux.yaml"), []byte(gruxYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))
	tmpls, err := npc.LoadTemplates(dir)
	require.NoError(t, err)
	assert.Len(t, tmpls, 1)
}

func TestLoadTemplates_InvalidFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\n"), 0644))
	_, err := npc.LoadTemplates(dir)
	assert.Error(t, err)
}
