// Package npc provides enemy template definitions, the per-enemy combat
// controller and live enemy management.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/shooter/internal/game/geom"
)

// Sounds groups the cosmetic references an enemy plays.
type Sounds struct {
	Impact string `yaml:"impact"`
}

// Montages names the animation montages an enemy requests.
type Montages struct {
	Hit    string `yaml:"hit"`
	Attack string `yaml:"attack"`
	Death  string `yaml:"death"`
}

// Template defines a reusable enemy archetype loaded from YAML.
//
// Durations are expressed in seconds; distances in world units.
type Template struct {
	ID                string    `yaml:"id"`
	Name              string    `yaml:"name"`
	Mesh              string    `yaml:"mesh"`
	Speed             float64   `yaml:"speed"`
	CapsuleHalfHeight float64   `yaml:"capsule_half_height"`
	CapsuleRadius     float64   `yaml:"capsule_radius"`
	Health            float64   `yaml:"health"`
	BaseDamage        float64   `yaml:"base_damage"`
	HeadBone          string    `yaml:"head_bone"`
	StunChance        float64   `yaml:"stun_chance"`
	StunDuration      float64   `yaml:"stun_duration"`
	HitReactMin       float64   `yaml:"hit_react_min"`
	HitReactMax       float64   `yaml:"hit_react_max"`
	AttackWaitTime    float64   `yaml:"attack_wait_time"`
	DeathTime         float64   `yaml:"death_time"`
	HealthBarTime     float64   `yaml:"health_bar_time"`
	AggroRadius       float64   `yaml:"aggro_radius"`
	CombatRadius      float64   `yaml:"combat_radius"`
	MeleeReach        float64   `yaml:"melee_reach"`
	MeleeRadius       float64   `yaml:"melee_radius"`
	PatrolPoint       geom.Vec3 `yaml:"patrol_point"`
	PatrolPoint2      geom.Vec3 `yaml:"patrol_point_2"`
	ImpactParticles   string    `yaml:"impact_particles"`
	Sounds            Sounds    `yaml:"sounds"`
	Montages          Montages  `yaml:"montages"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff every numeric field is in range; returns an
// error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.Health <= 0 {
		return fmt.Errorf("npc template %q: health must be > 0", t.ID)
	}
	if t.BaseDamage < 0 {
		return fmt.Errorf("npc template %q: base_damage must be >= 0", t.ID)
	}
	if t.HeadBone == "" {
		return fmt.Errorf("npc template %q: head_bone must not be empty", t.ID)
	}
	if t.StunChance < 0 || t.StunChance > 1 {
		return fmt.Errorf("npc template %q: stun_chance must be in [0, 1]", t.ID)
	}
	if t.HitReactMin < 0 || t.HitReactMax < t.HitReactMin {
		return fmt.Errorf("npc template %q: hit react range [%g, %g] is invalid", t.ID, t.HitReactMin, t.HitReactMax)
	}
	if t.StunDuration <= 0 || t.AttackWaitTime <= 0 || t.DeathTime <= 0 || t.HealthBarTime <= 0 {
		return fmt.Errorf("npc template %q: stun_duration, attack_wait_time, death_time and health_bar_time must be > 0", t.ID)
	}
	if t.CombatRadius <= 0 || t.AggroRadius < t.CombatRadius {
		return fmt.Errorf("npc template %q: aggro_radius must be >= combat_radius > 0", t.ID)
	}
	if t.MeleeReach <= 0 || t.MeleeRadius <= 0 {
		return fmt.Errorf("npc template %q: melee_reach and melee_radius must be > 0", t.ID)
	}
	return nil
}

func seconds(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
