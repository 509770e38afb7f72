package inventory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rarity grades an item and scales a weapon's damage.
type Rarity string

const (
	RarityDamaged   Rarity = "damaged"
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// RarityDef is one row of the rarity table.
type RarityDef struct {
	ID               Rarity  `yaml:"id"`
	Stars            int     `yaml:"stars"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	GlowColor        string  `yaml:"glow_color"`
	IconBackground   string  `yaml:"icon_background"`
}

// Multiplier returns the damage multiplier, treating a nil def as 1.
func (r *RarityDef) Multiplier() float64 {
	if r == nil {
		return 1
	}
	return r.DamageMultiplier
}

// Validate checks that the RarityDef satisfies its invariants.
// Precondition: r is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (r *RarityDef) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if r.Stars < 1 || r.Stars > 5 {
		errs = append(errs, fmt.Errorf("Stars must be in [1, 5], got %d", r.Stars))
	}
	if r.DamageMultiplier <= 0 {
		errs = append(errs, errors.New("DamageMultiplier must be > 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("rarity validation failed: %v", errs)
	}
	return nil
}

type rarityFile struct {
	Rarities []*RarityDef `yaml:"rarities"`
}

// LoadRarities parses the rarity table at path.
// Precondition: path is a readable YAML file with a top-level "rarities" list.
// Postcondition: returns all valid RarityDefs or the first encountered error.
func LoadRarities(path string) ([]*RarityDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadRarities: cannot read file %q: %w", path, err)
	}
	var f rarityFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("LoadRarities: cannot parse file %q: %w", path, err)
	}
	seen := make(map[Rarity]bool, len(f.Rarities))
	for _, r := range f.Rarities {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("LoadRarities: invalid rarity in %q: %w", path, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("LoadRarities: duplicate rarity %q in %q", r.ID, path)
		}
		seen[r.ID] = true
	}
	return f.Rarities, nil
}
