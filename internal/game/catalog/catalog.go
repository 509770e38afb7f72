// Package catalog holds the configuration records the combat core is built
// from: weapon definitions, enemy templates and the rarity table, looked up
// by ID.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/shooter/internal/game/inventory"
	"github.com/cory-johannsen/shooter/internal/game/npc"
)

// ErrNotFound is returned when a lookup names an unknown record.
var ErrNotFound = errors.New("record not found")

// RecordSource supplies configuration records from a backing store.
type RecordSource interface {
	Weapons(ctx context.Context) ([]*inventory.WeaponDef, error)
	Enemies(ctx context.Context) ([]*npc.Template, error)
	Rarities(ctx context.Context) ([]*inventory.RarityDef, error)
}

// Catalog is an immutable keyed view over all loaded records.
type Catalog struct {
	items   *inventory.Registry
	enemies map[string]*npc.Template
}

// New validates and indexes the given records.
//
// Postcondition: Returns an error on the first invalid or duplicate record.
func New(weapons []*inventory.WeaponDef, enemies []*npc.Template, rarities []*inventory.RarityDef) (*Catalog, error) {
	c := &Catalog{
		items:   inventory.NewRegistry(),
		enemies: make(map[string]*npc.Template, len(enemies)),
	}
	for _, r := range rarities {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rarity %q: %w", r.ID, err)
		}
		if err := c.items.RegisterRarity(r); err != nil {
			return nil, err
		}
	}
	for _, w := range weapons {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("weapon %q: %w", w.ID, err)
		}
		if err := c.items.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}
	for _, t := range enemies {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.enemies[t.ID]; dup {
			return nil, fmt.Errorf("enemy template %q already registered", t.ID)
		}
		c.enemies[t.ID] = t
	}
	return c, nil
}

// FromDirs loads every weapon and enemy YAML file under the given
// directories plus the rarity table file.
//
// Precondition: all three paths must be readable.
func FromDirs(weaponsDir, enemiesDir, rarityFile string) (*Catalog, error) {
	weapons, err := inventory.LoadWeapons(weaponsDir)
	if err != nil {
		return nil, fmt.Errorf("loading weapons: %w", err)
	}
	enemies, err := npc.LoadTemplates(enemiesDir)
	if err != nil {
		return nil, fmt.Errorf("loading enemies: %w", err)
	}
	rarities, err := inventory.LoadRarities(rarityFile)
	if err != nil {
		return nil, fmt.Errorf("loading rarities: %w", err)
	}
	return New(weapons, enemies, rarities)
}

// FromSource reads every record from src.
//
// Precondition: src must not be nil.
func FromSource(ctx context.Context, src RecordSource) (*Catalog, error) {
	weapons, err := src.Weapons(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading weapons: %w", err)
	}
	enemies, err := src.Enemies(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading enemies: %w", err)
	}
	rarities, err := src.Rarities(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading rarities: %w", err)
	}
	return New(weapons, enemies, rarities)
}

// Weapon returns the weapon definition with the given ID.
func (c *Catalog) Weapon(id string) (*inventory.WeaponDef, error) {
	if w := c.items.Weapon(id); w != nil {
		return w, nil
	}
	return nil, fmt.Errorf("weapon %q: %w", id, ErrNotFound)
}

// Enemy returns the enemy template with the given ID.
func (c *Catalog) Enemy(id string) (*npc.Template, error) {
	if t, ok := c.enemies[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("enemy %q: %w", id, ErrNotFound)
}

// Rarity returns the rarity row with the given ID.
func (c *Catalog) Rarity(id inventory.Rarity) (*inventory.RarityDef, error) {
	if r, ok := c.items.Rarity(id); ok {
		return r, nil
	}
	return nil, fmt.Errorf("rarity %q: %w", id, ErrNotFound)
}

// Weapons returns every weapon definition sorted by ID.
func (c *Catalog) Weapons() []*inventory.WeaponDef { return c.items.AllWeapons() }

// Rarities returns the rarity table ordered by star count.
func (c *Catalog) Rarities() []*inventory.RarityDef { return c.items.AllRarities() }

// Enemies returns every enemy template sorted by ID.
func (c *Catalog) Enemies() []*npc.Template {
	out := make([]*npc.Template, 0, len(c.enemies))
	for _, t := range c.enemies {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NewWeapon spawns a dropped weapon instance of weaponID graded by rarity.
//
// Postcondition: Returns ErrNotFound (wrapped) for an unknown weapon or rarity.
func (c *Catalog) NewWeapon(weaponID string, rarity inventory.Rarity, deps inventory.Deps) (*inventory.Weapon, error) {
	def, err := c.Weapon(weaponID)
	if err != nil {
		return nil, err
	}
	r, err := c.Rarity(rarity)
	if err != nil {
		return nil, err
	}
	return inventory.NewWeapon(def, r, deps), nil
}
