package inventory

import (
	"fmt"
	"sort"
)

// Registry holds all loaded weapon and rarity definitions indexed by ID.
type Registry struct {
	weapons  map[string]*WeaponDef
	rarities map[Rarity]*RarityDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons:  make(map[string]*WeaponDef),
		rarities: make(map[Rarity]*RarityDef),
	}
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterRarity adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Rarity(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterRarity(d *RarityDef) error {
	if _, exists := r.rarities[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterRarity: rarity %q already registered", d.ID)
	}
	r.rarities[d.ID] = d
	return nil
}

// Weapon returns the WeaponDef for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *WeaponDef {
	return r.weapons[id]
}

// Rarity returns the RarityDef for id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Rarity(id Rarity) (*RarityDef, bool) {
	d, ok := r.rarities[id]
	return d, ok
}

// AllWeapons returns all registered WeaponDefs sorted by ID.
//
// Postcondition: len(result) == number of registered weapons.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllRarities returns all registered RarityDefs ordered by star count.
func (r *Registry) AllRarities() []*RarityDef {
	out := make([]*RarityDef, 0, len(r.rarities))
	for _, d := range r.rarities {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stars < out[j].Stars })
	return out
}
