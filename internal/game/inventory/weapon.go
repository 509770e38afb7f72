// Package inventory provides weapon definitions and instances, the ammunition
// ledger and the player's slot inventory.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Class is the weapon family. It selects reload animation sections and
// whether the pistol slide timeline runs on fire.
type Class string

const (
	ClassSMG          Class = "smg"
	ClassAssaultRifle Class = "assault_rifle"
	ClassPistol       Class = "pistol"
)

// Valid reports whether c is a known weapon class.
func (c Class) Valid() bool {
	switch c {
	case ClassSMG, ClassAssaultRifle, ClassPistol:
		return true
	}
	return false
}

// WeaponDef defines the static properties of a weapon loaded from YAML.
//
// Durations are expressed in seconds.
type WeaponDef struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Class            Class    `yaml:"class"`
	AmmoType         AmmoType `yaml:"ammo_type"`
	MagazineCapacity int      `yaml:"magazine_capacity"`
	StartingAmmo     int      `yaml:"starting_ammo"`
	Damage           float64  `yaml:"damage"`
	HeadshotDamage   float64  `yaml:"headshot_damage"`
	AutoFireInterval float64  `yaml:"auto_fire_interval"`
	Automatic        bool     `yaml:"automatic"`
	ReloadSection    string   `yaml:"reload_section"`
	ReloadTime       float64  `yaml:"reload_time"`
	EquipTime        float64  `yaml:"equip_time"`
	ClipBone         string   `yaml:"clip_bone"`
	BoneToHide       string   `yaml:"bone_to_hide"`
	Mesh             string   `yaml:"mesh"`
	Icon             string   `yaml:"icon"`
	AmmoIcon         string   `yaml:"ammo_icon"`
	FireSound        string   `yaml:"fire_sound"`
	PickupSound      string   `yaml:"pickup_sound"`
	EquipSound       string   `yaml:"equip_sound"`
	MuzzleFlash      string   `yaml:"muzzle_flash"`
}

// IsPistol reports whether the weapon runs the slide timeline on fire.
func (w *WeaponDef) IsPistol() bool {
	return w.Class == ClassPistol
}

// AutoFireDuration returns the fire cooldown as a Duration.
func (w *WeaponDef) AutoFireDuration() time.Duration { return Seconds(w.AutoFireInterval) }

// ReloadDuration returns the reload animation length as a Duration.
func (w *WeaponDef) ReloadDuration() time.Duration { return Seconds(w.ReloadTime) }

// EquipDuration returns the equip animation length as a Duration.
func (w *WeaponDef) EquipDuration() time.Duration { return Seconds(w.EquipTime) }

// Seconds converts a float number of seconds to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !w.Class.Valid() {
		errs = append(errs, fmt.Errorf("Class %q is not one of smg, assault_rifle, pistol", w.Class))
	}
	if !w.AmmoType.Valid() {
		errs = append(errs, fmt.Errorf("AmmoType %q is not one of 9mm, ar", w.AmmoType))
	}
	if w.MagazineCapacity <= 0 {
		errs = append(errs, errors.New("MagazineCapacity must be > 0"))
	}
	if w.StartingAmmo < 0 || w.StartingAmmo > w.MagazineCapacity {
		errs = append(errs, fmt.Errorf("StartingAmmo must be in [0, %d], got %d", w.MagazineCapacity, w.StartingAmmo))
	}
	if w.Damage <= 0 {
		errs = append(errs, errors.New("Damage must be > 0"))
	}
	if w.HeadshotDamage < w.Damage {
		errs = append(errs, errors.New("HeadshotDamage must be >= Damage"))
	}
	if w.AutoFireInterval <= 0 {
		errs = append(errs, errors.New("AutoFireInterval must be > 0"))
	}
	if w.ReloadTime <= 0 {
		errs = append(errs, errors.New("ReloadTime must be > 0"))
	}
	if w.EquipTime <= 0 {
		errs = append(errs, errors.New("EquipTime must be > 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	var weapons []*WeaponDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		var w WeaponDef
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}
