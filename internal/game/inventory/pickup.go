package inventory

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/shooter/internal/game/geom"
)

// PickupKind tags the variant held by a Pickup.
type PickupKind int

const (
	// PickupOther is an item the combat core does not handle.
	PickupOther PickupKind = iota
	// PickupWeapon carries a Weapon.
	PickupWeapon
	// PickupAmmo carries an AmmoBox.
	PickupAmmo
)

// AmmoBox is a world item holding loose rounds of one type.
type AmmoBox struct {
	ID       string
	Type     AmmoType
	Count    int
	Location geom.Vec3
}

// NewAmmoBox returns an AmmoBox with a fresh ID.
func NewAmmoBox(t AmmoType, count int, at geom.Vec3) *AmmoBox {
	return &AmmoBox{ID: uuid.NewString(), Type: t, Count: count, Location: at}
}

// Pickup is an item the player interacts with, resolved to its variant once
// when the interaction event is produced.
//
// Invariant: Weapon is non-nil iff Kind == PickupWeapon; Ammo is non-nil iff
// Kind == PickupAmmo.
type Pickup struct {
	Kind   PickupKind
	Weapon *Weapon
	Ammo   *AmmoBox
}

// WeaponPickup wraps w.
func WeaponPickup(w *Weapon) Pickup { return Pickup{Kind: PickupWeapon, Weapon: w} }

// AmmoPickup wraps a.
func AmmoPickup(a *AmmoBox) Pickup { return Pickup{Kind: PickupAmmo, Ammo: a} }

// ID returns the identifier of the wrapped item, or "" for PickupOther.
func (p Pickup) ID() string {
	switch p.Kind {
	case PickupWeapon:
		return p.Weapon.ID
	case PickupAmmo:
		return p.Ammo.ID
	default:
		return ""
	}
}
