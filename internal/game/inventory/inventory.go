package inventory

import "fmt"

const (
	// DefaultCapacity is the number of weapon slots a character carries.
	DefaultCapacity = 6
	// NoSlot is returned by FindEmptySlot when every slot is taken.
	NoSlot = -1
)

// Inventory is an ordered, bounded list of weapon slots.
//
// Invariant: Len() <= Capacity(); every non-nil slot i holds a weapon with
// SlotIndex == i; no weapon occupies two slots.
type Inventory struct {
	capacity int
	slots    []*Weapon
}

// NewInventory returns an empty inventory with the given capacity.
//
// Precondition: capacity > 0 (panics otherwise).
func NewInventory(capacity int) *Inventory {
	if capacity <= 0 {
		panic(fmt.Sprintf("inventory: NewInventory: capacity must be > 0, got %d", capacity))
	}
	return &Inventory{capacity: capacity, slots: make([]*Weapon, 0, capacity)}
}

// Capacity returns the maximum number of slots.
func (inv *Inventory) Capacity() int { return inv.capacity }

// Len returns the number of slots in use, including any nil holes.
func (inv *Inventory) Len() int { return len(inv.slots) }

// At returns the weapon in slot i, or nil when i is out of range or empty.
func (inv *Inventory) At(i int) *Weapon {
	if i < 0 || i >= len(inv.slots) {
		return nil
	}
	return inv.slots[i]
}

// Occupied reports whether slot i holds a weapon.
func (inv *Inventory) Occupied(i int) bool { return inv.At(i) != nil }

// FindEmptySlot returns the lowest nil slot, else Len() when below capacity,
// else NoSlot.
func (inv *Inventory) FindEmptySlot() int {
	for i, w := range inv.slots {
		if w == nil {
			return i
		}
	}
	if len(inv.slots) < inv.capacity {
		return len(inv.slots)
	}
	return NoSlot
}

// IsFull reports whether no slot is available.
func (inv *Inventory) IsFull() bool { return inv.FindEmptySlot() == NoSlot }

// Add stores w in the first empty slot.
//
// Precondition: w must not be nil.
// Postcondition: on success w.SlotIndex is the returned slot and ok is true;
// when full nothing changes and (NoSlot, false) is returned.
func (inv *Inventory) Add(w *Weapon) (slot int, ok bool) {
	slot = inv.FindEmptySlot()
	if slot == NoSlot {
		return NoSlot, false
	}
	if slot == len(inv.slots) {
		inv.slots = append(inv.slots, w)
	} else {
		inv.slots[slot] = w
	}
	w.SlotIndex = slot
	return slot, true
}

// Replace puts w into slot i and returns the weapon it displaced.
//
// Precondition: 0 <= i < Len() (panics otherwise); w must not be nil.
// Postcondition: At(i) == w; w.SlotIndex == i; the displaced weapon's
// SlotIndex is NoSlot.
func (inv *Inventory) Replace(i int, w *Weapon) *Weapon {
	if i < 0 || i >= len(inv.slots) {
		panic(fmt.Sprintf("inventory: Inventory.Replace: slot %d out of range [0, %d)", i, len(inv.slots)))
	}
	old := inv.slots[i]
	inv.slots[i] = w
	w.SlotIndex = i
	if old != nil && old != w {
		old.SlotIndex = NoSlot
	}
	return old
}

// Weapons returns the occupied slots in order.
func (inv *Inventory) Weapons() []*Weapon {
	out := make([]*Weapon, 0, len(inv.slots))
	for _, w := range inv.slots {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}
