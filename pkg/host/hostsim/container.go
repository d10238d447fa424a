package hostsim

import (
	"fmt"

	"github.com/zaapr0x/mc-hook/pkg/host"
)

// MaxStack is the largest amount a single simulated slot holds.
const MaxStack = 64

// Container is a slot-backed in-memory implementation of
// host.Container. The zero stack (empty TypeID) marks an empty slot.
type Container struct {
	slots []host.ItemStack
}

// NewContainer creates a container with the given number of empty slots.
func NewContainer(size int) *Container {
	return &Container{slots: make([]host.ItemStack, size)}
}

// Size returns the number of slots.
func (c *Container) Size() int {
	return len(c.slots)
}

// Item returns the stack in the given slot, or ok=false when the slot
// is empty or out of range.
func (c *Container) Item(slot int) (host.ItemStack, bool) {
	if slot < 0 || slot >= len(c.slots) {
		return host.ItemStack{}, false
	}
	stack := c.slots[slot]
	if stack.TypeID == "" || stack.Amount <= 0 {
		return host.ItemStack{}, false
	}
	return stack, true
}

// SetItem replaces the contents of the given slot.
func (c *Container) SetItem(slot int, stack host.ItemStack) error {
	if slot < 0 || slot >= len(c.slots) {
		return fmt.Errorf("slot %d out of range (size %d)", slot, len(c.slots))
	}
	c.slots[slot] = stack
	return nil
}

// Clear empties the given slot.
func (c *Container) Clear(slot int) error {
	if slot < 0 || slot >= len(c.slots) {
		return fmt.Errorf("slot %d out of range (size %d)", slot, len(c.slots))
	}
	c.slots[slot] = host.ItemStack{}
	return nil
}

// Grant adds amount items of typeID, topping up existing stacks of the
// same type before opening new slots. It returns how many items did
// not fit.
func (c *Container) Grant(typeID string, amount int) int {
	if typeID == "" || amount <= 0 {
		return 0
	}
	remaining := amount
	for i := range c.slots {
		if remaining == 0 {
			break
		}
		s := c.slots[i]
		if s.TypeID != typeID || s.Amount >= MaxStack {
			continue
		}
		room := MaxStack - s.Amount
		if room > remaining {
			room = remaining
		}
		c.slots[i].Amount += room
		remaining -= room
	}
	for i := range c.slots {
		if remaining == 0 {
			break
		}
		if c.slots[i].TypeID != "" && c.slots[i].Amount > 0 {
			continue
		}
		n := remaining
		if n > MaxStack {
			n = MaxStack
		}
		c.slots[i] = host.ItemStack{TypeID: typeID, Amount: n}
		remaining -= n
	}
	return remaining
}

// Count returns the total amount of typeID across all slots.
func (c *Container) Count(typeID string) int {
	total := 0
	for _, s := range c.slots {
		if s.TypeID == typeID {
			total += s.Amount
		}
	}
	return total
}
