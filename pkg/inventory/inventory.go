package inventory

import (
	"fmt"
	"sort"

	"github.com/zaapr0x/mc-hook/pkg/host"
)

// Snapshot maps item type id to the total count held across all slots
// of one container at one instant. Built fresh every poll and never
// mutated afterwards.
type Snapshot map[string]int

// Take aggregates the container's stacks by item type. Multiple stacks
// of the same type in different slots sum together. Empty slots and
// non-positive amounts are skipped.
func Take(c host.Container) Snapshot {
	snap := make(Snapshot)
	for slot := 0; slot < c.Size(); slot++ {
		stack, ok := c.Item(slot)
		if !ok || stack.TypeID == "" || stack.Amount <= 0 {
			continue
		}
		snap[stack.TypeID] += stack.Amount
	}
	return snap
}

// Gain is one item type whose count increased between two snapshots.
type Gain struct {
	TypeID string
	Amount int
}

// Diff reports the per-type increases from prev to cur, sorted by type
// id. Types absent from prev count from zero, so a player's first
// snapshot reports their whole inventory as gains. Decreases and
// disappearances are ignored; a loss is not a pickup.
func Diff(prev, cur Snapshot) []Gain {
	var gains []Gain
	for typeID, count := range cur {
		if delta := count - prev[typeID]; delta > 0 {
			gains = append(gains, Gain{TypeID: typeID, Amount: delta})
		}
	}
	sort.Slice(gains, func(i, j int) bool {
		return gains[i].TypeID < gains[j].TypeID
	})
	return gains
}

// Remove takes up to amount items of typeID out of the container,
// scanning slots in ascending order. A slot holding no more than the
// remaining amount is cleared; a larger stack is decremented in place.
// Running out of matching stacks is not an error: the returned count
// reports what was actually removed. A slot write failure stops the
// scan and is returned alongside the count removed so far.
func Remove(c host.Container, typeID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, nil
	}
	remaining := amount
	for slot := 0; slot < c.Size() && remaining > 0; slot++ {
		stack, ok := c.Item(slot)
		if !ok || stack.TypeID != typeID || stack.Amount <= 0 {
			continue
		}
		if stack.Amount <= remaining {
			if err := c.Clear(slot); err != nil {
				return amount - remaining, fmt.Errorf("failed to clear slot %d: %w", slot, err)
			}
			remaining -= stack.Amount
			continue
		}
		stack.Amount -= remaining
		if err := c.SetItem(slot, stack); err != nil {
			return amount - remaining, fmt.Errorf("failed to update slot %d: %w", slot, err)
		}
		remaining = 0
	}
	return amount - remaining, nil
}
