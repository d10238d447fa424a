package pickup

import (
	"log/slog"

	"github.com/zaapr0x/mc-hook/pkg/host"
	"github.com/zaapr0x/mc-hook/pkg/inventory"
)

// Actions are the follow-ups available to a handler for the gain it
// was called with.
type Actions interface {
	// Remove takes the gained amount of the gained item type back out
	// of the player's inventory, best effort. Shortages and container
	// write failures are logged, never returned.
	Remove()
}

// removeAction binds Remove to one gain record and the container it
// was observed in.
type removeAction struct {
	container host.Container
	gain      Gain
	log       *slog.Logger
}

func (a removeAction) Remove() {
	removed, err := inventory.Remove(a.container, a.gain.TypeID, a.gain.Amount)
	if err != nil {
		a.log.Error("Failed to remove picked up items",
			"error", err,
			"player", a.gain.Player,
			"item", a.gain.TypeID,
			"requested", a.gain.Amount,
			"removed", removed)
		return
	}
	if removed < a.gain.Amount {
		a.log.Warn("Removed fewer items than were picked up",
			"player", a.gain.Player,
			"item", a.gain.TypeID,
			"requested", a.gain.Amount,
			"removed", removed)
	}
}
