package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/zaapr0x/mc-hook/pkg/host"
)

// Type identifies the hook that produced an event.
type Type string

const (
	// TypePickup is an inventory gain detected by the poll loop.
	TypePickup Type = "pickup"

	// TypeBlockBreak is a forwarded native block break.
	TypeBlockBreak Type = "block_break"
)

// Event is the envelope every hook emission is wrapped in before it
// reaches journals, broadcasts, and stream clients. Exactly one of
// Pickup and Break is set, matching Type.
type Event struct {
	ID     string    `json:"id"`
	Type   Type      `json:"type"`
	Player string    `json:"player"`
	At     time.Time `json:"at"`

	Pickup *PickupDetail `json:"pickup,omitempty"`
	Break  *BreakDetail  `json:"break,omitempty"`
}

// PickupDetail records one detected inventory gain.
type PickupDetail struct {
	ItemTypeID string `json:"item_type_id"`
	Amount     int    `json:"amount"`
}

// BreakDetail records one destroyed block.
type BreakDetail struct {
	BlockID    string             `json:"block_id"`
	Location   host.BlockLocation `json:"location"`
	Dimension  string             `json:"dimension"`
	ToolTypeID string             `json:"tool_type_id,omitempty"`
}

// NewPickup stamps a fresh envelope for an inventory gain.
func NewPickup(player, itemTypeID string, amount int) Event {
	return Event{
		ID:     uuid.New().String(),
		Type:   TypePickup,
		Player: player,
		At:     time.Now().UTC(),
		Pickup: &PickupDetail{ItemTypeID: itemTypeID, Amount: amount},
	}
}

// NewBreak stamps a fresh envelope for a block break.
func NewBreak(b host.BlockBreak) Event {
	return Event{
		ID:     uuid.New().String(),
		Type:   TypeBlockBreak,
		Player: b.PlayerName,
		At:     time.Now().UTC(),
		Break: &BreakDetail{
			BlockID:    b.BlockID,
			Location:   b.Location,
			Dimension:  b.Dimension,
			ToolTypeID: b.ToolTypeID,
		},
	}
}

// Marshal serializes the event for Redis and the wire.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes one serialized event.
func Unmarshal(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
