package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaapr0x/mc-hook/pkg/host"
)

func TestNewPickup(t *testing.T) {
	e := NewPickup("Steve", "minecraft:diamond", 2)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, TypePickup, e.Type)
	assert.Equal(t, "Steve", e.Player)
	assert.False(t, e.At.IsZero())
	require.NotNil(t, e.Pickup)
	assert.Equal(t, "minecraft:diamond", e.Pickup.ItemTypeID)
	assert.Equal(t, 2, e.Pickup.Amount)
	assert.Nil(t, e.Break)
}

func TestNewBreak(t *testing.T) {
	e := NewBreak(host.BlockBreak{
		PlayerName: "Alex",
		BlockID:    "minecraft:coal_ore",
		Location:   host.BlockLocation{X: 1, Y: 2, Z: 3},
		Dimension:  "overworld",
		ToolTypeID: "minecraft:iron_pickaxe",
	})

	assert.Equal(t, TypeBlockBreak, e.Type)
	assert.Equal(t, "Alex", e.Player)
	require.NotNil(t, e.Break)
	assert.Equal(t, "minecraft:coal_ore", e.Break.BlockID)
	assert.Equal(t, host.BlockLocation{X: 1, Y: 2, Z: 3}, e.Break.Location)
	assert.Nil(t, e.Pickup)
}

func TestEventsGetDistinctIDs(t *testing.T) {
	a := NewPickup("Steve", "minecraft:coal", 1)
	b := NewPickup("Steve", "minecraft:coal", 1)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMarshalRoundTrip(t *testing.T) {
	original := NewBreak(host.BlockBreak{
		PlayerName: "Kai",
		BlockID:    "minecraft:stone",
		Location:   host.BlockLocation{X: -5, Y: 70, Z: 12},
		Dimension:  "overworld",
	})

	raw, err := original.Marshal()
	require.NoError(t, err)

	decoded, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Type, decoded.Type)
	require.NotNil(t, decoded.Break)
	assert.Equal(t, original.Break.Location, decoded.Break.Location)
	assert.True(t, original.At.Equal(decoded.At))
}
