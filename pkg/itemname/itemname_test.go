package itemname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name     string
		typeID   string
		expected string
	}{
		{name: "namespaced with underscores", typeID: "minecraft:iron_sword", expected: "Iron Sword"},
		{name: "namespaced single word", typeID: "minecraft:diamond", expected: "Diamond"},
		{name: "no namespace", typeID: "oak_log", expected: "Oak Log"},
		{name: "custom namespace", typeID: "myaddon:ruby_pickaxe", expected: "Ruby Pickaxe"},
		{name: "empty", typeID: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Display(tt.typeID))
		})
	}
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "minecraft", Namespace("minecraft:stone"))
	assert.Equal(t, "", Namespace("stone"))
}
