package host

// ItemStack is the contents of a single container slot.
type ItemStack struct {
	TypeID string `json:"type_id"` // namespaced item id, e.g. "minecraft:cobblestone"
	Amount int    `json:"amount"`
}

// BlockLocation is a block coordinate in a dimension.
type BlockLocation struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// BlockBreak describes one block destroyed by a player.
type BlockBreak struct {
	PlayerName string        `json:"player_name"`
	BlockID    string        `json:"block_id"`
	Location   BlockLocation `json:"location"`
	Dimension  string        `json:"dimension"`
	ToolTypeID string        `json:"tool_type_id,omitempty"` // empty when broken by hand
}

// Container defines the interface for a fixed-size slotted item store.
type Container interface {
	// Size returns the number of slots, occupied or not.
	Size() int

	// Item returns the stack in the given slot. ok is false for an
	// empty slot.
	Item(slot int) (stack ItemStack, ok bool)

	// SetItem replaces the contents of the given slot.
	SetItem(slot int, stack ItemStack) error

	// Clear empties the given slot.
	Clear(slot int) error
}

// Player defines the interface for one connected player.
type Player interface {
	// Name returns the player's stable identity.
	Name() string

	// Inventory returns the player's main inventory container.
	Inventory() Container
}

// World defines the interface for enumerating connected players.
type World interface {
	// OnlinePlayers returns everyone currently connected.
	OnlinePlayers() []Player
}

// Scheduler defines the interface for the host's recurring-task
// scheduler. Scheduled callbacks run on the host's game-logic
// goroutine, one at a time.
type Scheduler interface {
	// ScheduleRepeating runs fn every periodTicks game ticks until the
	// returned stop function is called.
	ScheduleRepeating(fn func(), periodTicks int) (stop func())
}

// BreakSource defines the interface for the host's native block-break
// event stream.
type BreakSource interface {
	// SubscribeBreaks registers fn to receive every block break. Called
	// once per consumer, at construction.
	SubscribeBreaks(fn func(BlockBreak))
}

// CommandRunner defines the interface for executing raw game commands.
type CommandRunner interface {
	// RunCommand executes a command string in the named dimension.
	RunCommand(dimension string, command string) error
}
