package hostsim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/zaapr0x/mc-hook/pkg/host"
)

// InventorySize is the slot count of a simulated player inventory.
const InventorySize = 36

var (
	activityItems = []string{
		"minecraft:cobblestone",
		"minecraft:oak_log",
		"minecraft:iron_ingot",
		"minecraft:coal",
		"minecraft:wheat",
		"minecraft:bone",
		"minecraft:string",
	}
	activityBlocks = []string{
		"minecraft:stone",
		"minecraft:oak_log",
		"minecraft:coal_ore",
		"minecraft:dirt",
	}
	activityRoster = []string{"Steve", "Alex", "Kai"}
)

// Activity drives scripted player behavior against the simulated
// world: random item grants, block breaks, and the occasional
// disconnect. It gives the dev daemon something to detect without a
// real game host attached.
type Activity struct {
	world  *World
	breaks *Breaks
	rng    *rand.Rand
	log    *slog.Logger
	away   map[string]bool
}

// NewActivity joins the default roster into world and returns a driver
// seeded for reproducible runs.
func NewActivity(world *World, breaks *Breaks, seed int64, log *slog.Logger) *Activity {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	for _, name := range activityRoster {
		world.Join(name, InventorySize)
	}
	return &Activity{
		world:  world,
		breaks: breaks,
		rng:    rand.New(rand.NewSource(seed)),
		log:    log,
		away:   make(map[string]bool),
	}
}

// Tick performs one round of random actions. Wire it to the scheduler
// at a coarse period.
func (a *Activity) Tick() {
	for _, name := range activityRoster {
		if a.away[name] {
			if a.rng.Intn(10) == 0 {
				a.world.Join(name, InventorySize)
				a.away[name] = false
				a.log.Debug("player rejoined", "player", name)
			}
			continue
		}

		switch roll := a.rng.Intn(100); {
		case roll < 55:
			p, ok := a.world.Player(name)
			if !ok {
				continue
			}
			item := activityItems[a.rng.Intn(len(activityItems))]
			amount := 1 + a.rng.Intn(4)
			p.Container().Grant(item, amount)
			a.log.Debug("granted items", "player", name, "item", item, "amount", amount)
		case roll < 80:
			block := activityBlocks[a.rng.Intn(len(activityBlocks))]
			ev := host.BlockBreak{
				PlayerName: name,
				BlockID:    block,
				Location: host.BlockLocation{
					X: a.rng.Intn(200) - 100,
					Y: a.rng.Intn(64),
					Z: a.rng.Intn(200) - 100,
				},
				Dimension:  "overworld",
				ToolTypeID: "minecraft:iron_pickaxe",
			}
			a.breaks.Emit(ev)
			a.log.Debug("block broken", "player", name, "block", block)
		case roll < 83:
			a.world.Leave(name)
			a.away[name] = true
			a.log.Debug("player left", "player", name)
		}
	}
}

// String describes the driver for startup logs.
func (a *Activity) String() string {
	return fmt.Sprintf("activity driver (%d players)", len(activityRoster))
}
