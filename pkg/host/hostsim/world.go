package hostsim

import (
	"sync"

	"github.com/zaapr0x/mc-hook/pkg/host"
)

// Player is an in-memory implementation of host.Player.
type Player struct {
	name string
	inv  *Container
}

// Name returns the player's stable identity.
func (p *Player) Name() string {
	return p.name
}

// Inventory returns the player's container.
func (p *Player) Inventory() host.Container {
	return p.inv
}

// Container returns the concrete simulated container, for test setup.
func (p *Player) Container() *Container {
	return p.inv
}

// World is an in-memory implementation of host.World. Players are
// enumerated in join order.
type World struct {
	mu      sync.Mutex
	players []*Player
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{}
}

// Join connects a new player with an empty inventory of invSize slots.
// Joining an already-connected name returns the existing player.
func (w *World) Join(name string, invSize int) *Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.players {
		if p.name == name {
			return p
		}
	}
	p := &Player{name: name, inv: NewContainer(invSize)}
	w.players = append(w.players, p)
	return p
}

// Leave disconnects the named player. Unknown names are ignored.
func (w *World) Leave(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.players {
		if p.name == name {
			w.players = append(w.players[:i], w.players[i+1:]...)
			return
		}
	}
}

// Player returns the named player, if connected.
func (w *World) Player(name string) (*Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.players {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// OnlinePlayers returns everyone currently connected, in join order.
func (w *World) OnlinePlayers() []host.Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]host.Player, len(w.players))
	for i, p := range w.players {
		out[i] = p
	}
	return out
}
