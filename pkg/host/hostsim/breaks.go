package hostsim

import (
	"sync"

	"github.com/zaapr0x/mc-hook/pkg/host"
)

// Breaks is an in-memory implementation of host.BreakSource.
type Breaks struct {
	mu   sync.Mutex
	subs []func(host.BlockBreak)
}

// NewBreaks creates a break source with no subscribers.
func NewBreaks() *Breaks {
	return &Breaks{}
}

// SubscribeBreaks registers fn to receive every emitted break.
func (b *Breaks) SubscribeBreaks(fn func(host.BlockBreak)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Emit delivers one break event to all subscribers, synchronously and
// in subscription order.
func (b *Breaks) Emit(ev host.BlockBreak) {
	b.mu.Lock()
	subs := make([]func(host.BlockBreak), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
