package journal

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/zaapr0x/mc-hook/pkg/blockbreak"
	"github.com/zaapr0x/mc-hook/pkg/event"
	"github.com/zaapr0x/mc-hook/pkg/host"
	"github.com/zaapr0x/mc-hook/pkg/pickup"
)

// Recorder bridges hook callbacks to event sinks without blocking the
// game tick: callbacks enqueue onto a buffered channel, a pump
// goroutine fans each event out to every sink in order. Its Pickup and
// BlockBreak methods match the hook handler signatures, so it
// registers like any other listener.
type Recorder struct {
	sinks []Sink
	log   *slog.Logger

	ch   chan event.Event
	wg   sync.WaitGroup
	once sync.Once

	// mu orders enqueue sends before the channel close: producers
	// hold it shared, Close holds it exclusively.
	mu     sync.RWMutex
	closed bool

	dropped atomic.Int64
}

// NewRecorder creates a recorder pumping into sinks and starts it.
func NewRecorder(log *slog.Logger, sinks ...Sink) *Recorder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &Recorder{
		sinks: sinks,
		log:   log,
		ch:    make(chan event.Event, 1024),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.pump()
	}()
	return r
}

// Pickup is a pickup.Handler forwarding gains into the sinks.
func (r *Recorder) Pickup(g pickup.Gain, _ pickup.Actions) {
	r.enqueue(event.NewPickup(g.Player, g.TypeID, g.Amount))
}

// BlockBreak is a blockbreak.Handler forwarding breaks into the sinks.
func (r *Recorder) BlockBreak(b host.BlockBreak, _ blockbreak.Actions) {
	r.enqueue(event.NewBreak(b))
}

// enqueue hands the event to the pump. It never blocks; events are
// dropped when the pump falls behind. Safe to call concurrently with
// Close.
func (r *Recorder) enqueue(e event.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- e:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the pump fell
// behind.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) pump() {
	ctx := context.Background()
	for e := range r.ch {
		for _, s := range r.sinks {
			if err := s.Append(ctx, e); err != nil {
				r.log.Error("Failed to record event",
					"error", err,
					"event_id", e.ID,
					"type", string(e.Type))
			}
		}
	}
}

// Close drains the pump. The sinks themselves stay open; they belong
// to the caller.
func (r *Recorder) Close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.ch)
		r.mu.Unlock()
		r.wg.Wait()
	})
}
