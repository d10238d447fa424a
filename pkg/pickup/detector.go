package pickup

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zaapr0x/mc-hook/pkg/host"
	"github.com/zaapr0x/mc-hook/pkg/inventory"
)

// DefaultPeriod is the poll granularity, in game ticks, for listeners
// registered without an explicit rate.
const DefaultPeriod = 10

var (
	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrInvalidPeriod is returned when a period below one tick is
	// requested.
	ErrInvalidPeriod = errors.New("period must be a positive number of ticks")
)

// Gain tells a handler that one player's count of one item type went
// up. Each Gain is an independent pickup event, consumed within the
// poll that produced it.
type Gain struct {
	Player string
	TypeID string
	Amount int
}

// Handler receives one gain record per call, with the follow-up
// actions bound to that record.
type Handler func(g Gain, act Actions)

// entry pairs a handler with its requested rate. counter accumulates
// elapsed ticks and is mutated only by the poll cycle.
type entry struct {
	handler Handler
	period  int
	counter int
}

// delivery is one gain plus the container it was observed in, so the
// remove action can be bound per invocation.
type delivery struct {
	gain      Gain
	container host.Container
}

// Detector synthesizes pickup events by diffing per-player inventory
// snapshots on a single scheduled poll. Registering a listener with a
// shorter period reschedules the shared poll at the finer rate; the
// poll never stops once started.
//
// All methods must be called from the host's game-logic goroutine. The
// Detector holds no locks of its own.
type Detector struct {
	world     host.World
	scheduler host.Scheduler
	log       *slog.Logger

	entries      []*entry
	baselines    map[string]inventory.Snapshot
	activePeriod int
	stopPoll     func()
}

// NewDetector creates a detector in the idle state. Polling begins
// with the first registration. A nil logger disables logging.
func NewDetector(world host.World, scheduler host.Scheduler, log *slog.Logger) *Detector {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Detector{
		world:     world,
		scheduler: scheduler,
		log:       log,
		baselines: make(map[string]inventory.Snapshot),
	}
}

// Register subscribes h at the default poll rate.
func (d *Detector) Register(h Handler) error {
	return d.RegisterEvery(h, DefaultPeriod)
}

// RegisterEvery subscribes h to fire no more often than every
// periodTicks ticks. The shared poll runs at the smallest period any
// listener has requested, so h may be evaluated more often than it
// fires.
func (d *Detector) RegisterEvery(h Handler, periodTicks int) error {
	if h == nil {
		return ErrNilHandler
	}
	if periodTicks < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPeriod, periodTicks)
	}
	d.entries = append(d.entries, &entry{handler: h, period: periodTicks})
	d.ensurePolling(periodTicks)
	return nil
}

// ActivePeriod returns the tick interval of the shared poll, or zero
// before the first registration.
func (d *Detector) ActivePeriod() int {
	return d.activePeriod
}

// ensurePolling starts the poll on first registration and reschedules
// it when a newly requested period undercuts the active one. The old
// task is always cancelled before the replacement is created.
func (d *Detector) ensurePolling(periodTicks int) {
	if d.stopPoll != nil && periodTicks >= d.activePeriod {
		return
	}
	if d.stopPoll != nil {
		d.stopPoll()
		d.log.Debug("Rescheduling inventory poll", "period_ticks", periodTicks, "previous_ticks", d.activePeriod)
	} else {
		d.log.Debug("Starting inventory poll", "period_ticks", periodTicks)
	}
	d.activePeriod = periodTicks
	d.stopPoll = d.scheduler.ScheduleRepeating(d.poll, periodTicks)
}

// poll runs one detection cycle: advance every counter by the elapsed
// period, snapshot and diff every online player, then fire each gain
// record at every listener whose counter has reached its period.
// Counters reset only after firing; polls with no gains leave them
// accumulating.
func (d *Detector) poll() {
	for _, e := range d.entries {
		e.counter += d.activePeriod
	}

	deliveries := d.collect()
	if len(deliveries) == 0 {
		return
	}

	var due []*entry
	for _, e := range d.entries {
		if e.counter >= e.period {
			due = append(due, e)
		}
	}

	for _, del := range deliveries {
		for _, e := range due {
			d.dispatch(e, del)
		}
	}
	for _, e := range due {
		e.counter = 0
	}
}

// collect snapshots every online player, diffs against the previous
// snapshot, and replaces the baseline so the next diff is against this
// poll. A player seen for the first time diffs against an empty
// baseline and reports their whole inventory.
func (d *Detector) collect() []delivery {
	var out []delivery
	for _, p := range d.world.OnlinePlayers() {
		container := p.Inventory()
		snap := inventory.Take(container)
		for _, g := range inventory.Diff(d.baselines[p.Name()], snap) {
			out = append(out, delivery{
				gain:      Gain{Player: p.Name(), TypeID: g.TypeID, Amount: g.Amount},
				container: container,
			})
		}
		d.baselines[p.Name()] = snap
	}
	return out
}

// dispatch invokes one handler for one record, containing any panic so
// the remaining handlers and the host tick survive it.
func (d *Detector) dispatch(e *entry, del delivery) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Pickup handler panicked",
				"panic", r,
				"player", del.gain.Player,
				"item", del.gain.TypeID)
		}
	}()
	e.handler(del.gain, removeAction{
		container: del.container,
		gain:      del.gain,
		log:       d.log,
	})
}
