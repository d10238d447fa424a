package blockbreak

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zaapr0x/mc-hook/pkg/host"
)

// ErrNilHandler is returned when a nil handler is registered.
var ErrNilHandler = errors.New("handler must not be nil")

// Handler receives one block-break record per call, with the
// follow-up actions bound to that record.
type Handler func(b host.BlockBreak, act Actions)

// Actions are the follow-ups available to a handler for the break it
// was called with.
type Actions interface {
	// Restore places the broken block back at its recorded location,
	// best effort. Command failures are logged, never returned.
	Restore()
}

// restoreAction binds Restore to one break occurrence.
type restoreAction struct {
	runner host.CommandRunner
	brk    host.BlockBreak
	log    *slog.Logger
}

func (a restoreAction) Restore() {
	cmd := fmt.Sprintf("setblock %d %d %d %s",
		a.brk.Location.X, a.brk.Location.Y, a.brk.Location.Z, a.brk.BlockID)
	if err := a.runner.RunCommand(a.brk.Dimension, cmd); err != nil {
		a.log.Error("Failed to restore broken block",
			"error", err,
			"player", a.brk.PlayerName,
			"block", a.brk.BlockID,
			"dimension", a.brk.Dimension)
	}
}

// Forwarder fans the host's native block-break events out to
// registered listeners, synchronously and in registration order.
type Forwarder struct {
	runner   host.CommandRunner
	log      *slog.Logger
	handlers []Handler
}

// NewForwarder subscribes to source exactly once and returns the
// forwarder. A nil logger disables logging.
func NewForwarder(source host.BreakSource, runner host.CommandRunner, log *slog.Logger) *Forwarder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	f := &Forwarder{runner: runner, log: log}
	source.SubscribeBreaks(f.forward)
	return f
}

// Register subscribes h to every forwarded break.
func (f *Forwarder) Register(h Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	f.handlers = append(f.handlers, h)
	return nil
}

func (f *Forwarder) forward(ev host.BlockBreak) {
	act := restoreAction{runner: f.runner, brk: ev, log: f.log}
	for _, h := range f.handlers {
		f.dispatch(h, ev, act)
	}
}

// dispatch invokes one handler, containing any panic so the remaining
// handlers and the host dispatcher survive it.
func (f *Forwarder) dispatch(h Handler, ev host.BlockBreak, act Actions) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("Block break handler panicked",
				"panic", r,
				"player", ev.PlayerName,
				"block", ev.BlockID)
		}
	}()
	h(ev, act)
}
