package journal

import (
	"context"
	"errors"

	"github.com/zaapr0x/mc-hook/pkg/event"
)

// ErrRecentUnsupported is returned by backends that only append and
// keep no readable history.
var ErrRecentUnsupported = errors.New("journal backend does not keep a readable history")

// Sink defines the interface for anything that accepts a stream of
// hook events: journals, broadcasters, stream hubs.
type Sink interface {
	// Append stores or forwards one event.
	Append(ctx context.Context, e event.Event) error
}

// Journal defines the interface for append-only event history.
type Journal interface {
	Sink

	// Recent returns up to limit events, newest first. Backends
	// without a readable history return ErrRecentUnsupported.
	Recent(ctx context.Context, limit int) ([]event.Event, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close flushes buffered writes and releases the backend.
	Close() error
}
