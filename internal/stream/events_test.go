package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaapr0x/mc-hook/internal/journal"
	"github.com/zaapr0x/mc-hook/pkg/event"
)

// mockJournal implements journal.Journal with overridable behavior.
type mockJournal struct {
	pingErr   error
	recentFn  func(ctx context.Context, limit int) ([]event.Event, error)
	lastLimit int
}

func (m *mockJournal) Append(ctx context.Context, e event.Event) error { return nil }

func (m *mockJournal) Recent(ctx context.Context, limit int) ([]event.Event, error) {
	m.lastLimit = limit
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockJournal) Ping(ctx context.Context) error { return m.pingErr }
func (m *mockJournal) Close() error                   { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func TestEventsHandler_ServeHTTP(t *testing.T) {
	stored := []event.Event{
		event.NewPickup("Steve", "minecraft:arrow", 3),
		event.NewPickup("Alex", "minecraft:bone", 1),
	}

	t.Run("returns recent events", func(t *testing.T) {
		j := &mockJournal{
			recentFn: func(ctx context.Context, limit int) ([]event.Event, error) {
				return stored, nil
			},
		}
		handler := NewEventsHandler(j, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Equal(t, defaultEventLimit, j.lastLimit)

		var got []event.Event
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, stored[0].ID, got[0].ID)
	})

	t.Run("honors limit parameter", func(t *testing.T) {
		j := &mockJournal{}
		handler := NewEventsHandler(j, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/v1/events?limit=7", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 7, j.lastLimit)
	})

	t.Run("caps oversized limits", func(t *testing.T) {
		j := &mockJournal{}
		handler := NewEventsHandler(j, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/v1/events?limit=99999", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, maxEventLimit, j.lastLimit)
	})

	t.Run("rejects invalid limits", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-5"} {
			req := httptest.NewRequest(http.MethodGet, "/v1/events?limit="+raw, nil)
			rr := httptest.NewRecorder()
			NewEventsHandler(&mockJournal{}, testLogger()).ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code, "limit=%s", raw)
		}
	})

	t.Run("empty journal returns empty array", func(t *testing.T) {
		handler := NewEventsHandler(&mockJournal{}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("backend without history", func(t *testing.T) {
		j := &mockJournal{
			recentFn: func(ctx context.Context, limit int) ([]event.Event, error) {
				return nil, journal.ErrRecentUnsupported
			},
		}
		handler := NewEventsHandler(j, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotImplemented, rr.Code)
	})

	t.Run("backend failure", func(t *testing.T) {
		j := &mockJournal{
			recentFn: func(ctx context.Context, limit int) ([]event.Event, error) {
				return nil, errors.New("connection refused")
			},
		}
		handler := NewEventsHandler(j, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("journaling disabled", func(t *testing.T) {
		handler := NewEventsHandler(nil, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		handler := NewEventsHandler(&mockJournal{}, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/v1/events", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}
