package stream

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaapr0x/mc-hook/internal/journal"
	"github.com/zaapr0x/mc-hook/pkg/event"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubStreamsEvents(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.Close()

	conn := dialHub(t, hub)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	sent := event.NewPickup("Steve", "minecraft:arrow", 3)
	require.NoError(t, hub.Append(context.Background(), sent))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	got, err := event.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, event.TypePickup, got.Type)
}

func TestHubRemovesDisconnectedClients(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.Close()

	conn := dialHub(t, hub)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)

	// Appending with nobody connected is a no-op.
	assert.NoError(t, hub.Append(context.Background(), event.NewPickup("Alex", "minecraft:bone", 1)))
}

func TestHubDropsForStalledClients(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.Close()

	// A client with an unbuffered, undrained send channel stands in
	// for a peer that stopped reading long enough to fill its buffer.
	stalled := &client{send: make(chan []byte)}
	hub.mu.Lock()
	hub.clients[stalled] = struct{}{}
	hub.mu.Unlock()

	require.NoError(t, hub.Append(context.Background(), event.NewPickup("Steve", "minecraft:dirt", 1)))
	require.NoError(t, hub.Append(context.Background(), event.NewPickup("Steve", "minecraft:dirt", 2)))

	assert.Equal(t, uint64(2), hub.Dropped())

	hub.mu.Lock()
	delete(hub.clients, stalled)
	hub.mu.Unlock()
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testLogger())

	conn := dialHub(t, hub)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure) ||
		websocket.IsUnexpectedCloseError(err), "expected close, got %v", err)

	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubIsSink(t *testing.T) {
	var _ journal.Sink = (*Hub)(nil)
}
