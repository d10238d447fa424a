package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaapr0x/mc-hook/internal/journal"
	"github.com/zaapr0x/mc-hook/pkg/event"
	"github.com/zaapr0x/mc-hook/pkg/web"
)

func TestWebhookDeliversEvent(t *testing.T) {
	var (
		gotMethod      string
		gotContentType string
		gotBody        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL, nil)
	sent := event.NewPickup("Steve", "minecraft:arrow", 3)
	require.NoError(t, hook.Append(context.Background(), sent))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)

	var got event.Event
	require.NoError(t, json.Unmarshal(gotBody, &got))
	assert.Equal(t, sent.ID, got.ID)
	require.NotNil(t, got.Pickup)
	assert.Equal(t, 3, got.Pickup.Amount)
}

func TestWebhookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL, nil)
	err := hook.Append(context.Background(), event.NewPickup("Alex", "minecraft:bone", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestWebhookTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	hook := NewWebhook(srv.URL, nil)
	err := hook.Append(context.Background(), event.NewPickup("Kai", "minecraft:dirt", 2))
	require.Error(t, err)

	var reqErr *web.RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestWebhookIsSink(t *testing.T) {
	var _ journal.Sink = (*Webhook)(nil)
}
