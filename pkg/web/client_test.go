package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRequiresURL(t *testing.T) {
	c := NewClient()
	resp, err := c.Do(context.Background(), Request{Method: "GET"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrMissingURL)
}

func TestMethodNormalization(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		expected string
	}{
		{name: "lowercase post", method: "post", expected: http.MethodPost},
		{name: "mixed case delete", method: "DeLeTe", expected: http.MethodDelete},
		{name: "put", method: "PUT", expected: http.MethodPut},
		{name: "head", method: "head", expected: http.MethodHead},
		{name: "empty defaults to get", method: "", expected: http.MethodGet},
		{name: "unknown defaults to get", method: "FETCH", expected: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Method
			}))
			defer srv.Close()

			_, err := NewClient().Do(context.Background(), Request{URL: srv.URL, Method: tt.method})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestObjectBodyIsSerializedAsJSON(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	_, err := NewClient().Do(context.Background(), Request{
		URL:    srv.URL,
		Method: "POST",
		Body:   map[string]any{"player": "Steve", "amount": 3},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"player":"Steve","amount":3}`, gotBody)
	assert.Equal(t, "application/json", gotContentType, "object bodies default the content type")
}

func TestExplicitContentTypeWins(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	_, err := NewClient().Do(context.Background(), Request{
		URL:     srv.URL,
		Method:  "POST",
		Body:    map[string]any{"a": 1},
		Headers: map[string]string{"Content-Type": "application/vnd.custom+json"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.custom+json", gotContentType)
}

func TestStringBodyPassesThrough(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	_, err := NewClient().Do(context.Background(), Request{
		URL:    srv.URL,
		Method: "POST",
		Body:   "raw payload",
	})
	require.NoError(t, err)
	assert.Equal(t, "raw payload", gotBody)
	assert.Empty(t, gotContentType, "string bodies get no implicit content type")
}

func TestResponseShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "abc-123")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true,"count":2}`))
	}))
	defer srv.Close()

	resp, err := NewClient().Do(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "abc-123", resp.Headers["X-Request-Id"])

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "JSON object bodies decode to a map")
	assert.Equal(t, true, data["ok"])
	assert.Equal(t, float64(2), data["count"])
}

func TestNonJSONBodyYieldsNilData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	resp, err := NewClient().Do(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Data)
}

type failingTransport struct {
	err error
}

func (f failingTransport) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestTransportFailureIsWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	c := NewClientWithTransport(failingTransport{err: cause})

	resp, err := c.Do(context.Background(), Request{URL: "http://example.invalid/api", Method: "post"})
	assert.Nil(t, resp)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.MethodPost, reqErr.Method)
	assert.Equal(t, "http://example.invalid/api", reqErr.URL)
	assert.ErrorIs(t, err, cause)
}
