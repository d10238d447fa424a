package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrMissingURL is returned when a request carries no URL.
var ErrMissingURL = errors.New("request url is required")

// RequestError wraps a transport failure with the request that caused
// it. The shim never retries; retry policy belongs to the caller.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Request is a loose description of an HTTP call, normalized by the
// client before execution.
type Request struct {
	URL     string
	Method  string            // case-insensitive; unrecognized verbs fall back to GET
	Body    any               // string and []byte pass through, other non-nil values are JSON-serialized
	Headers map[string]string // attached as given, overriding any derived header
}

// Response is the uniform result shape for every call.
type Response struct {
	Status  int
	Data    any // JSON-parsed body, or nil when the body is not valid JSON
	Headers map[string]string
}

// Transport executes a prepared request. *http.Client satisfies it;
// tests substitute their own.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client normalizes loose requests into transport calls. It sets no
// timeout of its own; callers bound the call through ctx.
type Client struct {
	transport Transport
}

// NewClient creates a client backed by a plain http.Client.
func NewClient() *Client {
	return &Client{transport: &http.Client{}}
}

// NewClientWithTransport creates a client over a caller-supplied
// transport.
func NewClientWithTransport(t Transport) *Client {
	return &Client{transport: t}
}

// methodFor maps a loose method name onto the supported verbs.
func methodFor(raw string) string {
	switch strings.ToUpper(raw) {
	case http.MethodPost:
		return http.MethodPost
	case http.MethodPut:
		return http.MethodPut
	case http.MethodDelete:
		return http.MethodDelete
	case http.MethodHead:
		return http.MethodHead
	default:
		return http.MethodGet
	}
}

// Do executes one normalized request. It returns ErrMissingURL before
// touching the transport when the URL is empty, and a *RequestError
// when the transport fails.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if r.URL == "" {
		return nil, ErrMissingURL
	}
	method := methodFor(r.Method)

	var body io.Reader
	contentType := ""
	switch b := r.Body.(type) {
	case nil:
	case string:
		if b != "" {
			body = strings.NewReader(b)
		}
	case []byte:
		if len(b) > 0 {
			body = bytes.NewReader(b)
		}
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, &RequestError{Method: method, URL: r.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Method: method, URL: r.URL, Err: err}
	}

	out := &Response{
		Status:  resp.StatusCode,
		Headers: make(map[string]string, len(resp.Header)),
	}
	for k := range resp.Header {
		out.Headers[k] = resp.Header.Get(k)
	}
	if len(raw) > 0 {
		var data any
		if err := json.Unmarshal(raw, &data); err == nil {
			out.Data = data
		}
	}
	return out, nil
}
