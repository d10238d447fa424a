package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"

	"github.com/zaapr0x/mc-hook/internal/broadcast"
	"github.com/zaapr0x/mc-hook/pkg/event"
)

const historySeed = 50

type ConsoleConfig struct {
	APIBaseURL string
	RedisURL   string
	Timeout    time.Duration
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		RedisURL:   getEnv("REDIS_URL", "localhost:6379"),
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to the simulator. Please ensure hooksim is running.\nTry: go run cmd/hooksim/main.go\n")
		os.Exit(1)
	}

	recent, err := fetchRecentEvents(client, cfg.APIBaseURL, historySeed)
	if err != nil {
		// History is optional; the live feed works without it.
		fmt.Fprintf(os.Stderr, "Warning: could not load event history: %v\n", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := broadcast.Subscribe(ctx, rdb, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to subscribe to event feed: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, recent, events),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// fetchRecentEvents seeds the feed from the journal, oldest first.
func fetchRecentEvents(client *http.Client, baseURL string, limit int) ([]event.Event, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/events?limit=%d", baseURL, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The backend may keep no history at all; that is not an error.
	if resp.StatusCode == http.StatusNotImplemented || resp.StatusCode == http.StatusServiceUnavailable {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to list events: %s", errorResp.Error)
	}

	var events []event.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events response: %w", err)
	}

	// The journal returns newest first; the feed reads top to bottom.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
