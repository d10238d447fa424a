package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zaapr0x/mc-hook/internal/journal"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	logger := testLogger()

	tests := []struct {
		name            string
		setupJournal    func() journal.Journal
		expectedStatus  int
		expectedHealth  string
		expectedJournal string
	}{
		{
			name: "all healthy",
			setupJournal: func() journal.Journal {
				return &mockJournal{}
			},
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedJournal: "healthy",
		},
		{
			name: "unhealthy journal",
			setupJournal: func() journal.Journal {
				return &mockJournal{pingErr: errors.New("connection failed")}
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedJournal: "unhealthy",
		},
		{
			name: "journaling disabled",
			setupJournal: func() journal.Journal {
				return nil
			},
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedJournal: "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.setupJournal(), NewHub(logger), logger)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			if rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
			}

			var response HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if response.Status != tt.expectedHealth {
				t.Errorf("Expected status '%s', got '%s'", tt.expectedHealth, response.Status)
			}

			if response.Service != "mc-hook" {
				t.Errorf("Expected service 'mc-hook', got '%s'", response.Service)
			}

			journalComponent, exists := response.Components["journal"]
			if !exists {
				t.Error("Expected journal component in response")
			} else if journalComponent != tt.expectedJournal {
				t.Errorf("Expected journal status '%s', got '%v'", tt.expectedJournal, journalComponent)
			}

			streamComponent, exists := response.Components["stream"]
			if !exists {
				t.Error("Expected stream component in response")
			} else {
				streamMap, ok := streamComponent.(map[string]interface{})
				if !ok {
					t.Errorf("Expected stream component to be a map, got %T", streamComponent)
				} else {
					if status, ok := streamMap["status"]; !ok || status != "healthy" {
						t.Errorf("Expected healthy stream component, got %v", streamMap)
					}
					if _, ok := streamMap["clients"]; !ok {
						t.Error("Expected client count in stream component")
					}
				}
			}

			timeDiff := time.Since(response.Timestamp)
			if timeDiff > time.Second {
				t.Errorf("Health check timestamp seems old: %v", timeDiff)
			}
		})
	}
}
