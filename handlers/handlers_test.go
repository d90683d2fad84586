package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/medisave/genericmeds-api/interfaces"
)

// stubOrchestrator counts runs and returns a fixed answer
type stubOrchestrator struct {
	answer *interfaces.Answer
	err    error
	runs   int
}

func (s *stubOrchestrator) Run(ctx context.Context, query string) (*interfaces.Answer, error) {
	s.runs++
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

// stubStatus returns a fixed probe snapshot
type stubStatus struct {
	probe interfaces.ProbeStatus
}

func (s *stubStatus) RecordProbe(status interfaces.ProbeStatus) { s.probe = status }
func (s *stubStatus) LastProbe() interfaces.ProbeStatus         { return s.probe }

func postSearch(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Search(w, req)
	return w
}

func TestSearchEmptyQuery(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"empty query", `{"query": ""}`},
		{"whitespace query", `{"query": "   "}`},
		{"missing query field", `{}`},
		{"no body", ``},
		{"invalid json", `{"query":`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orch := &stubOrchestrator{}
			h := NewHandler(orch, nil)

			w := postSearch(t, h, tc.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Response is not valid JSON: %v", err)
			}
			if resp["error"] != "Query is required" {
				t.Errorf("Expected error 'Query is required', got %q", resp["error"])
			}

			if orch.runs != 0 {
				t.Errorf("Expected zero orchestrator runs, got %d", orch.runs)
			}
		})
	}
}

func TestSearchQueryTooLong(t *testing.T) {
	orch := &stubOrchestrator{}
	h := NewHandler(orch, nil)

	w := postSearch(t, h, `{"query": "`+strings.Repeat("a", 300)+`"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if orch.runs != 0 {
		t.Errorf("Expected zero orchestrator runs, got %d", orch.runs)
	}
}

func TestSearchSuccessWithJSONResult(t *testing.T) {
	orch := &stubOrchestrator{
		answer: &interfaces.Answer{
			SearchID: "cu4abc123",
			Text:     `{"comparison": {"generic": {"salt": "atorvastatin"}}, "description": "ok"}`,
			Turns:    2,
		},
	}
	h := NewHandler(orch, nil)

	w := postSearch(t, h, `{"query": "Lipitor 20mg"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Success  bool   `json:"success"`
		SearchID string `json:"search_id"`
		Result   struct {
			Comparison struct {
				Generic struct {
					Salt string `json:"salt"`
				} `json:"generic"`
			} `json:"comparison"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}

	if !resp.Success {
		t.Error("Expected success true")
	}
	if resp.SearchID != "cu4abc123" {
		t.Errorf("Expected search ID to pass through, got %q", resp.SearchID)
	}
	if resp.Result.Comparison.Generic.Salt != "atorvastatin" {
		t.Errorf("Expected structured result with salt atorvastatin, got %+v", resp.Result)
	}
	if orch.runs != 1 {
		t.Errorf("Expected one orchestrator run, got %d", orch.runs)
	}
}

func TestSearchSuccessWithPlainTextResult(t *testing.T) {
	orch := &stubOrchestrator{
		answer: &interfaces.Answer{
			SearchID: "cu4def456",
			Text:     "Could not structure the data, but generic atorvastatin is far cheaper than Lipitor.",
		},
	}
	h := NewHandler(orch, nil)

	w := postSearch(t, h, `{"query": "Lipitor"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}

	text, ok := resp["result"].(string)
	if !ok {
		t.Fatalf("Expected a plain string result, got %T", resp["result"])
	}
	if !strings.Contains(text, "atorvastatin") {
		t.Errorf("Unexpected result text: %q", text)
	}
}

func TestSearchOrchestratorError(t *testing.T) {
	orch := &stubOrchestrator{err: errors.New("all backends down")}
	h := NewHandler(orch, nil)

	w := postSearch(t, h, `{"query": "Lipitor"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if resp["success"] != false {
		t.Error("Expected success false")
	}
	// The upstream message must not leak to the client
	if resp["error"] != "Internal server error" {
		t.Errorf("Expected generic error message, got %q", resp["error"])
	}
}

func TestHealthCheck(t *testing.T) {
	status := &stubStatus{
		probe: interfaces.ProbeStatus{
			CheckedAt: time.Now(),
			Reachable: true,
		},
	}
	h := NewHandler(&stubOrchestrator{}, status)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", resp["status"])
	}
	if _, present := resp["vocabulary_service"]; !present {
		t.Error("Expected the cached probe snapshot in the payload")
	}
}

func TestHealthCheckWithoutStatusStore(t *testing.T) {
	h := NewHandler(&stubOrchestrator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "vocabulary_service") {
		t.Error("Expected no probe snapshot without a status store")
	}
}
