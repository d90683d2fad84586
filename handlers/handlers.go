// Package handlers provides HTTP request handlers for the generic
// medicines API endpoints: the search endpoint, the health check, and
// JSON response formatting with input validation and error handling.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/medisave/genericmeds-api/interfaces"
	"github.com/medisave/genericmeds-api/logging"
	"github.com/medisave/genericmeds-api/metrics"
	"github.com/medisave/genericmeds-api/validation"
)

var serverStartTime = time.Now()

// SearchRequest is the body of POST /search
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

// Handler serves the API endpoints with injected dependencies
type Handler struct {
	orchestrator interfaces.Orchestrator
	status       interfaces.StatusStore
	validate     *validator.Validate
}

// NewHandler creates a handler with injected dependencies
func NewHandler(orchestrator interfaces.Orchestrator, status interfaces.StatusStore) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		status:       status,
		validate:     validator.New(),
	}
}

// Search handles POST /search. An empty or missing query is rejected
// before any upstream call is made.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Query is required")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if err := h.validate.Struct(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Query is required")
		return
	}

	if err := validation.ValidateQuery(req.Query); err != nil {
		RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid query: %v", err))
		return
	}

	query := validation.NormalizeQuery(req.Query)

	answer, err := h.orchestrator.Run(r.Context(), query)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		logging.Error("Search failed", "query", query, "error", err)
		RespondWithJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Internal server error",
		})
		return
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"result":    resultPayload(answer.Text),
		"search_id": answer.SearchID,
	})
}

// resultPayload embeds the agent's answer as a JSON object when the
// model followed the requested shape, and as a plain string otherwise.
// The answer is model-generated and deliberately not validated.
func resultPayload(text string) any {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return json.RawMessage(trimmed)
	}
	return text
}

// HealthCheck handles GET /health. It reports process statistics and
// the cached result of the last vocabulary probe; it never calls a
// dependency itself.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	payload := map[string]any{
		"status":          "ok",
		"message":         "generic medicines API is running",
		"uptime":          formatUptimeHuman(time.Since(serverStartTime)),
		"memory_usage_mb": int(m.Alloc / 1024 / 1024),
	}

	if h.status != nil {
		probe := h.status.LastProbe()
		if !probe.CheckedAt.IsZero() {
			payload["vocabulary_service"] = probe
		}
	}

	RespondWithJSON(w, http.StatusOK, payload)
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
