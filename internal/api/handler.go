// Package api provides HTTP handlers for the guardrail API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ashureev/biasguard/internal/feed"
	"github.com/ashureev/biasguard/internal/guardrail"
	"github.com/ashureev/biasguard/internal/history"
)

// Handler provides common handler utilities.
type Handler struct {
	auditor  *guardrail.Auditor
	sessions *history.Sessions
	hub      *feed.Hub
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(auditor *guardrail.Auditor, sessions *history.Sessions, hub *feed.Hub) *Handler {
	return &Handler{
		auditor:  auditor,
		sessions: sessions,
		hub:      hub,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
