package api

import (
	"log/slog"
	"net/http"

	"github.com/ashureev/biasguard/internal/config"
	"github.com/ashureev/biasguard/internal/domain"
	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health check and client config endpoints.
type HealthHandler struct {
	*Handler
	cfg *config.Config
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(base *Handler, cfg *config.Config) *HealthHandler {
	return &HealthHandler{Handler: base, cfg: cfg}
}

// Health runs the default applicant through the model and reports live state.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "healthy",
		"checks": map[string]string{"api": "ok"},
	}
	statusCode := http.StatusOK

	if _, err := h.auditor.AuditApplicant(*domain.DefaultApplicant()); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		status["checks"].(map[string]string)["model"] = "failing"
		statusCode = http.StatusServiceUnavailable
	} else {
		status["checks"].(map[string]string)["model"] = "ok"
	}

	status["feed_subscribers"] = h.hub.SubscriberCount()
	status["active_sessions"] = h.sessions.Len()

	JSON(w, statusCode, status)
}

// GetConfig returns the settings the dashboard needs.
func (h *HealthHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if h.cfg != nil {
		limit = h.cfg.HistoryLimit
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"history_limit": limit,
		"defaults":      domain.DefaultApplicant(),
	})
}

// RegisterHealth registers the health check and config routes.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/api/config", h.GetConfig)
}
