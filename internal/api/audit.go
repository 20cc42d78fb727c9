package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/biasguard/internal/domain"
	"github.com/ashureev/biasguard/internal/feed"
	"github.com/ashureev/biasguard/internal/guardrail"
	"github.com/ashureev/biasguard/internal/identity"
	"github.com/ashureev/biasguard/web"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// AuditHandler serves the guardrail endpoints.
type AuditHandler struct {
	*Handler
}

// NewAuditHandler creates the audit endpoint handler.
func NewAuditHandler(base *Handler) *AuditHandler {
	return &AuditHandler{Handler: base}
}

// RegisterRoutes registers the audit routes. Audit endpoints are wrapped
// with the given middlewares (rate limiting).
func (h *AuditHandler) RegisterRoutes(r chi.Router, auditMiddlewares ...func(http.Handler) http.Handler) {
	r.Get("/", h.Home)
	r.Group(func(r chi.Router) {
		r.Use(auditMiddlewares...)
		r.Post(domain.PredictPath, h.Predict)
		r.Post(domain.AnalyzePath, h.Analyze)
	})
	r.Get("/api/history", h.History)
}

// Home reports service status. Browsers asking for HTML are sent to the
// dashboard instead.
func (h *AuditHandler) Home(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, web.DashboardPath+"/", http.StatusFound)
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"status":        "Active",
		"service":       "Ethical AI Guardrail",
		"documentation": "/docs",
	})
}

// laxInt accepts integral JSON numbers and numeric strings, so 30, 30.0
// and "30" all decode to 30. Fractions and other types are rejected.
type laxInt int

func (n *laxInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid integer %s", raw)
		}
		raw = strings.TrimSpace(unquoted)
	}
	if i, err := strconv.Atoi(raw); err == nil {
		*n = laxInt(i)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return fmt.Errorf("invalid integer %s", string(data))
	}
	*n = laxInt(f)
	return nil
}

// applicantRequest uses pointers so missing fields can be told apart from zero.
type applicantRequest struct {
	Age          *laxInt `json:"age"`
	EducationNum *laxInt `json:"education_num"`
	Sex          *laxInt `json:"sex"`
	HoursPerWeek *laxInt `json:"hours_per_week"`
}

func (req applicantRequest) toInput() (domain.ApplicantInput, error) {
	missing := ""
	switch {
	case req.Age == nil:
		missing = "age"
	case req.EducationNum == nil:
		missing = "education_num"
	case req.Sex == nil:
		missing = "sex"
	case req.HoursPerWeek == nil:
		missing = "hours_per_week"
	}
	if missing != "" {
		return domain.ApplicantInput{}, fmt.Errorf("field required: %s", missing)
	}
	return domain.ApplicantInput{
		Age:          int(*req.Age),
		EducationNum: int(*req.EducationNum),
		Sex:          int(*req.Sex),
		HoursPerWeek: int(*req.HoursPerWeek),
	}, nil
}

// Predict scores an applicant and audits the decision.
func (h *AuditHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req applicantRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	in, err := req.toInput()
	if err != nil {
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := h.auditor.AuditApplicant(in)
	if err != nil {
		slog.Error("Applicant audit failed", "error", err)
		Error(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	slog.Info("Applicant audited",
		"audit_id", resp.AuditID,
		"decision", resp.Decision,
		"flagged", resp.EthicalAudit != guardrail.AuditPassed,
		"user", identity.FromContext(r.Context()).Label())

	h.record(r, feed.KindPredict, &in, resp)
	JSON(w, http.StatusOK, resp)
}

// Analyze scores free text for biased language.
func (h *AuditHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var in domain.TextInput
	if err := decodeBody(w, r, &in); err != nil {
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := h.auditor.AuditText(in)
	if errors.Is(err, guardrail.ErrEmptyText) {
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		slog.Error("Text audit failed", "error", err)
		Error(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	slog.Info("Text audited",
		"audit_id", resp.AuditID,
		"verdict", resp.Verdict,
		"category", resp.Category,
		"user", identity.FromContext(r.Context()).Label())

	h.record(r, feed.KindAnalyze, &in, resp)
	JSON(w, http.StatusOK, resp)
}

// History returns the caller's recent audits, newest first.
func (h *AuditHandler) History(w http.ResponseWriter, r *http.Request) {
	caller := identity.FromContext(r.Context())

	entries := h.sessions.Get(caller.UserID, caller.SessionID).Entries()
	JSON(w, http.StatusOK, map[string]interface{}{
		"session_id": caller.SessionID,
		"history":    entries,
	})
}

// record adds the audit to the caller's history and publishes it on the feed.
func (h *AuditHandler) record(r *http.Request, kind string, in domain.Input, resp any) {
	caller := identity.FromContext(r.Context())
	now := time.Now()

	result, err := toResult(resp)
	if err != nil {
		slog.Warn("Failed to record audit history", "error", err)
	} else {
		h.sessions.Get(caller.UserID, caller.SessionID).Push(domain.HistoryEntry{
			Result:    result,
			Input:     in.Clone(),
			Timestamp: now,
		})
	}

	h.hub.Publish(feed.Event{
		Kind:      kind,
		SessionID: caller.SessionID,
		Input:     in.Clone(),
		Result:    resp,
		Timestamp: now,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func toResult(v any) (domain.AuditResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	var result domain.AuditResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return result, nil
}
