package domain

import "time"

// Decision labels returned by the guardrail.
const (
	DecisionApproved = "Approved"
	DecisionDenied   = "Denied"
)

// AuditResult is the decoded JSON body returned by the guardrail service.
// Its shape is not validated; accessors return zero values for missing or
// mistyped fields.
type AuditResult map[string]any

// Decision returns the "decision" field.
func (r AuditResult) Decision() string { return r.str("decision") }

// EthicalAudit returns the "ethical_audit" field.
func (r AuditResult) EthicalAudit() string { return r.str("ethical_audit") }

// Verdict returns the "verdict" field.
func (r AuditResult) Verdict() string { return r.str("verdict") }

// BiasScore returns the "bias_score" field.
func (r AuditResult) BiasScore() float64 { return r.num("bias_score") }

// RawScore returns the "raw_score" field.
func (r AuditResult) RawScore() int { return int(r.num("raw_score")) }

// Approved reports whether the decision is Approved.
func (r AuditResult) Approved() bool { return r.Decision() == DecisionApproved }

func (r AuditResult) str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

func (r AuditResult) num(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Clone returns a shallow copy so callers cannot mutate stored results.
func (r AuditResult) Clone() AuditResult {
	if r == nil {
		return nil
	}
	c := make(AuditResult, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// PredictResponse is the guardrail's answer to an applicant audit.
type PredictResponse struct {
	Decision     string    `json:"decision"`
	EthicalAudit string    `json:"ethical_audit"`
	RawScore     int       `json:"raw_score"`
	Confidence   float64   `json:"confidence"`
	AuditID      string    `json:"audit_id"`
	EvaluatedAt  time.Time `json:"evaluated_at"`
}

// AnalyzeResponse is the guardrail's answer to a text audit.
type AnalyzeResponse struct {
	Verdict      string    `json:"verdict"`
	BiasScore    float64   `json:"bias_score"`
	EthicalAudit string    `json:"ethical_audit"`
	Category     string    `json:"category"`
	MatchedTerms []string  `json:"matched_terms"`
	AuditID      string    `json:"audit_id"`
	EvaluatedAt  time.Time `json:"evaluated_at"`
}

// HistoryEntry pairs a result with the input that produced it.
type HistoryEntry struct {
	Result    AuditResult `json:"result"`
	Input     Input       `json:"input"`
	Timestamp time.Time   `json:"timestamp"`
}
