// Package guardrail runs the model and applies the ethical audit rules.
package guardrail

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashureev/biasguard/internal/domain"
	"github.com/ashureev/biasguard/internal/model"
	"github.com/google/uuid"
)

// Audit messages attached to applicant decisions.
const (
	AuditPassed      = "✅ Audit Passed: No bias detected."
	AuditGenderFlag  = "⚠️ Bias Detected: Potential Gender Disparity Flagged."
	AuditAgeFlag     = "⚠️ Bias Detected: Potential Age Discrimination Flagged."
	youngApplicantAt = 25
)

// Text verdicts and the scores they start at.
const (
	VerdictNeutral = "Neutral"
	VerdictCaution = "Caution"
	VerdictBiased  = "Biased"

	cautionScore = 0.2
	biasedScore  = 0.5
)

// ErrEmptyText is returned when a text audit has nothing to score.
var ErrEmptyText = errors.New("text must not be empty")

// Auditor scores inputs and attaches audit findings.
type Auditor struct {
	predictor model.Predictor
	lexicon   *model.Lexicon
	now       func() time.Time
	newID     func() string
}

// New creates an Auditor.
func New(predictor model.Predictor, lexicon *model.Lexicon) *Auditor {
	return &Auditor{
		predictor: predictor,
		lexicon:   lexicon,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// AuditApplicant predicts a decision for the applicant and checks it for
// gender and age disparity.
func (a *Auditor) AuditApplicant(in domain.ApplicantInput) (*domain.PredictResponse, error) {
	features, err := model.RenameFeatures(map[string]float64{
		"age":            float64(in.Age),
		"education_num":  float64(in.EducationNum),
		"sex":            float64(in.Sex),
		"hours_per_week": float64(in.HoursPerWeek),
	})
	if err != nil {
		return nil, fmt.Errorf("rename features: %w", err)
	}

	label, prob, err := a.predictor.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	decision := domain.DecisionDenied
	confidence := 1 - prob
	if label == 1 {
		decision = domain.DecisionApproved
		confidence = prob
	}

	return &domain.PredictResponse{
		Decision:     decision,
		EthicalAudit: ApplicantAudit(in, label),
		RawScore:     label,
		Confidence:   confidence,
		AuditID:      a.newID(),
		EvaluatedAt:  a.now().UTC(),
	}, nil
}

// ApplicantAudit returns the audit message for an applicant and predicted label.
// A denied female applicant is flagged for gender disparity before age is considered.
func ApplicantAudit(in domain.ApplicantInput, label int) string {
	if label != 0 {
		return AuditPassed
	}
	switch {
	case in.Sex == 0:
		return AuditGenderFlag
	case in.Age < youngApplicantAt:
		return AuditAgeFlag
	default:
		return AuditPassed
	}
}

// AuditText scores free text against the lexicon for its category.
func (a *Auditor) AuditText(in domain.TextInput) (*domain.AnalyzeResponse, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyText
	}

	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" || !a.lexicon.Has(category) {
		category = model.GeneralCategory
	}

	score, matched := a.lexicon.Score(in.Text, category)
	verdict := Verdict(score)

	return &domain.AnalyzeResponse{
		Verdict:      verdict,
		BiasScore:    score,
		EthicalAudit: textAudit(verdict, category, matched),
		Category:     category,
		MatchedTerms: matched,
		AuditID:      a.newID(),
		EvaluatedAt:  a.now().UTC(),
	}, nil
}

// Verdict maps a bias score to its verdict.
func Verdict(score float64) string {
	switch {
	case score >= biasedScore:
		return VerdictBiased
	case score >= cautionScore:
		return VerdictCaution
	default:
		return VerdictNeutral
	}
}

func textAudit(verdict, category string, matched []string) string {
	switch verdict {
	case VerdictBiased:
		return fmt.Sprintf("⚠️ Bias Detected: %s-biased language (%s).", category, strings.Join(matched, ", "))
	case VerdictCaution:
		return fmt.Sprintf("Review Suggested: possible %s bias (%s).", category, strings.Join(matched, ", "))
	default:
		return AuditPassed
	}
}
