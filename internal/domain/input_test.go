package domain

import (
	"errors"
	"testing"
)

func TestApplicantSetSingleField(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  ApplicantInput
	}{
		{"age", "41", ApplicantInput{Age: 41, EducationNum: 12, Sex: 1, HoursPerWeek: 40}},
		{"education_num", " 16 ", ApplicantInput{Age: 30, EducationNum: 16, Sex: 1, HoursPerWeek: 40}},
		{"sex", "0", ApplicantInput{Age: 30, EducationNum: 12, Sex: 0, HoursPerWeek: 40}},
		{"hours_per_week", "60", ApplicantInput{Age: 30, EducationNum: 12, Sex: 1, HoursPerWeek: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			in := DefaultApplicant()
			if err := in.Set(tt.field, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) failed: %v", tt.field, tt.value, err)
			}
			if *in != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, *in)
			}
		})
	}
}

func TestApplicantSetRejectsBadInput(t *testing.T) {
	in := DefaultApplicant()

	if err := in.Set("age", "thirty"); err == nil {
		t.Error("Expected parse error for non-numeric age")
	}
	if err := in.Set("salary", "10"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
	if *in != *DefaultApplicant() {
		t.Errorf("Expected input unchanged after failed edits, got %+v", *in)
	}
}

func TestApplicantClone(t *testing.T) {
	in := DefaultApplicant()
	c := in.Clone().(*ApplicantInput)
	c.Age = 77

	if in.Age != 30 {
		t.Errorf("Clone shares state with original: age %d", in.Age)
	}
}

func TestTextSet(t *testing.T) {
	in := DefaultText()

	if err := in.Set("text", "  keep spacing "); err != nil {
		t.Fatalf("Set text failed: %v", err)
	}
	if err := in.Set("category", " gender "); err != nil {
		t.Fatalf("Set category failed: %v", err)
	}
	if in.Text != "  keep spacing " || in.Category != "gender" {
		t.Errorf("Unexpected input: %+v", *in)
	}
	if err := in.Set("age", "3"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
	if in.Path() != AnalyzePath {
		t.Errorf("Expected path %s, got %s", AnalyzePath, in.Path())
	}
}

func TestAuditResultOptimisticAccess(t *testing.T) {
	r := AuditResult{
		"decision":   "Approved",
		"raw_score":  float64(1),
		"bias_score": "not a number",
	}

	if !r.Approved() {
		t.Error("Expected Approved")
	}
	if r.RawScore() != 1 {
		t.Errorf("Expected raw score 1, got %d", r.RawScore())
	}
	if r.BiasScore() != 0 {
		t.Errorf("Expected zero bias score for mistyped field, got %v", r.BiasScore())
	}
	if r.EthicalAudit() != "" || r.Verdict() != "" {
		t.Error("Expected empty strings for missing fields")
	}

	var empty AuditResult
	if empty.Decision() != "" || empty.Clone() != nil {
		t.Error("Expected nil result to read as empty")
	}
}
