// Package domain contains core domain types for the BiasGuard application.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownField is returned when an edit names a field the input does not have.
var ErrUnknownField = errors.New("unknown field")

// Endpoint paths on the guardrail service.
const (
	PredictPath = "/predict"
	AnalyzePath = "/analyze"
)

// Input is a form record that can be edited field by field and submitted.
type Input interface {
	// Path returns the service path the input is posted to.
	Path() string
	// Set parses value into the named field. Other fields are left unchanged
	// and the input is untouched on error.
	Set(field, value string) error
	// Clone returns an independent copy suitable for a history snapshot.
	Clone() Input
}

// ApplicantInput is the census-style applicant record scored by the model.
type ApplicantInput struct {
	Age          int `json:"age"`
	EducationNum int `json:"education_num"`
	Sex          int `json:"sex"` // 1 male, 0 female
	HoursPerWeek int `json:"hours_per_week"`
}

// DefaultApplicant returns the record a fresh form starts with.
func DefaultApplicant() *ApplicantInput {
	return &ApplicantInput{Age: 30, EducationNum: 12, Sex: 1, HoursPerWeek: 40}
}

// Path implements Input.
func (a *ApplicantInput) Path() string { return PredictPath }

// Set implements Input.
func (a *ApplicantInput) Set(field, value string) error {
	var target *int
	switch field {
	case "age":
		target = &a.Age
	case "education_num":
		target = &a.EducationNum
	case "sex":
		target = &a.Sex
	case "hours_per_week":
		target = &a.HoursPerWeek
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("parse %s: %w", field, err)
	}
	*target = n
	return nil
}

// Clone implements Input.
func (a *ApplicantInput) Clone() Input {
	c := *a
	return &c
}

// SexLabel returns the short label used in history listings.
func (a *ApplicantInput) SexLabel() string {
	if a.Sex == 1 {
		return "M"
	}
	return "F"
}

// TextInput is free text submitted for lexical bias analysis.
type TextInput struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// DefaultCategory is used when a text input names no category.
const DefaultCategory = "general"

// DefaultText returns an empty text record in the general category.
func DefaultText() *TextInput {
	return &TextInput{Category: DefaultCategory}
}

// Path implements Input.
func (t *TextInput) Path() string { return AnalyzePath }

// Set implements Input.
func (t *TextInput) Set(field, value string) error {
	switch field {
	case "text":
		t.Text = value
	case "category":
		t.Category = strings.TrimSpace(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Clone implements Input.
func (t *TextInput) Clone() Input {
	c := *t
	return &c
}
