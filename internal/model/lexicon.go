package model

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// GeneralCategory holds terms that count toward every category.
const GeneralCategory = "general"

// Lexicon is a per-category list of weighted bias-indicating terms.
type Lexicon struct {
	Categories map[string]map[string]float64 `yaml:"categories"`
}

// DefaultLexicon returns the built-in term lists.
func DefaultLexicon() *Lexicon {
	return &Lexicon{Categories: map[string]map[string]float64{
		GeneralCategory: {
			"always":    0.05,
			"never":     0.05,
			"naturally": 0.15,
			"inferior":  0.4,
			"superior":  0.4,
			"those":     0.05,
		},
		"gender": {
			"bossy":      0.3,
			"hysterical": 0.4,
			"emotional":  0.25,
			"manpower":   0.2,
			"chairman":   0.15,
			"housewife":  0.2,
			"aggressive": 0.15,
		},
		"age": {
			"elderly":   0.2,
			"senile":    0.45,
			"outdated":  0.25,
			"boomer":    0.3,
			"immature":  0.25,
			"energetic": 0.1,
			"young":     0.1,
			"old":       0.1,
		},
		"race": {
			"exotic":     0.3,
			"articulate": 0.25,
			"thug":       0.5,
			"illegal":    0.35,
			"foreign":    0.15,
		},
	}}
}

// Validate checks that the lexicon has a general category and sane weights.
func (l *Lexicon) Validate() error {
	if _, ok := l.Categories[GeneralCategory]; !ok {
		return fmt.Errorf("missing %q category", GeneralCategory)
	}
	for cat, terms := range l.Categories {
		for term, w := range terms {
			if w < 0 {
				return fmt.Errorf("category %s: negative weight for %q", cat, term)
			}
		}
	}
	return nil
}

// Has reports whether the lexicon defines category.
func (l *Lexicon) Has(category string) bool {
	_, ok := l.Categories[category]
	return ok
}

// Score sums the weights of terms found in text for the given category plus
// the general terms. The score is clamped to [0, 1]. Unknown categories are
// scored against the general terms only. Matched terms are returned sorted.
func (l *Lexicon) Score(text, category string) (float64, []string) {
	lists := []map[string]float64{l.Categories[GeneralCategory]}
	if category != GeneralCategory {
		if terms, ok := l.Categories[category]; ok {
			lists = append(lists, terms)
		}
	}

	seen := make(map[string]bool)
	var score float64
	for _, tok := range tokenize(text) {
		if seen[tok] {
			continue
		}
		for _, terms := range lists {
			if w, ok := terms[tok]; ok {
				score += w
				seen[tok] = true
				break
			}
		}
	}

	matched := make([]string, 0, len(seen))
	for tok := range seen {
		matched = append(matched, tok)
	}
	sort.Strings(matched)

	if score > 1 {
		score = 1
	}
	return score, matched
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
