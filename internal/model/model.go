// Package model provides the applicant classifier and text lexicon used by the guardrail.
package model

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Feature names as the classifier was fit with them. Request fields use
// underscores and are renamed before scoring.
const (
	FeatureAge          = "age"
	FeatureEducationNum = "education-num"
	FeatureSex          = "sex"
	FeatureHoursPerWeek = "hours-per-week"
)

var knownFeatures = map[string]bool{
	FeatureAge:          true,
	FeatureEducationNum: true,
	FeatureSex:          true,
	FeatureHoursPerWeek: true,
}

// requestToFeature maps JSON field names to fit-time feature names.
var requestToFeature = map[string]string{
	"age":            FeatureAge,
	"education_num":  FeatureEducationNum,
	"sex":            FeatureSex,
	"hours_per_week": FeatureHoursPerWeek,
}

// ErrUnknownFeature is returned when a model or input names a feature the
// classifier was not fit with.
var ErrUnknownFeature = errors.New("feature names unseen at fit time")

// Features is a single row of named numeric inputs.
type Features map[string]float64

// RenameFeatures converts request field names to fit-time feature names.
func RenameFeatures(fields map[string]float64) (Features, error) {
	out := make(Features, len(fields))
	for name, v := range fields {
		feature, ok := requestToFeature[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, name)
		}
		out[feature] = v
	}
	return out, nil
}

// Predictor scores a feature row.
type Predictor interface {
	// Predict returns the class label (0 or 1) and the probability of class 1.
	Predict(f Features) (label int, probability float64, err error)
}

// LogisticModel is a binary logistic regression.
type LogisticModel struct {
	Intercept float64            `yaml:"intercept"`
	Weights   map[string]float64 `yaml:"weights"`
	Threshold float64            `yaml:"threshold"`
}

// DefaultModel returns the built-in classifier. It carries no weight on sex.
func DefaultModel() *LogisticModel {
	return &LogisticModel{
		Intercept: -8.0,
		Weights: map[string]float64{
			FeatureAge:          0.04,
			FeatureEducationNum: 0.33,
			FeatureSex:          0,
			FeatureHoursPerWeek: 0.04,
		},
		Threshold: 0.5,
	}
}

// Validate checks that every weight names a known feature.
func (m *LogisticModel) Validate() error {
	for name := range m.Weights {
		if !knownFeatures[name] {
			return fmt.Errorf("%w: %s", ErrUnknownFeature, name)
		}
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		return fmt.Errorf("threshold must be in (0, 1), got %v", m.Threshold)
	}
	return nil
}

// Predict implements Predictor.
func (m *LogisticModel) Predict(f Features) (int, float64, error) {
	z := m.Intercept
	for name, v := range f {
		if !knownFeatures[name] {
			return 0, 0, fmt.Errorf("%w: %s", ErrUnknownFeature, name)
		}
		z += m.Weights[name] * v
	}
	p := 1 / (1 + math.Exp(-z))
	if p >= m.Threshold {
		return 1, p, nil
	}
	return 0, p, nil
}

// File is the on-disk layout of a model file.
type File struct {
	Classifier *LogisticModel `yaml:"classifier"`
	Lexicon    *Lexicon       `yaml:"lexicon"`
}

// Load reads a YAML model file. Sections missing from the file fall back to
// the built-in defaults. An empty path returns the defaults.
func Load(path string) (*LogisticModel, *Lexicon, error) {
	if path == "" {
		return DefaultModel(), DefaultLexicon(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read model file: %w", err)
	}
	return Parse(data)
}

// Parse decodes model YAML. See Load.
func Parse(data []byte) (*LogisticModel, *Lexicon, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("decode model file: %w", err)
	}

	clf := f.Classifier
	if clf == nil {
		clf = DefaultModel()
	}
	if clf.Threshold == 0 {
		clf.Threshold = 0.5
	}
	if err := clf.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid classifier: %w", err)
	}

	lex := f.Lexicon
	if lex == nil {
		lex = DefaultLexicon()
	}
	if err := lex.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid lexicon: %w", err)
	}
	return clf, lex, nil
}
