// Package config provides configuration structures for the search
// engine. It defines field weights, result and query-term caps, and other
// engine-wide options, with a settings-struct-plus-defaults shape.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CanonicalFields lists the only field names the index will ever store
// postings for. A FieldSpec naming anything else fails validation; a
// document carrying a field outside this set is simply ignored at ingest.
var CanonicalFields = map[string]bool{
	"title":    true,
	"tags":     true,
	"headings": true,
	"text":     true,
}

// FieldSpec names one searchable field and its static weight.
type FieldSpec struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// DefaultFields is the canonical field set: text:1, headings:5,
// title:10, tags:10.
func DefaultFields() []FieldSpec {
	return []FieldSpec{
		{Name: "text", Weight: 1},
		{Name: "headings", Weight: 5},
		{Name: "title", Weight: 10},
		{Name: "tags", Weight: 10},
	}
}

// EngineSettings holds the construction-time parameters of an Index. The
// field set is immutable once an Index is built.
type EngineSettings struct {
	Fields []FieldSpec `json:"fields" yaml:"fields"`

	// MandatoryTerms is a caller-supplied set of operator-like tokens
	// (checked against the original, unstemmed query term) whose
	// correlation weight is boosted 1.5x during scoring.
	MandatoryTerms []string `json:"mandatory_terms" yaml:"mandatory_terms"`

	// MaxMatches caps the number of results returned by a single search.
	// Defaults to 150.
	MaxMatches int `json:"max_matches" yaml:"max_matches"`

	// MaxQueryTerms caps the number of distinct terms a query may contain
	// before it is rejected with ErrQueryTooLong. Defaults to 10.
	MaxQueryTerms int `json:"max_query_terms" yaml:"max_query_terms"`
}

// ApplyDefaults fills in zero-valued fields with their defaults.
func (s *EngineSettings) ApplyDefaults() {
	if len(s.Fields) == 0 {
		s.Fields = DefaultFields()
	}
	if s.MaxMatches == 0 {
		s.MaxMatches = 150
	}
	if s.MaxQueryTerms == 0 {
		s.MaxQueryTerms = 10
	}
	if s.MandatoryTerms == nil {
		s.MandatoryTerms = []string{}
	}
}

// Validate checks the field set against the canonical names and rejects
// duplicate field names and non-positive weights.
func (s *EngineSettings) Validate() []string {
	var problems []string
	seen := make(map[string]bool)
	for _, f := range s.Fields {
		if !CanonicalFields[f.Name] {
			problems = append(problems, fmt.Sprintf("field %q is not one of the canonical fields (title, tags, headings, text)", f.Name))
		}
		if seen[f.Name] {
			problems = append(problems, fmt.Sprintf("duplicate field %q in field spec", f.Name))
		}
		seen[f.Name] = true
		if f.Weight <= 0 {
			problems = append(problems, fmt.Sprintf("field %q has non-positive weight %v", f.Name, f.Weight))
		}
	}
	return problems
}

// LoadEngineSettingsYAML parses engine settings from YAML, applying
// defaults to anything left unset.
func LoadEngineSettingsYAML(data []byte) (EngineSettings, error) {
	var s EngineSettings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return EngineSettings{}, fmt.Errorf("parsing engine settings: %w", err)
	}
	s.ApplyDefaults()
	if problems := s.Validate(); len(problems) > 0 {
		return EngineSettings{}, fmt.Errorf("invalid engine settings: %v", problems)
	}
	return s, nil
}
