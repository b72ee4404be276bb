package domain

import (
	"path/filepath"
	"strings"
)

// ModelFamily tags which input shape and invocation style a model expects.
type ModelFamily string

const (
	FamilyStandard    ModelFamily = "standard"
	FamilyFault       ModelFamily = "fault"
	FamilyRecommender ModelFamily = "recommender"
	FamilyLLM         ModelFamily = "llm"
)

// ClassifyModel derives the family from a model identifier. Substrings of the
// lower-cased base filename are tested in priority order; no match means
// standard. Pure and total: any string classifies.
func ClassifyModel(identifier string) ModelFamily {
	name := strings.ToLower(filepath.Base(identifier))
	switch {
	case strings.Contains(name, "fault"):
		return FamilyFault
	case strings.Contains(name, "recommender"):
		return FamilyRecommender
	case strings.Contains(name, "gemini"), strings.Contains(name, "llm"):
		return FamilyLLM
	default:
		return FamilyStandard
	}
}

// Tabular reports whether the family consumes a feature vector.
func (f ModelFamily) Tabular() bool {
	return f == FamilyStandard || f == FamilyFault
}
