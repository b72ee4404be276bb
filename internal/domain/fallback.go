package domain

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// cannedExplanation answers llm-family fallbacks when no generator artifact
// is available.
const cannedExplanation = "Station metrics are within expected ranges. Detailed analysis is unavailable because the explanation model could not be reached."

// FallbackRule maps model-identifier substrings to a canned prediction.
// Rules are evaluated in order; the first match wins. A rule with no Match
// entries is a catch-all.
type FallbackRule struct {
	Match []string `yaml:"match"`

	Prediction          *float64  `yaml:"prediction"`
	Probabilities       []float64 `yaml:"probabilities"`
	RecommendationScore *float64  `yaml:"recommendation_score"`
	Explanation         string    `yaml:"explanation"`

	// RandomRange draws the prediction uniformly from [lo, hi) instead of
	// using the fixed Prediction value.
	RandomRange []float64 `yaml:"random_range"`
	// PeakBoost is added to the prediction when the record's hour is a peak hour.
	PeakBoost float64 `yaml:"peak_boost"`
	// QueueFactor predicts QueueFactor × resolved current_queue.
	QueueFactor float64 `yaml:"queue_factor"`
}

// DefaultFallbackRules is the built-in safety-net table. Values are fixed
// constants except the queue echoes and the peak-hour traffic boost.
func DefaultFallbackRules() []FallbackRule {
	return []FallbackRule{
		{Match: []string{"traffic"}, RandomRange: []float64{0.5, 0.9}, PeakBoost: 0.2},
		{Match: []string{"fault"}, Prediction: scoreOf(0.15), Probabilities: []float64{0.85, 0.15}},
		{Match: []string{"queue"}, QueueFactor: 1},
		{Match: []string{"wait"}, QueueFactor: 3},
		{Match: []string{"demand", "arrival"}, Prediction: scoreOf(0.6)},
		{Match: []string{"rebalance"}, Prediction: scoreOf(0.4)},
		{Match: []string{"stock", "order"}, Prediction: scoreOf(0.5)},
		{Match: []string{"staff", "diversion"}, Prediction: scoreOf(0.3)},
		{Match: []string{"tieup", "storage"}, Prediction: scoreOf(0.4)},
		{Match: []string{"action"}, Prediction: scoreOf(0), Probabilities: []float64{0.8, 0.15, 0.05}},
		{Match: []string{"recommender"}, Prediction: scoreOf(0.75), RecommendationScore: scoreOf(0.75)},
		{Match: []string{"gemini", "llm"}, Explanation: cannedExplanation},
		{Prediction: scoreOf(0.5)},
	}
}

// LoadFallbackRules reads an ordered rule table from a YAML file. The file
// replaces the built-in table wholesale, so it should end with a catch-all.
func LoadFallbackRules(path string) ([]FallbackRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback rules: %w", err)
	}
	var rules []FallbackRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse fallback rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("fallback rules file %s is empty", path)
	}
	return rules, nil
}

// Fallback produces a canned prediction for a model identifier using the
// built-in table. Always succeeds, always tagged fallback.
func Fallback(identifier string, record InputRecord) PredictionResult {
	return FallbackWith(DefaultFallbackRules(), identifier, record)
}

// FallbackWith evaluates an ordered rule table against the identifier's base
// filename and applies the first matching rule.
func FallbackWith(rules []FallbackRule, identifier string, record InputRecord) PredictionResult {
	name := strings.ToLower(filepath.Base(identifier))
	for _, rule := range rules {
		if rule.matches(name) {
			return rule.apply(record)
		}
	}
	// Tables normally end with a catch-all; an exhausted table still answers.
	return PredictionResult{Prediction: 0.5, Fallback: true}
}

func (r FallbackRule) matches(name string) bool {
	if len(r.Match) == 0 {
		return true
	}
	for _, sub := range r.Match {
		if strings.Contains(name, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func (r FallbackRule) apply(record InputRecord) PredictionResult {
	result := PredictionResult{Fallback: true}

	switch {
	case r.Explanation != "":
		result.Explanation = r.Explanation
		return result
	case r.QueueFactor != 0:
		result.Prediction = r.QueueFactor * record.QueueLength()
		return result
	case len(r.RandomRange) == 2:
		p := r.RandomRange[0] + rand.Float64()*(r.RandomRange[1]-r.RandomRange[0])
		if r.PeakBoost != 0 && peakHours[record.Time().Hour()] {
			p += r.PeakBoost
		}
		result.Prediction = p
		return result
	}

	if r.Prediction != nil {
		result.Prediction = *r.Prediction
	}
	result.Probabilities = r.Probabilities
	result.RecommendationScore = r.RecommendationScore
	return result
}
