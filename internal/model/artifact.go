// Package model loads serialized model artifacts and exposes their
// capabilities as narrow interfaces. The dispatcher checks capabilities with
// type assertions instead of assuming every artifact supports every call.
package model

import (
	"fmt"
	"math"
)

// Predictor produces one prediction per input row.
type Predictor interface {
	Predict(rows [][]float64) ([]float64, error)
}

// ProbabilityPredictor additionally produces per-class probabilities.
type ProbabilityPredictor interface {
	PredictProba(rows [][]float64) ([][]float64, error)
}

// Recommender ranks candidate stations for a user.
type Recommender interface {
	Recommend(stations []any, userContext any) (any, error)
}

// Generator produces a textual explanation for a prompt.
type Generator interface {
	Generate(prompt, context string) (string, error)
}

// Spec is the serialized form of an artifact, decodable from gob or JSON.
// Which fields apply depends on Kind.
type Spec struct {
	Kind      string    `json:"kind"`
	Bias      float64   `json:"bias,omitempty"`
	Weights   []float64 `json:"weights,omitempty"`
	Classes   []string  `json:"classes,omitempty"`
	Responses []string  `json:"responses,omitempty"`
}

// Build constructs the concrete artifact for a spec. Unknown kinds error,
// which the dispatcher converts into a fallback.
func Build(spec Spec) (any, error) {
	switch spec.Kind {
	case "regressor":
		if len(spec.Weights) == 0 {
			return nil, fmt.Errorf("regressor artifact has no weights")
		}
		return &regressor{weights: spec.Weights, bias: spec.Bias}, nil
	case "classifier":
		if len(spec.Weights) == 0 {
			return nil, fmt.Errorf("classifier artifact has no weights")
		}
		return &classifier{weights: spec.Weights, bias: spec.Bias, classes: spec.Classes}, nil
	case "recommender":
		return &recommender{weights: spec.Weights}, nil
	case "generator":
		if len(spec.Responses) == 0 {
			return nil, fmt.Errorf("generator artifact has no responses")
		}
		return &generator{responses: spec.Responses}, nil
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", spec.Kind)
	}
}

// regressor is a linear model: dot(weights, row) + bias.
type regressor struct {
	weights []float64
	bias    float64
}

func (m *regressor) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		v, err := dot(m.weights, row)
		if err != nil {
			return nil, err
		}
		out[i] = v + m.bias
	}
	return out, nil
}

// classifier is a binary logistic model over the same weight layout.
type classifier struct {
	weights []float64
	bias    float64
	classes []string
}

func (m *classifier) Predict(rows [][]float64) ([]float64, error) {
	proba, err := m.PredictProba(rows)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p[1] >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

func (m *classifier) PredictProba(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		v, err := dot(m.weights, row)
		if err != nil {
			return nil, err
		}
		p := sigmoid(v + m.bias)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

// recommender scores station records by reliability and stability against
// queue pressure. Optional weights override the three term coefficients.
type recommender struct {
	weights []float64
}

func (m *recommender) Recommend(stations []any, userContext any) (any, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("no candidate stations")
	}

	wReliability, wStability, wQueue := 1.0, 1.0, 0.05
	if len(m.weights) >= 3 {
		wReliability, wStability, wQueue = m.weights[0], m.weights[1], m.weights[2]
	}

	type scored struct {
		Station any     `json:"station"`
		Score   float64 `json:"score"`
	}
	ranked := make([]scored, 0, len(stations))
	for _, s := range stations {
		fields, _ := s.(map[string]any)
		reliability := lookupFloat(fields, 0.9, "station_reliability", "stationReliability")
		stability := lookupFloat(fields, 0.9, "energy_stability", "energyStability")
		queue := lookupFloat(fields, 5, "current_queue", "currentQueue", "queue_length")
		ranked = append(ranked, scored{
			Station: s,
			Score:   wReliability*reliability + wStability*stability - wQueue*queue,
		})
	}
	best := ranked[0]
	for _, c := range ranked[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return map[string]any{
		"best":       best.Station,
		"score":      best.Score,
		"candidates": len(ranked),
		"user":       userContext,
	}, nil
}

// generator cycles canned response templates, echoing the prompt.
type generator struct {
	responses []string
	next      int
}

func (m *generator) Generate(prompt, context string) (string, error) {
	tmpl := m.responses[m.next%len(m.responses)]
	m.next++
	if prompt == "" {
		return tmpl, nil
	}
	return fmt.Sprintf("%s (prompt: %s)", tmpl, prompt), nil
}

func dot(weights, row []float64) (float64, error) {
	if len(weights) != len(row) {
		return 0, fmt.Errorf("feature count %d does not match model weight count %d", len(row), len(weights))
	}
	var sum float64
	for i := range weights {
		sum += weights[i] * row[i]
	}
	return sum, nil
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func lookupFloat(fields map[string]any, def float64, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			switch x := v.(type) {
			case float64:
				return x
			case int:
				return float64(x)
			}
		}
	}
	return def
}
