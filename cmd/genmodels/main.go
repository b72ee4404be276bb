// Command genmodels writes sample model artifacts for local development and
// test fixtures. It emits one artifact per kind in both codecs, using the
// actual loader's Spec type so generated files match real load behavior.
//
// Usage:
//
//	go run ./cmd/genmodels -out models
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/voltgrid/station-inference-service/internal/domain"
	"github.com/voltgrid/station-inference-service/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "models", "output directory for sample artifacts")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	samples := map[string]model.Spec{
		"xgb_demand_model": {
			Kind:    "regressor",
			Bias:    12.5,
			Weights: evenWeights(len(domain.FeatureNames(domain.FamilyStandard)), 0.4),
		},
		"lgbm_fault_model": {
			Kind:    "classifier",
			Bias:    -2.0,
			Weights: evenWeights(len(domain.FeatureNames(domain.FamilyFault)), 0.05),
			Classes: []string{"ok", "fault"},
		},
		"station_recommender_model": {
			Kind:    "recommender",
			Weights: []float64{1.0, 1.0, 0.05},
		},
		"gemini_explainer_model": {
			Kind: "generator",
			Responses: []string{
				"Queue pressure is moderate; battery availability covers the projected demand.",
				"Power draw is near capacity; consider shifting charging to off-peak hours.",
			},
		},
	}

	for name, spec := range samples {
		if err := writeArtifact(*out, name, spec); err != nil {
			return err
		}
	}

	log.Printf("wrote %d artifacts (x2 codecs) to %s", len(samples), *out)
	return nil
}

// writeArtifact writes the spec in both codecs: gob (the primary strategy)
// and JSON (the secondary, and the human-inspectable one).
func writeArtifact(dir, name string, spec model.Spec) error {
	gobData, err := model.EncodeGob(spec)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".gob"), gobData, 0o600); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	jsonData, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	jsonData = append(jsonData, '\n')
	if err := os.WriteFile(filepath.Join(dir, name+".json"), jsonData, 0o600); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	log.Printf("wrote %s (.gob, .json)", name)
	return nil
}

// evenWeights fills an n-slot weight vector with a constant, a plausible
// stand-in for trained coefficients.
func evenWeights(n int, v float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = v
	}
	return w
}
