// Command validate decodes every artifact in a models directory and reports
// which files load, with which codec and capabilities. Useful before shipping
// a new artifact bundle: anything listed as failed will be served by the
// fallback table in production.
//
// Usage:
//
//	go run ./cmd/validate -models-dir models
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voltgrid/station-inference-service/internal/domain"
	"github.com/voltgrid/station-inference-service/internal/model"
)

func main() {
	modelsDir := flag.String("models-dir", "models", "directory containing model artifacts")
	suffixes := flag.String("suffixes", ".pkl,.json,.gob", "comma-separated artifact filename suffixes")
	flag.Parse()

	store := model.NewStore(*modelsDir, strings.Split(*suffixes, ","))
	loader := model.NewLoader()

	names, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Printf("no artifacts found in %s\n", *modelsDir)
		return
	}

	failed := 0
	for _, name := range names {
		path := filepath.Join(*modelsDir, name)
		family := domain.ClassifyModel(name)

		artifact, err := loader.Load(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %-40s family=%-11s %v\n", name, family, err)
			continue
		}
		fmt.Printf("ok    %-40s family=%-11s capabilities=%s\n", name, family, capabilities(artifact))
	}

	fmt.Printf("\n%d artifacts, %d failed\n", len(names), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// capabilities names the interfaces an artifact satisfies.
func capabilities(artifact any) string {
	var caps []string
	if _, ok := artifact.(model.Predictor); ok {
		caps = append(caps, "predict")
	}
	if _, ok := artifact.(model.ProbabilityPredictor); ok {
		caps = append(caps, "predict_proba")
	}
	if _, ok := artifact.(model.Recommender); ok {
		caps = append(caps, "recommend")
	}
	if _, ok := artifact.(model.Generator); ok {
		caps = append(caps, "generate")
	}
	if len(caps) == 0 {
		return "none"
	}
	return strings.Join(caps, ",")
}
