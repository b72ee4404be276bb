// Package engine orchestrates a predict request: resolve the model family,
// load the artifact, build its input, invoke it, and shape the response.
// Every failure along the way becomes a fallback response; the engine never
// fails a request.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voltgrid/station-inference-service/internal/domain"
	"github.com/voltgrid/station-inference-service/internal/model"
	"github.com/voltgrid/station-inference-service/internal/observability"
)

// Fallback reasons, used as metric labels and event fields.
const (
	ReasonNotFound     = "not_found"
	ReasonLoadFailed   = "load_failed"
	ReasonInvokeFailed = "invoke_failed"
)

// ArtifactStore locates model artifacts.
type ArtifactStore interface {
	Resolve(modelPath string) string
	Exists(path string) bool
	List() ([]string, error)
	CheckAccessible() error
}

// ArtifactLoader reads and decodes an artifact file.
type ArtifactLoader interface {
	Load(path string) (any, error)
}

// Notifier publishes prediction events for downstream consumers.
type Notifier interface {
	PublishPrediction(ctx context.Context, event PredictionEvent) error
}

// PredictionEvent describes one served prediction.
type PredictionEvent struct {
	Model          string             `json:"model"`
	Family         domain.ModelFamily `json:"family"`
	Fallback       bool               `json:"fallback"`
	FallbackReason string             `json:"fallback_reason,omitempty"`
	DurationMs     float64            `json:"duration_ms"`
	PredictedAt    time.Time          `json:"predicted_at"`
}

// Engine dispatches predict requests to model artifacts with a fallback
// safety net. Artifacts load fresh per request; the engine holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	store         ArtifactStore
	loader        ArtifactLoader
	fallbackRules []domain.FallbackRule
	notifier      Notifier
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// New creates an Engine. A nil notifier disables event publishing; nil
// fallbackRules selects the built-in table.
func New(store ArtifactStore, loader ArtifactLoader, rules []domain.FallbackRule, notifier Notifier, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if rules == nil {
		rules = domain.DefaultFallbackRules()
	}
	return &Engine{
		store:         store,
		loader:        loader,
		fallbackRules: rules,
		notifier:      notifier,
		logger:        logger,
		metrics:       metrics,
	}
}

// CheckReadiness returns nil when the artifact store is reachable.
func (e *Engine) CheckReadiness(_ context.Context) error {
	return e.store.CheckAccessible()
}

// Models enumerates the available artifacts.
func (e *Engine) Models() ([]string, error) {
	return e.store.List()
}

// Predict runs the full dispatch for one request. It never returns an error:
// a missing, undecodable, or failing artifact yields a fallback result.
func (e *Engine) Predict(ctx context.Context, modelPath string, record domain.InputRecord) domain.PredictionResult {
	start := time.Now()
	family := domain.ClassifyModel(modelPath)
	path := e.store.Resolve(modelPath)

	result, reason := e.dispatch(path, family, record)
	if reason != "" {
		e.logger.Warn("falling back",
			"model", modelPath,
			"family", family,
			"reason", reason,
		)
		e.metrics.FallbacksTotal.WithLabelValues(reason).Inc()
		result = domain.FallbackWith(e.fallbackRules, modelPath, record)
	}

	outcome := "model"
	if result.Fallback {
		outcome = "fallback"
	}
	e.metrics.PredictionsTotal.WithLabelValues(string(family), outcome).Inc()
	e.metrics.PredictDuration.WithLabelValues(string(family)).Observe(time.Since(start).Seconds())

	e.publish(ctx, PredictionEvent{
		Model:          modelPath,
		Family:         family,
		Fallback:       result.Fallback,
		FallbackReason: reason,
		DurationMs:     float64(time.Since(start).Microseconds()) / 1000,
		PredictedAt:    start.UTC(),
	})

	return result
}

// dispatch walks the exists → load → invoke chain. A non-empty reason tells
// the caller to substitute a fallback result.
func (e *Engine) dispatch(path string, family domain.ModelFamily, record domain.InputRecord) (domain.PredictionResult, string) {
	if !e.store.Exists(path) {
		return domain.PredictionResult{}, ReasonNotFound
	}

	loadStart := time.Now()
	artifact, err := e.loader.Load(path)
	e.metrics.ModelLoadDuration.Observe(time.Since(loadStart).Seconds())
	if err != nil {
		e.logger.Warn("artifact load failed", "path", path, "error", err)
		return domain.PredictionResult{}, ReasonLoadFailed
	}
	e.logger.Debug("artifact loaded", "path", path, "family", family)

	result, err := e.invoke(artifact, family, record)
	if err != nil {
		e.logger.Warn("artifact invocation failed", "path", path, "family", family, "error", err)
		return domain.PredictionResult{}, ReasonInvokeFailed
	}
	return result, ""
}

// invoke branches on the model family, checking artifact capabilities with
// type assertions. Tabular artifacts lacking a predict capability are an
// invocation failure; recommender and llm artifacts lacking their capability
// degrade to static results instead.
func (e *Engine) invoke(artifact any, family domain.ModelFamily, record domain.InputRecord) (domain.PredictionResult, error) {
	switch family {
	case domain.FamilyRecommender:
		rec, ok := artifact.(model.Recommender)
		if !ok {
			return domain.StaticRecommenderResult(), nil
		}
		out, err := rec.Recommend(record.Stations(), record.UserContext())
		if err != nil {
			return domain.PredictionResult{}, err
		}
		return domain.PredictionResult{Recommendation: out}, nil

	case domain.FamilyLLM:
		gen, ok := artifact.(model.Generator)
		if !ok {
			return domain.StaticExplanationResult(), nil
		}
		prompt, promptCtx := record.Prompt()
		out, err := gen.Generate(prompt, promptCtx)
		if err != nil {
			return domain.PredictionResult{}, err
		}
		return domain.PredictionResult{Explanation: out}, nil

	default:
		return e.invokeTabular(artifact, family, record)
	}
}

func (e *Engine) invokeTabular(artifact any, family domain.ModelFamily, record domain.InputRecord) (domain.PredictionResult, error) {
	predictor, ok := artifact.(model.Predictor)
	if !ok {
		return domain.PredictionResult{}, fmt.Errorf("artifact has no predict capability")
	}

	features := domain.FeatureMatrix(record, family)
	e.logger.Debug("features built", "family", family, "feature_count", len(features[0]))

	predictions, err := predictor.Predict(features)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	result := domain.PredictionResult{}
	if len(predictions) == 1 {
		result.Prediction = predictions[0]
	} else {
		result.Prediction = predictions
	}

	if prob, ok := artifact.(model.ProbabilityPredictor); ok {
		rows, err := prob.PredictProba(features)
		if err != nil {
			return domain.PredictionResult{}, err
		}
		if len(rows) > 0 {
			result.Probabilities = rows[0]
		}
	}
	return result, nil
}

// publish hands the event to the notifier, if one is configured. Publish
// failures are logged and dropped; event delivery never affects the response.
func (e *Engine) publish(ctx context.Context, event PredictionEvent) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.PublishPrediction(ctx, event); err != nil {
		e.logger.Warn("publish prediction event failed", "model", event.Model, "error", err)
		return
	}
	e.metrics.EventsPublished.Inc()
}
