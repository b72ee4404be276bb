package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// InputRecord is a loosely-structured station state snapshot as received from
// the client. Keys may be snake_case or camelCase; values may be numbers,
// strings, booleans, or nested objects/arrays.
type InputRecord map[string]any

// floatField resolves the first present key that coerces to a float.
// Missing and uncoercible values fall through to the default.
func (r InputRecord) floatField(def float64, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if f, ok := coerceFloat(v); ok {
				return f
			}
		}
	}
	return def
}

// stringField resolves the first present key holding a non-empty string.
func (r InputRecord) stringField(def string, keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return def
}

// Time resolves the record timestamp. An ISO-8601 "timestamp" value is used
// when present and parseable; everything else falls back to the current time.
func (r InputRecord) Time() time.Time {
	s, ok := r["timestamp"].(string)
	if !ok || s == "" {
		return clock.Now()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return clock.Now()
}

// QueueLength resolves the queue depth with its full alias chain.
func (r InputRecord) QueueLength() float64 {
	return r.floatField(5, "current_queue", "currentQueue", "queue_length")
}

// Stations returns the candidate station list for recommender requests,
// defaulting to a singleton list containing the record itself.
func (r InputRecord) Stations() []any {
	if v, ok := r["stations"].([]any); ok && len(v) > 0 {
		return v
	}
	return []any{map[string]any(r)}
}

// UserContext returns the recommender user context, which may be absent.
func (r InputRecord) UserContext() any {
	return r["user_context"]
}

// Prompt returns the llm prompt and context strings.
func (r InputRecord) Prompt() (prompt, context string) {
	return r.stringField("", "prompt"), r.stringField("", "context")
}

// coerceFloat converts scalar JSON values to float64. Nested objects, arrays,
// and unparseable strings report false so callers degrade to defaults.
func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
