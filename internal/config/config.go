package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	ModelsDir       string
	ModelSuffixes   []string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// FallbackRulesPath points at a YAML rule table overriding the built-in
	// fallback predictions. Empty means built-in.
	FallbackRulesPath string

	// Prediction-event publishing configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	brokers := parseList(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ModelsDir:       envOrDefault("MODELS_DIR", "models"),
		ModelSuffixes:   parseList(envOrDefault("MODEL_SUFFIXES", ".pkl,.json,.gob")),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FallbackRulesPath: os.Getenv("FALLBACK_RULES_PATH"),

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "prediction-events"),
		KafkaEnabled: kafkaEnabled,
	}

	if cfg.ModelsDir == "" {
		return nil, errors.New("MODELS_DIR is required")
	}
	if len(cfg.ModelSuffixes) == 0 {
		return nil, errors.New("MODEL_SUFFIXES must name at least one suffix")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

// parseList splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
