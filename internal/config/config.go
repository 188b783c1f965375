// Package config loads runtime configuration from the environment, with an
// optional YAML overlay for engine timeouts and rate limits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort           string
	WorkerMetricsPort string
	LogLevel          string

	NATSURL     string
	NATSSubject string

	OpenAIBaseURL     string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIVisionModel string

	HFInferenceURL  string
	HFToken         string
	HFZeroShotModel string
	HFNERModel      string

	DocAIProjectID       string
	DocAILocation        string
	DocAIProcessorID     string
	DocAICredentialsFile string

	PreferLocal bool

	FetchTimeout    time.Duration
	RequestsPerSec  float64
	RequestsBurst   int
	VisionPerMinute int

	// EngineTimeouts overrides the per-engine OCR deadline, keyed by engine id.
	EngineTimeouts map[string]time.Duration
}

// Overlay is the optional YAML file referenced by PIPELINE_CONFIG_FILE. It
// only carries tuning knobs that are awkward as flat env vars.
type Overlay struct {
	EngineTimeoutsSeconds map[string]int `yaml:"engine_timeouts_seconds"`
	RequestsPerSec        float64        `yaml:"requests_per_sec"`
	RequestsBurst         int            `yaml:"requests_burst"`
}

func Load() (Config, error) {
	cfg := Config{
		APIPort:           mustEnv("API_PORT", "8080"),
		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
		LogLevel:          mustEnv("LOG_LEVEL", "info"),

		NATSURL:     mustEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubject: mustEnv("NATS_SUBJECT", "documents.process"),

		OpenAIBaseURL:     mustEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:      mustEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       mustEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIVisionModel: mustEnv("OPENAI_VISION_MODEL", "gpt-4o"),

		HFInferenceURL:  mustEnv("HF_INFERENCE_URL", "https://api-inference.huggingface.co"),
		HFToken:         mustEnv("HF_TOKEN", ""),
		HFZeroShotModel: mustEnv("HF_ZERO_SHOT_MODEL", "facebook/bart-large-mnli"),
		HFNERModel:      mustEnv("HF_NER_MODEL", "Davlan/bert-base-multilingual-cased-ner-hrl"),

		DocAIProjectID:       mustEnv("DOCAI_PROJECT_ID", ""),
		DocAILocation:        mustEnv("DOCAI_LOCATION", "eu"),
		DocAIProcessorID:     mustEnv("DOCAI_PROCESSOR_ID", ""),
		DocAICredentialsFile: mustEnv("DOCAI_CREDENTIALS_FILE", ""),

		PreferLocal: mustEnvBool("PIPELINE_PREFER_LOCAL", false),

		FetchTimeout:    mustEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		RequestsPerSec:  10,
		RequestsBurst:   20,
		VisionPerMinute: mustEnvInt("VISION_REQUESTS_PER_MINUTE", 30),

		EngineTimeouts: map[string]time.Duration{},
	}

	if path := os.Getenv("PIPELINE_CONFIG_FILE"); path != "" {
		if err := applyOverlay(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func applyOverlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	for engine, seconds := range overlay.EngineTimeoutsSeconds {
		if seconds > 0 {
			cfg.EngineTimeouts[engine] = time.Duration(seconds) * time.Second
		}
	}
	if overlay.RequestsPerSec > 0 {
		cfg.RequestsPerSec = overlay.RequestsPerSec
	}
	if overlay.RequestsBurst > 0 {
		cfg.RequestsBurst = overlay.RequestsBurst
	}
	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
