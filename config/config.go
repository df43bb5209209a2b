// Package config provides configuration for the backend.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Backend identifiers for the AI_BACKEND setting.
const (
	BackendOllama           = "ollama"
	BackendOpenAICompatible = "openai_compatible"
)

// Config holds the backend configuration.
type Config struct {
	// Provider selection
	AIBackend string `envconfig:"AI_BACKEND" default:"ollama"`

	// Ollama settings
	OllamaURL         string `envconfig:"OLLAMA_URL" default:"http://localhost:11434/api/generate"`
	OllamaModel       string `envconfig:"OLLAMA_MODEL" default:"llama3.1:8b"`
	OllamaVisionModel string `envconfig:"OLLAMA_VISION_MODEL" default:"llava:13b"`

	// OpenAI-compatible settings
	OpenAIBaseURL     string `envconfig:"OPENAI_BASE_URL" default:"http://localhost:1234/v1"`
	OpenAIAPIKey      string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel       string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIVisionModel string `envconfig:"OPENAI_VISION_MODEL" default:"gpt-4o"`

	// Server settings
	APIKey string `envconfig:"API_KEY" default:"local-dev-key"`
	Host   string `envconfig:"HOST" default:"127.0.0.1"`
	Port   int    `envconfig:"PORT" default:"8000"`

	// Generation settings
	QuestionDomain string `envconfig:"QUESTION_DOMAIN"`
	NotesPath      string `envconfig:"NOTES_PATH"`
	VisionEnabled  bool   `envconfig:"VISION_ENABLED" default:"false"`
	HistoryLimit   int    `envconfig:"HISTORY_LIMIT" default:"5"`

	// Paths
	DataDir    string `envconfig:"DATA_DIR" default:"data"`
	PromptsDir string `envconfig:"PROMPTS_DIR" default:"prompts"`

	// Upstream timeouts
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"30s"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"120s"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load loads configuration from a .env file (when present) and the
// environment. Environment variables win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.AIBackend = strings.ToLower(strings.TrimSpace(cfg.AIBackend))
	if cfg.AIBackend != BackendOllama && cfg.AIBackend != BackendOpenAICompatible {
		return nil, fmt.Errorf("AI_BACKEND must be %q or %q, got %q", BackendOllama, BackendOpenAICompatible, cfg.AIBackend)
	}

	cfg.QuestionDomain = strings.TrimSpace(cfg.QuestionDomain)
	cfg.NotesPath = strings.TrimSpace(cfg.NotesPath)

	return &cfg, nil
}

// Model returns the default model for the configured backend.
func (c *Config) Model() string {
	if c.AIBackend == BackendOpenAICompatible {
		return c.OpenAIModel
	}
	return c.OllamaModel
}

// VisionModel returns the vision-capable model for the configured backend.
func (c *Config) VisionModel() string {
	if c.AIBackend == BackendOpenAICompatible {
		return c.OpenAIVisionModel
	}
	return c.OllamaVisionModel
}
