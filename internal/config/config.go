package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that take precedence over the file.
const (
	EnvCatalogFile = "DATABASE_FILE"
	EnvLogLevel    = "RECOMMENDER_LOG_LEVEL"
)

// CatalogConfig locates the product catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
	MaxRetries     int    `yaml:"max_retries"`
	DocumentPrefix string `yaml:"document_prefix,omitempty"`
	QueryPrefix    string `yaml:"query_prefix,omitempty"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// OpenAIGeneratorConfig holds configuration for the chat completions client.
type OpenAIGeneratorConfig struct {
	BaseURL      string   `yaml:"base_url"`
	APIKeyEnv    string   `yaml:"api_key_env"`
	Model        string   `yaml:"model"`
	TimeoutSecs  int      `yaml:"timeout_secs"`
	MaxRetries   int      `yaml:"max_retries"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
	SystemPrompt string   `yaml:"system_prompt,omitempty"`
}

// GeneratorConfig selects and configures the reply generator.
type GeneratorConfig struct {
	Type   string                 `yaml:"type"`
	OpenAI *OpenAIGeneratorConfig `yaml:"openai,omitempty"`
}

// RetrievalConfig holds the candidate resolution policy.
// A nil Threshold is unset; an explicit 0 keeps every non-negative score.
type RetrievalConfig struct {
	Threshold    *float64 `yaml:"threshold,omitempty"`
	FallbackTopK int      `yaml:"fallback_top_k"`
	MaxGrounded  int      `yaml:"max_grounded"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives logs in chat mode, where stderr belongs to the terminal UI.
	File string `yaml:"file,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/recommender/config.yaml.
// If neither exists, it writes defaults to ~/.config/recommender/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "recommender", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Catalog:   CatalogConfig{Path: "products.json"},
		Embedder:  EmbedderConfig{Type: "tfidf"},
		Generator: GeneratorConfig{Type: "openai", OpenAI: &OpenAIGeneratorConfig{}},
		Log:       LogConfig{Level: "info", Format: "console"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "products.json"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "openai"
	}
	if cfg.Generator.Type == "openai" {
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &OpenAIGeneratorConfig{}
		}
		if cfg.Generator.OpenAI.BaseURL == "" {
			cfg.Generator.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Generator.OpenAI.APIKeyEnv == "" {
			cfg.Generator.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Generator.OpenAI.Model == "" {
			cfg.Generator.OpenAI.Model = "gpt-4o-mini"
		}
		if cfg.Generator.OpenAI.TimeoutSecs == 0 {
			cfg.Generator.OpenAI.TimeoutSecs = 60
		}
	}
	if cfg.Retrieval.Threshold == nil {
		v := 0.55
		cfg.Retrieval.Threshold = &v
	}
	if cfg.Retrieval.FallbackTopK == 0 {
		cfg.Retrieval.FallbackTopK = 5
	}
	if cfg.Retrieval.MaxGrounded == 0 {
		cfg.Retrieval.MaxGrounded = 3
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvCatalogFile)); v != "" {
		cfg.Catalog.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
}
