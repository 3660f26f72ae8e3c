package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	GeminiAPIKeyEnv = "GEMINI_API_KEY"
	OpenAIAPIKeyEnv = "OPENAI_API_KEY"
)

// Config stores all configuration of the application.
type Config struct {
	Provider     string `mapstructure:"provider"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ModelName    string `mapstructure:"model_name"`
	TellmURL     string `mapstructure:"tellm_url"`
	BatchID      string `mapstructure:"batch_id"`
	LogLevel     string `mapstructure:"log_level"`

	Generation Generation `mapstructure:"generation"`
}

// Generation holds the sampling defaults applied to every request.
type Generation struct {
	Temperature      float32 `mapstructure:"temperature"`
	TopP             float32 `mapstructure:"top_p"`
	TopK             float32 `mapstructure:"top_k"`
	MaxOutputTokens  int32   `mapstructure:"max_output_tokens"`
	CandidateCount   int32   `mapstructure:"candidate_count"`
	ResponseMIMEType string  `mapstructure:"response_mime_type"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Provider:  ProviderGemini,
		ModelName: "gemini-2.0-flash",
		LogLevel:  "info",
		Generation: Generation{
			Temperature:      0.3,
			TopP:             1,
			TopK:             20,
			MaxOutputTokens:  8192,
			CandidateCount:   1,
			ResponseMIMEType: "text/plain",
		},
	}
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetDefault("provider", config.Provider)
	v.SetDefault("model_name", config.ModelName)
	v.SetDefault("log_level", config.LogLevel)
	v.SetDefault("generation.temperature", config.Generation.Temperature)
	v.SetDefault("generation.top_p", config.Generation.TopP)
	v.SetDefault("generation.top_k", config.Generation.TopK)
	v.SetDefault("generation.max_output_tokens", config.Generation.MaxOutputTokens)
	v.SetDefault("generation.candidate_count", config.Generation.CandidateCount)
	v.SetDefault("generation.response_mime_type", config.Generation.ResponseMIMEType)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".llmutil"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; defaults and environment still apply
	}

	// Environment variables
	v.SetEnvPrefix("LLMUTIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("gemini_api_key", GeminiAPIKeyEnv)
	v.BindEnv("openai_api_key", OpenAIAPIKeyEnv)
	v.BindEnv("model_name", "LLMUTIL_MODEL")
	v.BindEnv("base_url")
	v.BindEnv("tellm_url")
	v.BindEnv("batch_id")

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))

	return config, nil
}

// Validate checks that the selected provider is known and has a credential.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return &ConfigError{Key: GeminiAPIKeyEnv, Err: ErrMissingCredential}
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return &ConfigError{Key: OpenAIAPIKeyEnv, Err: ErrMissingCredential}
		}
	default:
		return &ConfigError{Key: "provider", Err: fmt.Errorf("%w %q", ErrUnknownProvider, c.Provider)}
	}
	return nil
}

// APIKey returns the credential for the selected provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

var (
	// ErrMissingCredential reports an absent or blank API key.
	ErrMissingCredential = errors.New("credential not set")
	ErrUnknownProvider   = errors.New("unknown provider")
)

// ConfigError is returned when required configuration is missing or invalid.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// APIKeyFromEnv returns the value of the named environment variable. A missing
// or blank value is a ConfigError wrapping ErrMissingCredential.
func APIKeyFromEnv(name string) (string, error) {
	key, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(key) == "" {
		return "", &ConfigError{Key: name, Err: ErrMissingCredential}
	}
	return key, nil
}
