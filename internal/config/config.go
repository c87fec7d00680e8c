package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the working and home directories.
const FileName = ".commitgen.yaml"

// ModelEnvVar overrides default_model when set.
const ModelEnvVar = "COMMITGEN_MODEL"

// Supported providers
var supportedProviders = map[string]bool{
	"openai":   true,
	"deepseek": true,
	"ollama":   true,
	"gemini":   true,
	"grok":     true,
	"endpoint": true,
}

// SupportedProviders returns a sorted list of supported providers
func SupportedProviders() []string {
	providers := make([]string, 0, len(supportedProviders))
	for p := range supportedProviders {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// ConfigError is a configuration problem detected before any request is made.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func configErr(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Config represents the application configuration
type Config struct {
	DefaultModel string                 `yaml:"default_model" mapstructure:"default_model"`
	Models       map[string]ModelConfig `yaml:"models" mapstructure:"models"`
	Commit       *CommitConfig          `yaml:"commit,omitempty" mapstructure:"commit"`
	Retry        *RetryConfig           `yaml:"retry,omitempty" mapstructure:"retry"`
}

// CommitConfig holds the message generation settings
type CommitConfig struct {
	Instructions   string   `yaml:"instructions" mapstructure:"instructions"`       // replaces the built-in instruction text
	OutputTemplate string   `yaml:"output_template" mapstructure:"output_template"` // {title} {changes} {files}
	RedactPatterns []string `yaml:"redact_patterns" mapstructure:"redact_patterns"`
	RedactDisabled bool     `yaml:"redact_disabled" mapstructure:"redact_disabled"`
	MaxDiffLength  int      `yaml:"max_diff_length" mapstructure:"max_diff_length"` // in characters
	Temperature    float32  `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens      int      `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultCommitConfig returns the default commit configuration
func DefaultCommitConfig() *CommitConfig {
	return &CommitConfig{
		MaxDiffLength: 10000,
		Temperature:   0.7,
		MaxTokens:     500,
	}
}

// RedactionPatterns returns the patterns to apply. An unset list means
// defaults; redact_disabled turns redaction off entirely.
func (c *CommitConfig) RedactionPatterns(defaults []string) []string {
	if c.RedactDisabled {
		return nil
	}
	if c.RedactPatterns == nil {
		return defaults
	}
	return c.RedactPatterns
}

// Validate validates the commit configuration
func (c *CommitConfig) Validate() error {
	if c.MaxDiffLength < 0 {
		return configErr("commit.max_diff_length", "must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return configErr("commit.temperature", "must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return configErr("commit.max_tokens", "must be non-negative")
	}
	return nil
}

// RetryConfig represents the retry configuration
type RetryConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffBase float64 `yaml:"backoff_base" mapstructure:"backoff_base"` // in seconds
	BackoffMax  float64 `yaml:"backoff_max" mapstructure:"backoff_max"`   // in seconds
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Enabled:     true,
		MaxAttempts: 3,
		BackoffBase: 1.0,
		BackoffMax:  8.0,
	}
}

// Validate validates the retry configuration
func (r *RetryConfig) Validate() error {
	if r.MaxAttempts < 0 {
		return configErr("retry.max_attempts", "must be non-negative")
	}
	if r.BackoffBase < 0 {
		return configErr("retry.backoff_base", "must be non-negative")
	}
	if r.BackoffMax < r.BackoffBase {
		return configErr("retry.backoff_max", "must be greater than or equal to backoff_base")
	}
	return nil
}

// ModelConfig represents a single model configuration
type ModelConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Model    string `yaml:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout,omitempty" mapstructure:"timeout"` // in seconds
}

// TimeoutDuration returns the request timeout, zero meaning the provider default.
func (m *ModelConfig) TimeoutDuration() time.Duration {
	if m.Timeout <= 0 {
		return 0
	}
	return time.Duration(m.Timeout) * time.Second
}

// Validate validates the model configuration
func (m *ModelConfig) Validate() error {
	if m.Provider == "" {
		return configErr("provider", "is required")
	}
	if !supportedProviders[m.Provider] {
		return configErr("provider", "unsupported provider %q (supported: %s)", m.Provider, strings.Join(SupportedProviders(), ", "))
	}
	if m.Model == "" {
		return configErr("model", "is required")
	}
	// API key is required for all providers except ollama
	if m.Provider != "ollama" && m.APIKey == "" {
		return configErr("api_key", "is required for provider %s", m.Provider)
	}
	if m.Timeout < 0 {
		return configErr("timeout", "must be non-negative")
	}
	return nil
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return configErr("models", "no models configured")
	}

	if c.DefaultModel != "" {
		if _, ok := c.Models[c.DefaultModel]; !ok {
			return configErr("default_model", "model '%s' not found in models configuration", c.DefaultModel)
		}
	}

	for name, model := range c.Models {
		if err := model.Validate(); err != nil {
			return fmt.Errorf("invalid model '%s': %w", name, err)
		}
	}

	if c.Commit != nil {
		if err := c.Commit.Validate(); err != nil {
			return fmt.Errorf("invalid commit configuration: %w", err)
		}
	}

	if c.Retry != nil {
		if err := c.Retry.Validate(); err != nil {
			return fmt.Errorf("invalid retry configuration: %w", err)
		}
	}

	return nil
}

// GetModel returns the model configuration by name
// Priority: parameter > env variable (COMMITGEN_MODEL) > default_model
func (c *Config) GetModel(modelName string) (*ModelConfig, error) {
	if modelName == "" {
		modelName = os.Getenv(ModelEnvVar)
	}

	if modelName == "" {
		modelName = c.DefaultModel
	}

	if modelName == "" {
		return nil, configErr("default_model", "no model specified and no default model configured")
	}

	model, ok := c.Models[modelName]
	if !ok {
		return nil, configErr("models", "model '%s' not found in configuration", modelName)
	}

	// Expand environment variables in API key
	model.APIKey = expandEnv(model.APIKey)

	return &model, nil
}

// GetCommitConfig returns the commit configuration with defaults applied
func (c *Config) GetCommitConfig() *CommitConfig {
	if c.Commit == nil {
		return DefaultCommitConfig()
	}
	defaults := DefaultCommitConfig()
	if c.Commit.MaxDiffLength <= 0 {
		c.Commit.MaxDiffLength = defaults.MaxDiffLength
	}
	if c.Commit.Temperature <= 0 {
		c.Commit.Temperature = defaults.Temperature
	}
	if c.Commit.MaxTokens <= 0 {
		c.Commit.MaxTokens = defaults.MaxTokens
	}
	return c.Commit
}

// GetRetryConfig returns the retry configuration with defaults applied
func (c *Config) GetRetryConfig() *RetryConfig {
	if c.Retry == nil {
		return DefaultRetryConfig()
	}
	defaults := DefaultRetryConfig()
	if c.Retry.MaxAttempts < 0 {
		c.Retry.MaxAttempts = defaults.MaxAttempts
	}
	if c.Retry.BackoffBase < 0 {
		c.Retry.BackoffBase = defaults.BackoffBase
	}
	if c.Retry.BackoffMax < 0 {
		c.Retry.BackoffMax = defaults.BackoffMax
	}
	return c.Retry
}

// Masked returns a copy of the configuration with API keys hidden, for display.
func (c *Config) Masked() *Config {
	out := *c
	out.Models = make(map[string]ModelConfig, len(c.Models))
	for name, m := range c.Models {
		m.APIKey = MaskSecret(m.APIKey)
		out.Models[name] = m
	}
	return &out
}

// MaskSecret keeps environment references readable and hides literal keys.
func MaskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "$"):
		return s
	case len(s) <= 8:
		return "****"
	default:
		return s[:4] + "****" + s[len(s)-4:]
	}
}

// expandEnv expands environment variables in the format ${VAR} or $VAR
func expandEnv(s string) string {
	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		envName := s[2 : len(s)-1]
		return os.Getenv(envName)
	}
	// Handle $VAR format
	if strings.HasPrefix(s, "$") {
		envName := s[1:]
		return os.Getenv(envName)
	}
	return s
}

// LoadFromFile loads configuration from a file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// HomePath returns ~/.commitgen.yaml
func HomePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, FileName), nil
}

// Load loads configuration with the following priority:
// 1. Custom path if provided
// 2. Current directory .commitgen.yaml
// 3. Home directory ~/.commitgen.yaml
func Load(customPath string) (*Config, error) {
	if customPath != "" {
		return LoadFromFile(customPath)
	}

	if cfg, err := LoadFromFile(FileName); err == nil {
		return cfg, nil
	}

	homeCfgPath, err := HomePath()
	if err != nil {
		return nil, err
	}
	if cfg, err := LoadFromFile(homeCfgPath); err == nil {
		return cfg, nil
	}

	return nil, fmt.Errorf("no configuration file found. Run 'commitgen init' to create one")
}
