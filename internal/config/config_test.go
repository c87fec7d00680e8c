package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    ModelConfig
		wantErr   bool
		wantField string
		errMsg    string
	}{
		{
			name: "valid openai config",
			config: ModelConfig{
				Provider: "openai",
				APIKey:   "sk-xxx",
				Model:    "gpt-4o",
			},
		},
		{
			name: "valid endpoint config",
			config: ModelConfig{
				Provider: "endpoint",
				APIKey:   "sk-xxx",
				Model:    "gpt-4o-mini",
				BaseURL:  "https://gateway.local/v1/chat/completions",
				Timeout:  30,
			},
		},
		{
			name: "valid ollama config without api key",
			config: ModelConfig{
				Provider: "ollama",
				Model:    "qwen2.5:14b",
				BaseURL:  "http://localhost:11434/v1",
			},
		},
		{
			name: "missing provider",
			config: ModelConfig{
				APIKey: "sk-xxx",
				Model:  "gpt-4o",
			},
			wantErr:   true,
			wantField: "provider",
			errMsg:    "is required",
		},
		{
			name: "invalid provider",
			config: ModelConfig{
				Provider: "invalid",
				APIKey:   "sk-xxx",
				Model:    "gpt-4o",
			},
			wantErr:   true,
			wantField: "provider",
			errMsg:    "unsupported provider",
		},
		{
			name: "missing model",
			config: ModelConfig{
				Provider: "openai",
				APIKey:   "sk-xxx",
			},
			wantErr:   true,
			wantField: "model",
			errMsg:    "is required",
		},
		{
			name: "missing api key for endpoint",
			config: ModelConfig{
				Provider: "endpoint",
				Model:    "gpt-4o",
			},
			wantErr:   true,
			wantField: "api_key",
			errMsg:    "is required for provider endpoint",
		},
		{
			name: "negative timeout",
			config: ModelConfig{
				Provider: "ollama",
				Model:    "llama3.2",
				Timeout:  -1,
			},
			wantErr:   true,
			wantField: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestModelConfig_TimeoutDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&ModelConfig{}).TimeoutDuration())
	assert.Equal(t, 45*time.Second, (&ModelConfig{Timeout: 45}).TimeoutDuration())
}

func TestConfigError_Error(t *testing.T) {
	assert.Equal(t, "configuration error: api_key: is required", (&ConfigError{Field: "api_key", Message: "is required"}).Error())
	assert.Equal(t, "configuration error: bad", (&ConfigError{Message: "bad"}).Error())
}

func TestConfig_GetModel(t *testing.T) {
	cfg := &Config{
		DefaultModel: "deepseek",
		Models: map[string]ModelConfig{
			"deepseek": {
				Provider: "deepseek",
				APIKey:   "sk-deepseek",
				Model:    "deepseek-chat",
			},
			"gpt4": {
				Provider: "openai",
				APIKey:   "sk-openai",
				Model:    "gpt-4o",
			},
		},
	}

	t.Run("get existing model", func(t *testing.T) {
		model, err := cfg.GetModel("gpt4")
		require.NoError(t, err)
		assert.Equal(t, "openai", model.Provider)
		assert.Equal(t, "gpt-4o", model.Model)
	})

	t.Run("get default model when empty name", func(t *testing.T) {
		model, err := cfg.GetModel("")
		require.NoError(t, err)
		assert.Equal(t, "deepseek", model.Provider)
	})

	t.Run("get non-existing model", func(t *testing.T) {
		_, err := cfg.GetModel("nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		var cfgErr *ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("no default configured", func(t *testing.T) {
		_, err := (&Config{Models: cfg.Models}).GetModel("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no model specified")
	})
}

func TestConfig_GetModelWithEnvOverride(t *testing.T) {
	cfg := &Config{
		DefaultModel: "deepseek",
		Models: map[string]ModelConfig{
			"deepseek": {Provider: "deepseek", APIKey: "sk-deepseek", Model: "deepseek-chat"},
			"gpt4":     {Provider: "openai", APIKey: "sk-openai", Model: "gpt-4o"},
		},
	}

	t.Run("env variable overrides default", func(t *testing.T) {
		t.Setenv(ModelEnvVar, "gpt4")

		model, err := cfg.GetModel("")
		require.NoError(t, err)
		assert.Equal(t, "openai", model.Provider)
	})

	t.Run("explicit name overrides env", func(t *testing.T) {
		t.Setenv(ModelEnvVar, "gpt4")

		model, err := cfg.GetModel("deepseek")
		require.NoError(t, err)
		assert.Equal(t, "deepseek", model.Provider)
	})
}

func TestConfig_ExpandEnvInAPIKey(t *testing.T) {
	t.Setenv("TEST_API_KEY", "my-secret-key")

	cfg := &Config{
		Models: map[string]ModelConfig{
			"braces": {Provider: "openai", APIKey: "${TEST_API_KEY}", Model: "gpt-4o"},
			"dollar": {Provider: "openai", APIKey: "$TEST_API_KEY", Model: "gpt-4o"},
			"plain":  {Provider: "openai", APIKey: "sk-literal", Model: "gpt-4o"},
		},
	}

	for name, want := range map[string]string{"braces": "my-secret-key", "dollar": "my-secret-key", "plain": "sk-literal"} {
		model, err := cfg.GetModel(name)
		require.NoError(t, err)
		assert.Equal(t, want, model.APIKey, name)
	}

	// the stored configuration is left untouched
	assert.Equal(t, "${TEST_API_KEY}", cfg.Models["braces"].APIKey)
}

func TestConfig_GetCommitConfig(t *testing.T) {
	t.Run("defaults when absent", func(t *testing.T) {
		commit := (&Config{}).GetCommitConfig()
		assert.Equal(t, 10000, commit.MaxDiffLength)
		assert.InDelta(t, 0.7, commit.Temperature, 0.0001)
		assert.Equal(t, 500, commit.MaxTokens)
		assert.Empty(t, commit.OutputTemplate)
	})

	t.Run("fills unset values", func(t *testing.T) {
		cfg := &Config{Commit: &CommitConfig{MaxDiffLength: 2000, OutputTemplate: "{title}"}}
		commit := cfg.GetCommitConfig()
		assert.Equal(t, 2000, commit.MaxDiffLength)
		assert.Equal(t, 500, commit.MaxTokens)
		assert.Equal(t, "{title}", commit.OutputTemplate)
	})
}

func TestCommitConfig_RedactionPatterns(t *testing.T) {
	defaults := []string{"sk-[A-Za-z0-9]{20,}"}

	tests := []struct {
		name   string
		commit CommitConfig
		want   []string
	}{
		{name: "unset uses defaults", commit: CommitConfig{}, want: defaults},
		{name: "explicit list", commit: CommitConfig{RedactPatterns: []string{"secret"}}, want: []string{"secret"}},
		{name: "explicit empty list", commit: CommitConfig{RedactPatterns: []string{}}, want: []string{}},
		{name: "disabled", commit: CommitConfig{RedactPatterns: []string{"secret"}, RedactDisabled: true}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.commit.RedactionPatterns(defaults))
		})
	}
}

func TestCommitConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultCommitConfig().Validate())
	assert.Error(t, (&CommitConfig{MaxDiffLength: -1}).Validate())
	assert.Error(t, (&CommitConfig{Temperature: 3}).Validate())
	assert.Error(t, (&CommitConfig{MaxTokens: -5}).Validate())
}

func TestRetryConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultRetryConfig().Validate())
	assert.Error(t, (&RetryConfig{MaxAttempts: -1}).Validate())
	assert.Error(t, (&RetryConfig{BackoffBase: 4, BackoffMax: 2}).Validate())
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	configContent := `
default_model: deepseek
models:
  deepseek:
    provider: deepseek
    api_key: sk-test
    model: deepseek-chat
  gateway:
    provider: endpoint
    api_key: ${GATEWAY_KEY}
    model: gpt-4o-mini
    base_url: https://gateway.local/v1/chat/completions
    timeout: 20
commit:
  output_template: "{title}\n\n{changes}"
  redact_patterns:
    - "internal-[0-9]+"
  max_diff_length: 4000
retry:
  enabled: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "deepseek", cfg.DefaultModel)
	assert.Len(t, cfg.Models, 2)

	gateway, ok := cfg.Models["gateway"]
	require.True(t, ok)
	assert.Equal(t, "endpoint", gateway.Provider)
	assert.Equal(t, 20, gateway.Timeout)

	require.NotNil(t, cfg.Commit)
	assert.Equal(t, "{title}\n\n{changes}", cfg.Commit.OutputTemplate)
	assert.Equal(t, []string{"internal-[0-9]+"}, cfg.Commit.RedactPatterns)
	assert.Equal(t, 4000, cfg.GetCommitConfig().MaxDiffLength)

	require.NotNil(t, cfg.Retry)
	assert.False(t, cfg.Retry.Enabled)
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/.commitgen.yaml")
	assert.Error(t, err)
}

func TestLoad_CustomPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("default_model: local\nmodels:\n  local:\n    provider: ollama\n    model: llama3.2\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.DefaultModel)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := map[string]ModelConfig{
		"deepseek": {Provider: "deepseek", APIKey: "sk-test", Model: "deepseek-chat"},
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := &Config{DefaultModel: "deepseek", Models: valid}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("no models configured", func(t *testing.T) {
		cfg := &Config{DefaultModel: "deepseek", Models: map[string]ModelConfig{}}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no models configured")
	})

	t.Run("default model not found", func(t *testing.T) {
		cfg := &Config{DefaultModel: "nonexistent", Models: valid}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default_model")
	})

	t.Run("invalid model config is a ConfigError", func(t *testing.T) {
		cfg := &Config{Models: map[string]ModelConfig{
			"bad": {Provider: "invalid-provider", APIKey: "sk-test", Model: "x"},
		}}
		err := cfg.Validate()
		require.Error(t, err)
		var cfgErr *ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("invalid commit config", func(t *testing.T) {
		cfg := &Config{Models: valid, Commit: &CommitConfig{MaxTokens: -1}}
		assert.Error(t, cfg.Validate())
	})
}

func TestSupportedProviders(t *testing.T) {
	assert.Equal(t, []string{"deepseek", "endpoint", "gemini", "grok", "ollama", "openai"}, SupportedProviders())
}

func TestMasked(t *testing.T) {
	cfg := &Config{
		Models: map[string]ModelConfig{
			"a": {Provider: "openai", APIKey: "sk-abcdefghijklmnop", Model: "gpt-4o"},
			"b": {Provider: "openai", APIKey: "${OPENAI_API_KEY}", Model: "gpt-4o"},
			"c": {Provider: "openai", APIKey: "short", Model: "gpt-4o"},
		},
	}

	masked := cfg.Masked()
	assert.Equal(t, "sk-a****mnop", masked.Models["a"].APIKey)
	assert.Equal(t, "${OPENAI_API_KEY}", masked.Models["b"].APIKey)
	assert.Equal(t, "****", masked.Models["c"].APIKey)
	assert.Equal(t, "sk-abcdefghijklmnop", cfg.Models["a"].APIKey)
}
