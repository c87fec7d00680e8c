package llm

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/huimingz/commitgen-go/internal/config"
)

// Default API base URLs for OpenAI-compatible providers.
const (
	DeepseekDefaultBaseURL = "https://api.deepseek.com/v1"
	OllamaDefaultBaseURL   = "http://localhost:11434/v1"
	GrokDefaultBaseURL     = "https://api.x.ai/v1"
)

// compatibleDefaults holds per-provider defaults for OpenAI-compatible APIs.
var compatibleDefaults = map[string]struct {
	baseURL string
	apiKey  string
}{
	"openai":   {},
	"deepseek": {baseURL: DeepseekDefaultBaseURL},
	"ollama":   {baseURL: OllamaDefaultBaseURL, apiKey: "ollama"}, // ollama ignores the key but the client requires one
	"grok":     {baseURL: GrokDefaultBaseURL},
}

// OpenAICompatibleProvider implements Provider for OpenAI and every service
// that speaks its chat-completions API (Deepseek, Ollama, Grok).
type OpenAICompatibleProvider struct {
	name string
	cfg  config.ModelConfig
}

// NewOpenAICompatibleProvider creates a provider named name, filling the
// provider's default base URL and API key when the config leaves them empty.
func NewOpenAICompatibleProvider(name string, cfg config.ModelConfig) *OpenAICompatibleProvider {
	defaults := compatibleDefaults[name]
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.baseURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = defaults.apiKey
	}
	return &OpenAICompatibleProvider{name: name, cfg: cfg}
}

// Name returns the provider name
func (p *OpenAICompatibleProvider) Name() string {
	return p.name
}

// GetConfig returns the model configuration
func (p *OpenAICompatibleProvider) GetConfig() config.ModelConfig {
	return p.cfg
}

// CreateChatModel creates an Eino ChatModel against the provider's base URL
func (p *OpenAICompatibleProvider) CreateChatModel(ctx context.Context) (model.ChatModel, error) {
	cfg := &openai.ChatModelConfig{
		APIKey:  p.cfg.APIKey,
		Model:   p.cfg.Model,
		BaseURL: p.cfg.BaseURL,
	}
	if p.cfg.Timeout > 0 {
		cfg.Timeout = p.cfg.TimeoutDuration()
	}

	return openai.NewChatModel(ctx, cfg)
}
