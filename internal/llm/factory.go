package llm

import (
	"fmt"

	"github.com/huimingz/commitgen-go/internal/config"
)

// ProviderFactory creates LLM providers based on configuration
type ProviderFactory struct {
	endpointOpts []EndpointOption
}

// NewProviderFactory creates a new ProviderFactory. Options are passed to
// endpoint providers it creates.
func NewProviderFactory(opts ...EndpointOption) *ProviderFactory {
	return &ProviderFactory{endpointOpts: opts}
}

// Create creates a Provider based on the model configuration
func (f *ProviderFactory) Create(cfg config.ModelConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "deepseek", "ollama", "grok":
		return NewOpenAICompatibleProvider(cfg.Provider, cfg), nil
	case "gemini":
		return NewGeminiProvider(cfg), nil
	case "endpoint":
		return NewEndpointProvider(cfg, f.endpointOpts...), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// CreateFromConfig creates a Provider from application config by model name
func (f *ProviderFactory) CreateFromConfig(appCfg *config.Config, modelName string) (Provider, error) {
	modelCfg, err := appCfg.GetModel(modelName)
	if err != nil {
		return nil, err
	}
	return f.Create(*modelCfg)
}
