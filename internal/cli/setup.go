package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/huimingz/commitgen-go/internal/agent"
	"github.com/huimingz/commitgen-go/internal/config"
	"github.com/huimingz/commitgen-go/internal/git"
	"github.com/huimingz/commitgen-go/internal/llm"
	"github.com/huimingz/commitgen-go/internal/log"
)

// loadConfig loads and validates the configuration file
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.DebugConfig("Configuration", cfg.Masked())
	return cfg, nil
}

// readDiffInput reads a diff from path, or from stdin when path is "-".
// An empty path means the staged diff is used.
func readDiffInput(path string, stdin io.Reader) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read diff from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read diff file: %w", err)
		}
		return string(data), nil
	}
}

// agentDeps are the collaborators shared by commit and preview
type agentDeps struct {
	cfg      *config.Config
	modelCfg *config.ModelConfig
	executor *git.DefaultExecutor
}

func newAgentDeps(cfg *config.Config) (*agentDeps, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	deps := &agentDeps{cfg: cfg, executor: git.NewExecutor(cwd)}
	if len(cfg.Models) > 0 {
		modelCfg, err := cfg.GetModel(modelName)
		if err != nil {
			return nil, err
		}
		deps.modelCfg = modelCfg
	}
	return deps, nil
}

// newCommitAgent builds a CommitAgent. The provider is created only when
// withProvider is set, so preview never needs credentials.
func (d *agentDeps) newCommitAgent(indicator agent.Indicator, withProvider bool) (*agent.CommitAgent, error) {
	retry := llm.RetryConfigFrom(d.cfg.GetRetryConfig())
	opts := agent.CommitAgentOptions{
		GitExecutor: d.executor,
		Indicator:   indicator,
		Commit:      d.cfg.GetCommitConfig(),
		Retry:       &retry,
	}

	if withProvider {
		if d.modelCfg == nil {
			return nil, &config.ConfigError{Field: "models", Message: "no models configured"}
		}
		provider, err := llm.NewProviderFactory().Create(*d.modelCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		log.Debug("Using model: %s (provider: %s)", d.modelCfg.Model, d.modelCfg.Provider)
		opts.LLMProvider = provider
	}

	commitAgent, err := agent.NewCommitAgent(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create commit agent: %w", err)
	}
	return commitAgent, nil
}

// transportHint suggests a next step for endpoint failures the user can fix
// in the configuration. It returns "" when there is nothing specific to say.
func transportHint(err error) string {
	switch {
	case llm.IsTransportKind(err, llm.KindContentType):
		return "The endpoint did not return JSON. Check base_url, or whether a proxy or login page is intercepting the request."
	case llm.IsTransportKind(err, llm.KindDecode):
		return "The endpoint response is not a chat-completions body. Check that base_url points at a /chat/completions URL."
	case llm.IsTransportKind(err, llm.KindNetwork):
		return "The endpoint could not be reached. Check base_url and your network connection."
	}

	var te *llm.TransportError
	if errors.As(err, &te) && te.Kind == llm.KindHTTPStatus && (te.StatusCode == http.StatusUnauthorized || te.StatusCode == http.StatusForbidden) {
		return "The endpoint rejected the credentials. Check api_key."
	}
	return ""
}

func printStageHint(w io.Writer) {
	fmt.Fprintln(w, "No staged changes found.")
	fmt.Fprintln(w, "\nTo stage changes, use:")
	fmt.Fprintln(w, "  git add <file>")
	fmt.Fprintln(w, "  git add -A")
}
