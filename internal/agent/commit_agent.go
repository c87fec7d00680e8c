package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitgen-go/internal/config"
	"github.com/huimingz/commitgen-go/internal/diff"
	"github.com/huimingz/commitgen-go/internal/git"
	"github.com/huimingz/commitgen-go/internal/llm"
	"github.com/huimingz/commitgen-go/internal/log"
	"github.com/huimingz/commitgen-go/internal/message"
	"github.com/huimingz/commitgen-go/internal/redact"
	"github.com/huimingz/commitgen-go/internal/tokenizer"
	"github.com/huimingz/commitgen-go/internal/ui"
)

// ErrNoStagedChanges is returned when there is nothing to describe.
var ErrNoStagedChanges = errors.New("no staged changes found")

// Indicator receives progress updates. *ui.StatusIndicator implements it.
type Indicator interface {
	Update(state ui.IndicatorState, message string)
}

type nopIndicator struct{}

func (nopIndicator) Update(ui.IndicatorState, string) {}

// CommitRequest represents a request to generate a commit message
type CommitRequest struct {
	// Diff is used instead of the staged diff when non-empty.
	Diff string
}

// PreparedPrompt is everything computed before the model is contacted.
type PreparedPrompt struct {
	Prompt           string
	Files            []string
	Template         string
	Sections         []diff.Section // redacted per-file sections
	InvalidPatterns  []string
	TemplateFallback bool
	Missing          []string // placeholders a rejected template lacked
	Truncated        bool
	DiffLength       int // redacted diff length in characters
	SentLength       int // diff length after truncation
}

// CommitResponse represents the generated commit message
type CommitResponse struct {
	Message          string
	Reply            string // raw model reply before normalization
	Files            []string
	InvalidPatterns  []string
	TemplateFallback bool
	Truncated        bool
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	UsageEstimated   bool // token counts come from the local tokenizer
}

// CommitAgentOptions contains configuration for CommitAgent
type CommitAgentOptions struct {
	GitExecutor git.Executor        // source of the staged diff
	LLMProvider llm.Provider        // required for GenerateCommitMessage only
	Indicator   Indicator           // optional
	Commit      *config.CommitConfig // defaults when nil
	Retry       *llm.RetryConfig    // defaults when nil
}

// Validate validates the options and sets defaults
func (o *CommitAgentOptions) Validate() error {
	if o.Commit == nil {
		o.Commit = config.DefaultCommitConfig()
	}
	if err := o.Commit.Validate(); err != nil {
		return err
	}
	if o.Retry == nil {
		retry := llm.DefaultRetryConfig()
		o.Retry = &retry
	}
	if o.Indicator == nil {
		o.Indicator = nopIndicator{}
	}
	return nil
}

// CommitAgent turns a staged diff into a commit message
type CommitAgent struct {
	opts CommitAgentOptions
}

// NewCommitAgent creates a new CommitAgent instance
func NewCommitAgent(opts CommitAgentOptions) (*CommitAgent, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &CommitAgent{opts: opts}, nil
}

// Prepare reads the diff and builds the prompt without contacting the model.
func (a *CommitAgent) Prepare(ctx context.Context, req CommitRequest) (*PreparedPrompt, error) {
	raw := req.Diff
	if raw == "" {
		if a.opts.GitExecutor == nil {
			return nil, fmt.Errorf("git executor is required when no diff is supplied")
		}
		var err error
		raw, err = a.opts.GitExecutor.DiffCached(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get staged changes: %w", err)
		}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoStagedChanges
	}

	commitCfg := a.opts.Commit
	files := diff.ExtractChangedFilePaths(raw)
	log.Debug("Changed files: %d", len(files))

	redacted := redact.Redact(raw, commitCfg.RedactionPatterns(redact.DefaultPatterns))
	if redacted.HasInvalidPatterns() {
		log.Warn("skipped invalid redaction patterns: %s", strings.Join(redacted.InvalidPatterns, ", "))
	}

	body, truncated := diff.TruncateWithInfo(redacted.Text, commitCfg.MaxDiffLength)
	diffLength := len([]rune(redacted.Text))
	sentLength := len([]rune(body))
	log.DebugSize("Diff", diffLength, sentLength)
	if truncated {
		log.Debug("Diff truncated to max_diff_length=%d", commitCfg.MaxDiffLength)
	}

	resolution := message.ResolveOutputTemplateDetailed(commitCfg.OutputTemplate)
	if resolution.Fallback {
		log.Warn("output template is missing %s, using the default template", strings.Join(resolution.Missing, ", "))
	}

	prompt := message.BuildPrompt(body, message.PromptOptions{
		CustomInstructions: commitCfg.Instructions,
		Files:              files,
		OutputTemplate:     resolution.Template,
	})

	return &PreparedPrompt{
		Prompt:           prompt,
		Files:            files,
		Template:         resolution.Template,
		Sections:         diff.SplitSections(redacted.Text),
		InvalidPatterns:  redacted.InvalidPatterns,
		TemplateFallback: resolution.Fallback,
		Missing:          resolution.Missing,
		Truncated:        truncated,
		DiffLength:       diffLength,
		SentLength:       sentLength,
	}, nil
}

// GenerateCommitMessage runs the full pipeline: configuration check, diff,
// redaction, truncation, prompt, model call and normalization.
func (a *CommitAgent) GenerateCommitMessage(ctx context.Context, req CommitRequest) (resp *CommitResponse, err error) {
	indicator := a.opts.Indicator
	indicator.Update(ui.StateLoading, "Generating commit message...")
	defer func() {
		if err != nil {
			indicator.Update(ui.StateFailure, err.Error())
		}
	}()

	if a.opts.LLMProvider == nil {
		return nil, &config.ConfigError{Field: "model", Message: "no LLM provider configured"}
	}
	modelCfg := a.opts.LLMProvider.GetConfig()
	if err := modelCfg.Validate(); err != nil {
		return nil, err
	}

	prepared, err := a.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	providerName := a.opts.LLMProvider.Name()
	log.Debug("Using LLM: provider=%s, model=%s", providerName, modelCfg.Model)
	if log.IsDebugMode() {
		log.Debug("Estimated prompt tokens: %d", tokenizer.CountTokens(prepared.Prompt, modelCfg.Model))
		log.DebugPrompt("Prompt", prepared.Prompt)
	}

	chatModel, err := a.opts.LLMProvider.CreateChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is nil (provider: %s)", providerName)
	}

	commitCfg := a.opts.Commit
	messages := []*schema.Message{schema.UserMessage(prepared.Prompt)}
	callOpts := []model.Option{
		model.WithTemperature(commitCfg.Temperature),
		model.WithMaxTokens(commitCfg.MaxTokens),
	}

	start := time.Now()
	reply, err := llm.WithRetryResult(ctx, *a.opts.Retry, func() (*schema.Message, error) {
		msg, err := chatModel.Generate(ctx, messages, callOpts...)
		return msg, llm.WrapNetworkError(modelCfg.BaseURL, err)
	})
	log.DebugDuration("LLM request", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to generate commit message: %w", err)
	}
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return nil, llm.ErrEmptyResponse
	}
	log.DebugPrompt("Reply", reply.Content)

	resp = &CommitResponse{
		Message:          message.Normalize(reply.Content, prepared.Files, prepared.Template),
		Reply:            reply.Content,
		Files:            prepared.Files,
		InvalidPatterns:  prepared.InvalidPatterns,
		TemplateFallback: prepared.TemplateFallback,
		Truncated:        prepared.Truncated,
	}

	if reply.ResponseMeta != nil && reply.ResponseMeta.Usage != nil {
		usage := reply.ResponseMeta.Usage
		resp.PromptTokens = usage.PromptTokens
		resp.CompletionTokens = usage.CompletionTokens
		resp.TotalTokens = usage.TotalTokens
	} else {
		resp.PromptTokens = tokenizer.CountTokens(prepared.Prompt, modelCfg.Model)
		resp.CompletionTokens = tokenizer.CountTokens(reply.Content, modelCfg.Model)
		resp.TotalTokens = resp.PromptTokens + resp.CompletionTokens
		resp.UsageEstimated = true
	}
	log.DebugTokenUsage(resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)

	indicator.Update(ui.StateSuccess, "Commit message generated")
	return resp, nil
}
