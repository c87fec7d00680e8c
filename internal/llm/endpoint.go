package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitgen-go/internal/config"
	"github.com/huimingz/commitgen-go/internal/log"
)

const (
	// EndpointDefaultURL is the chat-completions URL used when base_url is empty.
	EndpointDefaultURL = "https://api.openai.com/v1/chat/completions"

	defaultEndpointTimeout = 60 * time.Second
)

// HTTPClient is the subset of *http.Client used by the endpoint provider.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// EndpointProvider talks to any chat-completions URL directly. Unlike the
// SDK-backed providers it reports every failure as a TransportError.
type EndpointProvider struct {
	cfg    config.ModelConfig
	client HTTPClient
}

// EndpointOption configures an EndpointProvider.
type EndpointOption func(*EndpointProvider)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c HTTPClient) EndpointOption {
	return func(p *EndpointProvider) {
		p.client = c
	}
}

// NewEndpointProvider creates a new endpoint provider
func NewEndpointProvider(cfg config.ModelConfig, opts ...EndpointOption) *EndpointProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = EndpointDefaultURL
	}
	timeout := defaultEndpointTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}
	p := &EndpointProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name
func (p *EndpointProvider) Name() string {
	return "endpoint"
}

// GetConfig returns the model configuration
func (p *EndpointProvider) GetConfig() config.ModelConfig {
	return p.cfg
}

// CreateChatModel returns a ChatModel bound to the configured URL.
func (p *EndpointProvider) CreateChatModel(ctx context.Context) (model.ChatModel, error) {
	return &endpointChatModel{cfg: p.cfg, client: p.client}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int         `json:"index"`
		Message chatMessage `json:"message"`
		Finish  string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

type endpointChatModel struct {
	cfg    config.ModelConfig
	client HTTPClient
}

// Generate sends one chat-completions request and returns the first choice.
func (m *endpointChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{Model: &m.cfg.Model}, opts...)

	reqBody := chatCompletionRequest{
		Model:       m.cfg.Model,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}
	if options.Model != nil && *options.Model != "" {
		reqBody.Model = *options.Model
	}
	for _, msg := range input {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if m.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	}

	log.DebugRequest(http.MethodPost, m.cfg.BaseURL, map[string]interface{}{
		"model":    reqBody.Model,
		"messages": len(reqBody.Messages),
	})

	resp, err := m.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &TransportError{Kind: KindNetwork, URL: m.cfg.BaseURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Kind: KindNetwork, URL: m.cfg.BaseURL, StatusCode: resp.StatusCode, Err: err}
	}

	log.DebugResponse(resp.StatusCode, nil)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Kind:        KindHTTPStatus,
			URL:         m.cfg.BaseURL,
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        excerpt(body),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSONContentType(contentType) {
		return nil, &TransportError{
			Kind:        KindContentType,
			URL:         m.cfg.BaseURL,
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Body:        excerpt(body),
		}
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &TransportError{
			Kind:        KindDecode,
			URL:         m.cfg.BaseURL,
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Body:        excerpt(body),
			Err:         err,
		}
	}

	if len(out.Choices) == 0 {
		return nil, &TransportError{Kind: KindEmpty, URL: m.cfg.BaseURL, StatusCode: resp.StatusCode}
	}

	choice := out.Choices[0]
	msg := schema.AssistantMessage(choice.Message.Content, nil)
	msg.ResponseMeta = &schema.ResponseMeta{FinishReason: choice.Finish}
	if out.Usage != nil {
		msg.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		}
	}
	return msg, nil
}

// Stream delivers the Generate result as a single-chunk stream.
func (m *endpointChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// BindTools is not supported by plain chat-completions endpoints.
func (m *endpointChatModel) BindTools(tools []*schema.ToolInfo) error {
	if len(tools) == 0 {
		return nil
	}
	return fmt.Errorf("endpoint provider does not support tool calling")
}

// isJSONContentType accepts application/json and +json media types. A
// missing header is tolerated since some gateways omit it.
func isJSONContentType(ct string) bool {
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	return strings.HasSuffix(mediaType, "+json")
}
