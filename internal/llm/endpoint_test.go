package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitgen-go/internal/config"
)

func newTestEndpoint(t *testing.T, handler http.HandlerFunc) model.ChatModel {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	provider := NewEndpointProvider(config.ModelConfig{
		Provider: "endpoint",
		APIKey:   "test-key",
		Model:    "test-model",
		BaseURL:  srv.URL,
	}, WithHTTPClient(srv.Client()))

	chatModel, err := provider.CreateChatModel(context.Background())
	require.NoError(t, err)
	return chatModel
}

func TestEndpointChatModel_Generate_Success(t *testing.T) {
	var got chatCompletionRequest
	var authHeader string

	chatModel := newTestEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "✨ feat: add thing"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150}
		}`))
	})

	msg, err := chatModel.Generate(context.Background(),
		[]*schema.Message{schema.UserMessage("hello")},
		model.WithTemperature(0.7), model.WithMaxTokens(500))
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.7, *got.Temperature, 0.0001)
	require.NotNil(t, got.MaxTokens)
	assert.Equal(t, 500, *got.MaxTokens)

	assert.Equal(t, "✨ feat: add thing", msg.Content)
	require.NotNil(t, msg.ResponseMeta)
	assert.Equal(t, "stop", msg.ResponseMeta.FinishReason)
	require.NotNil(t, msg.ResponseMeta.Usage)
	assert.Equal(t, 150, msg.ResponseMeta.Usage.TotalTokens)
}

func TestEndpointChatModel_Generate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantKind    TransportErrorKind
		wantInError string
	}{
		{
			name:        "server error",
			status:      http.StatusBadGateway,
			contentType: "application/json",
			body:        `{"error":"upstream"}`,
			wantKind:    KindHTTPStatus,
			wantInError: "status 502",
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			contentType: "application/json",
			body:        `{"error":"bad key"}`,
			wantKind:    KindHTTPStatus,
			wantInError: "bad key",
		},
		{
			name:        "html proxy page",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        "<html>login</html>",
			wantKind:    KindContentType,
			wantInError: "text/html",
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"choices": [`,
			wantKind:    KindDecode,
			wantInError: "decode",
		},
		{
			name:        "no choices",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"choices": []}`,
			wantKind:    KindEmpty,
			wantInError: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatModel := newTestEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := chatModel.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
			require.Error(t, err)
			assert.True(t, IsTransportKind(err, tt.wantKind), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantInError)
		})
	}
}

func TestEndpointChatModel_Generate_EmptyUnwrapsToSentinel(t *testing.T) {
	chatModel := newTestEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := chatModel.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestEndpointChatModel_Generate_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	provider := NewEndpointProvider(config.ModelConfig{Provider: "endpoint", Model: "m", BaseURL: url})
	chatModel, err := provider.CreateChatModel(context.Background())
	require.NoError(t, err)

	_, err = chatModel.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.Error(t, err)
	assert.True(t, IsTransportKind(err, KindNetwork), "got %v", err)
	assert.Equal(t, ErrorTypeRetryable, ClassifyError(err))
}

func TestEndpointChatModel_Generate_MissingContentType(t *testing.T) {
	chatModel := newTestEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})

	msg, err := chatModel.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
}

func TestEndpointChatModel_Stream(t *testing.T) {
	chatModel := newTestEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"streamed"}}]}`))
	})

	reader, err := chatModel.Stream(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.NoError(t, err)
	defer reader.Close()

	chunk, err := reader.Recv()
	require.NoError(t, err)
	assert.Equal(t, "streamed", chunk.Content)
}

func TestEndpointChatModel_BindTools(t *testing.T) {
	chatModel := newTestEndpoint(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.NoError(t, chatModel.BindTools(nil))
	assert.Error(t, chatModel.BindTools([]*schema.ToolInfo{{Name: "git_log"}}))
}

func TestIsJSONContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want bool
	}{
		{"", true},
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"+json", true},
		{"application/jsonx", false},
		{"text/html", false},
		{"text/plain; charset=utf-8", false},
		{";;;", false},
	}
	for _, tt := range tests {
		t.Run(tt.ct, func(t *testing.T) {
			assert.Equal(t, tt.want, isJSONContentType(tt.ct))
		})
	}
}

func TestTransportError_Excerpt(t *testing.T) {
	long := strings.Repeat("x", maxBodyExcerpt+100)
	got := excerpt([]byte(long))
	assert.Len(t, got, maxBodyExcerpt+3)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", excerpt([]byte("short")))

	wide := strings.Repeat("错", maxBodyExcerpt+1)
	got = excerpt([]byte(wide))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("错", maxBodyExcerpt)+"...", got)
	assert.Equal(t, "错误", excerpt([]byte("错误")))
}

func TestWrapNetworkError(t *testing.T) {
	assert.NoError(t, WrapNetworkError("u", nil))

	plain := errors.New("plain")
	assert.Same(t, plain, WrapNetworkError("u", plain))

	te := &TransportError{Kind: KindHTTPStatus, StatusCode: 500}
	assert.Same(t, error(te), WrapNetworkError("u", te))
}
