package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompleterSendsSingleUserMessage(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-3.5-turbo",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Score: 7\nFeedback: Needs more detail."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 12, "total_tokens": 52}
		}`))
	}))
	defer server.Close()

	completer, err := NewOpenAICompleter(OpenAIConfig{APIKey: "test", BaseURL: server.URL + "/v1", Logger: zerolog.Nop()})
	require.NoError(t, err)

	completion, err := completer.Complete(context.Background(), CompletionRequest{
		Model:       "gpt-3.5-turbo",
		Prompt:      "grade this",
		Temperature: 0.3,
		MaxTokens:   512,
	})
	require.NoError(t, err)
	require.Equal(t, "Score: 7\nFeedback: Needs more detail.", completion.Text)
	require.Equal(t, Usage{PromptTokens: 40, CompletionTokens: 12, TotalTokens: 52}, completion.Usage)

	require.Equal(t, "gpt-3.5-turbo", captured["model"])
	require.EqualValues(t, 512, captured["max_tokens"])
	require.InDelta(t, 0.3, captured["temperature"], 0.0001)
	messages, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	message := messages[0].(map[string]interface{})
	require.Equal(t, "user", message["role"])
	require.Equal(t, "grade this", message["content"])
}

func TestOpenAICompleterNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "choices": [], "usage": {}}`))
	}))
	defer server.Close()

	completer, err := NewOpenAICompleter(OpenAIConfig{APIKey: "test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), CompletionRequest{Model: "gpt-3.5-turbo", Prompt: "x", MaxTokens: 10})
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAICompleterPropagatesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"message": "The model does-not-exist does not exist", "type": "invalid_request_error", "code": "model_not_found"}}`))
	}))
	defer server.Close()

	completer, err := NewOpenAICompleter(OpenAIConfig{APIKey: "test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), CompletionRequest{Model: "does-not-exist", Prompt: "x", MaxTokens: 10})
	require.Error(t, err)
	require.Contains(t, err.Error(), "does-not-exist")
}

func TestNewCompleterRequiresCredential(t *testing.T) {
	_, err := NewCompleter(ProviderConfig{Provider: "openai"})
	require.Error(t, err)

	_, err = NewCompleter(ProviderConfig{Provider: "anthropic"})
	require.Error(t, err)

	_, err = NewCompleter(ProviderConfig{Provider: "mystery", OpenAIAPIKey: "k"})
	require.Error(t, err)

	completer, err := NewCompleter(ProviderConfig{OpenAIAPIKey: "k"})
	require.NoError(t, err)
	require.IsType(t, &OpenAICompleter{}, completer)

	completer, err = NewCompleter(ProviderConfig{Provider: "Anthropic", AnthropicAPIKey: "k"})
	require.NoError(t, err)
	require.IsType(t, &AnthropicCompleter{}, completer)
}
