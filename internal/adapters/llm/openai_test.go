package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAIAdapter_Generate(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "\n Revenue was $12.00. \n"}},
			},
		})
	}))
	defer server.Close()

	adapter, err := NewOpenAIAdapter(server.URL+"/", "secret", "", DefaultTemperature, nil)
	require.NoError(t, err)

	answer, err := adapter.Generate(context.Background(), "system text", "user text")

	require.NoError(t, err)
	assert.Equal(t, "Revenue was $12.00.", answer)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 0.2, got.Temperature)
	assert.Equal(t, []chatMessage{
		{Role: "system", Content: "system text"},
		{Role: "user", Content: "user text"},
	}, got.Messages)
}

func TestOpenAIAdapter_ErrorStatusIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	adapter, err := NewOpenAIAdapter(server.URL, "k", "m", 0, nil)
	require.NoError(t, err)

	_, err = adapter.Generate(context.Background(), "s", "p")

	assert.ErrorContains(t, err, "429")
	assert.ErrorContains(t, err, "rate limited")
}

func TestOpenAIAdapter_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	adapter, _ := NewOpenAIAdapter(server.URL, "k", "m", 0, nil)
	_, err := adapter.Generate(context.Background(), "s", "p")

	assert.ErrorContains(t, err, "no choices")
}

func TestNewOpenAIAdapter_RequiresKey(t *testing.T) {
	_, err := NewOpenAIAdapter("", "", "", 0, nil)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestUnconfigured_ReturnsMessage(t *testing.T) {
	answer, err := Unconfigured{}.Generate(context.Background(), "s", "p")

	require.NoError(t, err)
	assert.Equal(t, NotConfiguredMessage, answer)
	assert.Equal(t, "none", Unconfigured{}.Name())
}

func TestNew_SelectsProvider(t *testing.T) {
	cases := []struct {
		opts Options
		want string
	}{
		{Options{}, "none"},
		{Options{Provider: "auto", APIKey: "k"}, "openai"},
		{Options{Provider: "groq", APIKey: "k"}, "openai"},
		{Options{Provider: "ollama"}, "ollama"},
		{Options{Provider: "none", APIKey: "k"}, "none"},
		{Options{Provider: "openai"}, "none"},
		{Options{Provider: "groq"}, "none"},
	}
	for _, tc := range cases {
		svc, err := New(tc.opts, nil)
		require.NoError(t, err, "%+v", tc.opts)
		assert.Equal(t, tc.want, svc.Name(), "%+v", tc.opts)
	}
}

func TestNew_MissingKeyFallsBack(t *testing.T) {
	svc, err := New(Options{Provider: "openai"}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "none", svc.Name())
	got, err := svc.Generate(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, NotConfiguredMessage, got)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Provider: "bard"}, nil)
	assert.ErrorContains(t, err, "unknown llm provider")
}
