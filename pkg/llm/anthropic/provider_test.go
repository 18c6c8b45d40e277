package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"design-memory-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicProvider_Generate(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"reply\":\"ok\"}"}]}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(server.URL, "secret", "claude-test")
	require.NoError(t, err)

	text, err := p.Generate(context.Background(), "hello", llm.WithMaxTokens(123))
	require.NoError(t, err)
	assert.Equal(t, `{"reply":"ok"}`, text)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, 123, got.MaxTokens)
	assert.InDelta(t, llm.DefaultTemperature, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non 2xx", http.StatusTooManyRequests, `{"error":{"type":"rate_limit_error","message":"slow down"}}`},
		{"empty content", http.StatusOK, `{"content":[]}`},
		{"not json", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p, err := NewAnthropicProvider(server.URL, "secret", "claude-test")
			require.NoError(t, err)
			_, err = p.Generate(context.Background(), "hello")
			assert.Error(t, err)
		})
	}
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	_, err := NewAnthropicProvider("", "", "m")
	assert.Error(t, err)
}
