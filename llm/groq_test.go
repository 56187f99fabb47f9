package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain json untouched", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose with fence", "Here you go:\n```json\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace trimmed", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestClientChat(t *testing.T) {
	var captured apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "set_budget", "arguments": "{\"category\": \"food\", \"amount\": 5000}"}
					}]
				},
				"finish_reason": "tool_calls"
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL), WithModel("test-model"))

	resp, err := c.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "budget 5000 for food"}},
		Tools:    []ToolSpec{{Name: "set_budget", Description: "d", Parameters: map[string]any{"type": "object"}}},
		JSONMode: false,
	})
	require.NoError(t, err)

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "function", captured.Tools[0].Type)
	assert.Equal(t, "set_budget", captured.Tools[0].Function.Name)

	assert.Equal(t, "tool_calls", resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "set_budget", resp.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"category": "food", "amount": 5000}`, resp.ToolCalls[0].Function.Arguments)
}

func TestClientChatJSONMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{\"ok\": true}"}, "finish_reason": "stop"}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL))

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, CompleteJSON(context.Background(), c, "system", "user", &out))
	assert.True(t, out.OK)
}

func TestClientChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL))

	_, err := c.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_exceeded")
}

func TestClientChatNoKey(t *testing.T) {
	c := NewClient(WithAPIKey(""))
	_, err := c.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)
	assert.False(t, c.Available())
}
