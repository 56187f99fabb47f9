// Package llm wraps the hosted chat-completions API (Groq) used for routing,
// agent tool loops, and response synthesis.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Default Groq configuration values
const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultGroqTimeout = 60 * time.Second
)

// Message is a single chat message in OpenAI chat-completions format.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSpec describes a callable tool advertised to the model.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ChatRequest is a provider-neutral completion request.
type ChatRequest struct {
	Messages    []Message
	Tools       []ToolSpec
	Temperature float64
	MaxTokens   int
	JSONMode    bool
	Model       string
}

// ChatResponse is the assistant turn returned by the provider.
type ChatResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// Completer is the interface agents depend on; tests inject fakes.
type Completer interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Client is a Groq API client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Groq client from the environment plus options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		apiKey:     os.Getenv("GROQ_API_KEY"),
		baseURL:    DefaultGroqBaseURL,
		model:      DefaultGroqModel,
		httpClient: &http.Client{Timeout: DefaultGroqTimeout},
	}
	if m := os.Getenv("GROQ_MODEL"); m != "" {
		c.model = m
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the client has an API key configured.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

type apiRequest struct {
	Model          string     `json:"model"`
	Messages       []Message  `json:"messages"`
	Tools          []apiTool  `json:"tools,omitempty"`
	Temperature    *float64   `json:"temperature,omitempty"`
	MaxTokens      int        `json:"max_tokens,omitempty"`
	ResponseFormat *apiFormat `json:"response_format,omitempty"`
}

type apiTool struct {
	Type     string   `json:"type"`
	Function ToolSpec `json:"function"`
}

type apiFormat struct {
	Type string `json:"type"`
}

type apiResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat sends a completion request and returns the assistant turn.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	body := apiRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: &req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, apiTool{Type: "function", Function: t})
	}
	if req.JSONMode {
		body.ResponseFormat = &apiFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("llm response decode failed (status %d): %w", resp.StatusCode, err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("llm error (%s): %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm returned status %d", resp.StatusCode)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("llm returned no choices")
	}

	choice := apiResp.Choices[0]
	return &ChatResponse{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
	}, nil
}

// Complete is a convenience wrapper for a single system+user exchange.
func Complete(ctx context.Context, c Completer, system, user string, temperature float64) (string, error) {
	resp, err := c.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// CompleteJSON requests a JSON-object response and unmarshals it into out.
func CompleteJSON(ctx context.Context, c Completer, system, user string, out any) error {
	resp, err := c.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(StripCodeFence(resp.Content)), out)
}
