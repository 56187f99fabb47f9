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

// Default embeddings configuration values
const (
	DefaultEmbeddingsBaseURL = "https://api.openai.com/v1"
	DefaultEmbeddingsModel   = "text-embedding-3-small"
	DefaultEmbeddingsTimeout = 30 * time.Second
)

// Embedder produces query embeddings for knowledge-base retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Available() bool
}

// EmbeddingsClient calls an OpenAI-compatible embeddings endpoint.
type EmbeddingsClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewEmbeddingsClient creates an embeddings client from the environment.
func NewEmbeddingsClient() *EmbeddingsClient {
	c := &EmbeddingsClient{
		apiKey:     os.Getenv("EMBEDDINGS_API_KEY"),
		baseURL:    DefaultEmbeddingsBaseURL,
		model:      DefaultEmbeddingsModel,
		httpClient: &http.Client{Timeout: DefaultEmbeddingsTimeout},
	}
	if u := os.Getenv("EMBEDDINGS_BASE_URL"); u != "" {
		c.baseURL = u
	}
	if m := os.Getenv("EMBEDDINGS_MODEL"); m != "" {
		c.model = m
	}
	return c
}

func (c *EmbeddingsClient) Available() bool {
	return c.apiKey != ""
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed returns the embedding vector for the given text.
func (c *EmbeddingsClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("EMBEDDINGS_API_KEY not set")
	}

	jsonData, err := json.Marshal(embeddingsRequest{Model: c.model, Input: []string{text}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var embResp embeddingsResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("embeddings decode failed (status %d): %w", resp.StatusCode, err)
	}
	if embResp.Error != nil {
		return nil, fmt.Errorf("embeddings error: %s", embResp.Error.Message)
	}
	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("embeddings returned no data")
	}
	return embResp.Data[0].Embedding, nil
}
