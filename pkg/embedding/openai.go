package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// OpenAIConfig configures an OpenAI-compatible embeddings endpoint.
// Any server speaking the /v1/embeddings protocol works (OpenAI, vLLM,
// llama.cpp, Ollama in OpenAI mode).
type OpenAIConfig struct {
	BaseURL   string        // e.g. "https://api.openai.com"
	APIKey    string        // bearer token; may be a dummy for local servers
	Model     string        // defaults to DefaultModel
	Dimension int           // expected output dimension
	Timeout   time.Duration // per-request timeout, defaults to 30s
}

// OpenAIProvider implements Provider against an OpenAI-compatible API.
type OpenAIProvider struct {
	client    *resty.Client
	model     string
	dimension int
}

// NewOpenAIProvider creates a provider for the given endpoint.
func NewOpenAIProvider(config OpenAIConfig) (*OpenAIProvider, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("embedding: base URL must not be empty")
	}
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("embedding: dimension must be positive")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Content-Type", "application/json")
	if config.APIKey != "" {
		client.SetAuthToken(config.APIKey)
	}

	return &OpenAIProvider{
		client:    client,
		model:     config.Model,
		dimension: config.Dimension,
	}, nil
}

// Dim returns the configured vector dimension.
func (p *OpenAIProvider) Dim() int {
	return p.dimension
}

type embeddingsRequest struct {
	Input any    `json:"input"` // string or []string
	Model string `json:"model"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Embed converts a single text into a vector.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	vectors, err := p.request(ctx, text, 1)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch converts texts into vectors in one request, preserving order.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for _, t := range texts {
		if t == "" {
			return nil, ErrEmptyText
		}
	}
	return p.request(ctx, texts, len(texts))
}

// request posts to /v1/embeddings and validates the response shape. Every
// transport or protocol failure maps to ErrProviderUnavailable.
func (p *OpenAIProvider) request(ctx context.Context, input any, want int) ([][]float32, error) {
	var result embeddingsResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(embeddingsRequest{Input: input, Model: p.model}).
		SetResult(&result).
		SetError(&result).
		Post("/v1/embeddings")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if resp.IsError() {
		if result.Error != nil {
			return nil, fmt.Errorf("%w: %s (%s)", ErrProviderUnavailable, result.Error.Message, result.Error.Type)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrProviderUnavailable, resp.StatusCode())
	}
	if len(result.Data) != want {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrProviderUnavailable, want, len(result.Data))
	}

	// The API is allowed to return entries in any order; index restores it.
	vectors := make([][]float32, want)
	for _, d := range result.Data {
		if d.Index < 0 || d.Index >= want {
			return nil, fmt.Errorf("%w: embedding index %d out of range", ErrProviderUnavailable, d.Index)
		}
		if len(d.Embedding) != p.dimension {
			return nil, fmt.Errorf("%w: embedding has %d components, expected %d",
				ErrProviderUnavailable, len(d.Embedding), p.dimension)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("%w: missing embedding for input %d", ErrProviderUnavailable, i)
		}
	}
	return vectors, nil
}
