package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// MockProvider is a deterministic provider for tests and offline use. It
// derives a unit-length vector from the text hash so that the same text
// always gets the same embedding, with no network dependency.
type MockProvider struct {
	dimension int
}

// NewMockProvider returns a provider producing deterministic embeddings of
// the given dimension.
func NewMockProvider(dimension int) *MockProvider {
	if dimension <= 0 {
		dimension = 1536
	}
	return &MockProvider{dimension: dimension}
}

// Embed returns a deterministic embedding based on the text hash.
func (m *MockProvider) Embed(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	seed := float64(h.Sum32())

	vec := make([]float32, m.dimension)
	for i := range vec {
		vec[i] = float32(math.Sin(seed*float64(i+1)) * 0.1)
	}

	// Unit length keeps cosine comparisons well-behaved.
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		norm := 1.0 / math.Sqrt(sum)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * norm)
		}
	}
	return vec, nil
}

// EmbedBatch calls Embed for each text, preserving order.
func (m *MockProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dim returns the embedding dimension.
func (m *MockProvider) Dim() int {
	return m.dimension
}
