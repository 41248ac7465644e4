// Package embedding defines the text-to-vector provider contract used to
// seed semantic searches, and an OpenAI-compatible HTTP implementation.
package embedding

import (
	"context"
	"errors"
)

// Provider converts text into fixed-dimension vectors. Implementations may
// call a remote service; all methods must honor context cancellation.
type Provider interface {
	// Embed converts a single text string into a vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts multiple texts into vectors in a single call,
	// order-preserving with one output per input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dim returns the dimension of vectors produced by this provider.
	Dim() int
}

var (
	// ErrProviderUnavailable covers every provider failure mode — network,
	// timeout, quota, malformed input — as a single opaque error kind.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrEmptyText is returned when an empty text string is provided.
	ErrEmptyText = errors.New("empty text provided")
)
