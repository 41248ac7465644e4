package graphdb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/yasinsb/kgsqlite/internal/encoding"
)

// TextEmbedder converts free text to a vector of the store's dimension.
// It is the only external dependency of the query engine.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrEmbedderNotConfigured is returned by SearchByText and TraverseText
// when the store was opened without an embedder.
var ErrEmbedderNotConfigured = errors.New("embedder not configured, set Config.Embedder or call vector methods directly")

// SearchByVector returns up to k nodes whose stored embedding is nearest to
// query, ordered ascending by distance. An empty categoryFilter matches all
// categories. Each result carries the cosine similarity between query and
// the stored vector, computed independently of the ranking metric.
func (s *Store) SearchByVector(ctx context.Context, query []float32, k int, categoryFilter string) ([]SearchResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("searchByVector", err)
	}
	if k <= 0 {
		return nil, wrapError("searchByVector", fmt.Errorf("k must be positive, got %d", k))
	}
	if len(query) != s.config.Dimension {
		return nil, wrapError("searchByVector", fmt.Errorf("%w: query has %d components, store expects %d",
			ErrDimensionMismatch, len(query), s.config.Dimension))
	}

	stmt := `
		SELECT e.node_id, n.name, n.category, e.vector
		FROM node_embeddings e
		JOIN nodes n ON n.id = e.node_id`
	args := []any{}
	if categoryFilter != "" {
		stmt += " WHERE n.category = ?"
		args = append(args, categoryFilter)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, wrapError("searchByVector", err)
	}
	defer func() { _ = rows.Close() }()

	type scored struct {
		result SearchResult
		vector []float32
	}
	var candidates []scored

	for rows.Next() {
		var id, name, category string
		var blob []byte
		if err := rows.Scan(&id, &name, &category, &blob); err != nil {
			return nil, wrapError("searchByVector", err)
		}

		vector, err := encoding.Decode(blob, s.config.Dimension)
		if err != nil {
			// Corrupt row: skip it rather than abort the whole query,
			// but never fabricate a result for it.
			s.logger.Warn("skipping corrupt embedding",
				zap.String("node_id", id), zap.Error(err))
			continue
		}

		candidates = append(candidates, scored{
			result: SearchResult{
				ID:       id,
				Name:     name,
				Category: category,
				Distance: s.config.DistanceFn(query, vector),
			},
			vector: vector,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("searchByVector", err)
	}

	// Ascending distance is the engine's ordering contract. Ties break on
	// node ID so repeated calls return the same order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].result.Distance != candidates[j].result.Distance {
			return candidates[i].result.Distance < candidates[j].result.Distance
		}
		return candidates[i].result.ID < candidates[j].result.ID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]SearchResult, len(candidates))
	for i, c := range candidates {
		c.result.Similarity = CosineSimilarity(query, c.vector)
		results[i] = c.result
	}
	return results, nil
}

// SearchByText embeds text via the configured embedder and delegates to
// SearchByVector. Embedder failures propagate to the caller; the store
// never substitutes a stale or zero vector.
func (s *Store) SearchByText(ctx context.Context, text string, k int, categoryFilter string) ([]SearchResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("searchByText", err)
	}
	if s.config.Embedder == nil {
		return nil, wrapError("searchByText", ErrEmbedderNotConfigured)
	}

	query, err := s.config.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, wrapError("searchByText", err)
	}
	return s.SearchByVector(ctx, query, k, categoryFilter)
}
