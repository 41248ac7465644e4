package graphdb

import (
	"context"
	"fmt"
)

// Traverse seeds a traversal with a vector search restricted to the
// document category, then walks the hop chain from each seed. Hop i+1
// expands every node reached at hop i, and its results attach under the
// node they were expanded from, so each seed owns an independent tree.
// An empty frontier at any hop simply leaves that branch childless.
func (s *Store) Traverse(ctx context.Context, query []float32, hops []Hop, k int) ([]TraversalResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("traverse", err)
	}
	if err := validateHops(hops); err != nil {
		return nil, wrapError("traverse", err)
	}

	seeds, err := s.SearchByVector(ctx, query, k, s.config.DocumentCategory)
	if err != nil {
		return nil, err
	}

	results := make([]TraversalResult, len(seeds))
	for i, seed := range seeds {
		children, err := s.expand(ctx, seed.ID, hops)
		if err != nil {
			return nil, wrapError("traverse", err)
		}
		results[i] = TraversalResult{Seed: seed, Children: children}
	}
	return results, nil
}

// TraverseText embeds the query text and delegates to Traverse.
func (s *Store) TraverseText(ctx context.Context, text string, hops []Hop, k int) ([]TraversalResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("traverse", err)
	}
	if s.config.Embedder == nil {
		return nil, wrapError("traverse", ErrEmbedderNotConfigured)
	}

	query, err := s.config.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, wrapError("traverse", err)
	}
	return s.Traverse(ctx, query, hops, k)
}

// expand recursively applies the hop chain starting at nodeID. The first
// hop's neighbors become the direct children; each child is then expanded
// with the remaining hops.
func (s *Store) expand(ctx context.Context, nodeID string, hops []Hop) ([]*TraversalNode, error) {
	if len(hops) == 0 {
		return nil, nil
	}

	hop := hops[0]
	neighbors, err := s.GetNeighbors(ctx, nodeID, hop.Direction, hop.Relation)
	if err != nil {
		return nil, err
	}

	children := make([]*TraversalNode, 0, len(neighbors))
	for _, nb := range neighbors {
		child := &TraversalNode{Neighbor: nb, Label: hop.Label}
		child.Children, err = s.expand(ctx, nb.NodeID, hops[1:])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func validateHops(hops []Hop) error {
	for i, hop := range hops {
		if hop.Relation == "" {
			return fmt.Errorf("hop %d: relation type must not be empty", i)
		}
		switch hop.Direction {
		case DirectionIncoming, DirectionOutgoing, DirectionBoth:
		default:
			return fmt.Errorf("hop %d: invalid direction %q", i, hop.Direction)
		}
		if hop.Label == "" {
			return fmt.Errorf("hop %d: label must not be empty", i)
		}
	}
	return nil
}
