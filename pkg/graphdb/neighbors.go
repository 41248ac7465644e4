package graphdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yasinsb/kgsqlite/internal/encoding"
)

// GetNode returns the node with the given ID, or nil if it does not exist.
// A missing node is not an error.
func (s *Store) GetNode(ctx context.Context, nodeID string) (*Node, error) {
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("getNode", err)
	}

	var n Node
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, category FROM nodes WHERE id = ?", nodeID,
	).Scan(&n.ID, &n.Name, &n.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("getNode", err)
	}
	return &n, nil
}

// GetEmbedding returns the stored vector for a node. Unlike GetNode, a
// missing embedding is reported as ErrNotFound.
func (s *Store) GetEmbedding(ctx context.Context, nodeID string) ([]float32, error) {
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("getEmbedding", err)
	}

	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT vector FROM node_embeddings WHERE node_id = ?", nodeID,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wrapError("getEmbedding", fmt.Errorf("%w: no embedding for node %s", ErrNotFound, nodeID))
	}
	if err != nil {
		return nil, wrapError("getEmbedding", err)
	}

	vector, err := encoding.Decode(blob, s.config.Dimension)
	if err != nil {
		return nil, wrapError("getEmbedding", err)
	}
	return vector, nil
}

// GetNeighbors returns the nodes adjacent to nodeID via edges in the given
// direction, optionally restricted to a set of relation types. With no
// relations given, all relation types are included. For DirectionBoth each
// entry is tagged with the direction its edge was found in.
func (s *Store) GetNeighbors(ctx context.Context, nodeID string, direction Direction, relations ...string) ([]Neighbor, error) {
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("getNeighbors", err)
	}
	switch direction {
	case DirectionIncoming, DirectionOutgoing, DirectionBoth:
	default:
		return nil, wrapError("getNeighbors", fmt.Errorf("invalid direction: %q (use %q, %q, or %q)",
			direction, DirectionIncoming, DirectionOutgoing, DirectionBoth))
	}

	var results []Neighbor

	if direction == DirectionOutgoing || direction == DirectionBoth {
		out, err := s.queryNeighbors(ctx, nodeID, DirectionOutgoing, relations)
		if err != nil {
			return nil, wrapError("getNeighbors", err)
		}
		results = append(results, out...)
	}

	if direction == DirectionIncoming || direction == DirectionBoth {
		in, err := s.queryNeighbors(ctx, nodeID, DirectionIncoming, relations)
		if err != nil {
			return nil, wrapError("getNeighbors", err)
		}
		results = append(results, in...)
	}

	return results, nil
}

// queryNeighbors runs the adjacency query for a single direction. For
// outgoing edges the neighbor is the target; for incoming it is the source.
func (s *Store) queryNeighbors(ctx context.Context, nodeID string, direction Direction, relations []string) ([]Neighbor, error) {
	var stmt string
	switch direction {
	case DirectionOutgoing:
		stmt = `
			SELECT e.id, e.target_id, n.name, n.category, e.relation_type, e.metadata
			FROM edges e
			JOIN nodes n ON n.id = e.target_id
			WHERE e.source_id = ?`
	case DirectionIncoming:
		stmt = `
			SELECT e.id, e.source_id, n.name, n.category, e.relation_type, e.metadata
			FROM edges e
			JOIN nodes n ON n.id = e.source_id
			WHERE e.target_id = ?`
	}

	args := []any{nodeID}
	if len(relations) > 0 {
		placeholders := strings.Repeat("?,", len(relations))
		stmt += " AND e.relation_type IN (" + placeholders[:len(placeholders)-1] + ")"
		for _, r := range relations {
			args = append(args, r)
		}
	}
	stmt += " ORDER BY e.id"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var neighbors []Neighbor
	for rows.Next() {
		var nb Neighbor
		var metadata sql.NullString
		if err := rows.Scan(&nb.EdgeID, &nb.NodeID, &nb.Name, &nb.Category, &nb.Relation, &metadata); err != nil {
			return nil, err
		}
		nb.Direction = direction
		nb.Metadata = parseMetadata(s.logger, nb.EdgeID, metadata)
		neighbors = append(neighbors, nb)
	}
	return neighbors, rows.Err()
}

// parseMetadata decodes an edge's metadata JSON. Absent, empty or
// unparseable metadata yields an empty map, never a failure.
func parseMetadata(logger *zap.Logger, edgeID string, raw sql.NullString) map[string]string {
	metadata := map[string]string{}
	if !raw.Valid || raw.String == "" {
		return metadata
	}
	if err := json.Unmarshal([]byte(raw.String), &metadata); err != nil {
		logger.Warn("unparseable edge metadata",
			zap.String("edge_id", edgeID), zap.Error(err))
		return map[string]string{}
	}
	return metadata
}
