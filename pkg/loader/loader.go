// Package loader populates the knowledge store in bulk: idempotent
// upsert-by-id batches for nodes, edges and embeddings. Nodes must be
// loaded before the edges and embeddings that reference them.
package loader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yasinsb/kgsqlite/internal/encoding"
	"github.com/yasinsb/kgsqlite/pkg/graphdb"
)

// edgeNamespace seeds deterministic edge IDs so that re-loading the same
// logical edge reuses the same row instead of duplicating it.
var edgeNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("kgsqlite/edges"))

// EdgeID returns a stable, reproducible edge identifier for a
// (source, relation, target) triple.
func EdgeID(sourceID, relation, targetID string) string {
	name := sourceID + "|" + relation + "|" + targetID
	return uuid.NewSHA1(edgeNamespace, []byte(name)).String()
}

// Loader performs batch writes against a Store. Each batch runs in a single
// transaction: either every row lands or none do.
type Loader struct {
	store  *graphdb.Store
	logger *zap.Logger
}

// New creates a Loader for the given store.
func New(store *graphdb.Store, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, logger: logger}
}

// UpsertNodes inserts or replaces nodes by ID. Name and category overwrite
// prior values; identity never changes.
func (l *Loader) UpsertNodes(ctx context.Context, nodes []graphdb.Node) error {
	return l.inTx(ctx, "upsertNodes", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO nodes (id, name, category) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				category = excluded.category`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, n := range nodes {
			if n.ID == "" {
				return fmt.Errorf("node with empty id (name %q)", n.Name)
			}
			if _, err := stmt.ExecContext(ctx, n.ID, n.Name, n.Category); err != nil {
				return err
			}
		}
		l.logger.Info("nodes loaded", zap.Int("count", len(nodes)))
		return nil
	})
}

// UpsertEdges inserts or replaces edges by ID. Edges without an ID get a
// deterministic one from their (source, relation, target) triple, keeping
// re-runs idempotent. Referenced nodes must already exist.
func (l *Loader) UpsertEdges(ctx context.Context, edges []graphdb.Edge) error {
	return l.inTx(ctx, "upsertEdges", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO edges (id, source_id, target_id, relation_type, metadata)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				source_id = excluded.source_id,
				target_id = excluded.target_id,
				relation_type = excluded.relation_type,
				metadata = excluded.metadata`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, e := range edges {
			if e.SourceID == "" || e.TargetID == "" {
				return fmt.Errorf("edge %q missing endpoint", e.ID)
			}
			if e.Relation == "" {
				return fmt.Errorf("edge %s->%s missing relation type", e.SourceID, e.TargetID)
			}

			id := e.ID
			if id == "" {
				id = EdgeID(e.SourceID, e.Relation, e.TargetID)
			}

			var metadata any
			if len(e.Metadata) > 0 {
				raw, err := json.Marshal(e.Metadata)
				if err != nil {
					return fmt.Errorf("encoding metadata for edge %s: %w", id, err)
				}
				metadata = string(raw)
			}

			if _, err := stmt.ExecContext(ctx, id, e.SourceID, e.TargetID, e.Relation, metadata); err != nil {
				return err
			}
		}
		l.logger.Info("edges loaded", zap.Int("count", len(edges)))
		return nil
	})
}

// UpsertEmbeddings inserts or replaces embeddings keyed by node ID. Every
// vector must match the store's configured dimension.
func (l *Loader) UpsertEmbeddings(ctx context.Context, embeddings []graphdb.Embedding) error {
	dim := l.store.Dimension()
	return l.inTx(ctx, "upsertEmbeddings", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO node_embeddings (node_id, vector) VALUES (?, ?)
			ON CONFLICT(node_id) DO UPDATE SET vector = excluded.vector`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, e := range embeddings {
			if e.NodeID == "" {
				return fmt.Errorf("embedding with empty node id")
			}
			if len(e.Vector) != dim {
				return fmt.Errorf("%w: embedding for %s has %d components, store expects %d",
					graphdb.ErrDimensionMismatch, e.NodeID, len(e.Vector), dim)
			}
			if _, err := stmt.ExecContext(ctx, e.NodeID, encoding.Encode(e.Vector)); err != nil {
				return err
			}
		}
		l.logger.Info("embeddings loaded", zap.Int("count", len(embeddings)))
		return nil
	})
}

// inTx runs fn in a transaction, rolling back on any error and mapping
// storage constraint failures to ErrSchemaViolation.
func (l *Loader) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := l.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, classify(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// classify maps SQLite constraint failures to the schema violation kind.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "constraint") {
		return fmt.Errorf("%w: %v", graphdb.ErrSchemaViolation, err)
	}
	return err
}
