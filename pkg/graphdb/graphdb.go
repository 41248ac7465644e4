// Package graphdb implements a graph-structured knowledge store on SQLite
// with vector similarity search: typed directed edges between nodes, dense
// embeddings for a document category, directional neighbor resolution and
// multi-hop traversal seeded by nearest-neighbor search.
package graphdb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultDocumentCategory is the node category eligible for vector search
// seeding when none is configured.
const DefaultDocumentCategory = "paper"

// Config holds store configuration.
type Config struct {
	// Path is the SQLite database file path.
	Path string
	// Dimension is the deployment-wide vector dimension. All stored and
	// query vectors must match it exactly.
	Dimension int
	// DocumentCategory is the node category that carries embeddings and
	// seeds traversals. Defaults to "paper".
	DocumentCategory string
	// DistanceFn ranks search results; smaller means more similar.
	// Defaults to CosineDistance.
	DistanceFn DistanceFunc
	// Embedder, when set, enables SearchByText and TraverseText.
	Embedder TextEmbedder
	// Logger receives operational logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with defaults applied for the given path
// and dimension.
func DefaultConfig(path string, dimension int) Config {
	return Config{
		Path:             path,
		Dimension:        dimension,
		DocumentCategory: DefaultDocumentCategory,
		DistanceFn:       CosineDistance,
	}
}

// Store is a read-mostly graph+vector store backed by a single SQLite
// database. It is safe for concurrent readers; writes are expected to
// happen in a separate load phase.
type Store struct {
	db     *sql.DB
	config Config
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// Open opens the store, configuring the connection pool for concurrent
// reads. Call EnsureSchema before first use on a fresh database.
func Open(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, wrapError("open", fmt.Errorf("%w: database path cannot be empty", ErrInvalidConfig))
	}
	if config.Dimension <= 0 {
		return nil, wrapError("open", fmt.Errorf("%w: vector dimension must be positive", ErrInvalidConfig))
	}
	if config.DocumentCategory == "" {
		config.DocumentCategory = DefaultDocumentCategory
	}
	if config.DistanceFn == nil {
		config.DistanceFn = CosineDistance
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, wrapError("open", fmt.Errorf("failed to open database: %w", err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(2 * time.Hour)

	// WAL for concurrent readers; wait for locks instead of failing.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, wrapError("open", fmt.Errorf("%s: %w", pragma, err))
		}
	}

	return &Store{
		db:     db,
		config: config,
		logger: config.Logger,
	}, nil
}

// checkOpen returns ErrClosed if the store has been closed.
func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Dimension returns the configured vector dimension.
func (s *Store) Dimension() int {
	return s.config.Dimension
}

// DocumentCategory returns the category used for vector search seeding.
func (s *Store) DocumentCategory() string {
	return s.config.DocumentCategory
}

// DB returns the underlying sql.DB for custom queries and bulk loading.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database connection. Subsequent operations fail with
// ErrClosed. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return wrapError("close", err)
	}
	s.logger.Info("store closed", zap.String("path", s.config.Path))
	return nil
}

// EnsureSchema creates the nodes, edges and embedding relations and their
// secondary indexes if absent. Safe to call on every startup: it never
// mutates or deletes existing rows.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return wrapError("ensureSchema", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS edges (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		relation_type TEXT NOT NULL,
		metadata TEXT,
		FOREIGN KEY (source_id) REFERENCES nodes(id),
		FOREIGN KEY (target_id) REFERENCES nodes(id)
	);

	CREATE TABLE IF NOT EXISTS node_embeddings (
		node_id TEXT PRIMARY KEY REFERENCES nodes(id),
		vector BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_category ON nodes(category);
	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
	CREATE INDEX IF NOT EXISTS idx_edges_relation ON edges(relation_type);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return wrapError("ensureSchema", err)
	}

	s.logger.Debug("schema ensured",
		zap.String("path", s.config.Path),
		zap.Int("dimension", s.config.Dimension))
	return nil
}
