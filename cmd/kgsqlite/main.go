// Command kgsqlite is a thin CLI over the graph+vector knowledge store:
// schema creation, bulk loading, vector search, neighbor lookup, traversal
// and stats. All query logic lives in pkg/graphdb.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yasinsb/kgsqlite/internal/config"
	"github.com/yasinsb/kgsqlite/pkg/embedding"
	"github.com/yasinsb/kgsqlite/pkg/graphdb"
	"github.com/yasinsb/kgsqlite/pkg/loader"
)

var (
	configPath string
	dbPath     string
	dimension  int
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "kgsqlite",
	Short: "Graph-structured knowledge store with vector search",
	Long:  `A SQLite-backed knowledge graph with embedding-seeded multi-hop queries.`,
}

// loadConfig merges the config file (if any) with command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.Storage.DatabasePath = dbPath
	}
	if dimension > 0 {
		cfg.Storage.Dimension = dimension
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openStore opens the store described by the active configuration. The
// embedding provider is attached only when a base URL is configured, so
// purely local commands work without any network setup.
func openStore(cfg *config.Config, logger *zap.Logger) (*graphdb.Store, error) {
	storeCfg := graphdb.DefaultConfig(cfg.Storage.DatabasePath, cfg.Storage.Dimension)
	storeCfg.DocumentCategory = cfg.Storage.DocumentCategory
	storeCfg.Logger = logger

	if cfg.Embedding.BaseURL != "" {
		provider, err := embedding.NewOpenAIProvider(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedding.BaseURL,
			APIKey:    cfg.APIKey(),
			Model:     cfg.Embedding.Model,
			Dimension: cfg.Storage.Dimension,
			Timeout:   cfg.EmbeddingTimeout(),
		})
		if err != nil {
			return nil, err
		}
		storeCfg.Embedder = provider
	}

	return graphdb.Open(storeCfg)
}

// withStore handles the open/close lifecycle around a command body.
func withStore(fn func(ctx context.Context, store *graphdb.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		store, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		return fn(cmd.Context(), store)
	}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema (idempotent)",
	RunE: withStore(func(ctx context.Context, store *graphdb.Store) error {
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		fmt.Printf("Schema ensured, dimension %d\n", store.Dimension())
		return nil
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate store statistics",
	RunE: withStore(func(ctx context.Context, store *graphdb.Store) error {
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Vector similarity search by text or raw vector",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		vectorStr, _ := cmd.Flags().GetString("vector")
		k, _ := cmd.Flags().GetInt("k")
		category, _ := cmd.Flags().GetString("category")

		return withStore(func(ctx context.Context, store *graphdb.Store) error {
			var results []graphdb.SearchResult
			var err error
			switch {
			case text != "":
				results, err = store.SearchByText(ctx, text, k, category)
			case vectorStr != "":
				var query []float32
				query, err = parseVector(vectorStr)
				if err != nil {
					return err
				}
				results, err = store.SearchByVector(ctx, query, k, category)
			default:
				return fmt.Errorf("either --text or --vector is required")
			}
			if err != nil {
				return err
			}
			return printJSON(results)
		})(cmd, args)
	},
}

var neighborsCmd = &cobra.Command{
	Use:   "neighbors <node-id>",
	Short: "List adjacent nodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dirStr, _ := cmd.Flags().GetString("direction")
		relations, _ := cmd.Flags().GetStringSlice("relations")

		return withStore(func(ctx context.Context, store *graphdb.Store) error {
			neighbors, err := store.GetNeighbors(ctx, args[0], graphdb.Direction(dirStr), relations...)
			if err != nil {
				return err
			}
			return printJSON(neighbors)
		})(cmd, args)
	},
}

var nodeCmd = &cobra.Command{
	Use:   "node <node-id>",
	Short: "Show a single node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *graphdb.Store) error {
			node, err := store.GetNode(ctx, args[0])
			if err != nil {
				return err
			}
			if node == nil {
				fmt.Printf("node %s not found\n", args[0])
				return nil
			}
			return printJSON(node)
		})(cmd, args)
	},
}

var traverseCmd = &cobra.Command{
	Use:   "traverse",
	Short: "Vector-seeded multi-hop traversal",
	Long: `Seeds a traversal with a vector search over the document category and
walks the given hop chain. Hops are relation:direction:label triples, e.g.:

  kgsqlite traverse --text "information retrieval" \
    --hop author_write_paper:in:authors \
    --hop author_in_affiliation:out:affiliations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		vectorStr, _ := cmd.Flags().GetString("vector")
		k, _ := cmd.Flags().GetInt("k")
		hopSpecs, _ := cmd.Flags().GetStringArray("hop")

		hops, err := parseHops(hopSpecs)
		if err != nil {
			return err
		}

		return withStore(func(ctx context.Context, store *graphdb.Store) error {
			var results []graphdb.TraversalResult
			switch {
			case text != "":
				results, err = store.TraverseText(ctx, text, hops, k)
			case vectorStr != "":
				var query []float32
				query, err = parseVector(vectorStr)
				if err != nil {
					return err
				}
				results, err = store.Traverse(ctx, query, hops, k)
			default:
				return fmt.Errorf("either --text or --vector is required")
			}
			if err != nil {
				return err
			}
			return printJSON(results)
		})(cmd, args)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load nodes, edges or embeddings",
}

var loadNodesCmd = &cobra.Command{
	Use:   "nodes <csv-file>",
	Short: "Load nodes from CSV (columns: id, name, category)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *graphdb.Store) error {
			nodes, err := readNodesCSV(args[0])
			if err != nil {
				return err
			}
			if err := loader.New(store, nil).UpsertNodes(ctx, nodes); err != nil {
				return err
			}
			fmt.Printf("Loaded %d nodes\n", len(nodes))
			return nil
		})(cmd, args)
	},
}

var loadEdgesCmd = &cobra.Command{
	Use:   "edges <csv-file>",
	Short: "Load edges from CSV (columns: source_id, target_id, relation_type[, metadata])",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *graphdb.Store) error {
			edges, err := readEdgesCSV(args[0])
			if err != nil {
				return err
			}
			if err := loader.New(store, nil).UpsertEdges(ctx, edges); err != nil {
				return err
			}
			fmt.Printf("Loaded %d edges\n", len(edges))
			return nil
		})(cmd, args)
	},
}

var loadEmbeddingsCmd = &cobra.Command{
	Use:   "embeddings <json-file>",
	Short: "Load embeddings from JSON ([{\"id\": ..., \"embedding\": [...]}, ...])",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *graphdb.Store) error {
			embeddings, err := readEmbeddingsJSON(args[0])
			if err != nil {
				return err
			}
			if err := loader.New(store, nil).UpsertEmbeddings(ctx, embeddings); err != nil {
				return err
			}
			fmt.Printf("Loaded %d embeddings\n", len(embeddings))
			return nil
		})(cmd, args)
	},
}

// parseVector parses a comma-separated list of floats.
func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	vector := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", part, err)
		}
		vector = append(vector, float32(val))
	}
	return vector, nil
}

// parseHops parses relation:direction:label triples.
func parseHops(specs []string) ([]graphdb.Hop, error) {
	hops := make([]graphdb.Hop, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid hop %q: want relation:direction:label", spec)
		}
		hops = append(hops, graphdb.Hop{
			Relation:  parts[0],
			Direction: graphdb.Direction(parts[1]),
			Label:     parts[2],
		})
	}
	return hops, nil
}

func readNodesCSV(path string) ([]graphdb.Node, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idCol, err := columnIndex(header, "id")
	if err != nil {
		return nil, err
	}
	nameCol, err := columnIndex(header, "name")
	if err != nil {
		return nil, err
	}
	// The original entity exports label this column "type".
	catCol, err := columnIndex(header, "category", "type")
	if err != nil {
		return nil, err
	}

	nodes := make([]graphdb.Node, 0, len(records))
	for _, rec := range records {
		nodes = append(nodes, graphdb.Node{
			ID:       rec[idCol],
			Name:     rec[nameCol],
			Category: rec[catCol],
		})
	}
	return nodes, nil
}

func readEdgesCSV(path string) ([]graphdb.Edge, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	srcCol, err := columnIndex(header, "source_id", "entity_1_id")
	if err != nil {
		return nil, err
	}
	tgtCol, err := columnIndex(header, "target_id", "entity_2_id")
	if err != nil {
		return nil, err
	}
	relCol, err := columnIndex(header, "relation_type", "relation_id")
	if err != nil {
		return nil, err
	}
	metaCol, metaErr := columnIndex(header, "metadata")

	edges := make([]graphdb.Edge, 0, len(records))
	for _, rec := range records {
		edge := graphdb.Edge{
			SourceID: rec[srcCol],
			TargetID: rec[tgtCol],
			Relation: rec[relCol],
		}
		if metaErr == nil && rec[metaCol] != "" {
			var meta map[string]string
			if err := json.Unmarshal([]byte(rec[metaCol]), &meta); err != nil {
				return nil, fmt.Errorf("invalid metadata for edge %s->%s: %w", edge.SourceID, edge.TargetID, err)
			}
			edge.Metadata = meta
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

func readEmbeddingsJSON(path string) ([]graphdb.Embedding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []struct {
		ID        string    `json:"id"`
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing embeddings JSON: %w", err)
	}

	embeddings := make([]graphdb.Embedding, len(items))
	for i, item := range items {
		embeddings[i] = graphdb.Embedding{NodeID: item.ID, Vector: item.Embedding}
	}
	return embeddings, nil
}

func readCSV(path string) (records [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	header, err = reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, nil, err
	}

	records, err = reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return records, header, nil
}

func columnIndex(header []string, names ...string) (int, error) {
	for _, name := range names {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("missing column %q", names[0])
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides config)")
	rootCmd.PersistentFlags().IntVar(&dimension, "dim", 0, "Vector dimension (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "verbose", "v", false, "Verbose logging")

	searchCmd.Flags().String("text", "", "Query text (requires embedding provider)")
	searchCmd.Flags().String("vector", "", "Comma-separated query vector")
	searchCmd.Flags().Int("k", 5, "Number of results")
	searchCmd.Flags().String("category", "", "Restrict results to a node category")

	neighborsCmd.Flags().String("direction", "both", "Edge direction: in, out, or both")
	neighborsCmd.Flags().StringSlice("relations", nil, "Relation types to include (default: all)")

	traverseCmd.Flags().String("text", "", "Query text (requires embedding provider)")
	traverseCmd.Flags().String("vector", "", "Comma-separated query vector")
	traverseCmd.Flags().Int("k", 5, "Number of seed results")
	traverseCmd.Flags().StringArray("hop", nil, "Hop spec relation:direction:label (repeatable)")

	loadCmd.AddCommand(loadNodesCmd, loadEdgesCmd, loadEmbeddingsCmd)
	rootCmd.AddCommand(initCmd, statsCmd, searchCmd, neighborsCmd, nodeCmd, traverseCmd, loadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
