package graphdb

// Node is an entity in the graph. Category is an open-ended tag such as
// "paper", "author" or "affiliation"; the store imposes no enumeration.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Edge is a directed, typed relationship between two nodes. Metadata is an
// opaque key-value map stored as JSON text.
type Edge struct {
	ID       string            `json:"id"`
	SourceID string            `json:"source_id"`
	TargetID string            `json:"target_id"`
	Relation string            `json:"relation_type"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Embedding pairs a node with its fixed-dimension vector.
type Embedding struct {
	NodeID string    `json:"node_id"`
	Vector []float32 `json:"vector"`
}

// Direction selects which edges to follow from a node.
type Direction string

const (
	// DirectionOutgoing follows edges where the node is the source.
	DirectionOutgoing Direction = "out"
	// DirectionIncoming follows edges where the node is the target.
	DirectionIncoming Direction = "in"
	// DirectionBoth follows edges in either direction.
	DirectionBoth Direction = "both"
)

// SearchResult is one nearest-neighbor match from a vector search.
// Distance is the store's native metric (smaller = more similar) and defines
// the result order. Similarity is the cosine similarity between the query
// and the stored vector, attached for display; it never affects ordering.
type SearchResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
}

// Neighbor is one adjacency entry returned by GetNeighbors. Direction
// records which side of the edge the origin node was on, which matters for
// DirectionBoth queries.
type Neighbor struct {
	EdgeID    string            `json:"edge_id"`
	NodeID    string            `json:"node_id"`
	Name      string            `json:"node_name"`
	Category  string            `json:"node_category"`
	Relation  string            `json:"relation_type"`
	Metadata  map[string]string `json:"metadata"`
	Direction Direction         `json:"direction"`
}

// Hop is one step of a traversal: expand the current frontier along edges
// of Relation in Direction, attaching results under Label.
type Hop struct {
	Relation  string    `json:"relation_type"`
	Direction Direction `json:"direction"`
	Label     string    `json:"label"`
}

// TraversalNode is a neighbor reached during traversal together with the
// sub-tree discovered by expanding it at subsequent hops.
type TraversalNode struct {
	Neighbor
	Label    string           `json:"label"`
	Children []*TraversalNode `json:"children,omitempty"`
}

// TraversalResult is one seed node from the initial vector search together
// with the hop tree rooted at it. Children from different seeds never mix.
type TraversalResult struct {
	Seed     SearchResult     `json:"seed"`
	Children []*TraversalNode `json:"children,omitempty"`
}

// Stats summarizes the store contents.
type Stats struct {
	TotalNodes      int            `json:"total_nodes"`
	TotalEdges      int            `json:"total_edges"`
	TotalEmbeddings int            `json:"total_embeddings"`
	NodesByCategory map[string]int `json:"nodes_by_category"`
	EdgesByRelation map[string]int `json:"edges_by_relation_type"`
}
