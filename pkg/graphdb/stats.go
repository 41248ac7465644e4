package graphdb

import "context"

// Stats returns aggregate counts over the store. Maps are always non-nil;
// an empty store yields zeros and empty maps.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("stats", err)
	}

	stats := &Stats{
		NodesByCategory: map[string]int{},
		EdgesByRelation: map[string]int{},
	}

	totals := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM nodes", &stats.TotalNodes},
		{"SELECT COUNT(*) FROM edges", &stats.TotalEdges},
		{"SELECT COUNT(*) FROM node_embeddings", &stats.TotalEmbeddings},
	}
	for _, q := range totals {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, wrapError("stats", err)
		}
	}

	groups := []struct {
		query string
		dest  map[string]int
	}{
		{"SELECT category, COUNT(*) FROM nodes GROUP BY category", stats.NodesByCategory},
		{"SELECT relation_type, COUNT(*) FROM edges GROUP BY relation_type", stats.EdgesByRelation},
	}
	for _, g := range groups {
		rows, err := s.db.QueryContext(ctx, g.query)
		if err != nil {
			return nil, wrapError("stats", err)
		}
		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				_ = rows.Close()
				return nil, wrapError("stats", err)
			}
			g.dest[key] = count
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, wrapError("stats", err)
		}
		_ = rows.Close()
	}

	return stats, nil
}
