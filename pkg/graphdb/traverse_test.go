package graphdb

import (
	"context"
	"testing"
)

// seedCitationGraph builds two papers with disjoint author/affiliation
// chains:
//
//	a1 -[authors]-> p1, a1 -[affiliated_with]-> f1
//	a2 -[authors]-> p2, a2 -[affiliated_with]-> f2
func seedCitationGraph(t *testing.T, store *Store) {
	t.Helper()

	seedNode(t, store, "p1", "Paper One", "paper")
	seedNode(t, store, "p2", "Paper Two", "paper")
	seedNode(t, store, "a1", "Alice", "author")
	seedNode(t, store, "a2", "Bob", "author")
	seedNode(t, store, "f1", "MIT", "affiliation")
	seedNode(t, store, "f2", "Stanford", "affiliation")

	seedEdge(t, store, "e1", "a1", "p1", "authors", "")
	seedEdge(t, store, "e2", "a2", "p2", "authors", "")
	seedEdge(t, store, "e3", "a1", "f1", "affiliated_with", "")
	seedEdge(t, store, "e4", "a2", "f2", "affiliated_with", "")

	seedVector(t, store, "p1", []float32{1, 0, 0, 0})
	seedVector(t, store, "p2", []float32{0, 1, 0, 0})
}

var authorHops = []Hop{
	{Relation: "authors", Direction: DirectionIncoming, Label: "authors"},
	{Relation: "affiliated_with", Direction: DirectionOutgoing, Label: "affiliations"},
}

func TestTraverseTwoHops(t *testing.T) {
	store := newTestStore(t)
	seedCitationGraph(t, store)

	results, err := store.Traverse(context.Background(), []float32{1, 0, 0, 0}, authorHops, 1)
	if err != nil {
		t.Fatalf("Traverse failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 seed, got %d", len(results))
	}

	seed := results[0]
	if seed.Seed.ID != "p1" {
		t.Fatalf("expected seed p1, got %s", seed.Seed.ID)
	}
	if len(seed.Children) != 1 {
		t.Fatalf("expected 1 author under p1, got %d", len(seed.Children))
	}

	author := seed.Children[0]
	if author.NodeID != "a1" || author.Label != "authors" {
		t.Errorf("unexpected first-hop node: %+v", author)
	}
	if len(author.Children) != 1 {
		t.Fatalf("expected 1 affiliation under a1, got %d", len(author.Children))
	}

	affiliation := author.Children[0]
	if affiliation.NodeID != "f1" || affiliation.Label != "affiliations" {
		t.Errorf("unexpected second-hop node: %+v", affiliation)
	}
	if len(affiliation.Children) != 0 {
		t.Errorf("hop chain exhausted, expected no further children")
	}
}

func TestTraverseSeedIsolation(t *testing.T) {
	store := newTestStore(t)
	seedCitationGraph(t, store)

	results, err := store.Traverse(context.Background(), []float32{1, 0, 0, 0}, authorHops, 2)
	if err != nil {
		t.Fatalf("Traverse failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 seeds, got %d", len(results))
	}

	// Each seed's tree contains only nodes reachable from that seed.
	wantAuthor := map[string]string{"p1": "a1", "p2": "a2"}
	wantAffiliation := map[string]string{"p1": "f1", "p2": "f2"}

	for _, r := range results {
		if len(r.Children) != 1 {
			t.Fatalf("seed %s: expected 1 author, got %d", r.Seed.ID, len(r.Children))
		}
		author := r.Children[0]
		if author.NodeID != wantAuthor[r.Seed.ID] {
			t.Errorf("seed %s: expected author %s, got %s (cross-seed contamination)",
				r.Seed.ID, wantAuthor[r.Seed.ID], author.NodeID)
		}
		if len(author.Children) != 1 {
			t.Fatalf("seed %s: expected 1 affiliation, got %d", r.Seed.ID, len(author.Children))
		}
		if author.Children[0].NodeID != wantAffiliation[r.Seed.ID] {
			t.Errorf("seed %s: expected affiliation %s, got %s",
				r.Seed.ID, wantAffiliation[r.Seed.ID], author.Children[0].NodeID)
		}
	}
}

func TestTraverseEmptyFrontier(t *testing.T) {
	store := newTestStore(t)

	// A paper with no authors: the first hop yields nothing and the second
	// hop simply never runs. Not an error.
	seedNode(t, store, "p1", "Orphan Paper", "paper")
	seedVector(t, store, "p1", []float32{1, 0, 0, 0})

	results, err := store.Traverse(context.Background(), []float32{1, 0, 0, 0}, authorHops, 5)
	if err != nil {
		t.Fatalf("Traverse failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 seed, got %d", len(results))
	}
	if len(results[0].Children) != 0 {
		t.Errorf("expected empty children for orphan paper, got %+v", results[0].Children)
	}
}

func TestTraverseSeedsRestrictedToDocumentCategory(t *testing.T) {
	store := newTestStore(t)
	seedCitationGraph(t, store)

	// Give an author an embedding; it must never appear as a seed.
	seedVector(t, store, "a1", []float32{1, 0, 0, 0})

	results, err := store.Traverse(context.Background(), []float32{1, 0, 0, 0}, nil, 10)
	if err != nil {
		t.Fatalf("Traverse failed: %v", err)
	}
	for _, r := range results {
		if r.Seed.Category != "paper" {
			t.Errorf("seed %s has category %s, want paper", r.Seed.ID, r.Seed.Category)
		}
	}
}

func TestTraverseThreeHops(t *testing.T) {
	store := newTestStore(t)
	seedCitationGraph(t, store)

	// Extend the chain: f1 is located in a city.
	seedNode(t, store, "c1", "Cambridge", "city")
	seedEdge(t, store, "e5", "f1", "c1", "located_in", "")

	hops := append(append([]Hop{}, authorHops...),
		Hop{Relation: "located_in", Direction: DirectionOutgoing, Label: "cities"})

	results, err := store.Traverse(context.Background(), []float32{1, 0, 0, 0}, hops, 1)
	if err != nil {
		t.Fatalf("Traverse failed: %v", err)
	}

	affiliation := results[0].Children[0].Children[0]
	if len(affiliation.Children) != 1 {
		t.Fatalf("expected city under f1, got %d children", len(affiliation.Children))
	}
	city := affiliation.Children[0]
	if city.NodeID != "c1" || city.Label != "cities" {
		t.Errorf("unexpected third-hop node: %+v", city)
	}
}

func TestTraverseInvalidHop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		hops []Hop
	}{
		{"empty relation", []Hop{{Relation: "", Direction: DirectionIncoming, Label: "x"}}},
		{"bad direction", []Hop{{Relation: "authors", Direction: "up", Label: "x"}}},
		{"empty label", []Hop{{Relation: "authors", Direction: DirectionIncoming, Label: ""}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Traverse(ctx, []float32{1, 0, 0, 0}, tc.hops, 5); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
