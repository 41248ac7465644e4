package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestMockDeterministic(t *testing.T) {
	m := NewMockProvider(8)
	ctx := context.Background()

	a, err := m.Embed(ctx, "machine learning")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := m.Embed(ctx, "machine learning")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same text produced different embeddings at %d", i)
		}
	}

	c, err := m.Embed(ctx, "something else")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical embeddings")
	}
}

func TestMockUnitLength(t *testing.T) {
	m := NewMockProvider(16)

	vec, err := m.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 16 {
		t.Fatalf("expected dimension 16, got %d", len(vec))
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
		t.Errorf("expected unit-length vector, norm is %v", math.Sqrt(sum))
	}
}

func TestMockBatch(t *testing.T) {
	m := NewMockProvider(4)
	ctx := context.Background()

	texts := []string{"a", "b", "c"}
	vectors, err := m.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}

	// Batch output matches per-text output position by position.
	for i, text := range texts {
		single, err := m.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed failed: %v", err)
		}
		for j := range single {
			if vectors[i][j] != single[j] {
				t.Fatalf("batch vector %d differs from single embed", i)
			}
		}
	}
}

func TestMockEmptyText(t *testing.T) {
	m := NewMockProvider(4)
	if _, err := m.Embed(context.Background(), ""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}
