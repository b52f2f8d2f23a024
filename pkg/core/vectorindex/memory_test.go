package vectorindex

import (
	"context"
	"testing"
)

func seedIndex(t *testing.T) *MemoryIndex {
	t.Helper()
	idx := NewMemoryIndex()

	docs := []struct {
		id     int64
		vector []float32
		doc    string
		meta   map[string]interface{}
	}{
		{1, []float32{1, 0, 0}, "wireless earbuds with noise cancellation", map[string]interface{}{"product_id": float64(1), "category": "Electronics", "price": 2999.0}},
		{2, []float32{0.9, 0.1, 0}, "bluetooth headphones over-ear", map[string]interface{}{"product_id": float64(2), "category": "Electronics", "price": 4999.0}},
		{3, []float32{0, 0, 1}, "stainless steel water bottle", map[string]interface{}{"product_id": float64(3), "category": "Home", "price": 899.0}},
	}
	for _, d := range docs {
		if err := idx.Upsert(d.id, d.vector, d.doc, d.meta); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}
	return idx
}

func TestMemoryIndexQueryOrdering(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Query(context.Background(), []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].ProductID != 1 {
		t.Errorf("expected exact match first, got product %d", matches[0].ProductID)
	}
	if matches[1].ProductID != 2 {
		t.Errorf("expected near match second, got product %d", matches[1].ProductID)
	}
	if matches[0].Similarity != 1 {
		t.Errorf("expected similarity 1 for identical vector, got %v", matches[0].Similarity)
	}
	if matches[2].Similarity != 0 {
		t.Errorf("expected similarity 0 for orthogonal vector, got %v", matches[2].Similarity)
	}
}

func TestMemoryIndexTopNTruncation(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Query(context.Background(), []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
}

func TestMemoryIndexMetadataAccess(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Query(context.Background(), []float32{0, 0, 1}, 1)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	m := matches[0]
	if m.MetaString("category") != "Home" {
		t.Errorf("expected category Home, got %q", m.MetaString("category"))
	}
	if m.MetaFloat("price") != 899.0 {
		t.Errorf("expected price 899, got %v", m.MetaFloat("price"))
	}
	if m.MetaString("missing") != "" || m.MetaFloat("missing") != 0 {
		t.Error("expected zero values for missing metadata keys")
	}
}

func TestMemoryIndexUpsertReplaces(t *testing.T) {
	idx := seedIndex(t)

	if err := idx.Upsert(1, []float32{0, 1, 0}, "updated doc", nil); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if idx.Len() != 3 {
		t.Errorf("expected upsert to replace, index has %d entries", idx.Len())
	}

	matches, err := idx.Query(context.Background(), []float32{0, 1, 0}, 1)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if matches[0].ProductID != 1 || matches[0].Document != "updated doc" {
		t.Errorf("expected replaced entry to rank first, got %+v", matches[0])
	}
}

func TestMemoryIndexRejectsEmptyVector(t *testing.T) {
	idx := NewMemoryIndex()
	if err := idx.Upsert(1, nil, "doc", nil); err == nil {
		t.Error("expected error for empty vector")
	}
}

func TestFlattenChromaResponse(t *testing.T) {
	resp := chromaQueryResponse{
		IDs:       [][]string{{"a", "b"}},
		Documents: [][]string{{"doc a", "doc b"}},
		Metadatas: [][]map[string]interface{}{{
			{"product_id": float64(11), "category": "Electronics"},
			{"product_id": float64(22), "category": "Home"},
		}},
		Distances: [][]float64{{0.12345, 0.5}},
	}

	matches := flattenChromaResponse(resp)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ProductID != 11 {
		t.Errorf("expected product 11, got %d", matches[0].ProductID)
	}
	if matches[0].Similarity != 0.8765 {
		t.Errorf("expected similarity 0.8765, got %v", matches[0].Similarity)
	}
	if matches[1].Document != "doc b" {
		t.Errorf("expected doc b, got %q", matches[1].Document)
	}
}

func TestFlattenChromaResponseEmpty(t *testing.T) {
	if matches := flattenChromaResponse(chromaQueryResponse{}); matches != nil {
		t.Errorf("expected nil for empty response, got %v", matches)
	}
}
