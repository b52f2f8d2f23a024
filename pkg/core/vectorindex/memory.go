package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"agentic_recommendation/pkg/models"
)

// =============================================================================
// IN-MEMORY INDEX (For development/testing)
// Production should use a Chroma server via ChromaIndex
// =============================================================================

type memoryEntry struct {
	productID int64
	vector    []float32
	document  string
	metadata  map[string]interface{}
}

// MemoryIndex implements Index with brute-force cosine similarity.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[int64]memoryEntry
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[int64]memoryEntry)}
}

// Upsert adds or replaces a product document and its vector.
func (idx *MemoryIndex) Upsert(productID int64, vector []float32, document string, metadata map[string]interface{}) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector for product %d", productID)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[productID] = memoryEntry{
		productID: productID,
		vector:    vector,
		document:  document,
		metadata:  metadata,
	}
	return nil
}

// Len returns the number of indexed documents.
func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Query scores every entry against the vector and returns the topN closest.
func (idx *MemoryIndex) Query(ctx context.Context, vector []float32, topN int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = 10
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	matches := make([]Match, 0, len(idx.entries))
	for _, e := range idx.entries {
		sim, err := cosineSimilarity(vector, e.vector)
		if err != nil {
			continue
		}
		matches = append(matches, Match{
			ProductID:  e.productID,
			Similarity: models.Round4(sim),
			Document:   e.document,
			Metadata:   e.metadata,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ProductID < matches[j].ProductID
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
