package vectorindex

import "context"

// Match is a single nearest-neighbour hit against the product index.
type Match struct {
	ProductID  int64                  `json:"product_id"`
	Similarity float64                `json:"similarity"`
	Document   string                 `json:"document"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// MetaString reads a string field from the match metadata.
func (m Match) MetaString(key string) string {
	if m.Metadata == nil {
		return ""
	}
	if v, ok := m.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// MetaFloat reads a numeric field from the match metadata. JSON numbers
// arrive as float64; integer-typed values are converted.
func (m Match) MetaFloat(key string) float64 {
	if m.Metadata == nil {
		return 0
	}
	switch v := m.Metadata[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index answers nearest-neighbour queries over product documents.
type Index interface {
	Query(ctx context.Context, vector []float32, topN int) ([]Match, error)
}
