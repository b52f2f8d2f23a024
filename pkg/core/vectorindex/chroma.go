package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"agentic_recommendation/pkg/models"
)

// ChromaIndex queries a Chroma server over its REST API. The collection name
// is resolved to its ID once and cached for the life of the process.
type ChromaIndex struct {
	baseURL    string
	collection string
	client     *http.Client

	mu           sync.Mutex
	collectionID string
}

// NewChromaIndex builds an index client from CHROMA_URL and CHROMA_COLLECTION.
// Defaults match a local dev server with the standard product collection.
func NewChromaIndex() *ChromaIndex {
	baseURL := os.Getenv("CHROMA_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	collection := os.Getenv("CHROMA_COLLECTION")
	if collection == "" {
		collection = "products"
	}
	return &ChromaIndex{
		baseURL:    baseURL,
		collection: collection,
		client:     &http.Client{},
	}
}

type chromaCollection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type chromaQueryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

type chromaQueryResponse struct {
	IDs       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float64                `json:"distances"`
}

func (c *ChromaIndex) resolveCollection(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.collectionID != "" {
		return c.collectionID, nil
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("CHROMA_REQ_CREATE_ERROR: %v", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("CHROMA_API_CALL_ERROR: %v", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("CHROMA_READ_BODY_ERROR: %v", err)
	}
	if res.StatusCode != 200 {
		return "", fmt.Errorf("CHROMA_COLLECTION_NOT_FOUND: collection=%s status=%d body=%s", c.collection, res.StatusCode, string(body))
	}

	var col chromaCollection
	if err := json.Unmarshal(body, &col); err != nil {
		return "", fmt.Errorf("CHROMA_UNMARSHAL_ERROR: %v", err)
	}
	if col.ID == "" {
		return "", fmt.Errorf("CHROMA_COLLECTION_NOT_FOUND: empty id for collection %s", c.collection)
	}

	c.collectionID = col.ID
	return c.collectionID, nil
}

// Query runs a nearest-neighbour search and converts Chroma distances into
// similarities (1 - distance, rounded to 4 decimals).
func (c *ChromaIndex) Query(ctx context.Context, vector []float32, topN int) ([]Match, error) {
	if topN <= 0 {
		topN = 10
	}

	collectionID, err := c.resolveCollection(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := chromaQueryRequest{
		QueryEmbeddings: [][]float32{vector},
		NResults:        topN,
		Include:         []string{"documents", "metadatas", "distances"},
	}
	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("CHROMA_MARSHAL_ERROR: %v", err)
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s/query", c.baseURL, collectionID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("CHROMA_REQ_CREATE_ERROR: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CHROMA_API_CALL_ERROR: %v", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("CHROMA_READ_BODY_ERROR: %v", err)
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("CHROMA_API_ERROR: status=%d body=%s", res.StatusCode, string(body))
	}

	var response chromaQueryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("CHROMA_UNMARSHAL_ERROR: %v", err)
	}

	return flattenChromaResponse(response), nil
}

// flattenChromaResponse converts the column-oriented Chroma payload into
// Matches. The server returns one inner slice per query embedding; we always
// send exactly one.
func flattenChromaResponse(response chromaQueryResponse) []Match {
	if len(response.IDs) == 0 {
		return nil
	}

	ids := response.IDs[0]
	matches := make([]Match, 0, len(ids))
	for i := range ids {
		m := Match{}

		if len(response.Documents) > 0 && i < len(response.Documents[0]) {
			m.Document = response.Documents[0][i]
		}
		if len(response.Metadatas) > 0 && i < len(response.Metadatas[0]) {
			m.Metadata = response.Metadatas[0][i]
		}
		if len(response.Distances) > 0 && i < len(response.Distances[0]) {
			m.Similarity = models.Round4(1 - response.Distances[0][i])
		}
		m.ProductID = int64(m.MetaFloat("product_id"))

		matches = append(matches, m)
	}
	return matches
}
