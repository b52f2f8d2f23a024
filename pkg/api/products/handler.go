package products

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/core/search"
	"agentic_recommendation/pkg/models"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	defaultListLimit   = 20
	maxListLimit       = 100
)

// Handler serves product search and catalog lookup endpoints.
type Handler struct {
	Engine   *search.Engine
	Products *catalog.ProductRepo
}

// NewHandler creates a new products handler.
func NewHandler(engine *search.Engine, products *catalog.ProductRepo) *Handler {
	return &Handler{
		Engine:   engine,
		Products: products,
	}
}

// ListItem is the trimmed product shape returned by the plain catalog listing.
type ListItem struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	MRP         float64  `json:"mrp"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Features    []string `json:"features"`
}

// ListResponse wraps the plain catalog listing.
type ListResponse struct {
	Success  bool       `json:"success"`
	Count    int        `json:"count"`
	Limit    int        `json:"limit"`
	Products []ListItem `json:"products"`
}

// HandleSearch runs the hybrid search for POST bodies and GET query params.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req search.Request
	if r.Method == "POST" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		q := r.URL.Query()
		req = search.Request{
			Query:     q.Get("query"),
			Category:  q.Get("category"),
			MinPrice:  queryFloat(q.Get("min_price")),
			MaxPrice:  queryFloat(q.Get("max_price")),
			MinRating: queryFloat(q.Get("min_rating")),
			Limit:     queryInt(q.Get("limit")),
		}
	}

	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "Search query is required", http.StatusBadRequest)
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	} else if req.Limit > maxSearchLimit {
		req.Limit = maxSearchLimit
	}

	fmt.Printf("[API] Product search: %q\n", req.Query)

	result, err := h.Engine.Search(r.Context(), req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Search failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleProduct dispatches /api/products/ requests: the bare path lists the
// catalog, a numeric suffix returns the full detail view for that product.
func (h *Handler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products"), "/")
	if rest == "" {
		h.list(w, r)
		return
	}

	productID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	result, err := h.Engine.ProductDetails(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Product %d not found", productID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to get product details: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// list serves the filterable catalog listing without any AI involvement.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := queryInt(q.Get("limit"))
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := catalog.SearchFilter{
		Category:  q.Get("category"),
		Brand:     q.Get("brand"),
		MinPrice:  queryFloat(q.Get("min_price")),
		MaxPrice:  queryFloat(q.Get("max_price")),
		MinRating: queryFloat(q.Get("min_rating")),
		Limit:     limit,
	}

	found, err := h.Products.Search(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := ListResponse{
		Success:  true,
		Count:    len(found),
		Limit:    limit,
		Products: make([]ListItem, 0, len(found)),
	}
	for _, p := range found {
		resp.Products = append(resp.Products, listItem(p))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func listItem(p models.Product) ListItem {
	mrp := p.MRP
	if mrp <= 0 {
		mrp = p.Price
	}
	features := p.Features
	if len(features) > 3 {
		features = features[:3]
	}
	return ListItem{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Model:       p.Model,
		Category:    p.Category,
		Price:       p.Price,
		MRP:         mrp,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		Features:    features,
	}
}

func queryFloat(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func queryInt(raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
