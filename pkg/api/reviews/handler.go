package reviews

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/core/review"
	"agentic_recommendation/pkg/models"
)

const defaultListLimit = 20

// Handler serves review analysis and raw review listing endpoints.
type Handler struct {
	Analyzer *review.Analyzer
	Reviews  *catalog.ReviewRepo
}

// NewHandler creates a new reviews handler.
func NewHandler(analyzer *review.Analyzer, reviews *catalog.ReviewRepo) *Handler {
	return &Handler{
		Analyzer: analyzer,
		Reviews:  reviews,
	}
}

// ListResponse wraps the raw reviews of one product with their statistics.
type ListResponse struct {
	Success    bool              `json:"success"`
	ProductID  int64             `json:"product_id"`
	Reviews    []models.Review   `json:"reviews"`
	Statistics review.Statistics `json:"statistics"`
}

// HandleAnalyze serves GET /api/reviews/analyze/{id}.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	productID, ok := pathID(w, r.URL.Path, "/api/reviews/analyze/")
	if !ok {
		return
	}

	fmt.Printf("[API] Review analysis: product %d\n", productID)

	result, err := h.Analyzer.Analyze(r.Context(), productID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Analysis failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Analysis failed"
		}
		status := http.StatusInternalServerError
		if strings.Contains(strings.ToLower(msg), "not found") {
			status = http.StatusNotFound
		}
		http.Error(w, msg, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleReviews serves GET /api/reviews/{id}, the raw review listing with
// aggregate statistics and no AI involvement.
func (h *Handler) HandleReviews(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	productID, ok := pathID(w, r.URL.Path, "/api/reviews/")
	if !ok {
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	found, err := h.Reviews.ListByProduct(r.Context(), productID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := ListResponse{
		Success:    true,
		ProductID:  productID,
		Reviews:    found,
		Statistics: review.ComputeStatistics(found),
	}
	if resp.Reviews == nil {
		resp.Reviews = []models.Review{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func pathID(w http.ResponseWriter, path, prefix string) (int64, bool) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
