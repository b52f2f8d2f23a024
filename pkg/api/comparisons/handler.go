package comparisons

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"agentic_recommendation/pkg/core/compare"
)

const (
	minCompareTopN = 2
	maxCompareTopN = 5
)

// Handler serves the product comparison endpoints.
type Handler struct {
	Comparator *compare.Comparator
}

// NewHandler creates a new comparisons handler.
func NewHandler(comparator *compare.Comparator) *Handler {
	return &Handler{Comparator: comparator}
}

type CompareRequest struct {
	ProductIDs []int64 `json:"product_ids"`
	Style      string  `json:"style"`
}

type WinnerRequest struct {
	ProductIDs []int64 `json:"product_ids"`
	UseCase    string  `json:"use_case"`
}

type SearchCompareRequest struct {
	Query string `json:"query"`
	TopN  int    `json:"top_n"`
	Style string `json:"comparison_style"`
}

// HandleCompare serves POST and GET /api/compare.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var ids []int64
	var style string
	if r.Method == "POST" {
		var req CompareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		ids = req.ProductIDs
		style = req.Style
	} else {
		parsed, ok := parseIDList(w, r.URL.Query().Get("product_ids"))
		if !ok {
			return
		}
		ids = parsed
		style = r.URL.Query().Get("style")
	}

	if style == "" {
		style = compare.DefaultStyle
	}
	if !compare.ValidStyle(style) {
		msg := fmt.Sprintf("Invalid style. Must be one of: %s", strings.Join(compare.Styles(), ", "))
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	h.runCompare(w, r, ids, style)
}

// HandleWinner serves POST /api/compare/winner.
func (h *Handler) HandleWinner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req WinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Comparator.WinnerRecommendation(r.Context(), req.ProductIDs, req.UseCase)
	if err != nil {
		http.Error(w, fmt.Sprintf("Winner selection failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Winner selection failed"
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleBattle serves GET /api/compare/battle/{id1}/{id2}.
func (h *Handler) HandleBattle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/compare/battle/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		http.Error(w, "Battle needs exactly two product ids in the path", http.StatusBadRequest)
		return
	}
	first, err1 := strconv.ParseInt(parts[0], 10, 64)
	second, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "Invalid product ids", http.StatusBadRequest)
		return
	}

	h.runCompare(w, r, []int64{first, second}, compare.StyleBattle)
}

// HandleTable serves GET /api/compare/table. When the attributes parameter is
// present the frontend table is rebuilt on a copy of the result so the cached
// comparison stays untouched.
func (h *Handler) HandleTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	ids, ok := parseIDList(w, r.URL.Query().Get("product_ids"))
	if !ok {
		return
	}

	result, err := h.Comparator.Compare(r.Context(), ids, compare.StyleTable)
	if err != nil {
		http.Error(w, fmt.Sprintf("Table comparison failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Table comparison failed"
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	if raw := r.URL.Query().Get("attributes"); raw != "" {
		attrs := splitCSV(raw)
		custom := *result
		custom.FrontendTable = compare.FrontendTable(result.Products, attrs)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&custom)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleSearchCompare serves POST /api/compare/search, the integrated
// search-then-compare workflow.
func (h *Handler) HandleSearchCompare(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SearchCompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "Search query is required", http.StatusBadRequest)
		return
	}
	if req.TopN == 0 {
		req.TopN = 3
	}
	if req.TopN < minCompareTopN || req.TopN > maxCompareTopN {
		http.Error(w, "top_n must be between 2 and 5", http.StatusBadRequest)
		return
	}
	if req.Style == "" {
		req.Style = compare.DefaultStyle
	}

	fmt.Printf("[API] Search and compare: %q\n", req.Query)

	result, err := h.Comparator.CompareSearchResults(r.Context(), req.Query, req.TopN, req.Style)
	if err != nil {
		http.Error(w, fmt.Sprintf("Search and compare failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Search and compare failed"
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) runCompare(w http.ResponseWriter, r *http.Request, ids []int64, style string) {
	result, err := h.Comparator.Compare(r.Context(), ids, style)
	if err != nil {
		http.Error(w, fmt.Sprintf("Comparison failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Comparison failed"
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func parseIDList(w http.ResponseWriter, raw string) ([]int64, bool) {
	parts := splitCSV(raw)
	if len(parts) == 0 {
		http.Error(w, "product_ids is required", http.StatusBadRequest)
		return nil, false
	}
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			http.Error(w, "Invalid product IDs format. Use comma-separated integers (e.g., '1,2,3')", http.StatusBadRequest)
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
