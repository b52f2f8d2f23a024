package prices

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/core/price"
)

const (
	defaultDealLimit    = 10
	maxDealLimit        = 50
	maxFlashDealLimit   = 20
	defaultMinDiscount  = 10.0
	defaultHistoryDays  = 30
	defaultChartDays    = 90
	minHistoryDays      = 7
	maxHistoryDays      = 365
	maxPriceComparisons = 10
)

// Handler serves price tracking, deal finding and history endpoints.
type Handler struct {
	Analyzer *price.Analyzer
	Deals    *price.DealFinder
	Prices   *catalog.PriceRepo
}

// NewHandler creates a new prices handler.
func NewHandler(analyzer *price.Analyzer, deals *price.DealFinder, prices *catalog.PriceRepo) *Handler {
	return &Handler{
		Analyzer: analyzer,
		Deals:    deals,
		Prices:   prices,
	}
}

type TrackRequest struct {
	ProductID int64 `json:"product_id"`
}

type CompareRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

type DealsResponse struct {
	Success  bool         `json:"success"`
	Deals    []price.Deal `json:"deals"`
	Count    int          `json:"count"`
	Category string       `json:"category"`
}

type FlashDealsResponse struct {
	Success    bool         `json:"success"`
	FlashDeals []price.Deal `json:"flash_deals"`
	Count      int          `json:"count"`
	Message    string       `json:"message"`
}

type HistoryResponse struct {
	Success   bool                 `json:"success"`
	ProductID int64                `json:"product_id"`
	History   []price.HistoryEntry `json:"history"`
	Count     int                  `json:"count"`
	Days      int                  `json:"days"`
}

type ChartResponse struct {
	Success   bool                 `json:"success"`
	ProductID int64                `json:"product_id"`
	Chart     *price.EnrichedChart `json:"chart"`
}

// HandleTrack runs the full price analysis. The product comes from the path
// suffix on GET requests and from the JSON body on POST.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var productID int64
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/prices/track"), "/")
	if rest != "" {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			http.Error(w, "Invalid product id", http.StatusBadRequest)
			return
		}
		productID = id
	} else {
		var req TrackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		productID = req.ProductID
	}
	if productID <= 0 {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.Analyzer.Analyze(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "Product not found or no price history", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Price analysis failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleDeals serves GET /api/prices/deals.
func (h *Handler) HandleDeals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	q := r.URL.Query()
	category := q.Get("category")
	limit := clampInt(q.Get("limit"), defaultDealLimit, 1, maxDealLimit)
	minDiscount := defaultMinDiscount
	if raw := q.Get("min_discount"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			minDiscount = v
		}
	}

	deals, err := h.Deals.FindDeals(r.Context(), category, minDiscount, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch deals: %v", err), http.StatusInternalServerError)
		return
	}

	label := category
	if label == "" {
		label = "All Categories"
	}
	resp := DealsResponse{
		Success:  true,
		Deals:    deals,
		Count:    len(deals),
		Category: label,
	}
	if resp.Deals == nil {
		resp.Deals = []price.Deal{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleFlashDeals serves GET /api/prices/flash-deals.
func (h *Handler) HandleFlashDeals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	q := r.URL.Query()
	category := q.Get("category")
	limit := clampInt(q.Get("limit"), defaultDealLimit, 1, maxFlashDealLimit)

	deals, err := h.Deals.FindFlashDeals(r.Context(), category, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch flash deals: %v", err), http.StatusInternalServerError)
		return
	}

	resp := FlashDealsResponse{
		Success:    true,
		FlashDeals: deals,
		Count:      len(deals),
		Message:    fmt.Sprintf("Found %d flash deals - Act fast!", len(deals)),
	}
	if resp.FlashDeals == nil {
		resp.FlashDeals = []price.Deal{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHistory serves GET /api/prices/history/{id}.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	productID, ok := pathID(w, r.URL.Path, "/api/prices/history/")
	if !ok {
		return
	}
	days := clampInt(r.URL.Query().Get("days"), defaultHistoryDays, minHistoryDays, maxHistoryDays)

	points, err := h.Prices.History(r.Context(), productID, days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(points) == 0 {
		http.Error(w, fmt.Sprintf("No price history found for product %d", productID), http.StatusNotFound)
		return
	}

	history := price.HistoryFromPoints(points)
	resp := HistoryResponse{
		Success:   true,
		ProductID: productID,
		History:   history,
		Count:     len(history),
		Days:      days,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleChart serves GET /api/prices/chart/{id}, the enriched chart payload
// with zones, annotations and insights for frontend rendering.
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	productID, ok := pathID(w, r.URL.Path, "/api/prices/chart/")
	if !ok {
		return
	}
	days := clampInt(r.URL.Query().Get("days"), defaultChartDays, minHistoryDays, maxHistoryDays)

	points, err := h.Prices.History(r.Context(), productID, days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(points) == 0 {
		http.Error(w, fmt.Sprintf("No price history found for product %d", productID), http.StatusNotFound)
		return
	}

	chart, err := price.BuildEnrichedChart(price.HistoryFromPoints(points), days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	resp := ChartResponse{
		Success:   true,
		ProductID: productID,
		Chart:     chart,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleCompare serves POST /api/prices/compare.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.ProductIDs) < 2 {
		http.Error(w, "Please provide at least 2 product IDs to compare", http.StatusBadRequest)
		return
	}
	if len(req.ProductIDs) > maxPriceComparisons {
		http.Error(w, "Maximum 10 products can be compared at once", http.StatusBadRequest)
		return
	}

	result := h.Analyzer.ComparePrices(r.Context(), req.ProductIDs)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
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

func clampInt(raw string, fallback, low, high int) int {
	v := fallback
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			v = parsed
		}
	}
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
