package buyplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"agentic_recommendation/pkg/core/buyplan"
	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/models"
)

// Handler serves purchase planning, EMI and card offer endpoints.
type Handler struct {
	Optimizer *buyplan.Optimizer
	Products  *catalog.ProductRepo
	Offers    *catalog.OfferRepo
}

// NewHandler creates a new buyplan handler.
func NewHandler(optimizer *buyplan.Optimizer, products *catalog.ProductRepo, offers *catalog.OfferRepo) *Handler {
	return &Handler{
		Optimizer: optimizer,
		Products:  products,
		Offers:    offers,
	}
}

type PlanRequest struct {
	ProductID      int64  `json:"product_id"`
	UserPreference string `json:"user_preference"`
}

type RecommendRequest struct {
	ProductID        int64    `json:"product_id"`
	UserCards        []string `json:"user_cards"`
	BudgetPreference string   `json:"budget_preference"`
}

type OffersResponse struct {
	Success     bool               `json:"success"`
	ProductID   int64              `json:"product_id"`
	OffersCount int                `json:"offers_count"`
	Offers      []models.CardOffer `json:"offers"`
}

type EMIResponse struct {
	Success         bool              `json:"success"`
	ProductID       int64             `json:"product_id"`
	ProductName     string            `json:"product_name"`
	ProductPrice    float64           `json:"product_price"`
	EMIEligible     bool              `json:"emi_eligible"`
	Message         string            `json:"message,omitempty"`
	RegularEMIPlans []buyplan.EMIPlan `json:"regular_emi_plans,omitempty"`
	NoCostEMIPlans  []buyplan.EMIPlan `json:"no_cost_emi_plans,omitempty"`
}

type SavingsResponse struct {
	Success        bool                    `json:"success"`
	ProductID      int64                   `json:"product_id"`
	ProductName    string                  `json:"product_name"`
	ProductPrice   float64                 `json:"product_price"`
	ProductMRP     float64                 `json:"product_mrp"`
	PaymentOptions []buyplan.PaymentOption `json:"payment_options"`
	BestSavings    *buyplan.PaymentOption  `json:"best_savings"`
}

// HandlePlan serves POST /api/buyplan.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID <= 0 {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}

	h.createPlan(w, r, req.ProductID, req.UserPreference)
}

// HandlePlanByID serves GET /api/buyplan/{id}.
func (h *Handler) HandlePlanByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	productID, ok := pathID(w, r.URL.Path, "/api/buyplan/")
	if !ok {
		return
	}

	h.createPlan(w, r, productID, r.URL.Query().Get("user_preference"))
}

func (h *Handler) createPlan(w http.ResponseWriter, r *http.Request, productID int64, preference string) {
	if preference == "" {
		preference = buyplan.PreferBalanced
	}

	plan, err := h.Optimizer.CreatePlan(r.Context(), productID, preference)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Product %d not found", productID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to create purchase plan: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// HandleRecommend serves POST /api/buyplan/recommend.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID <= 0 {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}
	if req.BudgetPreference == "" {
		req.BudgetPreference = buyplan.PreferBalanced
	}

	pick, err := h.Optimizer.RecommendMethod(r.Context(), req.ProductID, req.UserCards, req.BudgetPreference)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Product %d not found", req.ProductID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to generate recommendation: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pick)
}

// HandleOffers serves GET /api/buyplan/offers/{id}, the raw card offers
// without a full plan.
func (h *Handler) HandleOffers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	productID, ok := pathID(w, r.URL.Path, "/api/buyplan/offers/")
	if !ok {
		return
	}

	offers, err := h.Offers.ActiveByProduct(r.Context(), productID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch card offers: %v", err), http.StatusInternalServerError)
		return
	}

	resp := OffersResponse{
		Success:     true,
		ProductID:   productID,
		OffersCount: len(offers),
		Offers:      offers,
	}
	if resp.Offers == nil {
		resp.Offers = []models.CardOffer{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleEMI serves GET /api/buyplan/emi/{id}. The plan_type parameter picks
// regular, no_cost or both plan sets.
func (h *Handler) HandleEMI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	productID, ok := pathID(w, r.URL.Path, "/api/buyplan/emi/")
	if !ok {
		return
	}
	planType := r.URL.Query().Get("plan_type")
	if planType == "" {
		planType = "both"
	}

	product, err := h.Products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to fetch EMI plans: %v", err), http.StatusInternalServerError)
		return
	}

	eligibility := buyplan.CheckEligibility(product.Price)
	resp := EMIResponse{
		Success:      true,
		ProductID:    productID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		EMIEligible:  eligibility.Eligible,
	}
	if !eligibility.Eligible {
		resp.Message = eligibility.Message
	} else {
		if planType == "regular" || planType == "both" {
			resp.RegularEMIPlans = buyplan.RegularEMIPlans(product.Price)
		}
		if planType == "no_cost" || planType == "both" {
			resp.NoCostEMIPlans = buyplan.NoCostEMIPlans(product.Price)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleSavings serves GET /api/buyplan/savings/{id}: every payment option
// sorted by total savings, best first.
func (h *Handler) HandleSavings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	productID, ok := pathID(w, r.URL.Path, "/api/buyplan/savings/")
	if !ok {
		return
	}

	product, err := h.Products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to calculate savings: %v", err), http.StatusInternalServerError)
		return
	}

	offers, err := h.Offers.ActiveByProduct(r.Context(), productID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to calculate savings: %v", err), http.StatusInternalServerError)
		return
	}

	mrp := product.MRP
	if mrp <= 0 {
		mrp = product.Price
	}
	options := buyplan.PaymentOptions(product.Price, mrp, offers)

	resp := SavingsResponse{
		Success:        true,
		ProductID:      productID,
		ProductName:    product.Name,
		ProductPrice:   product.Price,
		ProductMRP:     mrp,
		PaymentOptions: options,
	}
	if len(options) > 0 {
		resp.BestSavings = &options[0]
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
