package orchestrate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"agentic_recommendation/pkg/core/agent"
	"agentic_recommendation/pkg/core/buyplan"
	"agentic_recommendation/pkg/core/orchestrator"
)

// Handler serves the full-pipeline recommendation endpoints.
type Handler struct {
	Orchestrator *orchestrator.Orchestrator
	AgentMgr     *agent.Manager
}

// NewHandler creates a new orchestrate handler.
func NewHandler(orch *orchestrator.Orchestrator, agentMgr *agent.Manager) *Handler {
	return &Handler{
		Orchestrator: orch,
		AgentMgr:     agentMgr,
	}
}

type SimpleRequest struct {
	Query string `json:"query"`
}

type LLMStatus struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Status   string `json:"status"`
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Orchestrator string            `json:"orchestrator"`
	Agents       map[string]string `json:"agents"`
	LLM          LLMStatus         `json:"llm"`
	Endpoints    map[string]string `json:"endpoints"`
}

// HandleOrchestrate serves POST and GET /api/orchestrate, the full
// multi-agent recommendation.
func (h *Handler) HandleOrchestrate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	trimmed := strings.TrimRight(r.URL.Path, "/")
	if trimmed != "/api/orchestrate" {
		http.NotFound(w, r)
		return
	}

	var req orchestrator.Request
	if r.Method == "POST" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		q := r.URL.Query()
		req = orchestrator.Request{
			Query:          q.Get("query"),
			Category:       q.Get("category"),
			UserPreference: q.Get("user_preference"),
		}
		if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
			req.MinPrice = v
		}
		if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
			req.MaxPrice = v
		}
		if v, err := strconv.Atoi(q.Get("top_n")); err == nil {
			req.TopN = v
		}
	}

	h.run(w, r, req)
}

// HandleSimple serves POST /api/orchestrate/simple: just a query, with the
// defaults of three products and a balanced payment preference.
func (h *Handler) HandleSimple(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SimpleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.run(w, r, orchestrator.Request{
		Query:          req.Query,
		TopN:           orchestrator.DefaultTopN,
		UserPreference: buyplan.PreferBalanced,
	})
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, req orchestrator.Request) {
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "Search query is required", http.StatusBadRequest)
		return
	}

	result, err := h.Orchestrator.Orchestrate(r.Context(), req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Orchestration failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "No products found"
		}
		http.Error(w, msg, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleHealth serves GET /api/orchestrate/health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	provider := h.AgentMgr.GetActiveProvider()
	resp := HealthResponse{
		Status:       "healthy",
		Orchestrator: "ready",
		Agents: map[string]string{
			"product_search":    "ready",
			"review_analyzer":   "ready",
			"price_tracker":     "ready",
			"comparison":        "ready",
			"buyplan_optimizer": "ready",
		},
		LLM: LLMStatus{
			Provider: provider,
			Model:    activeModel(provider),
			Status:   providerStatus(provider),
		},
		Endpoints: map[string]string{
			"full":   "POST /api/orchestrate",
			"simple": "POST /api/orchestrate/simple",
			"get":    "GET /api/orchestrate?query=...",
			"health": "GET /api/orchestrate/health",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// activeModel resolves the model each provider would use, mirroring the
// provider defaults.
func activeModel(provider string) string {
	switch provider {
	case "ollama":
		if m := os.Getenv("OLLAMA_MODEL"); m != "" {
			return m
		}
		return "llama3.1"
	case "openai":
		if m := os.Getenv("OPENAI_MODEL"); m != "" {
			return m
		}
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-2.0-flash-exp"
	case "deepseek":
		return "deepseek-chat"
	}
	return provider
}

// providerStatus probes the local Ollama server when it is the active
// provider. Remote providers are reported as configured without a probe.
func providerStatus(provider string) string {
	if provider != "ollama" {
		return "configured"
	}

	baseURL := os.Getenv("OLLAMA_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		return "disconnected"
	}
	resp.Body.Close()
	return "connected"
}
