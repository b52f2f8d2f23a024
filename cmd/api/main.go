package main

import (
	"agentic_recommendation/pkg/api/buyplan"
	"agentic_recommendation/pkg/api/comparisons"
	"agentic_recommendation/pkg/api/config"
	"agentic_recommendation/pkg/api/orchestrate"
	"agentic_recommendation/pkg/api/prices"
	"agentic_recommendation/pkg/api/products"
	"agentic_recommendation/pkg/api/reviews"
	"agentic_recommendation/pkg/core/agent"
	coreBuyplan "agentic_recommendation/pkg/core/buyplan"
	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/core/compare"
	"agentic_recommendation/pkg/core/orchestrator"
	"agentic_recommendation/pkg/core/price"
	"agentic_recommendation/pkg/core/prompt"
	"agentic_recommendation/pkg/core/review"
	"agentic_recommendation/pkg/core/search"
	"agentic_recommendation/pkg/core/vectorindex"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

var agentMgr *agent.Manager

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		// Try from executable directory
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	// Initialize manager from config
	configData, _ := ioutil.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr = agent.NewManager(agentCfg)

	// Connect the product catalog database
	ctx := context.Background()
	if err := catalog.InitDB(ctx); err != nil {
		fmt.Printf("[FATAL] Database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer catalog.Close()

	productRepo := catalog.NewProductRepo()
	priceRepo := catalog.NewPriceRepo()
	reviewRepo := catalog.NewReviewRepo()
	offerRepo := catalog.NewOfferRepo()

	// Vector index for semantic retrieval. Without embeddings the search
	// engine degrades to catalog predicates.
	index := vectorindex.NewChromaIndex()
	var embedder vectorindex.Embedder
	if ge, err := vectorindex.NewGeminiEmbedder(ctx); err != nil {
		fmt.Printf("[WARNING] Gemini embedder unavailable: %v\n", err)
		fmt.Println("  Search will use catalog predicates only")
	} else {
		embedder = ge
	}

	// Core agents
	engine := search.NewEngine(productRepo, reviewRepo, priceRepo, offerRepo, index, embedder, agentMgr)
	reviewAnalyzer := review.NewAnalyzer(reviewRepo, agentMgr)
	priceAnalyzer := price.NewAnalyzer(productRepo, priceRepo, agentMgr)
	dealFinder := price.NewDealFinder(productRepo, priceRepo)
	comparator := compare.NewComparator(productRepo, engine, agentMgr)
	optimizer := coreBuyplan.NewOptimizer(productRepo, offerRepo, agentMgr)
	orch := orchestrator.NewOrchestrator(engine, reviewAnalyzer, priceAnalyzer, comparator, optimizer, agentMgr)

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Product search endpoints
	productsHandler := products.NewHandler(engine, productRepo)
	http.HandleFunc("/api/products/search", productsHandler.HandleSearch)
	http.HandleFunc("/api/products/", productsHandler.HandleProduct)

	// Review endpoints
	reviewsHandler := reviews.NewHandler(reviewAnalyzer, reviewRepo)
	http.HandleFunc("/api/reviews/analyze/", reviewsHandler.HandleAnalyze)
	http.HandleFunc("/api/reviews/", reviewsHandler.HandleReviews)

	// Price tracking endpoints
	pricesHandler := prices.NewHandler(priceAnalyzer, dealFinder, priceRepo)
	http.HandleFunc("/api/prices/track", pricesHandler.HandleTrack)
	http.HandleFunc("/api/prices/track/", pricesHandler.HandleTrack)
	http.HandleFunc("/api/prices/deals", pricesHandler.HandleDeals)
	http.HandleFunc("/api/prices/flash-deals", pricesHandler.HandleFlashDeals)
	http.HandleFunc("/api/prices/history/", pricesHandler.HandleHistory)
	http.HandleFunc("/api/prices/chart/", pricesHandler.HandleChart)
	http.HandleFunc("/api/prices/compare", pricesHandler.HandleCompare)

	// Comparison endpoints
	comparisonsHandler := comparisons.NewHandler(comparator)
	http.HandleFunc("/api/compare", comparisonsHandler.HandleCompare)
	http.HandleFunc("/api/compare/winner", comparisonsHandler.HandleWinner)
	http.HandleFunc("/api/compare/battle/", comparisonsHandler.HandleBattle)
	http.HandleFunc("/api/compare/table", comparisonsHandler.HandleTable)
	http.HandleFunc("/api/compare/search", comparisonsHandler.HandleSearchCompare)

	// Buy plan endpoints
	buyplanHandler := buyplan.NewHandler(optimizer, productRepo, offerRepo)
	http.HandleFunc("/api/buyplan", buyplanHandler.HandlePlan)
	http.HandleFunc("/api/buyplan/", buyplanHandler.HandlePlanByID)
	http.HandleFunc("/api/buyplan/recommend", buyplanHandler.HandleRecommend)
	http.HandleFunc("/api/buyplan/offers/", buyplanHandler.HandleOffers)
	http.HandleFunc("/api/buyplan/emi/", buyplanHandler.HandleEMI)
	http.HandleFunc("/api/buyplan/savings/", buyplanHandler.HandleSavings)

	// Orchestrator endpoints
	orchestrateHandler := orchestrate.NewHandler(orch, agentMgr)
	http.HandleFunc("/api/orchestrate", orchestrateHandler.HandleOrchestrate)
	http.HandleFunc("/api/orchestrate/", orchestrateHandler.HandleOrchestrate)
	http.HandleFunc("/api/orchestrate/simple", orchestrateHandler.HandleSimple)
	http.HandleFunc("/api/orchestrate/health", orchestrateHandler.HandleHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/orchestrate  (full multi-agent recommendation)")
	fmt.Println("  - POST /api/orchestrate/simple")
	fmt.Println("  - GET  /api/orchestrate/health")
	fmt.Println("  - POST /api/products/search")
	fmt.Println("  - GET  /api/products/{id}")
	fmt.Println("  - GET  /api/reviews/analyze/{id}")
	fmt.Println("  - GET  /api/prices/track/{id}")
	fmt.Println("  - GET  /api/prices/deals")
	fmt.Println("  - GET  /api/prices/flash-deals")
	fmt.Println("  - POST /api/compare")
	fmt.Println("  - POST /api/compare/search")
	fmt.Println("  - POST /api/buyplan")
	fmt.Println("  - POST /api/buyplan/recommend")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")

	// Use os.Exit(1) if the server fails to start (e.g. port in use)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
