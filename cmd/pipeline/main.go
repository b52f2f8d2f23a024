package main

import (
	"agentic_recommendation/pkg/core/agent"
	"agentic_recommendation/pkg/core/buyplan"
	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/core/compare"
	"agentic_recommendation/pkg/core/orchestrator"
	"agentic_recommendation/pkg/core/price"
	"agentic_recommendation/pkg/core/review"
	"agentic_recommendation/pkg/core/search"
	"agentic_recommendation/pkg/core/utils"
	"agentic_recommendation/pkg/core/vectorindex"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	query := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if query == "" {
		query = "gaming laptop"
	}

	fmt.Println("🚀 Recommendation Pipeline Starting...")

	// 1. Agent manager from config
	configData, _ := ioutil.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr := agent.NewManager(agentCfg)

	// 2. Catalog database
	ctx := context.Background()
	if err := catalog.InitDB(ctx); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer catalog.Close()

	productRepo := catalog.NewProductRepo()
	priceRepo := catalog.NewPriceRepo()
	reviewRepo := catalog.NewReviewRepo()
	offerRepo := catalog.NewOfferRepo()

	index := vectorindex.NewChromaIndex()
	var embedder vectorindex.Embedder
	if ge, err := vectorindex.NewGeminiEmbedder(ctx); err != nil {
		log.Printf("Warning: Gemini embedder unavailable (%v), search falls back to catalog predicates", err)
	} else {
		embedder = ge
	}

	// 3. Agent wiring
	engine := search.NewEngine(productRepo, reviewRepo, priceRepo, offerRepo, index, embedder, agentMgr)
	reviewAnalyzer := review.NewAnalyzer(reviewRepo, agentMgr)
	priceAnalyzer := price.NewAnalyzer(productRepo, priceRepo, agentMgr)
	comparator := compare.NewComparator(productRepo, engine, agentMgr)
	optimizer := buyplan.NewOptimizer(productRepo, offerRepo, agentMgr)
	orch := orchestrator.NewOrchestrator(engine, reviewAnalyzer, priceAnalyzer, comparator, optimizer, agentMgr)

	// 4. One-shot orchestrated run
	fmt.Printf("🔍 Orchestrating recommendation for %q...\n", query)
	resp, err := orch.Orchestrate(ctx, orchestrator.Request{
		Query:          query,
		TopN:           orchestrator.DefaultTopN,
		UserPreference: buyplan.PreferBalanced,
	})
	if err != nil {
		log.Fatalf("Orchestration failed: %v", err)
	}
	if !resp.Success {
		log.Fatalf("Orchestration returned no results: %s", resp.Error)
	}

	// 5. REPORT
	fmt.Println("\n################################################################################")
	fmt.Println("                 RECOMMENDATION ENGINE - SHOPPING REPORT")
	fmt.Printf("                 Query: %s\n", resp.Query)
	fmt.Println("################################################################################")

	// [1] SUMMARY
	if s := resp.Summary; s != nil {
		fmt.Println("\n[1] SUMMARY")
		fmt.Printf("Products found:      %d\n", s.TotalProductsFound)
		fmt.Printf("Top recommendation:  %s\n", s.TopRecommendation)
		fmt.Printf("Top price:           %s\n", utils.FormatINR(s.TopPrice))
		fmt.Printf("Top rating:          %.1f/5\n", s.TopRating)
		fmt.Printf("Verdict:             %s\n", s.AIRecommendation)
	}

	// [2] TOP PRODUCTS
	fmt.Println("\n[2] TOP PRODUCTS")
	fmt.Printf("%-4s | %-34s | %12s | %6s | %s\n", "Rank", "Product", "Price", "Rating", "Trend")
	fmt.Println(strings.Repeat("-", 80))
	for _, p := range resp.Products {
		fmt.Printf("#%-3d | %-34s | %12s | %6.1f | %s\n",
			p.Rank, truncate(p.Name, 34), utils.FormatINR(p.Pricing.CurrentPrice),
			p.Ratings.AverageRating, orDash(p.PriceTracking.PriceTrend))
	}
	fmt.Println(strings.Repeat("-", 80))

	// [3] COMPARISON
	if c := resp.Comparison; c != nil && c.Available && c.Winner != nil {
		fmt.Println("\n[3] COMPARISON")
		fmt.Printf("Winner:              %s\n", c.Winner.ProductName)
		fmt.Printf("Reason:              %s\n", c.Winner.Reason)
	}

	// [4] BUY PLAN
	if b := resp.BuyPlan; b != nil && b.Available {
		fmt.Println("\n[4] BUY PLAN")
		fmt.Printf("Product:             %s (%s)\n", b.ProductName, utils.FormatINR(b.ProductPrice))
		fmt.Printf("EMI eligible:        %v\n", b.EMIEligible)
		if len(b.PaymentOptions) > 0 {
			best := b.PaymentOptions[0]
			fmt.Printf("Best option:         %s (save %s)\n", best.OptionName, utils.FormatINR(best.TotalSavings))
		}
	}

	// [5] PRICE HISTORY for the top pick
	if len(resp.Products) > 0 {
		top := resp.Products[0]
		if points, err := priceRepo.History(ctx, top.ID, 30); err == nil && len(points) > 0 {
			fmt.Println("\n[5] PRICE HISTORY (30 days)")
			fmt.Println(price.RenderASCII(price.HistoryFromPoints(points), 0))
		}
	}

	// Full payload for smoke checks
	payload, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode response: %v", err)
	}
	fmt.Println("\n[JSON] Full response payload:")
	fmt.Println(string(payload))

	fmt.Println("\n[Done] Recommendation complete.")
}
