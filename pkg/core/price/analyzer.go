package price

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentic_recommendation/pkg/core/agent"
	"agentic_recommendation/pkg/core/cache"
	"agentic_recommendation/pkg/core/utils"
	"agentic_recommendation/pkg/models"
)

const (
	historyDays      = 30
	historyInPayload = 10
	narrativeTimeout = 25 * time.Second
)

// ProductSource supplies the current selling price. The products table is
// authoritative; history can lag behind a repricing.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// PriceSource supplies recorded price history, newest first.
type PriceSource interface {
	History(ctx context.Context, productID int64, days int) ([]models.PricePoint, error)
}

// Analyzer computes price trends and buy/wait recommendations. Results are
// cached for three minutes.
type Analyzer struct {
	products ProductSource
	prices   PriceSource
	agents   *agent.Manager
	cache    *cache.Store
}

func NewAnalyzer(products ProductSource, prices PriceSource, agents *agent.Manager) *Analyzer {
	return &Analyzer{products: products, prices: prices, agents: agents, cache: cache.Prices}
}

// Analyze runs the full price analysis for one product.
func (a *Analyzer) Analyze(ctx context.Context, productID int64) (*Analysis, error) {
	key := cache.PriceKey(productID)
	if cached, ok := a.cache.Get(key); ok {
		fmt.Printf("[PRICE] Returning cached analysis for product %d\n", productID)
		return cached.(*Analysis), nil
	}

	fmt.Printf("[PRICE] Analyzing price for product %d\n", productID)

	product, err := a.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	points, err := a.prices.History(ctx, productID, historyDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for product %d: %w", productID, err)
	}
	history := HistoryFromPoints(points)

	trend := ComputeTrend(history, product.Price)

	result := &Analysis{
		Success:          true,
		ProductID:        productID,
		ProductName:      product.Name,
		PriceData:        trend,
		History:          firstN(history, historyInPayload),
		AIRecommendation: a.narrate(ctx, product.Name, trend, len(history)),
		Recommendation:   trend.Recommendation,
		Confidence:       Confidence(trend),
	}

	a.cache.Set(key, result)
	return result, nil
}

// ComparePrices runs the analysis for each product and collects the headline
// numbers side by side. Products that fail to analyze are skipped rather than
// failing the whole comparison.
func (a *Analyzer) ComparePrices(ctx context.Context, productIDs []int64) *Comparison {
	entries := make([]ComparisonEntry, 0, len(productIDs))
	for _, id := range productIDs {
		analysis, err := a.Analyze(ctx, id)
		if err != nil {
			fmt.Printf("[PRICE] Skipping product %d in comparison: %v\n", id, err)
			continue
		}
		if !analysis.Success || analysis.PriceData == nil {
			continue
		}
		entries = append(entries, ComparisonEntry{
			ProductID:      id,
			ProductName:    analysis.ProductName,
			CurrentPrice:   analysis.PriceData.CurrentPrice,
			Trend:          analysis.PriceData.Trend,
			Recommendation: analysis.Recommendation,
		})
	}
	return &Comparison{Success: true, Comparisons: entries, Count: len(entries)}
}

// ComputeTrend derives the 30-day statistics, trend classification and
// buy/wait recommendation. history is newest first; currentPrice comes from
// the product record.
func ComputeTrend(history []HistoryEntry, currentPrice float64) *TrendData {
	if len(history) == 0 {
		return &TrendData{
			Trend:          TrendUnknown,
			Recommendation: RecommendWait,
			Error:          "No price history available",
		}
	}

	prices := make([]float64, len(history))
	sum := 0.0
	minPrice, maxPrice := history[0].Price, history[0].Price
	for i, h := range history {
		prices[i] = h.Price
		sum += h.Price
		if h.Price < minPrice {
			minPrice = h.Price
		}
		if h.Price > maxPrice {
			maxPrice = h.Price
		}
	}
	avgPrice := sum / float64(len(prices))

	// Trend needs two full weeks: most recent 7 entries against the 7
	// before them.
	trend := TrendInsufficientData
	if len(prices) >= 14 {
		recentAvg := mean(prices[:7])
		olderAvg := mean(prices[7:14])
		switch {
		case recentAvg < olderAvg*0.95:
			trend = TrendDecreasing
		case recentAvg > olderAvg*1.05:
			trend = TrendIncreasing
		default:
			trend = TrendStable
		}
	}

	var recommendation string
	switch {
	case currentPrice <= minPrice*1.05:
		recommendation = RecommendBuyNow
	case trend == TrendDecreasing:
		recommendation = RecommendWait
	case currentPrice >= avgPrice:
		recommendation = RecommendWait
	default:
		recommendation = RecommendGoodTime
	}

	return &TrendData{
		CurrentPrice:   currentPrice,
		AveragePrice:   models.Round2(avgPrice),
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
		Trend:          trend,
		PriceChangePct: models.Round2((currentPrice - maxPrice) / maxPrice * 100),
		Recommendation: recommendation,
		DataPoints:     len(history),
		ChartData:      buildChart(history, currentPrice, avgPrice, minPrice, maxPrice),
	}
}

// Confidence grades the recommendation by sample size and how close the
// current price sits to the 30-day low.
func Confidence(t *TrendData) string {
	if t.DataPoints >= 20 && t.CurrentPrice <= t.MinPrice*1.05 {
		return ConfidenceHigh
	}
	if t.DataPoints >= 10 {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

func (a *Analyzer) narrate(ctx context.Context, productName string, trend *TrendData, historyCount int) string {
	fallback := ruleBasedNarrative(trend)
	if a.agents == nil {
		return fallback
	}

	cctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	options := map[string]interface{}{
		"temperature": 0.7,
		"num_predict": 200,
	}
	response, err := a.agents.ExecutePrompt(cctx, "price", buildRecommendationPrompt(productName, trend, historyCount), recommendationSystemPrompt(), options)
	if err != nil {
		fmt.Printf("[PRICE] Narrative generation failed, using rule-based fallback: %v\n", err)
		return fallback
	}
	return strings.TrimSpace(response)
}

func ruleBasedNarrative(t *TrendData) string {
	switch t.Recommendation {
	case RecommendBuyNow:
		return fmt.Sprintf("✅ BUY NOW! Price is at %s, which is near the all-time low. This is an excellent time to purchase.",
			utils.FormatINR(t.CurrentPrice))
	case RecommendGoodTime:
		return fmt.Sprintf("👍 GOOD DEAL! Current price (%s) is below the 30-day average (%s). Fair time to buy.",
			utils.FormatINR(t.CurrentPrice), utils.FormatINR(t.AveragePrice))
	default:
		return fmt.Sprintf("⏳ WAIT! Price is currently %s, which is above average. Consider waiting for a better deal.",
			utils.FormatINR(t.CurrentPrice))
	}
}

// HistoryFromPoints converts recorded price points to the wire-level history
// entries used in payloads and charts, preserving order.
func HistoryFromPoints(points []models.PricePoint) []HistoryEntry {
	entries := make([]HistoryEntry, len(points))
	for i, p := range points {
		entries[i] = HistoryEntry{
			Price: p.Price,
			Date:  p.RecordedAt.Format(time.RFC3339),
		}
	}
	return entries
}

func firstN(entries []HistoryEntry, n int) []HistoryEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
