package compare

import (
	"fmt"
	"strings"

	"agentic_recommendation/pkg/core/prompt"
	"agentic_recommendation/pkg/core/utils"
)

func comparisonSystemPrompt() string {
	return prompt.SystemPromptOr(prompt.PromptIDs.AgentCompare,
		"You are a product comparison specialist. Be objective, highlight meaningful differences, and recommend based on value.")
}

// buildComparisonPrompt lists one compact block per product plus the
// precomputed spreads and winners, then asks for the four analysis points.
func buildComparisonPrompt(products []Product, diffs *Differences, winners *Winners, style string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Compare %d products:\n\n", len(products))
	for i, p := range products {
		mrp := p.MRP
		if mrp <= 0 {
			mrp = p.Price
		}
		stock := "No"
		if p.InStock {
			stock = "Yes"
		}
		fmt.Fprintf(&b, "Product %d: %s\n", i+1, p.Name)
		fmt.Fprintf(&b, "- Brand: %s\n", p.Brand)
		fmt.Fprintf(&b, "- Price: %s (MRP: %s)\n", utils.FormatINR(p.Price), utils.FormatINR(mrp))
		fmt.Fprintf(&b, "- Discount: %.1f%% OFF\n", p.DiscountPct)
		fmt.Fprintf(&b, "- Rating: %.1f/5 (%d reviews)\n", p.Rating, p.ReviewCount)
		fmt.Fprintf(&b, "- In Stock: %s\n\n", stock)
	}

	fmt.Fprintf(&b, "Price: %s-%s\n",
		utils.FormatINR(diffs.PriceAnalysis.Cheapest), utils.FormatINR(diffs.PriceAnalysis.MostExpensive))
	fmt.Fprintf(&b, "Ratings: %.1f-%.1f/5\n",
		diffs.RatingAnalysis.LowestRated, diffs.RatingAnalysis.HighestRated)
	fmt.Fprintf(&b, "Best Deal: %.1f%% off %s\n\n",
		diffs.DiscountAnalysis.BestDiscount, diffs.DiscountAnalysis.BestDealProduct)

	fmt.Fprintf(&b, "Winners:\n")
	fmt.Fprintf(&b, "• Price: %s\n", winners.BestPrice.Product)
	fmt.Fprintf(&b, "• Rating: %s\n", winners.BestRating.Product)
	fmt.Fprintf(&b, "• Value: %s\n", winners.BestValue.Product)
	fmt.Fprintf(&b, "• Overall: %s\n\n", winners.BestOverall.Product)

	b.WriteString("Provide:\n")
	b.WriteString("1. Key differences\n")
	b.WriteString("2. Category winners\n")
	b.WriteString("3. Recommendation\n")
	b.WriteString("4. Best for scenarios\n\n")
	fmt.Fprintf(&b, "%s style. 200 words max.", strings.ToUpper(style))

	return b.String()
}

// fallbackAnalysis synthesizes prose from the computed winners when the
// model is unavailable or times out.
func fallbackAnalysis(products []Product, winners *Winners) string {
	cheapest := products[0]
	expensive := products[0]
	topRated := products[0]
	for _, p := range products[1:] {
		if p.Price < cheapest.Price {
			cheapest = p
		}
		if p.Price > expensive.Price {
			expensive = p
		}
		if p.Rating > topRated.Rating {
			topRated = p
		}
	}

	var b strings.Builder
	b.WriteString("COMPARISON ANALYSIS\n\n")

	fmt.Fprintf(&b, "💰 PRICE WINNER: %s\n", cheapest.Name)
	fmt.Fprintf(&b, "   %s (cheapest)\n", utils.FormatINR(cheapest.Price))
	if expensive.Price > cheapest.Price {
		fmt.Fprintf(&b, "   Save %s vs most expensive\n", utils.FormatINR(expensive.Price-cheapest.Price))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "⭐ RATING WINNER: %s\n", topRated.Name)
	fmt.Fprintf(&b, "   %.1f/5 (%d reviews)\n\n", topRated.Rating, topRated.ReviewCount)

	fmt.Fprintf(&b, "🎯 BEST OVERALL: %s\n", winners.BestOverall.Product)
	fmt.Fprintf(&b, "   %s\n\n", winners.BestOverall.Reason)

	b.WriteString("RECOMMENDATIONS:\n")
	fmt.Fprintf(&b, "   • For budget: %s\n", cheapest.Name)
	fmt.Fprintf(&b, "   • For quality: %s\n", topRated.Name)
	fmt.Fprintf(&b, "   • For value: %s", winners.BestOverall.Product)

	return b.String()
}

// workflowSummary is the user-facing recap of a search-then-compare run.
func workflowSummary(query string, productCount int, winners *Winners) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SEARCH: '%s'\n", query)
	fmt.Fprintf(&b, "FOUND: %d products\n\n", productCount)
	b.WriteString("🏆 COMPARISON RESULTS:\n")
	fmt.Fprintf(&b, "   • Best Price: %s\n", winners.BestPrice.Product)
	fmt.Fprintf(&b, "   • Best Rating: %s\n", winners.BestRating.Product)
	fmt.Fprintf(&b, "   • Best Value: %s\n", winners.BestValue.Product)
	fmt.Fprintf(&b, "   • OVERALL WINNER: %s\n\n", winners.BestOverall.Product)
	b.WriteString("RECOMMENDATION:\n")
	fmt.Fprintf(&b, "   Based on your search, we recommend: %s\n", winners.BestOverall.Product)
	fmt.Fprintf(&b, "   %s", winners.BestOverall.Reason)
	return b.String()
}
