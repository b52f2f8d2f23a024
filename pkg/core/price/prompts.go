package price

import (
	"fmt"
	"strings"

	"agentic_recommendation/pkg/core/prompt"
	"agentic_recommendation/pkg/core/utils"
)

func recommendationSystemPrompt() string {
	return prompt.SystemPromptOr(prompt.PromptIDs.AgentPrice,
		"You are a price analysis expert helping shoppers make smart buying decisions. Be direct and concise.")
}

func buildRecommendationPrompt(productName string, t *TrendData, historyCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this price data for %q:\n\n", productName)

	b.WriteString("📊 PRICE STATISTICS:\n")
	fmt.Fprintf(&b, "- Current Price: %s\n", utils.FormatINR(t.CurrentPrice))
	fmt.Fprintf(&b, "- Average Price (30 days): %s\n", utils.FormatINR(t.AveragePrice))
	fmt.Fprintf(&b, "- Lowest Price: %s\n", utils.FormatINR(t.MinPrice))
	fmt.Fprintf(&b, "- Highest Price: %s\n\n", utils.FormatINR(t.MaxPrice))

	b.WriteString("📈 TREND ANALYSIS:\n")
	fmt.Fprintf(&b, "- Trend: %s\n", strings.ToUpper(t.Trend))
	fmt.Fprintf(&b, "- Price Change: %.1f%%\n", t.PriceChangePct)
	fmt.Fprintf(&b, "- Data Points: %d days\n\n", historyCount)

	fmt.Fprintf(&b, "🎯 SYSTEM RECOMMENDATION: %s\n\n", strings.ToUpper(t.Recommendation))

	b.WriteString("Provide a recommendation in 2-3 sentences:\n")
	b.WriteString("1. Should the user BUY NOW or WAIT?\n")
	b.WriteString("2. Why? (based on the data)\n")
	b.WriteString("3. What's the confidence level? (high/medium/low)\n\n")
	b.WriteString("Keep it conversational and helpful. Start with your recommendation.")

	return b.String()
}
