package review

import (
	"fmt"
	"strings"

	"agentic_recommendation/pkg/core/prompt"
)

func analysisSystemPrompt() string {
	return prompt.SystemPromptOr(prompt.PromptIDs.AgentReview,
		"You are a product review analyst. You answer in short labeled sections, never in long prose.")
}

// buildAnalysisPrompt keeps the prompt small: just the aggregate numbers and
// the strongest themes. Local models answer compact prompts far faster.
func buildAnalysisPrompt(stats Statistics, themes Themes) string {
	verifiedPct := 0.0
	if stats.TotalReviews > 0 {
		verifiedPct = float64(stats.VerifiedPurchases) / float64(stats.TotalReviews) * 100
	}

	topPositive := themes.Positive
	if len(topPositive) > 3 {
		topPositive = topPositive[:3]
	}
	topNegative := themes.Negative
	if len(topNegative) > 2 {
		topNegative = topNegative[:2]
	}

	return fmt.Sprintf(`Product Review Analysis:
Rating: %.1f/5 (%d reviews, %.0f%% verified)

Positive: %s
Negative: %s

Provide:
1. Sentiment (Positive/Neutral/Negative)
2. Top 3 pros (brief)
3. Top 2 cons (brief)
4. One sentence summary

Be concise.`,
		stats.AverageRating, stats.TotalReviews, verifiedPct,
		strings.Join(topPositive, ", "), strings.Join(topNegative, ", "))
}
