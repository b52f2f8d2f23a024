package review

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
	maxReviews = 100
	llmTimeout = 90 * time.Second
)

// ReviewSource supplies the reviews to analyze.
type ReviewSource interface {
	ListByProduct(ctx context.Context, productID int64, limit int) ([]models.Review, error)
}

// Analyzer turns a product's review corpus into sentiment, pros/cons, a
// summary and a trust score. Results are cached for ten minutes.
type Analyzer struct {
	reviews ReviewSource
	agents  *agent.Manager
	cache   *cache.Store
}

func NewAnalyzer(reviews ReviewSource, agents *agent.Manager) *Analyzer {
	return &Analyzer{reviews: reviews, agents: agents, cache: cache.Reviews}
}

// Analyze runs the full review analysis for one product. LLM failures and
// timeouts degrade to a rule-based result; only a catalog failure returns an
// error.
func (a *Analyzer) Analyze(ctx context.Context, productID int64) (*Analysis, error) {
	key := cache.ReviewKey(productID)
	if cached, ok := a.cache.Get(key); ok {
		fmt.Printf("[REVIEW] Returning cached analysis for product %d\n", productID)
		return cached.(*Analysis), nil
	}

	fmt.Printf("[REVIEW] Analyzing reviews for product %d\n", productID)

	reviews, err := a.reviews.ListByProduct(ctx, productID, maxReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews for product %d: %w", productID, err)
	}
	if len(reviews) == 0 {
		return &Analysis{
			Success:   false,
			ProductID: productID,
			Message:   "No reviews found",
		}, nil
	}

	stats := ComputeStatistics(reviews)
	themes := ExtractThemes(reviews)
	trust := TrustScore(stats)

	raw, err := a.generate(ctx, stats, themes)
	if err != nil {
		fmt.Printf("[REVIEW] LLM analysis failed for product %d, using rule-based fallback: %v\n", productID, err)
		result := ruleBasedAnalysis(productID, stats, themes, trust)
		a.cache.Set(key, result)
		return result, nil
	}

	sentiment, pros, cons, summary := parseAnalysis(raw)
	result := &Analysis{
		Success:      true,
		ProductID:    productID,
		Statistics:   &stats,
		Sentiment:    sentiment,
		Pros:         pros,
		Cons:         cons,
		Summary:      summary,
		TrustScore:   trust,
		Themes:       &themes,
		FullAnalysis: raw,
	}
	a.cache.Set(key, result)
	return result, nil
}

func (a *Analyzer) generate(ctx context.Context, stats Statistics, themes Themes) (string, error) {
	if a.agents == nil {
		return "", fmt.Errorf("no model configured")
	}

	cctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	options := map[string]interface{}{
		"temperature": 0.3,
		"num_predict": 150,
	}
	return a.agents.ExecutePrompt(cctx, "review", buildAnalysisPrompt(stats, themes), analysisSystemPrompt(), options)
}

// ComputeStatistics aggregates count, mean rating (2dp), the 1-5 rating
// distribution with percentages, and the verified-purchase count.
func ComputeStatistics(reviews []models.Review) Statistics {
	stats := Statistics{
		RatingDistribution:    map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		RatingDistributionPct: map[int]float64{},
	}
	if len(reviews) == 0 {
		return stats
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		stats.RatingDistribution[r.Rating]++
		if r.Verified {
			stats.VerifiedPurchases++
		}
	}
	total := len(reviews)
	stats.TotalReviews = total
	stats.AverageRating = models.Round2(float64(sum) / float64(total))
	for rating, count := range stats.RatingDistribution {
		stats.RatingDistributionPct[rating] = models.Round2(float64(count) / float64(total) * 100)
	}
	return stats
}

// TrustScore rates how much the review corpus can be believed, in [0,1].
// Verified purchases raise it, a suspiciously five-star-heavy distribution
// lowers it, sample size nudges it up.
func TrustScore(stats Statistics) float64 {
	if stats.TotalReviews == 0 {
		return 0
	}

	score := 0.5
	total := float64(stats.TotalReviews)

	verifiedRatio := float64(stats.VerifiedPurchases) / total
	score += verifiedRatio * 0.3

	fiveStarRatio := float64(stats.RatingDistribution[5]) / total
	oneStarRatio := float64(stats.RatingDistribution[1]) / total
	if fiveStarRatio < 0.7 && oneStarRatio < 0.3 {
		score += 0.2
	} else if fiveStarRatio > 0.9 {
		score -= 0.1
	}

	if stats.TotalReviews > 50 {
		score += 0.1
	} else if stats.TotalReviews > 20 {
		score += 0.05
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return models.Round2(score)
}

// parseAnalysis splits the model's response into sentiment, pros, cons and
// summary by scanning for section headers and bullet prefixes. Sections the
// model skipped get synthesized stand-ins.
func parseAnalysis(text string) (sentiment string, pros, cons []string, summary string) {
	sentiment = "Neutral"
	section := ""
	var summaryParts []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)

		switch {
		case strings.Contains(upper, "SENTIMENT") || strings.Contains(upper, "OVERALL"):
			lower := strings.ToLower(line)
			if strings.Contains(lower, "positive") {
				sentiment = "Positive"
			} else if strings.Contains(lower, "negative") {
				sentiment = "Negative"
			} else if strings.Contains(lower, "neutral") {
				sentiment = "Neutral"
			}
		case strings.Contains(upper, "PROS") || strings.Contains(upper, "ADVANTAGES"):
			section = "pros"
		case strings.Contains(upper, "CONS") || strings.Contains(upper, "DISADVANTAGES"):
			section = "cons"
		case strings.Contains(upper, "SUMMARY"):
			section = "summary"
		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*"):
			item := strings.TrimSpace(strings.TrimLeft(line, "-•* "))
			if section == "pros" && len(pros) < 3 {
				pros = append(pros, item)
			} else if section == "cons" && len(cons) < 2 {
				cons = append(cons, item)
			}
		case section == "summary" && !strings.HasSuffix(line, ":"):
			summaryParts = append(summaryParts, line)
		}
	}

	if len(pros) == 0 {
		pros = []string{"Overall positive feedback from customers"}
	}
	if len(cons) == 0 {
		cons = []string{"Some minor issues reported"}
	}
	summary = strings.Join(summaryParts, " ")
	if summary == "" {
		summary = utils.Truncate(strings.TrimSpace(text), 200)
	}
	return sentiment, pros, cons, summary
}

// ruleBasedAnalysis synthesizes the result when the model is unavailable.
// Sentiment comes straight off the mean rating.
func ruleBasedAnalysis(productID int64, stats Statistics, themes Themes, trust float64) *Analysis {
	sentiment := "Negative"
	switch {
	case stats.AverageRating >= 4:
		sentiment = "Positive"
	case stats.AverageRating >= 3:
		sentiment = "Neutral"
	}

	pros := themes.Positive
	if len(pros) > 3 {
		pros = pros[:3]
	}
	if len(pros) == 0 {
		pros = []string{"Overall positive feedback"}
	}

	cons := themes.Negative
	if len(cons) > 2 {
		cons = cons[:2]
	}
	if len(cons) == 0 {
		cons = []string{"Some concerns noted"}
	}

	return &Analysis{
		Success:      true,
		ProductID:    productID,
		Statistics:   &stats,
		Sentiment:    sentiment,
		Pros:         pros,
		Cons:         cons,
		Summary:      fmt.Sprintf("Product rated %.1f/5 by %d customers", stats.AverageRating, stats.TotalReviews),
		TrustScore:   trust,
		Themes:       &themes,
		FullAnalysis: fmt.Sprintf("%s sentiment based on %d reviews", sentiment, stats.TotalReviews),
	}
}
