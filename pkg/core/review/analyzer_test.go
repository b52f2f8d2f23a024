package review

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"agentic_recommendation/pkg/models"
)

type fakeReviewSource struct {
	reviews []models.Review
	err     error
	calls   int
}

func (f *fakeReviewSource) ListByProduct(ctx context.Context, productID int64, limit int) ([]models.Review, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.reviews, nil
}

func repeatReviews(rating int, verified bool, n int) []models.Review {
	out := make([]models.Review, n)
	for i := range out {
		out[i] = models.Review{Rating: rating, Verified: verified, Text: "fine"}
	}
	return out
}

func TestComputeStatistics(t *testing.T) {
	reviews := []models.Review{
		{Rating: 5, Verified: true},
		{Rating: 4, Verified: true},
		{Rating: 4, Verified: false},
		{Rating: 1, Verified: false},
	}

	stats := ComputeStatistics(reviews)
	if stats.TotalReviews != 4 {
		t.Errorf("total = %d, want 4", stats.TotalReviews)
	}
	if stats.AverageRating != 3.5 {
		t.Errorf("average = %v, want 3.5", stats.AverageRating)
	}
	if stats.RatingDistribution[4] != 2 || stats.RatingDistribution[5] != 1 || stats.RatingDistribution[1] != 1 {
		t.Errorf("distribution wrong: %v", stats.RatingDistribution)
	}
	if stats.RatingDistribution[2] != 0 || stats.RatingDistribution[3] != 0 {
		t.Errorf("unused buckets must still be present: %v", stats.RatingDistribution)
	}
	if stats.RatingDistributionPct[4] != 50 {
		t.Errorf("pct[4] = %v, want 50", stats.RatingDistributionPct[4])
	}
	if stats.VerifiedPurchases != 2 {
		t.Errorf("verified = %d, want 2", stats.VerifiedPurchases)
	}
}

func TestTrustScoreBalancedVerifiedLarge(t *testing.T) {
	// 60 reviews, all verified, balanced distribution:
	// 0.5 + 0.3 + 0.2 + 0.1 = 1.1, clamped to 1.
	reviews := append(repeatReviews(4, true, 40), repeatReviews(5, true, 20)...)
	stats := ComputeStatistics(reviews)

	if got := TrustScore(stats); got != 1 {
		t.Errorf("trust = %v, want 1 (clamped)", got)
	}
}

func TestTrustScoreSuspiciousDistribution(t *testing.T) {
	// 10 reviews, all five stars, none verified: 0.5 - 0.1 = 0.4.
	stats := ComputeStatistics(repeatReviews(5, false, 10))

	if got := TrustScore(stats); got != 0.4 {
		t.Errorf("trust = %v, want 0.4", got)
	}
}

func TestTrustScoreMediumSample(t *testing.T) {
	// 25 reviews, balanced, none verified: 0.5 + 0.2 + 0.05 = 0.75.
	reviews := append(repeatReviews(4, false, 15), repeatReviews(3, false, 10)...)
	stats := ComputeStatistics(reviews)

	if got := TrustScore(stats); got != 0.75 {
		t.Errorf("trust = %v, want 0.75", got)
	}
}

func TestTrustScoreNoReviews(t *testing.T) {
	if got := TrustScore(Statistics{}); got != 0 {
		t.Errorf("trust = %v, want 0", got)
	}
}

func TestParseAnalysisSections(t *testing.T) {
	text := `1. Sentiment: Positive

2. Pros:
- Excellent battery life
- Bright display
* Fast charging
- Premium build

3. Cons:
- Runs warm under load
- Average speakers
- Pricey

4. Summary:
A dependable phone that trades a little heat for strong battery life.`

	sentiment, pros, cons, summary := parseAnalysis(text)
	if sentiment != "Positive" {
		t.Errorf("sentiment = %q", sentiment)
	}
	if len(pros) != 3 || pros[0] != "Excellent battery life" || pros[2] != "Fast charging" {
		t.Errorf("pros wrong: %v", pros)
	}
	if len(cons) != 2 || cons[1] != "Average speakers" {
		t.Errorf("cons capped at 2, got: %v", cons)
	}
	if !strings.HasPrefix(summary, "A dependable phone") {
		t.Errorf("summary = %q", summary)
	}
}

func TestParseAnalysisUnstructuredText(t *testing.T) {
	text := "This is just free-form prose without any of the expected structure."

	sentiment, pros, cons, summary := parseAnalysis(text)
	if sentiment != "Neutral" {
		t.Errorf("default sentiment = %q, want Neutral", sentiment)
	}
	if len(pros) != 1 || pros[0] != "Overall positive feedback from customers" {
		t.Errorf("pros fallback wrong: %v", pros)
	}
	if len(cons) != 1 || cons[0] != "Some minor issues reported" {
		t.Errorf("cons fallback wrong: %v", cons)
	}
	if summary != text {
		t.Errorf("short text should become the summary verbatim, got %q", summary)
	}
}

func TestParseAnalysisLongTextTruncatedSummary(t *testing.T) {
	text := strings.Repeat("a", 250)
	_, _, _, summary := parseAnalysis(text)
	if len(summary) != 203 || !strings.HasSuffix(summary, "...") {
		t.Errorf("summary should truncate to 200+ellipsis, len=%d", len(summary))
	}
}

func TestAnalyzeNoReviews(t *testing.T) {
	analyzer := NewAnalyzer(&fakeReviewSource{}, nil)

	result, err := analyzer.Analyze(context.Background(), 9001)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if result.Success {
		t.Error("zero reviews must not be a success")
	}
	if result.Message != "No reviews found" {
		t.Errorf("message = %q", result.Message)
	}
	if result.Statistics != nil || result.Themes != nil {
		t.Error("failure payload should carry no analysis fields")
	}
}

func TestAnalyzeRuleBasedFallback(t *testing.T) {
	source := &fakeReviewSource{reviews: []models.Review{
		{Rating: 5, Verified: true, Text: "excellent sound quality overall"},
		{Rating: 4, Verified: true, Text: "battery drains fast, still a good buy"},
		{Rating: 4, Verified: false, Text: "comfortable fit"},
	}}
	// No agent manager wired: the LLM step fails immediately and the
	// rule-based path takes over.
	analyzer := NewAnalyzer(source, nil)

	result, err := analyzer.Analyze(context.Background(), 9002)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !result.Success {
		t.Fatal("fallback result should still report success")
	}
	if result.Sentiment != "Positive" {
		t.Errorf("sentiment = %q, want Positive for mean 4.33", result.Sentiment)
	}
	if result.Summary != "Product rated 4.3/5 by 3 customers" {
		t.Errorf("summary = %q", result.Summary)
	}
	if len(result.Pros) == 0 || len(result.Pros) > 3 {
		t.Errorf("pros out of bounds: %v", result.Pros)
	}
	if len(result.Cons) == 0 || len(result.Cons) > 2 {
		t.Errorf("cons out of bounds: %v", result.Cons)
	}
	if result.TrustScore <= 0 || result.TrustScore > 1 {
		t.Errorf("trust score out of range: %v", result.TrustScore)
	}
}

func TestAnalyzeCachesFallback(t *testing.T) {
	source := &fakeReviewSource{reviews: repeatReviews(4, true, 5)}
	analyzer := NewAnalyzer(source, nil)

	first, err := analyzer.Analyze(context.Background(), 9003)
	if err != nil {
		t.Fatalf("first analyze failed: %v", err)
	}
	second, err := analyzer.Analyze(context.Background(), 9003)
	if err != nil {
		t.Fatalf("second analyze failed: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("expected one source hit, got %d", source.calls)
	}
	if first != second {
		t.Error("cache should return the identical result")
	}
}

func TestAnalyzeSourceErrorPropagates(t *testing.T) {
	source := &fakeReviewSource{err: fmt.Errorf("connection refused")}
	analyzer := NewAnalyzer(source, nil)

	if _, err := analyzer.Analyze(context.Background(), 9004); err == nil {
		t.Fatal("expected a source error to propagate")
	}
}
