package price

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/models"
)

type fakeProductSource struct {
	products map[int64]models.Product
	calls    int
}

func (f *fakeProductSource) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	f.calls++
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("product %d: %w", id, catalog.ErrNotFound)
}

type fakePriceSource struct {
	history map[int64][]models.PricePoint
}

func (f *fakePriceSource) History(ctx context.Context, productID int64, days int) ([]models.PricePoint, error) {
	return f.history[productID], nil
}

// series builds a newest-first history from prices, one entry per day.
func series(prices ...float64) []HistoryEntry {
	base := time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)
	entries := make([]HistoryEntry, len(prices))
	for i, p := range prices {
		entries[i] = HistoryEntry{Price: p, Date: base.AddDate(0, 0, -i).Format(time.RFC3339)}
	}
	return entries
}

func flatSeries(price float64, n int) []HistoryEntry {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = price
	}
	return series(prices...)
}

func twoWeeks(recent, older float64) []HistoryEntry {
	prices := make([]float64, 14)
	for i := 0; i < 7; i++ {
		prices[i] = recent
	}
	for i := 7; i < 14; i++ {
		prices[i] = older
	}
	return series(prices...)
}

func TestComputeTrendEmptyHistory(t *testing.T) {
	trend := ComputeTrend(nil, 999)
	if trend.Trend != TrendUnknown {
		t.Errorf("trend = %q, want unknown", trend.Trend)
	}
	if trend.Recommendation != RecommendWait {
		t.Errorf("recommendation = %q, want wait", trend.Recommendation)
	}
	if trend.DataPoints != 0 || trend.ChartData != nil {
		t.Errorf("empty history should carry no stats: %+v", trend)
	}
}

func TestComputeTrendDecreasing(t *testing.T) {
	trend := ComputeTrend(twoWeeks(900, 1000), 960)
	if trend.Trend != TrendDecreasing {
		t.Errorf("trend = %q, want decreasing", trend.Trend)
	}
	// Current sits above min*1.05, so the falling trend forces a wait.
	if trend.Recommendation != RecommendWait {
		t.Errorf("recommendation = %q, want wait", trend.Recommendation)
	}
}

func TestComputeTrendIncreasing(t *testing.T) {
	trend := ComputeTrend(twoWeeks(1100, 1000), 1100)
	if trend.Trend != TrendIncreasing {
		t.Errorf("trend = %q, want increasing", trend.Trend)
	}
}

func TestComputeTrendStable(t *testing.T) {
	trend := ComputeTrend(flatSeries(1000, 14), 1000)
	if trend.Trend != TrendStable {
		t.Errorf("trend = %q, want stable", trend.Trend)
	}
}

func TestComputeTrendInsufficientData(t *testing.T) {
	trend := ComputeTrend(flatSeries(1000, 13), 1000)
	if trend.Trend != TrendInsufficientData {
		t.Errorf("trend = %q, want insufficient_data", trend.Trend)
	}
}

func TestRecommendationBuyNowNearLow(t *testing.T) {
	trend := ComputeTrend(flatSeries(1000, 14), 1040)
	// 1040 <= 1000*1.05: near the period low even though above it.
	if trend.Recommendation != RecommendBuyNow {
		t.Errorf("recommendation = %q, want buy_now", trend.Recommendation)
	}
}

func TestRecommendationGoodTime(t *testing.T) {
	prices := make([]float64, 14)
	for i := range prices {
		prices[i] = 1000
	}
	prices[3] = 800 // one dip sets the floor without tipping the trend
	trend := ComputeTrend(series(prices...), 950)

	if trend.Trend != TrendStable {
		t.Fatalf("trend = %q, want stable", trend.Trend)
	}
	if trend.Recommendation != RecommendGoodTime {
		t.Errorf("recommendation = %q, want good_time", trend.Recommendation)
	}
}

func TestRecommendationWaitAboveAverage(t *testing.T) {
	prices := make([]float64, 14)
	for i := range prices {
		prices[i] = 1000
	}
	prices[3] = 800
	trend := ComputeTrend(series(prices...), 990)

	if trend.Recommendation != RecommendWait {
		t.Errorf("recommendation = %q, want wait", trend.Recommendation)
	}
}

func TestPriceChangePct(t *testing.T) {
	trend := ComputeTrend(series(900, 950, 1000), 900)
	// (900-1000)/1000 * 100 = -10
	if trend.PriceChangePct != -10 {
		t.Errorf("price change = %v, want -10", trend.PriceChangePct)
	}
}

func TestConfidenceLadder(t *testing.T) {
	high := &TrendData{DataPoints: 25, CurrentPrice: 1000, MinPrice: 990}
	if got := Confidence(high); got != ConfidenceHigh {
		t.Errorf("confidence = %q, want high", got)
	}
	medium := &TrendData{DataPoints: 25, CurrentPrice: 1500, MinPrice: 990}
	if got := Confidence(medium); got != ConfidenceMedium {
		t.Errorf("confidence = %q, want medium", got)
	}
	low := &TrendData{DataPoints: 5, CurrentPrice: 990, MinPrice: 990}
	if got := Confidence(low); got != ConfidenceLow {
		t.Errorf("confidence = %q, want low", got)
	}
}

func TestRuleBasedNarrative(t *testing.T) {
	buy := ruleBasedNarrative(&TrendData{Recommendation: RecommendBuyNow, CurrentPrice: 26192})
	if buy != "✅ BUY NOW! Price is at ₹26,192, which is near the all-time low. This is an excellent time to purchase." {
		t.Errorf("buy narrative = %q", buy)
	}
	good := ruleBasedNarrative(&TrendData{Recommendation: RecommendGoodTime, CurrentPrice: 26192, AveragePrice: 27800})
	if good != "👍 GOOD DEAL! Current price (₹26,192) is below the 30-day average (₹27,800). Fair time to buy." {
		t.Errorf("good narrative = %q", good)
	}
	wait := ruleBasedNarrative(&TrendData{Recommendation: RecommendWait, CurrentPrice: 28500})
	if wait != "⏳ WAIT! Price is currently ₹28,500, which is above average. Consider waiting for a better deal." {
		t.Errorf("wait narrative = %q", wait)
	}
}

func historyPoints(productID int64, prices ...float64) []models.PricePoint {
	base := time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)
	points := make([]models.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = models.PricePoint{ProductID: productID, Price: p, RecordedAt: base.AddDate(0, 0, -i)}
	}
	return points
}

func TestAnalyzeBuildsPayload(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 1000 + float64(i)
	}
	products := &fakeProductSource{products: map[int64]models.Product{
		7001: {ID: 7001, Name: "Pixel Buds", Price: 1000},
	}}
	sources := &fakePriceSource{history: map[int64][]models.PricePoint{
		7001: historyPoints(7001, prices...),
	}}
	analyzer := NewAnalyzer(products, sources, nil)

	result, err := analyzer.Analyze(context.Background(), 7001)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !result.Success || result.ProductName != "Pixel Buds" {
		t.Errorf("payload header wrong: %+v", result)
	}
	if len(result.History) != 10 {
		t.Errorf("history payload = %d entries, want 10", len(result.History))
	}
	if result.PriceData == nil || result.PriceData.DataPoints != 30 {
		t.Fatalf("trend data missing or wrong: %+v", result.PriceData)
	}
	// Current price 1000 is the 30-day low: buy_now at high confidence.
	if result.Recommendation != RecommendBuyNow || result.Confidence != ConfidenceHigh {
		t.Errorf("got %s/%s, want buy_now/high", result.Recommendation, result.Confidence)
	}
	if result.AIRecommendation == "" {
		t.Error("narrative missing")
	}
	if result.PriceData.ChartData == nil {
		t.Error("chart data missing")
	}
}

func TestAnalyzeCachesResult(t *testing.T) {
	products := &fakeProductSource{products: map[int64]models.Product{
		7002: {ID: 7002, Name: "Kettle", Price: 1499},
	}}
	sources := &fakePriceSource{history: map[int64][]models.PricePoint{
		7002: historyPoints(7002, 1499, 1550),
	}}
	analyzer := NewAnalyzer(products, sources, nil)

	if _, err := analyzer.Analyze(context.Background(), 7002); err != nil {
		t.Fatalf("first analyze failed: %v", err)
	}
	if _, err := analyzer.Analyze(context.Background(), 7002); err != nil {
		t.Fatalf("second analyze failed: %v", err)
	}
	if products.calls != 1 {
		t.Errorf("expected one product fetch, got %d", products.calls)
	}
}

func TestAnalyzeProductNotFound(t *testing.T) {
	analyzer := NewAnalyzer(&fakeProductSource{}, &fakePriceSource{}, nil)

	if _, err := analyzer.Analyze(context.Background(), 7404); err == nil {
		t.Fatal("expected an error for a missing product")
	}
}

func TestComparePricesSkipsFailures(t *testing.T) {
	products := &fakeProductSource{products: map[int64]models.Product{
		7101: {ID: 7101, Name: "Echo Dot", Price: 4499},
		7102: {ID: 7102, Name: "Nest Mini", Price: 5499},
	}}
	sources := &fakePriceSource{history: map[int64][]models.PricePoint{
		7101: historyPoints(7101, 4499, 4499, 4699),
		7102: historyPoints(7102, 5499, 5499, 5299),
	}}
	analyzer := NewAnalyzer(products, sources, nil)

	// 7103 does not exist and must be skipped, not fail the comparison.
	result := analyzer.ComparePrices(context.Background(), []int64{7101, 7102, 7103})
	if !result.Success {
		t.Fatal("comparison should succeed")
	}
	if result.Count != 2 || len(result.Comparisons) != 2 {
		t.Fatalf("got %d comparisons, want 2", len(result.Comparisons))
	}
	first := result.Comparisons[0]
	if first.ProductID != 7101 || first.ProductName != "Echo Dot" {
		t.Errorf("first entry wrong: %+v", first)
	}
	if first.CurrentPrice != 4499 {
		t.Errorf("current price = %v, want 4499", first.CurrentPrice)
	}
	if first.Trend == "" || first.Recommendation == "" {
		t.Errorf("trend/recommendation missing: %+v", first)
	}
}
