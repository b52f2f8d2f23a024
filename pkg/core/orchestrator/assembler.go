package orchestrator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"agentic_recommendation/pkg/core/buyplan"
	"agentic_recommendation/pkg/core/compare"
	"agentic_recommendation/pkg/core/price"
	"agentic_recommendation/pkg/core/review"
	"agentic_recommendation/pkg/core/search"
	"agentic_recommendation/pkg/core/utils"
	"agentic_recommendation/pkg/models"
)

// mockChartDays is the synthetic series length for products without any
// recorded price history.
const mockChartDays = 30

var agentRoster = []string{
	"Product Search",
	"Review Analyzer",
	"Price Tracker",
	"Comparison Specialist",
	"Buy Plan Optimizer",
}

// assemble converts gathered task results into the final response. Products
// keep retrieval order; analyses attach by product ID.
func (o *Orchestrator) assemble(query, requestID string, state gatherState, elapsed time.Duration) *Response {
	views := make([]ProductView, 0, len(state.products))
	for i, p := range state.products {
		views = append(views, productView(i+1, p, state.reviews[p.ID], state.prices[p.ID]))
	}

	var comparison *ComparisonView
	if state.compareLaunched {
		comparison = comparisonView(state.comparison)
	}

	model := ""
	if o.llm != nil {
		model = o.llm.GetActiveProvider()
	}

	top := state.products[0]
	return &Response{
		Success:              true,
		Query:                query,
		Timestamp:            time.Now().UTC().Format(time.RFC3339),
		ExecutionTimeSeconds: models.Round2(elapsed.Seconds()),
		Summary: &SummaryBlock{
			TotalProductsFound: len(state.products),
			TopRecommendation:  top.Name,
			TopPrice:           top.Price,
			TopRating:          top.Rating,
			AIRecommendation:   ruleSummary(query, state.products),
		},
		Products:   views,
		Comparison: comparison,
		BuyPlan:    buyPlanView(state.plan),
		Metadata: &Metadata{
			RequestID:     requestID,
			AgentsUsed:    agentRoster,
			TotalAgents:   len(agentRoster),
			ExecutionType: "parallel",
			LLMModel:      model,
		},
	}
}

func productView(rank int, p search.RankedProduct, rev *review.Analysis, pr *price.Analysis) ProductView {
	brand := p.Brand
	if brand == "" {
		brand = "Unknown"
	}
	mrp := p.MRP
	if mrp <= 0 {
		mrp = p.Price
	}
	return ProductView{
		Rank:  rank,
		ID:    p.ID,
		Name:  p.Name,
		Brand: brand,
		Pricing: PricingBlock{
			CurrentPrice:    p.Price,
			MRP:             mrp,
			DiscountPercent: p.DiscountPct,
			YouSave:         models.Round2(mrp - p.Price),
			InStock:         p.InStock,
		},
		Ratings: RatingsBlock{
			AverageRating: p.Rating,
			TotalReviews:  p.ReviewCount,
			RatingBadge:   ratingBadge(p.Rating),
		},
		ReviewAnalysis: reviewBlock(rev),
		PriceTracking:  priceBlock(p, pr),
	}
}

// reviewBlock maps one review analysis into its display block, filling
// neutral defaults when the analysis failed or never arrived.
func reviewBlock(a *review.Analysis) ReviewBlock {
	if a == nil {
		a = &review.Analysis{}
	}
	block := ReviewBlock{
		Available:         a.Success,
		Sentiment:         orNA(a.Sentiment),
		SentimentEmoji:    sentimentEmoji(a.Sentiment),
		TrustScore:        a.TrustScore,
		TrustScorePercent: fmt.Sprintf("%.0f%%", a.TrustScore*100),
		Pros:              a.Pros,
		Cons:              a.Cons,
		Summary:           a.Summary,
		TopPro:            "No pros available",
		TopCon:            "No cons mentioned",
		Statistics:        a.Statistics,
		FullAnalysis:      utils.CleanMarkdown(a.FullAnalysis),
	}
	if len(a.Pros) > 0 {
		block.TopPro = a.Pros[0]
	}
	if len(a.Cons) > 0 {
		block.TopCon = a.Cons[0]
	}
	return block
}

// priceBlock maps one price analysis into its display block. Numeric fields
// fall back to the listed price so the card always renders, and the chart
// falls back through recorded history, the analyzer's own chart, and finally
// a synthesized series.
func priceBlock(p search.RankedProduct, a *price.Analysis) PriceBlock {
	if a == nil {
		a = &price.Analysis{}
	}
	block := PriceBlock{
		Available:           a.Success,
		Recommendation:      orNA(a.Recommendation),
		RecommendationBadge: priceBadge(a.Recommendation),
		CurrentPrice:        p.Price,
		AveragePrice:        p.Price,
		LowestPrice:         p.Price,
		HighestPrice:        p.Price,
		PriceTrend:          price.TrendStable,
		AIRecommendation:    utils.CleanMarkdown(a.AIRecommendation),
		Confidence:          price.ConfidenceMedium,
	}
	if a.Confidence != "" {
		block.Confidence = a.Confidence
	}
	if trend := a.PriceData; trend != nil {
		block.CurrentPrice = trend.CurrentPrice
		block.AveragePrice = trend.AveragePrice
		block.LowestPrice = trend.MinPrice
		block.HighestPrice = trend.MaxPrice
		block.PriceChangePercent = trend.PriceChangePct
		if trend.Trend != "" {
			block.PriceTrend = trend.Trend
		}
	}

	switch {
	case len(a.History) > 0:
		block.ChartData = historySeries(a.History)
		block.DataPoints = len(a.History)
		block.HistoryDays = len(a.History)
	case a.PriceData != nil && a.PriceData.ChartData != nil:
		block.ChartData = a.PriceData.ChartData
		block.DataPoints = a.PriceData.DataPoints
		block.HistoryDays = a.PriceData.DataPoints
	case p.Price > 0:
		block.ChartData = mockChart(p.Price)
		block.DataPoints = mockChartDays
	}
	return block
}

// historySeries flattens recorded history into chart labels and values,
// keeping only the date part of each timestamp.
func historySeries(history []price.HistoryEntry) *ChartSeries {
	series := &ChartSeries{
		Labels: make([]string, 0, len(history)),
		Data:   make([]float64, 0, len(history)),
	}
	for _, h := range history {
		date := h.Date
		if len(date) > 10 {
			date = date[:10]
		}
		series.Labels = append(series.Labels, date)
		series.Data = append(series.Data, h.Price)
	}
	return series
}

// mockChart synthesizes 30 daily prices within ±5% of the listed price so
// every product card has a series to render.
func mockChart(base float64) *ChartSeries {
	series := &ChartSeries{
		Labels: make([]string, 0, mockChartDays),
		Data:   make([]float64, 0, mockChartDays),
	}
	now := time.Now()
	for i := mockChartDays; i >= 1; i-- {
		variation := rand.Float64()*0.10 - 0.05
		series.Labels = append(series.Labels, now.AddDate(0, 0, -i).Format("2006-01-02"))
		series.Data = append(series.Data, models.Round2(base*(1+variation)))
	}
	return series
}

// comparisonView maps a comparison result into its display block. The
// frontend table is built here when the comparison style did not produce
// one; the cached result itself is never touched.
func comparisonView(result *compare.Result) *ComparisonView {
	if result == nil {
		return nil
	}
	if !result.Success {
		errMsg := result.Error
		if errMsg == "" {
			errMsg = "Comparison failed"
		}
		return &ComparisonView{Available: false, Error: errMsg}
	}

	winners := result.Winners
	if winners == nil {
		winners = &compare.Winners{}
	}
	best := winners.BestOverall

	var winnerID int64
	var minPrice, maxRating float64
	for i, p := range result.Products {
		if winnerID == 0 && p.Name == best.Product {
			winnerID = p.ID
		}
		if i == 0 || p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Rating > maxRating {
			maxRating = p.Rating
		}
	}

	table := result.FrontendTable
	if table == nil && len(result.Products) > 0 {
		table = compare.FrontendTable(result.Products, nil)
	}

	return &ComparisonView{
		Available: true,
		Winner: &WinnerView{
			ProductName: orNA(best.Product),
			ProductID:   winnerID,
			Reason:      orNA(best.Reason),
			Value:       best.Value,
		},
		WinnerName:   orNA(best.Product),
		WinnerReason: orNA(best.Reason),
		WinnerID:     winnerID,
		CategoryWinners: &CategoryWinners{
			BestPrice: PriceWinner{
				ProductName: orNA(winners.BestPrice.Product),
				Price:       orNA(winners.BestPrice.Value),
				PriceRaw:    minPrice,
				Reason:      winners.BestPrice.Reason,
			},
			BestRating: RatingWinner{
				ProductName: orNA(winners.BestRating.Product),
				Rating:      orNA(winners.BestRating.Value),
				RatingRaw:   maxRating,
				Reason:      winners.BestRating.Reason,
			},
			BestValue: ValueWinner{
				ProductName: orNA(winners.BestValue.Product),
				Value:       orNA(winners.BestValue.Value),
				Reason:      winners.BestValue.Reason,
			},
		},
		Differences:   result.Differences,
		AIComparison:  utils.CleanMarkdown(result.AIAnalysis),
		FrontendTable: table,
	}
}

// buyPlanView maps the buy plan into its display block. A failed plan keeps
// the block present with available:false instead of dropping it.
func buyPlanView(plan *buyplan.Plan) *BuyPlanView {
	if plan == nil || !plan.Success {
		errMsg := "Buy plan unavailable"
		if plan != nil && plan.Error != "" {
			errMsg = plan.Error
		}
		return &BuyPlanView{Available: false, Error: errMsg}
	}
	return &BuyPlanView{
		Available:       true,
		ProductName:     plan.ProductName,
		ProductPrice:    plan.ProductPrice,
		EMIEligible:     plan.EMIEligible,
		PaymentOptions:  plan.PaymentOptions,
		RegularEMIPlans: plan.RegularEMIPlans,
		NoCostEMIPlans:  plan.NoCostEMIPlans,
		Recommendations: plan.Recommendations,
		Summary:         plan.Summary,
	}
}

// ruleSummary builds the closing recommendation line without an LLM round
// trip. The orchestrator always uses this; narrative text already comes from
// the per-agent analyses.
func ruleSummary(query string, products []search.RankedProduct) string {
	if len(products) == 0 {
		return fmt.Sprintf("No products found for '%s'.", query)
	}
	top := products[0]

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your search for '%s', I recommend the %s at %s. ",
		query, top.Name, utils.FormatINR(top.Price))
	if top.Rating > 0 {
		fmt.Fprintf(&b, "It has a rating of %.1f/5 stars. ", top.Rating)
	}
	if len(products) > 1 {
		fmt.Fprintf(&b, "I've also analyzed %d alternative options for comparison. ", len(products)-1)
	}
	b.WriteString("Check the detailed analysis above for reviews, price trends, and payment options.")
	return b.String()
}

func ratingBadge(rating float64) string {
	switch {
	case rating >= 4.5:
		return "⭐ Excellent"
	case rating >= 4.0:
		return "👍 Very Good"
	case rating >= 3.5:
		return "✅ Good"
	case rating >= 3.0:
		return "⚠️ Average"
	default:
		return "❌ Below Average"
	}
}

func sentimentEmoji(sentiment string) string {
	s := strings.ToLower(sentiment)
	switch {
	case strings.Contains(s, "positive"):
		return "😊 Positive"
	case strings.Contains(s, "negative"):
		return "😞 Negative"
	default:
		return "😐 Neutral"
	}
}

func priceBadge(recommendation string) string {
	r := strings.ToLower(recommendation)
	switch {
	case strings.Contains(r, "buy"), strings.Contains(r, "now"):
		return "🟢 Buy Now"
	case strings.Contains(r, "good"):
		return "🟡 Good Deal"
	default:
		return "🔴 Wait"
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
