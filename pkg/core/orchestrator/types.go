package orchestrator

import (
	"agentic_recommendation/pkg/core/buyplan"
	"agentic_recommendation/pkg/core/compare"
	"agentic_recommendation/pkg/core/review"
)

// Request knob defaults. TopN outside [1, MaxTopN] is clamped, not rejected;
// the HTTP layer validates before it gets here.
const (
	DefaultTopN       = 3
	MaxTopN           = 5
	DefaultPreference = buyplan.PreferBalanced
)

// Task states used in orchestration logs. A skipped task (comparison with a
// single product) produces no response block at all; a timed-out one produces
// an available:false block.
const (
	TaskCompleted = "completed"
	TaskTimeout   = "timeout"
	TaskFailed    = "failed"
	TaskSkipped   = "skipped"
)

// Request is one orchestrated recommendation request.
type Request struct {
	Query          string   `json:"query"`
	Category       string   `json:"category,omitempty"`
	MinPrice       float64  `json:"min_price,omitempty"`
	MaxPrice       float64  `json:"max_price,omitempty"`
	TopN           int      `json:"top_n,omitempty"`
	UserPreference string   `json:"user_preference,omitempty"`
	UserCards      []string `json:"user_cards,omitempty"`
}

// Response is the combined output of every agent, shaped for direct frontend
// consumption. Success stays true as long as retrieval found anything; failed
// or timed-out analyses degrade to available:false blocks instead of tearing
// the whole response down.
type Response struct {
	Success              bool            `json:"success"`
	Error                string          `json:"error,omitempty"`
	Query                string          `json:"query"`
	Timestamp            string          `json:"timestamp,omitempty"`
	ExecutionTimeSeconds float64         `json:"execution_time_seconds,omitempty"`
	Summary              *SummaryBlock   `json:"summary,omitempty"`
	Products             []ProductView   `json:"products,omitempty"`
	Comparison           *ComparisonView `json:"comparison,omitempty"`
	BuyPlan              *BuyPlanView    `json:"buy_plan,omitempty"`
	Metadata             *Metadata       `json:"metadata,omitempty"`
}

// SummaryBlock is the executive summary shown above the product cards.
type SummaryBlock struct {
	TotalProductsFound int     `json:"total_products_found"`
	TopRecommendation  string  `json:"top_recommendation"`
	TopPrice           float64 `json:"top_price"`
	TopRating          float64 `json:"top_rating"`
	AIRecommendation   string  `json:"ai_recommendation"`
}

// ProductView is one fully analyzed product card.
type ProductView struct {
	Rank           int          `json:"rank"`
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Brand          string       `json:"brand"`
	Pricing        PricingBlock `json:"pricing"`
	Ratings        RatingsBlock `json:"ratings"`
	ReviewAnalysis ReviewBlock  `json:"review_analysis"`
	PriceTracking  PriceBlock   `json:"price_tracking"`
}

type PricingBlock struct {
	CurrentPrice    float64 `json:"current_price"`
	MRP             float64 `json:"mrp"`
	DiscountPercent float64 `json:"discount_percent"`
	YouSave         float64 `json:"you_save"`
	InStock         bool    `json:"in_stock"`
}

type RatingsBlock struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
	RatingBadge   string  `json:"rating_badge"`
}

// ReviewBlock carries the review analyzer output for one product, with
// display defaults filled in when the analysis is unavailable.
type ReviewBlock struct {
	Available         bool               `json:"available"`
	Sentiment         string             `json:"sentiment"`
	SentimentEmoji    string             `json:"sentiment_emoji"`
	TrustScore        float64            `json:"trust_score"`
	TrustScorePercent string             `json:"trust_score_percent"`
	Pros              []string           `json:"pros,omitempty"`
	Cons              []string           `json:"cons,omitempty"`
	Summary           string             `json:"summary,omitempty"`
	TopPro            string             `json:"top_pro"`
	TopCon            string             `json:"top_con"`
	Statistics        *review.Statistics `json:"statistics,omitempty"`
	FullAnalysis      string             `json:"full_analysis,omitempty"`
}

// PriceBlock carries the price tracker output for one product. ChartData is
// either the analyzer's Chart.js payload or a flat ChartSeries; DataPoints is
// the length of whichever series is attached, while HistoryDays counts only
// real recorded days and stays 0 for a synthesized series.
type PriceBlock struct {
	Available           bool        `json:"available"`
	Recommendation      string      `json:"recommendation"`
	RecommendationBadge string      `json:"recommendation_badge"`
	CurrentPrice        float64     `json:"current_price"`
	AveragePrice        float64     `json:"average_price"`
	LowestPrice         float64     `json:"lowest_price"`
	HighestPrice        float64     `json:"highest_price"`
	PriceTrend          string      `json:"price_trend"`
	PriceChangePercent  float64     `json:"price_change_percent"`
	AIRecommendation    string      `json:"ai_recommendation,omitempty"`
	Confidence          string      `json:"confidence"`
	ChartData           interface{} `json:"chart_data,omitempty"`
	DataPoints          int         `json:"data_points"`
	HistoryDays         int         `json:"history_days"`
}

// ChartSeries is a flat labels+data price series, built from recorded
// history or synthesized for products without any.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// ComparisonView is the comparison block. Present only when a comparison
// task ran; a single-product request omits it entirely.
type ComparisonView struct {
	Available       bool                 `json:"available"`
	Error           string               `json:"error,omitempty"`
	Winner          *WinnerView          `json:"winner,omitempty"`
	WinnerName      string               `json:"winner_name,omitempty"`
	WinnerReason    string               `json:"winner_reason,omitempty"`
	WinnerID        int64                `json:"winner_id,omitempty"`
	CategoryWinners *CategoryWinners     `json:"category_winners,omitempty"`
	Differences     *compare.Differences `json:"differences,omitempty"`
	AIComparison    string               `json:"ai_comparison,omitempty"`
	FrontendTable   *compare.TableData   `json:"frontend_table,omitempty"`
}

// WinnerView names the overall winner. ProductID is 0 when the winner name
// could not be matched back to a compared product.
type WinnerView struct {
	ProductName string `json:"product_name"`
	ProductID   int64  `json:"product_id,omitempty"`
	Reason      string `json:"reason"`
	Value       string `json:"value,omitempty"`
}

// CategoryWinners carries per-category picks with both the display value and
// the raw numeric value frontends sort on.
type CategoryWinners struct {
	BestPrice  PriceWinner  `json:"best_price"`
	BestRating RatingWinner `json:"best_rating"`
	BestValue  ValueWinner  `json:"best_value"`
}

type PriceWinner struct {
	ProductName string  `json:"product_name"`
	Price       string  `json:"price"`
	PriceRaw    float64 `json:"price_raw"`
	Reason      string  `json:"reason"`
}

type RatingWinner struct {
	ProductName string  `json:"product_name"`
	Rating      string  `json:"rating"`
	RatingRaw   float64 `json:"rating_raw"`
	Reason      string  `json:"reason"`
}

type ValueWinner struct {
	ProductName string `json:"product_name"`
	Value       string `json:"value"`
	Reason      string `json:"reason"`
}

// BuyPlanView is the payment plan block for the top product. Always present
// in a successful response; a failed or timed-out plan shows available:false
// with the error rather than disappearing.
type BuyPlanView struct {
	Available       bool                     `json:"available"`
	Error           string                   `json:"error,omitempty"`
	ProductName     string                   `json:"product_name,omitempty"`
	ProductPrice    float64                  `json:"product_price,omitempty"`
	EMIEligible     bool                     `json:"emi_eligible"`
	PaymentOptions  []buyplan.PaymentOption  `json:"payment_options,omitempty"`
	RegularEMIPlans []buyplan.EMIPlan        `json:"regular_emi_plans,omitempty"`
	NoCostEMIPlans  []buyplan.EMIPlan        `json:"no_cost_emi_plans,omitempty"`
	Recommendations *buyplan.Recommendations `json:"recommendations,omitempty"`
	Summary         string                   `json:"summary,omitempty"`
}

// Metadata describes how the response was produced.
type Metadata struct {
	RequestID     string   `json:"request_id"`
	AgentsUsed    []string `json:"agents_used"`
	TotalAgents   int      `json:"total_agents"`
	ExecutionType string   `json:"execution_type"`
	LLMModel      string   `json:"llm_model"`
}
