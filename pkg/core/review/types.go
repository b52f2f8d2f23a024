package review

// Statistics summarizes the rating corpus of one product.
type Statistics struct {
	TotalReviews          int             `json:"total_reviews"`
	AverageRating         float64         `json:"average_rating"`
	RatingDistribution    map[int]int     `json:"rating_distribution"`
	RatingDistributionPct map[int]float64 `json:"rating_distribution_pct"`
	VerifiedPurchases     int             `json:"verified_purchases"`
}

// Themes holds short context snippets captured around sentiment keywords,
// at most ten per polarity.
type Themes struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// Analysis is the review analyzer's full payload. A product with no reviews
// yields Success=false with Message set and nothing else.
type Analysis struct {
	Success      bool        `json:"success"`
	ProductID    int64       `json:"product_id"`
	Message      string      `json:"message,omitempty"`
	Statistics   *Statistics `json:"statistics,omitempty"`
	Sentiment    string      `json:"sentiment,omitempty"`
	Pros         []string    `json:"pros,omitempty"`
	Cons         []string    `json:"cons,omitempty"`
	Summary      string      `json:"summary,omitempty"`
	TrustScore   float64     `json:"trust_score"`
	Themes       *Themes     `json:"themes,omitempty"`
	FullAnalysis string      `json:"full_analysis,omitempty"`
}
