package price

// Trend classifications for the 30-day window.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
	TrendUnknown          = "unknown"
)

// Buy/wait recommendations.
const (
	RecommendBuyNow   = "buy_now"
	RecommendGoodTime = "good_time"
	RecommendWait     = "wait"
)

// Confidence levels for a recommendation.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Urgency tiers for flash deals, keyed off the discount percentage.
const (
	UrgencyExtreme = "extreme"
	UrgencyHigh    = "high"
	UrgencyMedium  = "medium"
	UrgencyLow     = "low"
)

// HistoryEntry is one recorded price, date in RFC 3339.
type HistoryEntry struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

// TrendData is the statistical core of a price analysis.
type TrendData struct {
	CurrentPrice   float64 `json:"current_price"`
	AveragePrice   float64 `json:"average_price"`
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
	Trend          string  `json:"trend"`
	PriceChangePct float64 `json:"price_change_pct"`
	Recommendation string  `json:"recommendation"`
	DataPoints     int     `json:"data_points"`
	ChartData      *Chart  `json:"chart_data,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Analysis is the price analyzer's full payload.
type Analysis struct {
	Success          bool           `json:"success"`
	ProductID        int64          `json:"product_id"`
	ProductName      string         `json:"product_name,omitempty"`
	PriceData        *TrendData     `json:"price_data,omitempty"`
	History          []HistoryEntry `json:"history,omitempty"`
	AIRecommendation string         `json:"ai_recommendation,omitempty"`
	Recommendation   string         `json:"recommendation,omitempty"`
	Confidence       string         `json:"confidence,omitempty"`
}

// Deal is one discounted product found by the deal finder.
type Deal struct {
	ProductID    int64   `json:"product_id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	MRP          float64 `json:"mrp"`
	DiscountPct  float64 `json:"discount_pct"`
	Savings      float64 `json:"savings"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
	IsFlashDeal  bool    `json:"is_flash_deal"`
	DealType     string  `json:"deal_type"`
	UrgencyLevel string  `json:"urgency_level,omitempty"`
	UrgencyScore float64 `json:"urgency_score,omitempty"`
}

// Comparison lines up the headline price numbers of several products.
type Comparison struct {
	Success     bool              `json:"success"`
	Comparisons []ComparisonEntry `json:"comparisons"`
	Count       int               `json:"count"`
}

// ComparisonEntry is one product's row in a price comparison.
type ComparisonEntry struct {
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	CurrentPrice   float64 `json:"current_price"`
	Trend          string  `json:"trend"`
	Recommendation string  `json:"recommendation"`
}

// Chart is the basic line chart attached to a price analysis, shaped for
// Chart.js on the frontend (hence the camelCase dataset keys).
type Chart struct {
	Type     string                 `json:"type"`
	Labels   []string               `json:"labels"`
	Datasets []Dataset              `json:"datasets"`
	Markers  Markers                `json:"markers"`
	Options  map[string]interface{} `json:"options"`
}

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	BorderWidth     int       `json:"borderWidth"`
	BorderDash      []int     `json:"borderDash,omitempty"`
	Fill            bool      `json:"fill"`
	Tension         float64   `json:"tension,omitempty"`
	// Pointer so an explicit 0 (hide points) survives serialization.
	PointRadius      *int   `json:"pointRadius,omitempty"`
	PointHoverRadius int    `json:"pointHoverRadius,omitempty"`
	PointBgColor     string `json:"pointBackgroundColor,omitempty"`
	PointBorderColor string `json:"pointBorderColor,omitempty"`
	PointBorderWidth int    `json:"pointBorderWidth,omitempty"`
}

type Marker struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

type Markers struct {
	CurrentPrice Marker `json:"current_price"`
	LowestPrice  Marker `json:"lowest_price"`
	HighestPrice Marker `json:"highest_price"`
}

// EnrichedChart is the 90-day chart with zones, annotations and insights.
type EnrichedChart struct {
	Labels         []string               `json:"labels"`
	FullDates      []string               `json:"fullDates"`
	Datasets       []Dataset              `json:"datasets"`
	Annotations    []Annotation           `json:"annotations"`
	PriceZones     []PriceZone            `json:"priceZones"`
	Statistics     ChartStatistics        `json:"statistics"`
	Insights       []string               `json:"insights"`
	Recommendation ChartRecommendation    `json:"recommendation"`
	ChartOptions   map[string]interface{} `json:"chartOptions"`
}

// Annotation marks a key point or line on the chart. Point annotations set
// XValue/YValue; line annotations set YMin/YMax.
type Annotation struct {
	Type            string          `json:"type"`
	XValue          *int            `json:"xValue,omitempty"`
	YValue          *float64        `json:"yValue,omitempty"`
	YMin            *float64        `json:"yMin,omitempty"`
	YMax            *float64        `json:"yMax,omitempty"`
	BackgroundColor string          `json:"backgroundColor,omitempty"`
	BorderColor     string          `json:"borderColor"`
	BorderWidth     int             `json:"borderWidth"`
	BorderDash      []int           `json:"borderDash,omitempty"`
	Radius          int             `json:"radius,omitempty"`
	Label           AnnotationLabel `json:"label"`
}

type AnnotationLabel struct {
	Content  string `json:"content"`
	Enabled  bool   `json:"enabled"`
	Position string `json:"position"`
}

// PriceZone is a shaded horizontal band from "Excellent Deal" up to
// "Expensive".
type PriceZone struct {
	Name        string  `json:"name"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Color       string  `json:"color"`
	BorderColor string  `json:"borderColor"`
}

type ChartStatistics struct {
	CurrentPrice    float64 `json:"current_price"`
	MinPrice        float64 `json:"min_price"`
	MaxPrice        float64 `json:"max_price"`
	AveragePrice    float64 `json:"average_price"`
	MinPriceDate    string  `json:"min_price_date"`
	MaxPriceDate    string  `json:"max_price_date"`
	Trend           string  `json:"trend"`
	TrendEmoji      string  `json:"trend_emoji"`
	TrendPercentage float64 `json:"trend_percentage"`
	PriceRange      float64 `json:"price_range"`
	Volatility      float64 `json:"volatility"`
}

type ChartRecommendation struct {
	Action string `json:"action"`
	Emoji  string `json:"emoji"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}
