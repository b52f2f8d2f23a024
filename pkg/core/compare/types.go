package compare

// Comparison styles. Table and battle render a stylized output block;
// the rest shape the LLM prose only.
const (
	StyleTable    = "table"
	StyleBattle   = "battle"
	StyleWinner   = "winner"
	StyleDetailed = "detailed"
	StyleUseCase  = "use_case"
)

// DefaultStyle is used when a request omits the comparison style.
const DefaultStyle = StyleDetailed

// ValidStyle reports whether style is one of the supported comparison styles.
func ValidStyle(style string) bool {
	switch style {
	case StyleTable, StyleBattle, StyleWinner, StyleDetailed, StyleUseCase:
		return true
	}
	return false
}

// Styles lists the supported comparison styles for error messages.
func Styles() []string {
	return []string{StyleTable, StyleBattle, StyleWinner, StyleDetailed, StyleUseCase}
}

// Product is the enriched product view a comparison works over.
type Product struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Model          string            `json:"model,omitempty"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory,omitempty"`
	Price          float64           `json:"price"`
	MRP            float64           `json:"mrp"`
	DiscountPct    float64           `json:"discount_percent"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	InStock        bool              `json:"in_stock"`
	Description    string            `json:"description,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Features       []string          `json:"features,omitempty"`
	ValueScore     float64           `json:"value_score"`
}

// PriceAnalysis summarizes the price spread across compared products.
type PriceAnalysis struct {
	Cheapest         float64 `json:"cheapest"`
	MostExpensive    float64 `json:"most_expensive"`
	PriceDifference  float64 `json:"price_difference"`
	CheapestProduct  string  `json:"cheapest_product"`
	ExpensiveProduct string  `json:"expensive_product"`
}

type RatingAnalysis struct {
	HighestRated float64 `json:"highest_rated"`
	LowestRated  float64 `json:"lowest_rated"`
	BestProduct  string  `json:"best_product"`
	WorstProduct string  `json:"worst_product"`
}

type DiscountAnalysis struct {
	BestDiscount    float64 `json:"best_discount"`
	WorstDiscount   float64 `json:"worst_discount"`
	BestDealProduct string  `json:"best_deal_product"`
}

// Differences is the computed comparison block: price/rating/discount
// spreads plus a per-specification-key map of product name to value.
type Differences struct {
	PriceAnalysis    PriceAnalysis                `json:"price_analysis"`
	RatingAnalysis   RatingAnalysis               `json:"rating_analysis"`
	DiscountAnalysis DiscountAnalysis             `json:"discount_analysis"`
	Specifications   map[string]map[string]string `json:"specification_comparison"`
	ProductCount     int                          `json:"product_count"`
}

// WinnerEntry names a category winner with a display value and reason.
type WinnerEntry struct {
	Product string `json:"product"`
	Value   string `json:"value"`
	Reason  string `json:"reason"`
}

// Winners holds the fixed winner categories every comparison emits.
type Winners struct {
	BestPrice   WinnerEntry `json:"best_price"`
	BestValue   WinnerEntry `json:"best_value"`
	BestRating  WinnerEntry `json:"best_rating"`
	MostPopular WinnerEntry `json:"most_popular"`
	BestOverall WinnerEntry `json:"best_overall"`
}

// Result is a comparison payload. The search workflow fields are only set
// by CompareSearchResults.
type Result struct {
	Success            bool         `json:"success"`
	Error              string       `json:"error,omitempty"`
	Products           []Product    `json:"products,omitempty"`
	Differences        *Differences `json:"differences,omitempty"`
	Winners            *Winners     `json:"winners,omitempty"`
	ComparisonOutput   string       `json:"comparison_output,omitempty"`
	FrontendTable      *TableData   `json:"frontend_table,omitempty"`
	AIAnalysis         string       `json:"ai_analysis,omitempty"`
	ComparisonStyle    string       `json:"comparison_style,omitempty"`
	SearchQuery        string       `json:"search_query,omitempty"`
	SearchResultsCount int          `json:"search_results_count,omitempty"`
	Workflow           string       `json:"workflow,omitempty"`
	Summary            string       `json:"summary,omitempty"`
}

// WinnerPick is the direct winner recommendation payload.
type WinnerPick struct {
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	Winner       *Product  `json:"winner,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	Alternatives []Product `json:"alternatives,omitempty"`
}

// TableColumn describes one column of the frontend comparison table. The
// first column holds attribute labels; the rest carry product ids.
type TableColumn struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Width     int    `json:"width"`
	ProductID int64  `json:"product_id,omitempty"`
}

// TableCell is one formatted value with styling hints for the frontend.
type TableCell struct {
	Value string      `json:"value"`
	Raw   interface{} `json:"raw"`
	Style string      `json:"style"`
	Color string      `json:"color,omitempty"`
}

// TableRow maps "attribute"/"attribute_key" plus one "product_N" key per
// compared product to its TableCell.
type TableRow map[string]interface{}

type TableMetadata struct {
	TotalProducts      int    `json:"total_products"`
	AttributesCompared int    `json:"attributes_compared"`
	GeneratedAt        string `json:"generated_at"`
}

type TableRecommendations struct {
	BestValue  string `json:"best_value"`
	BestPrice  string `json:"best_price"`
	BestRating string `json:"best_rating"`
}

// TableData is the frontend-ready comparison table.
type TableData struct {
	Columns         []TableColumn        `json:"columns"`
	Rows            []TableRow           `json:"rows"`
	Winners         *Winners             `json:"winners"`
	Metadata        TableMetadata        `json:"metadata"`
	Recommendations TableRecommendations `json:"recommendations"`
}
