package search

import (
	"encoding/json"
	"strings"
)

// Request carries a search query plus the caller's explicit filter overrides.
// Explicit filters win over anything the intent parser extracts.
type Request struct {
	Query     string  `json:"query"`
	Category  string  `json:"category,omitempty"`
	MinPrice  float64 `json:"min_price,omitempty"`
	MaxPrice  float64 `json:"max_price,omitempty"`
	MinRating float64 `json:"min_rating,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// SearchIntent is the structured reading of a free-text query. Every field
// is optional; an absent field means "no constraint".
type SearchIntent struct {
	Category   string      `json:"category,omitempty"`
	Brand      string      `json:"brand,omitempty"`
	Keywords   []string    `json:"keywords,omitempty"`
	PriceRange *PriceRange `json:"price_range,omitempty"`
	Features   []string    `json:"features,omitempty"`
	Intent     string      `json:"intent,omitempty"`
}

// PriceRange tolerates the formats models actually emit: [min,max] with
// either end null, or a bare number meaning "max price".
type PriceRange struct {
	Min float64
	Max float64
}

// UnmarshalJSON never fails; unusable payloads just leave the range empty.
// The intent parser's contract is "always return something usable".
func (p *PriceRange) UnmarshalJSON(data []byte) error {
	var asArray []interface{}
	if err := json.Unmarshal(data, &asArray); err == nil {
		if len(asArray) == 2 {
			if v, ok := asArray[0].(float64); ok {
				p.Min = v
			}
			if v, ok := asArray[1].(float64); ok {
				p.Max = v
			}
		}
		return nil
	}

	var asNumber float64
	if err := json.Unmarshal(data, &asNumber); err == nil {
		p.Max = asNumber
		return nil
	}

	return nil
}

// MarshalJSON renders the range back in [min,max] form.
func (p PriceRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Min, p.Max})
}

// RetrievedCandidate is one product surviving hybrid fusion, before
// enrichment with the full catalog record.
type RetrievedCandidate struct {
	ProductID      int64
	SemanticScore  float64
	HasSemantic    bool
	PredicateMatch bool
	Score          float64
}

// RankedProduct is the enriched, frontend-ready shape of a search hit.
type RankedProduct struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Model          string            `json:"model"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory"`
	Price          float64           `json:"price"`
	MRP            float64           `json:"mrp"`
	DiscountPct    float64           `json:"discount_percent"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	InStock        bool              `json:"in_stock"`
	Description    string            `json:"description"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	KeySpecs       []string          `json:"key_specs"`
	SearchScore    float64           `json:"search_score"`
}

// Result is the full hybrid search response.
type Result struct {
	Success          bool            `json:"success"`
	Query            string          `json:"query"`
	Products         []RankedProduct `json:"products"`
	Count            int             `json:"count"`
	Reasoning        string          `json:"reasoning"`
	Recommendations  []string        `json:"recommendations"`
	Intent           SearchIntent    `json:"intent"`
	SearchMethod     string          `json:"search_method"`
	SemanticCount    int             `json:"semantic_count"`
	TraditionalCount int             `json:"traditional_count"`
}

// DetailResult is the single-product detail response with related records.
type DetailResult struct {
	Success      bool               `json:"success"`
	Product      DetailProduct      `json:"product"`
	Reviews      []DetailReview     `json:"reviews"`
	PriceHistory []DetailPricePoint `json:"price_history"`
	Offers       []DetailOffer      `json:"offers"`
}

type DetailProduct struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Model          string            `json:"model"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory"`
	Price          float64           `json:"price"`
	MRP            float64           `json:"mrp"`
	DiscountPct    float64           `json:"discount_percent"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	InStock        bool              `json:"in_stock"`
	Description    string            `json:"description"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
}

type DetailReview struct {
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	Verified bool   `json:"verified"`
}

type DetailPricePoint struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

type DetailOffer struct {
	Bank            string  `json:"bank"`
	Type            string  `json:"type"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
	DiscountAmount  float64 `json:"discount_amount,omitempty"`
	CashbackAmount  float64 `json:"cashback_amount,omitempty"`
	EMITenureMonths int     `json:"emi_tenure_months,omitempty"`
	NoCost          bool    `json:"no_cost"`
	Description     string  `json:"description,omitempty"`
}

// fallbackIntent is what a query degrades to when the model cannot help:
// every whitespace token becomes a keyword.
func fallbackIntent(query string) SearchIntent {
	return SearchIntent{
		Keywords: strings.Fields(strings.ToLower(query)),
		Intent:   query,
	}
}
