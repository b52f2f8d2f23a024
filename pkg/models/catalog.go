package models

import (
	"math"
	"time"
)

// Product is the catalog record every agent works from. The catalog is
// read-only from this module's point of view; ingestion lives elsewhere.
type Product struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Model          string            `json:"model"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory"`
	Price          float64           `json:"price"`
	MRP            float64           `json:"mrp"` // 0 means no list price on record
	Description    string            `json:"description"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	ImageURL       string            `json:"image_url"`
	InStock        bool              `json:"in_stock"`
	StockQuantity  int               `json:"stock_quantity"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// DiscountPct returns the discount off MRP in percent, rounded to 1 decimal.
// Products without an MRP (or priced above it) carry no discount.
func (p *Product) DiscountPct() float64 {
	if p.MRP <= 0 || p.Price >= p.MRP {
		return 0
	}
	return Round1((p.MRP - p.Price) / p.MRP * 100)
}

// Savings returns the absolute rupee gap between MRP and selling price.
func (p *Product) Savings() float64 {
	if p.MRP <= p.Price {
		return 0
	}
	return Round2(p.MRP - p.Price)
}

// ValueScore ranks a product by popularity-weighted rating per 1000 spent.
// Used by the comparator's best_overall winner.
func (p *Product) ValueScore() float64 {
	if p.Price <= 0 {
		return 0
	}
	return (p.Rating * float64(p.ReviewCount)) / (p.Price / 1000.0)
}

type Review struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	Rating       int       `json:"rating"` // 1..5
	Text         string    `json:"text"`
	Verified     bool      `json:"verified"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type PricePoint struct {
	ProductID  int64     `json:"product_id"`
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Offer kinds as stored in card_offers.offer_type.
const (
	OfferInstantDiscount = "instant_discount"
	OfferCashback        = "cashback"
	OfferNoCostEMI       = "no_cost_emi"
	OfferRegularEMI      = "regular_emi"
	OfferCombo           = "combo"
)

// CardOffer is a bank promotion attached to a product. At least one of
// DiscountPercent/DiscountAmount/CashbackAmount/EMITenureMonths is set.
type CardOffer struct {
	ID                   int64     `json:"id"`
	ProductID            int64     `json:"product_id"`
	BankName             string    `json:"bank_name"`
	CardType             string    `json:"card_type"`
	OfferType            string    `json:"offer_type"`
	DiscountPercent      float64   `json:"discount_percent"`
	DiscountAmount       float64   `json:"discount_amount"`
	CashbackAmount       float64   `json:"cashback_amount"`
	EMITenureMonths      int       `json:"emi_tenure_months"`
	NoCost               bool      `json:"no_cost"`
	MinTransactionAmount float64   `json:"min_transaction_amount"`
	MaxDiscountAmount    float64   `json:"max_discount_amount"`
	Description          string    `json:"description"`
	Active               bool      `json:"active"`
	ValidFrom            time.Time `json:"valid_from"`
	ValidTill            time.Time `json:"valid_till"`
}

// Round1 rounds to 1 decimal place, the precision of discount percentages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to 2 decimal places, the precision of monetary values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places, used for similarity scores.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
