package price

import (
	"context"
	"fmt"
	"sort"

	"agentic_recommendation/pkg/models"
)

const (
	defaultMinDiscount = 10.0
	defaultDealLimit   = 20
	defaultFlashLimit  = 10
)

// DealSource lists the products a deal scan considers: in stock, with a
// list price on record.
type DealSource interface {
	ListDealCandidates(ctx context.Context, category string, limit int) ([]models.Product, error)
}

// DealFinder scans the catalog for discounts and flags flash deals off
// recent price movement.
type DealFinder struct {
	products DealSource
	prices   PriceSource
}

func NewDealFinder(products DealSource, prices PriceSource) *DealFinder {
	return &DealFinder{products: products, prices: prices}
}

// FindDeals returns products discounted at least minDiscount percent off
// MRP, sorted by discount descending.
func (f *DealFinder) FindDeals(ctx context.Context, category string, minDiscount float64, limit int) ([]Deal, error) {
	if minDiscount <= 0 {
		minDiscount = defaultMinDiscount
	}
	if limit <= 0 {
		limit = defaultDealLimit
	}

	// Over-fetch: the discount filter runs client-side.
	products, err := f.products.ListDealCandidates(ctx, category, limit*2)
	if err != nil {
		return nil, fmt.Errorf("deal scan failed: %w", err)
	}

	var deals []Deal
	for _, p := range products {
		if p.MRP <= 0 || p.Price <= 0 {
			continue
		}
		discountPct := (p.MRP - p.Price) / p.MRP * 100
		if discountPct < minDiscount {
			continue
		}

		isFlash := f.isFlashDeal(ctx, p.ID)
		dealType := "regular"
		if isFlash {
			dealType = "flash"
		}
		deals = append(deals, Deal{
			ProductID:   p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			Category:    p.Category,
			Price:       p.Price,
			MRP:         p.MRP,
			DiscountPct: models.Round2(discountPct),
			Savings:     models.Round2(p.MRP - p.Price),
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
			IsFlashDeal: isFlash,
			DealType:    dealType,
		})
	}

	sort.SliceStable(deals, func(i, j int) bool { return deals[i].DiscountPct > deals[j].DiscountPct })
	if len(deals) > limit {
		deals = deals[:limit]
	}
	return deals, nil
}

// FindFlashDeals keeps only the flash-flagged deals and grades each with an
// urgency tier off its discount percentage.
func (f *DealFinder) FindFlashDeals(ctx context.Context, category string, limit int) ([]Deal, error) {
	if limit <= 0 {
		limit = defaultFlashLimit
	}

	all, err := f.FindDeals(ctx, category, defaultMinDiscount, limit*3)
	if err != nil {
		return nil, err
	}

	var flash []Deal
	for _, d := range all {
		if !d.IsFlashDeal {
			continue
		}
		d.UrgencyScore = d.DiscountPct
		switch {
		case d.DiscountPct >= 40:
			d.UrgencyLevel = UrgencyExtreme
		case d.DiscountPct >= 25:
			d.UrgencyLevel = UrgencyHigh
		case d.DiscountPct >= 15:
			d.UrgencyLevel = UrgencyMedium
		default:
			d.UrgencyLevel = UrgencyLow
		}
		flash = append(flash, d)
	}

	sort.SliceStable(flash, func(i, j int) bool { return flash[i].UrgencyScore > flash[j].UrgencyScore })
	if len(flash) > limit {
		flash = flash[:limit]
	}
	return flash, nil
}

// isFlashDeal flags a product whose price dropped at least 10% within the
// last two recordings, or sits at its 90-day low.
func (f *DealFinder) isFlashDeal(ctx context.Context, productID int64) bool {
	recent, err := f.prices.History(ctx, productID, 7)
	if err != nil || len(recent) < 2 {
		return false
	}
	current := recent[0].Price

	if len(recent) >= 3 {
		old := recent[2].Price
		if old > 0 && (old-current)/old*100 >= 10 {
			return true
		}
	}

	full, err := f.prices.History(ctx, productID, 90)
	if err != nil || len(full) == 0 {
		return false
	}
	minPrice := full[0].Price
	for _, pt := range full {
		if pt.Price < minPrice {
			minPrice = pt.Price
		}
	}
	return current <= minPrice*1.01
}
