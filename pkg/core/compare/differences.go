package compare

import (
	"fmt"

	"agentic_recommendation/pkg/core/utils"
)

// CalculateDifferences computes the price, rating and discount spreads and
// lines up every specification key across the compared products. Ties go to
// the product listed first.
func CalculateDifferences(products []Product) *Differences {
	cheapest, expensive := products[0], products[0]
	topRated, bottomRated := products[0], products[0]
	bestDeal, worstDeal := products[0], products[0]
	for _, p := range products[1:] {
		if p.Price < cheapest.Price {
			cheapest = p
		}
		if p.Price > expensive.Price {
			expensive = p
		}
		if p.Rating > topRated.Rating {
			topRated = p
		}
		if p.Rating < bottomRated.Rating {
			bottomRated = p
		}
		if p.DiscountPct > bestDeal.DiscountPct {
			bestDeal = p
		}
		if p.DiscountPct < worstDeal.DiscountPct {
			worstDeal = p
		}
	}

	specs := make(map[string]map[string]string)
	for _, p := range products {
		for key := range p.Specifications {
			if _, ok := specs[key]; !ok {
				specs[key] = make(map[string]string)
			}
		}
	}
	for key := range specs {
		for _, p := range products {
			if value, ok := p.Specifications[key]; ok {
				specs[key][p.Name] = value
			} else {
				specs[key][p.Name] = "N/A"
			}
		}
	}

	return &Differences{
		PriceAnalysis: PriceAnalysis{
			Cheapest:         cheapest.Price,
			MostExpensive:    expensive.Price,
			PriceDifference:  expensive.Price - cheapest.Price,
			CheapestProduct:  cheapest.Name,
			ExpensiveProduct: expensive.Name,
		},
		RatingAnalysis: RatingAnalysis{
			HighestRated: topRated.Rating,
			LowestRated:  bottomRated.Rating,
			BestProduct:  topRated.Name,
			WorstProduct: bottomRated.Name,
		},
		DiscountAnalysis: DiscountAnalysis{
			BestDiscount:    bestDeal.DiscountPct,
			WorstDiscount:   worstDeal.DiscountPct,
			BestDealProduct: bestDeal.Name,
		},
		Specifications: specs,
		ProductCount:   len(products),
	}
}

// DetermineWinners picks the fixed winner categories. best_overall uses the
// popularity-weighted value score, rating x reviews per 1000 rupees.
func DetermineWinners(products []Product) *Winners {
	cheapest := products[0]
	bestValue := products[0]
	topRated := products[0]
	mostReviewed := products[0]
	bestOverall := products[0]
	for _, p := range products[1:] {
		if p.Price < cheapest.Price {
			cheapest = p
		}
		if p.DiscountPct > bestValue.DiscountPct {
			bestValue = p
		}
		if p.Rating > topRated.Rating {
			topRated = p
		}
		if p.ReviewCount > mostReviewed.ReviewCount {
			mostReviewed = p
		}
		if p.ValueScore > bestOverall.ValueScore {
			bestOverall = p
		}
	}

	savings := 0.0
	if bestValue.MRP > bestValue.Price {
		savings = bestValue.MRP - bestValue.Price
	}

	return &Winners{
		BestPrice: WinnerEntry{
			Product: cheapest.Name,
			Value:   utils.FormatINR(cheapest.Price),
			Reason:  "Lowest price",
		},
		BestValue: WinnerEntry{
			Product: bestValue.Name,
			Value:   fmt.Sprintf("%.1f%% OFF", bestValue.DiscountPct),
			Reason:  "Save " + utils.FormatINR(savings),
		},
		BestRating: WinnerEntry{
			Product: topRated.Name,
			Value:   fmt.Sprintf("%.1f/5", topRated.Rating),
			Reason:  fmt.Sprintf("%d reviews", topRated.ReviewCount),
		},
		MostPopular: WinnerEntry{
			Product: mostReviewed.Name,
			Value:   fmt.Sprintf("%d reviews", mostReviewed.ReviewCount),
			Reason:  "Most user feedback",
		},
		BestOverall: WinnerEntry{
			Product: bestOverall.Name,
			Value:   fmt.Sprintf("Score: %.2f", bestOverall.ValueScore),
			Reason:  "Best combination of price, rating, and popularity",
		},
	}
}
