package compare

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentic_recommendation/pkg/core/agent"
	"agentic_recommendation/pkg/core/cache"
	"agentic_recommendation/pkg/core/search"
	"agentic_recommendation/pkg/core/utils"
	"agentic_recommendation/pkg/models"
)

const (
	minProducts     = 2
	maxProducts     = 5
	analysisTimeout = 50 * time.Second
)

// ProductSource fetches catalog records by id.
type ProductSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
}

// Searcher runs the hybrid product search for the search-then-compare flow.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

// Comparator compares 2 to 5 products: differences, category winners,
// stylized output and an LLM analysis. Results are cached for five minutes
// per id set and style; the key is permutation-invariant.
type Comparator struct {
	products ProductSource
	searcher Searcher
	agents   *agent.Manager
	cache    *cache.Store
}

// NewComparator wires the comparator. searcher may be nil when the
// search-then-compare workflow is not needed; agents may be nil to force
// rule-based analysis.
func NewComparator(products ProductSource, searcher Searcher, agents *agent.Manager) *Comparator {
	return &Comparator{products: products, searcher: searcher, agents: agents, cache: cache.Comparisons}
}

// Compare runs a full comparison over the given product ids.
// Validation failures come back as Success=false results, not errors;
// errors are reserved for catalog failures.
func (c *Comparator) Compare(ctx context.Context, productIDs []int64, style string) (*Result, error) {
	if style == "" {
		style = DefaultStyle
	}
	if len(productIDs) < minProducts {
		return &Result{Success: false, Error: "Need at least 2 products to compare"}, nil
	}
	if len(productIDs) > maxProducts {
		return &Result{Success: false, Error: "Maximum 5 products can be compared at once"}, nil
	}

	key := cache.ComparisonKey(productIDs, style)
	if cached, ok := c.cache.Get(key); ok {
		fmt.Printf("[COMPARE] Returning cached comparison for products %v\n", productIDs)
		return cached.(*Result), nil
	}

	fmt.Printf("[COMPARE] Comparing %d products, %s style\n", len(productIDs), style)

	products, err := c.fetch(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) < len(productIDs) {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("Only found %d out of %d products", len(products), len(productIDs)),
		}, nil
	}

	diffs := CalculateDifferences(products)
	winners := DetermineWinners(products)

	result := &Result{
		Success:         true,
		Products:        products,
		Differences:     diffs,
		Winners:         winners,
		AIAnalysis:      c.analyze(ctx, products, diffs, winners, style),
		ComparisonStyle: style,
	}
	switch {
	case style == StyleTable:
		result.ComparisonOutput = ASCIITable(products, nil)
		result.FrontendTable = FrontendTable(products, nil)
	case style == StyleBattle && len(products) == 2:
		result.ComparisonOutput = BattleText(products)
	}

	c.cache.Set(key, result)
	return result, nil
}

// CompareSearchResults searches for products and compares the top results
// in one workflow: search, extract ids, compare, summarize.
func (c *Comparator) CompareSearchResults(ctx context.Context, query string, topN int, style string) (*Result, error) {
	if c.searcher == nil {
		return nil, fmt.Errorf("no search engine configured")
	}
	if topN < minProducts {
		topN = minProducts
	} else if topN > maxProducts {
		topN = maxProducts
	}

	fmt.Printf("[COMPARE] Search and compare: %q, top %d\n", query, topN)

	searchResult, err := c.searcher.Search(ctx, search.Request{Query: query, Limit: topN})
	if err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}
	found := searchResult.Products
	if len(found) < minProducts {
		return &Result{
			Success:     false,
			Error:       fmt.Sprintf("Found only %d product(s). Need at least 2 to compare.", len(found)),
			SearchQuery: query,
		}, nil
	}

	ids := make([]int64, 0, topN)
	for _, p := range found {
		ids = append(ids, p.ID)
		if len(ids) == topN {
			break
		}
	}

	result, err := c.Compare(ctx, ids, style)
	if err != nil || !result.Success {
		return result, err
	}

	// Copy before attaching workflow fields; the cached entry must stay
	// query-independent.
	enriched := *result
	enriched.SearchQuery = query
	enriched.SearchResultsCount = len(found)
	enriched.Workflow = "search_then_compare"
	enriched.Summary = workflowSummary(query, len(enriched.Products), enriched.Winners)
	return &enriched, nil
}

// WinnerRecommendation picks one winner, optionally steered by a use case
// (budget, quality, gaming), with a reason string and up to 2 alternatives.
func (c *Comparator) WinnerRecommendation(ctx context.Context, productIDs []int64, useCase string) (*WinnerPick, error) {
	products, err := c.fetch(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return &WinnerPick{Success: false, Error: "No products found"}, nil
	}

	winners := DetermineWinners(products)

	var winner Product
	if useCase != "" {
		winner = useCaseWinner(products, useCase)
	} else {
		winner = products[0]
		for _, p := range products {
			if p.Name == winners.BestOverall.Product {
				winner = p
				break
			}
		}
	}

	alternatives := make([]Product, 0, 2)
	for _, p := range products {
		if p.ID == winner.ID {
			continue
		}
		alternatives = append(alternatives, p)
		if len(alternatives) == 2 {
			break
		}
	}

	return &WinnerPick{
		Success:      true,
		Winner:       &winner,
		Reason:       explainWinner(winner, products, useCase),
		Alternatives: alternatives,
	}, nil
}

// fetch loads and enriches the requested products, preserving request
// order. Duplicate ids are collapsed, which the caller's length check then
// reports as missing products.
func (c *Comparator) fetch(ctx context.Context, ids []int64) ([]Product, error) {
	records, err := c.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products for comparison: %w", err)
	}

	byID := make(map[int64]models.Product, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	seen := make(map[int64]bool, len(ids))
	products := make([]Product, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if record, ok := byID[id]; ok {
			products = append(products, enrich(record))
		}
	}
	return products, nil
}

func enrich(p models.Product) Product {
	return Product{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		Model:          p.Model,
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		Price:          p.Price,
		MRP:            p.MRP,
		DiscountPct:    p.DiscountPct(),
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		InStock:        p.InStock,
		Description:    p.Description,
		Specifications: p.Specifications,
		Features:       p.Features,
		ValueScore:     p.ValueScore(),
	}
}

func (c *Comparator) analyze(ctx context.Context, products []Product, diffs *Differences, winners *Winners, style string) string {
	if c.agents == nil {
		return fallbackAnalysis(products, winners)
	}

	cctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	options := map[string]interface{}{
		"temperature": 0.3,
		"num_predict": 120,
		"top_p":       0.9,
	}
	response, err := c.agents.ExecutePrompt(cctx, "compare", buildComparisonPrompt(products, diffs, winners, style), comparisonSystemPrompt(), options)
	if err != nil {
		fmt.Printf("[COMPARE] Analysis generation failed, using rule-based fallback: %v\n", err)
		return fallbackAnalysis(products, winners)
	}
	return strings.TrimSpace(response)
}

func useCaseWinner(products []Product, useCase string) Product {
	uc := strings.ToLower(useCase)

	if strings.Contains(uc, "budget") || strings.Contains(uc, "cheap") {
		winner := products[0]
		for _, p := range products[1:] {
			if p.Price < winner.Price {
				winner = p
			}
		}
		return winner
	}

	if strings.Contains(uc, "quality") || strings.Contains(uc, "best") {
		winner := products[0]
		for _, p := range products[1:] {
			if p.Rating > winner.Rating {
				winner = p
			}
		}
		return winner
	}

	if strings.Contains(uc, "gaming") || strings.Contains(uc, "game") {
		var candidates []Product
		for _, p := range products {
			for _, f := range p.Features {
				if strings.Contains(strings.ToLower(f), "gaming") {
					candidates = append(candidates, p)
					break
				}
			}
		}
		if len(candidates) > 0 {
			winner := candidates[0]
			for _, p := range candidates[1:] {
				if p.Rating > winner.Rating {
					winner = p
				}
			}
			return winner
		}
	}

	winner := products[0]
	for _, p := range products[1:] {
		if p.ValueScore > winner.ValueScore {
			winner = p
		}
	}
	return winner
}

func explainWinner(winner Product, products []Product, useCase string) string {
	var reasons []string
	if useCase != "" {
		reasons = append(reasons, "Best match for: "+useCase)
	}

	minPrice, maxRating, maxDiscount := products[0].Price, products[0].Rating, products[0].DiscountPct
	for _, p := range products[1:] {
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Rating > maxRating {
			maxRating = p.Rating
		}
		if p.DiscountPct > maxDiscount {
			maxDiscount = p.DiscountPct
		}
	}

	if winner.Price == minPrice {
		reasons = append(reasons, "Lowest price: "+utils.FormatINR(winner.Price))
	}
	if winner.Rating == maxRating {
		reasons = append(reasons, fmt.Sprintf("Highest rated: %.1f/5", winner.Rating))
	}
	if winner.DiscountPct == maxDiscount && winner.DiscountPct > 0 {
		reasons = append(reasons, fmt.Sprintf("Best discount: %.1f%% OFF", winner.DiscountPct))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Best overall value")
	}
	return strings.Join(reasons, " | ")
}
