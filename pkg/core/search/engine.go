package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"agentic_recommendation/pkg/core/agent"
	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/core/prompt"
	"agentic_recommendation/pkg/core/utils"
	"agentic_recommendation/pkg/core/vectorindex"
	"agentic_recommendation/pkg/models"
)

const (
	defaultLimit = 10
	maxLimit     = 50

	// The index cannot express category/price filters, so the semantic leg
	// over-fetches and filters client-side.
	semanticOverFetch = 3
)

// ProductSource is the slice of the catalog the engine reads products from.
type ProductSource interface {
	Search(ctx context.Context, filter catalog.SearchFilter) ([]models.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// ReviewSource supplies reviews for the product-detail view.
type ReviewSource interface {
	ListByProduct(ctx context.Context, productID int64, limit int) ([]models.Review, error)
}

// PriceSource supplies price history for the product-detail view.
type PriceSource interface {
	History(ctx context.Context, productID int64, days int) ([]models.PricePoint, error)
}

// OfferSource supplies active card offers for the product-detail view.
type OfferSource interface {
	ActiveByProduct(ctx context.Context, productID int64) ([]models.CardOffer, error)
}

// Engine runs hybrid product retrieval: a semantic vector leg fused with a
// predicate catalog leg, enriched and summarized for the caller.
type Engine struct {
	products ProductSource
	reviews  ReviewSource
	prices   PriceSource
	offers   OfferSource
	index    vectorindex.Index
	embedder vectorindex.Embedder
	agents   *agent.Manager
	intents  *IntentParser
}

// NewEngine wires the engine. index and embedder may be nil; retrieval then
// degrades to the predicate leg only.
func NewEngine(
	products ProductSource,
	reviews ReviewSource,
	prices PriceSource,
	offers OfferSource,
	index vectorindex.Index,
	embedder vectorindex.Embedder,
	agents *agent.Manager,
) *Engine {
	return &Engine{
		products: products,
		reviews:  reviews,
		prices:   prices,
		offers:   offers,
		index:    index,
		embedder: embedder,
		agents:   agents,
		intents:  NewIntentParser(agents),
	}
}

// effectiveFilter is the merge of explicit request filters with whatever the
// intent parser extracted. Explicit values always win.
type effectiveFilter struct {
	Category  string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
}

func mergeFilters(req Request, intent SearchIntent) effectiveFilter {
	eff := effectiveFilter{
		Category:  req.Category,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
	}
	if eff.Category == "" {
		eff.Category = intent.Category
	}
	if intent.PriceRange != nil {
		if eff.MinPrice == 0 && intent.PriceRange.Min > 0 {
			eff.MinPrice = intent.PriceRange.Min
		}
		if eff.MaxPrice == 0 && intent.PriceRange.Max > 0 {
			eff.MaxPrice = intent.PriceRange.Max
		}
	}
	return eff
}

// Search runs the full hybrid retrieval flow for one query.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	query := strings.TrimSpace(req.Query)
	fmt.Printf("[SEARCH] Starting search for: '%s'\n", query)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	intent := e.intents.Parse(ctx, query)
	fmt.Printf("[SEARCH] Intent: category=%q brand=%q keywords=%v\n", intent.Category, intent.Brand, intent.Keywords)

	eff := mergeFilters(req, intent)

	semantic := e.semanticLeg(ctx, query, eff, limit*2)
	fmt.Printf("[SEARCH] Semantic results: %d products\n", len(semantic))

	predicate, err := e.predicateLeg(ctx, intent, eff, limit*2)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[SEARCH] Traditional results: %d products\n", len(predicate))

	candidates := fuseCandidates(semantic, predicate, limit)

	products, err := e.enrich(ctx, candidates)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Success:          true,
		Query:            query,
		Products:         products,
		Count:            len(products),
		Intent:           intent,
		SearchMethod:     "hybrid",
		SemanticCount:    len(semantic),
		TraditionalCount: len(predicate),
	}

	if len(products) == 0 {
		result.Reasoning = fmt.Sprintf("No products found matching '%s'. Try different keywords or broader search terms.", query)
		return result, nil
	}

	result.Reasoning = e.summarize(ctx, query, intent, products)
	result.Recommendations = buildRecommendations(products)
	return result, nil
}

// semanticLeg embeds the query and filters index matches by the effective
// constraints. Any vector-side failure degrades to an empty leg with a
// warning; the predicate leg still carries the request.
func (e *Engine) semanticLeg(ctx context.Context, query string, eff effectiveFilter, limit int) []vectorindex.Match {
	if e.index == nil || e.embedder == nil {
		return nil
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		fmt.Printf("[SEARCH] Warning: embedding failed, semantic leg skipped: %v\n", err)
		return nil
	}

	matches, err := e.index.Query(ctx, vector, limit*semanticOverFetch)
	if err != nil {
		fmt.Printf("[SEARCH] Warning: vector query failed, semantic leg skipped: %v\n", err)
		return nil
	}

	return filterMatches(matches, eff, limit)
}

// filterMatches applies the constraints the vector index cannot express.
func filterMatches(matches []vectorindex.Match, eff effectiveFilter, limit int) []vectorindex.Match {
	var out []vectorindex.Match
	want := strings.ToLower(eff.Category)

	for _, m := range matches {
		if want != "" {
			cat := strings.ToLower(m.MetaString("category"))
			sub := strings.ToLower(m.MetaString("subcategory"))
			if !strings.Contains(cat, want) && !strings.Contains(sub, want) {
				continue
			}
		}
		price := m.MetaFloat("price")
		if eff.MinPrice > 0 && price < eff.MinPrice {
			continue
		}
		if eff.MaxPrice > 0 && price > eff.MaxPrice {
			continue
		}
		if eff.MinRating > 0 && m.MetaFloat("rating") < eff.MinRating {
			continue
		}

		out = append(out, m)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// predicateLeg runs the structured catalog query. A catalog failure is fatal
// for the request.
func (e *Engine) predicateLeg(ctx context.Context, intent SearchIntent, eff effectiveFilter, limit int) ([]models.Product, error) {
	filter := catalog.SearchFilter{
		Terms:     intent.Keywords,
		Category:  eff.Category,
		Brand:     intent.Brand,
		MinPrice:  eff.MinPrice,
		MaxPrice:  eff.MaxPrice,
		MinRating: eff.MinRating,
		Limit:     limit,
	}
	products, err := e.products.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("predicate search failed: %w", err)
	}
	return products, nil
}

// fuseCandidates unions both legs by product ID. Semantic hits contribute
// 0.7 x similarity, predicate hits a flat 0.3; products found by both get
// both contributions.
func fuseCandidates(semantic []vectorindex.Match, predicate []models.Product, limit int) []RetrievedCandidate {
	combined := make(map[int64]*RetrievedCandidate)

	for _, m := range semantic {
		if m.ProductID == 0 {
			continue
		}
		combined[m.ProductID] = &RetrievedCandidate{
			ProductID:     m.ProductID,
			SemanticScore: m.Similarity,
			HasSemantic:   true,
			Score:         m.Similarity * 0.7,
		}
	}

	for _, p := range predicate {
		if c, ok := combined[p.ID]; ok {
			c.PredicateMatch = true
			c.Score += 0.3
		} else {
			combined[p.ID] = &RetrievedCandidate{
				ProductID:      p.ID,
				PredicateMatch: true,
				Score:          0.3,
			}
		}
	}

	ranked := make([]RetrievedCandidate, 0, len(combined))
	for _, c := range combined {
		ranked = append(ranked, *c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// enrich loads full catalog records for the fused candidates, preserving
// fusion order.
func (e *Engine) enrich(ctx context.Context, candidates []RetrievedCandidate) ([]RankedProduct, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ProductID
	}

	records, err := e.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich search results: %w", err)
	}
	byID := make(map[int64]*models.Product, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}

	products := make([]RankedProduct, 0, len(candidates))
	for _, c := range candidates {
		p, ok := byID[c.ProductID]
		if !ok {
			continue
		}
		products = append(products, buildRankedProduct(p, c.Score))
	}
	return products, nil
}

func buildRankedProduct(p *models.Product, score float64) RankedProduct {
	mrp := p.MRP
	if mrp <= 0 {
		mrp = p.Price
	}
	return RankedProduct{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		Model:          p.Model,
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		Price:          p.Price,
		MRP:            mrp,
		DiscountPct:    p.DiscountPct(),
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		InStock:        p.InStock,
		Description:    utils.Truncate(p.Description, 200),
		Features:       p.Features,
		Specifications: p.Specifications,
		KeySpecs:       FormatSpecifications(p.Specifications),
		SearchScore:    score,
	}
}

// summarize asks the model for a 2-3 sentence reading of the results,
// degrading to a synthesized line on any failure.
func (e *Engine) summarize(ctx context.Context, query string, intent SearchIntent, products []RankedProduct) string {
	top := products[0]
	fallback := fmt.Sprintf("Found %d products matching '%s'. Top pick: %s at %s with %.1f★ rating.",
		len(products), query, top.Name, utils.FormatINR(top.Price), top.Rating)

	if e.agents == nil {
		return fallback
	}

	userIntent := intent.Intent
	if userIntent == "" {
		userIntent = "Find products"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful shopping assistant. Summarize these search results for the user.\n\n")
	fmt.Fprintf(&b, "User Query: %q\nUser Intent: %s\n\nFound %d products. Here are the top 3:\n\n", query, userIntent, len(products))

	for i, p := range products {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Name)
		fmt.Fprintf(&b, "   Price: %s (MRP: %s, %.1f%% off)\n", utils.FormatINR(p.Price), utils.FormatINR(p.MRP), p.DiscountPct)
		fmt.Fprintf(&b, "   Rating: %.1f★ (%d reviews)\n", p.Rating, p.ReviewCount)
		if len(p.KeySpecs) > 0 {
			n := len(p.KeySpecs)
			if n > 4 {
				n = 4
			}
			fmt.Fprintf(&b, "   Key Specs: %s\n", strings.Join(p.KeySpecs[:n], ", "))
		}
		if len(p.Features) > 0 {
			n := len(p.Features)
			if n > 3 {
				n = 3
			}
			fmt.Fprintf(&b, "   Features: %s\n", strings.Join(p.Features[:n], ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("Provide a helpful 2-3 sentence summary:\n")
	b.WriteString("1. What products were found\n")
	b.WriteString("2. Price range and best deals\n")
	b.WriteString("3. One key recommendation\n\n")
	b.WriteString("Keep it conversational and helpful. Maximum 3 sentences.")

	systemPrompt := prompt.SystemPromptOr(prompt.PromptIDs.AgentSummary,
		"You are a concise shopping assistant. Answer in plain prose, never in lists.")

	options := map[string]interface{}{
		"temperature": 0.7,
		"num_predict": 150,
	}
	response, err := e.agents.ExecutePrompt(ctx, "summary", b.String(), systemPrompt, options)
	if err != nil {
		fmt.Printf("[SEARCH] Summary generation failed (using fallback): %v\n", err)
		return fallback
	}
	return strings.TrimSpace(utils.CleanMarkdown(response))
}

// buildRecommendations derives up to three quick picks from the result set.
func buildRecommendations(products []RankedProduct) []string {
	if len(products) == 0 {
		return nil
	}

	var recommendations []string

	if len(products) >= 2 {
		best := products[0]
		bestRatio := best.Price / maxFloat(best.Rating, 1)
		for _, p := range products[1:] {
			if ratio := p.Price / maxFloat(p.Rating, 1); ratio < bestRatio {
				best, bestRatio = p, ratio
			}
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Best Value: %s - Great features at %s", best.Name, utils.FormatINR(best.Price)))
	}

	highestRated := products[0]
	for _, p := range products[1:] {
		if p.Rating > highestRated.Rating {
			highestRated = p
		}
	}
	if highestRated.Rating >= 4.0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Top Rated: %s - %.1f★ with %d reviews", highestRated.Name, highestRated.Rating, highestRated.ReviewCount))
	}

	bestDiscount := products[0]
	for _, p := range products[1:] {
		if p.DiscountPct > bestDiscount.DiscountPct {
			bestDiscount = p
		}
	}
	if bestDiscount.DiscountPct > 10 {
		recommendations = append(recommendations,
			fmt.Sprintf("Best Deal: %s - %.1f%% off!", bestDiscount.Name, bestDiscount.DiscountPct))
	}

	if len(recommendations) > 3 {
		recommendations = recommendations[:3]
	}
	return recommendations
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ProductDetails loads one product with its recent reviews, price history
// and active offers.
func (e *Engine) ProductDetails(ctx context.Context, productID int64) (*DetailResult, error) {
	p, err := e.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	mrp := p.MRP
	if mrp <= 0 {
		mrp = p.Price
	}
	result := &DetailResult{
		Success: true,
		Product: DetailProduct{
			ID:             p.ID,
			Name:           p.Name,
			Brand:          p.Brand,
			Model:          p.Model,
			Category:       p.Category,
			Subcategory:    p.Subcategory,
			Price:          p.Price,
			MRP:            mrp,
			DiscountPct:    p.DiscountPct(),
			Rating:         p.Rating,
			ReviewCount:    p.ReviewCount,
			InStock:        p.InStock,
			Description:    p.Description,
			Features:       p.Features,
			Specifications: p.Specifications,
		},
	}

	if e.reviews != nil {
		reviews, err := e.reviews.ListByProduct(ctx, productID, 10)
		if err != nil {
			fmt.Printf("[SEARCH] Warning: reviews unavailable for product %d: %v\n", productID, err)
		}
		for _, r := range reviews {
			result.Reviews = append(result.Reviews, DetailReview{
				Rating:   r.Rating,
				Text:     r.Text,
				Verified: r.Verified,
			})
		}
	}

	if e.prices != nil {
		history, err := e.prices.History(ctx, productID, 90)
		if err != nil {
			fmt.Printf("[SEARCH] Warning: price history unavailable for product %d: %v\n", productID, err)
		}
		for i, pt := range history {
			if i >= 30 {
				break
			}
			result.PriceHistory = append(result.PriceHistory, DetailPricePoint{
				Price: pt.Price,
				Date:  pt.RecordedAt.Format(time.RFC3339),
			})
		}
	}

	if e.offers != nil {
		offers, err := e.offers.ActiveByProduct(ctx, productID)
		if err != nil {
			fmt.Printf("[SEARCH] Warning: offers unavailable for product %d: %v\n", productID, err)
		}
		for _, o := range offers {
			result.Offers = append(result.Offers, DetailOffer{
				Bank:            o.BankName,
				Type:            o.OfferType,
				DiscountPercent: o.DiscountPercent,
				DiscountAmount:  o.DiscountAmount,
				CashbackAmount:  o.CashbackAmount,
				EMITenureMonths: o.EMITenureMonths,
				NoCost:          o.NoCost,
				Description:     o.Description,
			})
		}
	}

	return result, nil
}
