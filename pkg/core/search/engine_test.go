package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/core/vectorindex"
	"agentic_recommendation/pkg/models"
)

type fakeProducts struct {
	searchResults []models.Product
	searchErr     error
	byID          map[int64]models.Product
	lastFilter    catalog.SearchFilter
}

func (f *fakeProducts) Search(ctx context.Context, filter catalog.SearchFilter) ([]models.Product, error) {
	f.lastFilter = filter
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func (f *fakeProducts) GetByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if p, ok := f.byID[id]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("product %d: %w", id, catalog.ErrNotFound)
}

type fakeIndex struct {
	matches  []vectorindex.Match
	err      error
	lastTopN int
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topN int) ([]vectorindex.Match, error) {
	f.lastTopN = topN
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type fakeEmbedder struct{ err error }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

type fakeReviews struct{ reviews []models.Review }

func (f *fakeReviews) ListByProduct(ctx context.Context, productID int64, limit int) ([]models.Review, error) {
	if limit < len(f.reviews) {
		return f.reviews[:limit], nil
	}
	return f.reviews, nil
}

type fakePrices struct{ history []models.PricePoint }

func (f *fakePrices) History(ctx context.Context, productID int64, days int) ([]models.PricePoint, error) {
	return f.history, nil
}

type fakeOffers struct{ offers []models.CardOffer }

func (f *fakeOffers) ActiveByProduct(ctx context.Context, productID int64) ([]models.CardOffer, error) {
	return f.offers, nil
}

func sampleProducts() map[int64]models.Product {
	return map[int64]models.Product{
		1: {
			ID: 1, Name: "Legion 5", Brand: "Lenovo", Category: "Laptops",
			Price: 79999, MRP: 95999, Rating: 4.5, ReviewCount: 320, InStock: true,
			Description: "Gaming laptop with RTX graphics",
		},
		2: {
			ID: 2, Name: "Aspire 7", Brand: "Acer", Category: "Laptops",
			Price: 54999, MRP: 62999, Rating: 4.1, ReviewCount: 150, InStock: true,
			Description: "Budget gaming laptop",
		},
		3: {
			ID: 3, Name: "MacBook Air", Brand: "Apple", Category: "Laptops",
			Price: 99999, MRP: 99999, Rating: 4.7, ReviewCount: 900, InStock: true,
			Description: "Thin and light productivity machine",
		},
	}
}

func TestFuseCandidatesScoring(t *testing.T) {
	semantic := []vectorindex.Match{
		{ProductID: 1, Similarity: 0.9},
		{ProductID: 3, Similarity: 0.8},
	}
	predicate := []models.Product{{ID: 2}, {ID: 3}}

	got := fuseCandidates(semantic, predicate, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}

	// Product 3 was found by both legs: 0.8*0.7 + 0.3 = 0.86.
	if got[0].ProductID != 3 {
		t.Errorf("both-legs product should rank first, got %d", got[0].ProductID)
	}
	if !got[0].HasSemantic || !got[0].PredicateMatch {
		t.Errorf("product 3 should carry both legs: %+v", got[0])
	}
	if diff := got[0].Score - 0.86; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("product 3 score = %v, want 0.86", got[0].Score)
	}

	// Product 1: semantic only, 0.9*0.7 = 0.63.
	if got[1].ProductID != 1 {
		t.Errorf("expected product 1 second, got %d", got[1].ProductID)
	}
	if diff := got[1].Score - 0.63; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("product 1 score = %v, want 0.63", got[1].Score)
	}

	// Product 2: predicate only, flat 0.3.
	if got[2].ProductID != 2 || got[2].Score != 0.3 {
		t.Errorf("expected product 2 with 0.3, got %+v", got[2])
	}
}

func TestFuseCandidatesTieBreakAndTruncation(t *testing.T) {
	predicate := []models.Product{{ID: 9}, {ID: 4}, {ID: 7}}

	got := fuseCandidates(nil, predicate, 2)
	if len(got) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(got))
	}
	// Equal scores break ties by product ID for stable output.
	if got[0].ProductID != 4 || got[1].ProductID != 7 {
		t.Errorf("tie-break order wrong: %d, %d", got[0].ProductID, got[1].ProductID)
	}
}

func TestFuseCandidatesSkipsMatchesWithoutProductID(t *testing.T) {
	semantic := []vectorindex.Match{{ProductID: 0, Similarity: 0.99}}
	got := fuseCandidates(semantic, nil, 10)
	if len(got) != 0 {
		t.Errorf("matches without a product ID must be dropped, got %v", got)
	}
}

func TestFilterMatches(t *testing.T) {
	matches := []vectorindex.Match{
		{ProductID: 1, Similarity: 0.9, Metadata: map[string]interface{}{
			"category": "Electronics", "subcategory": "Smartphones", "price": 49999.0, "rating": 4.4,
		}},
		{ProductID: 2, Similarity: 0.8, Metadata: map[string]interface{}{
			"category": "Fashion", "subcategory": "Shoes", "price": 2999.0, "rating": 4.0,
		}},
		{ProductID: 3, Similarity: 0.7, Metadata: map[string]interface{}{
			"category": "Electronics", "subcategory": "Smartphones", "price": 89999.0, "rating": 3.9,
		}},
	}

	eff := effectiveFilter{Category: "smartphone", MaxPrice: 60000, MinRating: 4.0}
	got := filterMatches(matches, eff, 10)

	if len(got) != 1 || got[0].ProductID != 1 {
		t.Fatalf("expected only product 1 to survive, got %+v", got)
	}
}

func TestFilterMatchesCategoryMatchesSubcategory(t *testing.T) {
	matches := []vectorindex.Match{
		{ProductID: 5, Similarity: 0.9, Metadata: map[string]interface{}{
			"category": "Electronics", "subcategory": "Gaming Laptops",
		}},
	}
	got := filterMatches(matches, effectiveFilter{Category: "laptop"}, 10)
	if len(got) != 1 {
		t.Errorf("category filter should match against subcategory too")
	}
}

func TestFilterMatchesHonorsLimit(t *testing.T) {
	var matches []vectorindex.Match
	for i := 1; i <= 8; i++ {
		matches = append(matches, vectorindex.Match{ProductID: int64(i), Similarity: 0.5})
	}
	got := filterMatches(matches, effectiveFilter{}, 3)
	if len(got) != 3 {
		t.Errorf("expected 3 matches after limit, got %d", len(got))
	}
}

func TestMergeFiltersExplicitWins(t *testing.T) {
	req := Request{Category: "Laptops", MaxPrice: 70000}
	intent := SearchIntent{Category: "Smartphones", PriceRange: &PriceRange{Min: 10000, Max: 90000}}

	eff := mergeFilters(req, intent)
	if eff.Category != "Laptops" {
		t.Errorf("explicit category must win, got %q", eff.Category)
	}
	if eff.MaxPrice != 70000 {
		t.Errorf("explicit max price must win, got %v", eff.MaxPrice)
	}
	if eff.MinPrice != 10000 {
		t.Errorf("intent should fill an unset min price, got %v", eff.MinPrice)
	}
}

func TestMergeFiltersIntentFillsGaps(t *testing.T) {
	intent := SearchIntent{Category: "Headphones", PriceRange: &PriceRange{Max: 5000}}
	eff := mergeFilters(Request{}, intent)

	if eff.Category != "Headphones" || eff.MaxPrice != 5000 || eff.MinPrice != 0 {
		t.Errorf("merge wrong: %+v", eff)
	}
}

func TestBuildRecommendations(t *testing.T) {
	products := []RankedProduct{
		{Name: "Aspire 7", Price: 54999, Rating: 4.1, ReviewCount: 150, DiscountPct: 12.7},
		{Name: "Legion 5", Price: 79999, Rating: 4.5, ReviewCount: 320, DiscountPct: 16.7},
	}

	recs := buildRecommendations(products)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d: %v", len(recs), recs)
	}

	// 54999/4.1 beats 79999/4.5 on price-per-rating.
	if want := "Best Value: Aspire 7 - Great features at ₹54,999"; recs[0] != want {
		t.Errorf("best value = %q, want %q", recs[0], want)
	}
	if want := "Top Rated: Legion 5 - 4.5★ with 320 reviews"; recs[1] != want {
		t.Errorf("top rated = %q, want %q", recs[1], want)
	}
	if want := "Best Deal: Legion 5 - 16.7% off!"; recs[2] != want {
		t.Errorf("best deal = %q, want %q", recs[2], want)
	}
}

func TestBuildRecommendationsThresholds(t *testing.T) {
	// One product only: no Best Value pair, rating below 4, discount below 10.
	products := []RankedProduct{{Name: "Meh", Price: 999, Rating: 3.2, DiscountPct: 5}}
	if recs := buildRecommendations(products); len(recs) != 0 {
		t.Errorf("expected no recommendations, got %v", recs)
	}

	if recs := buildRecommendations(nil); recs != nil {
		t.Errorf("empty input should yield nil, got %v", recs)
	}
}

func TestSearchHybridFlow(t *testing.T) {
	products := &fakeProducts{
		searchResults: []models.Product{sampleProducts()[2]},
		byID:          sampleProducts(),
	}
	index := &fakeIndex{matches: []vectorindex.Match{
		{ProductID: 1, Similarity: 0.9, Metadata: map[string]interface{}{"category": "Laptops"}},
	}}
	engine := NewEngine(products, nil, nil, nil, index, &fakeEmbedder{}, nil)

	result, err := engine.Search(context.Background(), Request{Query: "gaming laptop", Limit: 5})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if !result.Success {
		t.Error("expected success")
	}
	if result.SearchMethod != "hybrid" {
		t.Errorf("search method = %q", result.SearchMethod)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 products, got %d", result.Count)
	}
	// Semantic hit (0.63) outranks predicate hit (0.3).
	if result.Products[0].ID != 1 || result.Products[1].ID != 2 {
		t.Errorf("order wrong: %d, %d", result.Products[0].ID, result.Products[1].ID)
	}
	if result.SemanticCount != 1 || result.TraditionalCount != 1 {
		t.Errorf("leg counts wrong: semantic=%d traditional=%d", result.SemanticCount, result.TraditionalCount)
	}

	// With no model wired the reasoning degrades to the synthesized line.
	want := "Found 2 products matching 'gaming laptop'. Top pick: Legion 5 at ₹79,999 with 4.5★ rating."
	if result.Reasoning != want {
		t.Errorf("reasoning = %q, want %q", result.Reasoning, want)
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected recommendations for a non-empty result")
	}
}

func TestSearchOverFetchesSemanticLeg(t *testing.T) {
	products := &fakeProducts{byID: sampleProducts()}
	index := &fakeIndex{}
	engine := NewEngine(products, nil, nil, nil, index, &fakeEmbedder{}, nil)

	if _, err := engine.Search(context.Background(), Request{Query: "laptop"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// Default limit 10: semantic leg asks for 2x10 results, over-fetching 3x
	// to leave room for client-side filtering.
	if index.lastTopN != 60 {
		t.Errorf("index topN = %d, want 60", index.lastTopN)
	}
	if products.lastFilter.Limit != 20 {
		t.Errorf("catalog limit = %d, want 20", products.lastFilter.Limit)
	}
}

func TestSearchClampsLimit(t *testing.T) {
	products := &fakeProducts{byID: sampleProducts()}
	index := &fakeIndex{}
	engine := NewEngine(products, nil, nil, nil, index, &fakeEmbedder{}, nil)

	if _, err := engine.Search(context.Background(), Request{Query: "laptop", Limit: 999}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if index.lastTopN != 300 {
		t.Errorf("index topN = %d, want 300 for clamped limit 50", index.lastTopN)
	}
}

func TestSearchEmptyResults(t *testing.T) {
	engine := NewEngine(&fakeProducts{}, nil, nil, nil, nil, nil, nil)

	result, err := engine.Search(context.Background(), Request{Query: "quantum flux capacitor"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !result.Success {
		t.Error("an empty search is still a successful search")
	}
	if result.Count != 0 || len(result.Products) != 0 {
		t.Errorf("expected no products, got %d", result.Count)
	}
	want := "No products found matching 'quantum flux capacitor'. Try different keywords or broader search terms."
	if result.Reasoning != want {
		t.Errorf("reasoning = %q, want %q", result.Reasoning, want)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("no recommendations expected, got %v", result.Recommendations)
	}
}

func TestSearchCatalogFailureIsFatal(t *testing.T) {
	products := &fakeProducts{searchErr: fmt.Errorf("connection refused")}
	engine := NewEngine(products, nil, nil, nil, nil, nil, nil)

	if _, err := engine.Search(context.Background(), Request{Query: "laptop"}); err == nil {
		t.Fatal("catalog outage must fail the search")
	}
}

func TestSearchSemanticFailureDegrades(t *testing.T) {
	products := &fakeProducts{
		searchResults: []models.Product{sampleProducts()[2]},
		byID:          sampleProducts(),
	}
	engine := NewEngine(products, nil, nil, nil, &fakeIndex{}, &fakeEmbedder{err: fmt.Errorf("quota exceeded")}, nil)

	result, err := engine.Search(context.Background(), Request{Query: "laptop"})
	if err != nil {
		t.Fatalf("embedding failure must not fail the search: %v", err)
	}
	if result.Count != 1 || result.SemanticCount != 0 {
		t.Errorf("expected predicate-only results, got count=%d semantic=%d", result.Count, result.SemanticCount)
	}
}

func TestSearchTruncatesDescriptions(t *testing.T) {
	long := strings.Repeat("x", 250)
	products := &fakeProducts{
		searchResults: []models.Product{{ID: 7, Name: "Verbose", Price: 100, Rating: 4, Description: long}},
		byID:          map[int64]models.Product{7: {ID: 7, Name: "Verbose", Price: 100, Rating: 4, Description: long}},
	}
	engine := NewEngine(products, nil, nil, nil, nil, nil, nil)

	result, err := engine.Search(context.Background(), Request{Query: "verbose"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	got := result.Products[0].Description
	if len(got) != 203 || !strings.HasSuffix(got, "...") {
		t.Errorf("description not truncated to 200+ellipsis, len=%d", len(got))
	}
}

func TestSearchFallsBackMRPToPrice(t *testing.T) {
	p := models.Product{ID: 8, Name: "No MRP", Price: 500, Rating: 4}
	products := &fakeProducts{
		searchResults: []models.Product{p},
		byID:          map[int64]models.Product{8: p},
	}
	engine := NewEngine(products, nil, nil, nil, nil, nil, nil)

	result, err := engine.Search(context.Background(), Request{Query: "no mrp"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Products[0].MRP != 500 {
		t.Errorf("MRP should fall back to price, got %v", result.Products[0].MRP)
	}
	if result.Products[0].DiscountPct != 0 {
		t.Errorf("no discount expected, got %v", result.Products[0].DiscountPct)
	}
}

func TestProductDetails(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var history []models.PricePoint
	for i := 0; i < 40; i++ {
		history = append(history, models.PricePoint{ProductID: 1, Price: 79999, RecordedAt: now.AddDate(0, 0, -i)})
	}

	engine := NewEngine(
		&fakeProducts{byID: sampleProducts()},
		&fakeReviews{reviews: []models.Review{{Rating: 5, Text: "Great laptop", Verified: true}}},
		&fakePrices{history: history},
		&fakeOffers{offers: []models.CardOffer{{BankName: "HDFC", OfferType: models.OfferInstantDiscount, DiscountPercent: 10}}},
		nil, nil, nil,
	)

	details, err := engine.ProductDetails(context.Background(), 1)
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if details.Product.Name != "Legion 5" {
		t.Errorf("product name = %q", details.Product.Name)
	}
	if len(details.Reviews) != 1 || !details.Reviews[0].Verified {
		t.Errorf("reviews wrong: %+v", details.Reviews)
	}
	if len(details.PriceHistory) != 30 {
		t.Errorf("price history should cap at 30 points, got %d", len(details.PriceHistory))
	}
	if details.PriceHistory[0].Date != "2025-06-01T12:00:00Z" {
		t.Errorf("date format wrong: %q", details.PriceHistory[0].Date)
	}
	if len(details.Offers) != 1 || details.Offers[0].Bank != "HDFC" {
		t.Errorf("offers wrong: %+v", details.Offers)
	}
}

func TestProductDetailsNotFound(t *testing.T) {
	engine := NewEngine(&fakeProducts{byID: map[int64]models.Product{}}, nil, nil, nil, nil, nil, nil)

	_, err := engine.ProductDetails(context.Background(), 404)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
