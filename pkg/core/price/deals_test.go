package price

import (
	"context"
	"errors"
	"testing"

	"agentic_recommendation/pkg/models"
)

type fakeDealSource struct {
	products     []models.Product
	lastCategory string
	lastLimit    int
	err          error
}

func (f *fakeDealSource) ListDealCandidates(ctx context.Context, category string, limit int) ([]models.Product, error) {
	f.lastCategory = category
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func dealCandidates() []models.Product {
	return []models.Product{
		{ID: 8001, Name: "Headphones", Brand: "Sony", Category: "electronics", Price: 700, MRP: 1000, Rating: 4.4, ReviewCount: 210},
		{ID: 8002, Name: "Speaker", Brand: "JBL", Category: "electronics", Price: 800, MRP: 1000, Rating: 4.2, ReviewCount: 95},
		{ID: 8003, Name: "Cable", Brand: "boAt", Category: "electronics", Price: 950, MRP: 1000},
		{ID: 8004, Name: "No MRP", Brand: "Generic", Category: "electronics", Price: 500},
		{ID: 8005, Name: "Smartwatch", Brand: "Noise", Category: "electronics", Price: 550, MRP: 1000, Rating: 4.0, ReviewCount: 340},
	}
}

// dealHistories gives 8001 a sharp recent drop and 8005 a 90-day low;
// 8002 has no history at all.
func dealHistories() map[int64][]models.PricePoint {
	return map[int64][]models.PricePoint{
		8001: historyPoints(8001, 700, 750, 800),
		8005: historyPoints(8005, 550, 560),
	}
}

func TestFindDealsFiltersAndSorts(t *testing.T) {
	source := &fakeDealSource{products: dealCandidates()}
	finder := NewDealFinder(source, &fakePriceSource{history: dealHistories()})

	deals, err := finder.FindDeals(context.Background(), "electronics", 10, 10)
	if err != nil {
		t.Fatalf("find deals failed: %v", err)
	}
	if source.lastCategory != "electronics" || source.lastLimit != 20 {
		t.Errorf("candidate query got %q/%d, want electronics/20", source.lastCategory, source.lastLimit)
	}

	wantIDs := []int64{8005, 8001, 8002} // 45%, 30%, 20% off
	if len(deals) != len(wantIDs) {
		t.Fatalf("got %d deals, want %d: %+v", len(deals), len(wantIDs), deals)
	}
	for i, want := range wantIDs {
		if deals[i].ProductID != want {
			t.Errorf("deal[%d] = product %d, want %d", i, deals[i].ProductID, want)
		}
	}

	top := deals[0]
	if top.DiscountPct != 45 || top.Savings != 450 {
		t.Errorf("top deal discount/savings = %v/%v", top.DiscountPct, top.Savings)
	}
	if !top.IsFlashDeal || top.DealType != "flash" {
		t.Errorf("90-day low should be a flash deal: %+v", top)
	}
	if !deals[1].IsFlashDeal {
		t.Errorf("sharp recent drop should be a flash deal: %+v", deals[1])
	}
	if deals[2].IsFlashDeal || deals[2].DealType != "regular" {
		t.Errorf("no history should mean a regular deal: %+v", deals[2])
	}
}

func TestFindDealsDefaults(t *testing.T) {
	source := &fakeDealSource{products: dealCandidates()}
	finder := NewDealFinder(source, &fakePriceSource{})

	deals, err := finder.FindDeals(context.Background(), "", 0, 0)
	if err != nil {
		t.Fatalf("find deals failed: %v", err)
	}
	if source.lastLimit != 40 {
		t.Errorf("default over-fetch = %d, want 40", source.lastLimit)
	}
	// The 5% cable still falls under the default 10% floor.
	for _, d := range deals {
		if d.ProductID == 8003 {
			t.Error("cable should be filtered out at the default floor")
		}
	}
}

func TestFindDealsTruncates(t *testing.T) {
	finder := NewDealFinder(&fakeDealSource{products: dealCandidates()}, &fakePriceSource{})

	deals, err := finder.FindDeals(context.Background(), "", 10, 1)
	if err != nil {
		t.Fatalf("find deals failed: %v", err)
	}
	if len(deals) != 1 || deals[0].ProductID != 8005 {
		t.Errorf("expected only the deepest discount, got %+v", deals)
	}
}

func TestFindDealsPropagatesError(t *testing.T) {
	finder := NewDealFinder(&fakeDealSource{err: errors.New("db down")}, &fakePriceSource{})

	if _, err := finder.FindDeals(context.Background(), "", 10, 10); err == nil {
		t.Fatal("expected an error when the candidate query fails")
	}
}

func TestIsFlashDealPaths(t *testing.T) {
	prices := &fakePriceSource{history: map[int64][]models.PricePoint{
		// 18% drop over the last recordings.
		8101: historyPoints(8101, 900, 950, 1100),
		// Sitting on the 90-day low.
		8102: historyPoints(8102, 1000, 1000, 1010),
		// Shallow drop, and above the period low.
		8103: historyPoints(8103, 1000, 1000, 1050, 900),
		8104: historyPoints(8104, 1000),
	}}
	finder := NewDealFinder(&fakeDealSource{}, prices)
	ctx := context.Background()

	if !finder.isFlashDeal(ctx, 8101) {
		t.Error("sharp drop should flag a flash deal")
	}
	if !finder.isFlashDeal(ctx, 8102) {
		t.Error("90-day low should flag a flash deal")
	}
	if finder.isFlashDeal(ctx, 8103) {
		t.Error("shallow drop above the period low should not flag")
	}
	if finder.isFlashDeal(ctx, 8104) {
		t.Error("a single recording should never flag")
	}
	if finder.isFlashDeal(ctx, 8199) {
		t.Error("no history should never flag")
	}
}

func TestFindFlashDealsUrgencyTiers(t *testing.T) {
	products := []models.Product{
		{ID: 8201, Name: "Extreme", Price: 550, MRP: 1000},
		{ID: 8202, Name: "High", Price: 700, MRP: 1000},
		{ID: 8203, Name: "Medium", Price: 820, MRP: 1000},
		{ID: 8204, Name: "Low", Price: 880, MRP: 1000},
		{ID: 8205, Name: "Regular", Price: 800, MRP: 1000}, // no history, not flash
	}
	histories := make(map[int64][]models.PricePoint)
	for _, p := range products[:4] {
		histories[p.ID] = historyPoints(p.ID, p.Price, p.Price+100, p.Price*2)
	}
	finder := NewDealFinder(&fakeDealSource{products: products}, &fakePriceSource{history: histories})

	flash, err := finder.FindFlashDeals(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("find flash deals failed: %v", err)
	}

	wantLevels := []string{UrgencyExtreme, UrgencyHigh, UrgencyMedium, UrgencyLow}
	if len(flash) != len(wantLevels) {
		t.Fatalf("got %d flash deals, want %d: %+v", len(flash), len(wantLevels), flash)
	}
	for i, want := range wantLevels {
		if flash[i].UrgencyLevel != want {
			t.Errorf("flash[%d] urgency = %q, want %q", i, flash[i].UrgencyLevel, want)
		}
		if flash[i].UrgencyScore != flash[i].DiscountPct {
			t.Errorf("flash[%d] score = %v, want discount %v", i, flash[i].UrgencyScore, flash[i].DiscountPct)
		}
	}
	for _, d := range flash {
		if d.ProductID == 8205 {
			t.Error("regular deal leaked into flash results")
		}
	}
}

func TestFindFlashDealsTruncates(t *testing.T) {
	products := []models.Product{
		{ID: 8301, Name: "A", Price: 500, MRP: 1000},
		{ID: 8302, Name: "B", Price: 600, MRP: 1000},
	}
	histories := map[int64][]models.PricePoint{
		8301: historyPoints(8301, 500, 600, 1000),
		8302: historyPoints(8302, 600, 700, 1000),
	}
	finder := NewDealFinder(&fakeDealSource{products: products}, &fakePriceSource{history: histories})

	flash, err := finder.FindFlashDeals(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("find flash deals failed: %v", err)
	}
	if len(flash) != 1 || flash[0].ProductID != 8301 {
		t.Errorf("expected the deepest discount only, got %+v", flash)
	}
}
