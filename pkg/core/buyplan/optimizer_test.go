package buyplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"agentic_recommendation/pkg/core/catalog"
	"agentic_recommendation/pkg/models"
)

type fakePlanProducts struct {
	products map[int64]models.Product
}

func (f *fakePlanProducts) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("product %d: %w", id, catalog.ErrNotFound)
}

type fakeOfferSource struct {
	offers map[int64][]models.CardOffer
	err    error
}

func (f *fakeOfferSource) ActiveByProduct(ctx context.Context, productID int64) ([]models.CardOffer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.offers[productID], nil
}

func pavilionProduct() models.Product {
	return models.Product{
		ID:          42,
		Name:        "HP Pavilion 15",
		Brand:       "HP",
		Category:    "Laptops",
		Price:       58999,
		MRP:         64999,
		Rating:      4.3,
		ReviewCount: 812,
		InStock:     true,
	}
}

func pavilionOffers() []models.CardOffer {
	return []models.CardOffer{
		{ID: 1, ProductID: 42, BankName: "HDFC", OfferType: models.OfferInstantDiscount, DiscountAmount: 3000, Description: "HDFC credit cards only"},
		{ID: 2, ProductID: 42, BankName: "SBI", OfferType: models.OfferInstantDiscount, DiscountPercent: 10, MaxDiscountAmount: 2500},
		{ID: 3, ProductID: 42, BankName: "ICICI", OfferType: models.OfferCashback, CashbackAmount: 2000},
		{ID: 4, ProductID: 42, BankName: "Axis", OfferType: models.OfferNoCostEMI, EMITenureMonths: 6, NoCost: true},
	}
}

func newTestOptimizer(offers *fakeOfferSource) *Optimizer {
	products := &fakePlanProducts{products: map[int64]models.Product{42: pavilionProduct()}}
	return NewOptimizer(products, offers, nil)
}

func TestPaymentOptionsEnumeration(t *testing.T) {
	options := PaymentOptions(58999, 64999, pavilionOffers())

	if len(options) != 5 {
		t.Fatalf("expected 5 options, got %d", len(options))
	}

	wantOrder := []string{
		"HDFC Instant Discount",
		"SBI Instant Discount",
		"ICICI Cashback",
		"Full Price Payment",
		"Axis No Cost EMI",
	}
	for i, want := range wantOrder {
		if options[i].OptionName != want {
			t.Fatalf("option %d = %q, want %q", i, options[i].OptionName, want)
		}
	}

	hdfc := options[0]
	if hdfc.FinalPrice != 55999 || hdfc.AdditionalSavings != 3000 || hdfc.TotalSavings != 9000 {
		t.Errorf("hdfc option = %+v", hdfc)
	}
	if hdfc.SavingsPercent != 13.85 {
		t.Errorf("hdfc savings percent = %v, want 13.85", hdfc.SavingsPercent)
	}
	if hdfc.PaymentMethod != "HDFC Card" || hdfc.PaymentType != PayOneTime {
		t.Errorf("hdfc method/type = %q/%q", hdfc.PaymentMethod, hdfc.PaymentType)
	}

	// 10% of 58,999 clears the cap, so the cap applies.
	sbi := options[1]
	if sbi.AdditionalSavings != 2500 || sbi.FinalPrice != 56499 || sbi.TotalSavings != 8500 {
		t.Errorf("sbi option = %+v", sbi)
	}

	icici := options[2]
	if icici.FinalPrice != 58999 || icici.EffectivePrice != 56999 || icici.CashbackCreditDays != 90 {
		t.Errorf("icici option = %+v", icici)
	}
	if icici.PaymentType != PayCashback || icici.TotalSavings != 8000 {
		t.Errorf("icici type/savings = %q/%v", icici.PaymentType, icici.TotalSavings)
	}

	baseline := options[3]
	if baseline.PaymentMethod != "Any Card/Cash" || baseline.FinalPrice != 58999 {
		t.Errorf("baseline option = %+v", baseline)
	}
	if baseline.TotalSavings != 6000 || baseline.SavingsPercent != 9.23 {
		t.Errorf("baseline savings = %v at %v%%", baseline.TotalSavings, baseline.SavingsPercent)
	}

	axis := options[4]
	if axis.PaymentType != PayEMI || axis.TenureMonths != 6 || axis.EMIPerMonth != 9833.17 {
		t.Errorf("axis option = %+v", axis)
	}
	if axis.TotalAmount != 58999 || axis.ProcessingFee != 199 {
		t.Errorf("axis totals = %v fee %v", axis.TotalAmount, axis.ProcessingFee)
	}
}

func TestPaymentOptionsNoMRP(t *testing.T) {
	options := PaymentOptions(4500, 0, nil)
	if len(options) != 1 {
		t.Fatalf("expected baseline only, got %d", len(options))
	}
	if options[0].TotalSavings != 0 || options[0].SavingsPercent != 0 {
		t.Errorf("baseline savings = %+v", options[0])
	}
	if options[0].FinalPrice != 4500 {
		t.Errorf("final price = %v", options[0].FinalPrice)
	}
}

func TestSelectBest(t *testing.T) {
	options := PaymentOptions(58999, 64999, pavilionOffers())
	recs := SelectBest(options, NoCostEMIPlans(58999), 58999, 64999)

	if recs.BestInstantSavings == nil || recs.BestInstantSavings.OptionName != "HDFC Instant Discount" {
		t.Fatalf("best instant = %+v", recs.BestInstantSavings)
	}
	if recs.BestCashback == nil || recs.BestCashback.OptionName != "ICICI Cashback" {
		t.Fatalf("best cashback = %+v", recs.BestCashback)
	}
	if recs.BestEMI == nil || recs.BestEMI.OptionName != "Axis No Cost EMI" {
		t.Fatalf("best emi = %+v", recs.BestEMI)
	}
}

func TestSelectBestEMIFallback(t *testing.T) {
	options := PaymentOptions(58999, 64999, nil)
	recs := SelectBest(options, NoCostEMIPlans(58999), 58999, 64999)

	if recs.BestInstantSavings != nil || recs.BestCashback != nil {
		t.Fatalf("expected no offer-backed picks, got %+v / %+v", recs.BestInstantSavings, recs.BestCashback)
	}
	emi := recs.BestEMI
	if emi == nil {
		t.Fatal("expected the no-cost schedule to stand in")
	}
	if emi.OptionName != "No Cost EMI (Best for Budget)" || emi.TenureMonths != 3 {
		t.Errorf("fallback = %+v", emi)
	}
	if emi.EMIPerMonth != 19666.33 || emi.TotalSavings != 6000 {
		t.Errorf("fallback numbers = %+v", emi)
	}
}

func TestCreatePlan(t *testing.T) {
	opt := newTestOptimizer(&fakeOfferSource{offers: map[int64][]models.CardOffer{42: pavilionOffers()}})

	plan, err := opt.CreatePlan(context.Background(), 42, PreferInstantSavings)
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	if !plan.Success || plan.ProductName != "HP Pavilion 15" {
		t.Fatalf("plan header = %+v", plan)
	}
	if plan.ProductPrice != 58999 || plan.ProductMRP != 64999 {
		t.Errorf("prices = %v / %v", plan.ProductPrice, plan.ProductMRP)
	}
	if !plan.EMIEligible {
		t.Error("a 58,999 laptop should be EMI eligible")
	}
	if len(plan.PaymentOptions) != 5 {
		t.Errorf("payment options = %d", len(plan.PaymentOptions))
	}
	if len(plan.RegularEMIPlans) != 6 || len(plan.NoCostEMIPlans) != 4 {
		t.Errorf("schedules = %d regular / %d no-cost", len(plan.RegularEMIPlans), len(plan.NoCostEMIPlans))
	}
	if plan.Recommendations == nil {
		t.Fatal("missing recommendations")
	}
	if plan.Recommendations.AIRecommendation != fallbackRecommendation {
		t.Errorf("ai recommendation = %q", plan.Recommendations.AIRecommendation)
	}

	for _, want := range []string{
		"PURCHASE PLAN SUMMARY",
		"Product: HP Pavilion 15",
		"Best Instant Savings:",
		"HDFC Instant Discount",
		"Best Cashback:",
		"Best EMI Option:",
		"RECOMMENDATION:",
	} {
		if !strings.Contains(plan.Summary, want) {
			t.Errorf("summary missing %q:\n%s", want, plan.Summary)
		}
	}
}

func TestCreatePlanOfferLookupFailure(t *testing.T) {
	opt := newTestOptimizer(&fakeOfferSource{err: errors.New("pool down")})

	plan, err := opt.CreatePlan(context.Background(), 42, "")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if !plan.Success {
		t.Fatal("offer failure should degrade, not fail the plan")
	}
	if len(plan.PaymentOptions) != 1 || plan.PaymentOptions[0].OptionName != "Full Price Payment" {
		t.Errorf("options = %+v", plan.PaymentOptions)
	}
	if plan.Recommendations.BestEMI == nil {
		t.Error("no-cost schedule should still back the EMI pick")
	}
}

func TestCreatePlanNotFound(t *testing.T) {
	opt := newTestOptimizer(&fakeOfferSource{})
	_, err := opt.CreatePlan(context.Background(), 404, "")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRecommendMethodFiltersToUserCards(t *testing.T) {
	opt := newTestOptimizer(&fakeOfferSource{offers: map[int64][]models.CardOffer{42: pavilionOffers()}})

	pick, err := opt.RecommendMethod(context.Background(), 42, []string{"hdfc"}, PreferBalanced)
	if err != nil {
		t.Fatalf("RecommendMethod: %v", err)
	}

	if pick.RecommendedOption == nil || pick.RecommendedOption.OptionName != "HDFC Instant Discount" {
		t.Fatalf("pick = %+v", pick.RecommendedOption)
	}
	if len(pick.AlternativeOptions) != 2 {
		t.Fatalf("alternatives = %d", len(pick.AlternativeOptions))
	}
	for _, alt := range pick.AlternativeOptions {
		if alt.OptionName != "HDFC Instant Discount" && alt.OptionName != "Full Price Payment" {
			t.Errorf("unexpected alternative %q", alt.OptionName)
		}
	}
	if pick.Reason != "Best overall value with ₹9,000 total savings." {
		t.Errorf("reason = %q", pick.Reason)
	}
	if pick.UserPreference != PreferBalanced || pick.ProductName != "HP Pavilion 15" {
		t.Errorf("echo fields = %+v", pick)
	}
}

func TestRecommendMethodPreferEMI(t *testing.T) {
	opt := newTestOptimizer(&fakeOfferSource{offers: map[int64][]models.CardOffer{42: pavilionOffers()}})

	pick, err := opt.RecommendMethod(context.Background(), 42, nil, PreferEMI)
	if err != nil {
		t.Fatalf("RecommendMethod: %v", err)
	}
	if pick.RecommendedOption == nil || pick.RecommendedOption.OptionName != "Axis No Cost EMI" {
		t.Fatalf("pick = %+v", pick.RecommendedOption)
	}
	if pick.Reason != "Spreads payment over time. Affordable EMI of ₹9,833/month. Zero interest (No Cost EMI)." {
		t.Errorf("reason = %q", pick.Reason)
	}
	if len(pick.AlternativeOptions) != 3 {
		t.Errorf("alternatives = %d", len(pick.AlternativeOptions))
	}
}

func TestRecommendMethodEMIFallbackSchedule(t *testing.T) {
	opt := newTestOptimizer(&fakeOfferSource{offers: map[int64][]models.CardOffer{42: pavilionOffers()}})

	pick, err := opt.RecommendMethod(context.Background(), 42, []string{"ICICI"}, PreferEMI)
	if err != nil {
		t.Fatalf("RecommendMethod: %v", err)
	}
	if pick.RecommendedOption == nil || pick.RecommendedOption.OptionName != "No Cost EMI (Best for Budget)" {
		t.Fatalf("pick = %+v", pick.RecommendedOption)
	}
	if pick.RecommendedOption.TenureMonths != 3 {
		t.Errorf("tenure = %d", pick.RecommendedOption.TenureMonths)
	}
	if !strings.Contains(pick.Reason, "Zero interest (No Cost EMI)") {
		t.Errorf("reason = %q", pick.Reason)
	}
}

func TestRecommendMethodPreferInstantAndCashback(t *testing.T) {
	opt := newTestOptimizer(&fakeOfferSource{offers: map[int64][]models.CardOffer{42: pavilionOffers()}})

	pick, err := opt.RecommendMethod(context.Background(), 42, nil, PreferInstantSavings)
	if err != nil {
		t.Fatalf("RecommendMethod: %v", err)
	}
	if pick.RecommendedOption.OptionName != "HDFC Instant Discount" {
		t.Fatalf("instant pick = %+v", pick.RecommendedOption)
	}
	if pick.Reason != "Maximizes immediate savings. Save ₹3,000 instantly." {
		t.Errorf("instant reason = %q", pick.Reason)
	}

	pick, err = opt.RecommendMethod(context.Background(), 42, nil, PreferCashback)
	if err != nil {
		t.Fatalf("RecommendMethod: %v", err)
	}
	if pick.RecommendedOption.OptionName != "ICICI Cashback" {
		t.Fatalf("cashback pick = %+v", pick.RecommendedOption)
	}
	if pick.Reason != "Maximizes cashback returns. Get ₹2,000 back within 90 days." {
		t.Errorf("cashback reason = %q", pick.Reason)
	}
}

func TestExplainPickNoOption(t *testing.T) {
	want := "No specific recommendation available. Choose based on your preference."
	if got := explainPick(nil, PreferBalanced); got != want {
		t.Errorf("reason = %q", got)
	}
}
