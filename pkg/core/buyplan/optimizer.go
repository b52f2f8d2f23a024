package buyplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentic_recommendation/pkg/core/agent"
	"agentic_recommendation/pkg/core/utils"
	"agentic_recommendation/pkg/models"
)

// recommendTimeout bounds the LLM call so a slow model degrades to the
// rule-based line instead of stalling the plan.
const recommendTimeout = 8 * time.Second

const fallbackRecommendation = "Choose the option with highest savings based on your payment preference."

// ProductSource fetches catalog records by id.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// OfferSource lists card offers currently redeemable for a product.
type OfferSource interface {
	ActiveByProduct(ctx context.Context, productID int64) ([]models.CardOffer, error)
}

// Optimizer builds purchase plans: payment options from card offers, EMI
// schedules, best-option selection and an LLM recommendation.
type Optimizer struct {
	products ProductSource
	offers   OfferSource
	agents   *agent.Manager
}

// NewOptimizer wires the optimizer. offers may be nil when card offers are
// unavailable; agents may be nil to force the rule-based recommendation.
func NewOptimizer(products ProductSource, offers OfferSource, agents *agent.Manager) *Optimizer {
	return &Optimizer{products: products, offers: offers, agents: agents}
}

// CreatePlan assembles the full purchase plan for a product: every payment
// option, both EMI schedules, eligibility, best-in-class picks, an LLM
// recommendation and a printable summary.
func (o *Optimizer) CreatePlan(ctx context.Context, productID int64, preference string) (*Plan, error) {
	fmt.Printf("[BUYPLAN] Creating purchase plan for product %d\n", productID)

	product, err := o.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	price := product.Price
	mrp := product.MRP
	if mrp <= 0 {
		mrp = price
	}

	offers := o.activeOffers(ctx, productID)
	options := PaymentOptions(price, mrp, offers)
	regular := RegularEMIPlans(price)
	noCost := NoCostEMIPlans(price)
	eligibility := CheckEligibility(price)

	recs := SelectBest(options, noCost, price, mrp)
	recs.AIRecommendation = o.recommend(ctx, product, recs, preference)

	plan := &Plan{
		Success:         true,
		ProductID:       productID,
		ProductName:     product.Name,
		ProductPrice:    price,
		ProductMRP:      mrp,
		EMIEligible:     eligibility.Eligible,
		PaymentOptions:  options,
		RegularEMIPlans: regular,
		NoCostEMIPlans:  noCost,
		Recommendations: &recs,
	}
	plan.Summary = planSummary(plan)

	fmt.Printf("[BUYPLAN] Plan ready for product %d, %d payment options\n", productID, len(options))
	return plan, nil
}

// RecommendMethod personalizes the pick to the cards a user actually holds
// and their stated preference. The full-price baseline always survives the
// card filter.
func (o *Optimizer) RecommendMethod(ctx context.Context, productID int64, userCards []string, preference string) (*MethodPick, error) {
	product, err := o.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	price := product.Price
	mrp := product.MRP
	if mrp <= 0 {
		mrp = price
	}

	offers := o.activeOffers(ctx, productID)
	options := PaymentOptions(price, mrp, offers)
	noCost := NoCostEMIPlans(price)

	available := filterByCards(options, userCards)

	var pick *PaymentOption
	switch preference {
	case PreferInstantSavings:
		pick = maxSavings(available, PayOneTime)
	case PreferEMI:
		pick = minMonthly(available)
		if pick == nil && len(noCost) > 0 {
			fallback := scheduleOption(noCost[0], price, mrp)
			pick = &fallback
		}
	case PreferCashback:
		pick = maxSavings(available, PayCashback)
	}
	if pick == nil {
		pick = maxSavings(available, "")
	}
	if pick == nil && len(available) > 0 {
		pick = &available[0]
	}

	alternatives := available
	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}

	return &MethodPick{
		Success:            true,
		ProductID:          productID,
		ProductName:        product.Name,
		ProductPrice:       price,
		UserPreference:     preference,
		UserCards:          userCards,
		RecommendedOption:  pick,
		AlternativeOptions: alternatives,
		Reason:             explainPick(pick, preference),
	}, nil
}

// activeOffers degrades to an empty set on lookup failure; the plan still
// works from the baseline and the EMI schedules.
func (o *Optimizer) activeOffers(ctx context.Context, productID int64) []models.CardOffer {
	if o.offers == nil {
		return nil
	}
	offers, err := o.offers.ActiveByProduct(ctx, productID)
	if err != nil {
		fmt.Printf("[BUYPLAN] Offer lookup failed for product %d: %v\n", productID, err)
		return nil
	}
	return offers
}

// recommend asks the payment LLM for a 2-3 sentence take, degrading to a
// fixed rule-of-thumb line on any failure.
func (o *Optimizer) recommend(ctx context.Context, product *models.Product, recs Recommendations, preference string) string {
	if o.agents == nil {
		return fallbackRecommendation
	}

	cctx, cancel := context.WithTimeout(ctx, recommendTimeout)
	defer cancel()

	options := map[string]interface{}{
		"temperature": 0.7,
		"num_predict": 200,
	}
	text, err := o.agents.ExecutePrompt(cctx, "buyplan", buildPlanPrompt(product, recs, preference), buyplanSystemPrompt(), options)
	if err != nil {
		fmt.Printf("[BUYPLAN] LLM recommendation failed: %v\n", err)
		return fallbackRecommendation
	}
	return strings.TrimSpace(text)
}

func filterByCards(options []PaymentOption, userCards []string) []PaymentOption {
	if len(userCards) == 0 {
		return options
	}
	var kept []PaymentOption
	for _, opt := range options {
		if opt.PaymentMethod == "Any Card/Cash" || matchesBank(opt.PaymentMethod, userCards) {
			kept = append(kept, opt)
		}
	}
	return kept
}

func matchesBank(method string, banks []string) bool {
	m := strings.ToLower(method)
	for _, bank := range banks {
		if bank != "" && strings.Contains(m, strings.ToLower(bank)) {
			return true
		}
	}
	return false
}

func maxSavings(options []PaymentOption, paymentType string) *PaymentOption {
	var best *PaymentOption
	for i := range options {
		if paymentType != "" && options[i].PaymentType != paymentType {
			continue
		}
		if best == nil || options[i].TotalSavings > best.TotalSavings {
			best = &options[i]
		}
	}
	return best
}

func minMonthly(options []PaymentOption) *PaymentOption {
	var best *PaymentOption
	for i := range options {
		if options[i].PaymentType != PayEMI {
			continue
		}
		if best == nil || options[i].EMIPerMonth < best.EMIPerMonth {
			best = &options[i]
		}
	}
	return best
}

// explainPick states why the preference branch landed on this option.
func explainPick(pick *PaymentOption, preference string) string {
	if pick == nil {
		return "No specific recommendation available. Choose based on your preference."
	}

	var reasons []string
	switch preference {
	case PreferInstantSavings:
		reasons = append(reasons, "Maximizes immediate savings")
		if pick.AdditionalSavings > 0 {
			reasons = append(reasons, fmt.Sprintf("Save %s instantly", utils.FormatINR(pick.AdditionalSavings)))
		}
	case PreferEMI:
		reasons = append(reasons, "Spreads payment over time")
		if pick.EMIPerMonth > 0 {
			reasons = append(reasons, fmt.Sprintf("Affordable EMI of %s/month", utils.FormatINR(pick.EMIPerMonth)))
		}
	case PreferCashback:
		reasons = append(reasons, "Maximizes cashback returns")
		if pick.CashbackAmount > 0 {
			reasons = append(reasons, fmt.Sprintf("Get %s back within %d days", utils.FormatINR(pick.CashbackAmount), cashbackCreditDays))
		}
	default:
		if pick.TotalSavings > 0 {
			reasons = append(reasons, fmt.Sprintf("Best overall value with %s total savings", utils.FormatINR(pick.TotalSavings)))
		}
	}

	if pick.PaymentType == PayEMI && pick.TotalInterest == 0 {
		reasons = append(reasons, "Zero interest (No Cost EMI)")
	}

	if len(reasons) == 0 {
		return "Choose based on your preference."
	}
	return strings.Join(reasons, ". ") + "."
}

// planSummary renders the printable block that closes every purchase plan.
func planSummary(plan *Plan) string {
	rule := strings.Repeat("=", 50)

	var b strings.Builder
	b.WriteString("PURCHASE PLAN SUMMARY\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "\nProduct: %s\n", plan.ProductName)
	fmt.Fprintf(&b, "Price: %s\n", utils.FormatINR(plan.ProductPrice))

	recs := plan.Recommendations
	if opt := recs.BestInstantSavings; opt != nil {
		b.WriteString("\nBest Instant Savings:\n")
		fmt.Fprintf(&b, "  %s\n", opt.OptionName)
		fmt.Fprintf(&b, "  Final Price: %s\n", utils.FormatINR(opt.FinalPrice))
		fmt.Fprintf(&b, "  You Save: %s\n", utils.FormatINR(opt.AdditionalSavings))
	}
	if opt := recs.BestCashback; opt != nil {
		b.WriteString("\nBest Cashback:\n")
		fmt.Fprintf(&b, "  %s\n", opt.OptionName)
		fmt.Fprintf(&b, "  Cashback: %s\n", utils.FormatINR(opt.CashbackAmount))
		fmt.Fprintf(&b, "  (Credited in %d days)\n", cashbackCreditDays)
	}
	if opt := recs.BestEMI; opt != nil {
		b.WriteString("\nBest EMI Option:\n")
		fmt.Fprintf(&b, "  %s\n", opt.OptionName)
		fmt.Fprintf(&b, "  %s/month x %d months\n", utils.FormatINR(opt.EMIPerMonth), opt.TenureMonths)
	}

	b.WriteString("\nRECOMMENDATION:\n")
	fmt.Fprintf(&b, "  %s\n", recs.AIRecommendation)
	b.WriteString("\n" + rule)
	return b.String()
}
