package buyplan

import (
	"fmt"
	"strings"

	"agentic_recommendation/pkg/core/prompt"
	"agentic_recommendation/pkg/core/utils"
	"agentic_recommendation/pkg/models"
)

func buyplanSystemPrompt() string {
	return prompt.SystemPromptOr(prompt.PromptIDs.AgentBuyPlan,
		"You are a helpful financial advisor specializing in purchase optimization. Be concise and practical.")
}

// buildPlanPrompt lays out the strongest option per payment style so the
// model reasons over a handful of real numbers instead of the whole option
// list.
func buildPlanPrompt(product *models.Product, recs Recommendations, preference string) string {
	mrp := product.MRP
	if mrp <= 0 {
		mrp = product.Price
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", product.Name)
	fmt.Fprintf(&b, "Price: %s\n", utils.FormatINR(product.Price))
	fmt.Fprintf(&b, "MRP: %s\n", utils.FormatINR(mrp))
	b.WriteString("\nAvailable Payment Options:\n")

	if opt := recs.BestInstantSavings; opt != nil {
		fmt.Fprintf(&b, "\n1. INSTANT SAVINGS: %s\n", opt.OptionName)
		fmt.Fprintf(&b, "   Final Price: %s\n", utils.FormatINR(opt.FinalPrice))
		fmt.Fprintf(&b, "   You Save: %s\n", utils.FormatINR(opt.AdditionalSavings))
	}
	if opt := recs.BestCashback; opt != nil {
		fmt.Fprintf(&b, "\n2. CASHBACK: %s\n", opt.OptionName)
		fmt.Fprintf(&b, "   Cashback: %s\n", utils.FormatINR(opt.CashbackAmount))
		fmt.Fprintf(&b, "   Effective Price: %s\n", utils.FormatINR(opt.EffectivePrice))
	}
	if opt := recs.BestEMI; opt != nil {
		fmt.Fprintf(&b, "\n3. EMI: %s\n", opt.OptionName)
		fmt.Fprintf(&b, "   %s/month x %d months\n", utils.FormatINR(opt.EMIPerMonth), opt.TenureMonths)
	}

	if preference == "" {
		preference = "Not specified"
	}
	fmt.Fprintf(&b, "\nUser Preference: %s\n", preference)

	b.WriteString("\nProvide a recommendation in 2-3 sentences. Consider:\n")
	b.WriteString("- Maximum savings\n")
	b.WriteString("- Payment convenience\n")
	b.WriteString("- User preference if specified\n")
	b.WriteString("- Time value of money (cashback takes 90 days)\n")
	b.WriteString("\nKeep it conversational and helpful.")
	return b.String()
}
