package buyplan

// Payment option kinds.
const (
	PayOneTime  = "one_time"
	PayCashback = "cashback"
	PayEMI      = "emi"
)

// EMI schedule kinds.
const (
	PlanRegular = "regular_emi"
	PlanNoCost  = "no_cost_emi"
)

// User payment preferences.
const (
	PreferInstantSavings = "instant_savings"
	PreferEMI            = "emi"
	PreferCashback       = "cashback"
	PreferBalanced       = "balanced"
)

// EMIPlan is one row of an EMI schedule.
type EMIPlan struct {
	TenureMonths    int     `json:"tenure_months"`
	EMIPerMonth     float64 `json:"emi_per_month"`
	LastInstallment float64 `json:"last_installment,omitempty"`
	TotalAmount     float64 `json:"total_amount"`
	TotalInterest   float64 `json:"total_interest"`
	AnnualRate      float64 `json:"interest_rate_annual"`
	ProcessingFee   float64 `json:"processing_fee"`
	PlanType        string  `json:"plan_type"`
	TotalPayable    float64 `json:"total_payable,omitempty"`
}

// PaymentOption is one way to pay for a product. Fields specific to a
// payment type stay zero for the others.
type PaymentOption struct {
	OptionName         string  `json:"option_name"`
	PaymentMethod      string  `json:"payment_method,omitempty"`
	PaymentType        string  `json:"payment_type"`
	FinalPrice         float64 `json:"final_price,omitempty"`
	DiscountFromMRP    float64 `json:"discount_from_mrp"`
	AdditionalSavings  float64 `json:"additional_savings"`
	TotalSavings       float64 `json:"total_savings"`
	SavingsPercent     float64 `json:"savings_percent"`
	CashbackAmount     float64 `json:"cashback_amount,omitempty"`
	EffectivePrice     float64 `json:"effective_price,omitempty"`
	CashbackCreditDays int     `json:"cashback_credit_days,omitempty"`
	EMIPerMonth        float64 `json:"emi_per_month,omitempty"`
	TenureMonths       int     `json:"tenure_months,omitempty"`
	TotalAmount        float64 `json:"total_amount,omitempty"`
	ProcessingFee      float64 `json:"processing_fee,omitempty"`
	TotalInterest      float64 `json:"total_interest,omitempty"`
	OfferDetails       string  `json:"offer_details,omitempty"`
}

// Eligibility reports whether a price clears the EMI floor.
type Eligibility struct {
	Eligible      bool    `json:"eligible_for_emi"`
	ProductPrice  float64 `json:"product_price"`
	MinimumAmount float64 `json:"minimum_amount_required"`
	Message       string  `json:"message"`
}

// Recommendations carries the strongest option per payment style plus the
// LLM take. A nil pointer means no option of that style exists.
type Recommendations struct {
	BestInstantSavings *PaymentOption `json:"best_instant_savings"`
	BestCashback       *PaymentOption `json:"best_cashback"`
	BestEMI            *PaymentOption `json:"best_emi"`
	AIRecommendation   string         `json:"ai_recommendation,omitempty"`
}

// Plan is the complete purchase plan for one product.
type Plan struct {
	Success         bool             `json:"success"`
	Error           string           `json:"error,omitempty"`
	ProductID       int64            `json:"product_id,omitempty"`
	ProductName     string           `json:"product_name,omitempty"`
	ProductPrice    float64          `json:"product_price,omitempty"`
	ProductMRP      float64          `json:"product_mrp,omitempty"`
	EMIEligible     bool             `json:"emi_eligible"`
	PaymentOptions  []PaymentOption  `json:"payment_options,omitempty"`
	RegularEMIPlans []EMIPlan        `json:"regular_emi_plans,omitempty"`
	NoCostEMIPlans  []EMIPlan        `json:"no_cost_emi_plans,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty"`
	Summary         string           `json:"summary,omitempty"`
}

// MethodPick is a payment recommendation personalized to the cards a user
// holds.
type MethodPick struct {
	Success            bool            `json:"success"`
	Error              string          `json:"error,omitempty"`
	ProductID          int64           `json:"product_id,omitempty"`
	ProductName        string          `json:"product_name,omitempty"`
	ProductPrice       float64         `json:"product_price,omitempty"`
	UserPreference     string          `json:"user_preference,omitempty"`
	UserCards          []string        `json:"user_cards,omitempty"`
	RecommendedOption  *PaymentOption  `json:"recommended_option"`
	AlternativeOptions []PaymentOption `json:"alternative_options,omitempty"`
	Reason             string          `json:"reason,omitempty"`
}
