package buyplan

import (
	"math"

	"agentic_recommendation/pkg/models"
)

const (
	processingFee     = 199.0
	minEMIAmount      = 5000.0
	defaultAnnualRate = 15.0
)

var (
	regularTenures = []int{3, 6, 9, 12, 18, 24}
	noCostTenures  = []int{3, 6, 9, 12}

	// Annual percentage rates by tenure. Longer money costs more.
	annualRates = map[int]float64{
		3:  12.0,
		6:  13.0,
		9:  14.0,
		12: 15.0,
		18: 16.0,
		24: 17.0,
	}
)

// RegularEMIPlans prices a standard EMI schedule for every supported tenure
// using the annuity formula EMI = P*r*(1+r)^n / ((1+r)^n - 1), where r is
// the monthly rate.
func RegularEMIPlans(price float64) []EMIPlan {
	plans := make([]EMIPlan, 0, len(regularTenures))
	for _, months := range regularTenures {
		annual, ok := annualRates[months]
		if !ok {
			annual = defaultAnnualRate
		}
		monthly := annual / 12 / 100
		growth := math.Pow(1+monthly, float64(months))
		emi := price * monthly * growth / (growth - 1)
		total := emi * float64(months)

		plans = append(plans, EMIPlan{
			TenureMonths:  months,
			EMIPerMonth:   models.Round2(emi),
			TotalAmount:   models.Round2(total),
			TotalInterest: models.Round2(total - price),
			AnnualRate:    annual,
			ProcessingFee: processingFee,
			PlanType:      PlanRegular,
		})
	}
	return plans
}

// NoCostEMIPlans splits the price evenly across the short tenures where the
// merchant absorbs interest. The last installment absorbs rounding drift so
// every schedule sums to the exact price.
func NoCostEMIPlans(price float64) []EMIPlan {
	plans := make([]EMIPlan, 0, len(noCostTenures))
	for _, months := range noCostTenures {
		emi := models.Round2(price / float64(months))
		last := models.Round2(price - emi*float64(months-1))

		plans = append(plans, EMIPlan{
			TenureMonths:    months,
			EMIPerMonth:     emi,
			LastInstallment: last,
			TotalAmount:     models.Round2(price),
			TotalInterest:   0,
			AnnualRate:      0,
			ProcessingFee:   processingFee,
			PlanType:        PlanNoCost,
			TotalPayable:    models.Round2(price + processingFee),
		})
	}
	return plans
}

// CheckEligibility reports whether the price clears the EMI floor.
func CheckEligibility(price float64) Eligibility {
	eligible := price >= minEMIAmount
	message := "Eligible for EMI"
	if !eligible {
		message = "EMI available for purchases above Rs. 5,000"
	}
	return Eligibility{
		Eligible:      eligible,
		ProductPrice:  price,
		MinimumAmount: minEMIAmount,
		Message:       message,
	}
}
