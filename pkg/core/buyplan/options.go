package buyplan

import (
	"sort"
	"strings"

	"agentic_recommendation/pkg/models"
)

const cashbackCreditDays = 90

// PaymentOptions enumerates every way to pay: a full-price baseline plus
// one option per applicable card offer. Options come back sorted by total
// savings, highest first, where total savings counts the MRP discount plus
// whatever the offer adds on top.
func PaymentOptions(price, mrp float64, offers []models.CardOffer) []PaymentOption {
	if mrp <= 0 {
		mrp = price
	}
	base := baseDiscount(price, mrp)

	options := []PaymentOption{{
		OptionName:      "Full Price Payment",
		PaymentMethod:   "Any Card/Cash",
		PaymentType:     PayOneTime,
		FinalPrice:      price,
		DiscountFromMRP: base,
		TotalSavings:    base,
		SavingsPercent:  savingsPercent(base, mrp),
	}}

	for _, offer := range offers {
		switch offer.OfferType {
		case models.OfferInstantDiscount:
			extra := offer.DiscountAmount
			if extra == 0 && offer.DiscountPercent > 0 {
				extra = price * offer.DiscountPercent / 100
				if offer.MaxDiscountAmount > 0 && extra > offer.MaxDiscountAmount {
					extra = offer.MaxDiscountAmount
				}
			}
			options = append(options, PaymentOption{
				OptionName:        offer.BankName + " Instant Discount",
				PaymentMethod:     offer.BankName + " Card",
				PaymentType:       PayOneTime,
				FinalPrice:        models.Round2(price - extra),
				DiscountFromMRP:   base,
				AdditionalSavings: models.Round2(extra),
				TotalSavings:      models.Round2(base + extra),
				SavingsPercent:    savingsPercent(base+extra, mrp),
				OfferDetails:      offer.Description,
			})

		case models.OfferCashback:
			cashback := offer.CashbackAmount
			options = append(options, PaymentOption{
				OptionName:         offer.BankName + " Cashback",
				PaymentMethod:      offer.BankName + " Card",
				PaymentType:        PayCashback,
				FinalPrice:         price,
				CashbackAmount:     models.Round2(cashback),
				EffectivePrice:     models.Round2(price - cashback),
				CashbackCreditDays: cashbackCreditDays,
				DiscountFromMRP:    base,
				AdditionalSavings:  models.Round2(cashback),
				TotalSavings:       models.Round2(base + cashback),
				SavingsPercent:     savingsPercent(base+cashback, mrp),
				OfferDetails:       offer.Description,
			})

		case models.OfferNoCostEMI:
			if offer.EMITenureMonths <= 0 {
				continue
			}
			months := offer.EMITenureMonths
			options = append(options, PaymentOption{
				OptionName:      offer.BankName + " No Cost EMI",
				PaymentMethod:   offer.BankName + " Card",
				PaymentType:     PayEMI,
				EMIPerMonth:     models.Round2(price / float64(months)),
				TenureMonths:    months,
				TotalAmount:     models.Round2(price),
				ProcessingFee:   processingFee,
				DiscountFromMRP: base,
				TotalSavings:    base,
				SavingsPercent:  savingsPercent(base, mrp),
				OfferDetails:    offer.Description,
			})
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TotalSavings > options[j].TotalSavings
	})
	return options
}

// SelectBest picks the strongest option per payment style. When no offer
// carries an EMI, the first no-cost schedule stands in so an EMI pick is
// always available.
func SelectBest(options []PaymentOption, noCostPlans []EMIPlan, price, mrp float64) Recommendations {
	var recs Recommendations
	for i := range options {
		opt := &options[i]
		switch {
		case opt.PaymentType == PayOneTime && strings.Contains(opt.OptionName, "Instant Discount"):
			if recs.BestInstantSavings == nil || opt.TotalSavings > recs.BestInstantSavings.TotalSavings {
				recs.BestInstantSavings = opt
			}
		case opt.PaymentType == PayCashback:
			if recs.BestCashback == nil || opt.TotalSavings > recs.BestCashback.TotalSavings {
				recs.BestCashback = opt
			}
		case opt.PaymentType == PayEMI:
			if recs.BestEMI == nil || opt.EMIPerMonth < recs.BestEMI.EMIPerMonth {
				recs.BestEMI = opt
			}
		}
	}
	if recs.BestEMI == nil && len(noCostPlans) > 0 {
		fallback := scheduleOption(noCostPlans[0], price, mrp)
		recs.BestEMI = &fallback
	}
	return recs
}

// scheduleOption dresses a bare EMI schedule as a payment option.
func scheduleOption(plan EMIPlan, price, mrp float64) PaymentOption {
	base := baseDiscount(price, mrp)
	return PaymentOption{
		OptionName:      "No Cost EMI (Best for Budget)",
		PaymentType:     PayEMI,
		EMIPerMonth:     plan.EMIPerMonth,
		TenureMonths:    plan.TenureMonths,
		TotalAmount:     plan.TotalAmount,
		ProcessingFee:   plan.ProcessingFee,
		DiscountFromMRP: base,
		TotalSavings:    base,
		SavingsPercent:  savingsPercent(base, mrp),
	}
}

func baseDiscount(price, mrp float64) float64 {
	if mrp > price {
		return mrp - price
	}
	return 0
}

func savingsPercent(savings, mrp float64) float64 {
	if mrp <= 0 {
		return 0
	}
	return models.Round2(savings / mrp * 100)
}
