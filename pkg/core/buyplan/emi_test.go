package buyplan

import (
	"math"
	"testing"

	"agentic_recommendation/pkg/models"
)

func TestRegularEMIPlansSchedule(t *testing.T) {
	plans := RegularEMIPlans(60000)

	if len(plans) != 6 {
		t.Fatalf("expected 6 plans, got %d", len(plans))
	}

	wantTenures := []int{3, 6, 9, 12, 18, 24}
	wantRates := []float64{12, 13, 14, 15, 16, 17}
	for i, plan := range plans {
		if plan.TenureMonths != wantTenures[i] {
			t.Errorf("plan %d: tenure = %d, want %d", i, plan.TenureMonths, wantTenures[i])
		}
		if plan.AnnualRate != wantRates[i] {
			t.Errorf("plan %d: annual rate = %v, want %v", i, plan.AnnualRate, wantRates[i])
		}
		if plan.PlanType != PlanRegular {
			t.Errorf("plan %d: type = %q", i, plan.PlanType)
		}
		if plan.ProcessingFee != 199 {
			t.Errorf("plan %d: fee = %v", i, plan.ProcessingFee)
		}
		if plan.EMIPerMonth*float64(plan.TenureMonths) < 60000 {
			t.Errorf("plan %d: emi x tenure = %v, below principal", i, plan.EMIPerMonth*float64(plan.TenureMonths))
		}
		if plan.TotalInterest <= 0 {
			t.Errorf("plan %d: interest = %v, want positive", i, plan.TotalInterest)
		}
		if diff := plan.TotalAmount - 60000; math.Abs(diff-plan.TotalInterest) > 0.02 {
			t.Errorf("plan %d: interest %v does not match total %v", i, plan.TotalInterest, plan.TotalAmount)
		}
	}

	// Longer tenures mean smaller installments and more interest.
	for i := 1; i < len(plans); i++ {
		if plans[i].EMIPerMonth >= plans[i-1].EMIPerMonth {
			t.Errorf("emi did not shrink from %dm to %dm", plans[i-1].TenureMonths, plans[i].TenureMonths)
		}
		if plans[i].TotalInterest <= plans[i-1].TotalInterest {
			t.Errorf("interest did not grow from %dm to %dm", plans[i-1].TenureMonths, plans[i].TenureMonths)
		}
	}

	// 60,000 over 12 months at 15% lands near 5,415/month.
	twelve := plans[3]
	if twelve.EMIPerMonth < 5400 || twelve.EMIPerMonth > 5430 {
		t.Errorf("12-month emi = %v, want about 5415", twelve.EMIPerMonth)
	}
}

func TestNoCostEMIPlansExactness(t *testing.T) {
	const price = 58999.0
	plans := NoCostEMIPlans(price)

	if len(plans) != 4 {
		t.Fatalf("expected 4 plans, got %d", len(plans))
	}

	wantTenures := []int{3, 6, 9, 12}
	wantEMIs := []float64{19666.33, 9833.17, 6555.44, 4916.58}
	wantLast := []float64{19666.34, 9833.15, 6555.48, 4916.62}

	for i, plan := range plans {
		if plan.TenureMonths != wantTenures[i] {
			t.Fatalf("plan %d: tenure = %d, want %d", i, plan.TenureMonths, wantTenures[i])
		}
		if plan.EMIPerMonth != wantEMIs[i] {
			t.Errorf("plan %d: emi = %v, want %v", i, plan.EMIPerMonth, wantEMIs[i])
		}
		if plan.LastInstallment != wantLast[i] {
			t.Errorf("plan %d: last installment = %v, want %v", i, plan.LastInstallment, wantLast[i])
		}
		paid := plan.EMIPerMonth*float64(plan.TenureMonths-1) + plan.LastInstallment
		if models.Round2(paid) != price {
			t.Errorf("plan %d: schedule sums to %v, want %v", i, paid, price)
		}
		if plan.TotalInterest != 0 || plan.AnnualRate != 0 {
			t.Errorf("plan %d: interest %v rate %v, want zero", i, plan.TotalInterest, plan.AnnualRate)
		}
		if plan.TotalAmount != price {
			t.Errorf("plan %d: total = %v, want %v", i, plan.TotalAmount, price)
		}
		if plan.TotalPayable != price+199 {
			t.Errorf("plan %d: payable = %v, want %v", i, plan.TotalPayable, price+199)
		}
		if plan.PlanType != PlanNoCost {
			t.Errorf("plan %d: type = %q", i, plan.PlanType)
		}
	}
}

func TestCheckEligibility(t *testing.T) {
	elig := CheckEligibility(5000)
	if !elig.Eligible {
		t.Fatal("price at the floor should be eligible")
	}
	if elig.Message != "Eligible for EMI" {
		t.Errorf("message = %q", elig.Message)
	}
	if elig.MinimumAmount != 5000 {
		t.Errorf("minimum = %v", elig.MinimumAmount)
	}

	elig = CheckEligibility(4999.99)
	if elig.Eligible {
		t.Fatal("price under the floor should not be eligible")
	}
	if elig.Message != "EMI available for purchases above Rs. 5,000" {
		t.Errorf("message = %q", elig.Message)
	}
	if elig.ProductPrice != 4999.99 {
		t.Errorf("price = %v", elig.ProductPrice)
	}
}
