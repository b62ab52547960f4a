package loan

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidEMIInput = errors.New("invalid emi input")

// Affordability bands for the EMI-to-income ratio, in percent.
const (
	RatioComfortable = 30.0
	RatioStretched   = 40.0
)

// EMI computes the fixed monthly installment of an amortizing loan:
//
//	r = annualRatePercent / 1200
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degrades to straight principal/tenure. Flat division is never
// used for priced loans; it understates the true installment.
func EMI(principal, annualRatePercent float64, tenureMonths int) (float64, error) {
	if tenureMonths <= 0 {
		return 0, fmt.Errorf("%w: tenure must be positive, got %d", ErrInvalidEMIInput, tenureMonths)
	}
	if principal <= 0 {
		return 0, fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidEMIInput, principal)
	}
	if annualRatePercent < 0 {
		return 0, fmt.Errorf("%w: rate must not be negative, got %.2f", ErrInvalidEMIInput, annualRatePercent)
	}

	if annualRatePercent == 0 {
		return principal / float64(tenureMonths), nil
	}

	r := annualRatePercent / 1200
	compound := math.Pow(1+r, float64(tenureMonths))
	return principal * r * compound / (compound - 1), nil
}

// Totals summarizes the full cost of a loan at a given EMI.
type Totals struct {
	MonthlyEMI           float64
	TotalAmountPayable   float64
	TotalInterestPayable float64

	// EMIToIncomeRatio is 0 when no income was supplied.
	EMIToIncomeRatio float64
	Affordability    string
}

// ComputeTotals derives the repayment totals and, when monthlyIncome > 0,
// an affordability assessment.
func ComputeTotals(principal, annualRatePercent float64, tenureMonths int, monthlyIncome float64) (Totals, error) {
	emi, err := EMI(principal, annualRatePercent, tenureMonths)
	if err != nil {
		return Totals{}, err
	}

	t := Totals{
		MonthlyEMI:           round2(emi),
		TotalAmountPayable:   round2(emi * float64(tenureMonths)),
		TotalInterestPayable: round2(emi*float64(tenureMonths) - principal),
	}

	if monthlyIncome > 0 {
		t.EMIToIncomeRatio = round2(emi / monthlyIncome * 100)
		switch {
		case t.EMIToIncomeRatio > RatioStretched:
			t.Affordability = "High risk: EMI exceeds 40% of income"
		case t.EMIToIncomeRatio > RatioComfortable:
			t.Affordability = "Moderate: EMI is manageable but monitor expenses"
		default:
			t.Affordability = "Low risk: EMI is well within affordable limits"
		}
	}

	return t, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
