package dto

import "github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/loan"

type EMIRequest struct {
	LoanAmount    float64 `json:"loan_amount"`
	InterestRate  float64 `json:"interest_rate"`
	TenureMonths  int     `json:"tenure_months"`
	MonthlyIncome float64 `json:"monthly_income,omitempty"`
}

type EMIResponseData struct {
	LoanAmount            float64 `json:"loan_amount"`
	InterestRate          float64 `json:"interest_rate"`
	TenureMonths          int     `json:"tenure_months"`
	MonthlyEMI            float64 `json:"monthly_emi"`
	TotalAmountPayable    float64 `json:"total_amount_payable"`
	TotalInterestPayable  float64 `json:"total_interest_payable"`
	EMIToIncomeRatio      float64 `json:"emi_to_income_ratio,omitempty"`
	AffordabilityAnalysis string  `json:"affordability_analysis,omitempty"`
}

func NewEMIResponseData(req EMIRequest, t loan.Totals) EMIResponseData {
	return EMIResponseData{
		LoanAmount:            req.LoanAmount,
		InterestRate:          req.InterestRate,
		TenureMonths:          req.TenureMonths,
		MonthlyEMI:            t.MonthlyEMI,
		TotalAmountPayable:    t.TotalAmountPayable,
		TotalInterestPayable:  t.TotalInterestPayable,
		EMIToIncomeRatio:      t.EMIToIncomeRatio,
		AffordabilityAnalysis: t.Affordability,
	}
}
