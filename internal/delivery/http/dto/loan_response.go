package dto

import "github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/loan"

// LoanResponseData is the wire shape of one recommendation. Field names
// match the public API contract, which predates this service.
type LoanResponseData struct {
	EligibilityStatus      string   `json:"eligibility_status"`
	RecommendedProductType string   `json:"recommended_product_type"`
	OptimalLoanAmount      float64  `json:"optimal_loan_amount"`
	TenureMonths           int      `json:"tenure_months"`
	InterestRate           float64  `json:"interest_rate"`
	EligibilityProbability float64  `json:"eligibility_probability"`
	MonthlyEMI             float64  `json:"monthly_emi"`
	TotalAmountPayable     float64  `json:"total_amount_payable"`
	TotalInterestPayable   float64  `json:"total_interest_payable"`
	EMIToIncomeRatio       float64  `json:"emi_to_income_ratio"`
	Recommendations        []string `json:"recommendations"`
}

func NewLoanResponseData(rec loan.Recommendation) LoanResponseData {
	recs := rec.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return LoanResponseData{
		EligibilityStatus:      rec.EligibilityStatus,
		RecommendedProductType: rec.ProductType,
		OptimalLoanAmount:      rec.LoanAmount,
		TenureMonths:           rec.TenureMonths,
		InterestRate:           rec.InterestRate,
		EligibilityProbability: rec.EligibilityProbability,
		MonthlyEMI:             rec.MonthlyEMI,
		TotalAmountPayable:     rec.TotalAmountPayable,
		TotalInterestPayable:   rec.TotalInterestPayable,
		EMIToIncomeRatio:       rec.EMIToIncomeRatio,
		Recommendations:        recs,
	}
}

// BatchItemResult reports one batch item at its request index. Failed items
// carry Error and a null result.
type BatchItemResult struct {
	Index  int               `json:"index"`
	Result *LoanResponseData `json:"result"`
	Error  string            `json:"error,omitempty"`
}

type BatchLoanResponseData struct {
	Results   []BatchItemResult `json:"results"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}
