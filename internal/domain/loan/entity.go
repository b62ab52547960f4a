package loan

// Eligibility status values as returned to callers.
const (
	StatusEligible    = "Eligible"
	StatusNotEligible = "Not Eligible"
)

// Recommendation is the fully resolved outcome of the prediction pipeline.
// Built once per request and never persisted. Ineligible applicants carry
// zeroed financial fields and a non-empty Recommendations list.
type Recommendation struct {
	EligibilityStatus      string
	ProductType            string
	LoanAmount             float64
	TenureMonths           int
	InterestRate           float64
	EligibilityProbability float64
	MonthlyEMI             float64
	TotalAmountPayable     float64
	TotalInterestPayable   float64
	EMIToIncomeRatio       float64
	Recommendations        []string
}
