package dto

import "github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/applicant"

// LoanRequest mirrors the public prediction form. Normalization and range
// checks live in the applicant domain, not here.
type LoanRequest struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	MaritalStatus string  `json:"marital_status"`
	PropertyType  string  `json:"property_type"`
	Education     string  `json:"education"`
	Employment    string  `json:"employment"`
	Experience    int     `json:"experience"`
	Salary        float64 `json:"salary"`
	CibilID       string  `json:"cibil_id"`
}

func (r LoanRequest) ToProfile() applicant.Profile {
	return applicant.Profile{
		Age:           r.Age,
		Gender:        r.Gender,
		MaritalStatus: r.MaritalStatus,
		PropertyType:  r.PropertyType,
		Education:     r.Education,
		Employment:    r.Employment,
		Experience:    r.Experience,
		Salary:        r.Salary,
		CreditID:      r.CibilID,
	}
}

// BatchLoanRequest is the envelope for multi-profile prediction.
type BatchLoanRequest struct {
	Profiles []LoanRequest `json:"profiles"`
}
