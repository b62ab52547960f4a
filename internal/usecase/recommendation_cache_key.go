package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/applicant"
)

// RetrainLockKey guards the retrain operation across processes.
const RetrainLockKey = "loans:retrain:lock"

type recommendationCacheKeyInput struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	MaritalStatus string  `json:"marital_status"`
	PropertyType  string  `json:"property_type"`
	Education     string  `json:"education"`
	Employment    string  `json:"employment"`
	Experience    int     `json:"experience"`
	Salary        float64 `json:"salary"`
	CreditID      string  `json:"credit_id"`
	Generation    int64   `json:"generation"`
}

// RecommendationCacheKey hashes a normalized profile together with the
// serving bundle generation, so a model swap naturally misses every entry
// computed by the previous generation.
func RecommendationCacheKey(p applicant.Profile, generation int64) string {
	in := recommendationCacheKeyInput{
		Age:           p.Age,
		Gender:        p.Gender,
		MaritalStatus: p.MaritalStatus,
		PropertyType:  p.PropertyType,
		Education:     p.Education,
		Employment:    p.Employment,
		Experience:    p.Experience,
		Salary:        p.Salary,
		CreditID:      p.CreditID,
		Generation:    generation,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "loans:rec:" + hex.EncodeToString(sum[:])
}
