package usecase

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/applicant"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/loan"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/ml"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/repository"
)

// MaxBatchSize bounds one batch request.
const MaxBatchSize = 10

type RecommendationUsecase interface {
	Recommend(ctx context.Context, p applicant.Profile) (loan.Recommendation, error)
	RecommendBatch(ctx context.Context, profiles []applicant.Profile) ([]BatchResult, error)
}

// BatchResult carries the outcome for one batch item at its request index.
// Exactly one of Recommendation and Err is set.
type BatchResult struct {
	Index          int
	Recommendation *loan.Recommendation
	Err            error
}

type recommendationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Recommendation struct {
	scores   repository.ScoreRepository
	models   *ml.Registry
	cache    recommendationCache
	cacheTTL time.Duration
	log      *log.Logger
}

func NewRecommendationUsecase(scores repository.ScoreRepository, models *ml.Registry, cache recommendationCache, cacheTTL time.Duration, logger *log.Logger) *Recommendation {
	if logger == nil {
		logger = log.Default()
	}
	return &Recommendation{scores: scores, models: models, cache: cache, cacheTTL: cacheTTL, log: logger}
}

// Recommend runs the full staged pipeline for one applicant. The bundle is
// snapshotted once up front; a concurrent retrain never mixes generations
// within a single request.
func (u *Recommendation) Recommend(ctx context.Context, p applicant.Profile) (loan.Recommendation, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return loan.Recommendation{}, invalidInput(err)
	}

	bundle, err := u.models.Current()
	if err != nil {
		return loan.Recommendation{}, ErrModelsNotLoaded
	}

	cacheKey := RecommendationCacheKey(p, bundle.Meta.Generation)
	if u.cache != nil {
		var cached loan.Recommendation
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	score, err := u.scores.Lookup(ctx, p.CreditID)
	if err != nil {
		if errors.Is(err, repository.ErrScoreNotFound) {
			return loan.Recommendation{}, ErrScoreNotFound
		}
		u.log.Printf("recommend step=score_lookup credit_id=%s err=%v", p.CreditID, err)
		return loan.Recommendation{}, ErrInternal
	}
	if score < applicant.MinScore || score > applicant.MaxScore {
		u.log.Printf("recommend step=score_lookup credit_id=%s score=%d status=out_of_range", p.CreditID, score)
		return loan.Recommendation{}, invalidInput(errors.New("stored credit score out of range"))
	}

	rec, err := u.predict(bundle, p, score)
	if err != nil {
		return loan.Recommendation{}, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, rec, u.cacheTTL); err != nil {
			u.log.Printf("recommend step=cache_set err=%v", err)
		}
	}
	return rec, nil
}

func (u *Recommendation) predict(bundle *ml.Bundle, p applicant.Profile, score int) (loan.Recommendation, error) {
	vec, err := ml.EncodeBase(p, score, bundle.Vocabs)
	if err != nil {
		var unknown *ml.UnknownCategoryError
		if errors.As(err, &unknown) {
			return loan.Recommendation{}, invalidInput(unknown)
		}
		u.log.Printf("recommend step=encode err=%v", err)
		return loan.Recommendation{}, ErrInternal
	}

	eligProb, err := bundle.Eligibility.Proba(vec.Values(), ml.LabelEligible)
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(err)
	}
	eligCode, err := bundle.Eligibility.Predict(vec.Values())
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(err)
	}
	eligLabel, err := bundle.Eligibility.Label(eligCode)
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(err)
	}

	probability := round2(eligProb * 100)
	if eligLabel != ml.LabelEligible {
		return loan.Recommendation{
			EligibilityStatus:      loan.StatusNotEligible,
			ProductType:            "None",
			EligibilityProbability: probability,
			Recommendations:        ineligibilityAdvisories(p, score),
		}, nil
	}

	productCodeRaw, err := bundle.Product.Predict(vec.Values())
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(err)
	}
	productName, err := bundle.Product.Label(productCodeRaw)
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(err)
	}
	productVocab, err := bundle.Vocabs.Field(ml.FieldProductType)
	if err != nil {
		u.log.Printf("recommend step=product err=%v", err)
		return loan.Recommendation{}, ErrInternal
	}
	productCode, err := productVocab.Code(productName)
	if err != nil {
		u.log.Printf("recommend step=product err=%v", err)
		return loan.Recommendation{}, ErrInternal
	}
	vec.Append(ml.FeatureProductCode, float64(productCode))

	amount, err := bundle.Amount.Predict(vec.Values())
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(err)
	}
	amount = round2(amount)
	if amount <= 0 {
		return loan.Recommendation{}, u.stageFailure(&ml.StageError{StageName: ml.StageAmount, Err: errors.New("non-positive amount")})
	}
	vec.Append(ml.FeatureLoanAmount, amount)

	tenureRaw, err := bundle.Tenure.Predict(vec.Values())
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(err)
	}
	tenure := int(math.Round(tenureRaw))
	if tenure <= 0 {
		return loan.Recommendation{}, u.stageFailure(&ml.StageError{StageName: ml.StageTenure, Err: errors.New("non-positive tenure")})
	}
	vec.Append(ml.FeatureTenureMonths, float64(tenure))

	rate, err := bundle.Rate.Predict(vec.Values())
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(err)
	}
	rate = round2(rate)
	if rate < 0 {
		return loan.Recommendation{}, u.stageFailure(&ml.StageError{StageName: ml.StageRate, Err: errors.New("negative rate")})
	}

	totals, err := loan.ComputeTotals(amount, rate, tenure, p.Salary)
	if err != nil {
		return loan.Recommendation{}, u.stageFailure(&ml.StageError{StageName: "emi", Err: err})
	}

	return loan.Recommendation{
		EligibilityStatus:      loan.StatusEligible,
		ProductType:            productName,
		LoanAmount:             amount,
		TenureMonths:           tenure,
		InterestRate:           rate,
		EligibilityProbability: probability,
		MonthlyEMI:             totals.MonthlyEMI,
		TotalAmountPayable:     totals.TotalAmountPayable,
		TotalInterestPayable:   totals.TotalInterestPayable,
		EMIToIncomeRatio:       totals.EMIToIncomeRatio,
		Recommendations:        affordabilityAdvisories(totals, amount),
	}, nil
}

// RecommendBatch evaluates up to MaxBatchSize profiles independently. One
// item failing never aborts the others; results stay index-aligned with the
// request order.
func (u *Recommendation) RecommendBatch(ctx context.Context, profiles []applicant.Profile) ([]BatchResult, error) {
	if len(profiles) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(profiles) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]BatchResult, len(profiles))
	for i, p := range profiles {
		rec, err := u.Recommend(ctx, p)
		if err != nil {
			results[i] = BatchResult{Index: i, Err: err}
			continue
		}
		results[i] = BatchResult{Index: i, Recommendation: &rec}
	}
	return results, nil
}

// stageFailure logs the stage detail and returns the opaque sentinel; the
// failing stage name never reaches the client.
func (u *Recommendation) stageFailure(err error) error {
	var se *ml.StageError
	if errors.As(err, &se) {
		u.log.Printf("recommend step=stage stage=%s status=error err=%v", se.StageName, se.Err)
	} else {
		u.log.Printf("recommend step=stage status=error err=%v", err)
	}
	return ErrStageFailure
}

// ineligibilityAdvisories names the likeliest cause of a rejection so the
// response is actionable rather than a bare "Not Eligible".
func ineligibilityAdvisories(p applicant.Profile, score int) []string {
	switch {
	case p.Age > 70:
		return []string{"Age must be between 18-70 years for loan eligibility"}
	case score < 550:
		return []string{
			"CIBIL score too low. Minimum requirement is 550 for basic loan products",
			"Pay existing debts on time to improve CIBIL score",
			"Check CIBIL report for errors and dispute if found",
		}
	case p.Salary < 15000:
		return []string{
			"Minimum monthly income requirement is 15,000",
			"Increase income stability through consistent employment",
		}
	default:
		return []string{
			"Profile does not currently meet the eligibility criteria",
			"Improve CIBIL score to 700+ for better product options and lower interest rates",
		}
	}
}

func affordabilityAdvisories(t loan.Totals, principal float64) []string {
	recs := []string{"Profile looks good for the recommended product."}

	switch {
	case t.EMIToIncomeRatio > loan.RatioStretched:
		recs = append(recs, "EMI exceeds 40% of monthly income. Consider longer tenure or lower amount.")
	case t.EMIToIncomeRatio > loan.RatioComfortable:
		recs = append(recs, "EMI is manageable but consider your other expenses.")
	default:
		recs = append(recs, "EMI is well within affordable limits.")
	}

	if t.TotalInterestPayable > principal*0.5 {
		recs = append(recs, "Consider shorter tenure to reduce total interest cost.")
	}
	return recs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
