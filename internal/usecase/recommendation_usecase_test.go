package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/applicant"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/loan"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/ml"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/repository"
)

type mockScoreRepo struct {
	scores      map[string]int
	lookupCalls int
	err         error
}

func (m *mockScoreRepo) EnsureSchema(context.Context) error { return nil }
func (m *mockScoreRepo) Count(context.Context) (int, error) { return len(m.scores), nil }
func (m *mockScoreRepo) Stats(context.Context) (repository.ScoreStats, error) {
	return repository.ScoreStats{TotalRecords: len(m.scores)}, nil
}
func (m *mockScoreRepo) Lookup(_ context.Context, creditID string) (int, error) {
	m.lookupCalls++
	if m.err != nil {
		return 0, m.err
	}
	score, ok := m.scores[creditID]
	if !ok {
		return 0, repository.ErrScoreNotFound
	}
	return score, nil
}

type mockCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.gets++
	b, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.sets++
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = b
	return nil
}

// trainingDataset mirrors the model package's synthetic fixture: every
// numeric feature separates the classes, so small forests stay reliable.
func trainingDataset() *ml.Dataset {
	ds := &ml.Dataset{}
	for i := 0; i < 40; i++ {
		eligible := i%4 != 0

		row := ml.TrainingRow{
			Marital:    "Married",
			Property:   "Owned",
			Education:  "Graduate",
			Employment: "Salaried",
			Gender:     "Male",
			Eligible:   eligible,
		}
		if i%3 == 0 {
			row.Gender = "Female"
		}

		if eligible {
			row.Age = float64(40 + i%10)
			row.Experience = float64(10 + i%5)
			row.Salary = float64(60000 + 1000*i)
			row.Score = float64(700 + (i%20)*4)

			row.Product = "Gold Loan"
			if row.Salary >= 80000 {
				row.Product = "Home Loan"
			}
			row.Amount = row.Salary * 4
			row.Tenure = 36
			row.Rate = 10.5
		} else {
			row.Age = float64(22 + i%5)
			row.Experience = float64(i % 3)
			row.Salary = float64(12000 + 100*i)
			row.Score = float64(450 + (i%10)*9)
		}

		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func loadedRegistry(t *testing.T) *ml.Registry {
	t.Helper()
	bundle, err := ml.TrainBundle(trainingDataset(), ml.ForestConfig{Seed: 42})
	if err != nil {
		t.Fatalf("train fixture bundle: %v", err)
	}
	r := ml.NewRegistry(nil)
	if _, err := r.Swap(bundle); err != nil {
		t.Fatalf("install fixture bundle: %v", err)
	}
	return r
}

func strongProfile() applicant.Profile {
	return applicant.Profile{
		Age:           45,
		Gender:        "Male",
		MaritalStatus: "Married",
		PropertyType:  "Owned",
		Education:     "Graduate",
		Employment:    "Salaried",
		Experience:    12,
		Salary:        70000,
		CreditID:      "CIB000001",
	}
}

func weakProfile() applicant.Profile {
	p := strongProfile()
	p.Age = 24
	p.Experience = 1
	p.Salary = 15000
	p.CreditID = "CIB000002"
	return p
}

func TestRecommend_EligiblePath(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{"CIB000001": 760}}
	uc := NewRecommendationUsecase(repo, loadedRegistry(t), nil, 0, nil)

	rec, err := uc.Recommend(context.Background(), strongProfile())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if rec.EligibilityStatus != loan.StatusEligible {
		t.Fatalf("expected eligible, got %q (recs: %v)", rec.EligibilityStatus, rec.Recommendations)
	}
	if rec.ProductType == "" || rec.ProductType == "None" {
		t.Fatalf("expected a product, got %q", rec.ProductType)
	}
	if rec.LoanAmount <= 0 || rec.TenureMonths <= 0 || rec.InterestRate < 0 {
		t.Fatalf("implausible terms: %+v", rec)
	}
	if rec.EligibilityProbability < 0 || rec.EligibilityProbability > 100 {
		t.Fatalf("probability out of range: %.2f", rec.EligibilityProbability)
	}
	if rec.MonthlyEMI <= 0 {
		t.Fatalf("expected positive EMI, got %.2f", rec.MonthlyEMI)
	}
	wantPayable := rec.MonthlyEMI * float64(rec.TenureMonths)
	if math.Abs(rec.TotalAmountPayable-wantPayable) > 1 {
		t.Fatalf("payable inconsistent with EMI: %.2f vs %.2f", rec.TotalAmountPayable, wantPayable)
	}
	if len(rec.Recommendations) == 0 {
		t.Fatalf("expected advisory strings")
	}
}

func TestRecommend_IneligibleShortCircuits(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{"CIB000002": 500}}
	uc := NewRecommendationUsecase(repo, loadedRegistry(t), nil, 0, nil)

	rec, err := uc.Recommend(context.Background(), weakProfile())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if rec.EligibilityStatus != loan.StatusNotEligible {
		t.Fatalf("expected not eligible, got %q", rec.EligibilityStatus)
	}
	if rec.LoanAmount != 0 || rec.TenureMonths != 0 || rec.InterestRate != 0 || rec.MonthlyEMI != 0 {
		t.Fatalf("financial fields must be zero: %+v", rec)
	}
	if len(rec.Recommendations) == 0 {
		t.Fatalf("ineligible result needs advisory strings")
	}
}

func TestRecommend_ValidationBeforeLookup(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{}}
	uc := NewRecommendationUsecase(repo, loadedRegistry(t), nil, 0, nil)

	p := strongProfile()
	p.Age = 17
	if _, err := uc.Recommend(context.Background(), p); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.lookupCalls != 0 {
		t.Fatalf("validation failure must not hit the score store")
	}
}

func TestRecommend_ScoreNotFound(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{}}
	uc := NewRecommendationUsecase(repo, loadedRegistry(t), nil, 0, nil)

	if _, err := uc.Recommend(context.Background(), strongProfile()); !errors.Is(err, ErrScoreNotFound) {
		t.Fatalf("expected ErrScoreNotFound, got %v", err)
	}
}

func TestRecommend_ModelsNotLoaded(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{"CIB000001": 760}}
	uc := NewRecommendationUsecase(repo, ml.NewRegistry(nil), nil, 0, nil)

	if _, err := uc.Recommend(context.Background(), strongProfile()); !errors.Is(err, ErrModelsNotLoaded) {
		t.Fatalf("expected ErrModelsNotLoaded, got %v", err)
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{"CIB000001": 760}}
	uc := NewRecommendationUsecase(repo, loadedRegistry(t), nil, 0, nil)

	first, err := uc.Recommend(context.Background(), strongProfile())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.Recommend(context.Background(), strongProfile())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if first.LoanAmount != second.LoanAmount || first.TenureMonths != second.TenureMonths || first.InterestRate != second.InterestRate {
		t.Fatalf("same input diverged: %+v vs %+v", first, second)
	}
}

func TestRecommend_CacheHitSkipsPipeline(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{"CIB000001": 760}}
	cache := newMockCache()
	uc := NewRecommendationUsecase(repo, loadedRegistry(t), cache, time.Minute, nil)

	first, err := uc.Recommend(context.Background(), strongProfile())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	lookupsAfterFirst := repo.lookupCalls
	second, err := uc.Recommend(context.Background(), strongProfile())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lookupCalls != lookupsAfterFirst {
		t.Fatalf("cache hit must not hit the score store")
	}
	if first.LoanAmount != second.LoanAmount || first.ProductType != second.ProductType {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestRecommendBatch_IndexAlignedIsolation(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{"CIB000001": 760}}
	uc := NewRecommendationUsecase(repo, loadedRegistry(t), nil, 0, nil)

	unknown := strongProfile()
	unknown.CreditID = "CIB999999"
	invalid := strongProfile()
	invalid.Age = 10

	results, err := uc.RecommendBatch(context.Background(), []applicant.Profile{strongProfile(), unknown, invalid})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Err != nil || results[0].Recommendation == nil {
		t.Fatalf("item 0 should succeed: %+v", results[0])
	}
	if !errors.Is(results[1].Err, ErrScoreNotFound) {
		t.Fatalf("item 1: expected ErrScoreNotFound, got %v", results[1].Err)
	}
	if !errors.Is(results[2].Err, ErrInvalidInput) {
		t.Fatalf("item 2: expected ErrInvalidInput, got %v", results[2].Err)
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
	}
}

func TestRecommendBatch_SizeLimits(t *testing.T) {
	repo := &mockScoreRepo{scores: map[string]int{}}
	uc := NewRecommendationUsecase(repo, loadedRegistry(t), nil, 0, nil)

	if _, err := uc.RecommendBatch(context.Background(), nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}

	tooMany := make([]applicant.Profile, MaxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = strongProfile()
	}
	if _, err := uc.RecommendBatch(context.Background(), tooMany); !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}
