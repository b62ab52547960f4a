package ml

import (
	"path/filepath"
	"testing"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/applicant"
)

// syntheticDataset keeps every numeric feature separable between the two
// classes, so each tree finds signal in whatever feature subset it samples.
func syntheticDataset() *Dataset {
	ds := &Dataset{}
	for i := 0; i < 40; i++ {
		eligible := i%4 != 0

		row := TrainingRow{
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

func eligibleProfile() applicant.Profile {
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

func ineligibleProfile() applicant.Profile {
	p := eligibleProfile()
	p.Age = 24
	p.Experience = 1
	p.Salary = 15000
	return p
}

func TestTrainBundle_Complete(t *testing.T) {
	ds := syntheticDataset()
	bundle, err := TrainBundle(ds, ForestConfig{Seed: 42})
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	if got := bundle.Meta.Samples[StageEligibility]; got != 40 {
		t.Fatalf("eligibility samples: got %d want 40", got)
	}
	eligible := len(ds.Eligible())
	for _, stage := range []string{StageProduct, StageAmount, StageTenure, StageRate} {
		if got := bundle.Meta.Samples[stage]; got != eligible {
			t.Fatalf("%s samples: got %d want %d", stage, got, eligible)
		}
	}

	products, err := bundle.Vocabs.Field(FieldProductType)
	if err != nil {
		t.Fatalf("product vocab: %v", err)
	}
	if products.Len() != 2 {
		t.Fatalf("expected 2 products, got %v", products.Values())
	}

	if bundle.Meta.TrainedAt.IsZero() {
		t.Fatalf("trained_at not set")
	}
}

func TestTrainBundle_TooFewRows(t *testing.T) {
	ds := syntheticDataset()
	ds.Rows = ds.Rows[:10]
	if _, err := TrainBundle(ds, ForestConfig{Seed: 1}); err == nil {
		t.Fatalf("expected error for too few rows")
	}
}

func TestTrainBundle_EndToEndPrediction(t *testing.T) {
	bundle, err := TrainBundle(syntheticDataset(), ForestConfig{Seed: 42})
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	vec, err := EncodeBase(eligibleProfile(), 760, bundle.Vocabs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	code, err := bundle.Eligibility.Predict(vec.Values())
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	label, err := bundle.Eligibility.Label(code)
	if err != nil {
		t.Fatalf("label: %v", err)
	}
	if label != LabelEligible {
		t.Fatalf("strong profile should be eligible, got label %q", label)
	}

	lowVec, err := EncodeBase(ineligibleProfile(), 500, bundle.Vocabs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	code, err = bundle.Eligibility.Predict(lowVec.Values())
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	label, _ = bundle.Eligibility.Label(code)
	if label != LabelIneligible {
		t.Fatalf("weak profile should be ineligible, got label %q", label)
	}
}

func TestSaveLoadBundle_RoundTrip(t *testing.T) {
	bundle, err := TrainBundle(syntheticDataset(), ForestConfig{Seed: 42})
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	bundle.Meta.Generation = 3

	dir := filepath.Join(t.TempDir(), "models")
	if err := SaveBundle(dir, bundle); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadBundle(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Meta.Generation != 3 {
		t.Fatalf("generation: got %d want 3", loaded.Meta.Generation)
	}

	vec, err := EncodeBase(eligibleProfile(), 760, loaded.Vocabs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	orig, err := bundle.Eligibility.Proba(vec.Values(), LabelEligible)
	if err != nil {
		t.Fatalf("proba: %v", err)
	}
	reloaded, err := loaded.Eligibility.Proba(vec.Values(), LabelEligible)
	if err != nil {
		t.Fatalf("proba after load: %v", err)
	}
	if orig != reloaded {
		t.Fatalf("probability changed across persistence: %.6f vs %.6f", orig, reloaded)
	}
}

func TestLoadBundle_MissingDir(t *testing.T) {
	if _, err := LoadBundle(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
