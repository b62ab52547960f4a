package ml

import (
	"fmt"
	"time"
)

// MinTrainingSamples is the floor below which a stage cannot train a
// meaningful forest; retrain fails rather than swapping in a toy model.
const MinTrainingSamples = 20

// TrainBundle builds a complete candidate bundle from a parsed dataset:
// vocabularies first, then the five stage forests. Eligibility trains on
// every row; the downstream stages train only on eligible rows, each with
// the prior stage's target appended to its feature set, mirroring how the
// serving pipeline grows the vector. Nothing here touches the serving
// registry; the caller swaps the result in on success.
func TrainBundle(ds *Dataset, cfg ForestConfig) (*Bundle, error) {
	if len(ds.Rows) < MinTrainingSamples {
		return nil, fmt.Errorf("only %d usable training rows, need at least %d", len(ds.Rows), MinTrainingSamples)
	}

	vocabs, err := buildVocabularies(ds)
	if err != nil {
		return nil, err
	}

	base, eligibleLabels, err := encodeRows(ds.Rows, vocabs)
	if err != nil {
		return nil, err
	}

	eligibility, err := TrainClassifier(base, eligibleLabels, BaseFeatureNames, cfg)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", StageEligibility, err)
	}

	eligRows := ds.Eligible()
	if len(eligRows) < MinTrainingSamples {
		return nil, fmt.Errorf("only %d eligible training rows, need at least %d", len(eligRows), MinTrainingSamples)
	}
	eligBase, _, err := encodeRows(eligRows, vocabs)
	if err != nil {
		return nil, err
	}

	productVocab, err := vocabs.Field(FieldProductType)
	if err != nil {
		return nil, err
	}

	productLabels := make([]string, len(eligRows))
	productCodes := make([]float64, len(eligRows))
	amounts := make([]float64, len(eligRows))
	tenures := make([]float64, len(eligRows))
	rates := make([]float64, len(eligRows))
	for i, r := range eligRows {
		code, err := productVocab.Code(r.Product)
		if err != nil {
			return nil, err
		}
		// The classifier learns product names; the numeric feature the
		// downstream stages see is the vocabulary code.
		productLabels[i] = r.Product
		productCodes[i] = float64(code)
		amounts[i] = r.Amount
		tenures[i] = r.Tenure
		rates[i] = r.Rate
	}

	product, err := TrainClassifier(eligBase, productLabels, BaseFeatureNames, cfg)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", StageProduct, err)
	}

	withProduct := appendColumn(eligBase, productCodes)
	amountNames := append(append([]string(nil), BaseFeatureNames...), FeatureProductCode)
	amount, err := TrainRegressor(withProduct, amounts, amountNames, cfg)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", StageAmount, err)
	}

	withAmount := appendColumn(withProduct, amounts)
	tenureNames := append(append([]string(nil), amountNames...), FeatureLoanAmount)
	tenure, err := TrainRegressor(withAmount, tenures, tenureNames, cfg)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", StageTenure, err)
	}

	withTenure := appendColumn(withAmount, tenures)
	rateNames := append(append([]string(nil), tenureNames...), FeatureTenureMonths)
	rate, err := TrainRegressor(withTenure, rates, rateNames, cfg)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", StageRate, err)
	}

	b := &Bundle{
		Meta: Meta{
			TrainedAt: time.Now().UTC(),
			Samples: map[string]int{
				StageEligibility: len(ds.Rows),
				StageProduct:     len(eligRows),
				StageAmount:      len(eligRows),
				StageTenure:      len(eligRows),
				StageRate:        len(eligRows),
			},
		},
		Vocabs:      vocabs,
		Eligibility: &ClassifierStage{Name: StageEligibility, Forest: eligibility},
		Product:     &ClassifierStage{Name: StageProduct, Forest: product},
		Amount:      &RegressorStage{Name: StageAmount, Forest: amount},
		Tenure:      &RegressorStage{Name: StageTenure, Forest: tenure},
		Rate:        &RegressorStage{Name: StageRate, Forest: rate},
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func buildVocabularies(ds *Dataset) (*Vocabularies, error) {
	uniq := func(pick func(TrainingRow) string) []string {
		seen := make(map[string]struct{})
		var out []string
		for _, r := range ds.Rows {
			v := pick(r)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
		return out
	}

	vocabs := NewVocabularies(
		NewVocabulary(FieldGender, uniq(func(r TrainingRow) string { return r.Gender })),
		NewVocabulary(FieldMaritalStatus, uniq(func(r TrainingRow) string { return r.Marital })),
		NewVocabulary(FieldPropertyType, uniq(func(r TrainingRow) string { return r.Property })),
		NewVocabulary(FieldEducation, uniq(func(r TrainingRow) string { return r.Education })),
		NewVocabulary(FieldEmployment, uniq(func(r TrainingRow) string { return r.Employment })),
		NewVocabulary(FieldProductType, uniq(func(r TrainingRow) string { return r.Product })),
	)
	if err := vocabs.Validate(); err != nil {
		return nil, err
	}
	return vocabs, nil
}

// encodeRows produces the base feature matrix and the eligibility labels
// for a slice of rows.
func encodeRows(rows []TrainingRow, vocabs *Vocabularies) ([][]float64, []string, error) {
	X := make([][]float64, len(rows))
	labels := make([]string, len(rows))

	code := func(field, value string) (float64, error) {
		v, err := vocabs.Field(field)
		if err != nil {
			return 0, err
		}
		c, err := v.Code(value)
		if err != nil {
			return 0, err
		}
		return float64(c), nil
	}

	for i, r := range rows {
		gender, err := code(FieldGender, r.Gender)
		if err != nil {
			return nil, nil, err
		}
		marital, err := code(FieldMaritalStatus, r.Marital)
		if err != nil {
			return nil, nil, err
		}
		property, err := code(FieldPropertyType, r.Property)
		if err != nil {
			return nil, nil, err
		}
		education, err := code(FieldEducation, r.Education)
		if err != nil {
			return nil, nil, err
		}
		employment, err := code(FieldEmployment, r.Employment)
		if err != nil {
			return nil, nil, err
		}

		X[i] = []float64{r.Age, gender, marital, property, education, employment, r.Experience, r.Salary, r.Score}
		if r.Eligible {
			labels[i] = LabelEligible
		} else {
			labels[i] = LabelIneligible
		}
	}
	return X, labels, nil
}

func appendColumn(X [][]float64, col []float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		next := make([]float64, len(row)+1)
		copy(next, row)
		next[len(row)] = col[i]
		out[i] = next
	}
	return out
}
