package ml

import (
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/applicant"
)

// EncodeBase turns a normalized profile plus its stored credit score into
// the base feature vector shared by the eligibility and product stages.
// Categorical values must already be canonical; anything outside the
// vocabulary is an *UnknownCategoryError, never a silent default. Numeric
// ranges are the boundary's job and are not re-checked here.
func EncodeBase(p applicant.Profile, score int, vocabs *Vocabularies) (*Vector, error) {
	categoricals := []struct {
		field string
		value string
	}{
		{FieldGender, p.Gender},
		{FieldMaritalStatus, p.MaritalStatus},
		{FieldPropertyType, p.PropertyType},
		{FieldEducation, p.Education},
		{FieldEmployment, p.Employment},
	}

	codes := make(map[string]int, len(categoricals))
	for _, c := range categoricals {
		vocab, err := vocabs.Field(c.field)
		if err != nil {
			return nil, err
		}
		code, err := vocab.Code(c.value)
		if err != nil {
			return nil, err
		}
		codes[c.field] = code
	}

	v := NewVector(len(BaseFeatureNames) + 3)
	v.Append("age", float64(p.Age))
	v.Append(FieldGender, float64(codes[FieldGender]))
	v.Append(FieldMaritalStatus, float64(codes[FieldMaritalStatus]))
	v.Append(FieldPropertyType, float64(codes[FieldPropertyType]))
	v.Append(FieldEducation, float64(codes[FieldEducation]))
	v.Append(FieldEmployment, float64(codes[FieldEmployment]))
	v.Append("experience", float64(p.Experience))
	v.Append("salary", p.Salary)
	v.Append("credit_score", float64(score))
	return v, nil
}
