package ml

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/applicant"
)

func testProfile() applicant.Profile {
	return applicant.Profile{
		Age:           30,
		Gender:        "Male",
		MaritalStatus: "Married",
		PropertyType:  "Owned",
		Education:     "Graduate",
		Employment:    "Salaried",
		Experience:    5,
		Salary:        50000,
		CreditID:      "CIB000001",
	}
}

func TestVocabulary_SortedCodes(t *testing.T) {
	v := NewVocabulary(FieldGender, []string{"Male", "Female", "Other"})

	// Codes follow lexicographic order regardless of insertion order.
	want := map[string]int{"Female": 0, "Male": 1, "Other": 2}
	for value, code := range want {
		got, err := v.Code(value)
		if err != nil {
			t.Fatalf("Code(%q): %v", value, err)
		}
		if got != code {
			t.Fatalf("Code(%q) = %d, want %d", value, got, code)
		}
		back, err := v.Value(got)
		if err != nil || back != value {
			t.Fatalf("Value(%d) = %q, %v; want %q", got, back, err, value)
		}
	}
}

func TestVocabulary_UnknownValue(t *testing.T) {
	v := NewVocabulary(FieldEducation, []string{"Graduate", "Postgraduate"})

	_, err := v.Code("Astronaut")
	if err == nil {
		t.Fatalf("expected error")
	}
	var unknown *UnknownCategoryError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownCategoryError, got %T", err)
	}
	if unknown.Field != FieldEducation || unknown.Value != "Astronaut" {
		t.Fatalf("unexpected error detail: %+v", unknown)
	}
}

func TestVocabularies_JSONRoundTrip(t *testing.T) {
	vs := NewVocabularies(
		NewVocabulary(FieldGender, []string{"Male", "Female"}),
		NewVocabulary(FieldProductType, []string{"Gold Loan", "Silver Loan"}),
	)

	b, err := json.Marshal(vs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Vocabularies
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	gender, err := decoded.Field(FieldGender)
	if err != nil {
		t.Fatalf("field lookup after decode: %v", err)
	}
	code, err := gender.Code("Male")
	if err != nil || code != 1 {
		t.Fatalf("Code(Male) after decode = %d, %v; want 1", code, err)
	}
}

func TestEncodeBase_Order(t *testing.T) {
	vocabs := NewVocabularies(
		NewVocabulary(FieldGender, []string{"Male", "Female"}),
		NewVocabulary(FieldMaritalStatus, []string{"Married", "Single"}),
		NewVocabulary(FieldPropertyType, []string{"Owned", "Rented"}),
		NewVocabulary(FieldEducation, []string{"Graduate", "Postgraduate"}),
		NewVocabulary(FieldEmployment, []string{"Salaried", "Self-Employed"}),
		NewVocabulary(FieldProductType, []string{"Gold Loan"}),
	)

	p := testProfile()
	vec, err := EncodeBase(p, 720, vocabs)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if vec.Len() != len(BaseFeatureNames) {
		t.Fatalf("expected %d features, got %d", len(BaseFeatureNames), vec.Len())
	}
	names := vec.Names()
	for i, want := range BaseFeatureNames {
		if names[i] != want {
			t.Fatalf("feature %d: got %q want %q", i, names[i], want)
		}
	}

	values := vec.Values()
	if values[0] != 30 {
		t.Fatalf("age: got %.0f", values[0])
	}
	if values[1] != 1 { // Male sorts after Female
		t.Fatalf("gender code: got %.0f want 1", values[1])
	}
	if values[8] != 720 {
		t.Fatalf("credit score: got %.0f", values[8])
	}
}

func TestEncodeBase_UnknownCategory(t *testing.T) {
	vocabs := NewVocabularies(
		NewVocabulary(FieldGender, []string{"Male", "Female"}),
		NewVocabulary(FieldMaritalStatus, []string{"Married"}),
		NewVocabulary(FieldPropertyType, []string{"Owned"}),
		NewVocabulary(FieldEducation, []string{"Graduate"}),
		NewVocabulary(FieldEmployment, []string{"Salaried"}),
		NewVocabulary(FieldProductType, []string{"Gold Loan"}),
	)

	p := testProfile()
	p.MaritalStatus = "Divorced"
	if _, err := EncodeBase(p, 700, vocabs); err == nil {
		t.Fatalf("expected unknown category error")
	}
}
