package applicant

import (
	"errors"
	"testing"
)

func validProfile() Profile {
	return Profile{
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

func TestNormalize_TitleCasesAndTrims(t *testing.T) {
	p := Profile{
		Gender:        "  male ",
		MaritalStatus: "MARRIED",
		PropertyType:  "owned",
		Education:     "graduate",
		Employment:    "salaried",
		CreditID:      " CIB000001 ",
	}
	n := p.Normalize()

	if n.Gender != "Male" || n.MaritalStatus != "Married" || n.PropertyType != "Owned" {
		t.Fatalf("title-casing failed: %+v", n)
	}
	if n.CreditID != "CIB000001" {
		t.Fatalf("credit id not trimmed: %q", n.CreditID)
	}
	if p.Gender != "  male " {
		t.Fatalf("receiver mutated")
	}
}

func TestNormalize_FoldsAliases(t *testing.T) {
	cases := []struct {
		education  string
		employment string
		wantEdu    string
		wantEmp    string
	}{
		{"masters", "freelancer", EducationPostgraduate, EmploymentSelfEmployed},
		{"bachelor's degree", "govt", EducationGraduate, EmploymentGovernment},
		{"high school", "housewife", EducationTenthPass, EmploymentStudent},
		{"ph.d", "pension", EducationPhD, EmploymentRetired},
		{"Ph.D", "Self-Employed", EducationPhD, EmploymentSelfEmployed},
		{"ph.d.", "self-employed", EducationPhD, EmploymentSelfEmployed},
		{"PH.D.", "SELF-EMPLOYED", EducationPhD, EmploymentSelfEmployed},
		{"12th pass", "self employed", EducationTwelfthPass, EmploymentSelfEmployed},
		{"jr. college", "Consultant", EducationTwelfthPass, EmploymentSelfEmployed},
		{"Graduate", "Salaried", EducationGraduate, EmploymentSalaried},
	}
	for _, tc := range cases {
		p := Profile{Education: tc.education, Employment: tc.employment}.Normalize()
		if p.Education != tc.wantEdu {
			t.Fatalf("education %q: got %q want %q", tc.education, p.Education, tc.wantEdu)
		}
		if p.Employment != tc.wantEmp {
			t.Fatalf("employment %q: got %q want %q", tc.employment, p.Employment, tc.wantEmp)
		}
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validProfile().Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidate_ExperienceIndependentOfAge(t *testing.T) {
	p := validProfile()
	p.Age = 20
	p.Experience = 10
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidate_FieldViolations(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*Profile)
		wantField string
	}{
		{"underage", func(p *Profile) { p.Age = 17 }, "age"},
		{"overage", func(p *Profile) { p.Age = 101 }, "age"},
		{"missing gender", func(p *Profile) { p.Gender = "" }, "gender"},
		{"negative experience", func(p *Profile) { p.Experience = -1 }, "experience"},
		{"excess experience", func(p *Profile) { p.Experience = MaxExperience + 1 }, "experience"},
		{"retired without experience", func(p *Profile) { p.Employment = EmploymentRetired; p.Experience = 0; p.Age = 65 }, "experience"},
		{"zero salary", func(p *Profile) { p.Salary = 0 }, "salary"},
		{"missing credit id", func(p *Profile) { p.CreditID = "" }, "credit_id"},
	}

	for _, tc := range cases {
		p := validProfile()
		tc.mutate(&p)
		err := p.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected *ValidationError, got %T", tc.name, err)
		}
		if ve.Field != tc.wantField {
			t.Fatalf("%s: got field %q want %q", tc.name, ve.Field, tc.wantField)
		}
	}
}
