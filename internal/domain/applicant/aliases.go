package applicant

import "strings"

// Canonical categorical values as they appear in the training dataset.
const (
	EmploymentSalaried     = "Salaried"
	EmploymentSelfEmployed = "Self-Employed"
	EmploymentGovernment   = "Government"
	EmploymentStudent      = "Student"
	EmploymentRetired      = "Retired"

	EducationPostgraduate = "Postgraduate"
	EducationGraduate     = "Graduate"
	EducationDiploma      = "Diploma"
	EducationTwelfthPass  = "12th Pass"
	EducationTenthPass    = "10th Pass"
	EducationPhD          = "PhD"
)

// The public form accepts a wider range of spellings than the dataset
// vocabulary contains; these fold the known aliases onto canonical values.
// Keys are lower case; lookup folds case and collapses whitespace so
// "Self-Employed", "SELF-EMPLOYED" and "self employed" all land on the
// same entry. Unknown inputs pass through title-cased and fail at encode
// time instead.
var employmentAliases = map[string]string{
	"salaried":      EmploymentSalaried,
	"employed":      EmploymentSalaried,
	"employee":      EmploymentSalaried,
	"job":           EmploymentSalaried,
	"self-employed": EmploymentSelfEmployed,
	"self employed": EmploymentSelfEmployed,
	"selfemployed":  EmploymentSelfEmployed,
	"freelancer":    EmploymentSelfEmployed,
	"consultant":    EmploymentSelfEmployed,
	"business":      EmploymentSelfEmployed,
	"entrepreneur":  EmploymentSelfEmployed,
	"government":    EmploymentGovernment,
	"govt":          EmploymentGovernment,
	"public":        EmploymentGovernment,
	"public sector": EmploymentGovernment,
	"civil service": EmploymentGovernment,
	"student":       EmploymentStudent,
	"studying":      EmploymentStudent,
	"unemployed":    EmploymentStudent,
	"jobless":       EmploymentStudent,
	"not working":   EmploymentStudent,
	"housewife":     EmploymentStudent,
	"homemaker":     EmploymentStudent,
	"retired":       EmploymentRetired,
	"pension":       EmploymentRetired,
}

var educationAliases = map[string]string{
	"masters":           EducationPostgraduate,
	"master":            EducationPostgraduate,
	"masters degree":    EducationPostgraduate,
	"master degree":     EducationPostgraduate,
	"master's degree":   EducationPostgraduate,
	"postgraduate":      EducationPostgraduate,
	"graduate":          EducationGraduate,
	"bachelor":          EducationGraduate,
	"bachelors":         EducationGraduate,
	"bachelor degree":   EducationGraduate,
	"bachelors degree":  EducationGraduate,
	"bachelor's degree": EducationGraduate,
	"diploma":           EducationDiploma,
	"12th pass":         EducationTwelfthPass,
	"12th":              EducationTwelfthPass,
	"12":                EducationTwelfthPass,
	"class 12":          EducationTwelfthPass,
	"xii":               EducationTwelfthPass,
	"hsc":               EducationTwelfthPass,
	"puc":               EducationTwelfthPass,
	"junior college":    EducationTwelfthPass,
	"jr. college":       EducationTwelfthPass,
	"high school":       EducationTenthPass,
	"highschool":        EducationTenthPass,
	"10th pass":         EducationTenthPass,
	"10th":              EducationTenthPass,
	"10":                EducationTenthPass,
	"phd":               EducationPhD,
	"ph.d":              EducationPhD,
	"ph.d.":             EducationPhD,
	"doctorate":         EducationPhD,
}

func foldKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

func canonicalEmployment(raw string) string {
	if v, ok := employmentAliases[foldKey(raw)]; ok {
		return v
	}
	return titleCase(raw)
}

func canonicalEducation(raw string) string {
	if v, ok := educationAliases[foldKey(raw)]; ok {
		return v
	}
	return titleCase(raw)
}
