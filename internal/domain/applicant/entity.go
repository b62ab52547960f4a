package applicant

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrValidation is the sentinel every field-level ValidationError unwraps to.
var ErrValidation = errors.New("invalid applicant field")

// ValidationError names the offending field so callers can prompt for that
// field alone instead of the whole form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

const (
	MinAge        = 18
	MaxAge        = 100
	MaxExperience = 50

	MinScore = 300
	MaxScore = 900
)

// Profile is one loan applicant as received at the boundary. Immutable once
// normalized; the pipeline never writes it back.
type Profile struct {
	Age           int
	Gender        string
	MaritalStatus string
	PropertyType  string
	Education     string
	Employment    string
	Experience    int
	Salary        float64
	CreditID      string
}

// Normalize trims and title-cases the categorical fields and folds the
// education/employment aliases the public form historically accepted
// ("Masters" -> "Postgraduate", "Freelancer" -> "Self-Employed") into the
// canonical vocabulary values. Returns a copy; the receiver is untouched.
func (p Profile) Normalize() Profile {
	p.Gender = titleCase(p.Gender)
	p.MaritalStatus = titleCase(p.MaritalStatus)
	p.PropertyType = titleCase(p.PropertyType)
	p.Education = canonicalEducation(p.Education)
	p.Employment = canonicalEmployment(p.Employment)
	p.CreditID = strings.TrimSpace(p.CreditID)
	return p
}

// Validate reports the first constraint violation as a *ValidationError.
// Expects a normalized profile.
func (p Profile) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return invalid("age", "must be between %d and %d", MinAge, MaxAge)
	}
	if p.Gender == "" {
		return invalid("gender", "is required")
	}
	if p.MaritalStatus == "" {
		return invalid("marital_status", "is required")
	}
	if p.PropertyType == "" {
		return invalid("property_type", "is required")
	}
	if p.Education == "" {
		return invalid("education", "is required")
	}
	if p.Employment == "" {
		return invalid("employment", "is required")
	}
	if p.Experience < 0 || p.Experience > MaxExperience {
		return invalid("experience", "must be between 0 and %d years", MaxExperience)
	}
	if p.Salary <= 0 {
		return invalid("salary", "must be positive")
	}
	if p.Employment == EmploymentRetired && p.Experience == 0 {
		return invalid("experience", "retired applicants must report prior experience")
	}
	if p.CreditID == "" {
		return invalid("credit_id", "is required")
	}
	return nil
}

// titleCase capitalizes the letter after any non-letter, so hyphenated and
// dotted values keep their canonical casing ("self-employed" -> "Self-Employed",
// "ph.d" -> "Ph.D"). Interior whitespace collapses to single spaces.
func titleCase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
