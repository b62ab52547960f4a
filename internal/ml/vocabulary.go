package ml

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Categorical fields the encoder and trainer agree on.
const (
	FieldGender        = "gender"
	FieldMaritalStatus = "marital_status"
	FieldPropertyType  = "property_type"
	FieldEducation     = "education"
	FieldEmployment    = "employment"
	FieldProductType   = "product_type"
)

// UnknownCategoryError is the hard failure for a categorical value that was
// never seen at training time. Mapping it to a default silently would feed
// the stage models out-of-distribution input.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Field, e.Value)
}

// Vocabulary maps one field's canonical string values to stable integer
// codes. Codes are the value's position in the sorted value list, matching
// how the training run encoded the column. Immutable after construction.
type Vocabulary struct {
	field  string
	values []string
	index  map[string]int
}

func NewVocabulary(field string, values []string) *Vocabulary {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)

	idx := make(map[string]int, len(sorted))
	for i, v := range sorted {
		idx[v] = i
	}
	return &Vocabulary{field: field, values: sorted, index: idx}
}

func (v *Vocabulary) Field() string {
	return v.field
}

// Values returns the ordered value list; index position is the code.
func (v *Vocabulary) Values() []string {
	out := make([]string, len(v.values))
	copy(out, v.values)
	return out
}

func (v *Vocabulary) Code(value string) (int, error) {
	code, ok := v.index[value]
	if !ok {
		return 0, &UnknownCategoryError{Field: v.field, Value: value}
	}
	return code, nil
}

func (v *Vocabulary) Value(code int) (string, error) {
	if code < 0 || code >= len(v.values) {
		return "", fmt.Errorf("%s code %d out of range [0,%d)", v.field, code, len(v.values))
	}
	return v.values[code], nil
}

func (v *Vocabulary) Len() int {
	return len(v.values)
}

// Vocabularies is the full set for one trained bundle.
type Vocabularies struct {
	byField map[string]*Vocabulary
}

func NewVocabularies(vs ...*Vocabulary) *Vocabularies {
	m := make(map[string]*Vocabulary, len(vs))
	for _, v := range vs {
		m[v.field] = v
	}
	return &Vocabularies{byField: m}
}

var requiredVocabFields = []string{
	FieldGender,
	FieldMaritalStatus,
	FieldPropertyType,
	FieldEducation,
	FieldEmployment,
	FieldProductType,
}

// Validate checks every field the encoder needs is present and non-empty.
func (vs *Vocabularies) Validate() error {
	for _, f := range requiredVocabFields {
		v, ok := vs.byField[f]
		if !ok || v.Len() == 0 {
			return fmt.Errorf("vocabulary for %s missing or empty", f)
		}
	}
	return nil
}

func (vs *Vocabularies) Field(field string) (*Vocabulary, error) {
	v, ok := vs.byField[field]
	if !ok {
		return nil, fmt.Errorf("no vocabulary for field %s", field)
	}
	return v, nil
}

func (vs *Vocabularies) Fields() []string {
	out := make([]string, 0, len(vs.byField))
	for f := range vs.byField {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (vs *Vocabularies) MarshalJSON() ([]byte, error) {
	m := make(map[string][]string, len(vs.byField))
	for f, v := range vs.byField {
		m[f] = v.Values()
	}
	return json.Marshal(m)
}

func (vs *Vocabularies) UnmarshalJSON(b []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	vs.byField = make(map[string]*Vocabulary, len(m))
	for f, values := range m {
		vs.byField[f] = NewVocabulary(f, values)
	}
	return nil
}
