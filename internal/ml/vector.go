package ml

// Feature names in the exact order each stage model was trained on. The
// base schema feeds eligibility and product; amount, tenure and rate each
// see one more appended feature. Reordering any of these breaks the
// trained-model contract.
var (
	BaseFeatureNames = []string{
		"age",
		FieldGender,
		FieldMaritalStatus,
		FieldPropertyType,
		FieldEducation,
		FieldEmployment,
		"experience",
		"salary",
		"credit_score",
	}

	FeatureProductCode  = "product_code"
	FeatureLoanAmount   = "loan_amount"
	FeatureTenureMonths = "tenure_months"
)

// Vector is the append-only feature row threaded through the stage
// pipeline. Names travel with values so the per-stage schema stays visible
// and testable.
type Vector struct {
	names  []string
	values []float64
}

func NewVector(capacity int) *Vector {
	return &Vector{
		names:  make([]string, 0, capacity),
		values: make([]float64, 0, capacity),
	}
}

func (v *Vector) Append(name string, value float64) *Vector {
	v.names = append(v.names, name)
	v.values = append(v.values, value)
	return v
}

func (v *Vector) Len() int {
	return len(v.values)
}

// Values returns a copy; stage models must not see later appends through
// a shared backing array.
func (v *Vector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

func (v *Vector) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}
