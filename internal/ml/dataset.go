package ml

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Training CSV column headers, exactly as the merged training dataset
// ships them.
const (
	colAge        = "Age"
	colGender     = "Gender"
	colMarital    = "Marital Status"
	colProperty   = "Type of Property (Rented/Owned)"
	colEducation  = "Education level"
	colEmployment = "Employment Status"
	colExperience = "Experience"
	colSalary     = "Salary"
	colScore      = "CIBIL Score"
	colEligible   = "Eligibility (0/1)"
	colProduct    = "Product Type"
	colAmount     = "Loan Amount"
	colTenure     = "Loan Tenure"
	colRate       = "Interest Rate"
)

// TrainingRow is one parsed sample.
type TrainingRow struct {
	Age        float64
	Gender     string
	Marital    string
	Property   string
	Education  string
	Employment string
	Experience float64
	Salary     float64
	Score      float64

	Eligible bool
	Product  string
	Amount   float64
	Tenure   float64
	Rate     float64
}

// Dataset holds the parsed training file.
type Dataset struct {
	Rows    []TrainingRow
	Skipped int
}

// Eligible returns only the rows approved for a loan; the product, amount,
// tenure and rate stages train exclusively on these.
func (d *Dataset) Eligible() []TrainingRow {
	out := make([]TrainingRow, 0, len(d.Rows))
	for _, r := range d.Rows {
		if r.Eligible {
			out = append(out, r)
		}
	}
	return out
}

// ReadTrainingCSV parses the merged training dataset. Missing columns fail
// immediately with the column name; rows with unparsable numerics are
// counted and skipped rather than aborting the whole file.
func ReadTrainingCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("training dataset: %w", err)
	}
	defer f.Close()
	return parseTrainingCSV(f)
}

func parseTrainingCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	required := []string{
		colAge, colGender, colMarital, colProperty, colEducation, colEmployment,
		colExperience, colSalary, colScore, colEligible, colProduct, colAmount,
		colTenure, colRate,
	}
	for _, c := range required {
		if _, ok := col[c]; !ok {
			return nil, fmt.Errorf("training dataset missing column %q", c)
		}
	}

	ds := &Dataset{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row, ok := parseTrainingRow(rec, col)
		if !ok {
			ds.Skipped++
			continue
		}
		ds.Rows = append(ds.Rows, row)
	}

	if len(ds.Rows) == 0 {
		return nil, fmt.Errorf("training dataset has no usable rows (%d skipped)", ds.Skipped)
	}
	return ds, nil
}

func parseTrainingRow(rec []string, col map[string]int) (TrainingRow, bool) {
	get := func(c string) string {
		i := col[c]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(c string) (float64, bool) {
		v, err := strconv.ParseFloat(get(c), 64)
		return v, err == nil
	}

	var (
		row TrainingRow
		ok  bool
	)
	if row.Age, ok = num(colAge); !ok {
		return row, false
	}
	if row.Experience, ok = num(colExperience); !ok {
		return row, false
	}
	if row.Salary, ok = num(colSalary); !ok {
		return row, false
	}
	if row.Score, ok = num(colScore); !ok {
		return row, false
	}

	row.Gender = get(colGender)
	row.Marital = get(colMarital)
	row.Property = get(colProperty)
	row.Education = get(colEducation)
	row.Employment = get(colEmployment)
	row.Product = get(colProduct)
	if row.Gender == "" || row.Marital == "" || row.Property == "" ||
		row.Education == "" || row.Employment == "" {
		return row, false
	}

	elig, ok := num(colEligible)
	if !ok {
		return row, false
	}
	row.Eligible = elig == 1

	// Financial targets only matter on eligible rows; ineligible rows may
	// leave them blank.
	if row.Eligible {
		if row.Amount, ok = num(colAmount); !ok {
			return row, false
		}
		if row.Tenure, ok = num(colTenure); !ok {
			return row, false
		}
		if row.Rate, ok = num(colRate); !ok {
			return row, false
		}
		if row.Product == "" {
			return row, false
		}
	}

	return row, true
}
