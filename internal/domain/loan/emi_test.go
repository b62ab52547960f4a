package loan

import (
	"errors"
	"math"
	"testing"
)

func TestEMI_KnownValue(t *testing.T) {
	// 100000 at 12% over 12 months is the standard textbook case.
	emi, err := EMI(100000, 12, 12)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if math.Abs(emi-8884.88) > 0.01 {
		t.Fatalf("expected ~8884.88, got %.4f", emi)
	}
}

func TestEMI_ZeroRate(t *testing.T) {
	emi, err := EMI(120000, 0, 12)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if emi != 10000 {
		t.Fatalf("expected 10000, got %.2f", emi)
	}
}

func TestEMI_InvalidInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		tenure    int
	}{
		{"zero tenure", 100000, 10, 0},
		{"negative tenure", 100000, 10, -6},
		{"zero principal", 0, 10, 12},
		{"negative rate", 100000, -1, 12},
	}
	for _, tc := range cases {
		if _, err := EMI(tc.principal, tc.rate, tc.tenure); !errors.Is(err, ErrInvalidEMIInput) {
			t.Fatalf("%s: expected ErrInvalidEMIInput, got %v", tc.name, err)
		}
	}
}

func TestEMI_Monotonicity(t *testing.T) {
	small, _ := EMI(100000, 10, 24)
	large, _ := EMI(200000, 10, 24)
	if large <= small {
		t.Fatalf("EMI should grow with principal: %.2f vs %.2f", small, large)
	}

	short, _ := EMI(100000, 10, 12)
	long, _ := EMI(100000, 10, 36)
	if long >= short {
		t.Fatalf("EMI should shrink with tenure: %.2f vs %.2f", short, long)
	}
}

func TestComputeTotals_Consistency(t *testing.T) {
	totals, err := ComputeTotals(100000, 12, 12, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	wantPayable := totals.MonthlyEMI * 12
	if math.Abs(totals.TotalAmountPayable-wantPayable) > 0.1 {
		t.Fatalf("payable mismatch: got %.2f want ~%.2f", totals.TotalAmountPayable, wantPayable)
	}
	if math.Abs(totals.TotalInterestPayable-(totals.TotalAmountPayable-100000)) > 0.1 {
		t.Fatalf("interest mismatch: got %.2f", totals.TotalInterestPayable)
	}
	if totals.EMIToIncomeRatio != 0 || totals.Affordability != "" {
		t.Fatalf("no income given, expected no affordability fields")
	}
}

func TestComputeTotals_AffordabilityBands(t *testing.T) {
	cases := []struct {
		income float64
		want   string
	}{
		{20000, "High risk: EMI exceeds 40% of income"},
		{25000, "Moderate: EMI is manageable but monitor expenses"},
		{100000, "Low risk: EMI is well within affordable limits"},
	}
	for _, tc := range cases {
		totals, err := ComputeTotals(100000, 12, 12, tc.income)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if totals.Affordability != tc.want {
			t.Fatalf("income %.0f: got %q want %q (ratio %.2f)", tc.income, totals.Affordability, tc.want, totals.EMIToIncomeRatio)
		}
	}
}
