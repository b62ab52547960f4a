package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestEMICalculate_KnownValue(t *testing.T) {
	uc := NewEMIUsecase()

	totals, err := uc.Calculate(context.Background(), EMIInput{
		Principal:         100000,
		AnnualRatePercent: 12,
		TenureMonths:      12,
		MonthlyIncome:     40000,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if math.Abs(totals.MonthlyEMI-8884.88) > 0.01 {
		t.Fatalf("EMI = %.4f, want 8884.88", totals.MonthlyEMI)
	}
	if totals.EMIToIncomeRatio <= 0 || totals.Affordability == "" {
		t.Fatalf("affordability missing with income supplied: %+v", totals)
	}
}

func TestEMICalculate_InvalidInputs(t *testing.T) {
	uc := NewEMIUsecase()

	cases := []struct {
		name string
		in   EMIInput
	}{
		{"zero principal", EMIInput{Principal: 0, AnnualRatePercent: 10, TenureMonths: 12}},
		{"negative rate", EMIInput{Principal: 100000, AnnualRatePercent: -1, TenureMonths: 12}},
		{"zero tenure", EMIInput{Principal: 100000, AnnualRatePercent: 10, TenureMonths: 0}},
		{"negative income", EMIInput{Principal: 100000, AnnualRatePercent: 10, TenureMonths: 12, MonthlyIncome: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Calculate(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestEMICalculate_NoIncomeSkipsAffordability(t *testing.T) {
	uc := NewEMIUsecase()

	totals, err := uc.Calculate(context.Background(), EMIInput{
		Principal:         50000,
		AnnualRatePercent: 10,
		TenureMonths:      24,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if totals.EMIToIncomeRatio != 0 || totals.Affordability != "" {
		t.Fatalf("affordability should be absent without income: %+v", totals)
	}
}
