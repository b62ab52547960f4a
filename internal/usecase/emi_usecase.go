package usecase

import (
	"context"
	"errors"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/loan"
)

type EMIUsecase interface {
	Calculate(ctx context.Context, in EMIInput) (loan.Totals, error)
}

// EMIInput is a standalone calculation request, independent of any stored
// applicant. MonthlyIncome is optional; zero skips the affordability check.
type EMIInput struct {
	Principal         float64
	AnnualRatePercent float64
	TenureMonths      int
	MonthlyIncome     float64
}

type EMI struct{}

func NewEMIUsecase() *EMI {
	return &EMI{}
}

func (u *EMI) Calculate(_ context.Context, in EMIInput) (loan.Totals, error) {
	if in.MonthlyIncome < 0 {
		return loan.Totals{}, invalidInput(errors.New("monthly income must not be negative"))
	}
	t, err := loan.ComputeTotals(in.Principal, in.AnnualRatePercent, in.TenureMonths, in.MonthlyIncome)
	if err != nil {
		if errors.Is(err, loan.ErrInvalidEMIInput) {
			return loan.Totals{}, invalidInput(err)
		}
		return loan.Totals{}, ErrInternal
	}
	return t, nil
}
