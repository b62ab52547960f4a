package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/dto"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/middleware"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/response"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/usecase"
)

type EMIHandler struct {
	uc usecase.EMIUsecase
}

func NewEMIHandler(uc usecase.EMIUsecase) *EMIHandler {
	return &EMIHandler{uc: uc}
}

func (h *EMIHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/loans/emi", h.Calculate)
}

func (h *EMIHandler) Calculate(c fiber.Ctx) error {
	var req dto.EMIRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	totals, err := h.uc.Calculate(c.Context(), usecase.EMIInput{
		Principal:         req.LoanAmount,
		AnnualRatePercent: req.InterestRate,
		TenureMonths:      req.TenureMonths,
		MonthlyIncome:     req.MonthlyIncome,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.OK(c, dto.NewEMIResponseData(req, totals))
}
