package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/dto"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/middleware"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/response"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/usecase"
)

type ModelHandler struct {
	status usecase.StatusUsecase
}

func NewModelHandler(status usecase.StatusUsecase) *ModelHandler {
	return &ModelHandler{status: status}
}

func (h *ModelHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/models/status", h.Status)
	r.Get("/models/vocabularies", h.Vocabularies)
}

func (h *ModelHandler) Status(c fiber.Ctx) error {
	return response.OK(c, dto.NewModelStatusResponseData(h.status.ModelStatus(c.Context())))
}

func (h *ModelHandler) Vocabularies(c fiber.Ctx) error {
	vocabs, err := h.status.Vocabularies(c.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrModelsNotLoaded) {
			return middleware.NewAppError(fiber.StatusServiceUnavailable, "Prediction models not loaded", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.OK(c, vocabs)
}
