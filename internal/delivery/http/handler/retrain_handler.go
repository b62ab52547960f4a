package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/dto"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/middleware"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/response"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/usecase"
)

type RetrainHandler struct {
	uc   usecase.RetrainUsecase
	auth *middleware.AuthMiddleware
	log  *log.Logger
}

func NewRetrainHandler(uc usecase.RetrainUsecase, auth *middleware.AuthMiddleware, logger *log.Logger) *RetrainHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &RetrainHandler{uc: uc, auth: auth, log: logger}
}

func (h *RetrainHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/admin/retrain", h.Retrain, h.auth.Middleware())
}

func (h *RetrainHandler) Retrain(c fiber.Ctx) error {
	start := time.Now()
	h.log.Printf("http_request method=%s path=%s status=started", c.Method(), c.Path())

	summary, err := h.uc.Retrain(c.Context())
	if err != nil {
		h.log.Printf("http_request method=%s path=%s status=error duration=%s err=%v", c.Method(), c.Path(), time.Since(start), err)
		return mapRetrainUsecaseError(err)
	}

	h.log.Printf("http_request method=%s path=%s status=ok duration=%s generation=%d", c.Method(), c.Path(), time.Since(start), summary.Generation)
	return response.OK(c, dto.NewRetrainResponseData(summary))
}

func mapRetrainUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrRetrainInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Retraining already in progress", nil, err)
	case errors.Is(err, usecase.ErrRetrainFailed):
		// The detail is operator-facing; the endpoint is behind auth.
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
