package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/dto"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/middleware"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/domain/applicant"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/response"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/usecase"
)

type RecommendationHandler struct {
	uc  usecase.RecommendationUsecase
	log *log.Logger
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase, logger *log.Logger) *RecommendationHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &RecommendationHandler{uc: uc, log: logger}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/loans/predict", h.Predict)
	r.Post("/loans/predict/batch", h.PredictBatch)
}

func (h *RecommendationHandler) Predict(c fiber.Ctx) error {
	start := time.Now()

	var req dto.LoanRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	rec, err := h.uc.Recommend(c.Context(), req.ToProfile())
	if err != nil {
		h.log.Printf("http_request method=%s path=%s status=error duration=%s err=%v", c.Method(), c.Path(), time.Since(start), err)
		return mapRecommendationUsecaseError(err)
	}

	h.log.Printf("http_request method=%s path=%s status=ok duration=%s eligibility=%s", c.Method(), c.Path(), time.Since(start), rec.EligibilityStatus)
	return response.OK(c, dto.NewLoanResponseData(rec))
}

func (h *RecommendationHandler) PredictBatch(c fiber.Ctx) error {
	start := time.Now()

	var req dto.BatchLoanRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	profiles := make([]applicant.Profile, 0, len(req.Profiles))
	for _, p := range req.Profiles {
		profiles = append(profiles, p.ToProfile())
	}

	results, err := h.uc.RecommendBatch(c.Context(), profiles)
	if err != nil {
		h.log.Printf("http_request method=%s path=%s status=error duration=%s err=%v", c.Method(), c.Path(), time.Since(start), err)
		return mapRecommendationUsecaseError(err)
	}

	data := dto.BatchLoanResponseData{
		Results: make([]dto.BatchItemResult, 0, len(results)),
		Total:   len(results),
	}
	for _, r := range results {
		item := dto.BatchItemResult{Index: r.Index}
		if r.Err != nil {
			item.Error = r.Err.Error()
			data.Failed++
		} else {
			out := dto.NewLoanResponseData(*r.Recommendation)
			item.Result = &out
			data.Succeeded++
		}
		data.Results = append(data.Results, item)
	}

	h.log.Printf("http_request method=%s path=%s status=ok duration=%s total=%d failed=%d", c.Method(), c.Path(), time.Since(start), data.Total, data.Failed)
	return response.OK(c, data)
}

func mapRecommendationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrScoreNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "CIBIL ID not found", nil, err)
	case errors.Is(err, usecase.ErrModelsNotLoaded):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Prediction models not loaded", nil, err)
	case errors.Is(err, usecase.ErrEmptyBatch):
		return middleware.NewAppError(fiber.StatusBadRequest, "Batch contains no profiles", nil, err)
	case errors.Is(err, usecase.ErrBatchTooLarge):
		return middleware.NewAppError(fiber.StatusBadRequest, "Batch size exceeds the maximum of 10", nil, err)
	case errors.Is(err, usecase.ErrStageFailure):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
