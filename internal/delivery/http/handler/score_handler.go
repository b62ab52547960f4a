package handler

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/dto"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/middleware"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/response"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/repository"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/usecase"
)

type ScoreHandler struct {
	status usecase.StatusUsecase
	scores repository.ScoreRepository
	log    *log.Logger
}

func NewScoreHandler(status usecase.StatusUsecase, scores repository.ScoreRepository, logger *log.Logger) *ScoreHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ScoreHandler{status: status, scores: scores, log: logger}
}

func (h *ScoreHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/scores/stats", h.Stats)
	r.Get("/scores/:credit_id", h.Probe)
}

func (h *ScoreHandler) Stats(c fiber.Ctx) error {
	stats, err := h.status.ScoreStats(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.OK(c, dto.NewScoreStatsResponseData(stats))
}

// Probe answers whether a credit id is on file without running the
// prediction pipeline. An unknown id is a normal answer here, not a 404.
func (h *ScoreHandler) Probe(c fiber.Ctx) error {
	creditID := strings.TrimSpace(c.Params("credit_id"))
	if creditID == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "credit id is required", nil, nil)
	}

	score, err := h.scores.Lookup(c.Context(), creditID)
	if err != nil {
		if errors.Is(err, repository.ErrScoreNotFound) {
			return response.OK(c, dto.ScoreProbeResponseData{CibilID: creditID, Valid: false})
		}
		h.log.Printf("http_request method=%s path=%s status=error err=%v", c.Method(), c.Path(), err)
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.OK(c, dto.ScoreProbeResponseData{CibilID: creditID, Valid: true, Score: score})
}
