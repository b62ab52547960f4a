package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/response"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/usecase"
)

type HealthHandler struct {
	status usecase.StatusUsecase
}

func NewHealthHandler(status usecase.StatusUsecase) *HealthHandler {
	return &HealthHandler{status: status}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health always answers 200; degraded dependencies show in the body so a
// load balancer keeps routing while operators see what broke.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	return response.OK(c, h.status.Health(c.Context()))
}
