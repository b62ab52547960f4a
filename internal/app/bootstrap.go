package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/config"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/handler"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/delivery/http/middleware"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/jwt"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/usecase"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/ws"
)

type App struct {
	Fiber *fiber.App
	Hub   *ws.Hub
}

// Bootstrap builds the container, wires every usecase and handler, and
// returns the ready-to-listen app plus a cleanup closure.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	errMw := middleware.NewErrorMiddleware(c.Logger)
	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	jwtSvc := jwt.NewHMACService(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessExpiresIn, cfg.Auth.RefreshExpiresIn)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	hub := ws.NewHub(c.Logger)
	go hub.Run()
	notifier := ws.NewNotifier(hub)

	recommendUC := usecase.NewRecommendationUsecase(c.Scores, c.Models, c.Cache, cfg.Models.CacheTTL, c.Logger)
	emiUC := usecase.NewEMIUsecase()
	retrainUC := usecase.NewRetrainUsecase(cfg.Models, c.Models, c.Cache, notifier, c.Logger)
	statusUC := usecase.NewStatusUsecase(c.Scores, c.Models, c.DB, c.Cache, c.Logger)
	authUC := usecase.NewAuthUsecase(cfg.Auth, jwtSvc)

	api := f.Group("/api/v1")
	handler.NewRecommendationHandler(recommendUC, c.Logger).RegisterRoutes(api)
	handler.NewEMIHandler(emiUC).RegisterRoutes(api)
	handler.NewScoreHandler(statusUC, c.Scores, c.Logger).RegisterRoutes(api)
	handler.NewModelHandler(statusUC).RegisterRoutes(api)
	handler.NewRetrainHandler(retrainUC, authMw, c.Logger).RegisterRoutes(api)
	handler.NewAuthHandler(authUC).RegisterRoutes(api.Group("/auth"))

	handler.NewHealthHandler(statusUC).RegisterRoutes(f)
	f.Get("/ws/retrain", ws.NewHandler(hub, c.Logger).HandleRetrainWS)

	cleanup := func() error {
		return c.Close()
	}
	return &App{Fiber: f, Hub: hub}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
