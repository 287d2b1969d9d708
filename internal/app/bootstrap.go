package app

import (
	"fmt"
	"strings"

	"vacancy-match/internal/config"
	"vacancy-match/internal/delivery/http/handler"
	"vacancy-match/internal/delivery/http/middleware"
	"vacancy-match/internal/delivery/http/routes"
	"vacancy-match/internal/infrastructure/search"
	"vacancy-match/internal/logger"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func New(cfg config.Config, log logger.Logger, registry *routes.Registry) *App {
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, log)
	registry.Register(f)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config, log logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	health := handler.NewHealthHandler().
		Require("postgres", c.DB).
		Optional("redis", c.Cache)
	if c.Search != nil {
		health.Optional("elasticsearch", search.ClusterPinger{Client: c.Search})
	}

	registry := routes.NewRegistry(health, handler.NewMatchHandler(c.Matching))
	return New(cfg, log, registry), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log logger.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(log)
	errMw := middleware.NewErrorMiddleware(log)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
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
