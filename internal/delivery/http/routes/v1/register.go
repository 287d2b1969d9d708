package v1

import (
	"vacancy-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, match *handler.MatchHandler) {
	if r == nil {
		return
	}
	if match == nil {
		return
	}

	match.RegisterRoutes(r)
}
