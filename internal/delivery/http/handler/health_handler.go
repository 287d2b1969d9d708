package handler

import (
	"context"
	"sort"
	"time"

	"vacancy-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the reachability of the service dependencies.
// Optional dependencies are reported but never fail the check.
type HealthHandler struct {
	required map[string]Pinger
	optional map[string]Pinger
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		required: map[string]Pinger{},
		optional: map[string]Pinger{},
	}
}

func (h *HealthHandler) Require(name string, p Pinger) *HealthHandler {
	if p != nil {
		h.required[name] = p
	}
	return h
}

func (h *HealthHandler) Optional(name string, p Pinger) *HealthHandler {
	if p != nil {
		h.optional[name] = p
	}
	return h
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.GetHealth)
}

type healthCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *HealthHandler) GetHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	checks := make([]healthCheck, 0, len(h.required)+len(h.optional))
	for _, name := range sortedKeys(h.required) {
		chk := runCheck(ctx, name, h.required[name])
		if chk.Status != "up" {
			healthy = false
		}
		checks = append(checks, chk)
	}
	for _, name := range sortedKeys(h.optional) {
		checks = append(checks, runCheck(ctx, name, h.optional[name]))
	}

	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", checks)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, checks)
}

func runCheck(ctx context.Context, name string, p Pinger) healthCheck {
	if err := p.Ping(ctx); err != nil {
		return healthCheck{Name: name, Status: "down", Error: err.Error()}
	}
	return healthCheck{Name: name, Status: "up"}
}

func sortedKeys(m map[string]Pinger) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
