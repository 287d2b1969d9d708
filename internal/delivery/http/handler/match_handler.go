package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vacancy-match/internal/delivery/http/dto"
	"vacancy-match/internal/delivery/http/middleware"
	"vacancy-match/internal/pkg/response"
	"vacancy-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/xeipuuv/gojsonschema"
)

const matchSearchSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"radiusKm": {"type": "number", "exclusiveMinimum": 0},
		"categoryIds": {"type": "array", "items": {"type": "string", "minLength": 1}},
		"includeHierarchical": {"type": "boolean"},
		"minCategoryScore": {"type": "number", "minimum": 0, "maximum": 100},
		"enableDetailedMatching": {"type": "boolean"}
	}
}`

var searchSchema = mustNewSchema(gojsonschema.NewStringLoader(matchSearchSchema))

func mustNewSchema(l gojsonschema.JSONLoader) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(l)
	if err != nil {
		panic(err)
	}
	return s
}

type MatchHandler struct {
	uc usecase.VacancyMatchingUsecase
}

func NewMatchHandler(uc usecase.VacancyMatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/candidates")
	grp.Get("/:candidate_id/matches", h.GetMatches)
	grp.Post("/:candidate_id/matches/search", h.SearchMatches)
	grp.Get("/:candidate_id/matches/stats", h.GetStatistics)
}

func (h *MatchHandler) GetMatches(c fiber.Ctx) error {
	candidateID, err := candidateParam(c)
	if err != nil {
		return err
	}

	filters, err := parseMatchQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	return h.respondMatches(c, candidateID, filters)
}

func (h *MatchHandler) SearchMatches(c fiber.Ctx) error {
	candidateID, err := candidateParam(c)
	if err != nil {
		return err
	}

	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		body = []byte("{}")
	}

	result, err := searchSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid JSON body", nil, err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", errs, nil)
	}

	var req dto.MatchSearchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid JSON body", nil, err)
	}

	return h.respondMatches(c, candidateID, usecase.MatchFilters{
		RadiusKm:               req.RadiusKm,
		CategoryIDs:            req.CategoryIDs,
		IncludeHierarchical:    req.IncludeHierarchical,
		MinCategoryScore:       req.MinCategoryScore,
		EnableDetailedMatching: req.EnableDetailedMatching,
	})
}

func (h *MatchHandler) GetStatistics(c fiber.Ctx) error {
	candidateID, err := candidateParam(c)
	if err != nil {
		return err
	}

	stats, err := h.uc.MatchStatistics(c.Context(), candidateID)
	if err != nil {
		return mapVacancyMatchingError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchStatisticsResponse(stats))
}

func (h *MatchHandler) respondMatches(c fiber.Ctx, candidateID string, filters usecase.MatchFilters) error {
	results, err := h.uc.FindMatches(c.Context(), candidateID, filters)
	if err != nil {
		return mapVacancyMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultResponses(results))
}

func candidateParam(c fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("candidate_id"))
	if id == "" {
		return "", middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, nil)
	}
	return id, nil
}

func parseMatchQuery(c fiber.Ctx) (usecase.MatchFilters, error) {
	var f usecase.MatchFilters
	var err error

	if f.RadiusKm, err = parseQueryFloat(c, "radius_km"); err != nil {
		return f, err
	}
	if f.MinCategoryScore, err = parseQueryFloat(c, "min_category_score"); err != nil {
		return f, err
	}
	if f.IncludeHierarchical, err = parseQueryBool(c, "include_hierarchical"); err != nil {
		return f, err
	}
	if f.EnableDetailedMatching, err = parseQueryBool(c, "detailed"); err != nil {
		return f, err
	}
	f.CategoryIDs = parseListQuery(c.Query("category_ids"))
	return f, nil
}

func parseQueryFloat(c fiber.Ctx, key string) (*float64, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

func parseQueryBool(c fiber.Ctx, key string) (bool, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseListQuery(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func mapVacancyMatchingError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrInternal):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
