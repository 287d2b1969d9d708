package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"vacancy-match/internal/config"
	"vacancy-match/internal/domain/candidate"
	"vacancy-match/internal/domain/category"
	"vacancy-match/internal/domain/matching"
	"vacancy-match/internal/domain/vacancy"
	"vacancy-match/internal/logger"
	"vacancy-match/internal/metrics"
	"vacancy-match/internal/pkg/workerpool"
	"vacancy-match/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultRadiusKm = 10.0

// MatchFilters are the caller options of a match request. Only the first
// entry of CategoryIDs narrows the result.
type MatchFilters struct {
	RadiusKm               *float64
	CategoryIDs            []string
	IncludeHierarchical    bool
	MinCategoryScore       *float64
	EnableDetailedMatching bool
}

type MatchSettings struct {
	DefaultRadiusKm float64
	Workers         int
	Timeout         time.Duration
	Weights         matching.Weights
}

func MatchSettingsFromConfig(cfg config.MatchingConfig) MatchSettings {
	return MatchSettings{
		DefaultRadiusKm: cfg.DefaultRadiusKm,
		Workers:         cfg.Workers,
		Timeout:         cfg.Timeout,
		Weights: matching.Weights{
			Location:   cfg.WeightLocation,
			Category:   cfg.WeightCategory,
			Experience: cfg.WeightExperience,
			Skills:     cfg.WeightSkills,
		},
	}
}

type VacancyMatchingUsecase interface {
	FindMatches(ctx context.Context, candidateID string, filters MatchFilters) ([]matching.MatchResult, error)
	MatchStatistics(ctx context.Context, candidateID string) (matching.Statistics, error)
}

type VacancyMatching struct {
	candidates repository.CandidateRepository
	locations  repository.LocationRepository
	categories repository.CategoryRepository
	settings   MatchSettings
	log        logger.Logger
}

func NewVacancyMatchingUsecase(
	candidates repository.CandidateRepository,
	locations repository.LocationRepository,
	categories repository.CategoryRepository,
	settings MatchSettings,
	log logger.Logger,
) *VacancyMatching {
	if settings.DefaultRadiusKm <= 0 {
		settings.DefaultRadiusKm = defaultRadiusKm
	}
	if settings.Workers <= 0 {
		settings.Workers = 1
	}
	if settings.Weights == (matching.Weights{}) {
		settings.Weights = matching.DefaultWeights()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &VacancyMatching{
		candidates: candidates,
		locations:  locations,
		categories: categories,
		settings:   settings,
		log:        log,
	}
}

func (u *VacancyMatching) FindMatches(ctx context.Context, candidateID string, filters MatchFilters) ([]matching.MatchResult, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	mode := metrics.Mode(filters.EnableDetailedMatching)
	metrics.MatchRequests.WithLabelValues(mode).Inc()
	timer := prometheus.NewTimer(metrics.MatchDuration.WithLabelValues(mode))
	defer timer.ObserveDuration()

	if _, ok := ctx.Deadline(); !ok && u.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.settings.Timeout)
		defer cancel()
	}

	log := u.log.WithFields(map[string]interface{}{
		"candidate_id": candidateID,
		"mode":         mode,
	})

	results := u.findMatches(ctx, strings.TrimSpace(candidateID), filters, log)
	metrics.MatchResultsReturned.Observe(float64(len(results)))
	return results, nil
}

func (u *VacancyMatching) MatchStatistics(ctx context.Context, candidateID string) (matching.Statistics, error) {
	results, err := u.FindMatches(ctx, candidateID, MatchFilters{EnableDetailedMatching: true})
	if err != nil {
		return matching.Statistics{}, err
	}
	return matching.Aggregate(results), nil
}

func (u *VacancyMatching) findMatches(ctx context.Context, candidateID string, filters MatchFilters, log logger.Logger) []matching.MatchResult {
	empty := make([]matching.MatchResult, 0)
	if candidateID == "" {
		return empty
	}

	prefs, err := u.candidates.FindByID(ctx, candidateID)
	if err != nil {
		metrics.LookupFailures.WithLabelValues(metrics.CollaboratorCandidate).Inc()
		log.WithError(err).Warn("candidate lookup failed", nil)
		return empty
	}
	if prefs == nil {
		log.Debug("candidate not found", nil)
		return empty
	}

	radius := u.radiusFor(filters, prefs)
	vacancies, err := u.locations.NearbyVacancies(ctx, candidateID, radius)
	if err != nil {
		metrics.LookupFailures.WithLabelValues(metrics.CollaboratorLocation).Inc()
		log.WithError(err).Warn("location lookup failed", map[string]interface{}{"radius_km": radius})
		return empty
	}

	if len(filters.CategoryIDs) > 0 {
		vacancies = u.narrowByCategory(ctx, vacancies, filters, log)
	}
	if len(vacancies) == 0 {
		return empty
	}

	weights := u.settings.Weights
	if prefs.MatchWeights != nil {
		weights = *prefs.MatchWeights
	}

	var (
		preferred   []category.Category
		vacancyCats [][]category.Category
	)
	if filters.EnableDetailedMatching {
		preferred = u.resolvePreferred(ctx, prefs.PreferredCategories, log)
		vacancyCats = u.loadVacancyCategories(ctx, vacancies, log)
	}

	results := make([]matching.MatchResult, 0, len(vacancies))
	for i, v := range vacancies {
		in := matching.Input{
			Vacancy:             v,
			PreferredCategories: preferred,
			Experience:          prefs.Experience,
			Skills:              prefs.Skills,
		}
		if vacancyCats != nil {
			in.VacancyCategories = vacancyCats[i]
		}

		res := matching.Evaluate(in, weights, filters.EnableDetailedMatching)
		if filters.MinCategoryScore != nil && res.MatchFactors != nil &&
			res.MatchFactors.CategoryScore < *filters.MinCategoryScore {
			continue
		}
		results = append(results, res)
	}

	matching.SortResults(results)
	return results
}

func (u *VacancyMatching) radiusFor(filters MatchFilters, prefs *candidate.Preferences) float64 {
	if filters.RadiusKm != nil {
		return *filters.RadiusKm
	}
	if prefs.RadiusKm != nil && *prefs.RadiusKm > 0 {
		return *prefs.RadiusKm
	}
	return u.settings.DefaultRadiusKm
}

// narrowByCategory keeps the nearby vacancies that are tagged with the first
// requested category. A failed lookup leaves the list untouched.
func (u *VacancyMatching) narrowByCategory(ctx context.Context, vacancies []vacancy.Vacancy, filters MatchFilters, log logger.Logger) []vacancy.Vacancy {
	categoryID := strings.TrimSpace(filters.CategoryIDs[0])
	if len(filters.CategoryIDs) > 1 {
		log.Debug("only the first category filter is applied", map[string]interface{}{
			"category_ids": filters.CategoryIDs,
		})
	}

	tagged, err := u.categories.FindVacanciesByCategory(ctx, categoryID, filters.IncludeHierarchical)
	if err != nil {
		metrics.LookupFailures.WithLabelValues(metrics.CollaboratorCategory).Inc()
		log.WithError(err).Warn("category narrowing failed, skipping", map[string]interface{}{
			"category_id": categoryID,
		})
		return vacancies
	}

	allowed := make(map[string]struct{}, len(tagged))
	for _, t := range tagged {
		allowed[t.ID] = struct{}{}
	}

	out := make([]vacancy.Vacancy, 0, len(vacancies))
	for _, v := range vacancies {
		if _, ok := allowed[v.ID]; ok {
			out = append(out, v)
		}
	}
	return out
}

// resolvePreferred loads the candidate's preferred categories. Ids that
// cannot be resolved are kept with their id only so exact matches still
// count.
func (u *VacancyMatching) resolvePreferred(ctx context.Context, ids []string, log logger.Logger) []category.Category {
	out := make([]category.Category, 0, len(ids))
	for _, id := range ids {
		c, err := u.categories.FindByID(ctx, id)
		if err != nil {
			metrics.LookupFailures.WithLabelValues(metrics.CollaboratorCategory).Inc()
			log.WithError(err).Warn("preferred category lookup failed", map[string]interface{}{"category_id": id})
		}
		if err != nil || c == nil {
			out = append(out, category.Category{ID: id})
			continue
		}
		out = append(out, *c)
	}
	return out
}

// loadVacancyCategories fetches categories for every vacancy on the worker
// pool. A vacancy whose lookup fails or never runs gets no categories.
func (u *VacancyMatching) loadVacancyCategories(ctx context.Context, vacancies []vacancy.Vacancy, log logger.Logger) [][]category.Category {
	out := make([][]category.Category, len(vacancies))

	tasks := make([]workerpool.Task, 0, len(vacancies))
	for i, v := range vacancies {
		tasks = append(tasks, func(ctx context.Context) error {
			cats, err := u.categories.FindByVacancyID(ctx, v.ID)
			if err != nil {
				metrics.LookupFailures.WithLabelValues(metrics.CollaboratorCategory).Inc()
				log.WithError(err).Warn("vacancy category lookup failed", map[string]interface{}{"vacancy_id": v.ID})
				return err
			}
			out[i] = cats
			return nil
		})
	}

	ran := workerpool.RunAll(ctx, u.settings.Workers, tasks)
	if ran < len(tasks) {
		metrics.LookupFailures.WithLabelValues(metrics.CollaboratorCategory).Add(float64(len(tasks) - ran))
		log.Warn("vacancy category lookups cut short", map[string]interface{}{
			"skipped": len(tasks) - ran,
			"error":   ctx.Err(),
		})
	}
	return out
}

func validateFilters(f MatchFilters) error {
	if f.RadiusKm != nil {
		r := *f.RadiusKm
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return fmt.Errorf("%w: radius must be a positive number", ErrInvalidInput)
		}
	}
	if f.MinCategoryScore != nil {
		s := *f.MinCategoryScore
		if math.IsNaN(s) || s < 0 || s > 100 {
			return fmt.Errorf("%w: minimum category score must be between 0 and 100", ErrInvalidInput)
		}
	}
	return nil
}

// IsInvalidInput reports whether err was caused by bad caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
