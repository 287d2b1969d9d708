package repository

import (
	"context"
	"time"

	"vacancy-match/internal/domain/category"
	"vacancy-match/internal/domain/vacancy"
	"vacancy-match/internal/logger"
)

const (
	categoryByIDKeyPrefix      = "categories:id:"
	categoryByVacancyKeyPrefix = "categories:vacancy:"
	CategoryCachePattern       = "categories:*"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedCategoryRepository serves category lookups from the cache and falls
// back to next on a miss or cache failure. Vacancy listings are not cached.
type CachedCategoryRepository struct {
	next  CategoryRepository
	cache Cache
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedCategoryRepository(next CategoryRepository, cache Cache, ttl time.Duration, log logger.Logger) *CachedCategoryRepository {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedCategoryRepository{next: next, cache: cache, ttl: ttl, log: log}
}

func (r *CachedCategoryRepository) FindByID(ctx context.Context, categoryID string) (*category.Category, error) {
	key := categoryByIDKeyPrefix + categoryID

	var cached category.Category
	if r.get(ctx, key, &cached) {
		return &cached, nil
	}

	c, err := r.next.FindByID(ctx, categoryID)
	if err != nil || c == nil {
		return c, err
	}
	r.set(ctx, key, c)
	return c, nil
}

func (r *CachedCategoryRepository) FindByVacancyID(ctx context.Context, vacancyID string) ([]category.Category, error) {
	key := categoryByVacancyKeyPrefix + vacancyID

	var cached []category.Category
	if r.get(ctx, key, &cached) {
		return cached, nil
	}

	cats, err := r.next.FindByVacancyID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, cats)
	return cats, nil
}

func (r *CachedCategoryRepository) FindVacanciesByCategory(ctx context.Context, categoryID string, includeDescendants bool) ([]vacancy.Vacancy, error) {
	return r.next.FindVacanciesByCategory(ctx, categoryID, includeDescendants)
}

func (r *CachedCategoryRepository) get(ctx context.Context, key string, out any) bool {
	if r.cache == nil {
		return false
	}
	ok, err := r.cache.GetJSON(ctx, key, out)
	if err != nil {
		r.log.Debug("category cache read failed", map[string]interface{}{"key": key, "error": err})
		return false
	}
	return ok
}

func (r *CachedCategoryRepository) set(ctx context.Context, key string, value any) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetJSON(ctx, key, value, r.ttl); err != nil {
		r.log.Debug("category cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}
