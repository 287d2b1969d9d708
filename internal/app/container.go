package app

import (
	"context"
	"fmt"
	"time"

	"vacancy-match/internal/config"
	"vacancy-match/internal/database"
	"vacancy-match/internal/database/migration"
	dbpostgres "vacancy-match/internal/database/postgres"
	"vacancy-match/internal/infrastructure/cache"
	"vacancy-match/internal/infrastructure/search"
	"vacancy-match/internal/logger"
	"vacancy-match/internal/repository"
	"vacancy-match/internal/usecase"

	"github.com/elastic/go-elasticsearch/v8"
)

type Container struct {
	Config config.Config
	Log    logger.Logger

	DB     database.DB
	Cache  *cache.Redis
	Search *elasticsearch.Client

	Categories repository.CategoryRepository
	Matching   *usecase.VacancyMatching
}

func NewContainer(cfg config.Config, log logger.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Log: log, DB: db}

	if cfg.Database.RunMigrations {
		if err := migration.Default().Run(ctx, db.SQLDB()); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("migrations applied", nil)
	}

	c.Cache = cache.NewRedis(cfg.Redis, log)

	pgCategories := repository.NewPostgresCategoryRepository(db, log)
	c.Categories = repository.NewCachedCategoryRepository(pgCategories, c.Cache, cfg.Redis.TTL, log)

	pgLocations := repository.NewPostgresLocationRepository(db)
	var locations repository.LocationRepository = pgLocations
	if cfg.Elasticsearch.Enabled {
		es, err := search.NewClient(cfg.Elasticsearch)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Search = es
		locations = search.NewLocationRepository(es, pgLocations, cfg.Elasticsearch.Index)
		log.Info("using elasticsearch for location lookups", map[string]interface{}{
			"index": cfg.Elasticsearch.Index,
		})
	}

	c.Matching = usecase.NewVacancyMatchingUsecase(
		repository.NewPostgresCandidateRepository(db),
		locations,
		c.Categories,
		usecase.MatchSettingsFromConfig(cfg.Matching),
		log,
	)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
