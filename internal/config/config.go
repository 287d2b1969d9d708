package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Elasticsearch ElasticsearchConfig
	Matching      MatchingConfig
	Logging       LoggingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ApplicationName string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	RunMigrations bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
	Index     string
}

type MatchingConfig struct {
	DefaultRadiusKm float64
	Workers         int
	Timeout         time.Duration

	WeightLocation   float64
	WeightCategory   float64
	WeightExperience float64
	WeightSkills     float64
}

type LoggingConfig struct {
	Level  string
	Format string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_RUN_MIGRATIONS", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "600s")

	v.SetDefault("ES_ENABLED", false)
	v.SetDefault("ES_ADDRESSES", "http://localhost:9200")
	v.SetDefault("ES_INDEX", "vacancies")

	v.SetDefault("MATCH_DEFAULT_RADIUS_KM", 10.0)
	v.SetDefault("MATCH_WORKERS", 8)
	v.SetDefault("MATCH_TIMEOUT", "10s")
	v.SetDefault("MATCH_WEIGHT_LOCATION", 0.3)
	v.SetDefault("MATCH_WEIGHT_CATEGORY", 0.4)
	v.SetDefault("MATCH_WEIGHT_EXPERIENCE", 0.2)
	v.SetDefault("MATCH_WEIGHT_SKILLS", 0.1)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		val := strings.TrimSpace(v.GetString(key))
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: opt("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     req("DB_PORT"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ApplicationName: v.GetString("APP_NAME"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),

		RunMigrations: v.GetBool("DB_RUN_MIGRATIONS"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.Elasticsearch = ElasticsearchConfig{
		Enabled:   v.GetBool("ES_ENABLED"),
		Addresses: splitList(opt("ES_ADDRESSES")),
		Username:  opt("ES_USERNAME"),
		Password:  opt("ES_PASSWORD"),
		Index:     opt("ES_INDEX"),
	}

	cfg.Matching = MatchingConfig{
		DefaultRadiusKm:  v.GetFloat64("MATCH_DEFAULT_RADIUS_KM"),
		Workers:          v.GetInt("MATCH_WORKERS"),
		Timeout:          v.GetDuration("MATCH_TIMEOUT"),
		WeightLocation:   v.GetFloat64("MATCH_WEIGHT_LOCATION"),
		WeightCategory:   v.GetFloat64("MATCH_WEIGHT_CATEGORY"),
		WeightExperience: v.GetFloat64("MATCH_WEIGHT_EXPERIENCE"),
		WeightSkills:     v.GetFloat64("MATCH_WEIGHT_SKILLS"),
	}

	cfg.Logging = LoggingConfig{
		Level:  strings.ToLower(opt("LOG_LEVEL")),
		Format: strings.ToLower(opt("LOG_FORMAT")),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) == 0 {
		return Config{}, fmt.Errorf("%w: ES_ADDRESSES", errMissingRequiredEnv)
	}
	if cfg.Matching.DefaultRadiusKm <= 0 {
		return Config{}, fmt.Errorf("invalid MATCH_DEFAULT_RADIUS_KM: %v", cfg.Matching.DefaultRadiusKm)
	}

	return cfg, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
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
