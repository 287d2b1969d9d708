package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vacancy-match/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// vacancyMapping is the index mapping the location repository relies on.
const vacancyMapping = `{
	"mappings": {
		"properties": {
			"id":           {"type": "keyword"},
			"title":        {"type": "text"},
			"company":      {"type": "keyword"},
			"branchName":   {"type": "keyword"},
			"location":     {"type": "geo_point"},
			"requirements": {"type": "keyword"},
			"skills":       {"type": "keyword"},
			"isActive":     {"type": "boolean"}
		}
	}
}`

func NewClient(cfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return es, nil
}

func Ping(ctx context.Context, es *elasticsearch.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the vacancy index with its geo mapping when it does
// not exist yet. It reports whether the index was created.
func EnsureIndex(ctx context.Context, es *elasticsearch.Client, index string) (bool, error) {
	exists, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, es)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return false, nil
	}

	res, err := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(vacancyMapping),
	}.Do(ctx, es)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return false, fmt.Errorf("%w: create index %s: %s", ErrSearchFailed, index, res.Status())
	}
	return true, nil
}

// ClusterPinger adapts a client to the health check interface.
type ClusterPinger struct {
	Client *elasticsearch.Client
}

func (p ClusterPinger) Ping(ctx context.Context) error {
	return Ping(ctx, p.Client)
}
