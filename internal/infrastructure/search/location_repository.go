package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vacancy-match/internal/domain/vacancy"
	"vacancy-match/internal/pkg/geo"
	"vacancy-match/internal/repository"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const defaultMaxHits = 500

var (
	ErrSearchFailed = errors.New("vacancy search failed")
	ErrIndexMissing = errors.New("vacancy index not found")
)

// LocationRepository finds nearby vacancies with an Elasticsearch
// geo_distance query. Candidate coordinates come from the locator.
type LocationRepository struct {
	client  *elasticsearch.Client
	locator repository.CandidateLocator
	index   string
	maxHits int
}

func NewLocationRepository(client *elasticsearch.Client, locator repository.CandidateLocator, index string) *LocationRepository {
	if strings.TrimSpace(index) == "" {
		index = "vacancies"
	}
	return &LocationRepository{
		client:  client,
		locator: locator,
		index:   index,
		maxHits: defaultMaxHits,
	}
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type vacancyDocument struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	BranchName   string   `json:"branchName"`
	Location     geoPoint `json:"location"`
	Requirements []string `json:"requirements"`
	Skills       []string `json:"skills"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source vacancyDocument `json:"_source"`
			Sort   []float64       `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *LocationRepository) NearbyVacancies(ctx context.Context, candidateID string, radiusKm float64) ([]vacancy.Vacancy, error) {
	if radiusKm <= 0 {
		return []vacancy.Vacancy{}, nil
	}

	loc, err := r.locator.FindLocation(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(buildNearbyQuery(geoPoint{Lat: loc.Lat, Lon: loc.Lng}, radiusKm))
	if err != nil {
		return nil, err
	}

	size := r.maxHits
	res, err := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, fmt.Errorf("%w: %s", ErrIndexMissing, r.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	center := geo.Point{Lat: loc.Lat, Lng: loc.Lng}
	out := make([]vacancy.Vacancy, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		doc := h.Source
		v := vacancy.Vacancy{
			ID:           doc.ID,
			Title:        doc.Title,
			Company:      doc.Company,
			BranchName:   doc.BranchName,
			Lat:          doc.Location.Lat,
			Lng:          doc.Location.Lon,
			Requirements: nonNil(doc.Requirements),
			Skills:       nonNil(doc.Skills),
		}
		if v.ID == "" {
			v.ID = h.ID
		}

		dist := geo.DistanceKm(center, geo.Point{Lat: v.Lat, Lng: v.Lng})
		if len(h.Sort) > 0 {
			dist = h.Sort[0]
		}
		score := geo.Affinity(dist, radiusKm)
		v.MatchScore = &score
		out = append(out, v)
	}
	return out, nil
}

func buildNearbyQuery(center geoPoint, radiusKm float64) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"isActive": true},
					},
					map[string]interface{}{
						"geo_distance": map[string]interface{}{
							"distance": fmt.Sprintf("%gkm", radiusKm),
							"location": center,
						},
					},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{
				"_geo_distance": map[string]interface{}{
					"location": center,
					"order":    "asc",
					"unit":     "km",
				},
			},
		},
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
