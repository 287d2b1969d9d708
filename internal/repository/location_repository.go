package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"vacancy-match/internal/database"
	"vacancy-match/internal/domain/candidate"
	"vacancy-match/internal/domain/vacancy"
	"vacancy-match/internal/pkg/geo"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrLocationUnknown   = errors.New("candidate location unknown")
)

type LocationRepository interface {
	// NearbyVacancies returns active vacancies within radiusKm of the
	// candidate, nearest first, with MatchScore set to the location affinity.
	NearbyVacancies(ctx context.Context, candidateID string, radiusKm float64) ([]vacancy.Vacancy, error)
}

// CandidateLocator resolves where a candidate is.
type CandidateLocator interface {
	FindLocation(ctx context.Context, candidateID string) (candidate.Location, error)
}

type PostgresLocationRepository struct {
	db database.DB
}

func NewPostgresLocationRepository(db database.DB) *PostgresLocationRepository {
	return &PostgresLocationRepository{db: db}
}

func (r *PostgresLocationRepository) FindLocation(ctx context.Context, candidateID string) (candidate.Location, error) {
	var lat, lng *float64
	row := r.db.QueryRow(ctx, `SELECT lat, lng FROM candidates WHERE id = $1`, strings.TrimSpace(candidateID))
	if err := row.Scan(&lat, &lng); err != nil {
		if database.IsNoRows(err) {
			return candidate.Location{}, ErrCandidateNotFound
		}
		return candidate.Location{}, err
	}
	if lat == nil || lng == nil {
		return candidate.Location{}, ErrLocationUnknown
	}
	return candidate.Location{Lat: *lat, Lng: *lng}, nil
}

func (r *PostgresLocationRepository) NearbyVacancies(ctx context.Context, candidateID string, radiusKm float64) ([]vacancy.Vacancy, error) {
	if radiusKm <= 0 {
		return []vacancy.Vacancy{}, nil
	}

	loc, err := r.FindLocation(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	center := geo.Point{Lat: loc.Lat, Lng: loc.Lng}
	box := geo.BoundingBox(center, radiusKm)

	rows, err := r.db.Query(ctx,
		`SELECT id, title, company, branch_name, lat, lng, requirements, skills
		 FROM vacancies
		 WHERE is_active = true
		   AND lat BETWEEN $1 AND $2
		   AND lng BETWEEN $3 AND $4`,
		box.MinLat, box.MaxLat, box.MinLng, box.MaxLng,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type hit struct {
		v    vacancy.Vacancy
		dist float64
	}
	hits := make([]hit, 0)
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		d := geo.DistanceKm(center, geo.Point{Lat: v.Lat, Lng: v.Lng})
		if d > radiusKm {
			continue
		}
		score := geo.Affinity(d, radiusKm)
		v.MatchScore = &score
		hits = append(hits, hit{v: v, dist: d})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].dist < hits[j].dist
	})

	out := make([]vacancy.Vacancy, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.v)
	}
	return out, nil
}
