package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vacancy-match/internal/database"
	"vacancy-match/internal/domain/candidate"
	"vacancy-match/internal/domain/matching"
)

type CandidateRepository interface {
	// FindByID returns nil without error when the candidate does not exist.
	FindByID(ctx context.Context, candidateID string) (*candidate.Preferences, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) FindByID(ctx context.Context, candidateID string) (*candidate.Preferences, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, nil
	}

	var (
		lat, lng, radius       *float64
		experienceRaw          []byte
		skillsRaw              []byte
		weightsRaw, catWeights []byte
	)
	row := r.db.QueryRow(ctx,
		`SELECT lat, lng, radius_km, experience, skills, match_weights, category_weights
		 FROM candidates
		 WHERE id = $1`,
		candidateID,
	)
	if err := row.Scan(&lat, &lng, &radius, &experienceRaw, &skillsRaw, &weightsRaw, &catWeights); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	p := &candidate.Preferences{
		CandidateID: candidateID,
		RadiusKm:    radius,
	}
	if lat != nil && lng != nil {
		p.Location = &candidate.Location{Lat: *lat, Lng: *lng}
	}

	var err error
	if p.Experience, err = decodeStringList(experienceRaw); err != nil {
		return nil, fmt.Errorf("decode experience: %w", err)
	}
	if p.Skills, err = decodeStringList(skillsRaw); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	if len(weightsRaw) > 0 && string(weightsRaw) != "null" {
		var w matching.Weights
		if err := json.Unmarshal(weightsRaw, &w); err != nil {
			return nil, fmt.Errorf("decode match weights: %w", err)
		}
		p.MatchWeights = &w
	}
	if len(catWeights) > 0 && string(catWeights) != "null" {
		if err := json.Unmarshal(catWeights, &p.CategoryWeights); err != nil {
			return nil, fmt.Errorf("decode category weights: %w", err)
		}
	}

	rows, err := r.db.Query(ctx,
		`SELECT category_id
		 FROM candidate_preferred_categories
		 WHERE candidate_id = $1
		 ORDER BY category_id ASC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.PreferredCategories = make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		p.PreferredCategories = append(p.PreferredCategories, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

// decodeStringList decodes a JSON array of strings. NULL and blank entries
// are dropped so scorers only ever see usable text.
func decodeStringList(raw []byte) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
