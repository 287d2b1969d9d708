package candidate

import "vacancy-match/internal/domain/matching"

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Preferences is a candidate profile as seen by the matching engine.
// CategoryWeights is stored but not used by the default scoring.
type Preferences struct {
	CandidateID         string             `json:"candidateId"`
	PreferredCategories []string           `json:"preferredCategories"`
	CategoryWeights     map[string]float64 `json:"categoryWeights,omitempty"`
	MatchWeights        *matching.Weights  `json:"matchWeights,omitempty"`
	Experience          []string           `json:"experience"`
	Skills              []string           `json:"skills"`
	Location            *Location          `json:"location,omitempty"`
	RadiusKm            *float64           `json:"radiusKm,omitempty"`
}
