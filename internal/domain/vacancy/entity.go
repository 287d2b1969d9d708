package vacancy

// Vacancy is the matching view of a vacancy. MatchScore is the location
// affinity computed by the location collaborator; nil means unknown.
type Vacancy struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	BranchName   string   `json:"branchName"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	MatchScore   *float64 `json:"matchScore,omitempty"`
	Requirements []string `json:"requirements"`
	Skills       []string `json:"skills"`
}
