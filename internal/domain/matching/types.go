package matching

import "vacancy-match/internal/domain/vacancy"

type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchParent  MatchType = "parent"
	MatchChild   MatchType = "child"
	MatchSibling MatchType = "sibling"
)

type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

// Weights are the factor weights of the overall score. They are applied as
// given and not renormalized.
type Weights struct {
	Location   float64 `json:"location"`
	Category   float64 `json:"category"`
	Experience float64 `json:"experience"`
	Skills     float64 `json:"skills"`
}

func DefaultWeights() Weights {
	return Weights{
		Location:   0.3,
		Category:   0.4,
		Experience: 0.2,
		Skills:     0.1,
	}
}

type CategoryMatch struct {
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	CategoryPath string    `json:"categoryPath"`
	MatchType    MatchType `json:"matchType"`
	MatchScore   float64   `json:"matchScore"`
}

type Factors struct {
	LocationScore   float64 `json:"locationScore"`
	CategoryScore   float64 `json:"categoryScore"`
	ExperienceScore float64 `json:"experienceScore"`
	SkillsScore     float64 `json:"skillsScore"`
	OverallScore    int     `json:"overallScore"`
}

type VacancySummary struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	BranchName string  `json:"branchName"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

func Summarize(v vacancy.Vacancy) VacancySummary {
	return VacancySummary{
		ID:         v.ID,
		Title:      v.Title,
		Company:    v.Company,
		BranchName: v.BranchName,
		Lat:        v.Lat,
		Lng:        v.Lng,
	}
}

type MatchResult struct {
	Vacancy         VacancySummary  `json:"vacancy"`
	Score           int             `json:"score"`
	Color           Color           `json:"color"`
	Percentage      string          `json:"percentage"`
	MatchFactors    *Factors        `json:"matchFactors,omitempty"`
	CategoryMatches []CategoryMatch `json:"categoryMatches,omitempty"`
	MatchReasons    []string        `json:"matchReasons,omitempty"`
}

type CategoryCount struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
}

type Statistics struct {
	TotalMatches      int             `json:"totalMatches"`
	AverageScore      int             `json:"averageScore"`
	CategoryBreakdown map[string]int  `json:"categoryBreakdown"`
	TopCategories     []CategoryCount `json:"topCategories"`
}
