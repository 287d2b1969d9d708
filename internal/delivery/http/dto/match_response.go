package dto

import "vacancy-match/internal/domain/matching"

type VacancyResponse struct {
	VacancyID  string  `json:"vacancy_id"`
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	BranchName string  `json:"branch_name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

type MatchFactorsResponse struct {
	LocationScore   float64 `json:"location_score"`
	CategoryScore   float64 `json:"category_score"`
	ExperienceScore float64 `json:"experience_score"`
	SkillsScore     float64 `json:"skills_score"`
	OverallScore    int     `json:"overall_score"`
}

type CategoryMatchResponse struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	CategoryPath string  `json:"category_path"`
	MatchType    string  `json:"match_type"`
	MatchScore   float64 `json:"match_score"`
}

type MatchResultResponse struct {
	Vacancy         VacancyResponse         `json:"vacancy"`
	Score           int                     `json:"score"`
	Color           string                  `json:"color"`
	Percentage      string                  `json:"percentage"`
	MatchFactors    *MatchFactorsResponse   `json:"match_factors,omitempty"`
	CategoryMatches []CategoryMatchResponse `json:"category_matches"`
	MatchReasons    []string                `json:"match_reasons"`
}

type TopCategoryResponse struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
}

type MatchStatisticsResponse struct {
	TotalMatches      int                   `json:"total_matches"`
	AverageScore      int                   `json:"average_score"`
	CategoryBreakdown map[string]int        `json:"category_breakdown"`
	TopCategories     []TopCategoryResponse `json:"top_categories"`
}

func NewMatchResultResponses(results []matching.MatchResult) []MatchResultResponse {
	out := make([]MatchResultResponse, 0, len(results))
	for _, r := range results {
		item := MatchResultResponse{
			Vacancy: VacancyResponse{
				VacancyID:  r.Vacancy.ID,
				Title:      r.Vacancy.Title,
				Company:    r.Vacancy.Company,
				BranchName: r.Vacancy.BranchName,
				Lat:        r.Vacancy.Lat,
				Lng:        r.Vacancy.Lng,
			},
			Score:           r.Score,
			Color:           string(r.Color),
			Percentage:      r.Percentage,
			CategoryMatches: make([]CategoryMatchResponse, 0, len(r.CategoryMatches)),
			MatchReasons:    make([]string, 0, len(r.MatchReasons)),
		}
		if f := r.MatchFactors; f != nil {
			item.MatchFactors = &MatchFactorsResponse{
				LocationScore:   f.LocationScore,
				CategoryScore:   f.CategoryScore,
				ExperienceScore: f.ExperienceScore,
				SkillsScore:     f.SkillsScore,
				OverallScore:    f.OverallScore,
			}
		}
		for _, cm := range r.CategoryMatches {
			item.CategoryMatches = append(item.CategoryMatches, CategoryMatchResponse{
				CategoryID:   cm.CategoryID,
				CategoryName: cm.CategoryName,
				CategoryPath: cm.CategoryPath,
				MatchType:    string(cm.MatchType),
				MatchScore:   cm.MatchScore,
			})
		}
		item.MatchReasons = append(item.MatchReasons, r.MatchReasons...)
		out = append(out, item)
	}
	return out
}

func NewMatchStatisticsResponse(s matching.Statistics) MatchStatisticsResponse {
	out := MatchStatisticsResponse{
		TotalMatches:      s.TotalMatches,
		AverageScore:      s.AverageScore,
		CategoryBreakdown: s.CategoryBreakdown,
		TopCategories:     make([]TopCategoryResponse, 0, len(s.TopCategories)),
	}
	if out.CategoryBreakdown == nil {
		out.CategoryBreakdown = map[string]int{}
	}
	for _, tc := range s.TopCategories {
		out.TopCategories = append(out.TopCategories, TopCategoryResponse{
			CategoryID:   tc.CategoryID,
			CategoryName: tc.CategoryName,
			Count:        tc.Count,
		})
	}
	return out
}

// MatchSearchRequest is the body of a match search.
type MatchSearchRequest struct {
	RadiusKm               *float64 `json:"radiusKm"`
	CategoryIDs            []string `json:"categoryIds"`
	IncludeHierarchical    bool     `json:"includeHierarchical"`
	MinCategoryScore       *float64 `json:"minCategoryScore"`
	EnableDetailedMatching bool     `json:"enableDetailedMatching"`
}
