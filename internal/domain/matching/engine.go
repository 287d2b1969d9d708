package matching

import (
	"math"
	"sort"
	"strings"

	"vacancy-match/internal/domain/category"
	"vacancy-match/internal/domain/vacancy"
)

const (
	DefaultLocationScore = 80.0
	NeutralTextScore     = 50.0

	weightExact   = 1.0
	weightParent  = 0.7
	weightChild   = 0.8
	weightSibling = 0.5

	bonusPerMatch = 0.1
	bonusCap      = 0.3

	greenThreshold  = 90
	yellowThreshold = 70
)

const (
	ReasonCategory   = "Strong category match"
	ReasonLocation   = "Excellent location match"
	ReasonExperience = "Relevant experience"
	ReasonSkills     = "Matching skills"
)

// Input is everything needed to score one vacancy for one candidate.
type Input struct {
	Vacancy             vacancy.Vacancy
	VacancyCategories   []category.Category
	PreferredCategories []category.Category
	Experience          []string
	Skills              []string
}

// Evaluate scores a single vacancy. Without detail only the location score
// is computed and it becomes the result score.
func Evaluate(in Input, w Weights, detailed bool) MatchResult {
	loc := LocationScore(in.Vacancy)

	res := MatchResult{Vacancy: Summarize(in.Vacancy)}
	if !detailed {
		res.Score = int(math.Round(loc))
		res.Color, res.Percentage = Bucket(res.Score)
		return res
	}

	catScore, catMatches := CategoryScore(in.PreferredCategories, in.VacancyCategories)
	f := Factors{
		LocationScore:   loc,
		CategoryScore:   catScore,
		ExperienceScore: ExperienceScore(in.Experience, in.Vacancy.Requirements),
		SkillsScore:     SkillsScore(in.Skills, in.Vacancy.Skills),
	}
	f.OverallScore = OverallScore(f, w)

	res.Score = f.OverallScore
	res.Color, res.Percentage = Bucket(res.Score)
	res.MatchFactors = &f
	res.CategoryMatches = catMatches
	res.MatchReasons = Reasons(f)
	return res
}

func LocationScore(v vacancy.Vacancy) float64 {
	if v.MatchScore == nil {
		return DefaultLocationScore
	}
	s := *v.MatchScore
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return DefaultLocationScore
	}
	return s
}

// CategoryScore compares every preferred category with every vacancy
// category. The strongest relationship dominates and each additional match
// adds a small bonus.
func CategoryScore(preferred, vacancyCats []category.Category) (float64, []CategoryMatch) {
	matches := make([]CategoryMatch, 0)
	best := 0.0

	for _, pc := range preferred {
		for _, vc := range vacancyCats {
			mt, weight, ok := relate(pc, vc)
			if !ok {
				continue
			}
			matches = append(matches, CategoryMatch{
				CategoryID:   vc.ID,
				CategoryName: vc.Name,
				CategoryPath: vc.PathKey(),
				MatchType:    mt,
				MatchScore:   weight,
			})
			if weight > best {
				best = weight
			}
		}
	}

	if len(matches) == 0 {
		return 0, matches
	}

	bonus := math.Min(float64(len(matches))*bonusPerMatch, bonusCap)
	return math.Min(best+bonus, 1.0) * 100, matches
}

func relate(pc, vc category.Category) (MatchType, float64, bool) {
	if pc.ID != "" && pc.ID == vc.ID {
		return MatchExact, weightExact, true
	}
	switch category.Resolve(pc, vc) {
	case category.RelationParent:
		return MatchParent, weightParent, true
	case category.RelationChild:
		return MatchChild, weightChild, true
	case category.RelationSibling:
		return MatchSibling, weightSibling, true
	case category.RelationNone:
		return "", 0, false
	default:
		return "", 0, false
	}
}

func ExperienceScore(experience, requirements []string) float64 {
	return textOverlapScore(experience, requirements)
}

func SkillsScore(candidateSkills, vacancySkills []string) float64 {
	return textOverlapScore(candidateSkills, vacancySkills)
}

// textOverlapScore is the share of wanted entries that contain, or are
// contained by, any of the offered entries, ignoring case.
func textOverlapScore(offered, wanted []string) float64 {
	if len(offered) == 0 || len(wanted) == 0 {
		return NeutralTextScore
	}

	lowered := make([]string, 0, len(offered))
	for _, o := range offered {
		lowered = append(lowered, strings.ToLower(o))
	}

	matched := 0
	for _, w := range wanted {
		lw := strings.ToLower(w)
		for _, o := range lowered {
			if strings.Contains(lw, o) || strings.Contains(o, lw) {
				matched++
				break
			}
		}
	}

	return math.Min(float64(matched)/float64(len(wanted))*100, 100)
}

func OverallScore(f Factors, w Weights) int {
	total := f.LocationScore*w.Location +
		f.CategoryScore*w.Category +
		f.ExperienceScore*w.Experience +
		f.SkillsScore*w.Skills
	return int(math.Round(total))
}

func Bucket(score int) (Color, string) {
	switch {
	case score >= greenThreshold:
		return ColorGreen, "100%"
	case score >= yellowThreshold:
		return ColorYellow, "80%"
	default:
		return ColorRed, "50%"
	}
}

func Reasons(f Factors) []string {
	reasons := make([]string, 0, 4)
	if f.CategoryScore > 70 {
		reasons = append(reasons, ReasonCategory)
	}
	if f.LocationScore > 80 {
		reasons = append(reasons, ReasonLocation)
	}
	if f.ExperienceScore > 70 {
		reasons = append(reasons, ReasonExperience)
	}
	if f.SkillsScore > 70 {
		reasons = append(reasons, ReasonSkills)
	}
	return reasons
}

// SortResults orders results by score, highest first. Equal scores keep
// their input order.
func SortResults(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
