package matching

import (
	"math"
	"sort"
)

const topCategoryLimit = 5

func Aggregate(results []MatchResult) Statistics {
	stats := Statistics{
		TotalMatches:      len(results),
		CategoryBreakdown: map[string]int{},
		TopCategories:     []CategoryCount{},
	}
	if len(results) == 0 {
		return stats
	}

	sum := 0
	order := make([]string, 0)
	names := map[string]string{}

	for _, r := range results {
		sum += r.Score

		seen := map[string]struct{}{}
		for _, cm := range r.CategoryMatches {
			if _, ok := seen[cm.CategoryID]; ok {
				continue
			}
			seen[cm.CategoryID] = struct{}{}

			if _, ok := names[cm.CategoryID]; !ok {
				names[cm.CategoryID] = cm.CategoryName
				order = append(order, cm.CategoryID)
			}
			stats.CategoryBreakdown[cm.CategoryID]++
		}
	}

	stats.AverageScore = int(math.Round(float64(sum) / float64(len(results))))

	top := make([]CategoryCount, 0, len(order))
	for _, id := range order {
		top = append(top, CategoryCount{
			CategoryID:   id,
			CategoryName: names[id],
			Count:        stats.CategoryBreakdown[id],
		})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > topCategoryLimit {
		top = top[:topCategoryLimit]
	}
	stats.TopCategories = top

	return stats
}
