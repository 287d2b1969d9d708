package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithCategories(score int, cats ...string) MatchResult {
	r := MatchResult{Score: score}
	for _, c := range cats {
		r.CategoryMatches = append(r.CategoryMatches, CategoryMatch{CategoryID: c, CategoryName: "Name " + c})
	}
	return r
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)
	assert.Equal(t, 0, stats.TotalMatches)
	assert.Equal(t, 0, stats.AverageScore)
	assert.Empty(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.TopCategories)
}

func TestAggregate_AverageIsRounded(t *testing.T) {
	stats := Aggregate([]MatchResult{{Score: 90}, {Score: 71}})
	assert.Equal(t, 2, stats.TotalMatches)
	assert.Equal(t, 81, stats.AverageScore)
	assert.Empty(t, stats.CategoryBreakdown)
}

func TestAggregate_CategoryBreakdown(t *testing.T) {
	results := []MatchResult{
		resultWithCategories(90, "react", "frontend"),
		resultWithCategories(70, "frontend", "frontend"),
		resultWithCategories(50, "go"),
		resultWithCategories(40, "go", "sql", "k8s", "aws"),
	}
	results[0].CategoryMatches[0].CategoryName = "React"

	stats := Aggregate(results)

	assert.Equal(t, 4, stats.TotalMatches)
	assert.Equal(t, 63, stats.AverageScore)
	assert.Equal(t, map[string]int{
		"react":    1,
		"frontend": 2,
		"go":       2,
		"sql":      1,
		"k8s":      1,
		"aws":      1,
	}, stats.CategoryBreakdown)

	require.Len(t, stats.TopCategories, 5)
	assert.Equal(t, "frontend", stats.TopCategories[0].CategoryID)
	assert.Equal(t, 2, stats.TopCategories[0].Count)
	assert.Equal(t, "go", stats.TopCategories[1].CategoryID)
	assert.Equal(t, "react", stats.TopCategories[2].CategoryID)
	assert.Equal(t, "React", stats.TopCategories[2].CategoryName)
	assert.Equal(t, "sql", stats.TopCategories[3].CategoryID)
	assert.Equal(t, "k8s", stats.TopCategories[4].CategoryID)
}
