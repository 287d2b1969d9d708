package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vacancy-match/internal/domain/candidate"
	"vacancy-match/internal/domain/category"
	"vacancy-match/internal/domain/matching"
	"vacancy-match/internal/domain/vacancy"
	"vacancy-match/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCandidateRepo struct {
	prefs *candidate.Preferences
	err   error

	sawDeadline bool
}

func (f *fakeCandidateRepo) FindByID(ctx context.Context, _ string) (*candidate.Preferences, error) {
	_, f.sawDeadline = ctx.Deadline()
	return f.prefs, f.err
}

type fakeLocationRepo struct {
	items []vacancy.Vacancy
	err   error

	calls     int
	gotRadius float64
}

func (f *fakeLocationRepo) NearbyVacancies(_ context.Context, _ string, radiusKm float64) ([]vacancy.Vacancy, error) {
	f.calls++
	f.gotRadius = radiusKm
	if f.err != nil {
		return nil, f.err
	}
	out := make([]vacancy.Vacancy, len(f.items))
	copy(out, f.items)
	return out, nil
}

type fakeCategoryRepo struct {
	byID       map[string]*category.Category
	byVacancy  map[string][]category.Category
	vacancyErr map[string]error
	tagged     []vacancy.Vacancy
	taggedErr  error

	mu            sync.Mutex
	vacancyCalls  int
	narrowID      string
	narrowDescend bool
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, id string) (*category.Category, error) {
	return f.byID[id], nil
}

func (f *fakeCategoryRepo) FindByVacancyID(_ context.Context, vacancyID string) ([]category.Category, error) {
	f.mu.Lock()
	f.vacancyCalls++
	f.mu.Unlock()
	if err := f.vacancyErr[vacancyID]; err != nil {
		return nil, err
	}
	return f.byVacancy[vacancyID], nil
}

func (f *fakeCategoryRepo) FindVacanciesByCategory(_ context.Context, id string, includeDescendants bool) ([]vacancy.Vacancy, error) {
	f.narrowID = id
	f.narrowDescend = includeDescendants
	return f.tagged, f.taggedErr
}

func score(f float64) *float64 { return &f }

func cat(path ...string) category.Category {
	c := category.Category{ID: path[len(path)-1], Name: "Name " + path[len(path)-1], Path: path, Level: len(path) - 1}
	if len(path) > 1 {
		p := path[len(path)-2]
		c.ParentID = &p
	}
	return c
}

func testSettings() MatchSettings {
	return MatchSettings{DefaultRadiusKm: 10, Workers: 4, Timeout: time.Second, Weights: matching.DefaultWeights()}
}

func newTestUsecase(t *testing.T, c *fakeCandidateRepo, l *fakeLocationRepo, cats *fakeCategoryRepo) *VacancyMatching {
	if cats == nil {
		cats = &fakeCategoryRepo{}
	}
	return NewVacancyMatchingUsecase(c, l, cats, testSettings(), logger.NewTestLogger(t))
}

func ids(results []matching.MatchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Vacancy.ID)
	}
	return out
}

func TestFindMatches_AbsentCandidate(t *testing.T) {
	loc := &fakeLocationRepo{items: []vacancy.Vacancy{{ID: "v1"}}}
	uc := newTestUsecase(t, &fakeCandidateRepo{}, loc, nil)

	res, err := uc.FindMatches(context.Background(), "ghost", MatchFilters{})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
	assert.Equal(t, 0, loc.calls)
}

func TestFindMatches_CandidateLookupFailure(t *testing.T) {
	uc := newTestUsecase(t, &fakeCandidateRepo{err: errors.New("db down")}, &fakeLocationRepo{}, nil)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestFindMatches_LocationFailure(t *testing.T) {
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1"}},
		&fakeLocationRepo{err: errors.New("geo down")},
		nil,
	)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestFindMatches_BasicModeUsesLocationOnly(t *testing.T) {
	cats := &fakeCategoryRepo{}
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1"}},
		&fakeLocationRepo{items: []vacancy.Vacancy{
			{ID: "a", MatchScore: score(60)},
			{ID: "b", MatchScore: score(95.4)},
			{ID: "c"},
			{ID: "d", MatchScore: score(60)},
		}},
		cats,
	)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(res))
	assert.Equal(t, 95, res[0].Score)
	assert.Equal(t, matching.ColorGreen, res[0].Color)
	assert.Equal(t, 80, res[1].Score)
	assert.Equal(t, matching.ColorYellow, res[1].Color)
	assert.Equal(t, matching.ColorRed, res[2].Color)
	assert.Nil(t, res[0].MatchFactors)
	assert.Equal(t, 0, cats.vacancyCalls)
}

func TestFindMatches_DetailedParentMatch(t *testing.T) {
	frontend := cat("tech", "frontend")
	cats := &fakeCategoryRepo{
		byID: map[string]*category.Category{"frontend": &frontend},
		byVacancy: map[string][]category.Category{
			"v1": {cat("tech", "frontend", "react")},
		},
	}
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{
			CandidateID:         "c1",
			PreferredCategories: []string{"frontend"},
			Experience:          []string{"Node.js developer"},
		}},
		&fakeLocationRepo{items: []vacancy.Vacancy{
			{ID: "v1", MatchScore: score(80), Requirements: []string{"node.js"}},
		}},
		cats,
	)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{EnableDetailedMatching: true})
	require.NoError(t, err)
	require.Len(t, res, 1)

	f := res[0].MatchFactors
	require.NotNil(t, f)
	assert.InDelta(t, 80.0, f.CategoryScore, 1e-9)
	assert.Equal(t, 100.0, f.ExperienceScore)
	assert.Equal(t, matching.NeutralTextScore, f.SkillsScore)
	// 80*0.3 + 80*0.4 + 100*0.2 + 50*0.1
	assert.Equal(t, 81, res[0].Score)
	require.Len(t, res[0].CategoryMatches, 1)
	assert.Equal(t, matching.MatchParent, res[0].CategoryMatches[0].MatchType)
	assert.Equal(t, []string{matching.ReasonCategory, matching.ReasonExperience}, res[0].MatchReasons)
}

func TestFindMatches_CandidateWeightsOverrideDefaults(t *testing.T) {
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{
			CandidateID:  "c1",
			MatchWeights: &matching.Weights{Location: 1},
		}},
		&fakeLocationRepo{items: []vacancy.Vacancy{{ID: "v1", MatchScore: score(64)}}},
		&fakeCategoryRepo{},
	)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{EnableDetailedMatching: true})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 64, res[0].Score)
}

func TestFindMatches_UnresolvedPreferredCategoryStillMatchesExact(t *testing.T) {
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1", PreferredCategories: []string{"react"}}},
		&fakeLocationRepo{items: []vacancy.Vacancy{{ID: "v1", MatchScore: score(50)}}},
		&fakeCategoryRepo{byVacancy: map[string][]category.Category{"v1": {cat("tech", "frontend", "react")}}},
	)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{EnableDetailedMatching: true})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 100.0, res[0].MatchFactors.CategoryScore)
}

func TestFindMatches_NarrowsByFirstCategoryOnly(t *testing.T) {
	cats := &fakeCategoryRepo{tagged: []vacancy.Vacancy{{ID: "v2"}, {ID: "elsewhere"}}}
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1"}},
		&fakeLocationRepo{items: []vacancy.Vacancy{
			{ID: "v1", MatchScore: score(90)},
			{ID: "v2", MatchScore: score(70)},
		}},
		cats,
	)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{
		CategoryIDs:         []string{"frontend", "backend"},
		IncludeHierarchical: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, ids(res))
	assert.Equal(t, 70, res[0].Score)
	assert.Equal(t, "frontend", cats.narrowID)
	assert.True(t, cats.narrowDescend)
}

func TestFindMatches_NarrowingFailureKeepsList(t *testing.T) {
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1"}},
		&fakeLocationRepo{items: []vacancy.Vacancy{{ID: "v1"}, {ID: "v2"}}},
		&fakeCategoryRepo{taggedErr: errors.New("boom")},
	)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{CategoryIDs: []string{"frontend"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, ids(res))
}

func TestFindMatches_MinCategoryScore(t *testing.T) {
	frontend := cat("tech", "frontend")
	cats := &fakeCategoryRepo{
		byID: map[string]*category.Category{"frontend": &frontend},
		byVacancy: map[string][]category.Category{
			"match": {frontend},
			"none":  {cat("sales", "b2b")},
		},
	}
	prefs := &candidate.Preferences{CandidateID: "c1", PreferredCategories: []string{"frontend"}}
	loc := &fakeLocationRepo{items: []vacancy.Vacancy{{ID: "none"}, {ID: "match"}}}
	uc := newTestUsecase(t, &fakeCandidateRepo{prefs: prefs}, loc, cats)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{
		EnableDetailedMatching: true,
		MinCategoryScore:       score(50),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"match"}, ids(res))

	// Without detail there are no factors, so the threshold does not apply.
	res, err = uc.FindMatches(context.Background(), "c1", MatchFilters{MinCategoryScore: score(50)})
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestFindMatches_CategoryFailureDegradesSingleVacancy(t *testing.T) {
	frontend := cat("tech", "frontend")
	cats := &fakeCategoryRepo{
		byID:       map[string]*category.Category{"frontend": &frontend},
		byVacancy:  map[string][]category.Category{"ok": {frontend}},
		vacancyErr: map[string]error{"broken": errors.New("timeout")},
	}
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1", PreferredCategories: []string{"frontend"}}},
		&fakeLocationRepo{items: []vacancy.Vacancy{{ID: "broken"}, {ID: "ok"}}},
		cats,
	)

	res, err := uc.FindMatches(context.Background(), "c1", MatchFilters{EnableDetailedMatching: true})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "ok", res[0].Vacancy.ID)
	assert.Equal(t, 100.0, res[0].MatchFactors.CategoryScore)
	assert.Equal(t, "broken", res[1].Vacancy.ID)
	assert.Equal(t, 0.0, res[1].MatchFactors.CategoryScore)
	assert.Empty(t, res[1].CategoryMatches)
	assert.Equal(t, 2, cats.vacancyCalls)
}

func TestFindMatches_CancelledContextStillReturnsVacancies(t *testing.T) {
	cats := &fakeCategoryRepo{byVacancy: map[string][]category.Category{"v1": {cat("tech")}}}
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1", PreferredCategories: []string{"tech"}}},
		&fakeLocationRepo{items: []vacancy.Vacancy{{ID: "v1", MatchScore: score(90)}}},
		cats,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := uc.FindMatches(ctx, "c1", MatchFilters{EnableDetailedMatching: true})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 0.0, res[0].MatchFactors.CategoryScore)
}

func TestFindMatches_RadiusPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		filter     *float64
		stored     *float64
		wantRadius float64
	}{
		{"filter override", score(3), score(25), 3},
		{"candidate radius", nil, score(25), 25},
		{"default", nil, nil, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := &fakeLocationRepo{}
			uc := newTestUsecase(t,
				&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1", RadiusKm: tt.stored}},
				loc,
				nil,
			)
			_, err := uc.FindMatches(context.Background(), "c1", MatchFilters{RadiusKm: tt.filter})
			require.NoError(t, err)
			assert.Equal(t, tt.wantRadius, loc.gotRadius)
		})
	}
}

func TestFindMatches_InvalidFilters(t *testing.T) {
	uc := newTestUsecase(t, &fakeCandidateRepo{}, &fakeLocationRepo{}, nil)

	_, err := uc.FindMatches(context.Background(), "c1", MatchFilters{RadiusKm: score(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.FindMatches(context.Background(), "c1", MatchFilters{MinCategoryScore: score(101)})
	assert.True(t, IsInvalidInput(err))
}

func TestFindMatches_AppliesTimeoutWhenCallerHasNone(t *testing.T) {
	c := &fakeCandidateRepo{}
	uc := newTestUsecase(t, c, &fakeLocationRepo{}, nil)

	_, err := uc.FindMatches(context.Background(), "c1", MatchFilters{})
	require.NoError(t, err)
	assert.True(t, c.sawDeadline)
}

func TestMatchStatistics(t *testing.T) {
	frontend := cat("tech", "frontend")
	cats := &fakeCategoryRepo{
		byID: map[string]*category.Category{"frontend": &frontend},
		byVacancy: map[string][]category.Category{
			"v1": {frontend},
			"v2": {frontend, cat("tech", "frontend", "react")},
		},
	}
	uc := newTestUsecase(t,
		&fakeCandidateRepo{prefs: &candidate.Preferences{CandidateID: "c1", PreferredCategories: []string{"frontend"}}},
		&fakeLocationRepo{items: []vacancy.Vacancy{{ID: "v1", MatchScore: score(90)}, {ID: "v2", MatchScore: score(90)}, {ID: "v3"}}},
		cats,
	)

	stats, err := uc.MatchStatistics(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalMatches)
	assert.Equal(t, map[string]int{"frontend": 2, "react": 1}, stats.CategoryBreakdown)
	require.Len(t, stats.TopCategories, 2)
	assert.Equal(t, "frontend", stats.TopCategories[0].CategoryID)
	assert.Equal(t, "Name frontend", stats.TopCategories[0].CategoryName)
}

func TestMatchStatistics_AbsentCandidate(t *testing.T) {
	uc := newTestUsecase(t, &fakeCandidateRepo{}, &fakeLocationRepo{}, nil)

	stats, err := uc.MatchStatistics(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalMatches)
	assert.Equal(t, 0, stats.AverageScore)
}
