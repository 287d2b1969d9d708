package repository

import (
	"context"
	"errors"
	"testing"

	"vacancy-match/internal/database/postgres"
	"vacancy-match/internal/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*postgres.SQLDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.Wrap(db), mock
}

var (
	candidateColumns = []string{"lat", "lng", "radius_km", "experience", "skills", "match_weights", "category_weights"}
	categoryColumns  = []string{"id", "name", "path", "level", "parent_id"}
	vacancyColumns   = []string{"id", "title", "company", "branch_name", "lat", "lng", "requirements", "skills"}
)

func TestCandidateRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresCandidateRepository(db)

	mock.ExpectQuery("FROM candidates").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(candidateColumns).AddRow(
			-6.2, 106.8, 15.0,
			[]byte(`["Node.js developer", " "]`),
			[]byte(`["React"]`),
			[]byte(`{"location":1,"category":0,"experience":0,"skills":0}`),
			nil,
		))
	mock.ExpectQuery("FROM candidate_preferred_categories").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"category_id"}).AddRow("frontend").AddRow("react"))

	p, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "c1", p.CandidateID)
	require.NotNil(t, p.Location)
	assert.Equal(t, -6.2, p.Location.Lat)
	require.NotNil(t, p.RadiusKm)
	assert.Equal(t, 15.0, *p.RadiusKm)
	assert.Equal(t, []string{"Node.js developer"}, p.Experience)
	assert.Equal(t, []string{"React"}, p.Skills)
	require.NotNil(t, p.MatchWeights)
	assert.Equal(t, 1.0, p.MatchWeights.Location)
	assert.Nil(t, p.CategoryWeights)
	assert.Equal(t, []string{"frontend", "react"}, p.PreferredCategories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresCandidateRepository(db)

	mock.ExpectQuery("FROM candidates").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(candidateColumns))

	p, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepository_FindByID_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresCandidateRepository(db)

	mock.ExpectQuery("FROM candidates").WillReturnError(errors.New("boom"))

	_, err := repo.FindByID(context.Background(), "c1")
	assert.Error(t, err)
}

func TestCategoryRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresCategoryRepository(db, logger.NewTestLogger(t))

	mock.ExpectQuery("FROM categories").
		WithArgs("react").
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow("react", "React", []byte(`["tech","frontend","react"]`), 2, "frontend"))

	c, err := repo.FindByID(context.Background(), "react")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "tech.frontend.react", c.PathKey())
	require.NotNil(t, c.ParentID)
	assert.Equal(t, "frontend", *c.ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresCategoryRepository(db, logger.NewTestLogger(t))

	mock.ExpectQuery("FROM categories").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(categoryColumns))

	c, err := repo.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCategoryRepository_FindByVacancyID_DropsMalformed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresCategoryRepository(db, logger.NewTestLogger(t))

	mock.ExpectQuery("FROM vacancy_categories").
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow("tech", "Tech", []byte(`["tech"]`), 0, nil).
			AddRow("broken", "Broken", []byte(`[]`), 0, nil).
			AddRow("frontend", "Frontend", []byte(`["tech","frontend"]`), 1, "tech"))

	cats, err := repo.FindByVacancyID(context.Background(), "v1")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "tech", cats[0].ID)
	assert.True(t, cats[0].IsRoot())
	assert.Equal(t, "frontend", cats[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_FindVacanciesByCategory(t *testing.T) {
	tests := []struct {
		name        string
		descendants bool
		wantQuery   string
	}{
		{"direct", false, `vc\.category_id = \$1`},
		{"descendants", true, `c\.path @> jsonb_build_array\(\$1::text\)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewPostgresCategoryRepository(db, logger.NewTestLogger(t))

			mock.ExpectQuery(tt.wantQuery).
				WithArgs("frontend").
				WillReturnRows(sqlmock.NewRows(vacancyColumns).
					AddRow("v1", "Frontend Dev", "Acme", nil, 1.0, 2.0, []byte(`["react"]`), nil))

			vs, err := repo.FindVacanciesByCategory(context.Background(), "frontend", tt.descendants)
			require.NoError(t, err)
			require.Len(t, vs, 1)
			assert.Equal(t, "Acme", vs[0].Company)
			assert.Equal(t, "", vs[0].BranchName)
			assert.Equal(t, []string{"react"}, vs[0].Requirements)
			assert.Equal(t, []string{}, vs[0].Skills)
			assert.Nil(t, vs[0].MatchScore)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLocationRepository_NearbyVacancies(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresLocationRepository(db)

	mock.ExpectQuery("SELECT lat, lng FROM candidates").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"lat", "lng"}).AddRow(52.52, 13.405))
	mock.ExpectQuery("FROM vacancies").
		WillReturnRows(sqlmock.NewRows(vacancyColumns).
			AddRow("far", "Far", "", "", 52.60, 13.405, nil, nil).
			AddRow("here", "Here", "", "", 52.52, 13.405, nil, nil).
			AddRow("outside", "Outside", "", "", 52.61, 13.55, nil, nil))

	vs, err := repo.NearbyVacancies(context.Background(), "c1", 10)
	require.NoError(t, err)
	require.Len(t, vs, 2)

	assert.Equal(t, "here", vs[0].ID)
	require.NotNil(t, vs[0].MatchScore)
	assert.Equal(t, 100.0, *vs[0].MatchScore)

	assert.Equal(t, "far", vs[1].ID)
	require.NotNil(t, vs[1].MatchScore)
	assert.InDelta(t, 55.5, *vs[1].MatchScore, 0.5)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepository_UnknownLocation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresLocationRepository(db)

	mock.ExpectQuery("SELECT lat, lng FROM candidates").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"lat", "lng"}).AddRow(nil, nil))

	_, err := repo.NearbyVacancies(context.Background(), "c1", 10)
	assert.ErrorIs(t, err, ErrLocationUnknown)
}

func TestLocationRepository_CandidateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresLocationRepository(db)

	mock.ExpectQuery("SELECT lat, lng FROM candidates").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"lat", "lng"}))

	_, err := repo.NearbyVacancies(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestLocationRepository_NonPositiveRadius(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresLocationRepository(db)

	vs, err := repo.NearbyVacancies(context.Background(), "c1", 0)
	require.NoError(t, err)
	assert.Empty(t, vs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
