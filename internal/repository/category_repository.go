package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"vacancy-match/internal/database"
	"vacancy-match/internal/domain/category"
	"vacancy-match/internal/domain/vacancy"
	"vacancy-match/internal/logger"
)

type CategoryRepository interface {
	// FindByID returns nil without error when the category does not exist.
	FindByID(ctx context.Context, categoryID string) (*category.Category, error)
	FindByVacancyID(ctx context.Context, vacancyID string) ([]category.Category, error)
	FindVacanciesByCategory(ctx context.Context, categoryID string, includeDescendants bool) ([]vacancy.Vacancy, error)
}

type PostgresCategoryRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPostgresCategoryRepository(db database.DB, log logger.Logger) *PostgresCategoryRepository {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &PostgresCategoryRepository{db: db, log: log}
}

func (r *PostgresCategoryRepository) FindByID(ctx context.Context, categoryID string) (*category.Category, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, nil
	}

	row := r.db.QueryRow(ctx,
		`SELECT id, name, path, level, parent_id
		 FROM categories
		 WHERE id = $1`,
		categoryID,
	)
	c, err := scanCategory(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	if err := category.Validate(c, nil); err != nil {
		r.log.Warn("dropping malformed category", map[string]interface{}{
			"category_id": c.ID,
			"error":       err,
		})
		return nil, nil
	}
	return &c, nil
}

func (r *PostgresCategoryRepository) FindByVacancyID(ctx context.Context, vacancyID string) ([]category.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.name, c.path, c.level, c.parent_id
		 FROM vacancy_categories vc
		 JOIN categories c ON c.id = vc.category_id
		 WHERE vc.vacancy_id = $1
		 ORDER BY c.level ASC, c.id ASC`,
		vacancyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]category.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		if err := category.Validate(c, nil); err != nil {
			r.log.Warn("dropping malformed category", map[string]interface{}{
				"category_id": c.ID,
				"vacancy_id":  vacancyID,
				"error":       err,
			})
			continue
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindVacanciesByCategory lists active vacancies tagged with the category.
// With includeDescendants, vacancies tagged with any category below it in
// the taxonomy are included too.
func (r *PostgresCategoryRepository) FindVacanciesByCategory(ctx context.Context, categoryID string, includeDescendants bool) ([]vacancy.Vacancy, error) {
	query := `SELECT DISTINCT v.id, v.title, v.company, v.branch_name, v.lat, v.lng, v.requirements, v.skills
		 FROM vacancies v
		 JOIN vacancy_categories vc ON vc.vacancy_id = v.id
		 WHERE v.is_active = true AND vc.category_id = $1
		 ORDER BY v.id ASC`
	if includeDescendants {
		query = `SELECT DISTINCT v.id, v.title, v.company, v.branch_name, v.lat, v.lng, v.requirements, v.skills
		 FROM vacancies v
		 JOIN vacancy_categories vc ON vc.vacancy_id = v.id
		 JOIN categories c ON c.id = vc.category_id
		 WHERE v.is_active = true AND c.path @> jsonb_build_array($1::text)
		 ORDER BY v.id ASC`
	}

	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vacancy.Vacancy, 0)
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCategory(row database.Row) (category.Category, error) {
	var (
		c        category.Category
		pathRaw  []byte
		parentID sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &pathRaw, &c.Level, &parentID); err != nil {
		return category.Category{}, err
	}
	if len(pathRaw) > 0 && string(pathRaw) != "null" {
		if err := json.Unmarshal(pathRaw, &c.Path); err != nil {
			return category.Category{}, fmt.Errorf("decode category path %s: %w", c.ID, err)
		}
	}
	if parentID.Valid && strings.TrimSpace(parentID.String) != "" {
		p := parentID.String
		c.ParentID = &p
	}
	return c, nil
}

// scanVacancy reads the common vacancy column list:
// id, title, company, branch_name, lat, lng, requirements, skills.
func scanVacancy(row database.Row, extra ...any) (vacancy.Vacancy, error) {
	var (
		v               vacancy.Vacancy
		company, branch sql.NullString
		reqRaw, skRaw   []byte
	)
	dest := []any{&v.ID, &v.Title, &company, &branch, &v.Lat, &v.Lng, &reqRaw, &skRaw}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return vacancy.Vacancy{}, err
	}
	v.Company = company.String
	v.BranchName = branch.String

	var err error
	if v.Requirements, err = decodeStringList(reqRaw); err != nil {
		return vacancy.Vacancy{}, fmt.Errorf("decode requirements %s: %w", v.ID, err)
	}
	if v.Skills, err = decodeStringList(skRaw); err != nil {
		return vacancy.Vacancy{}, fmt.Errorf("decode skills %s: %w", v.ID, err)
	}
	return v, nil
}
