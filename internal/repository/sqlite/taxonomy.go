package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/taskmate/internal/model"
	"github.com/sakif/taskmate/internal/repository"
)

var _ repository.TaxonomyRepository = (*DB)(nil)

// ListCategories returns every category ordered by name. The result is never
// nil so it encodes as [] rather than null.
func (s *store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, name FROM service_categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// ListSubcategories returns the subcategories of categoryID ordered by name.
// An unknown category yields an empty slice, not an error.
func (s *store) ListSubcategories(ctx context.Context, categoryID int64) ([]model.Subcategory, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, category_id, name FROM service_subcategories
		 WHERE category_id = ?
		 ORDER BY name, id`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing subcategories of %d: %w", categoryID, err)
	}
	defer rows.Close()

	subcategories := []model.Subcategory{}
	for rows.Next() {
		var sc model.Subcategory
		if err := rows.Scan(&sc.ID, &sc.CategoryID, &sc.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning subcategory: %w", err)
		}
		subcategories = append(subcategories, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating subcategories: %w", err)
	}

	return subcategories, nil
}

// SubcategoryInCategory reports whether subcategoryID exists and belongs to
// categoryID.
func (s *store) SubcategoryInCategory(ctx context.Context, categoryID, subcategoryID int64) (bool, error) {
	var ok bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM service_subcategories WHERE id = ? AND category_id = ?
		)`,
		subcategoryID, categoryID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking subcategory %d in category %d: %w", subcategoryID, categoryID, err)
	}
	return ok, nil
}
