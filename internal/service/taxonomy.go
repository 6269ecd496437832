package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/taskmate/internal/model"
	"github.com/sakif/taskmate/internal/repository"
)

// TaxonomyService serves the read-only category tree used by the provider
// registration form.
type TaxonomyService struct {
	repo   repository.TaxonomyRepository
	logger *slog.Logger
}

func NewTaxonomyService(repo repository.TaxonomyRepository, logger *slog.Logger) *TaxonomyService {
	return &TaxonomyService{repo: repo, logger: logger}
}

// ListCategories returns all categories sorted by name.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/taxonomy: listing categories: %w", err)
	}
	return categories, nil
}

// ListSubcategories returns the subcategories of categoryID sorted by name.
// A category without children, or one that does not exist, gives an empty
// slice.
func (s *TaxonomyService) ListSubcategories(ctx context.Context, categoryID int64) ([]model.Subcategory, error) {
	subs, err := s.repo.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("service/taxonomy: listing subcategories of %d: %w", categoryID, err)
	}
	if subs == nil {
		subs = []model.Subcategory{}
	}

	s.logger.Debug("subcategories listed",
		slog.Int64("categoryID", categoryID),
		slog.Int("count", len(subs)),
	)
	return subs, nil
}
