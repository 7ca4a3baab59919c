package application

import (
	"context"

	"github.com/sebuszqo/Cashlex/internal/finance/domain"
)

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetUserCategories returns the distinct non-blank categories the user has used.
func (s *CategoryService) GetUserCategories(ctx context.Context, userID string) ([]string, error) {
	categories, err := s.repo.FindCategoriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return []string{}, nil
	}
	return categories, nil
}
