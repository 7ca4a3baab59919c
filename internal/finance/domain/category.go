package domain

import "context"

// CategoryRepository lists the free-form categories a user has already typed.
type CategoryRepository interface {
	FindCategoriesByUser(ctx context.Context, userID string) ([]string, error)
}
