package application

import (
	"context"
	"testing"

	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetCreate_StartsWithNothingSpent(t *testing.T) {
	repo := NewMockBudgetRepository()
	service := NewBudgetService(repo, quietLogger())
	description := "  food and drinks "

	budget, err := service.Create(context.Background(), ownerID, domain.CreateBudgetInput{
		Name:        " Groceries ",
		Amount:      decimal.RequireFromString("250.75"),
		Description: &description,
	})

	require.NoError(t, err)
	assert.Equal(t, "Groceries", budget.Name)
	assert.Equal(t, "food and drinks", *budget.Description)
	assert.True(t, budget.Spent.IsZero())
	assert.True(t, budget.Remaining.Equal(decimal.RequireFromString("250.75")))
	assert.Contains(t, repo.Budgets, budget.ID)
}

func TestBudgetCreate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		input  domain.CreateBudgetInput
		errors int
	}{
		{"short name", domain.CreateBudgetInput{Name: "a", Amount: decimal.NewFromInt(10)}, 1},
		{"zero amount", domain.CreateBudgetInput{Name: "Rent", Amount: decimal.Zero}, 1},
		{"three decimals", domain.CreateBudgetInput{Name: "Rent", Amount: decimal.RequireFromString("1.005")}, 1},
		{"too large", domain.CreateBudgetInput{Name: "Rent", Amount: decimal.NewFromInt(100000000)}, 1},
		{"everything wrong", domain.CreateBudgetInput{Name: " ", Amount: decimal.NewFromInt(-5)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockBudgetRepository()
			service := NewBudgetService(repo, quietLogger())

			_, err := service.Create(context.Background(), ownerID, tt.input)

			messages, ok := financeErrors.ValidationMessages(err)
			require.True(t, ok)
			assert.Len(t, messages, tt.errors)
			assert.Empty(t, repo.Budgets)
		})
	}
}

func TestBudgetGetAll_ComputesRemaining(t *testing.T) {
	repo := NewMockBudgetRepository(
		domain.Budget{ID: "b1", UserID: ownerID, Name: "Fun", Amount: decimal.NewFromInt(50), Spent: decimal.RequireFromString("62.5")},
		domain.Budget{ID: "b2", UserID: strangerID, Name: "Other", Amount: decimal.NewFromInt(10)},
	)
	service := NewBudgetService(repo, quietLogger())

	budgets, err := service.GetAll(context.Background(), ownerID)

	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Remaining.Equal(decimal.RequireFromString("-12.5")))
}

func TestBudgetGetAll_DatabaseError(t *testing.T) {
	repo := NewMockBudgetRepository()
	repo.FailWith = errDatabaseDown
	service := NewBudgetService(repo, quietLogger())

	_, err := service.GetAll(context.Background(), ownerID)

	assert.ErrorIs(t, err, errDatabaseDown)
}

func TestBudgetDelete_OnlyOwner(t *testing.T) {
	repo := NewMockBudgetRepository(domain.Budget{ID: budgetID, UserID: ownerID, Name: "Fun", Amount: decimal.NewFromInt(50)})
	service := NewBudgetService(repo, quietLogger())

	err := service.Delete(context.Background(), strangerID, budgetID)
	assert.ErrorIs(t, err, financeErrors.ErrBudgetNotFound)
	assert.Contains(t, repo.Budgets, budgetID)

	err = service.Delete(context.Background(), ownerID, budgetID)
	assert.NoError(t, err)
	assert.NotContains(t, repo.Budgets, budgetID)
}

func TestCategoryService_EmptyIsNotNil(t *testing.T) {
	service := NewCategoryService(&MockCategoryRepository{})

	categories, err := service.GetUserCategories(context.Background(), ownerID)

	require.NoError(t, err)
	assert.Equal(t, []string{}, categories)
}

func TestCategoryService_PassesThroughErrors(t *testing.T) {
	service := NewCategoryService(&MockCategoryRepository{Err: errDatabaseDown})

	_, err := service.GetUserCategories(context.Background(), ownerID)

	assert.ErrorIs(t, err, errDatabaseDown)
}
