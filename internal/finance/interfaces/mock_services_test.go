package interfaces

import (
	"context"
	"errors"

	"github.com/sebuszqo/Cashlex/internal/finance/domain"
)

var errServiceDown = errors.New("service down")

type MockBudgetService struct {
	Budgets   []domain.Budget
	Err       error
	GotInput  domain.CreateBudgetInput
	DeletedID string
}

func (m *MockBudgetService) GetAll(context.Context, string) ([]domain.Budget, error) {
	return m.Budgets, m.Err
}

func (m *MockBudgetService) Create(_ context.Context, userID string, input domain.CreateBudgetInput) (*domain.Budget, error) {
	m.GotInput = input
	if m.Err != nil {
		return nil, m.Err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return &domain.Budget{ID: "new-budget", UserID: userID, Name: input.Name, Amount: input.Amount, Remaining: input.Amount}, nil
}

func (m *MockBudgetService) Delete(_ context.Context, _ string, budgetID string) error {
	m.DeletedID = budgetID
	return m.Err
}

type MockTransactionService struct {
	Transactions []domain.Transaction
	Err          error
	DeletedID    string
}

func (m *MockTransactionService) Create(_ context.Context, userID string, input domain.CreateTransactionInput) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return input.ToTransaction(userID)
}

func (m *MockTransactionService) Delete(_ context.Context, _ string, transactionID string) error {
	m.DeletedID = transactionID
	return m.Err
}

func (m *MockTransactionService) GetAll(context.Context, string) ([]domain.Transaction, error) {
	return m.Transactions, m.Err
}

type MockCategoryService struct {
	categories []string
	shouldFail bool
}

func (m *MockCategoryService) GetUserCategories(context.Context, string) ([]string, error) {
	if m.shouldFail {
		return nil, errServiceDown
	}
	return m.categories, nil
}

type MockSummaryService struct {
	Summary   domain.Summary
	Breakdown []domain.CategoryBreakdown
	Monthly   []domain.MonthlyBreakdown
	Err       error

	Called    string
	GotFilter domain.DateFilter
}

func (m *MockSummaryService) GetSummary(context.Context, string) (domain.Summary, error) {
	m.Called = "summary"
	return m.Summary, m.Err
}

func (m *MockSummaryService) GetExpenseBreakdown(_ context.Context, _ string, filter domain.DateFilter) ([]domain.CategoryBreakdown, error) {
	m.Called = "expense"
	m.GotFilter = filter
	return m.Breakdown, m.Err
}

func (m *MockSummaryService) GetIncomeBreakdown(_ context.Context, _ string, filter domain.DateFilter) ([]domain.CategoryBreakdown, error) {
	m.Called = "income"
	m.GotFilter = filter
	return m.Breakdown, m.Err
}

func (m *MockSummaryService) GetMonthlyBreakdown(_ context.Context, _ string, filter domain.DateFilter) ([]domain.MonthlyBreakdown, error) {
	m.Called = "monthly"
	m.GotFilter = filter
	return m.Monthly, m.Err
}
