package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type BudgetService struct {
	repo domain.BudgetRepository
	log  logrus.FieldLogger
}

func NewBudgetService(repo domain.BudgetRepository, log logrus.FieldLogger) *BudgetService {
	return &BudgetService{repo: repo, log: log}
}

func (s *BudgetService) GetAll(ctx context.Context, userID string) ([]domain.Budget, error) {
	budgets, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if budgets == nil {
		return []domain.Budget{}, nil
	}
	for i := range budgets {
		budgets[i].ComputeRemaining()
	}
	return budgets, nil
}

func (s *BudgetService) Create(ctx context.Context, userID string, input domain.CreateBudgetInput) (*domain.Budget, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	budget := &domain.Budget{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Amount:      input.Amount,
		Spent:       decimal.Zero,
	}
	if err := s.repo.Save(ctx, budget); err != nil {
		return nil, fmt.Errorf("save budget: %w", err)
	}
	budget.ComputeRemaining()

	s.log.WithFields(logrus.Fields{"user_id": userID, "budget_id": budget.ID}).Info("Budget created")
	return budget, nil
}

// Delete removes the caller's budget. Transactions pointing at it lose the link.
func (s *BudgetService) Delete(ctx context.Context, userID, budgetID string) error {
	if err := s.repo.Delete(ctx, budgetID, userID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "budget_id": budgetID}).Info("Budget deleted")
	return nil
}
