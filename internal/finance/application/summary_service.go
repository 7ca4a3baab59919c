package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sebuszqo/Cashlex/internal/finance/domain"
)

type SummaryService struct {
	repo domain.SummaryRepository
	now  func() time.Time
}

func NewSummaryService(repo domain.SummaryRepository) *SummaryService {
	return &SummaryService{repo: repo, now: time.Now}
}

func (s *SummaryService) GetSummary(ctx context.Context, userID string) (domain.Summary, error) {
	totals, err := s.repo.Totals(ctx, userID)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("sum transactions: %w", err)
	}
	return domain.Summary{
		Income:   totals.Income.InexactFloat64(),
		Expense:  totals.Expense.InexactFloat64(),
		NetTotal: totals.Income.Sub(totals.Expense).InexactFloat64(),
	}, nil
}

func (s *SummaryService) GetExpenseBreakdown(ctx context.Context, userID string, filter domain.DateFilter) ([]domain.CategoryBreakdown, error) {
	return s.breakdown(ctx, userID, domain.Expense, filter)
}

func (s *SummaryService) GetIncomeBreakdown(ctx context.Context, userID string, filter domain.DateFilter) ([]domain.CategoryBreakdown, error) {
	return s.breakdown(ctx, userID, domain.Income, filter)
}

func (s *SummaryService) breakdown(ctx context.Context, userID string, paymentType domain.TransactionType, filter domain.DateFilter) ([]domain.CategoryBreakdown, error) {
	totals, err := s.repo.TotalsByCategory(ctx, userID, paymentType, filter)
	if err != nil {
		return nil, fmt.Errorf("sum %s by category: %w", paymentType, err)
	}

	result := make([]domain.CategoryBreakdown, 0, len(totals))
	for _, t := range totals {
		result = append(result, domain.CategoryBreakdown{Name: t.Category, Value: t.Total.InexactFloat64()})
	}
	return result, nil
}

// GetMonthlyBreakdown reports income and expense for every month of the window,
// five months ending with the current one unless bounded by filter.
func (s *SummaryService) GetMonthlyBreakdown(ctx context.Context, userID string, filter domain.DateFilter) ([]domain.MonthlyBreakdown, error) {
	window := domain.NewMonthWindow(filter.Start, filter.End, s.now().UTC())
	if len(window.Months) == 0 {
		return []domain.MonthlyBreakdown{}, nil
	}

	totals, err := s.repo.TotalsByMonth(ctx, userID, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("sum transactions by month: %w", err)
	}
	return window.Fill(totals), nil
}
