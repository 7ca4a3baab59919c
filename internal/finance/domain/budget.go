package domain

import (
	"context"
	"strings"
	"time"

	database "github.com/sebuszqo/Cashlex/internal/db"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const minBudgetNameLength = 2

type Budget struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (b *Budget) ComputeRemaining() {
	b.Remaining = b.Amount.Sub(b.Spent)
}

type CreateBudgetInput struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
}

// Validate normalises the input and returns every problem found.
func (in *CreateBudgetInput) Validate() error {
	problems := &financeErrors.ValidationErrors{}

	in.Name = strings.TrimSpace(in.Name)
	if len([]rune(in.Name)) < minBudgetNameLength {
		problems.Add(financeErrors.NewFieldValidationError("name", "Budget name must be at least 2 characters."))
	}
	if msg := validateAmount(in.Amount); msg != "" {
		problems.Add(financeErrors.NewFieldValidationError("amount", msg))
	}
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		if trimmed == "" {
			in.Description = nil
		} else {
			in.Description = &trimmed
		}
	}
	return problems.ErrOrNil()
}

// SpentChange is the state of a budget after its spent total moved.
type SpentChange struct {
	BudgetID    string
	Amount      decimal.Decimal
	SpentBefore decimal.Decimal
	SpentAfter  decimal.Decimal
}

// Exceeded reports whether this change pushed spending above the budget.
func (c SpentChange) Exceeded() bool {
	return c.SpentBefore.LessThanOrEqual(c.Amount) && c.SpentAfter.GreaterThan(c.Amount)
}

type BudgetRepository interface {
	Save(ctx context.Context, budget *Budget) error
	FindByUser(ctx context.Context, userID string) ([]Budget, error)
	FindByIDForUser(ctx context.Context, budgetID, userID string) (*Budget, error)
	Delete(ctx context.Context, budgetID, userID string) error
	// AdjustSpent adds delta to the budget's spent total. It returns
	// ErrBudgetNotFound when the budget does not exist or belongs to another user.
	AdjustSpent(ctx context.Context, q database.Querier, budgetID, userID string, delta decimal.Decimal) (*SpentChange, error)
}
