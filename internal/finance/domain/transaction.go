package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/Cashlex/internal/db"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const minPaymentNameLength = 2

func IsValidTransactionType(t string) bool {
	return t == string(Income) || t == string(Expense)
}

type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	PaymentName string          `json:"paymentName"`
	PaymentType TransactionType `json:"paymentType"`
	Amount      decimal.Decimal `json:"amount"`
	PaidDate    time.Time       `json:"paidDate"`
	BudgetID    *string         `json:"budgetId"`
	Category    *string         `json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// AffectsBudget reports whether the row is counted in a budget's spent total.
func (t *Transaction) AffectsBudget() bool {
	return t.PaymentType == Expense && t.BudgetID != nil
}

type CreateTransactionInput struct {
	PaymentName string          `json:"paymentName"`
	PaymentType string          `json:"paymentType"`
	Amount      decimal.Decimal `json:"amount"`
	PaidDate    string          `json:"paidDate"`
	BudgetID    *string         `json:"budgetId"`
	Category    *string         `json:"category"`
}

// ToTransaction validates the input and builds the row to insert. Income never
// carries a budget.
func (in CreateTransactionInput) ToTransaction(userID string) (*Transaction, error) {
	problems := &financeErrors.ValidationErrors{}

	name := strings.TrimSpace(in.PaymentName)
	if len([]rune(name)) < minPaymentNameLength {
		problems.Add(financeErrors.NewFieldValidationError("paymentName", "Payment name must be at least 2 characters."))
	}
	if !IsValidTransactionType(in.PaymentType) {
		problems.Add(financeErrors.NewFieldValidationError("paymentType", "Payment type must be 'income' or 'expense'."))
	}
	if msg := validateAmount(in.Amount); msg != "" {
		problems.Add(financeErrors.NewFieldValidationError("amount", msg))
	}

	var paidDate time.Time
	if strings.TrimSpace(in.PaidDate) == "" {
		problems.Add(financeErrors.NewFieldValidationError("paidDate", "Paid date is required."))
	} else if parsed, err := ParseDate(in.PaidDate); err != nil {
		problems.Add(financeErrors.NewFieldValidationError("paidDate", "Paid date must be an RFC 3339 timestamp or YYYY-MM-DD."))
	} else {
		paidDate = parsed
	}

	var budgetID *string
	if in.BudgetID != nil && *in.BudgetID != "" {
		parsed, err := uuid.Parse(*in.BudgetID)
		if err != nil {
			problems.Add(financeErrors.NewFieldValidationError("budgetId", "Budget id must be a valid UUID."))
		} else if in.PaymentType == string(Expense) {
			id := parsed.String()
			budgetID = &id
		}
	}

	if err := problems.ErrOrNil(); err != nil {
		return nil, err
	}

	var category *string
	if in.Category != nil {
		if c := strings.TrimSpace(*in.Category); c != "" {
			category = &c
		}
	}

	return &Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		PaymentName: name,
		PaymentType: TransactionType(in.PaymentType),
		Amount:      in.Amount,
		PaidDate:    paidDate,
		BudgetID:    budgetID,
		Category:    category,
	}, nil
}

type TransactionRepository interface {
	Insert(ctx context.Context, q database.Querier, transaction *Transaction) error
	// FindByIDForUpdate locks the caller's row until q's transaction ends.
	FindByIDForUpdate(ctx context.Context, q database.Querier, transactionID, userID string) (*Transaction, error)
	Delete(ctx context.Context, q database.Querier, transactionID, userID string) error
	FindByUser(ctx context.Context, userID string) ([]Transaction, error)
}
