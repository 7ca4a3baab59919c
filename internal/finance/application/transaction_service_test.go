package application

import (
	"context"
	"testing"
	"time"

	"github.com/sebuszqo/Cashlex/internal/events"
	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    = "0b8f7c1e-5a11-4c55-9d0b-111111111111"
	strangerID = "0b8f7c1e-5a11-4c55-9d0b-222222222222"
	budgetID   = "6f1c2a44-7d3e-4a9b-8c21-333333333333"
)

type transactionEnv struct {
	beginner     *MockBeginner
	transactions *MockTransactionRepository
	budgets      *MockBudgetRepository
	publisher    *RecordingPublisher
	service      *TransactionService
}

func newTransactionEnv(spent string) *transactionEnv {
	env := &transactionEnv{
		beginner:     &MockBeginner{},
		transactions: NewMockTransactionRepository(),
		budgets: NewMockBudgetRepository(domain.Budget{
			ID:     budgetID,
			UserID: ownerID,
			Name:   "Groceries",
			Amount: decimal.NewFromInt(100),
			Spent:  decimal.RequireFromString(spent),
		}),
		publisher: &RecordingPublisher{},
	}
	env.service = NewTransactionService(env.beginner, env.transactions, env.budgets, env.publisher, quietLogger())
	env.service.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return env
}

func expenseInput(amount string, budget *string) domain.CreateTransactionInput {
	return domain.CreateTransactionInput{
		PaymentName: "Weekly shop",
		PaymentType: "expense",
		Amount:      decimal.RequireFromString(amount),
		PaidDate:    "2024-05-09",
		BudgetID:    budget,
	}
}

func strPtr(s string) *string { return &s }

func TestCreate_ExpenseChargesBudget(t *testing.T) {
	env := newTransactionEnv("10")

	created, err := env.service.Create(context.Background(), ownerID, expenseInput("25.50", strPtr(budgetID)))

	require.NoError(t, err)
	assert.Equal(t, ownerID, created.UserID)
	assert.True(t, env.budgets.Budgets[budgetID].Spent.Equal(decimal.RequireFromString("35.50")))
	assert.True(t, env.beginner.Last().Committed)
	assert.False(t, env.beginner.Last().RolledBack)
	assert.Equal(t, []events.Type{events.TransactionCreated}, env.publisher.Types())
	assert.Equal(t, budgetID, env.publisher.Events[0].BudgetID)
}

func TestCreate_IncomeNeverTouchesBudget(t *testing.T) {
	env := newTransactionEnv("10")
	input := expenseInput("500", strPtr(budgetID))
	input.PaymentType = "income"

	created, err := env.service.Create(context.Background(), ownerID, input)

	require.NoError(t, err)
	assert.Nil(t, created.BudgetID)
	assert.True(t, env.budgets.Budgets[budgetID].Spent.Equal(decimal.NewFromInt(10)))
}

func TestCreate_ForeignBudgetRollsBack(t *testing.T) {
	env := newTransactionEnv("10")

	_, err := env.service.Create(context.Background(), strangerID, expenseInput("5", strPtr(budgetID)))

	assert.ErrorIs(t, err, financeErrors.ErrBudgetNotFound)
	assert.True(t, env.beginner.Last().RolledBack)
	assert.False(t, env.beginner.Last().Committed)
	assert.Empty(t, env.publisher.Events)
}

func TestCreate_ValidationErrorsSkipDatabase(t *testing.T) {
	env := newTransactionEnv("0")
	input := domain.CreateTransactionInput{PaymentName: "x", PaymentType: "gift", Amount: decimal.NewFromInt(-1)}

	_, err := env.service.Create(context.Background(), ownerID, input)

	messages, ok := financeErrors.ValidationMessages(err)
	require.True(t, ok)
	assert.Len(t, messages, 4)
	assert.Empty(t, env.beginner.Txs)
}

func TestCreate_PublishesBudgetExceededOnCrossing(t *testing.T) {
	env := newTransactionEnv("90")

	_, err := env.service.Create(context.Background(), ownerID, expenseInput("20", strPtr(budgetID)))
	require.NoError(t, err)

	assert.Equal(t, []events.Type{events.TransactionCreated, events.BudgetExceeded}, env.publisher.Types())
	exceeded := env.publisher.Events[1]
	assert.Equal(t, budgetID, exceeded.BudgetID)
	assert.True(t, exceeded.Amount.Equal(decimal.NewFromInt(110)))

	// Already over: no second alert.
	_, err = env.service.Create(context.Background(), ownerID, expenseInput("1", strPtr(budgetID)))
	require.NoError(t, err)
	assert.Len(t, env.publisher.Events, 3)
	assert.Equal(t, events.TransactionCreated, env.publisher.Events[2].Type)
}

func TestCreate_ReachingExactAmountIsNotExceeded(t *testing.T) {
	env := newTransactionEnv("90")

	_, err := env.service.Create(context.Background(), ownerID, expenseInput("10", strPtr(budgetID)))

	require.NoError(t, err)
	assert.Equal(t, []events.Type{events.TransactionCreated}, env.publisher.Types())
}

func TestCreate_InsertFailureRollsBack(t *testing.T) {
	env := newTransactionEnv("0")
	env.transactions.InsertErr = errDatabaseDown

	_, err := env.service.Create(context.Background(), ownerID, expenseInput("10", nil))

	assert.ErrorIs(t, err, errDatabaseDown)
	assert.True(t, env.beginner.Last().RolledBack)
}

func TestDelete_RestoresBudget(t *testing.T) {
	env := newTransactionEnv("0")
	created, err := env.service.Create(context.Background(), ownerID, expenseInput("40", strPtr(budgetID)))
	require.NoError(t, err)

	err = env.service.Delete(context.Background(), ownerID, created.ID)

	require.NoError(t, err)
	assert.True(t, env.budgets.Budgets[budgetID].Spent.IsZero())
	assert.NotContains(t, env.transactions.Transactions, created.ID)
	assert.Equal(t, []events.Type{events.TransactionCreated, events.TransactionDeleted}, env.publisher.Types())
}

func TestDelete_OtherUsersTransactionIsNotFound(t *testing.T) {
	env := newTransactionEnv("0")
	created, err := env.service.Create(context.Background(), ownerID, expenseInput("40", strPtr(budgetID)))
	require.NoError(t, err)

	err = env.service.Delete(context.Background(), strangerID, created.ID)

	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
	assert.Contains(t, env.transactions.Transactions, created.ID)
	assert.True(t, env.beginner.Last().RolledBack)
}

func TestDelete_MissingBudgetStillDeletes(t *testing.T) {
	env := newTransactionEnv("0")
	created, err := env.service.Create(context.Background(), ownerID, expenseInput("40", strPtr(budgetID)))
	require.NoError(t, err)
	delete(env.budgets.Budgets, budgetID)

	err = env.service.Delete(context.Background(), ownerID, created.ID)

	require.NoError(t, err)
	assert.NotContains(t, env.transactions.Transactions, created.ID)
}

func TestGetAll_OrderedByPaidDate(t *testing.T) {
	env := newTransactionEnv("0")
	for _, date := range []string{"2024-03-01", "2024-01-15", "2024-02-10"} {
		input := expenseInput("1", nil)
		input.PaidDate = date
		_, err := env.service.Create(context.Background(), ownerID, input)
		require.NoError(t, err)
	}

	transactions, err := env.service.GetAll(context.Background(), ownerID)

	require.NoError(t, err)
	require.Len(t, transactions, 3)
	assert.Equal(t, "2024-01-15", transactions[0].PaidDate.Format("2006-01-02"))
	assert.Equal(t, "2024-03-01", transactions[2].PaidDate.Format("2006-01-02"))
}

func TestGetAll_EmptyIsNotNil(t *testing.T) {
	env := newTransactionEnv("0")

	transactions, err := env.service.GetAll(context.Background(), strangerID)

	require.NoError(t, err)
	assert.NotNil(t, transactions)
	assert.Empty(t, transactions)
}

func TestCreate_SpentOverflowRollsBack(t *testing.T) {
	env := newTransactionEnv("10")
	env.budgets.FailWith = financeErrors.ErrBudgetSpentOverflow

	_, err := env.service.Create(context.Background(), ownerID, expenseInput("60000000", strPtr(budgetID)))

	messages, ok := financeErrors.ValidationMessages(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, []string{"Budget spent total would exceed 99999999.99."}, messages)
	assert.True(t, env.beginner.Last().RolledBack)
	assert.Empty(t, env.publisher.Events)
}
