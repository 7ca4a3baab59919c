package application

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sort"
	"time"

	database "github.com/sebuszqo/Cashlex/internal/db"
	"github.com/sebuszqo/Cashlex/internal/events"
	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var errDatabaseDown = errors.New("database down")

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// MockTx records how the transaction ended. Fake repositories never touch it.
type MockTx struct {
	Committed  bool
	RolledBack bool
}

func (m *MockTx) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errors.New("not used")
}

func (m *MockTx) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("not used")
}

func (m *MockTx) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

func (m *MockTx) Commit() error {
	m.Committed = true
	return nil
}

func (m *MockTx) Rollback() error {
	m.RolledBack = true
	return nil
}

type MockBeginner struct {
	Txs []*MockTx
}

func (m *MockBeginner) BeginTx(context.Context) (database.Tx, error) {
	tx := &MockTx{}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

func (m *MockBeginner) Last() *MockTx {
	return m.Txs[len(m.Txs)-1]
}

type MockBudgetRepository struct {
	Budgets map[string]*domain.Budget
	FailWith error
}

func NewMockBudgetRepository(budgets ...domain.Budget) *MockBudgetRepository {
	repo := &MockBudgetRepository{Budgets: make(map[string]*domain.Budget)}
	for i := range budgets {
		b := budgets[i]
		repo.Budgets[b.ID] = &b
	}
	return repo
}

func (m *MockBudgetRepository) Save(_ context.Context, budget *domain.Budget) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	budget.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stored := *budget
	m.Budgets[budget.ID] = &stored
	return nil
}

func (m *MockBudgetRepository) FindByUser(_ context.Context, userID string) ([]domain.Budget, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var result []domain.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockBudgetRepository) FindByIDForUser(_ context.Context, budgetID, userID string) (*domain.Budget, error) {
	b, ok := m.Budgets[budgetID]
	if !ok || b.UserID != userID {
		return nil, financeErrors.ErrBudgetNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *MockBudgetRepository) Delete(_ context.Context, budgetID, userID string) error {
	b, ok := m.Budgets[budgetID]
	if !ok || b.UserID != userID {
		return financeErrors.ErrBudgetNotFound
	}
	delete(m.Budgets, budgetID)
	return nil
}

func (m *MockBudgetRepository) AdjustSpent(_ context.Context, _ database.Querier, budgetID, userID string, delta decimal.Decimal) (*domain.SpentChange, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	b, ok := m.Budgets[budgetID]
	if !ok || b.UserID != userID {
		return nil, financeErrors.ErrBudgetNotFound
	}
	before := b.Spent
	b.Spent = b.Spent.Add(delta)
	return &domain.SpentChange{BudgetID: b.ID, Amount: b.Amount, SpentBefore: before, SpentAfter: b.Spent}, nil
}

type MockTransactionRepository struct {
	Transactions map[string]*domain.Transaction
	InsertErr    error
}

func NewMockTransactionRepository(transactions ...domain.Transaction) *MockTransactionRepository {
	repo := &MockTransactionRepository{Transactions: make(map[string]*domain.Transaction)}
	for i := range transactions {
		t := transactions[i]
		repo.Transactions[t.ID] = &t
	}
	return repo
}

func (m *MockTransactionRepository) Insert(_ context.Context, _ database.Querier, transaction *domain.Transaction) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	stored := *transaction
	m.Transactions[transaction.ID] = &stored
	return nil
}

func (m *MockTransactionRepository) FindByIDForUpdate(_ context.Context, _ database.Querier, transactionID, userID string) (*domain.Transaction, error) {
	t, ok := m.Transactions[transactionID]
	if !ok || t.UserID != userID {
		return nil, financeErrors.ErrTransactionNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *MockTransactionRepository) Delete(_ context.Context, _ database.Querier, transactionID, userID string) error {
	t, ok := m.Transactions[transactionID]
	if !ok || t.UserID != userID {
		return financeErrors.ErrTransactionNotFound
	}
	delete(m.Transactions, transactionID)
	return nil
}

func (m *MockTransactionRepository) FindByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	var result []domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PaidDate.Before(result[j].PaidDate) })
	return result, nil
}

type MockCategoryRepository struct {
	Categories []string
	Err        error
}

func (m *MockCategoryRepository) FindCategoriesByUser(context.Context, string) ([]string, error) {
	return m.Categories, m.Err
}

type MockSummaryRepository struct {
	TotalsResult   domain.Totals
	CategoryResult []domain.CategoryTotal
	MonthResult    []domain.MonthTotal
	Err            error

	GotType   domain.TransactionType
	GotFilter domain.DateFilter
	GotFrom   time.Time
	GotTo     time.Time
	MonthHits int
}

func (m *MockSummaryRepository) Totals(context.Context, string) (domain.Totals, error) {
	return m.TotalsResult, m.Err
}

func (m *MockSummaryRepository) TotalsByCategory(_ context.Context, _ string, paymentType domain.TransactionType, filter domain.DateFilter) ([]domain.CategoryTotal, error) {
	m.GotType = paymentType
	m.GotFilter = filter
	return m.CategoryResult, m.Err
}

func (m *MockSummaryRepository) TotalsByMonth(_ context.Context, _ string, from, to time.Time) ([]domain.MonthTotal, error) {
	m.MonthHits++
	m.GotFrom = from
	m.GotTo = to
	return m.MonthResult, m.Err
}

// RecordingPublisher keeps every published event.
type RecordingPublisher struct {
	Events []events.Event
}

func (r *RecordingPublisher) Publish(_ context.Context, event events.Event) {
	r.Events = append(r.Events, event)
}

func (r *RecordingPublisher) Types() []events.Type {
	types := make([]events.Type, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.Type
	}
	return types
}
