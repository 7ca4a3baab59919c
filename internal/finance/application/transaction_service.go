package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	database "github.com/sebuszqo/Cashlex/internal/db"
	"github.com/sebuszqo/Cashlex/internal/events"
	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
	"github.com/sirupsen/logrus"
)

type TransactionService struct {
	beginner     database.TxBeginner
	transactions domain.TransactionRepository
	budgets      domain.BudgetRepository
	publisher    events.Publisher
	log          logrus.FieldLogger
	now          func() time.Time
}

func NewTransactionService(
	beginner database.TxBeginner,
	transactions domain.TransactionRepository,
	budgets domain.BudgetRepository,
	publisher events.Publisher,
	log logrus.FieldLogger,
) *TransactionService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &TransactionService{
		beginner:     beginner,
		transactions: transactions,
		budgets:      budgets,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

// Create inserts the transaction and, for a budgeted expense, charges the
// budget in the same database transaction.
func (s *TransactionService) Create(ctx context.Context, userID string, input domain.CreateTransactionInput) (*domain.Transaction, error) {
	transaction, err := input.ToTransaction(userID)
	if err != nil {
		return nil, err
	}

	var change *domain.SpentChange
	err = database.WithinTx(ctx, s.beginner, func(tx database.Tx) error {
		if err := s.transactions.Insert(ctx, tx, transaction); err != nil {
			return err
		}
		if !transaction.AffectsBudget() {
			return nil
		}
		adjusted, err := s.budgets.AdjustSpent(ctx, tx, *transaction.BudgetID, userID, transaction.Amount)
		if err != nil {
			return err
		}
		change = adjusted
		return nil
	})
	if err != nil {
		if errors.Is(err, financeErrors.ErrBudgetNotFound) {
			return nil, financeErrors.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.publish(ctx, events.TransactionCreated, transaction)
	if change != nil && change.Exceeded() {
		s.publisher.Publish(ctx, events.Event{
			Type:          events.BudgetExceeded,
			UserID:        userID,
			TransactionID: transaction.ID,
			BudgetID:      change.BudgetID,
			Amount:        change.SpentAfter,
			OccurredAt:    s.now().UTC(),
		})
	}
	return transaction, nil
}

// Delete removes the caller's transaction and gives its amount back to the budget.
func (s *TransactionService) Delete(ctx context.Context, userID, transactionID string) error {
	var deleted *domain.Transaction
	err := database.WithinTx(ctx, s.beginner, func(tx database.Tx) error {
		transaction, err := s.transactions.FindByIDForUpdate(ctx, tx, transactionID, userID)
		if err != nil {
			return err
		}
		if transaction.AffectsBudget() {
			_, err := s.budgets.AdjustSpent(ctx, tx, *transaction.BudgetID, userID, transaction.Amount.Neg())
			if err != nil && !errors.Is(err, financeErrors.ErrBudgetNotFound) {
				return err
			}
		}
		if err := s.transactions.Delete(ctx, tx, transaction.ID, userID); err != nil {
			return err
		}
		deleted = transaction
		return nil
	})
	if err != nil {
		if errors.Is(err, financeErrors.ErrTransactionNotFound) {
			return financeErrors.ErrTransactionNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, events.TransactionDeleted, deleted)
	return nil
}

func (s *TransactionService) GetAll(ctx context.Context, userID string) ([]domain.Transaction, error) {
	transactions, err := s.transactions.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

func (s *TransactionService) publish(ctx context.Context, eventType events.Type, t *domain.Transaction) {
	event := events.Event{
		Type:          eventType,
		UserID:        t.UserID,
		TransactionID: t.ID,
		Amount:        t.Amount,
		OccurredAt:    s.now().UTC(),
	}
	if t.BudgetID != nil {
		event.BudgetID = *t.BudgetID
	}
	s.log.WithFields(logrus.Fields{
		"type":           eventType,
		"user_id":        t.UserID,
		"transaction_id": t.ID,
	}).Debug("Publishing ledger event")
	s.publisher.Publish(ctx, event)
}
