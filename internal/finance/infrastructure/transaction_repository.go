package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	database "github.com/sebuszqo/Cashlex/internal/db"
	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, payment_name, payment_type, amount, paid_date, budget_id, category, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.PaymentName, &t.PaymentType, &t.Amount, &t.PaidDate, &t.BudgetID, &t.Category, &t.CreatedAt)
	return t, err
}

func (r *TransactionRepository) Insert(ctx context.Context, q database.Querier, t *domain.Transaction) error {
	return q.QueryRowContext(ctx,
		`INSERT INTO cashlex_transaction
		(id, user_id, payment_name, payment_type, amount, paid_date, budget_id, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		t.ID, t.UserID, t.PaymentName, string(t.PaymentType), t.Amount, t.PaidDate, t.BudgetID, t.Category,
	).Scan(&t.CreatedAt)
}

func (r *TransactionRepository) FindByIDForUpdate(ctx context.Context, q database.Querier, transactionID, userID string) (*domain.Transaction, error) {
	t, err := scanTransaction(q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM cashlex_transaction
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, transactionID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, q database.Querier, transactionID, userID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM cashlex_transaction WHERE id = $1 AND user_id = $2`, transactionID, userID)
	if err != nil {
		return err
	}
	return requireOneRow(result, financeErrors.ErrTransactionNotFound)
}

func (r *TransactionRepository) FindByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM cashlex_transaction
		WHERE user_id = $1
		ORDER BY paid_date ASC, created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
