package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	database "github.com/sebuszqo/Cashlex/internal/db"
	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, user_id, name, description, amount, spent, created_at`

func scanBudget(row interface{ Scan(...any) error }) (domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.Amount, &b.Spent, &b.CreatedAt)
	return b, err
}

func (r *BudgetRepository) Save(ctx context.Context, budget *domain.Budget) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO cashlex_budget (id, user_id, name, description, amount, spent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		budget.ID, budget.UserID, budget.Name, budget.Description, budget.Amount, budget.Spent,
	).Scan(&budget.CreatedAt)
}

func (r *BudgetRepository) FindByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM cashlex_budget WHERE user_id = $1 ORDER BY created_at, name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) FindByIDForUser(ctx context.Context, budgetID, userID string) (*domain.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM cashlex_budget WHERE id = $1 AND user_id = $2`, budgetID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, budgetID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cashlex_budget WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return err
	}
	return requireOneRow(result, financeErrors.ErrBudgetNotFound)
}

func (r *BudgetRepository) AdjustSpent(ctx context.Context, q database.Querier, budgetID, userID string, delta decimal.Decimal) (*domain.SpentChange, error) {
	change := &domain.SpentChange{BudgetID: budgetID}
	err := q.QueryRowContext(ctx,
		`UPDATE cashlex_budget SET spent = spent + $1
		WHERE id = $2 AND user_id = $3
		RETURNING amount, spent`,
		delta, budgetID, userID,
	).Scan(&change.Amount, &change.SpentAfter)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrBudgetNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.NumericValueOutOfRange {
			return nil, financeErrors.ErrBudgetSpentOverflow
		}
		return nil, err
	}
	change.SpentBefore = change.SpentAfter.Sub(delta)
	return change, nil
}

func requireOneRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
