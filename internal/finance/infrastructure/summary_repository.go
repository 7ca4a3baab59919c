package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sebuszqo/Cashlex/internal/finance/domain"
)

type SummaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) Totals(ctx context.Context, userID string) (domain.Totals, error) {
	var totals domain.Totals
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(amount) FILTER (WHERE payment_type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE payment_type = 'expense'), 0)
		FROM cashlex_transaction
		WHERE user_id = $1`, userID,
	).Scan(&totals.Income, &totals.Expense)
	return totals, err
}

func (r *SummaryRepository) TotalsByCategory(ctx context.Context, userID string, paymentType domain.TransactionType, filter domain.DateFilter) ([]domain.CategoryTotal, error) {
	conditions := []string{"user_id = $1", "payment_type = $2"}
	args := []interface{}{userID, string(paymentType)}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		conditions = append(conditions, fmt.Sprintf("paid_date >= $%d", len(args)))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		conditions = append(conditions, fmt.Sprintf("paid_date <= $%d", len(args)))
	}

	query := `SELECT
			CASE WHEN category IS NULL OR TRIM(category) = '' THEN '` + domain.UncategorizedName + `' ELSE category END AS name,
			SUM(amount) AS total
		FROM cashlex_transaction
		WHERE ` + strings.Join(conditions, " AND ") + `
		GROUP BY 1
		ORDER BY total DESC, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.CategoryTotal
	for rows.Next() {
		var t domain.CategoryTotal
		if err := rows.Scan(&t.Category, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *SummaryRepository) TotalsByMonth(ctx context.Context, userID string, from, to time.Time) ([]domain.MonthTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			TO_CHAR(paid_date, 'YYYY-MM') AS month,
			COALESCE(SUM(amount) FILTER (WHERE payment_type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE payment_type = 'expense'), 0)
		FROM cashlex_transaction
		WHERE user_id = $1 AND paid_date >= $2 AND paid_date < $3
		GROUP BY month
		ORDER BY month`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.MonthTotal
	for rows.Next() {
		var t domain.MonthTotal
		if err := rows.Scan(&t.Month, &t.Income, &t.Expense); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
