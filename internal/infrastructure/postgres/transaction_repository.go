package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"expensez/internal/domain/transaction"
)

const transactionColumns = `id, user_id, amount, type, category, date, note, created_at, updated_at`

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, amount, type, category, date, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns

	t, err := r.scanTransaction(r.db.QueryRowContext(
		ctx, query,
		params.ID, params.UserID, params.Amount, params.Type, params.Category,
		params.Date, params.Note,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID int64, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND id = $2`

	t, err := r.scanTransaction(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context, userID int64, filter transaction.Filter, limit, offset int) ([]transaction.Transaction, error) {
	where, args := buildFilter(userID, filter)

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, transactionColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category, &t.Date, &t.Note,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) Count(ctx context.Context, userID int64, filter transaction.Filter) (int, error) {
	where, args := buildFilter(userID, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM transactions WHERE %s`, where)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

func (r *TransactionRepository) Update(ctx context.Context, userID int64, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions
		SET amount = COALESCE($1, amount),
		    type = COALESCE($2, type),
		    category = COALESCE($3, category),
		    date = COALESCE($4, date),
		    note = COALESCE($5, note),
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $6 AND id = $7
		RETURNING ` + transactionColumns

	t, err := r.scanTransaction(r.db.QueryRowContext(
		ctx, query,
		params.Amount, params.Type, params.Category, params.Date, params.Note,
		userID, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, userID int64, id string) error {
	query := `DELETE FROM transactions WHERE user_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (r *TransactionRepository) Summary(ctx context.Context, userID int64, filter transaction.Filter) (*transaction.Summary, error) {
	where, args := buildFilter(userID, filter)
	query := fmt.Sprintf(`
		SELECT type, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE %s
		GROUP BY type
	`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	defer rows.Close()

	var summary transaction.Summary
	for rows.Next() {
		var txType string
		var total float64
		if err := rows.Scan(&txType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		switch txType {
		case transaction.TypeIncome:
			summary.Income = total
		case transaction.TypeExpense:
			summary.Expense = total
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}

	summary.Balance = summary.Income - summary.Expense
	return &summary, nil
}

func (r *TransactionRepository) Recent(ctx context.Context, userID int64, limit int) ([]transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	defer rows.Close()

	var transactions []transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category, &t.Date, &t.Note,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) CategoryTotals(ctx context.Context, userID int64, txType string, since *time.Time) ([]transaction.CategoryTotal, error) {
	query := `
		SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND type = $2
	`
	args := []any{userID, txType}

	if since != nil {
		query += ` AND date >= $3`
		args = append(args, *since)
	}
	query += `
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer rows.Close()

	var totals []transaction.CategoryTotal
	for rows.Next() {
		var ct transaction.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}

func (r *TransactionRepository) MonthlyTotals(ctx context.Context, userID int64, since time.Time) ([]transaction.MonthTotal, error) {
	query := `
		SELECT EXTRACT(YEAR FROM date)::int,
		       EXTRACT(MONTH FROM date)::int,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate months: %w", err)
	}
	defer rows.Close()

	var totals []transaction.MonthTotal
	for rows.Next() {
		var mt transaction.MonthTotal
		var month int
		if err := rows.Scan(&mt.Year, &month, &mt.Income, &mt.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan month total: %w", err)
		}
		mt.Month = time.Month(month)
		totals = append(totals, mt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating month totals: %w", err)
	}

	return totals, nil
}

// buildFilter renders the conjunctive WHERE clause shared by List, Count and
// Summary. The returned args line up with the $N placeholders in the clause.
func buildFilter(userID int64, filter transaction.Filter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *TransactionRepository) scanTransaction(row *tracedRow) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category, &t.Date, &t.Note,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
