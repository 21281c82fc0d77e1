package transaction

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("transaction not found")

// Repository defines the interface for transaction data access. Every method
// is scoped to a single owning user; a transaction belonging to someone else
// behaves exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, userID int64, id string) (*Transaction, error)
	List(ctx context.Context, userID int64, filter Filter, limit, offset int) ([]Transaction, error)
	Count(ctx context.Context, userID int64, filter Filter) (int, error)
	Update(ctx context.Context, userID int64, id string, params UpdateParams) (*Transaction, error)
	Delete(ctx context.Context, userID int64, id string) error
	Summary(ctx context.Context, userID int64, filter Filter) (*Summary, error)
	Recent(ctx context.Context, userID int64, limit int) ([]Transaction, error)
	CategoryTotals(ctx context.Context, userID int64, txType string, since *time.Time) ([]CategoryTotal, error)
	MonthlyTotals(ctx context.Context, userID int64, since time.Time) ([]MonthTotal, error)
}
