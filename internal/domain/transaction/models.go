package transaction

import (
	"time"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	// DefaultCategory is assigned whenever a transaction is created or
	// updated without an explicit category.
	DefaultCategory = "Other"
)

type Transaction struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"-"`
	Amount    float64   `json:"amount"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateParams struct {
	ID       string
	UserID   int64
	Amount   float64
	Type     string
	Category string
	Date     time.Time
	Note     string
}

// UpdateParams is a partial update. Nil fields are left unchanged by the
// repository; the service layer decides which omissions get defaults.
type UpdateParams struct {
	Amount   *float64
	Type     *string
	Category *string
	Date     *time.Time
	Note     *string
}

// Filter narrows a listing. All set fields must match (conjunctive).
type Filter struct {
	Type      string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// Page is one page of a date-descending listing.
type Page struct {
	Items       []Transaction `json:"data"`
	Count       int           `json:"count"`
	Total       int           `json:"total"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

// Summary holds the all-time totals for a user.
type Summary struct {
	Income  float64 `json:"totalIncome"`
	Expense float64 `json:"totalExpense"`
	Balance float64 `json:"balance"`
}

// CategoryTotal is an aggregate of one category's transactions of a single
// type, ordered by the repository from largest to smallest total.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// MonthTotal is a per-calendar-month aggregate of both transaction types.
type MonthTotal struct {
	Year    int
	Month   time.Month
	Income  float64
	Expense float64
}
