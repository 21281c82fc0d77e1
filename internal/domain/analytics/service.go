package analytics

import (
	"context"
	"fmt"
	"time"

	"expensez/internal/domain/transaction"
)

const recentLimit = 10

// Totals is an income/expense/balance triple over some window.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// RecentTransaction is the trimmed projection used in the stats payload.
type RecentTransaction struct {
	ID       string    `json:"id"`
	Amount   float64   `json:"amount"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
	Note     string    `json:"note"`
	Category string    `json:"category"`
}

// CategoryTotal is one category's aggregate within a stats breakdown.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Stats is the lifetime dashboard payload.
type Stats struct {
	Totals               Totals              `json:"totals"`
	RecentTransactions   []RecentTransaction `json:"recentTransactions"`
	SpendingByCategories []CategoryTotal     `json:"spendingByCategories"`
	IncomeByCategories   []CategoryTotal     `json:"incomeByCategories"`
}

// MonthStat is one calendar month of the analytics window.
type MonthStat struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// WindowSummary totals the six-month analytics window.
type WindowSummary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

// SpendingTotal is one category's expense aggregate within the window.
type SpendingTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Analytics is the six-month trend payload.
type Analytics struct {
	MonthlyStats         []MonthStat     `json:"monthlyStats"`
	SpendingByCategories []SpendingTotal `json:"spendingByCategories"`
	Summary              WindowSummary   `json:"summary"`
}

// Service derives dashboard aggregates from the transaction store. It holds
// no state of its own.
type Service struct {
	transactions transaction.Repository

	// now is swapped out in tests to pin the month window.
	now func() time.Time
}

func NewService(transactions transaction.Repository) *Service {
	return &Service{transactions: transactions, now: time.Now}
}

// UserStats assembles the lifetime dashboard: overall totals, the ten most
// recent transactions and per-category breakdowns for both types.
func (s *Service) UserStats(ctx context.Context, userID int64) (*Stats, error) {
	summary, err := s.transactions.Summary(ctx, userID, transaction.Filter{})
	if err != nil {
		return nil, err
	}

	recent, err := s.transactions.Recent(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}

	spending, err := s.transactions.CategoryTotals(ctx, userID, transaction.TypeExpense, nil)
	if err != nil {
		return nil, err
	}

	income, err := s.transactions.CategoryTotals(ctx, userID, transaction.TypeIncome, nil)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Totals: Totals{
			Income:  summary.Income,
			Expense: summary.Expense,
			Balance: summary.Balance,
		},
		RecentTransactions:   make([]RecentTransaction, 0, len(recent)),
		SpendingByCategories: make([]CategoryTotal, 0, len(spending)),
		IncomeByCategories:   make([]CategoryTotal, 0, len(income)),
	}

	for _, t := range recent {
		stats.RecentTransactions = append(stats.RecentTransactions, RecentTransaction{
			ID:       t.ID,
			Amount:   t.Amount,
			Type:     t.Type,
			Date:     t.Date,
			Note:     t.Note,
			Category: t.Category,
		})
	}
	for _, c := range spending {
		stats.SpendingByCategories = append(stats.SpendingByCategories, CategoryTotal{Name: c.Category, Total: c.Total})
	}
	for _, c := range income {
		stats.IncomeByCategories = append(stats.IncomeByCategories, CategoryTotal{Name: c.Category, Total: c.Total})
	}

	return stats, nil
}

// Monthly assembles the six-month trend: exactly six chronological month
// buckets ending with the current month, zero-filled where the user had no
// activity, plus windowed spending categories and a window summary.
func (s *Service) Monthly(ctx context.Context, userID int64) (*Analytics, error) {
	now := s.now()
	cutoff := now.AddDate(0, -6, 0)

	byMonth, err := s.transactions.MonthlyTotals(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]transaction.MonthTotal, len(byMonth))
	for _, m := range byMonth {
		totals[monthKey(m.Year, m.Month)] = m
	}

	monthly := make([]MonthStat, 0, 6)
	year, month := now.Year(), int(now.Month())
	for i := 5; i >= 0; i-- {
		y, m := year, month-i
		for m < 1 {
			m += 12
			y--
		}
		key := monthKey(y, time.Month(m))
		bucket := totals[key]
		monthly = append(monthly, MonthStat{
			Month:   key,
			Income:  bucket.Income,
			Expense: bucket.Expense,
			Balance: bucket.Income - bucket.Expense,
		})
	}

	spending, err := s.transactions.CategoryTotals(ctx, userID, transaction.TypeExpense, &cutoff)
	if err != nil {
		return nil, err
	}
	spendingTotals := make([]SpendingTotal, 0, len(spending))
	for _, c := range spending {
		spendingTotals = append(spendingTotals, SpendingTotal{Category: c.Category, Total: c.Total})
	}

	summary, err := s.transactions.Summary(ctx, userID, transaction.Filter{StartDate: &cutoff})
	if err != nil {
		return nil, err
	}

	return &Analytics{
		MonthlyStats:         monthly,
		SpendingByCategories: spendingTotals,
		Summary: WindowSummary{
			TotalIncome:  summary.Income,
			TotalExpense: summary.Expense,
			Balance:      summary.Balance,
		},
	}, nil
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d", year, int(month))
}
