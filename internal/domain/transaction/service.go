package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const defaultPageSize = 10

// ValidationError reports malformed transaction input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service contains the business logic for transaction operations
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new transaction for the user.
func (s *Service) Create(ctx context.Context, userID int64, params CreateParams) (*Transaction, error) {
	if params.Amount < 0 {
		return nil, &ValidationError{Message: "Amount must be a positive number"}
	}
	if params.Type != TypeIncome && params.Type != TypeExpense {
		return nil, &ValidationError{Message: "Type must be either income or expense"}
	}
	if params.Category == "" {
		params.Category = DefaultCategory
	}
	if params.Date.IsZero() {
		params.Date = time.Now()
	}

	params.ID = uuid.New().String()
	params.UserID = userID

	return s.repo.Create(ctx, params)
}

// Get returns one of the user's transactions by id.
func (s *Service) Get(ctx context.Context, userID int64, id string) (*Transaction, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List returns one page of the user's transactions, newest first. Page
// numbers start at 1; out-of-range values fall back to the defaults.
func (s *Service) List(ctx context.Context, userID int64, filter Filter, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total, err := s.repo.Count(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, userID, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Transaction{}
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &Page{
		Items:       items,
		Count:       len(items),
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// Update applies a partial update to one of the user's transactions. An
// omitted category resets to the default rather than being preserved; an
// omitted type keeps its stored value.
func (s *Service) Update(ctx context.Context, userID int64, id string, params UpdateParams) (*Transaction, error) {
	if params.Amount != nil && *params.Amount < 0 {
		return nil, &ValidationError{Message: "Amount must be a positive number"}
	}
	if params.Type != nil && *params.Type != TypeIncome && *params.Type != TypeExpense {
		return nil, &ValidationError{Message: "Type must be either income or expense"}
	}
	if params.Category == nil {
		category := DefaultCategory
		params.Category = &category
	}

	return s.repo.Update(ctx, userID, id, params)
}

// Delete removes one of the user's transactions.
func (s *Service) Delete(ctx context.Context, userID int64, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Summary returns income, expense and balance totals over the filtered set.
func (s *Service) Summary(ctx context.Context, userID int64, filter Filter) (*Summary, error) {
	return s.repo.Summary(ctx, userID, filter)
}
