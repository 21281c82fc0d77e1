package transaction

import (
	"context"
	"errors"
	"testing"
	"time"
)

// MockRepository implements Repository with overridable functions
type MockRepository struct {
	CreateFunc         func(ctx context.Context, params CreateParams) (*Transaction, error)
	GetByIDFunc        func(ctx context.Context, userID int64, id string) (*Transaction, error)
	ListFunc           func(ctx context.Context, userID int64, filter Filter, limit, offset int) ([]Transaction, error)
	CountFunc          func(ctx context.Context, userID int64, filter Filter) (int, error)
	UpdateFunc         func(ctx context.Context, userID int64, id string, params UpdateParams) (*Transaction, error)
	DeleteFunc         func(ctx context.Context, userID int64, id string) error
	SummaryFunc        func(ctx context.Context, userID int64, filter Filter) (*Summary, error)
	RecentFunc         func(ctx context.Context, userID int64, limit int) ([]Transaction, error)
	CategoryTotalsFunc func(ctx context.Context, userID int64, txType string, since *time.Time) ([]CategoryTotal, error)
	MonthlyTotalsFunc  func(ctx context.Context, userID int64, since time.Time) ([]MonthTotal, error)
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	return m.CreateFunc(ctx, params)
}

func (m *MockRepository) GetByID(ctx context.Context, userID int64, id string) (*Transaction, error) {
	return m.GetByIDFunc(ctx, userID, id)
}

func (m *MockRepository) List(ctx context.Context, userID int64, filter Filter, limit, offset int) ([]Transaction, error) {
	return m.ListFunc(ctx, userID, filter, limit, offset)
}

func (m *MockRepository) Count(ctx context.Context, userID int64, filter Filter) (int, error) {
	return m.CountFunc(ctx, userID, filter)
}

func (m *MockRepository) Update(ctx context.Context, userID int64, id string, params UpdateParams) (*Transaction, error) {
	return m.UpdateFunc(ctx, userID, id, params)
}

func (m *MockRepository) Delete(ctx context.Context, userID int64, id string) error {
	return m.DeleteFunc(ctx, userID, id)
}

func (m *MockRepository) Summary(ctx context.Context, userID int64, filter Filter) (*Summary, error) {
	return m.SummaryFunc(ctx, userID, filter)
}

func (m *MockRepository) Recent(ctx context.Context, userID int64, limit int) ([]Transaction, error) {
	return m.RecentFunc(ctx, userID, limit)
}

func (m *MockRepository) CategoryTotals(ctx context.Context, userID int64, txType string, since *time.Time) ([]CategoryTotal, error) {
	return m.CategoryTotalsFunc(ctx, userID, txType, since)
}

func (m *MockRepository) MonthlyTotals(ctx context.Context, userID int64, since time.Time) ([]MonthTotal, error) {
	return m.MonthlyTotalsFunc(ctx, userID, since)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateParams
		wantErr bool
	}{
		{
			name:    "negative amount",
			params:  CreateParams{Amount: -10, Type: TypeExpense},
			wantErr: true,
		},
		{
			name:    "zero amount is allowed",
			params:  CreateParams{Amount: 0, Type: TypeExpense},
			wantErr: false,
		},
		{
			name:    "missing type",
			params:  CreateParams{Amount: 10},
			wantErr: true,
		},
		{
			name:    "unknown type",
			params:  CreateParams{Amount: 10, Type: "transfer"},
			wantErr: true,
		},
		{
			name:    "valid income",
			params:  CreateParams{Amount: 10, Type: TypeIncome},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				CreateFunc: func(ctx context.Context, params CreateParams) (*Transaction, error) {
					return &Transaction{ID: params.ID, Amount: params.Amount, Type: params.Type, Category: params.Category, Date: params.Date}, nil
				},
			}
			service := NewService(repo)

			_, err := service.Create(context.Background(), 1, tt.params)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	var got CreateParams
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateParams) (*Transaction, error) {
			got = params
			return &Transaction{ID: params.ID}, nil
		},
	}
	service := NewService(repo)

	before := time.Now()
	_, err := service.Create(context.Background(), 7, CreateParams{Amount: 25, Type: TypeExpense})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Category != DefaultCategory {
		t.Errorf("expected category %q, got %q", DefaultCategory, got.Category)
	}
	if got.Date.Before(before) {
		t.Errorf("expected date to default to now, got %v", got.Date)
	}
	if got.ID == "" {
		t.Error("expected a generated id")
	}
	if got.UserID != 7 {
		t.Errorf("expected user id 7, got %d", got.UserID)
	}
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateParams) (*Transaction, error) {
			seen[params.ID] = true
			return &Transaction{ID: params.ID}, nil
		},
	}
	service := NewService(repo)

	for i := 0; i < 10; i++ {
		if _, err := service.Create(context.Background(), 1, CreateParams{Amount: 1, Type: TypeIncome}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(seen) != 10 {
		t.Errorf("expected 10 distinct ids, got %d", len(seen))
	}
}

func TestListPagination(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		pageSize    int
		total       int
		wantOffset  int
		wantLimit   int
		wantPages   int
		wantCurrent int
	}{
		{
			name:        "defaults",
			page:        0,
			pageSize:    0,
			total:       25,
			wantOffset:  0,
			wantLimit:   10,
			wantPages:   3,
			wantCurrent: 1,
		},
		{
			name:        "second page",
			page:        2,
			pageSize:    10,
			total:       25,
			wantOffset:  10,
			wantLimit:   10,
			wantPages:   3,
			wantCurrent: 2,
		},
		{
			name:        "exact multiple",
			page:        1,
			pageSize:    5,
			total:       20,
			wantOffset:  0,
			wantLimit:   5,
			wantPages:   4,
			wantCurrent: 1,
		},
		{
			name:        "empty set",
			page:        1,
			pageSize:    10,
			total:       0,
			wantOffset:  0,
			wantLimit:   10,
			wantPages:   0,
			wantCurrent: 1,
		},
		{
			name:        "negative page falls back to first",
			page:        -3,
			pageSize:    10,
			total:       5,
			wantOffset:  0,
			wantLimit:   10,
			wantPages:   1,
			wantCurrent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit, gotOffset int
			repo := &MockRepository{
				CountFunc: func(ctx context.Context, userID int64, filter Filter) (int, error) {
					return tt.total, nil
				},
				ListFunc: func(ctx context.Context, userID int64, filter Filter, limit, offset int) ([]Transaction, error) {
					gotLimit, gotOffset = limit, offset
					return nil, nil
				},
			}
			service := NewService(repo)

			page, err := service.List(context.Background(), 1, Filter{}, tt.page, tt.pageSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if gotLimit != tt.wantLimit || gotOffset != tt.wantOffset {
				t.Errorf("expected limit/offset %d/%d, got %d/%d", tt.wantLimit, tt.wantOffset, gotLimit, gotOffset)
			}
			if page.TotalPages != tt.wantPages {
				t.Errorf("expected %d total pages, got %d", tt.wantPages, page.TotalPages)
			}
			if page.CurrentPage != tt.wantCurrent {
				t.Errorf("expected current page %d, got %d", tt.wantCurrent, page.CurrentPage)
			}
			if page.Items == nil {
				t.Error("expected a non-nil items slice")
			}
		})
	}
}

func TestUpdateResetsOmittedCategory(t *testing.T) {
	var got UpdateParams
	repo := &MockRepository{
		UpdateFunc: func(ctx context.Context, userID int64, id string, params UpdateParams) (*Transaction, error) {
			got = params
			return &Transaction{ID: id}, nil
		},
	}
	service := NewService(repo)

	amount := 50.0
	if _, err := service.Update(context.Background(), 1, "tx-1", UpdateParams{Amount: &amount}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Category == nil || *got.Category != DefaultCategory {
		t.Errorf("expected omitted category to reset to %q, got %v", DefaultCategory, got.Category)
	}
	if got.Type != nil {
		t.Errorf("expected omitted type to stay unset, got %v", *got.Type)
	}
}

func TestUpdateValidation(t *testing.T) {
	repo := &MockRepository{
		UpdateFunc: func(ctx context.Context, userID int64, id string, params UpdateParams) (*Transaction, error) {
			t.Fatal("repository should not be reached")
			return nil, nil
		},
	}
	service := NewService(repo)

	amount := -5.0
	if _, err := service.Update(context.Background(), 1, "tx-1", UpdateParams{Amount: &amount}); err == nil {
		t.Error("expected error for negative amount")
	}

	badType := "loan"
	if _, err := service.Update(context.Background(), 1, "tx-1", UpdateParams{Type: &badType}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := &MockRepository{
		UpdateFunc: func(ctx context.Context, userID int64, id string, params UpdateParams) (*Transaction, error) {
			return nil, ErrNotFound
		},
	}
	service := NewService(repo)

	_, err := service.Update(context.Background(), 1, "missing", UpdateParams{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
