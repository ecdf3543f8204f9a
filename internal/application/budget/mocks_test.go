package budget

import (
	"context"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAnalyticRepository is a mock implementation of budget.AnalyticRepository
type MockAnalyticRepository struct {
	mock.Mock
}

func (m *MockAnalyticRepository) Save(ctx context.Context, analytic *budget.Analytic) error {
	args := m.Called(ctx, analytic)
	return args.Error(0)
}

func (m *MockAnalyticRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Analytic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Analytic), args.Error(1)
}

func (m *MockAnalyticRepository) FindByName(ctx context.Context, name string) (*budget.Analytic, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Analytic), args.Error(1)
}

func (m *MockAnalyticRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*budget.Analytic], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*budget.Analytic]), args.Error(1)
}

func (m *MockAnalyticRepository) FindAssignable(ctx context.Context, date time.Time) ([]*budget.Analytic, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.Analytic), args.Error(1)
}

func (m *MockAnalyticRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBudgetPeriodRepository is a mock implementation of budget.BudgetPeriodRepository
type MockBudgetPeriodRepository struct {
	mock.Mock
}

func (m *MockBudgetPeriodRepository) Save(ctx context.Context, period *budget.BudgetPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockBudgetPeriodRepository) SaveWithLock(ctx context.Context, period *budget.BudgetPeriod, expectedVersion int) error {
	args := m.Called(ctx, period, expectedVersion)
	return args.Error(0)
}

func (m *MockBudgetPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.BudgetPeriod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.BudgetPeriod), args.Error(1)
}

func (m *MockBudgetPeriodRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*budget.BudgetPeriod], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*budget.BudgetPeriod]), args.Error(1)
}

func (m *MockBudgetPeriodRepository) FindConfirmedCovering(ctx context.Context, date time.Time) ([]*budget.BudgetPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.BudgetPeriod), args.Error(1)
}

func (m *MockBudgetPeriodRepository) FindConfirmedByAnalytic(ctx context.Context, analyticID uuid.UUID, date time.Time) ([]*budget.BudgetPeriod, error) {
	args := m.Called(ctx, analyticID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.BudgetPeriod), args.Error(1)
}

func (m *MockBudgetPeriodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
