package recommend

import (
	"context"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/document"
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

// MockAutoAssignRuleRepository is a mock implementation of budget.AutoAssignRuleRepository
type MockAutoAssignRuleRepository struct {
	mock.Mock
}

func (m *MockAutoAssignRuleRepository) Save(ctx context.Context, rule *budget.AutoAssignRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockAutoAssignRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.AutoAssignRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.AutoAssignRule), args.Error(1)
}

func (m *MockAutoAssignRuleRepository) FindActive(ctx context.Context) ([]*budget.AutoAssignRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.AutoAssignRule), args.Error(1)
}

func (m *MockAutoAssignRuleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*budget.AutoAssignRule], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*budget.AutoAssignRule]), args.Error(1)
}

func (m *MockAutoAssignRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHistoryQuery is a mock implementation of document.HistoryQuery
type MockHistoryQuery struct {
	mock.Mock
}

func (m *MockHistoryQuery) AssignmentsForPartnerProduct(ctx context.Context, partnerID uuid.UUID, productID *uuid.UUID, productName string, since time.Time) ([]document.AssignmentObservation, error) {
	args := m.Called(ctx, partnerID, productID, productName, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.AssignmentObservation), args.Error(1)
}
