package document

import (
	"context"
	"time"

	appbudget "github.com/budgeterp/backend/internal/application/budget"
	"github.com/budgeterp/backend/internal/application/recommend"
	"github.com/budgeterp/backend/internal/domain/document"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDocumentRepository is a mock implementation of document.Repository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *document.FinancialDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveWithLock(ctx context.Context, doc *document.FinancialDocument, expectedVersion int) error {
	args := m.Called(ctx, doc, expectedVersion)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.FinancialDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.FinancialDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindByDocumentNo(ctx context.Context, documentNo string) (*document.FinancialDocument, error) {
	args := m.Called(ctx, documentNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.FinancialDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindByKind(ctx context.Context, kind document.DocumentKind, filter shared.Filter) (*shared.Paginated[*document.FinancialDocument], error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*document.FinancialDocument]), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) NextDocumentNo(ctx context.Context, kind document.DocumentKind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}

// MockRecommender is a mock implementation of Recommender
type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, req recommend.Request) (recommend.Recommendation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(recommend.Recommendation), args.Error(1)
}

// MockBudgetLedger is a mock implementation of BudgetLedger
type MockBudgetLedger struct {
	mock.Mock
}

func (m *MockBudgetLedger) CheckBudget(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) (*appbudget.BudgetCheckResult, error) {
	args := m.Called(ctx, analyticID, amount, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbudget.BudgetCheckResult), args.Error(1)
}

func (m *MockBudgetLedger) RecordAchievement(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) error {
	args := m.Called(ctx, analyticID, amount, date)
	return args.Error(0)
}

func (m *MockBudgetLedger) ReverseAchievement(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) error {
	args := m.Called(ctx, analyticID, amount, date)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
