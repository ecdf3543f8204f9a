package budget

import (
	"context"
	"testing"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func confirmedDeepawaliPeriod(t *testing.T, analyticID uuid.UUID, budgeted, achieved int64) *budget.BudgetPeriod {
	t.Helper()
	period, err := budget.NewBudgetPeriod("FY 2026-27 Q3",
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = period.AddLine(analyticID, "Deepawali Promotion", budget.AnalyticTypeExpense, decimal.NewFromInt(budgeted))
	require.NoError(t, err)
	require.NoError(t, period.Confirm())
	if achieved > 0 {
		require.NoError(t, period.ApplyAchievement(analyticID, decimal.NewFromInt(achieved)))
	}
	period.ClearDomainEvents()
	return period
}

func TestLedgerServiceCheckBudget(t *testing.T) {
	ctx := context.Background()
	analyticID := uuid.New()
	date := time.Date(2026, 11, 9, 0, 0, 0, 0, time.UTC)

	t.Run("within budget", func(t *testing.T) {
		period := confirmedDeepawaliPeriod(t, analyticID, 280000, 0)
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{period}, nil)

		svc := NewLedgerService(repo, zap.NewNop())
		result, err := svc.CheckBudget(ctx, analyticID, decimal.NewFromInt(16350), date)
		require.NoError(t, err)
		assert.False(t, result.Exceeded)
		assert.Nil(t, result.PeriodID)
	})

	t.Run("exceedance is a flag, never an error", func(t *testing.T) {
		period := confirmedDeepawaliPeriod(t, analyticID, 280000, 270000)
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{period}, nil)

		svc := NewLedgerService(repo, zap.NewNop())
		result, err := svc.CheckBudget(ctx, analyticID, decimal.NewFromInt(16350), date)
		require.NoError(t, err)
		assert.True(t, result.Exceeded)
		require.NotNil(t, result.ProjectedTotal)
		assert.True(t, result.ProjectedTotal.Equal(decimal.NewFromInt(286350)))
		assert.Equal(t, "FY 2026-27 Q3", result.PeriodName)
	})

	t.Run("spending exactly to the limit is not exceedance", func(t *testing.T) {
		period := confirmedDeepawaliPeriod(t, analyticID, 280000, 263650)
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{period}, nil)

		svc := NewLedgerService(repo, zap.NewNop())
		result, err := svc.CheckBudget(ctx, analyticID, decimal.NewFromInt(16350), date)
		require.NoError(t, err)
		assert.False(t, result.Exceeded)
	})

	t.Run("no covering budget means no warning", func(t *testing.T) {
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{}, nil)

		svc := NewLedgerService(repo, zap.NewNop())
		result, err := svc.CheckBudget(ctx, analyticID, decimal.NewFromInt(1000000), date)
		require.NoError(t, err)
		assert.False(t, result.Exceeded)
	})

	t.Run("checking is idempotent", func(t *testing.T) {
		period := confirmedDeepawaliPeriod(t, analyticID, 280000, 270000)
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{period}, nil)

		svc := NewLedgerService(repo, zap.NewNop())
		first, err := svc.CheckBudget(ctx, analyticID, decimal.NewFromInt(16350), date)
		require.NoError(t, err)
		second, err := svc.CheckBudget(ctx, analyticID, decimal.NewFromInt(16350), date)
		require.NoError(t, err)

		assert.Equal(t, first.Exceeded, second.Exceeded)
		assert.True(t, period.GetLine(analyticID).AchievedAmount.Equal(decimal.NewFromInt(270000)))
		repo.AssertNotCalled(t, "Save")
		repo.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestLedgerServiceRecordAchievement(t *testing.T) {
	ctx := context.Background()
	analyticID := uuid.New()
	date := time.Date(2026, 11, 9, 0, 0, 0, 0, time.UTC)

	t.Run("records against the covering period", func(t *testing.T) {
		period := confirmedDeepawaliPeriod(t, analyticID, 280000, 0)
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{period}, nil)
		repo.On("SaveWithLock", ctx, period, mock.AnythingOfType("int")).Return(nil)

		svc := NewLedgerService(repo, zap.NewNop())
		err := svc.RecordAchievement(ctx, analyticID, decimal.NewFromInt(16350), date)
		require.NoError(t, err)

		line := period.GetLine(analyticID)
		assert.True(t, line.AchievedAmount.Equal(decimal.NewFromInt(16350)))
		assert.True(t, line.AmountToAchieve().Equal(decimal.NewFromInt(263650)))
		repo.AssertExpectations(t)
	})

	t.Run("retries once on version conflict", func(t *testing.T) {
		stale := confirmedDeepawaliPeriod(t, analyticID, 280000, 0)
		fresh := confirmedDeepawaliPeriod(t, analyticID, 280000, 5000)

		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{stale}, nil)
		repo.On("SaveWithLock", ctx, stale, mock.AnythingOfType("int")).
			Return(shared.ErrConcurrencyConflict).Once()
		repo.On("FindByID", ctx, stale.ID).Return(fresh, nil).Once()
		repo.On("SaveWithLock", ctx, fresh, mock.AnythingOfType("int")).Return(nil).Once()

		svc := NewLedgerService(repo, zap.NewNop())
		err := svc.RecordAchievement(ctx, analyticID, decimal.NewFromInt(16350), date)
		require.NoError(t, err)

		assert.True(t, fresh.GetLine(analyticID).AchievedAmount.Equal(decimal.NewFromInt(21350)))
		repo.AssertExpectations(t)
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		period := confirmedDeepawaliPeriod(t, analyticID, 280000, 0)
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{period}, nil)
		repo.On("SaveWithLock", ctx, mock.Anything, mock.AnythingOfType("int")).
			Return(shared.ErrConcurrencyConflict)
		repo.On("FindByID", ctx, period.ID).Return(period, nil)

		svc := NewLedgerService(repo, zap.NewNop())
		err := svc.RecordAchievement(ctx, analyticID, decimal.NewFromInt(100), date)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestLedgerServiceReverseAchievement(t *testing.T) {
	ctx := context.Background()
	analyticID := uuid.New()
	date := time.Date(2026, 11, 9, 0, 0, 0, 0, time.UTC)

	t.Run("reverses a recorded amount", func(t *testing.T) {
		period := confirmedDeepawaliPeriod(t, analyticID, 280000, 16350)
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{period}, nil)
		repo.On("SaveWithLock", ctx, period, mock.AnythingOfType("int")).Return(nil)

		svc := NewLedgerService(repo, zap.NewNop())
		err := svc.ReverseAchievement(ctx, analyticID, decimal.NewFromInt(16350), date)
		require.NoError(t, err)
		assert.True(t, period.GetLine(analyticID).AchievedAmount.IsZero())
	})

	t.Run("reversal floors at zero", func(t *testing.T) {
		period := confirmedDeepawaliPeriod(t, analyticID, 280000, 100)
		repo := new(MockBudgetPeriodRepository)
		repo.On("FindConfirmedByAnalytic", ctx, analyticID, date).
			Return([]*budget.BudgetPeriod{period}, nil)
		repo.On("SaveWithLock", ctx, period, mock.AnythingOfType("int")).Return(nil)

		svc := NewLedgerService(repo, zap.NewNop())
		err := svc.ReverseAchievement(ctx, analyticID, decimal.NewFromInt(500), date)
		require.NoError(t, err)
		assert.True(t, period.GetLine(analyticID).AchievedAmount.IsZero())
	})
}
