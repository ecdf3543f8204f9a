package budget

import (
	"context"
	"testing"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assignableAnalytic(t *testing.T, name string) *budget.Analytic {
	t.Helper()
	analytic, err := budget.NewAnalytic(name, budget.AnalyticTypeExpense)
	require.NoError(t, err)
	require.NoError(t, analytic.Confirm())
	analytic.ClearDomainEvents()
	return analytic
}

func TestBudgetServiceCreate(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("creates draft with resolved analytic lines", func(t *testing.T) {
		analytic := assignableAnalytic(t, "Deepawali Promotion")

		analytics := new(MockAnalyticRepository)
		analytics.On("FindByID", ctx, analytic.ID).Return(analytic, nil)

		budgets := new(MockBudgetPeriodRepository)
		budgets.On("Save", ctx, mock.AnythingOfType("*budget.BudgetPeriod")).Return(nil)

		svc := NewBudgetService(budgets, analytics)
		resp, err := svc.Create(ctx, CreateBudgetRequest{
			Name:      "FY 2026-27 Q3",
			StartDate: start,
			EndDate:   end,
			Lines: []BudgetLineInput{
				{AnalyticID: analytic.ID, BudgetedAmount: decimal.NewFromInt(280000)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "draft", resp.Status)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Deepawali Promotion", resp.Lines[0].AnalyticName)
		assert.True(t, resp.Lines[0].BudgetedAmount.Equal(decimal.NewFromInt(280000)))
		require.NotNil(t, resp.Lines[0].AchievedPercent)
		assert.True(t, resp.Lines[0].AchievedPercent.IsZero())
	})

	t.Run("refuses archived analytic", func(t *testing.T) {
		analytic := assignableAnalytic(t, "Deepawali Promotion")
		require.NoError(t, analytic.Archive())

		analytics := new(MockAnalyticRepository)
		analytics.On("FindByID", ctx, analytic.ID).Return(analytic, nil)

		svc := NewBudgetService(new(MockBudgetPeriodRepository), analytics)
		_, err := svc.Create(ctx, CreateBudgetRequest{
			Name:      "FY 2026-27 Q3",
			StartDate: start,
			EndDate:   end,
			Lines: []BudgetLineInput{
				{AnalyticID: analytic.ID, BudgetedAmount: decimal.NewFromInt(1)},
			},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "archived")
	})
}

func TestBudgetServiceRevise(t *testing.T) {
	ctx := context.Background()
	analytic := assignableAnalytic(t, "Deepawali Promotion")

	period, err := budget.NewBudgetPeriod("FY 2026-27 Q3",
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = period.AddLine(analytic.ID, analytic.Name, analytic.Type, decimal.NewFromInt(280000))
	require.NoError(t, err)
	require.NoError(t, period.Confirm())
	period.ClearDomainEvents()

	budgets := new(MockBudgetPeriodRepository)
	budgets.On("FindByID", ctx, period.ID).Return(period, nil)
	budgets.On("Save", ctx, mock.AnythingOfType("*budget.BudgetPeriod")).Return(nil)

	svc := NewBudgetService(budgets, new(MockAnalyticRepository))
	resp, err := svc.Revise(ctx, period.ID)
	require.NoError(t, err)

	assert.Equal(t, "draft", resp.Status)
	assert.True(t, resp.IsRevised)
	require.NotNil(t, resp.OriginalID)
	assert.Equal(t, period.ID, *resp.OriginalID)
	assert.Equal(t, budget.BudgetPeriodStatusRevised, period.Status)
	budgets.AssertNumberOfCalls(t, "Save", 2)
}

func TestBudgetServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a draft", func(t *testing.T) {
		period, err := budget.NewBudgetPeriod("Scratch", time.Now(), time.Now().AddDate(0, 1, 0))
		require.NoError(t, err)

		budgets := new(MockBudgetPeriodRepository)
		budgets.On("FindByID", ctx, period.ID).Return(period, nil)
		budgets.On("Delete", ctx, period.ID).Return(nil)

		svc := NewBudgetService(budgets, new(MockAnalyticRepository))
		require.NoError(t, svc.Delete(ctx, period.ID))
		budgets.AssertExpectations(t)
	})

	t.Run("refuses a confirmed budget", func(t *testing.T) {
		period, err := budget.NewBudgetPeriod("Live", time.Now(), time.Now().AddDate(0, 1, 0))
		require.NoError(t, err)
		_, err = period.AddLine(uuid.New(), "Office Rent", budget.AnalyticTypeExpense, decimal.NewFromInt(50000))
		require.NoError(t, err)
		require.NoError(t, period.Confirm())

		budgets := new(MockBudgetPeriodRepository)
		budgets.On("FindByID", ctx, period.ID).Return(period, nil)

		svc := NewBudgetService(budgets, new(MockAnalyticRepository))
		err = svc.Delete(ctx, period.ID)
		require.Error(t, err)
		budgets.AssertNotCalled(t, "Delete")
	})
}

func TestBudgetServiceAnalyticDetails(t *testing.T) {
	ctx := context.Background()
	analyticID := uuid.New()

	period, err := budget.NewBudgetPeriod("FY 2026-27 Q3",
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = period.AddLine(analyticID, "Deepawali Promotion", budget.AnalyticTypeExpense, decimal.NewFromInt(280000))
	require.NoError(t, err)
	require.NoError(t, period.Confirm())
	require.NoError(t, period.ApplyAchievement(analyticID, decimal.NewFromInt(16350)))

	budgets := new(MockBudgetPeriodRepository)
	budgets.On("FindByID", ctx, period.ID).Return(period, nil)

	svc := NewBudgetService(budgets, new(MockAnalyticRepository))

	t.Run("returns derived figures", func(t *testing.T) {
		details, err := svc.AnalyticDetails(ctx, period.ID, analyticID)
		require.NoError(t, err)

		assert.True(t, details.AchievedAmount.Equal(decimal.NewFromInt(16350)))
		assert.True(t, details.AmountToAchieve.Equal(decimal.NewFromInt(263650)))
		require.NotNil(t, details.AchievedPercent)
		diff := details.AchievedPercent.Sub(decimal.NewFromFloat(5.84)).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)))
	})

	t.Run("unknown analytic errors", func(t *testing.T) {
		_, err := svc.AnalyticDetails(ctx, period.ID, uuid.New())
		require.Error(t, err)
	})
}
