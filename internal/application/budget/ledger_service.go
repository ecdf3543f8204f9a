package budget

import (
	"context"
	"errors"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxSaveRetries bounds the optimistic-lock retry loop when two
// documents hit the same budget line at once
const maxSaveRetries = 3

// LedgerService maintains the achieved amounts on confirmed budget
// periods and answers exceedance checks. Checking never blocks an
// operation; exceeding a budget is reported as a flag only.
type LedgerService struct {
	budgetRepo     budget.BudgetPeriodRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(budgetRepo budget.BudgetPeriodRepository, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{budgetRepo: budgetRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CheckBudget reports whether adding the amount would push the
// analytic past its budget in any confirmed period covering the date.
// It is a pure read: checking twice for the same document changes
// nothing and returns the same answer.
func (s *LedgerService) CheckBudget(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) (*BudgetCheckResult, error) {
	result := &BudgetCheckResult{AnalyticID: analyticID}

	periods, err := s.budgetRepo.FindConfirmedByAnalytic(ctx, analyticID, date)
	if err != nil {
		return nil, err
	}

	for _, period := range periods {
		line := period.GetLine(analyticID)
		if line == nil {
			continue
		}
		projected := line.AchievedAmount.Add(amount)
		if projected.GreaterThan(line.BudgetedAmount) {
			periodID := period.ID
			budgeted := line.BudgetedAmount
			achieved := line.AchievedAmount
			result.Exceeded = true
			result.PeriodID = &periodID
			result.PeriodName = period.Name
			result.BudgetedAmount = &budgeted
			result.AchievedAmount = &achieved
			result.ProjectedTotal = &projected

			if s.eventPublisher != nil {
				_ = s.eventPublisher.Publish(ctx, budget.NewBudgetExceededEvent(period, line, projected))
			}
			break
		}
	}

	return result, nil
}

// RecordAchievement adds a confirmed document-line amount to every
// confirmed budget period covering the date that carries the analytic
func (s *LedgerService) RecordAchievement(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) error {
	return s.adjust(ctx, analyticID, date, func(period *budget.BudgetPeriod) error {
		return period.ApplyAchievement(analyticID, amount)
	})
}

// ReverseAchievement backs a previously recorded amount out again,
// used when a confirmed document is cancelled
func (s *LedgerService) ReverseAchievement(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) error {
	return s.adjust(ctx, analyticID, date, func(period *budget.BudgetPeriod) error {
		return period.ReverseAchievement(analyticID, amount)
	})
}

func (s *LedgerService) adjust(ctx context.Context, analyticID uuid.UUID, date time.Time, op func(*budget.BudgetPeriod) error) error {
	periods, err := s.budgetRepo.FindConfirmedByAnalytic(ctx, analyticID, date)
	if err != nil {
		return err
	}

	for _, period := range periods {
		if err := s.adjustPeriod(ctx, period, op); err != nil {
			return err
		}
	}
	return nil
}

// adjustPeriod applies the mutation under optimistic locking,
// re-reading and retrying a bounded number of times on version
// conflicts
func (s *LedgerService) adjustPeriod(ctx context.Context, period *budget.BudgetPeriod, op func(*budget.BudgetPeriod) error) error {
	current := period
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		expectedVersion := current.GetVersion()
		if err := op(current); err != nil {
			return err
		}
		err := s.budgetRepo.SaveWithLock(ctx, current, expectedVersion)
		if err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}

		s.logger.Debug("budget ledger version conflict, retrying",
			zap.String("period_id", current.ID.String()),
			zap.Int("attempt", attempt+1))

		current, err = s.budgetRepo.FindByID(ctx, current.ID)
		if err != nil {
			return err
		}
	}
	return shared.ErrConcurrencyConflict
}
