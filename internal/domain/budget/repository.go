package budget

import (
	"context"
	"time"

	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AnalyticRepository defines the interface for budget analytic persistence
type AnalyticRepository interface {
	Save(ctx context.Context, analytic *Analytic) error
	FindByID(ctx context.Context, id uuid.UUID) (*Analytic, error)
	FindByName(ctx context.Context, name string) (*Analytic, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Analytic], error)
	FindAssignable(ctx context.Context, date time.Time) ([]*Analytic, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AutoAssignRuleRepository defines the interface for auto-assign rule persistence
type AutoAssignRuleRepository interface {
	Save(ctx context.Context, rule *AutoAssignRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*AutoAssignRule, error)
	FindActive(ctx context.Context) ([]*AutoAssignRule, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*AutoAssignRule], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BudgetPeriodRepository defines the interface for budget period persistence
type BudgetPeriodRepository interface {
	Save(ctx context.Context, period *BudgetPeriod) error
	// SaveWithLock persists the period only if the stored version matches,
	// returning shared.ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, period *BudgetPeriod, expectedVersion int) error
	FindByID(ctx context.Context, id uuid.UUID) (*BudgetPeriod, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*BudgetPeriod], error)
	// FindConfirmedCovering returns confirmed periods whose date range
	// contains the given date
	FindConfirmedCovering(ctx context.Context, date time.Time) ([]*BudgetPeriod, error)
	// FindConfirmedByAnalytic returns confirmed periods holding a line
	// for the given analytic and covering the given date
	FindConfirmedByAnalytic(ctx context.Context, analyticID uuid.UUID, date time.Time) ([]*BudgetPeriod, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
