package budget

import (
	"context"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BudgetAlertHandler surfaces budget exceedances in the logs. The
// exceedance itself is advisory, so the handler never blocks anything.
type BudgetAlertHandler struct {
	logger *zap.Logger
}

// NewBudgetAlertHandler creates a new BudgetAlertHandler
func NewBudgetAlertHandler(logger *zap.Logger) *BudgetAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BudgetAlertHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *BudgetAlertHandler) EventTypes() []string {
	return []string{"BudgetExceeded"}
}

// Handle logs the exceedance with the analytic and the projected overshoot
func (h *BudgetAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	exceeded, ok := event.(*budget.BudgetExceededEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("budget exceeded",
		zap.String("period_id", exceeded.PeriodID.String()),
		zap.String("analytic_id", exceeded.AnalyticID.String()),
		zap.String("analytic", exceeded.AnalyticName),
		zap.String("budgeted", exceeded.BudgetedAmount.String()),
		zap.String("projected", exceeded.ProjectedTotal.String()),
	)
	return nil
}

// Ensure BudgetAlertHandler implements EventHandler
var _ shared.EventHandler = (*BudgetAlertHandler)(nil)
