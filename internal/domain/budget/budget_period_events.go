package budget

import (
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriodCreatedEvent is raised when a budget period is created
type BudgetPeriodCreatedEvent struct {
	shared.BaseDomainEvent
	PeriodID  uuid.UUID `json:"period_id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
}

// EventType returns the event type name
func (e *BudgetPeriodCreatedEvent) EventType() string {
	return "BudgetPeriodCreated"
}

// NewBudgetPeriodCreatedEvent creates a new BudgetPeriodCreatedEvent
func NewBudgetPeriodCreatedEvent(p *BudgetPeriod) *BudgetPeriodCreatedEvent {
	return &BudgetPeriodCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetPeriodCreated", "BudgetPeriod", p.ID),
		PeriodID:        p.ID,
		Name:            p.Name,
		StartDate:       p.StartDate.Format("2006-01-02"),
		EndDate:         p.EndDate.Format("2006-01-02"),
	}
}

// BudgetPeriodConfirmedEvent is raised when a budget period is confirmed
type BudgetPeriodConfirmedEvent struct {
	shared.BaseDomainEvent
	PeriodID  uuid.UUID `json:"period_id"`
	Name      string    `json:"name"`
	LineCount int       `json:"line_count"`
}

// EventType returns the event type name
func (e *BudgetPeriodConfirmedEvent) EventType() string {
	return "BudgetPeriodConfirmed"
}

// NewBudgetPeriodConfirmedEvent creates a new BudgetPeriodConfirmedEvent
func NewBudgetPeriodConfirmedEvent(p *BudgetPeriod) *BudgetPeriodConfirmedEvent {
	return &BudgetPeriodConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetPeriodConfirmed", "BudgetPeriod", p.ID),
		PeriodID:        p.ID,
		Name:            p.Name,
		LineCount:       len(p.Lines),
	}
}

// BudgetPeriodRevisedEvent is raised when a confirmed budget period is
// frozen and a draft revision is spawned
type BudgetPeriodRevisedEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID `json:"period_id"`
	Name       string    `json:"name"`
	RevisionID uuid.UUID `json:"revision_id"`
}

// EventType returns the event type name
func (e *BudgetPeriodRevisedEvent) EventType() string {
	return "BudgetPeriodRevised"
}

// NewBudgetPeriodRevisedEvent creates a new BudgetPeriodRevisedEvent
func NewBudgetPeriodRevisedEvent(period, revision *BudgetPeriod) *BudgetPeriodRevisedEvent {
	return &BudgetPeriodRevisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetPeriodRevised", "BudgetPeriod", period.ID),
		PeriodID:        period.ID,
		Name:            period.Name,
		RevisionID:      revision.ID,
	}
}

// BudgetExceededEvent is raised when a document line pushes an
// analytic's projected spend past its budgeted amount
type BudgetExceededEvent struct {
	shared.BaseDomainEvent
	PeriodID       uuid.UUID       `json:"period_id"`
	AnalyticID     uuid.UUID       `json:"analytic_id"`
	AnalyticName   string          `json:"analytic_name"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	ProjectedTotal decimal.Decimal `json:"projected_total"`
}

// EventType returns the event type name
func (e *BudgetExceededEvent) EventType() string {
	return "BudgetExceeded"
}

// NewBudgetExceededEvent creates a new BudgetExceededEvent
func NewBudgetExceededEvent(period *BudgetPeriod, line *BudgetLine, projectedTotal decimal.Decimal) *BudgetExceededEvent {
	return &BudgetExceededEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetExceeded", "BudgetPeriod", period.ID),
		PeriodID:        period.ID,
		AnalyticID:      line.AnalyticID,
		AnalyticName:    line.AnalyticName,
		BudgetedAmount:  line.BudgetedAmount,
		ProjectedTotal:  projectedTotal,
	}
}
