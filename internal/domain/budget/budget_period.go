package budget

import (
	"fmt"
	"time"

	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriodStatus represents the lifecycle status of a budget period
type BudgetPeriodStatus string

const (
	BudgetPeriodStatusDraft     BudgetPeriodStatus = "draft"
	BudgetPeriodStatusConfirmed BudgetPeriodStatus = "confirmed"
	BudgetPeriodStatusRevised   BudgetPeriodStatus = "revised"
	BudgetPeriodStatusCancelled BudgetPeriodStatus = "cancelled"
)

// IsValid checks if the status is a valid BudgetPeriodStatus
func (s BudgetPeriodStatus) IsValid() bool {
	switch s {
	case BudgetPeriodStatusDraft, BudgetPeriodStatusConfirmed,
		BudgetPeriodStatusRevised, BudgetPeriodStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BudgetPeriodStatus
func (s BudgetPeriodStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed.
// A revised budget is frozen read-only; its revision carries on.
func (s BudgetPeriodStatus) IsTerminal() bool {
	return s == BudgetPeriodStatusRevised || s == BudgetPeriodStatusCancelled
}

// BudgetLine holds the budgeted-vs-achieved amounts for one analytic
// within a budget period
type BudgetLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	PeriodID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AnalyticID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AnalyticName   string          `gorm:"type:varchar(200);not null"`
	Type           AnalyticType    `gorm:"type:varchar(10);not null"`
	BudgetedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AchievedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BudgetLine) TableName() string {
	return "budget_lines"
}

// NewBudgetLine creates a new budget line
func NewBudgetLine(periodID, analyticID uuid.UUID, analyticName string, lineType AnalyticType, budgeted decimal.Decimal) (*BudgetLine, error) {
	if analyticID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ANALYTIC", "Analytic ID cannot be empty")
	}
	if analyticName == "" {
		return nil, shared.NewDomainError("INVALID_ANALYTIC_NAME", "Analytic name cannot be empty")
	}
	if !lineType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Line type must be income or expense")
	}
	if budgeted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Budgeted amount cannot be negative")
	}

	now := time.Now()
	return &BudgetLine{
		ID:             uuid.New(),
		PeriodID:       periodID,
		AnalyticID:     analyticID,
		AnalyticName:   analyticName,
		Type:           lineType,
		BudgetedAmount: budgeted,
		AchievedAmount: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// RemainingAmount returns budgeted minus achieved (may be negative when overspent)
func (l *BudgetLine) RemainingAmount() decimal.Decimal {
	return l.BudgetedAmount.Sub(l.AchievedAmount)
}

// AmountToAchieve returns the remaining amount floored at zero
func (l *BudgetLine) AmountToAchieve() decimal.Decimal {
	remaining := l.RemainingAmount()
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// AchievedPercent returns achieved/budgeted as a percentage rounded to
// two places. Returns nil when the budgeted amount is zero: the ratio
// is not computable and must never be rendered as a division result.
func (l *BudgetLine) AchievedPercent() *decimal.Decimal {
	if l.BudgetedAmount.IsZero() {
		return nil
	}
	pct := l.AchievedAmount.Div(l.BudgetedAmount).Mul(decimal.NewFromInt(100)).Round(2)
	return &pct
}

// BudgetPeriod is a dated container of budgeted-vs-achieved amounts per
// analytic. Confirmed periods accumulate achievement from confirmed
// document lines; revising a confirmed period freezes it and spawns a
// linked editable copy.
type BudgetPeriod struct {
	shared.BaseAggregateRoot
	Name       string             `gorm:"type:varchar(200);not null"`
	StartDate  time.Time          `gorm:"not null;index"`
	EndDate    time.Time          `gorm:"not null;index"`
	Lines      []BudgetLine       `gorm:"foreignKey:PeriodID;references:ID"`
	Status     BudgetPeriodStatus `gorm:"type:varchar(10);not null;default:'draft';index"`
	IsRevised  bool               `gorm:"not null;default:false"`
	OriginalID *uuid.UUID         `gorm:"type:uuid;index"`
	RevisionID *uuid.UUID         `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (BudgetPeriod) TableName() string {
	return "budget_periods"
}

// NewBudgetPeriod creates a new draft budget period
func NewBudgetPeriod(name string, startDate, endDate time.Time) (*BudgetPeriod, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Budget period name cannot be empty")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}

	period := &BudgetPeriod{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		StartDate:         startDate,
		EndDate:           endDate,
		Lines:             make([]BudgetLine, 0),
		Status:            BudgetPeriodStatusDraft,
	}

	period.AddDomainEvent(NewBudgetPeriodCreatedEvent(period))

	return period, nil
}

// AddLine adds a budget line for an analytic
// Only allowed in draft status
func (p *BudgetPeriod) AddLine(analyticID uuid.UUID, analyticName string, lineType AnalyticType, budgeted decimal.Decimal) (*BudgetLine, error) {
	if p.Status != BudgetPeriodStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft budget")
	}

	for _, line := range p.Lines {
		if line.AnalyticID == analyticID {
			return nil, shared.NewDomainError("DUPLICATE_ANALYTIC", "Analytic already has a line in this budget, update it instead")
		}
	}

	line, err := NewBudgetLine(p.ID, analyticID, analyticName, lineType, budgeted)
	if err != nil {
		return nil, err
	}

	p.Lines = append(p.Lines, *line)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return line, nil
}

// UpdateLineBudget changes the budgeted amount of a line
// Only allowed in draft status
func (p *BudgetPeriod) UpdateLineBudget(analyticID uuid.UUID, budgeted decimal.Decimal) error {
	if p.Status != BudgetPeriodStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines of a non-draft budget")
	}
	if budgeted.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Budgeted amount cannot be negative")
	}

	for idx := range p.Lines {
		if p.Lines[idx].AnalyticID == analyticID {
			p.Lines[idx].BudgetedAmount = budgeted
			p.Lines[idx].UpdatedAt = time.Now()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Budget line not found for analytic")
}

// RemoveLine removes a budget line
// Only allowed in draft status
func (p *BudgetPeriod) RemoveLine(analyticID uuid.UUID) error {
	if p.Status != BudgetPeriodStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft budget")
	}

	for idx, line := range p.Lines {
		if line.AnalyticID == analyticID {
			p.Lines = append(p.Lines[:idx], p.Lines[idx+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Budget line not found for analytic")
}

// Confirm transitions the budget from draft to confirmed
// Requires at least one line
func (p *BudgetPeriod) Confirm() error {
	if p.Status != BudgetPeriodStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm budget in %s status", p.Status))
	}
	if len(p.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm budget without lines")
	}

	p.Status = BudgetPeriodStatusConfirmed
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewBudgetPeriodConfirmedEvent(p))

	return nil
}

// Cancel cancels a draft budget
func (p *BudgetPeriod) Cancel() error {
	if p.Status != BudgetPeriodStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel budget in %s status", p.Status))
	}

	p.Status = BudgetPeriodStatusCancelled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Revise freezes a confirmed budget as read-only and returns a new
// linked draft copy carrying the same lines. The copy and the original
// reference each other bidirectionally.
func (p *BudgetPeriod) Revise() (*BudgetPeriod, error) {
	if p.Status != BudgetPeriodStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot revise budget in %s status", p.Status))
	}

	revision := &BudgetPeriod{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              fmt.Sprintf("%s (revised)", p.Name),
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		Lines:             make([]BudgetLine, 0, len(p.Lines)),
		Status:            BudgetPeriodStatusDraft,
		IsRevised:         true,
		OriginalID:        &p.ID,
	}

	now := time.Now()
	for _, line := range p.Lines {
		revision.Lines = append(revision.Lines, BudgetLine{
			ID:             uuid.New(),
			PeriodID:       revision.ID,
			AnalyticID:     line.AnalyticID,
			AnalyticName:   line.AnalyticName,
			Type:           line.Type,
			BudgetedAmount: line.BudgetedAmount,
			AchievedAmount: line.AchievedAmount,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	p.Status = BudgetPeriodStatusRevised
	p.RevisionID = &revision.ID
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewBudgetPeriodRevisedEvent(p, revision))

	return revision, nil
}

// ApplyAchievement adds a confirmed document-line amount to the
// analytic's achieved total. Only allowed on a confirmed budget.
func (p *BudgetPeriod) ApplyAchievement(analyticID uuid.UUID, amount decimal.Decimal) error {
	if p.Status != BudgetPeriodStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record achievement on budget in %s status", p.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Achievement amount must be positive")
	}

	for idx := range p.Lines {
		if p.Lines[idx].AnalyticID == analyticID {
			p.Lines[idx].AchievedAmount = p.Lines[idx].AchievedAmount.Add(amount)
			p.Lines[idx].UpdatedAt = time.Now()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Budget line not found for analytic")
}

// ReverseAchievement subtracts a previously recorded achievement,
// flooring at zero. Used when a confirmed document is cancelled.
func (p *BudgetPeriod) ReverseAchievement(analyticID uuid.UUID, amount decimal.Decimal) error {
	if p.Status != BudgetPeriodStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reverse achievement on budget in %s status", p.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}

	for idx := range p.Lines {
		if p.Lines[idx].AnalyticID == analyticID {
			reversed := p.Lines[idx].AchievedAmount.Sub(amount)
			if reversed.IsNegative() {
				reversed = decimal.Zero
			}
			p.Lines[idx].AchievedAmount = reversed
			p.Lines[idx].UpdatedAt = time.Now()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Budget line not found for analytic")
}

// GetLine returns the line for an analytic, or nil
func (p *BudgetPeriod) GetLine(analyticID uuid.UUID) *BudgetLine {
	for idx := range p.Lines {
		if p.Lines[idx].AnalyticID == analyticID {
			return &p.Lines[idx]
		}
	}
	return nil
}

// Covers returns true if the given date falls within the period
func (p *BudgetPeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// TotalBudgeted returns the sum of all budgeted amounts
func (p *BudgetPeriod) TotalBudgeted() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.BudgetedAmount)
	}
	return total
}

// TotalAchieved returns the sum of all achieved amounts
func (p *BudgetPeriod) TotalAchieved() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.AchievedAmount)
	}
	return total
}

// IsDraft returns true if the budget is editable
func (p *BudgetPeriod) IsDraft() bool {
	return p.Status == BudgetPeriodStatusDraft
}

// IsConfirmed returns true if the budget is confirmed
func (p *BudgetPeriod) IsConfirmed() bool {
	return p.Status == BudgetPeriodStatusConfirmed
}
