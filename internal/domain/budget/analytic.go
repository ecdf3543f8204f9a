package budget

import (
	"fmt"
	"time"

	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AnalyticType classifies an analytic as an income or expense bucket
type AnalyticType string

const (
	AnalyticTypeIncome  AnalyticType = "income"
	AnalyticTypeExpense AnalyticType = "expense"
)

// IsValid checks if the type is a valid AnalyticType
func (t AnalyticType) IsValid() bool {
	return t == AnalyticTypeIncome || t == AnalyticTypeExpense
}

// String returns the string representation of AnalyticType
func (t AnalyticType) String() string {
	return string(t)
}

// AnalyticStatus represents the lifecycle status of an analytic
type AnalyticStatus string

const (
	AnalyticStatusNew       AnalyticStatus = "new"
	AnalyticStatusConfirmed AnalyticStatus = "confirmed"
	AnalyticStatusArchived  AnalyticStatus = "archived"
)

// IsValid checks if the status is a valid AnalyticStatus
func (s AnalyticStatus) IsValid() bool {
	switch s {
	case AnalyticStatusNew, AnalyticStatusConfirmed, AnalyticStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of AnalyticStatus
func (s AnalyticStatus) String() string {
	return string(s)
}

// Analytic represents a named budget bucket (e.g., a seasonal campaign)
// against which income/expense document lines are tagged.
// Archiving is reversible and only blocks new assignment; permanent
// deletion is a separate, irrecoverable path.
type Analytic struct {
	shared.BaseAggregateRoot
	Name              string       `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description       string       `gorm:"type:text"`
	StartDate         *time.Time   `gorm:"index"`
	EndDate           *time.Time
	ProductCategoryID *uuid.UUID     `gorm:"type:uuid;index"`
	Type              AnalyticType   `gorm:"type:varchar(10);not null"`
	Status            AnalyticStatus `gorm:"type:varchar(10);not null;default:'new';index"`
	ArchivedAt        *time.Time
}

// TableName returns the table name for GORM
func (Analytic) TableName() string {
	return "budget_analytics"
}

// NewAnalytic creates a new analytic in "new" status
func NewAnalytic(name string, analyticType AnalyticType) (*Analytic, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Analytic name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Analytic name cannot exceed 200 characters")
	}
	if !analyticType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Analytic type must be income or expense")
	}

	a := &Analytic{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              analyticType,
		Status:            AnalyticStatusNew,
	}

	a.AddDomainEvent(NewAnalyticCreatedEvent(a))

	return a, nil
}

// SetDateRange sets the optional validity range of the analytic
func (a *Analytic) SetDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	a.StartDate = start
	a.EndDate = end
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// SetDescription sets the description
func (a *Analytic) SetDescription(description string) {
	a.Description = description
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// SetProductCategory sets the optional product category reference
func (a *Analytic) SetProductCategory(categoryID *uuid.UUID) {
	a.ProductCategoryID = categoryID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Rename changes the analytic name
func (a *Analytic) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Analytic name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Analytic name cannot exceed 200 characters")
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Confirm transitions the analytic from new to confirmed
func (a *Analytic) Confirm() error {
	if a.Status != AnalyticStatusNew {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm analytic in %s status", a.Status))
	}

	a.Status = AnalyticStatusConfirmed
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Archive archives the analytic, blocking new assignment.
// Historical document lines keep their reference.
func (a *Analytic) Archive() error {
	if a.Status == AnalyticStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Analytic is already archived")
	}

	now := time.Now()
	a.Status = AnalyticStatusArchived
	a.ArchivedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAnalyticArchivedEvent(a))

	return nil
}

// Unarchive restores an archived analytic to confirmed status
func (a *Analytic) Unarchive() error {
	if a.Status != AnalyticStatusArchived {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot unarchive analytic in %s status", a.Status))
	}

	a.Status = AnalyticStatusConfirmed
	a.ArchivedAt = nil
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAnalyticUnarchivedEvent(a))

	return nil
}

// IsArchived returns true if the analytic is archived
func (a *Analytic) IsArchived() bool {
	return a.Status == AnalyticStatusArchived
}

// IsAssignable returns true if new document lines may be tagged with this analytic
func (a *Analytic) IsAssignable() bool {
	return a.Status != AnalyticStatusArchived
}

// IsActiveOn returns true if the analytic's date range covers the given date
func (a *Analytic) IsActiveOn(date time.Time) bool {
	if a.StartDate != nil && date.Before(*a.StartDate) {
		return false
	}
	if a.EndDate != nil && date.After(*a.EndDate) {
		return false
	}
	return true
}
