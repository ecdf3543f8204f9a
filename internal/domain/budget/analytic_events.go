package budget

import (
	"time"

	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AnalyticCreatedEvent is raised when a new analytic is created
type AnalyticCreatedEvent struct {
	shared.BaseDomainEvent
	AnalyticID uuid.UUID    `json:"analytic_id"`
	Name       string       `json:"name"`
	Type       AnalyticType `json:"type"`
}

// EventType returns the event type name
func (e *AnalyticCreatedEvent) EventType() string {
	return "AnalyticCreated"
}

// NewAnalyticCreatedEvent creates a new AnalyticCreatedEvent
func NewAnalyticCreatedEvent(a *Analytic) *AnalyticCreatedEvent {
	return &AnalyticCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AnalyticCreated", "Analytic", a.ID),
		AnalyticID:      a.ID,
		Name:            a.Name,
		Type:            a.Type,
	}
}

// AnalyticArchivedEvent is raised when an analytic is archived
type AnalyticArchivedEvent struct {
	shared.BaseDomainEvent
	AnalyticID uuid.UUID `json:"analytic_id"`
	Name       string    `json:"name"`
	ArchivedAt time.Time `json:"archived_at"`
}

// EventType returns the event type name
func (e *AnalyticArchivedEvent) EventType() string {
	return "AnalyticArchived"
}

// NewAnalyticArchivedEvent creates a new AnalyticArchivedEvent
func NewAnalyticArchivedEvent(a *Analytic) *AnalyticArchivedEvent {
	archivedAt := time.Now()
	if a.ArchivedAt != nil {
		archivedAt = *a.ArchivedAt
	}
	return &AnalyticArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AnalyticArchived", "Analytic", a.ID),
		AnalyticID:      a.ID,
		Name:            a.Name,
		ArchivedAt:      archivedAt,
	}
}

// AnalyticUnarchivedEvent is raised when an archived analytic is restored
type AnalyticUnarchivedEvent struct {
	shared.BaseDomainEvent
	AnalyticID uuid.UUID `json:"analytic_id"`
	Name       string    `json:"name"`
}

// EventType returns the event type name
func (e *AnalyticUnarchivedEvent) EventType() string {
	return "AnalyticUnarchived"
}

// NewAnalyticUnarchivedEvent creates a new AnalyticUnarchivedEvent
func NewAnalyticUnarchivedEvent(a *Analytic) *AnalyticUnarchivedEvent {
	return &AnalyticUnarchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AnalyticUnarchived", "Analytic", a.ID),
		AnalyticID:      a.ID,
		Name:            a.Name,
	}
}
