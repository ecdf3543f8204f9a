package document

import (
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentCreatedEvent is raised when a financial document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID    `json:"document_id"`
	DocumentNo string       `json:"document_no"`
	Kind       DocumentKind `json:"kind"`
	PartnerID  uuid.UUID    `json:"partner_id"`
}

// EventType returns the event type name
func (e *DocumentCreatedEvent) EventType() string {
	return "FinancialDocumentCreated"
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(d *FinancialDocument) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FinancialDocumentCreated", "FinancialDocument", d.ID),
		DocumentID:      d.ID,
		DocumentNo:      d.DocumentNo,
		Kind:            d.Kind,
		PartnerID:       d.PartnerID,
	}
}

// DocumentConfirmedEvent is raised when a document is confirmed
type DocumentConfirmedEvent struct {
	shared.BaseDomainEvent
	DocumentID  uuid.UUID       `json:"document_id"`
	DocumentNo  string          `json:"document_no"`
	Kind        DocumentKind    `json:"kind"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineCount   int             `json:"line_count"`
}

// EventType returns the event type name
func (e *DocumentConfirmedEvent) EventType() string {
	return "FinancialDocumentConfirmed"
}

// NewDocumentConfirmedEvent creates a new DocumentConfirmedEvent
func NewDocumentConfirmedEvent(d *FinancialDocument) *DocumentConfirmedEvent {
	return &DocumentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FinancialDocumentConfirmed", "FinancialDocument", d.ID),
		DocumentID:      d.ID,
		DocumentNo:      d.DocumentNo,
		Kind:            d.Kind,
		TotalAmount:     d.TotalAmount,
		LineCount:       len(d.Lines),
	}
}

// DocumentCancelledEvent is raised when a document is cancelled.
// WasConfirmed tells subscribers whether budget achievement has to be
// reversed.
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	DocumentID   uuid.UUID    `json:"document_id"`
	DocumentNo   string       `json:"document_no"`
	Kind         DocumentKind `json:"kind"`
	WasConfirmed bool         `json:"was_confirmed"`
}

// EventType returns the event type name
func (e *DocumentCancelledEvent) EventType() string {
	return "FinancialDocumentCancelled"
}

// NewDocumentCancelledEvent creates a new DocumentCancelledEvent
func NewDocumentCancelledEvent(d *FinancialDocument, wasConfirmed bool) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FinancialDocumentCancelled", "FinancialDocument", d.ID),
		DocumentID:      d.ID,
		DocumentNo:      d.DocumentNo,
		Kind:            d.Kind,
		WasConfirmed:    wasConfirmed,
	}
}

// DocumentSentEvent is raised when a document is sent to the partner
type DocumentSentEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID `json:"document_id"`
	DocumentNo string    `json:"document_no"`
	PartnerID  uuid.UUID `json:"partner_id"`
}

// EventType returns the event type name
func (e *DocumentSentEvent) EventType() string {
	return "FinancialDocumentSent"
}

// NewDocumentSentEvent creates a new DocumentSentEvent
func NewDocumentSentEvent(d *FinancialDocument) *DocumentSentEvent {
	return &DocumentSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FinancialDocumentSent", "FinancialDocument", d.ID),
		DocumentID:      d.ID,
		DocumentNo:      d.DocumentNo,
		PartnerID:       d.PartnerID,
	}
}

// PaymentRecordedEvent is raised when a payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	DocumentID    uuid.UUID       `json:"document_id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return "PaymentRecorded"
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(d *FinancialDocument, p *PaymentRecord) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecorded", "FinancialDocument", d.ID),
		DocumentID:      d.ID,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		Method:          p.Method,
		AmountDue:       d.AmountDue,
		PaymentStatus:   d.PaymentStatus,
	}
}
