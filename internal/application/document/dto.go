package document

import (
	"time"

	"github.com/budgeterp/backend/internal/domain/document"
	"github.com/budgeterp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentLineInput is one line in a document create/update request.
// A line without an explicit analytic is a candidate for auto
// assignment; the category and tag context feeds the rule matcher.
type DocumentLineInput struct {
	ProductID         *uuid.UUID      `json:"productId"`
	ProductCategoryID *uuid.UUID      `json:"productCategoryId"`
	ProductName       string          `json:"productName" binding:"required,max=200"`
	Description       string          `json:"description"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice         decimal.Decimal `json:"unitPrice" binding:"required"`
	BudgetAnalyticID  *uuid.UUID      `json:"budgetAnalyticId"`
}

// CreateDocumentRequest is the request to create a financial document
type CreateDocumentRequest struct {
	PartnerID     uuid.UUID           `json:"partnerId" binding:"required"`
	PartnerName   string              `json:"partnerName" binding:"max=200"`
	PartnerTagIDs []uuid.UUID         `json:"partnerTagIds"`
	DocumentDate  *time.Time          `json:"documentDate"`
	DueDate       *time.Time          `json:"dueDate"`
	Notes         string              `json:"notes"`
	AutoAssign    *bool               `json:"autoAssign"`
	Lines         []DocumentLineInput `json:"lines"`
}

// UpdateDocumentRequest edits a draft document. When lines are given
// they replace the existing set.
type UpdateDocumentRequest struct {
	PartnerID     *uuid.UUID          `json:"partnerId"`
	PartnerName   *string             `json:"partnerName" binding:"omitempty,max=200"`
	PartnerTagIDs []uuid.UUID         `json:"partnerTagIds"`
	DueDate       *time.Time          `json:"dueDate"`
	Notes         *string             `json:"notes"`
	AutoAssign    *bool               `json:"autoAssign"`
	Lines         []DocumentLineInput `json:"lines"`
}

// AssignLineRequest manually assigns or clears a line's analytic
type AssignLineRequest struct {
	BudgetAnalyticID *uuid.UUID `json:"budgetAnalyticId"`
}

// RecordPaymentRequest records a payment against a confirmed document
type RecordPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Method         string          `json:"method" binding:"required,oneof=cash bank"`
	Reference      string          `json:"reference" binding:"max=100"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"max=100"`
}

// DocumentLineResponse is the API representation of a document line
type DocumentLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        *uuid.UUID      `json:"productId,omitempty"`
	ProductName      string          `json:"productName"`
	Description      string          `json:"description,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Amount           decimal.Decimal `json:"amount"`
	BudgetAnalyticID *uuid.UUID      `json:"budgetAnalyticId,omitempty"`
	AutoAssigned     bool            `json:"autoAssigned"`
	AssignSource     string          `json:"assignSource,omitempty"`
	ExceedsBudget    bool            `json:"exceedsBudget"`
}

// PaymentResponse is the API representation of a payment record
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Verified  bool            `json:"verified"`
	PaidAt    time.Time       `json:"paidAt"`
}

// DocumentResponse is the API representation of a financial document
type DocumentResponse struct {
	ID            uuid.UUID              `json:"id"`
	DocumentNo    string                 `json:"documentNo"`
	Kind          string                 `json:"kind"`
	PartnerID     uuid.UUID              `json:"partnerId"`
	PartnerName   string                 `json:"partnerName,omitempty"`
	DocumentDate  time.Time              `json:"documentDate"`
	DueDate       *time.Time             `json:"dueDate,omitempty"`
	Status        string                 `json:"status"`
	PaymentStatus string                 `json:"paymentStatus"`
	TotalAmount   decimal.Decimal        `json:"totalAmount"`
	AmountDue     decimal.Decimal        `json:"amountDue"`
	PaidViaCash   decimal.Decimal        `json:"paidViaCash"`
	PaidViaBank   decimal.Decimal        `json:"paidViaBank"`
	Notes         string                 `json:"notes,omitempty"`
	SentAt        *time.Time             `json:"sentAt,omitempty"`
	ConfirmedAt   *time.Time             `json:"confirmedAt,omitempty"`
	CancelledAt   *time.Time             `json:"cancelledAt,omitempty"`
	Lines         []DocumentLineResponse `json:"lines"`
	Payments      []PaymentResponse      `json:"payments"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	Version       int                    `json:"version"`
}

// ToDocumentResponse converts a domain document to its API representation
func ToDocumentResponse(d *document.FinancialDocument) DocumentResponse {
	lines := make([]DocumentLineResponse, 0, len(d.Lines))
	for idx := range d.Lines {
		line := &d.Lines[idx]
		lines = append(lines, DocumentLineResponse{
			ID:               line.ID,
			ProductID:        line.ProductID,
			ProductName:      line.ProductName,
			Description:      line.Description,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			Amount:           line.Amount,
			BudgetAnalyticID: line.BudgetAnalyticID,
			AutoAssigned:     line.AutoAssigned,
			AssignSource:     line.AssignSource,
			ExceedsBudget:    line.ExceedsBudget,
		})
	}

	payments := make([]PaymentResponse, 0, len(d.Payments))
	for idx := range d.Payments {
		p := &d.Payments[idx]
		payments = append(payments, PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    string(p.Method),
			Reference: p.Reference,
			Verified:  p.Verified,
			PaidAt:    p.PaidAt,
		})
	}

	return DocumentResponse{
		ID:            d.ID,
		DocumentNo:    d.DocumentNo,
		Kind:          d.Kind.String(),
		PartnerID:     d.PartnerID,
		PartnerName:   d.PartnerName,
		DocumentDate:  d.DocumentDate,
		DueDate:       d.DueDate,
		Status:        d.Status.String(),
		PaymentStatus: d.PaymentStatus.String(),
		TotalAmount:   d.TotalAmount,
		AmountDue:     d.AmountDue,
		PaidViaCash:   d.PaidViaCash(),
		PaidViaBank:   d.PaidViaBank(),
		Notes:         d.Notes,
		SentAt:        d.SentAt,
		ConfirmedAt:   d.ConfirmedAt,
		CancelledAt:   d.CancelledAt,
		Lines:         lines,
		Payments:      payments,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Version:       d.GetVersion(),
	}
}

// ToDocumentResponses converts a slice of domain documents
func ToDocumentResponses(docs []*document.FinancialDocument) []DocumentResponse {
	responses := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, ToDocumentResponse(d))
	}
	return responses
}

// PDFLineItem is one row in a PDF export payload
type PDFLineItem struct {
	ProductName string            `json:"productName"`
	Description string            `json:"description,omitempty"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unitPrice"`
	Amount      valueobject.Money `json:"amount"`
}

// PDFExportResponse is the render-ready payload handed to the PDF
// collaborator service. Monetary fields serialize with their display
// form so the renderer prints them as-is.
type PDFExportResponse struct {
	DocumentNo    string            `json:"documentNo"`
	Kind          string            `json:"kind"`
	Title         string            `json:"title"`
	PartnerName   string            `json:"partnerName"`
	DocumentDate  time.Time         `json:"documentDate"`
	DueDate       *time.Time        `json:"dueDate,omitempty"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"paymentStatus"`
	Currency      string            `json:"currency"`
	Lines         []PDFLineItem     `json:"lines"`
	TotalAmount   valueobject.Money `json:"totalAmount"`
	AmountDue     valueobject.Money `json:"amountDue"`
	Notes         string            `json:"notes,omitempty"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}
