package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes the three financial document collections.
// They share one lifecycle and differ only in numbering and in which
// side of the budget their lines count against.
type DocumentKind string

const (
	KindPurchaseOrder   DocumentKind = "purchase_order"
	KindVendorBill      DocumentKind = "vendor_bill"
	KindCustomerInvoice DocumentKind = "customer_invoice"
)

// IsValid checks if the kind is a valid DocumentKind
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindPurchaseOrder, KindVendorBill, KindCustomerInvoice:
		return true
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// NumberPrefix returns the document number prefix for the kind
func (k DocumentKind) NumberPrefix() string {
	switch k {
	case KindPurchaseOrder:
		return "PO"
	case KindVendorBill:
		return "BILL"
	case KindCustomerInvoice:
		return "INV"
	}
	return ""
}

// AnalyticSide returns whether lines of this kind count as income or
// expense against the budget
func (k DocumentKind) AnalyticSide() budget.AnalyticType {
	if k == KindCustomerInvoice {
		return budget.AnalyticTypeIncome
	}
	return budget.AnalyticTypeExpense
}

// ParseDocumentKind converts a route segment like "purchase-orders"
// or a plain kind string into a DocumentKind
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchase_order", "purchase-orders", "purchase-order":
		return KindPurchaseOrder, nil
	case "vendor_bill", "vendor-bills", "vendor-bill":
		return KindVendorBill, nil
	case "customer_invoice", "customer-invoices", "customer-invoice":
		return KindCustomerInvoice, nil
	}
	return "", shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Unknown document kind: %s", s))
}

// DocumentStatus represents the lifecycle status of a financial document
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusConfirmed DocumentStatus = "confirmed"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusConfirmed, DocumentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if transition to target status is allowed
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case DocumentStatusDraft:
		return target == DocumentStatusConfirmed || target == DocumentStatusCancelled
	case DocumentStatusConfirmed:
		return target == DocumentStatusCancelled
	}
	return false
}

// PaymentStatus is derived from the amount due, never set directly
type PaymentStatus string

const (
	PaymentStatusNotPaid PaymentStatus = "not_paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod is how a payment was settled
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodBank PaymentMethod = "bank"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodBank
}

// DocumentLine is a product line on a financial document. Each line may
// carry a budget analytic assignment, recorded with its provenance so
// auto-assigned tags stay distinguishable from manual ones.
type DocumentLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        *uuid.UUID      `gorm:"type:uuid;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	Description      string          `gorm:"type:text"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BudgetAnalyticID *uuid.UUID      `gorm:"type:uuid;index"`
	AutoAssigned     bool            `gorm:"not null;default:false"`
	AssignSource     string          `gorm:"type:varchar(20)"`
	ExceedsBudget    bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentLine) TableName() string {
	return "document_lines"
}

// PaymentRecord is one recorded payment against a confirmed document
type PaymentRecord struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method         PaymentMethod   `gorm:"type:varchar(10);not null"`
	Reference      string          `gorm:"type:varchar(100)"`
	Verified       bool            `gorm:"not null;default:false"`
	IdempotencyKey string          `gorm:"type:varchar(100);index"`
	PaidAt         time.Time       `gorm:"not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentRecord) TableName() string {
	return "payment_records"
}

// FinancialDocument is the shared aggregate behind purchase orders,
// vendor bills and customer invoices. Lifecycle is draft to confirmed
// to cancelled; confirmation freezes the lines and opens the amount
// due ledger.
type FinancialDocument struct {
	shared.BaseAggregateRoot
	DocumentNo    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind          DocumentKind    `gorm:"type:varchar(20);not null;index"`
	PartnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartnerName   string          `gorm:"type:varchar(200)"`
	DocumentDate  time.Time       `gorm:"not null;index"`
	DueDate       *time.Time      `gorm:"index"`
	Status        DocumentStatus  `gorm:"type:varchar(10);not null;default:'draft';index"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(10);not null;default:'not_paid'"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountDue     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes         string          `gorm:"type:text"`
	SentAt        *time.Time
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	Lines         []DocumentLine  `gorm:"foreignKey:DocumentID;references:ID"`
	Payments      []PaymentRecord `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (FinancialDocument) TableName() string {
	return "financial_documents"
}

// NewFinancialDocument creates a new draft document
func NewFinancialDocument(kind DocumentKind, documentNo string, partnerID uuid.UUID, partnerName string, documentDate time.Time) (*FinancialDocument, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Document kind must be purchase_order, vendor_bill or customer_invoice")
	}
	if documentNo == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NO", "Document number cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if documentDate.IsZero() {
		documentDate = time.Now()
	}

	doc := &FinancialDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DocumentNo:        documentNo,
		Kind:              kind,
		PartnerID:         partnerID,
		PartnerName:       partnerName,
		DocumentDate:      documentDate,
		Status:            DocumentStatusDraft,
		PaymentStatus:     PaymentStatusNotPaid,
		TotalAmount:       decimal.Zero,
		AmountDue:         decimal.Zero,
		Lines:             make([]DocumentLine, 0),
		Payments:          make([]PaymentRecord, 0),
	}

	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))

	return doc, nil
}

// SetDueDate sets the payment due date, draft only
func (d *FinancialDocument) SetDueDate(dueDate *time.Time) error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change due date of a non-draft document")
	}
	if dueDate != nil && dueDate.Before(d.DocumentDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before document date")
	}
	d.DueDate = dueDate
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// SetNotes sets free-form notes, draft only
func (d *FinancialDocument) SetNotes(notes string) error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change notes of a non-draft document")
	}
	d.Notes = notes
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// SetPartner changes the counterparty, draft only
func (d *FinancialDocument) SetPartner(partnerID uuid.UUID, partnerName string) error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change partner of a non-draft document")
	}
	if partnerID == uuid.Nil {
		return shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	d.PartnerID = partnerID
	d.PartnerName = partnerName
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// AddLine adds a product line to a draft document
func (d *FinancialDocument) AddLine(productID *uuid.UUID, productName, description string, quantity, unitPrice decimal.Decimal) (*DocumentLine, error) {
	if d.Status != DocumentStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft document")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	line := DocumentLine{
		ID:          uuid.New(),
		DocumentID:  d.ID,
		ProductID:   productID,
		ProductName: productName,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(4),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	d.Lines = append(d.Lines, line)
	d.recalculateTotal()
	d.UpdatedAt = now
	d.IncrementVersion()

	return &d.Lines[len(d.Lines)-1], nil
}

// UpdateLine changes quantity and unit price of a line, draft only
func (d *FinancialDocument) UpdateLine(lineID uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines of a non-draft document")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	for idx := range d.Lines {
		if d.Lines[idx].ID == lineID {
			d.Lines[idx].Quantity = quantity
			d.Lines[idx].UnitPrice = unitPrice
			d.Lines[idx].Amount = quantity.Mul(unitPrice).Round(4)
			d.Lines[idx].UpdatedAt = time.Now()
			d.recalculateTotal()
			d.UpdatedAt = time.Now()
			d.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// RemoveLine removes a line from a draft document
func (d *FinancialDocument) RemoveLine(lineID uuid.UUID) error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft document")
	}

	for idx, line := range d.Lines {
		if line.ID == lineID {
			d.Lines = append(d.Lines[:idx], d.Lines[idx+1:]...)
			d.recalculateTotal()
			d.UpdatedAt = time.Now()
			d.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// AssignAnalytic tags a line with a budget analytic. Manual assignment
// always overrides a previous auto assignment; source records where the
// tag came from. Only draft lines may be retagged: once the document is
// confirmed its assignments have been recorded on the ledger.
func (d *FinancialDocument) AssignAnalytic(lineID uuid.UUID, analyticID *uuid.UUID, autoAssigned bool, source string) error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign analytics on a non-draft document")
	}

	for idx := range d.Lines {
		if d.Lines[idx].ID == lineID {
			d.Lines[idx].BudgetAnalyticID = analyticID
			d.Lines[idx].AutoAssigned = autoAssigned
			d.Lines[idx].AssignSource = source
			if analyticID == nil {
				d.Lines[idx].AutoAssigned = false
				d.Lines[idx].AssignSource = ""
				d.Lines[idx].ExceedsBudget = false
			}
			d.Lines[idx].UpdatedAt = time.Now()
			d.UpdatedAt = time.Now()
			d.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// FlagBudgetExceeded marks a line as exceeding its analytic's budget.
// The flag is advisory and never blocks any operation.
func (d *FinancialDocument) FlagBudgetExceeded(lineID uuid.UUID, exceeded bool) error {
	for idx := range d.Lines {
		if d.Lines[idx].ID == lineID {
			d.Lines[idx].ExceedsBudget = exceeded
			d.Lines[idx].UpdatedAt = time.Now()
			d.UpdatedAt = time.Now()
			d.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Document line not found")
}

// Confirm transitions the document from draft to confirmed and opens
// the amount due ledger at the full total
func (d *FinancialDocument) Confirm() error {
	if !d.Status.CanTransitionTo(DocumentStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm document in %s status", d.Status))
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm document without lines")
	}
	if d.DueDate == nil {
		return shared.NewDomainError("NO_DUE_DATE", "Cannot confirm document without a due date")
	}

	now := time.Now()
	d.Status = DocumentStatusConfirmed
	d.AmountDue = d.TotalAmount
	d.PaymentStatus = d.derivePaymentStatus()
	d.ConfirmedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentConfirmedEvent(d))

	return nil
}

// Cancel cancels a draft document, or a confirmed one that has no
// recorded payments. Once money moved the document is immutable.
func (d *FinancialDocument) Cancel() error {
	if !d.Status.CanTransitionTo(DocumentStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel document in %s status", d.Status))
	}
	if len(d.Payments) > 0 {
		return shared.NewDomainError("HAS_PAYMENTS", "Cannot cancel a document with recorded payments")
	}

	now := time.Now()
	wasConfirmed := d.Status == DocumentStatusConfirmed
	d.Status = DocumentStatusCancelled
	d.AmountDue = decimal.Zero
	d.CancelledAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentCancelledEvent(d, wasConfirmed))

	return nil
}

// MarkSent records the instant the document was sent to the partner
func (d *FinancialDocument) MarkSent() error {
	if d.Status != DocumentStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed documents can be sent")
	}

	now := time.Now()
	d.SentAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentSentEvent(d))

	return nil
}

// RecordPayment records a payment against a confirmed document and
// rederives the payment status from the remaining amount due
func (d *FinancialDocument) RecordPayment(amount decimal.Decimal, method PaymentMethod, reference, idempotencyKey string) (*PaymentRecord, error) {
	if d.Status != DocumentStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", "Can only record payments on a confirmed document")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method must be cash or bank")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(d.AmountDue) {
		return nil, shared.NewDomainError("OVERPAYMENT", fmt.Sprintf("Payment %s exceeds amount due %s", amount, d.AmountDue))
	}

	now := time.Now()
	payment := PaymentRecord{
		ID:             uuid.New(),
		DocumentID:     d.ID,
		Amount:         amount,
		Method:         method,
		Reference:      reference,
		IdempotencyKey: idempotencyKey,
		PaidAt:         now,
		CreatedAt:      now,
	}

	d.Payments = append(d.Payments, payment)
	d.AmountDue = d.AmountDue.Sub(amount)
	d.PaymentStatus = d.derivePaymentStatus()
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewPaymentRecordedEvent(d, &d.Payments[len(d.Payments)-1]))

	return &d.Payments[len(d.Payments)-1], nil
}

// VerifyPayment marks a recorded payment as verified against the bank
// or cash book
func (d *FinancialDocument) VerifyPayment(paymentID uuid.UUID) error {
	for idx := range d.Payments {
		if d.Payments[idx].ID == paymentID {
			if d.Payments[idx].Verified {
				return shared.NewDomainError("ALREADY_VERIFIED", "Payment is already verified")
			}
			d.Payments[idx].Verified = true
			d.UpdatedAt = time.Now()
			d.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment record not found")
}

// FindPaymentByIdempotencyKey returns a previously recorded payment
// with the given key, or nil
func (d *FinancialDocument) FindPaymentByIdempotencyKey(key string) *PaymentRecord {
	if key == "" {
		return nil
	}
	for idx := range d.Payments {
		if d.Payments[idx].IdempotencyKey == key {
			return &d.Payments[idx]
		}
	}
	return nil
}

// GetLine returns the line with the given ID, or nil
func (d *FinancialDocument) GetLine(lineID uuid.UUID) *DocumentLine {
	for idx := range d.Lines {
		if d.Lines[idx].ID == lineID {
			return &d.Lines[idx]
		}
	}
	return nil
}

// AssignedLines returns the lines carrying a budget analytic
func (d *FinancialDocument) AssignedLines() []DocumentLine {
	assigned := make([]DocumentLine, 0, len(d.Lines))
	for _, line := range d.Lines {
		if line.BudgetAnalyticID != nil {
			assigned = append(assigned, line)
		}
	}
	return assigned
}

// TotalPaid returns the sum of recorded payments
func (d *FinancialDocument) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// PaidViaCash returns the running total of cash payments
func (d *FinancialDocument) PaidViaCash() decimal.Decimal {
	return d.paidVia(PaymentMethodCash)
}

// PaidViaBank returns the running total of bank payments
func (d *FinancialDocument) PaidViaBank() decimal.Decimal {
	return d.paidVia(PaymentMethodBank)
}

func (d *FinancialDocument) paidVia(method PaymentMethod) decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		if p.Method == method {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// IsDraft returns true if the document is editable
func (d *FinancialDocument) IsDraft() bool {
	return d.Status == DocumentStatusDraft
}

// IsConfirmed returns true if the document is confirmed
func (d *FinancialDocument) IsConfirmed() bool {
	return d.Status == DocumentStatusConfirmed
}

// derivePaymentStatus recomputes the status from the amount due. A
// zero due settles the document even when nothing was ever owed, so a
// confirmed document of zero-priced lines is paid, not not_paid.
func (d *FinancialDocument) derivePaymentStatus() PaymentStatus {
	switch {
	case !d.AmountDue.IsPositive():
		return PaymentStatusPaid
	case d.AmountDue.LessThan(d.TotalAmount):
		return PaymentStatusPartial
	default:
		return PaymentStatusNotPaid
	}
}

func (d *FinancialDocument) recalculateTotal() {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.Amount)
	}
	d.TotalAmount = total
}
