package document

import (
	"context"
	"fmt"
	"time"

	appbudget "github.com/budgeterp/backend/internal/application/budget"
	"github.com/budgeterp/backend/internal/application/recommend"
	"github.com/budgeterp/backend/internal/domain/document"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/budgeterp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// paymentIdempotencyTTL is how long a client payment key stays
// deduplicated
const paymentIdempotencyTTL = 24 * time.Hour

// Recommender resolves an analytic recommendation for one line context
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (recommend.Recommendation, error)
}

// BudgetLedger is the budget side the document lifecycle talks to
type BudgetLedger interface {
	CheckBudget(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) (*appbudget.BudgetCheckResult, error)
	RecordAchievement(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) error
	ReverseAchievement(ctx context.Context, analyticID uuid.UUID, amount decimal.Decimal, date time.Time) error
}

// Service handles financial document business operations across all
// three document kinds
type Service struct {
	docRepo        document.Repository
	recommender    Recommender
	ledger         BudgetLedger
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new document Service
func NewService(docRepo document.Repository, recommender Recommender, ledger BudgetLedger, idempotency shared.IdempotencyStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		docRepo:     docRepo,
		recommender: recommender,
		ledger:      ledger,
		idempotency: idempotency,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft document, auto-assigning analytics to
// lines that carry none and flagging budget exceedance
func (s *Service) Create(ctx context.Context, kind document.DocumentKind, req CreateDocumentRequest) (*DocumentResponse, error) {
	documentNo, err := s.docRepo.NextDocumentNo(ctx, kind)
	if err != nil {
		return nil, err
	}

	documentDate := time.Now()
	if req.DocumentDate != nil {
		documentDate = *req.DocumentDate
	}

	doc, err := document.NewFinancialDocument(kind, documentNo, req.PartnerID, req.PartnerName, documentDate)
	if err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := doc.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := doc.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.applyLines(ctx, doc, req.Lines, req.PartnerTagIDs, req.AutoAssign == nil || *req.AutoAssign); err != nil {
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetByID retrieves a document by ID
func (s *Service) GetByID(ctx context.Context, kind document.DocumentKind, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves documents of one kind with filtering and pagination
func (s *Service) List(ctx context.Context, kind document.DocumentKind, filter shared.Filter) ([]DocumentResponse, int64, error) {
	page, err := s.docRepo.FindByKind(ctx, kind, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToDocumentResponses(page.Items), page.Total, nil
}

// Update edits a draft document. Given lines replace the existing set
// and run through auto assignment again.
func (s *Service) Update(ctx context.Context, kind document.DocumentKind, id uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsDraft() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft documents can be edited")
	}

	expectedVersion := doc.GetVersion()
	if req.PartnerID != nil {
		name := doc.PartnerName
		if req.PartnerName != nil {
			name = *req.PartnerName
		}
		if err := doc.SetPartner(*req.PartnerID, name); err != nil {
			return nil, err
		}
	} else if req.PartnerName != nil {
		if err := doc.SetPartner(doc.PartnerID, *req.PartnerName); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := doc.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := doc.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if req.Lines != nil {
		for _, line := range append([]document.DocumentLine(nil), doc.Lines...) {
			if err := doc.RemoveLine(line.ID); err != nil {
				return nil, err
			}
		}
		if err := s.applyLines(ctx, doc, req.Lines, req.PartnerTagIDs, req.AutoAssign == nil || *req.AutoAssign); err != nil {
			return nil, err
		}
	}

	if err := s.docRepo.SaveWithLock(ctx, doc, expectedVersion); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// AssignLine manually assigns or clears one line's analytic, then
// refreshes its exceedance flag
func (s *Service) AssignLine(ctx context.Context, kind document.DocumentKind, id, lineID uuid.UUID, req AssignLineRequest) (*DocumentResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := doc.GetVersion()
	if err := doc.AssignAnalytic(lineID, req.BudgetAnalyticID, false, "manual"); err != nil {
		return nil, err
	}
	if req.BudgetAnalyticID != nil {
		line := doc.GetLine(lineID)
		check, err := s.ledger.CheckBudget(ctx, *req.BudgetAnalyticID, line.Amount, doc.DocumentDate)
		if err != nil {
			return nil, err
		}
		if err := doc.FlagBudgetExceeded(lineID, check.Exceeded); err != nil {
			return nil, err
		}
	}

	if err := s.docRepo.SaveWithLock(ctx, doc, expectedVersion); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Confirm confirms a draft document and records the assigned line
// amounts as achievement on the covering budgets
func (s *Service) Confirm(ctx context.Context, kind document.DocumentKind, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := doc.GetVersion()
	if err := doc.Confirm(); err != nil {
		return nil, err
	}

	// Ledger first, document second. The document is only persisted as
	// confirmed once every assigned line reached the ledger; a failure
	// on either side backs out whatever spend was already recorded so
	// ledger and document never disagree.
	recorded, err := s.recordAchievements(ctx, doc)
	if err != nil {
		s.rollbackAchievements(ctx, doc, recorded)
		s.logger.Error("achievement recording failed, confirm aborted",
			zap.String("document_no", doc.DocumentNo),
			zap.Error(err))
		return nil, err
	}
	if err := s.docRepo.SaveWithLock(ctx, doc, expectedVersion); err != nil {
		s.rollbackAchievements(ctx, doc, recorded)
		return nil, err
	}
	s.publishEvents(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Cancel cancels a document. Cancelling a confirmed document backs its
// achievement out of the budgets; documents with payments cannot be
// cancelled at all.
func (s *Service) Cancel(ctx context.Context, kind document.DocumentKind, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	wasConfirmed := doc.IsConfirmed()
	expectedVersion := doc.GetVersion()
	if err := doc.Cancel(); err != nil {
		return nil, err
	}

	// Reverse the ledger before persisting the cancellation, re-applying
	// the spend if either side fails.
	var reversed []document.DocumentLine
	if wasConfirmed {
		for _, line := range doc.AssignedLines() {
			if err := s.ledger.ReverseAchievement(ctx, *line.BudgetAnalyticID, line.Amount, doc.DocumentDate); err != nil {
				s.reapplyAchievements(ctx, doc, reversed)
				s.logger.Error("achievement reversal failed, cancel aborted",
					zap.String("document_no", doc.DocumentNo),
					zap.String("line_id", line.ID.String()),
					zap.Error(err))
				return nil, err
			}
			reversed = append(reversed, line)
		}
	}
	if err := s.docRepo.SaveWithLock(ctx, doc, expectedVersion); err != nil {
		s.reapplyAchievements(ctx, doc, reversed)
		return nil, err
	}
	s.publishEvents(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Send marks a confirmed document as sent to the partner
func (s *Service) Send(ctx context.Context, kind document.DocumentKind, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := doc.GetVersion()
	if err := doc.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.docRepo.SaveWithLock(ctx, doc, expectedVersion); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// ExportPDF builds the render-ready payload for the PDF collaborator
func (s *Service) ExportPDF(ctx context.Context, kind document.DocumentKind, id uuid.UUID) (*PDFExportResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	currency := valueobject.DefaultCurrency
	lines := make([]PDFLineItem, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, PDFLineItem{
			ProductName: line.ProductName,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   valueobject.New(line.UnitPrice, currency),
			Amount:      valueobject.New(line.Amount, currency),
		})
	}

	return &PDFExportResponse{
		DocumentNo:    doc.DocumentNo,
		Kind:          doc.Kind.String(),
		Title:         pdfTitle(doc.Kind),
		PartnerName:   doc.PartnerName,
		DocumentDate:  doc.DocumentDate,
		DueDate:       doc.DueDate,
		Status:        doc.Status.String(),
		PaymentStatus: doc.PaymentStatus.String(),
		Currency:      string(currency),
		Lines:         lines,
		TotalAmount:   valueobject.New(doc.TotalAmount, currency),
		AmountDue:     valueobject.New(doc.AmountDue, currency),
		Notes:         doc.Notes,
		GeneratedAt:   time.Now(),
	}, nil
}

// RecordPayment records a payment. A repeated idempotency key returns
// the already recorded payment instead of double charging the ledger.
func (s *Service) RecordPayment(ctx context.Context, kind document.DocumentKind, id uuid.UUID, req RecordPaymentRequest) (*DocumentResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" && s.idempotency != nil {
		storeKey := fmt.Sprintf("payments:%s:%s", doc.ID, req.IdempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, storeKey, paymentIdempotencyTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			if doc.FindPaymentByIdempotencyKey(req.IdempotencyKey) != nil {
				response := ToDocumentResponse(doc)
				return &response, nil
			}
			// Key marked but payment absent: an earlier attempt died
			// between the store and the save, let this one through.
		}
	}

	expectedVersion := doc.GetVersion()
	_, err = doc.RecordPayment(req.Amount, document.PaymentMethod(req.Method), req.Reference, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.SaveWithLock(ctx, doc, expectedVersion); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// VerifyPayment marks a recorded payment as verified
func (s *Service) VerifyPayment(ctx context.Context, kind document.DocumentKind, id, paymentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := doc.GetVersion()
	if err := doc.VerifyPayment(paymentID); err != nil {
		return nil, err
	}
	if err := s.docRepo.SaveWithLock(ctx, doc, expectedVersion); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Delete removes a draft or cancelled document
func (s *Service) Delete(ctx context.Context, kind document.DocumentKind, id uuid.UUID) error {
	doc, err := s.findForKind(ctx, kind, id)
	if err != nil {
		return err
	}
	if doc.IsConfirmed() {
		return shared.NewDomainError("INVALID_STATE", "Confirmed documents cannot be deleted, cancel first")
	}
	return s.docRepo.Delete(ctx, id)
}

// applyLines adds the requested lines, resolving analytic assignment
// and exceedance flags per line
func (s *Service) applyLines(ctx context.Context, doc *document.FinancialDocument, inputs []DocumentLineInput, partnerTagIDs []uuid.UUID, autoAssign bool) error {
	for _, input := range inputs {
		line, err := doc.AddLine(input.ProductID, input.ProductName, input.Description, input.Quantity, input.UnitPrice)
		if err != nil {
			return err
		}

		analyticID := input.BudgetAnalyticID
		autoAssigned := false
		source := "manual"

		if analyticID == nil && autoAssign && s.recommender != nil {
			rec, err := s.recommender.Recommend(ctx, recommend.Request{
				PartnerID:         doc.PartnerID,
				PartnerTagIDs:     partnerTagIDs,
				ProductID:         input.ProductID,
				ProductCategoryID: input.ProductCategoryID,
				ProductName:       input.ProductName,
				DocumentDate:      &doc.DocumentDate,
			})
			if err != nil {
				return err
			}
			if rec.Source != recommend.SourceNone {
				analyticID = rec.AnalyticID
				autoAssigned = true
				source = string(rec.Source)
			}
		}

		if analyticID == nil {
			continue
		}
		if err := doc.AssignAnalytic(line.ID, analyticID, autoAssigned, source); err != nil {
			return err
		}
		check, err := s.ledger.CheckBudget(ctx, *analyticID, line.Amount, doc.DocumentDate)
		if err != nil {
			return err
		}
		if check.Exceeded {
			if err := doc.FlagBudgetExceeded(line.ID, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// findForKind loads the document and checks it belongs to the
// addressed collection
// recordAchievements pushes each assigned line's amount onto the
// ledger, returning the lines recorded so far when one fails.
func (s *Service) recordAchievements(ctx context.Context, doc *document.FinancialDocument) ([]document.DocumentLine, error) {
	var recorded []document.DocumentLine
	for _, line := range doc.AssignedLines() {
		if err := s.ledger.RecordAchievement(ctx, *line.BudgetAnalyticID, line.Amount, doc.DocumentDate); err != nil {
			return recorded, err
		}
		recorded = append(recorded, line)
	}
	return recorded, nil
}

func (s *Service) rollbackAchievements(ctx context.Context, doc *document.FinancialDocument, lines []document.DocumentLine) {
	for _, line := range lines {
		if err := s.ledger.ReverseAchievement(ctx, *line.BudgetAnalyticID, line.Amount, doc.DocumentDate); err != nil {
			s.logger.Error("achievement rollback failed",
				zap.String("document_no", doc.DocumentNo),
				zap.String("line_id", line.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *Service) reapplyAchievements(ctx context.Context, doc *document.FinancialDocument, lines []document.DocumentLine) {
	for _, line := range lines {
		if err := s.ledger.RecordAchievement(ctx, *line.BudgetAnalyticID, line.Amount, doc.DocumentDate); err != nil {
			s.logger.Error("achievement re-apply failed",
				zap.String("document_no", doc.DocumentNo),
				zap.String("line_id", line.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *Service) findForKind(ctx context.Context, kind document.DocumentKind, id uuid.UUID) (*document.FinancialDocument, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Kind != kind {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (s *Service) publishEvents(ctx context.Context, doc *document.FinancialDocument) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range doc.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	doc.ClearDomainEvents()
}

func pdfTitle(kind document.DocumentKind) string {
	switch kind {
	case document.KindPurchaseOrder:
		return "Purchase Order"
	case document.KindVendorBill:
		return "Vendor Bill"
	case document.KindCustomerInvoice:
		return "Tax Invoice"
	}
	return "Financial Document"
}
