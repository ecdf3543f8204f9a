package document

import (
	"context"
	"time"

	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for financial document persistence
type Repository interface {
	Save(ctx context.Context, doc *FinancialDocument) error
	// SaveWithLock persists the document only if the stored version
	// matches, returning shared.ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, doc *FinancialDocument, expectedVersion int) error
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialDocument, error)
	FindByDocumentNo(ctx context.Context, documentNo string) (*FinancialDocument, error)
	FindByKind(ctx context.Context, kind DocumentKind, filter shared.Filter) (*shared.Paginated[*FinancialDocument], error)
	Delete(ctx context.Context, id uuid.UUID) error
	// NextDocumentNo reserves the next sequential document number for
	// the kind, e.g. PO-2026-00042
	NextDocumentNo(ctx context.Context, kind DocumentKind) (string, error)
}

// AssignmentObservation is one historical analytic assignment pulled
// from confirmed document lines, the raw material for pattern scoring
type AssignmentObservation struct {
	AnalyticID   uuid.UUID
	AnalyticName string
	ProductName  string
	DocumentDate time.Time
	AutoAssigned bool
}

// HistoryQuery reads past assignment behavior out of confirmed
// documents. Kept separate from Repository so the recommender depends
// on a read-only surface.
type HistoryQuery interface {
	// AssignmentsForPartnerProduct returns analytic assignments from
	// confirmed document lines matching the partner and product,
	// newest first, no older than the window start
	AssignmentsForPartnerProduct(ctx context.Context, partnerID uuid.UUID, productID *uuid.UUID, productName string, since time.Time) ([]AssignmentObservation, error)
}
