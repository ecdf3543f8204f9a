package persistence

import (
	"context"
	"time"

	"github.com/budgeterp/backend/internal/domain/document"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentHistory implements document.HistoryQuery by reading
// analytic assignments out of confirmed document lines
type GormAssignmentHistory struct {
	db *gorm.DB
}

// NewGormAssignmentHistory creates a new GormAssignmentHistory
func NewGormAssignmentHistory(db *gorm.DB) *GormAssignmentHistory {
	return &GormAssignmentHistory{db: db}
}

type assignmentRow struct {
	AnalyticID   uuid.UUID
	AnalyticName string
	ProductName  string
	DocumentDate time.Time
	AutoAssigned bool
}

// AssignmentsForPartnerProduct returns analytic assignments from
// confirmed document lines matching the partner and product, newest
// first, no older than the window start. When productID is nil the
// product is matched by name: any line whose lowercased name contains
// one of the name's tokens is a candidate, and the caller narrows the
// candidates by token overlap.
func (h *GormAssignmentHistory) AssignmentsForPartnerProduct(ctx context.Context, partnerID uuid.UUID, productID *uuid.UUID, productName string, since time.Time) ([]document.AssignmentObservation, error) {
	query := h.db.WithContext(ctx).
		Table("document_lines").
		Select("document_lines.budget_analytic_id AS analytic_id, budget_analytics.name AS analytic_name, document_lines.product_name, financial_documents.document_date, document_lines.auto_assigned").
		Joins("JOIN financial_documents ON financial_documents.id = document_lines.document_id").
		Joins("JOIN budget_analytics ON budget_analytics.id = document_lines.budget_analytic_id").
		Where("financial_documents.status = ?", document.DocumentStatusConfirmed).
		Where("financial_documents.partner_id = ?", partnerID).
		Where("document_lines.budget_analytic_id IS NOT NULL").
		Where("financial_documents.document_date >= ?", since)

	if productID != nil {
		query = query.Where("document_lines.product_id = ?", *productID)
	} else if productName != "" {
		tokens := document.NameTokens(productName)
		if len(tokens) == 0 {
			return nil, nil
		}
		candidates := h.db.Where("LOWER(document_lines.product_name) LIKE ?", "%"+tokens[0]+"%")
		for _, token := range tokens[1:] {
			candidates = candidates.Or("LOWER(document_lines.product_name) LIKE ?", "%"+token+"%")
		}
		query = query.Where(candidates)
	}

	var rows []assignmentRow
	if err := query.Order("financial_documents.document_date DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	observations := make([]document.AssignmentObservation, len(rows))
	for i, row := range rows {
		observations[i] = document.AssignmentObservation{
			AnalyticID:   row.AnalyticID,
			AnalyticName: row.AnalyticName,
			ProductName:  row.ProductName,
			DocumentDate: row.DocumentDate,
			AutoAssigned: row.AutoAssigned,
		}
	}
	return observations, nil
}
