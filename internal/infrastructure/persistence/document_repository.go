package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budgeterp/backend/internal/domain/document"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements document.Repository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Save creates or updates a document together with its lines and payments
func (r *GormDocumentRepository) Save(ctx context.Context, doc *document.FinancialDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines", "Payments").Save(doc).Error; err != nil {
			return err
		}
		return r.saveChildren(tx, doc)
	})
}

// SaveWithLock persists the document only if the stored version matches
// expectedVersion. Returns shared.ErrConcurrencyConflict when another
// writer got there first.
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, doc *document.FinancialDocument, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&document.FinancialDocument{}).
			Where("id = ? AND version = ?", doc.ID, expectedVersion).
			Updates(map[string]interface{}{
				"partner_id":     doc.PartnerID,
				"partner_name":   doc.PartnerName,
				"document_date":  doc.DocumentDate,
				"due_date":       doc.DueDate,
				"status":         doc.Status,
				"payment_status": doc.PaymentStatus,
				"total_amount":   doc.TotalAmount,
				"amount_due":     doc.AmountDue,
				"notes":          doc.Notes,
				"sent_at":        doc.SentAt,
				"confirmed_at":   doc.ConfirmedAt,
				"cancelled_at":   doc.CancelledAt,
				"version":        doc.Version,
				"updated_at":     doc.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&document.FinancialDocument{}).
				Where("id = ?", doc.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}
		return r.saveChildren(tx, doc)
	})
}

// saveChildren upserts the current lines and payments and removes lines
// dropped from the document. Payments are append-only and never removed.
func (r *GormDocumentRepository) saveChildren(tx *gorm.DB, doc *document.FinancialDocument) error {
	keep := make([]uuid.UUID, 0, len(doc.Lines))
	for i := range doc.Lines {
		if err := tx.Save(&doc.Lines[i]).Error; err != nil {
			return err
		}
		keep = append(keep, doc.Lines[i].ID)
	}

	query := tx.Where("document_id = ?", doc.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&document.DocumentLine{}).Error; err != nil {
		return err
	}

	for i := range doc.Payments {
		if err := tx.Save(&doc.Payments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds a document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.FinancialDocument, error) {
	var doc document.FinancialDocument
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByDocumentNo finds a document by its document number
func (r *GormDocumentRepository) FindByDocumentNo(ctx context.Context, documentNo string) (*document.FinancialDocument, error) {
	var doc document.FinancialDocument
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		First(&doc, "document_no = ?", documentNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByKind finds documents of one kind matching the filter with pagination
func (r *GormDocumentRepository) FindByKind(ctx context.Context, kind document.DocumentKind, filter shared.Filter) (*shared.Paginated[*document.FinancialDocument], error) {
	query := r.db.WithContext(ctx).Model(&document.FinancialDocument{}).
		Where("kind = ?", kind)
	query = r.applySearch(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, DocumentSortFields, "document_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var docs []*document.FinancialDocument
	if err := query.Preload("Lines").Preload("Payments").Find(&docs).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(docs, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete deletes a document with its lines and payments
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&document.DocumentLine{}, "document_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&document.PaymentRecord{}, "document_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&document.FinancialDocument{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// NextDocumentNo generates the next sequential document number for the kind
// Format: PREFIX-YYYY-NNNNN (e.g., PO-2026-00042)
func (r *GormDocumentRepository) NextDocumentNo(ctx context.Context, kind document.DocumentKind) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", kind.NumberPrefix(), year)

	var last document.FinancialDocument
	err := r.db.WithContext(ctx).
		Where("kind = ? AND document_no LIKE ?", kind, prefix+"%").
		Order("document_no DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.DocumentNo != "" {
		parts := strings.Split(last.DocumentNo, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	documentNo := fmt.Sprintf("%s%05d", prefix, nextNum)

	// A concurrent writer may have taken the number already; scan
	// forward until a free one is found
	for i := 0; i < 100; i++ {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&document.FinancialDocument{}).
			Where("document_no = ?", documentNo).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return documentNo, nil
		}
		nextNum++
		documentNo = fmt.Sprintf("%s%05d", prefix, nextNum)
	}
	return "", fmt.Errorf("could not allocate a document number for prefix %s", prefix)
}

func (r *GormDocumentRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("document_no LIKE ? OR partner_name LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "partner_id":
			query = query.Where("partner_id = ?", value)
		case "date_from":
			query = query.Where("document_date >= ?", value)
		case "date_to":
			query = query.Where("document_date <= ?", value)
		}
	}

	return query
}
