package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAnalyticRepository implements budget.AnalyticRepository using GORM
type GormAnalyticRepository struct {
	db *gorm.DB
}

// NewGormAnalyticRepository creates a new GormAnalyticRepository
func NewGormAnalyticRepository(db *gorm.DB) *GormAnalyticRepository {
	return &GormAnalyticRepository{db: db}
}

// Save creates or updates an analytic
func (r *GormAnalyticRepository) Save(ctx context.Context, analytic *budget.Analytic) error {
	return r.db.WithContext(ctx).Save(analytic).Error
}

// FindByID finds an analytic by its ID
func (r *GormAnalyticRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Analytic, error) {
	var analytic budget.Analytic
	if err := r.db.WithContext(ctx).First(&analytic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &analytic, nil
}

// FindByName finds an analytic by its exact name
func (r *GormAnalyticRepository) FindByName(ctx context.Context, name string) (*budget.Analytic, error) {
	var analytic budget.Analytic
	if err := r.db.WithContext(ctx).First(&analytic, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &analytic, nil
}

// FindAll finds analytics matching the filter with pagination
func (r *GormAnalyticRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*budget.Analytic], error) {
	query := r.db.WithContext(ctx).Model(&budget.Analytic{})
	query = r.applySearch(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, AnalyticSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var analytics []*budget.Analytic
	if err := query.Find(&analytics).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(analytics, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindAssignable returns confirmed analytics whose validity range
// covers the given date
func (r *GormAnalyticRepository) FindAssignable(ctx context.Context, date time.Time) ([]*budget.Analytic, error) {
	var analytics []*budget.Analytic
	if err := r.db.WithContext(ctx).
		Where("status = ?", budget.AnalyticStatusConfirmed).
		Where("start_date IS NULL OR start_date <= ?", date).
		Where("end_date IS NULL OR end_date >= ?", date).
		Order("name ASC").
		Find(&analytics).Error; err != nil {
		return nil, err
	}
	return analytics, nil
}

// Delete deletes an analytic
func (r *GormAnalyticRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&budget.Analytic{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAnalyticRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}

	return query
}
