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

// GormBudgetPeriodRepository implements budget.BudgetPeriodRepository using GORM
type GormBudgetPeriodRepository struct {
	db *gorm.DB
}

// NewGormBudgetPeriodRepository creates a new GormBudgetPeriodRepository
func NewGormBudgetPeriodRepository(db *gorm.DB) *GormBudgetPeriodRepository {
	return &GormBudgetPeriodRepository{db: db}
}

// Save creates or updates a budget period together with its lines
func (r *GormBudgetPeriodRepository) Save(ctx context.Context, period *budget.BudgetPeriod) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(period).Error; err != nil {
			return err
		}
		return r.replaceLines(tx, period)
	})
}

// SaveWithLock persists the period only if the stored version matches
// expectedVersion. Returns shared.ErrConcurrencyConflict when another
// writer got there first.
func (r *GormBudgetPeriodRepository) SaveWithLock(ctx context.Context, period *budget.BudgetPeriod, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&budget.BudgetPeriod{}).
			Where("id = ? AND version = ?", period.ID, expectedVersion).
			Updates(map[string]interface{}{
				"name":        period.Name,
				"start_date":  period.StartDate,
				"end_date":    period.EndDate,
				"status":      period.Status,
				"is_revised":  period.IsRevised,
				"original_id": period.OriginalID,
				"revision_id": period.RevisionID,
				"version":     period.Version,
				"updated_at":  period.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&budget.BudgetPeriod{}).
				Where("id = ?", period.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}
		return r.replaceLines(tx, period)
	})
}

// replaceLines upserts the current line set and removes lines that are
// no longer part of the period
func (r *GormBudgetPeriodRepository) replaceLines(tx *gorm.DB, period *budget.BudgetPeriod) error {
	keep := make([]uuid.UUID, 0, len(period.Lines))
	for i := range period.Lines {
		if err := tx.Save(&period.Lines[i]).Error; err != nil {
			return err
		}
		keep = append(keep, period.Lines[i].ID)
	}

	query := tx.Where("period_id = ?", period.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(&budget.BudgetLine{}).Error
}

// FindByID finds a budget period by its ID
func (r *GormBudgetPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.BudgetPeriod, error) {
	var period budget.BudgetPeriod
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&period, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &period, nil
}

// FindAll finds budget periods matching the filter with pagination
func (r *GormBudgetPeriodRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*budget.BudgetPeriod], error) {
	query := r.db.WithContext(ctx).Model(&budget.BudgetPeriod{})

	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "is_revised":
			query = query.Where("is_revised = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, BudgetPeriodSortFields, "start_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var periods []*budget.BudgetPeriod
	if err := query.Preload("Lines").Find(&periods).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(periods, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindConfirmedCovering returns confirmed periods whose date range
// contains the given date
func (r *GormBudgetPeriodRepository) FindConfirmedCovering(ctx context.Context, date time.Time) ([]*budget.BudgetPeriod, error) {
	var periods []*budget.BudgetPeriod
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status = ? AND start_date <= ? AND end_date >= ?", budget.BudgetPeriodStatusConfirmed, date, date).
		Order("start_date ASC").
		Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// FindConfirmedByAnalytic returns confirmed periods holding a line for
// the given analytic and covering the given date
func (r *GormBudgetPeriodRepository) FindConfirmedByAnalytic(ctx context.Context, analyticID uuid.UUID, date time.Time) ([]*budget.BudgetPeriod, error) {
	var periods []*budget.BudgetPeriod
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status = ? AND start_date <= ? AND end_date >= ?", budget.BudgetPeriodStatusConfirmed, date, date).
		Where("id IN (?)", r.db.Model(&budget.BudgetLine{}).Select("period_id").Where("analytic_id = ?", analyticID)).
		Order("start_date ASC").
		Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// Delete deletes a budget period and its lines
func (r *GormBudgetPeriodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&budget.BudgetLine{}, "period_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&budget.BudgetPeriod{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
