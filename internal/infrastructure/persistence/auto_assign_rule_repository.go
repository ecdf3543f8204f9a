package persistence

import (
	"context"
	"errors"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAutoAssignRuleRepository implements budget.AutoAssignRuleRepository using GORM
type GormAutoAssignRuleRepository struct {
	db *gorm.DB
}

// NewGormAutoAssignRuleRepository creates a new GormAutoAssignRuleRepository
func NewGormAutoAssignRuleRepository(db *gorm.DB) *GormAutoAssignRuleRepository {
	return &GormAutoAssignRuleRepository{db: db}
}

// Save creates or updates a rule
func (r *GormAutoAssignRuleRepository) Save(ctx context.Context, rule *budget.AutoAssignRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// FindByID finds a rule by its ID
func (r *GormAutoAssignRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.AutoAssignRule, error) {
	var rule budget.AutoAssignRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindActive returns all active rules, oldest first so matching is stable
func (r *GormAutoAssignRuleRepository) FindActive(ctx context.Context) ([]*budget.AutoAssignRule, error) {
	var rules []*budget.AutoAssignRule
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindAll finds rules matching the filter with pagination
func (r *GormAutoAssignRuleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*budget.AutoAssignRule], error) {
	query := r.db.WithContext(ctx).Model(&budget.AutoAssignRule{})

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "target_analytic_id":
			query = query.Where("target_analytic_id = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, RuleSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var rules []*budget.AutoAssignRule
	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(rules, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete deletes a rule
func (r *GormAutoAssignRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&budget.AutoAssignRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
