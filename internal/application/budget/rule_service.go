package budget

import (
	"context"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleService handles auto-assign rule business operations
type RuleService struct {
	ruleRepo     budget.AutoAssignRuleRepository
	analyticRepo budget.AnalyticRepository
}

// NewRuleService creates a new RuleService
func NewRuleService(ruleRepo budget.AutoAssignRuleRepository, analyticRepo budget.AnalyticRepository) *RuleService {
	return &RuleService{ruleRepo: ruleRepo, analyticRepo: analyticRepo}
}

// Create creates a new auto-assign rule pointing at an assignable analytic
func (s *RuleService) Create(ctx context.Context, req CreateRuleRequest) (*RuleResponse, error) {
	if err := s.checkTarget(ctx, req.TargetAnalyticID); err != nil {
		return nil, err
	}

	rule, err := budget.NewAutoAssignRule(req.TargetAnalyticID)
	if err != nil {
		return nil, err
	}
	rule.SetPartnerClause(req.PartnerID, req.PartnerTagID)
	rule.SetProductClause(req.ProductID, req.ProductCategoryID)

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

// GetByID retrieves a rule by ID
func (s *RuleService) GetByID(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRuleResponse(rule)
	return &response, nil
}

// List retrieves rules with filtering and pagination
func (s *RuleService) List(ctx context.Context, filter shared.Filter) ([]RuleResponse, int64, error) {
	page, err := s.ruleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToRuleResponses(page.Items), page.Total, nil
}

// Update edits a rule's clauses, target or active flag
func (s *RuleService) Update(ctx context.Context, id uuid.UUID, req UpdateRuleRequest) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TargetAnalyticID != nil {
		if err := s.checkTarget(ctx, *req.TargetAnalyticID); err != nil {
			return nil, err
		}
		if err := rule.SetTargetAnalytic(*req.TargetAnalyticID); err != nil {
			return nil, err
		}
	}
	if req.PartnerID != nil || req.PartnerTagID != nil {
		rule.SetPartnerClause(req.PartnerID, req.PartnerTagID)
	}
	if req.ProductID != nil || req.ProductCategoryID != nil {
		rule.SetProductClause(req.ProductID, req.ProductCategoryID)
	}
	if req.Active != nil {
		if *req.Active {
			rule.Activate()
		} else {
			rule.Deactivate()
		}
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

// Delete removes a rule
func (s *RuleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ruleRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, id)
}

func (s *RuleService) checkTarget(ctx context.Context, analyticID uuid.UUID) error {
	analytic, err := s.analyticRepo.FindByID(ctx, analyticID)
	if err != nil {
		return err
	}
	if !analytic.IsAssignable() {
		return shared.NewDomainError("ANALYTIC_ARCHIVED", "Cannot target an archived analytic")
	}
	return nil
}
