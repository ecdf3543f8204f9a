package budget

import (
	"context"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BudgetService handles budget period business operations
type BudgetService struct {
	budgetRepo     budget.BudgetPeriodRepository
	analyticRepo   budget.AnalyticRepository
	eventPublisher shared.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo budget.BudgetPeriodRepository, analyticRepo budget.AnalyticRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, analyticRepo: analyticRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BudgetService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft budget period with its lines
func (s *BudgetService) Create(ctx context.Context, req CreateBudgetRequest) (*BudgetResponse, error) {
	period, err := budget.NewBudgetPeriod(req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Lines {
		if err := s.addLine(ctx, period, input); err != nil {
			return nil, err
		}
	}

	if err := s.budgetRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, period)

	response := ToBudgetResponse(period)
	return &response, nil
}

// GetByID retrieves a budget period with its derived line figures
func (s *BudgetService) GetByID(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	period, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBudgetResponse(period)
	return &response, nil
}

// List retrieves budget periods with filtering and pagination
func (s *BudgetService) List(ctx context.Context, filter shared.Filter) ([]BudgetResponse, int64, error) {
	page, err := s.budgetRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToBudgetResponses(page.Items), page.Total, nil
}

// Update edits a draft budget period. When lines are given they
// replace the existing set.
func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, req UpdateBudgetRequest) (*BudgetResponse, error) {
	period, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !period.IsDraft() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft budgets can be edited")
	}

	if req.Name != nil {
		period.Name = *req.Name
	}
	if req.Lines != nil {
		for _, line := range append([]budget.BudgetLine(nil), period.Lines...) {
			if err := period.RemoveLine(line.AnalyticID); err != nil {
				return nil, err
			}
		}
		for _, input := range req.Lines {
			if err := s.addLine(ctx, period, input); err != nil {
				return nil, err
			}
		}
	}

	if err := s.budgetRepo.Save(ctx, period); err != nil {
		return nil, err
	}

	response := ToBudgetResponse(period)
	return &response, nil
}

// Confirm transitions a draft budget to confirmed
func (s *BudgetService) Confirm(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	period, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := period.Confirm(); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, period)

	response := ToBudgetResponse(period)
	return &response, nil
}

// Cancel cancels a draft budget
func (s *BudgetService) Cancel(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	period, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := period.Cancel(); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, period); err != nil {
		return nil, err
	}

	response := ToBudgetResponse(period)
	return &response, nil
}

// Revise freezes a confirmed budget and returns the new linked draft
func (s *BudgetService) Revise(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	period, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	revision, err := period.Revise()
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, revision); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, period)

	response := ToBudgetResponse(revision)
	return &response, nil
}

// AnalyticDetails returns the budget line figures for one analytic of
// the period
func (s *BudgetService) AnalyticDetails(ctx context.Context, id, analyticID uuid.UUID) (*BudgetLineResponse, error) {
	period, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	line := period.GetLine(analyticID)
	if line == nil {
		return nil, shared.NewDomainError("LINE_NOT_FOUND", "Budget line not found for analytic")
	}

	return &BudgetLineResponse{
		ID:              line.ID,
		AnalyticID:      line.AnalyticID,
		AnalyticName:    line.AnalyticName,
		Type:            line.Type.String(),
		BudgetedAmount:  line.BudgetedAmount,
		AchievedAmount:  line.AchievedAmount,
		AchievedPercent: line.AchievedPercent(),
		AmountToAchieve: line.AmountToAchieve(),
	}, nil
}

// Delete removes a draft or cancelled budget
func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	period, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if period.IsConfirmed() || period.Status == budget.BudgetPeriodStatusRevised {
		return shared.NewDomainError("INVALID_STATE", "Confirmed and revised budgets cannot be deleted")
	}
	return s.budgetRepo.Delete(ctx, id)
}

func (s *BudgetService) addLine(ctx context.Context, period *budget.BudgetPeriod, input BudgetLineInput) error {
	analytic, err := s.analyticRepo.FindByID(ctx, input.AnalyticID)
	if err != nil {
		return err
	}
	if !analytic.IsAssignable() {
		return shared.NewDomainError("ANALYTIC_ARCHIVED", "Cannot budget an archived analytic")
	}
	_, err = period.AddLine(analytic.ID, analytic.Name, analytic.Type, input.BudgetedAmount)
	return err
}

func (s *BudgetService) publishEvents(ctx context.Context, period *budget.BudgetPeriod) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range period.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	period.ClearDomainEvents()
}
