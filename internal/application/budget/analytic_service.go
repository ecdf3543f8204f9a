package budget

import (
	"context"
	"errors"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AnalyticService handles budget analytic business operations
type AnalyticService struct {
	analyticRepo   budget.AnalyticRepository
	eventPublisher shared.EventPublisher
}

// NewAnalyticService creates a new AnalyticService
func NewAnalyticService(analyticRepo budget.AnalyticRepository) *AnalyticService {
	return &AnalyticService{analyticRepo: analyticRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AnalyticService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new budget analytic
func (s *AnalyticService) Create(ctx context.Context, req CreateAnalyticRequest) (*AnalyticResponse, error) {
	existing, err := s.analyticRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_NAME", "An analytic with this name already exists")
	}

	analytic, err := budget.NewAnalytic(req.Name, budget.AnalyticType(req.Type))
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		analytic.SetDescription(req.Description)
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := analytic.SetDateRange(req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.ProductCategoryID != nil {
		analytic.SetProductCategory(req.ProductCategoryID)
	}

	if err := s.analyticRepo.Save(ctx, analytic); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, analytic)

	response := ToAnalyticResponse(analytic)
	return &response, nil
}

// GetByID retrieves an analytic by ID
func (s *AnalyticService) GetByID(ctx context.Context, id uuid.UUID) (*AnalyticResponse, error) {
	analytic, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAnalyticResponse(analytic)
	return &response, nil
}

// List retrieves analytics with filtering and pagination
func (s *AnalyticService) List(ctx context.Context, filter shared.Filter) ([]AnalyticResponse, int64, error) {
	page, err := s.analyticRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToAnalyticResponses(page.Items), page.Total, nil
}

// Update edits an analytic's mutable fields
func (s *AnalyticService) Update(ctx context.Context, id uuid.UUID, req UpdateAnalyticRequest) (*AnalyticResponse, error) {
	analytic, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != analytic.Name {
		existing, err := s.analyticRepo.FindByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != analytic.ID {
			return nil, shared.NewDomainError("DUPLICATE_NAME", "An analytic with this name already exists")
		}
		if err := analytic.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		analytic.SetDescription(*req.Description)
	}
	if req.ClearDates {
		if err := analytic.SetDateRange(nil, nil); err != nil {
			return nil, err
		}
	} else if req.StartDate != nil || req.EndDate != nil {
		start := analytic.StartDate
		end := analytic.EndDate
		if req.StartDate != nil {
			start = req.StartDate
		}
		if req.EndDate != nil {
			end = req.EndDate
		}
		if err := analytic.SetDateRange(start, end); err != nil {
			return nil, err
		}
	}
	if req.ProductCategoryID != nil {
		analytic.SetProductCategory(req.ProductCategoryID)
	}

	if err := s.analyticRepo.Save(ctx, analytic); err != nil {
		return nil, err
	}

	response := ToAnalyticResponse(analytic)
	return &response, nil
}

// Confirm transitions an analytic from new to confirmed
func (s *AnalyticService) Confirm(ctx context.Context, id uuid.UUID) (*AnalyticResponse, error) {
	return s.transition(ctx, id, (*budget.Analytic).Confirm)
}

// Archive archives an analytic, blocking new assignment
func (s *AnalyticService) Archive(ctx context.Context, id uuid.UUID) (*AnalyticResponse, error) {
	return s.transition(ctx, id, (*budget.Analytic).Archive)
}

// Unarchive restores an archived analytic
func (s *AnalyticService) Unarchive(ctx context.Context, id uuid.UUID) (*AnalyticResponse, error) {
	return s.transition(ctx, id, (*budget.Analytic).Unarchive)
}

// DeletePermanently removes an archived analytic for good. Unlike
// archiving there is no way back, so archiving first is mandatory.
func (s *AnalyticService) DeletePermanently(ctx context.Context, id uuid.UUID) error {
	analytic, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !analytic.IsArchived() {
		return shared.NewDomainError("NOT_ARCHIVED", "Analytic must be archived before permanent deletion")
	}
	return s.analyticRepo.Delete(ctx, id)
}

func (s *AnalyticService) transition(ctx context.Context, id uuid.UUID, op func(*budget.Analytic) error) (*AnalyticResponse, error) {
	analytic, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(analytic); err != nil {
		return nil, err
	}
	if err := s.analyticRepo.Save(ctx, analytic); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, analytic)

	response := ToAnalyticResponse(analytic)
	return &response, nil
}

func (s *AnalyticService) publishEvents(ctx context.Context, analytic *budget.Analytic) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range analytic.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	analytic.ClearDomainEvents()
}
