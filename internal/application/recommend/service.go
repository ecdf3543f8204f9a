package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service resolves budget analytic recommendations for document lines.
// It blends the partner/product history signal with the configured
// auto-assign rules and filters out analytics that may no longer be
// assigned.
type Service struct {
	matcher      *RuleMatcher
	history      *HistoryRecommender
	blender      *Blender
	analyticRepo budget.AnalyticRepository
	logger       *zap.Logger
}

// NewService creates a new recommendation Service
func NewService(matcher *RuleMatcher, history *HistoryRecommender, blender *Blender, analyticRepo budget.AnalyticRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		matcher:      matcher,
		history:      history,
		blender:      blender,
		analyticRepo: analyticRepo,
		logger:       logger,
	}
}

// Recommend resolves the analytic recommendation for one line context
func (s *Service) Recommend(ctx context.Context, req Request) (Recommendation, error) {
	if req.PartnerID == uuid.Nil {
		return Recommendation{}, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}

	date := time.Now()
	if req.DocumentDate != nil {
		date = *req.DocumentDate
	}

	pattern, err := s.history.Recommend(ctx, req)
	if err != nil {
		return Recommendation{}, err
	}
	if !s.assignable(ctx, pattern.AnalyticID, date) {
		pattern = None()
	}

	rule := None()
	matched, err := s.matcher.Match(ctx, budget.MatchContext{
		PartnerID:         req.PartnerID,
		PartnerTagIDs:     req.PartnerTagIDs,
		ProductID:         req.ProductID,
		ProductCategoryID: req.ProductCategoryID,
		ProductName:       req.ProductName,
	})
	if err != nil {
		return Recommendation{}, err
	}
	if matched != nil {
		if analytic := s.lookupAssignable(ctx, matched.TargetAnalyticID, date); analytic != nil {
			targetID := matched.TargetAnalyticID
			rule = Recommendation{
				AnalyticID:   &targetID,
				AnalyticName: analytic.Name,
				Source:       SourceRule,
				Confidence:   1,
				Reason:       "matched an auto-assignment rule",
			}
		}
	}

	result := s.blender.Blend(pattern, rule)

	s.logger.Debug("analytic recommendation resolved",
		zap.String("partner_id", req.PartnerID.String()),
		zap.String("product", req.ProductName),
		zap.String("source", string(result.Source)),
		zap.Float64("confidence", result.Confidence))

	return result, nil
}

// assignable reports whether the analytic exists, is not archived and
// covers the document date
func (s *Service) assignable(ctx context.Context, analyticID *uuid.UUID, date time.Time) bool {
	if analyticID == nil {
		return false
	}
	return s.lookupAssignable(ctx, *analyticID, date) != nil
}

func (s *Service) lookupAssignable(ctx context.Context, analyticID uuid.UUID, date time.Time) *budget.Analytic {
	analytic, err := s.analyticRepo.FindByID(ctx, analyticID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("analytic lookup failed during recommendation",
				zap.String("analytic_id", analyticID.String()), zap.Error(err))
		}
		return nil
	}
	if !analytic.IsAssignable() || !analytic.IsActiveOn(date) {
		return nil
	}
	return analytic
}
