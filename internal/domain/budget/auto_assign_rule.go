package budget

import (
	"time"

	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AutoAssignRule maps a partner/product context to a default analytic.
// A rule needs at least one partner-side and one product-side clause to
// ever match; a rule missing either side is inert but not invalid.
type AutoAssignRule struct {
	shared.BaseAggregateRoot
	PartnerTagID      *uuid.UUID `gorm:"type:uuid;index"`
	PartnerID         *uuid.UUID `gorm:"type:uuid;index"`
	ProductCategoryID *uuid.UUID `gorm:"type:uuid;index"`
	ProductID         *uuid.UUID `gorm:"type:uuid;index"`
	TargetAnalyticID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Active            bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (AutoAssignRule) TableName() string {
	return "auto_assign_rules"
}

// NewAutoAssignRule creates a new auto-assignment rule
func NewAutoAssignRule(targetAnalyticID uuid.UUID) (*AutoAssignRule, error) {
	if targetAnalyticID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ANALYTIC", "Target analytic ID cannot be empty")
	}

	return &AutoAssignRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TargetAnalyticID:  targetAnalyticID,
		Active:            true,
	}, nil
}

// SetPartnerClause sets the partner-side match criteria
func (r *AutoAssignRule) SetPartnerClause(partnerID, partnerTagID *uuid.UUID) {
	r.PartnerID = partnerID
	r.PartnerTagID = partnerTagID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetProductClause sets the product-side match criteria
func (r *AutoAssignRule) SetProductClause(productID, productCategoryID *uuid.UUID) {
	r.ProductID = productID
	r.ProductCategoryID = productCategoryID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetTargetAnalytic changes the analytic this rule assigns
func (r *AutoAssignRule) SetTargetAnalytic(analyticID uuid.UUID) error {
	if analyticID == uuid.Nil {
		return shared.NewDomainError("INVALID_ANALYTIC", "Target analytic ID cannot be empty")
	}
	r.TargetAnalyticID = analyticID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Deactivate archives the rule so it no longer matches
func (r *AutoAssignRule) Deactivate() {
	r.Active = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Activate re-enables the rule
func (r *AutoAssignRule) Activate() {
	r.Active = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// HasPartnerClause returns true if the rule can match on the partner side
func (r *AutoAssignRule) HasPartnerClause() bool {
	return r.PartnerID != nil || r.PartnerTagID != nil
}

// HasProductClause returns true if the rule can match on the product side
func (r *AutoAssignRule) HasProductClause() bool {
	return r.ProductID != nil || r.ProductCategoryID != nil
}

// IsInert returns true if the rule can never match anything
func (r *AutoAssignRule) IsInert() bool {
	return !r.HasPartnerClause() || !r.HasProductClause()
}

// MatchContext carries the document-line context a rule is matched against
type MatchContext struct {
	PartnerID         uuid.UUID
	PartnerTagIDs     []uuid.UUID
	ProductID         *uuid.UUID
	ProductCategoryID *uuid.UUID
	ProductName       string
}

// MatchesPartner returns true if the rule's partner clause matches the context
func (r *AutoAssignRule) MatchesPartner(ctx MatchContext) bool {
	if r.PartnerID != nil && *r.PartnerID == ctx.PartnerID {
		return true
	}
	if r.PartnerTagID != nil {
		for _, tagID := range ctx.PartnerTagIDs {
			if tagID == *r.PartnerTagID {
				return true
			}
		}
	}
	return false
}

// MatchesProduct returns true if the rule's product clause matches the context
func (r *AutoAssignRule) MatchesProduct(ctx MatchContext) bool {
	if r.ProductID != nil && ctx.ProductID != nil && *r.ProductID == *ctx.ProductID {
		return true
	}
	if r.ProductCategoryID != nil && ctx.ProductCategoryID != nil && *r.ProductCategoryID == *ctx.ProductCategoryID {
		return true
	}
	return false
}

// Matches returns true if both clauses match the context
func (r *AutoAssignRule) Matches(ctx MatchContext) bool {
	if !r.Active || r.IsInert() {
		return false
	}
	return r.MatchesPartner(ctx) && r.MatchesProduct(ctx)
}

// Specificity scores how precise the rule's clauses are.
// An exact partner or product reference outranks a tag or category one.
func (r *AutoAssignRule) Specificity() int {
	score := 0
	if r.PartnerID != nil {
		score += 2
	} else if r.PartnerTagID != nil {
		score++
	}
	if r.ProductID != nil {
		score += 2
	} else if r.ProductCategoryID != nil {
		score++
	}
	return score
}
