package budget

import (
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAnalyticRequest is the request to create a budget analytic
type CreateAnalyticRequest struct {
	Name              string     `json:"name" binding:"required,max=200"`
	Description       string     `json:"description"`
	Type              string     `json:"type" binding:"required,oneof=income expense"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	ProductCategoryID *uuid.UUID `json:"productCategoryId"`
}

// UpdateAnalyticRequest is the request to update a budget analytic
type UpdateAnalyticRequest struct {
	Name              *string    `json:"name" binding:"omitempty,max=200"`
	Description       *string    `json:"description"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	ProductCategoryID *uuid.UUID `json:"productCategoryId"`
	ClearDates        bool       `json:"clearDates"`
}

// AnalyticResponse is the API representation of a budget analytic
type AnalyticResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	ProductCategoryID *uuid.UUID `json:"productCategoryId,omitempty"`
	ArchivedAt        *time.Time `json:"archivedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	Version           int        `json:"version"`
}

// ToAnalyticResponse converts a domain analytic to its API representation
func ToAnalyticResponse(a *budget.Analytic) AnalyticResponse {
	return AnalyticResponse{
		ID:                a.ID,
		Name:              a.Name,
		Description:       a.Description,
		Type:              a.Type.String(),
		Status:            a.Status.String(),
		StartDate:         a.StartDate,
		EndDate:           a.EndDate,
		ProductCategoryID: a.ProductCategoryID,
		ArchivedAt:        a.ArchivedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
		Version:           a.GetVersion(),
	}
}

// ToAnalyticResponses converts a slice of domain analytics
func ToAnalyticResponses(analytics []*budget.Analytic) []AnalyticResponse {
	responses := make([]AnalyticResponse, 0, len(analytics))
	for _, a := range analytics {
		responses = append(responses, ToAnalyticResponse(a))
	}
	return responses
}

// CreateRuleRequest is the request to create an auto-assign rule
type CreateRuleRequest struct {
	PartnerID         *uuid.UUID `json:"partnerId"`
	PartnerTagID      *uuid.UUID `json:"partnerTagId"`
	ProductID         *uuid.UUID `json:"productId"`
	ProductCategoryID *uuid.UUID `json:"productCategoryId"`
	TargetAnalyticID  uuid.UUID  `json:"targetAnalyticId" binding:"required"`
}

// UpdateRuleRequest is the request to update an auto-assign rule
type UpdateRuleRequest struct {
	PartnerID         *uuid.UUID `json:"partnerId"`
	PartnerTagID      *uuid.UUID `json:"partnerTagId"`
	ProductID         *uuid.UUID `json:"productId"`
	ProductCategoryID *uuid.UUID `json:"productCategoryId"`
	TargetAnalyticID  *uuid.UUID `json:"targetAnalyticId"`
	Active            *bool      `json:"active"`
}

// RuleResponse is the API representation of an auto-assign rule
type RuleResponse struct {
	ID                uuid.UUID  `json:"id"`
	PartnerID         *uuid.UUID `json:"partnerId,omitempty"`
	PartnerTagID      *uuid.UUID `json:"partnerTagId,omitempty"`
	ProductID         *uuid.UUID `json:"productId,omitempty"`
	ProductCategoryID *uuid.UUID `json:"productCategoryId,omitempty"`
	TargetAnalyticID  uuid.UUID  `json:"targetAnalyticId"`
	Active            bool       `json:"active"`
	Inert             bool       `json:"inert"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ToRuleResponse converts a domain rule to its API representation
func ToRuleResponse(r *budget.AutoAssignRule) RuleResponse {
	return RuleResponse{
		ID:                r.ID,
		PartnerID:         r.PartnerID,
		PartnerTagID:      r.PartnerTagID,
		ProductID:         r.ProductID,
		ProductCategoryID: r.ProductCategoryID,
		TargetAnalyticID:  r.TargetAnalyticID,
		Active:            r.Active,
		Inert:             r.IsInert(),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ToRuleResponses converts a slice of domain rules
func ToRuleResponses(rules []*budget.AutoAssignRule) []RuleResponse {
	responses := make([]RuleResponse, 0, len(rules))
	for _, r := range rules {
		responses = append(responses, ToRuleResponse(r))
	}
	return responses
}

// BudgetLineInput is one analytic line in a budget create/update request
type BudgetLineInput struct {
	AnalyticID     uuid.UUID       `json:"analyticId" binding:"required"`
	BudgetedAmount decimal.Decimal `json:"budgetedAmount" binding:"required"`
}

// CreateBudgetRequest is the request to create a budget period
type CreateBudgetRequest struct {
	Name      string            `json:"name" binding:"required,max=200"`
	StartDate time.Time         `json:"startDate" binding:"required"`
	EndDate   time.Time         `json:"endDate" binding:"required"`
	Lines     []BudgetLineInput `json:"lines"`
}

// UpdateBudgetRequest edits a draft budget period
type UpdateBudgetRequest struct {
	Name  *string           `json:"name" binding:"omitempty,max=200"`
	Lines []BudgetLineInput `json:"lines"`
}

// BudgetLineResponse is the API representation of one budget line,
// with the derived progress figures
type BudgetLineResponse struct {
	ID              uuid.UUID        `json:"id"`
	AnalyticID      uuid.UUID        `json:"analyticId"`
	AnalyticName    string           `json:"analyticName"`
	Type            string           `json:"type"`
	BudgetedAmount  decimal.Decimal  `json:"budgetedAmount"`
	AchievedAmount  decimal.Decimal  `json:"achievedAmount"`
	AchievedPercent *decimal.Decimal `json:"achievedPercent"`
	AmountToAchieve decimal.Decimal  `json:"amountToAchieve"`
}

// BudgetResponse is the API representation of a budget period
type BudgetResponse struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	StartDate     time.Time            `json:"startDate"`
	EndDate       time.Time            `json:"endDate"`
	Status        string               `json:"status"`
	IsRevised     bool                 `json:"isRevised"`
	OriginalID    *uuid.UUID           `json:"originalId,omitempty"`
	RevisionID    *uuid.UUID           `json:"revisionId,omitempty"`
	TotalBudgeted decimal.Decimal      `json:"totalBudgeted"`
	TotalAchieved decimal.Decimal      `json:"totalAchieved"`
	Lines         []BudgetLineResponse `json:"lines"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Version       int                  `json:"version"`
}

// ToBudgetResponse converts a domain budget period to its API representation
func ToBudgetResponse(p *budget.BudgetPeriod) BudgetResponse {
	lines := make([]BudgetLineResponse, 0, len(p.Lines))
	for idx := range p.Lines {
		line := &p.Lines[idx]
		lines = append(lines, BudgetLineResponse{
			ID:              line.ID,
			AnalyticID:      line.AnalyticID,
			AnalyticName:    line.AnalyticName,
			Type:            line.Type.String(),
			BudgetedAmount:  line.BudgetedAmount,
			AchievedAmount:  line.AchievedAmount,
			AchievedPercent: line.AchievedPercent(),
			AmountToAchieve: line.AmountToAchieve(),
		})
	}
	return BudgetResponse{
		ID:            p.ID,
		Name:          p.Name,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Status:        p.Status.String(),
		IsRevised:     p.IsRevised,
		OriginalID:    p.OriginalID,
		RevisionID:    p.RevisionID,
		TotalBudgeted: p.TotalBudgeted(),
		TotalAchieved: p.TotalAchieved(),
		Lines:         lines,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.GetVersion(),
	}
}

// ToBudgetResponses converts a slice of domain budget periods
func ToBudgetResponses(periods []*budget.BudgetPeriod) []BudgetResponse {
	responses := make([]BudgetResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, ToBudgetResponse(p))
	}
	return responses
}

// BudgetCheckResult is the outcome of checking an amount against the
// analytic's confirmed budgets. Exceeding is a warning, never an error.
type BudgetCheckResult struct {
	AnalyticID     uuid.UUID        `json:"analyticId"`
	Exceeded       bool             `json:"exceeded"`
	PeriodID       *uuid.UUID       `json:"periodId,omitempty"`
	PeriodName     string           `json:"periodName,omitempty"`
	BudgetedAmount *decimal.Decimal `json:"budgetedAmount,omitempty"`
	AchievedAmount *decimal.Decimal `json:"achievedAmount,omitempty"`
	ProjectedTotal *decimal.Decimal `json:"projectedTotal,omitempty"`
}
