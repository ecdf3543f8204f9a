package recommend

import (
	"time"

	"github.com/google/uuid"
)

// Source tells where a recommendation came from
type Source string

const (
	SourcePattern Source = "pattern"
	SourceRule    Source = "rule"
	SourceNone    Source = "none"
)

// Request carries one document-line context to recommend an analytic for
type Request struct {
	PartnerID         uuid.UUID   `json:"partnerId" binding:"required"`
	PartnerTagIDs     []uuid.UUID `json:"partnerTagIds"`
	ProductID         *uuid.UUID  `json:"productId"`
	ProductCategoryID *uuid.UUID  `json:"productCategoryId"`
	ProductName       string      `json:"productName"`
	DocumentDate      *time.Time  `json:"documentDate"`
}

// Recommendation is the outcome for one line. Source "none" means no
// analytic cleared the bar and the line stays untagged.
type Recommendation struct {
	AnalyticID   *uuid.UUID `json:"analyticId"`
	AnalyticName string     `json:"analyticName,omitempty"`
	Source       Source     `json:"source"`
	Confidence   float64    `json:"confidence"`
	Reason       string     `json:"reason,omitempty"`
}

// None is the empty recommendation
func None() Recommendation {
	return Recommendation{Source: SourceNone}
}
