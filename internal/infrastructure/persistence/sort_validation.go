package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// AnalyticSortFields contains allowed sort fields for budget analytics
var AnalyticSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"status":     true,
	"start_date": true,
	"end_date":   true,
}

// RuleSortFields contains allowed sort fields for auto-assign rules
var RuleSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"active":     true,
}

// BudgetPeriodSortFields contains allowed sort fields for budget periods
var BudgetPeriodSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"status":     true,
	"start_date": true,
	"end_date":   true,
}

// DocumentSortFields contains allowed sort fields for financial documents
var DocumentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"document_no":    true,
	"document_date":  true,
	"due_date":       true,
	"status":         true,
	"payment_status": true,
	"total_amount":   true,
	"amount_due":     true,
	"partner_name":   true,
}
