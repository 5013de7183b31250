package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to ASC.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField returns sortField if whitelisted, otherwise defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// RevenueCenterSortFields contains allowed sort columns for revenue centers
var RevenueCenterSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"from_date":  true,
	"to_date":    true,
	"created_at": true,
	"updated_at": true,
}
