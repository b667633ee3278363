package models

import (
	"fmt"
	"strings"
)

// ReportStatus defines allowed lifecycle states for reports.
type ReportStatus string

const (
	StatusOpen       ReportStatus = "open"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
)

// ReportPriority defines allowed report priorities.
type ReportPriority string

const (
	PriorityBlocking ReportPriority = "Blocking"
	PriorityHigh     ReportPriority = "High"
	PriorityMedium   ReportPriority = "Medium"
	PriorityLow      ReportPriority = "Low"

	DefaultPriority = PriorityMedium
	DefaultStatus   = StatusOpen
)

var validReportStatuses = map[ReportStatus]struct{}{
	StatusOpen:       {},
	StatusInProgress: {},
	StatusResolved:   {},
}

var validReportPriorities = map[string]ReportPriority{
	"blocking": PriorityBlocking,
	"high":     PriorityHigh,
	"medium":   PriorityMedium,
	"low":      PriorityLow,
}

func IsValidReportStatus(status ReportStatus) bool {
	_, ok := validReportStatuses[status]
	return ok
}

// ParseReportStatus validates a raw status string. Matching is
// case-insensitive; the canonical lowercase form is returned.
func ParseReportStatus(raw string) (ReportStatus, error) {
	value := ReportStatus(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidReportStatus(value) {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return value, nil
}

// ParseReportPriority validates a raw priority string. Matching is
// case-insensitive; the canonical capitalized form is returned. An empty
// value yields the default priority.
func ParseReportPriority(raw string) (ReportPriority, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return DefaultPriority, nil
	}
	value, ok := validReportPriorities[trimmed]
	if !ok {
		return "", fmt.Errorf("invalid priority: %s", raw)
	}
	return value, nil
}

// ReportStatusStrings returns all valid statuses for help text and errors.
func ReportStatusStrings() []string {
	return []string{string(StatusOpen), string(StatusInProgress), string(StatusResolved)}
}

// ReportPriorityStrings returns all valid priorities for help text and errors.
func ReportPriorityStrings() []string {
	return []string{string(PriorityBlocking), string(PriorityHigh), string(PriorityMedium), string(PriorityLow)}
}
