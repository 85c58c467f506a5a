package domain

import "strings"

// HealthStatus classifies days-of-supply for a (location, item) pair.
type HealthStatus string

const (
	StatusCritical HealthStatus = "CRITICAL"
	StatusWarning  HealthStatus = "WARNING"
	StatusHealthy  HealthStatus = "HEALTHY"

	// StatusUnknown marks heatmap cells with no reference-date transaction.
	// The calculator itself never emits it.
	StatusUnknown HealthStatus = "UNKNOWN"
)

// ParseSeverity accepts the two alert severities, case-insensitively.
// Any other value is a validation error per the alert contract.
func ParseSeverity(s string) (HealthStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(StatusCritical):
		return StatusCritical, true
	case string(StatusWarning):
		return StatusWarning, true
	}
	return "", false
}
