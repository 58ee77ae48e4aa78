package report

import (
	"strconv"
	"time"

	"github.com/Iron-Ham/clauditor/internal/audit"
)

// FormatCost formats a cost value for display (e.g., "$0.0042").
// Audit costs are often fractions of a cent, so four decimal places.
func FormatCost(cost float64) string {
	return "$" + FormatCostValue(cost)
}

// FormatCostValue formats a cost as a plain decimal string with the same
// precision as FormatCost, for machine-readable outputs. Fixed precision
// keeps summed costs free of floating-point artifacts.
func FormatCostValue(cost float64) string {
	return strconv.FormatFloat(cost, 'f', 4, 64)
}

// FormatTokens formats a token count for display (e.g., "45.2K").
func FormatTokens(tokens int64) string {
	if tokens >= 1000000 {
		return strconv.FormatFloat(float64(tokens)/1000000.0, 'f', 1, 64) + "M"
	}
	if tokens >= 1000 {
		return strconv.FormatFloat(float64(tokens)/1000.0, 'f', 1, 64) + "K"
	}
	return strconv.FormatInt(tokens, 10)
}

// FormatDuration formats a millisecond duration for display (e.g., "1m23s").
func FormatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(time.Millisecond).String()
}

// StatusTag maps a job status string to its report label.
func StatusTag(status string) string {
	switch status {
	case audit.StatusSuccess:
		return "OK"
	case audit.StatusSkipped:
		return "SKIP"
	default:
		return "FAIL"
	}
}

// SeverityTag maps a permission issue severity to its report label.
func SeverityTag(severity string) string {
	switch severity {
	case audit.SeverityHigh:
		return "HIGH"
	case audit.SeverityMedium:
		return "MED"
	case audit.SeverityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}
