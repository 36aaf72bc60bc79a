package exporter

import (
	"fmt"
)

// formatTemperature formats a temperature for CSV output with exactly
// 1 decimal place, matching the rounding applied by the aggregator.
func formatTemperature(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
