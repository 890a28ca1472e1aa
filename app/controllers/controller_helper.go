package controllers

import "time"

// formatTimePtr renders an optional timestamp for JSON responses, empty string
// when unset.
func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
