package tier

import "strings"

// Tier is a subscription level controlling content access.
type Tier string

const (
	Free    Tier = "free"
	Basic   Tier = "basic"
	Premium Tier = "premium"
)

// Normalize maps arbitrary input to a known tier, defaulting to free.
func Normalize(t string) Tier {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case string(Basic):
		return Basic
	case string(Premium):
		return Premium
	default:
		return Free
	}
}

// Rank returns the position of a tier in the total order free < basic < premium.
func Rank(t Tier) int {
	switch Normalize(string(t)) {
	case Premium:
		return 2
	case Basic:
		return 1
	default:
		return 0
	}
}

// HasAccess reports whether userTier satisfies requiredTier. Every tier gate
// in the application goes through this function so the ordering cannot drift
// between enforcement points.
func HasAccess(userTier, requiredTier Tier) bool {
	return Rank(userTier) >= Rank(requiredTier)
}

// IsValid reports whether t names a known tier exactly.
func IsValid(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case string(Free), string(Basic), string(Premium):
		return true
	default:
		return false
	}
}
