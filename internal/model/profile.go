package model

// Default profile values used when the caller has nothing better.
const (
	DefaultCurrentSavings = 10000
	DefaultGoal           = 25000
)

// UserProfile holds the user's starting balance and target. The caller owns it;
// the engine only reads it.
type UserProfile struct {
	CurrentSavings float64 `json:"current_savings"` // may be negative (debt)
	Goal           float64 `json:"goal"`
}

// DefaultProfile returns the profile a fresh user starts with.
func DefaultProfile() UserProfile {
	return UserProfile{
		CurrentSavings: DefaultCurrentSavings,
		Goal:           DefaultGoal,
	}
}

// OptimizationLever is the what-if reduction applied to the largest category.
type OptimizationLever struct {
	ReductionPercent float64 `json:"reduction_percent"` // 0..50
}
