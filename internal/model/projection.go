package model

// HorizonMonths is the fixed projection window.
const HorizonMonths = 12

// ProjectionResult is the engine output for one set of inputs.
type ProjectionResult struct {
	// Series[i] is the projected balance at the end of month i+1.
	Series [HorizonMonths]float64 `json:"projection_series"`

	FinalBalance          float64 `json:"final_balance"`
	GoalMet               bool    `json:"goal_met"`
	TopCategory           string  `json:"top_category"`
	PotentialSavings      float64 `json:"potential_savings"`
	AdjustedBurnRate      float64 `json:"adjusted_burn_rate"`
	EmergencyRunwayMonths float64 `json:"emergency_runway_months"`

	TotalMonthlySpend float64 `json:"total_monthly_spend"`
	GoalGap           float64 `json:"goal_gap"` // FinalBalance - Goal
}

// Verdict is the headline label shown next to the final balance.
func (r ProjectionResult) Verdict() string {
	if r.GoalMet {
		return "On Track"
	}
	return "Needs Attention"
}

// SweepPoint is one lever setting in a lever sweep.
type SweepPoint struct {
	ReductionPercent float64 `json:"reduction_percent"`
	PotentialSavings float64 `json:"potential_savings"`
	AdjustedBurnRate float64 `json:"adjusted_burn_rate"`
	FinalBalance     float64 `json:"final_balance"`
	GoalMet          bool    `json:"goal_met"`
}
