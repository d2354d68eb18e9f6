package projection

import (
	"math"

	"github.com/wealthpath/wealthpath/internal/model"
)

// Sweep increments, in percentage points.
const (
	DefaultSweepStep = 5
	MinSweepStep     = 0.5
)

// LeverSweep recomputes the projection for every lever setting from 0 to 50
// in increments of step (DefaultSweepStep when step is not positive).
// The last point is always the 50% setting.
func LeverSweep(summary model.CashFlowSummary, profile model.UserProfile, step float64) []model.SweepPoint {
	if step <= 0 || math.IsNaN(step) {
		step = DefaultSweepStep
	}
	step = math.Max(step, MinSweepStep)

	var points []model.SweepPoint
	for pct := float64(MinLeverPercent); ; pct += step {
		if pct > MaxLeverPercent {
			pct = MaxLeverPercent
		}
		r := Compute(summary, profile, model.OptimizationLever{ReductionPercent: pct})
		points = append(points, model.SweepPoint{
			ReductionPercent: pct,
			PotentialSavings: r.PotentialSavings,
			AdjustedBurnRate: r.AdjustedBurnRate,
			FinalBalance:     r.FinalBalance,
			GoalMet:          r.GoalMet,
		})
		if pct >= MaxLeverPercent {
			break
		}
	}
	return points
}
