// Package projection computes the 12-month balance projection and the advisory
// metrics derived from a cash-flow summary. Every function here is pure.
package projection

import (
	"github.com/wealthpath/wealthpath/internal/model"
)

// FallbackCategory is reported as the top category when there are none.
const FallbackCategory = "Expenses"

// Lever bounds, in percent.
const (
	MinLeverPercent = 0
	MaxLeverPercent = 50
)

// SelectTopCategory returns the category with the largest spend.
// Ties keep the earliest entry in list order: a later entry only replaces the
// current best when it is strictly greater.
func SelectTopCategory(categories []model.CategorySpend) string {
	return topEntry(categories).Name
}

// topEntry returns the winning entry itself, so a repeated name cannot make
// the amount disagree with the selection. Empty input gives the fallback
// with a zero amount.
func topEntry(categories []model.CategorySpend) model.CategorySpend {
	if len(categories) == 0 {
		return model.CategorySpend{Name: FallbackCategory}
	}

	best := categories[0]
	for _, c := range categories[1:] {
		if c.Amount > best.Amount {
			best = c
		}
	}
	return best
}

// ClampLever limits a reduction percentage to [MinLeverPercent, MaxLeverPercent].
func ClampLever(pct float64) float64 {
	if pct < MinLeverPercent {
		return MinLeverPercent
	}
	if pct > MaxLeverPercent {
		return MaxLeverPercent
	}
	return pct
}

// TotalSpend sums the monthly spend across all categories.
func TotalSpend(categories []model.CategorySpend) float64 {
	var total float64
	for _, c := range categories {
		total += c.Amount
	}
	return total
}

// Compute projects the balance over the fixed horizon and derives the
// advisory metrics. Identical inputs always give identical results.
//
// Category amounts are used as given. Non-finite inputs must be rejected
// before calling (see package validate).
func Compute(summary model.CashFlowSummary, profile model.UserProfile, lever model.OptimizationLever) model.ProjectionResult {
	var r model.ProjectionResult

	top := topEntry(summary.Categories)
	r.TopCategory = top.Name
	r.PotentialSavings = top.Amount * ClampLever(lever.ReductionPercent) / 100
	r.AdjustedBurnRate = summary.BurnRate + r.PotentialSavings

	for i := range r.Series {
		r.Series[i] = profile.CurrentSavings + r.AdjustedBurnRate*float64(i+1)
	}
	r.FinalBalance = r.Series[model.HorizonMonths-1]
	r.GoalMet = r.FinalBalance >= profile.Goal
	r.GoalGap = r.FinalBalance - profile.Goal

	r.TotalMonthlySpend = TotalSpend(summary.Categories)
	if r.TotalMonthlySpend > 0 {
		r.EmergencyRunwayMonths = profile.CurrentSavings / r.TotalMonthlySpend
	}

	return r
}

// CashFlowLabel summarises the unadjusted burn rate the way the analysis
// service reports it.
func CashFlowLabel(burnRate float64) string {
	if burnRate > 0 {
		return "On track"
	}
	return "Negative Cash Flow"
}
