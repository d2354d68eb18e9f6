// Package model defines the domain types for wealthpath projections.
package model

import "sort"

// CategorySpend is one monthly spending bucket.
type CategorySpend struct {
	Name   string  `json:"name" yaml:"name" toml:"name"`
	Amount float64 `json:"amount" yaml:"amount" toml:"amount"`
}

// CashFlowSummary is the monthly cash-flow picture produced by the statement
// analysis service.
type CashFlowSummary struct {
	// BurnRate is the net monthly change in balance before any lever is applied.
	// Positive means the user is saving.
	BurnRate float64 `json:"burn_rate"`

	// Categories keeps the caller's order. That order decides ties when picking
	// the largest category.
	Categories []CategorySpend `json:"categories"`
}

// Amount returns the spend recorded for name and whether it was present.
func (s CashFlowSummary) Amount(name string) (float64, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c.Amount, true
		}
	}
	return 0, false
}

// SummaryFromMap builds a summary from an unordered mapping. Keys are sorted
// so the result does not depend on map iteration order.
func SummaryFromMap(burnRate float64, categories map[string]float64) CashFlowSummary {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	s := CashFlowSummary{BurnRate: burnRate, Categories: make([]CategorySpend, 0, len(names))}
	for _, name := range names {
		s.Categories = append(s.Categories, CategorySpend{Name: name, Amount: categories[name]})
	}
	return s
}

