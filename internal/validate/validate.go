// Package validate rejects malformed projection inputs before they reach the
// engine. The engine itself never fails; this is where bad data stops.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/projection"
)

// Input errors. Returned errors wrap one or more of these.
var (
	ErrNonFinite         = errors.New("non-finite input")
	ErrLeverRange        = errors.New("invalid lever range")
	ErrEmptyCategory     = errors.New("empty category name")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrNegativeSpend     = errors.New("negative category spend")
	ErrMagnitude         = errors.New("amount out of range")
)

// MaxMagnitude bounds every money input. Twelve months of the largest
// adjusted burn rate on top of the largest balance stay well inside float64.
const MaxMagnitude = 1e15

// Summary checks a cash-flow summary.
func Summary(s model.CashFlowSummary) error {
	var errs []error

	if err := amount("burn_rate", s.BurnRate); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]struct{}, len(s.Categories))
	for i, c := range s.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: %w", i, ErrEmptyCategory))
		} else if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("categories[%d] %q: %w", i, c.Name, ErrDuplicateCategory))
		}
		seen[name] = struct{}{}

		switch err := amount(fmt.Sprintf("categories[%d] %q", i, c.Name), c.Amount); {
		case err != nil:
			errs = append(errs, err)
		case c.Amount < 0:
			errs = append(errs, fmt.Errorf("categories[%d] %q = %v: %w", i, c.Name, c.Amount, ErrNegativeSpend))
		}
	}

	return errors.Join(errs...)
}

// Profile checks the user's savings and goal.
func Profile(p model.UserProfile) error {
	var errs []error
	if err := amount("current_savings", p.CurrentSavings); err != nil {
		errs = append(errs, err)
	}
	if err := amount("goal", p.Goal); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Lever checks the reduction percentage is finite and within [0, 50].
func Lever(l model.OptimizationLever) error {
	if !finite(l.ReductionPercent) {
		return fmt.Errorf("reduction_percent: %w", ErrNonFinite)
	}
	if l.ReductionPercent < projection.MinLeverPercent || l.ReductionPercent > projection.MaxLeverPercent {
		return fmt.Errorf("reduction_percent %v outside [%d, %d]: %w",
			l.ReductionPercent, projection.MinLeverPercent, projection.MaxLeverPercent, ErrLeverRange)
	}
	return nil
}

// Inputs validates all three engine inputs and reports every problem found.
func Inputs(s model.CashFlowSummary, p model.UserProfile, l model.OptimizationLever) error {
	return errors.Join(Summary(s), Profile(p), Lever(l))
}

// Result checks that a computed projection holds only finite numbers.
func Result(r model.ProjectionResult) error {
	values := make([]float64, 0, len(r.Series)+5)
	values = append(values, r.Series[:]...)
	values = append(values, r.PotentialSavings, r.AdjustedBurnRate,
		r.EmergencyRunwayMonths, r.TotalMonthlySpend, r.GoalGap)
	for _, v := range values {
		if !finite(v) {
			return fmt.Errorf("projection overflowed: %w", ErrNonFinite)
		}
	}
	return nil
}

func amount(field string, v float64) error {
	if !finite(v) {
		return fmt.Errorf("%s: %w", field, ErrNonFinite)
	}
	if math.Abs(v) > MaxMagnitude {
		return fmt.Errorf("%s %v exceeds %g: %w", field, v, MaxMagnitude, ErrMagnitude)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
