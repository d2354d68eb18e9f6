package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/projection"
)

func TestInputs_Valid(t *testing.T) {
	s := model.CashFlowSummary{
		BurnRate:   -200,
		Categories: []model.CategorySpend{{Name: "Dining", Amount: 600}, {Name: "Rent", Amount: 0}},
	}
	for _, pct := range []float64{0, 25, 50} {
		if err := Inputs(s, model.DefaultProfile(), model.OptimizationLever{ReductionPercent: pct}); err != nil {
			t.Fatalf("Inputs(lever=%v) = %v, want nil", pct, err)
		}
	}
}

func TestInputs_EmptySummaryIsValid(t *testing.T) {
	if err := Inputs(model.CashFlowSummary{}, model.UserProfile{CurrentSavings: -50}, model.OptimizationLever{}); err != nil {
		t.Fatalf("Inputs(empty) = %v, want nil", err)
	}
}

func TestInputs_Errors(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	tests := []struct {
		name    string
		summary model.CashFlowSummary
		profile model.UserProfile
		lever   model.OptimizationLever
		want    error
	}{
		{"nan burn rate", model.CashFlowSummary{BurnRate: nan}, model.UserProfile{}, model.OptimizationLever{}, ErrNonFinite},
		{"inf amount", model.CashFlowSummary{Categories: []model.CategorySpend{{Name: "A", Amount: inf}}}, model.UserProfile{}, model.OptimizationLever{}, ErrNonFinite},
		{"nan savings", model.CashFlowSummary{}, model.UserProfile{CurrentSavings: nan}, model.OptimizationLever{}, ErrNonFinite},
		{"inf goal", model.CashFlowSummary{}, model.UserProfile{Goal: -inf}, model.OptimizationLever{}, ErrNonFinite},
		{"nan lever", model.CashFlowSummary{}, model.UserProfile{}, model.OptimizationLever{ReductionPercent: nan}, ErrNonFinite},
		{"lever too high", model.CashFlowSummary{}, model.UserProfile{}, model.OptimizationLever{ReductionPercent: 50.01}, ErrLeverRange},
		{"lever negative", model.CashFlowSummary{}, model.UserProfile{}, model.OptimizationLever{ReductionPercent: -1}, ErrLeverRange},
		{"blank name", model.CashFlowSummary{Categories: []model.CategorySpend{{Name: "  ", Amount: 1}}}, model.UserProfile{}, model.OptimizationLever{}, ErrEmptyCategory},
		{"duplicate", model.CashFlowSummary{Categories: []model.CategorySpend{{Name: "A", Amount: 1}, {Name: "A", Amount: 2}}}, model.UserProfile{}, model.OptimizationLever{}, ErrDuplicateCategory},
		{"whitespace duplicate", model.CashFlowSummary{Categories: []model.CategorySpend{{Name: "Rent", Amount: 1}, {Name: "Rent ", Amount: 2}}}, model.UserProfile{}, model.OptimizationLever{}, ErrDuplicateCategory},
		{"huge burn rate", model.CashFlowSummary{BurnRate: 1e308}, model.UserProfile{}, model.OptimizationLever{}, ErrMagnitude},
		{"huge amount", model.CashFlowSummary{Categories: []model.CategorySpend{{Name: "Rent", Amount: 2e15}}}, model.UserProfile{}, model.OptimizationLever{}, ErrMagnitude},
		{"huge savings", model.CashFlowSummary{}, model.UserProfile{CurrentSavings: -1e16}, model.OptimizationLever{}, ErrMagnitude},
		{"huge goal", model.CashFlowSummary{}, model.UserProfile{Goal: 1e300}, model.OptimizationLever{}, ErrMagnitude},
		{"negative spend", model.CashFlowSummary{Categories: []model.CategorySpend{{Name: "A", Amount: -1}}}, model.UserProfile{}, model.OptimizationLever{}, ErrNegativeSpend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Inputs(tt.summary, tt.profile, tt.lever)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Inputs() = %v, want errors.Is %v", err, tt.want)
			}
		})
	}
}

func TestInputs_ReportsEveryProblem(t *testing.T) {
	err := Inputs(
		model.CashFlowSummary{Categories: []model.CategorySpend{{Name: "", Amount: -3}}},
		model.UserProfile{Goal: math.NaN()},
		model.OptimizationLever{ReductionPercent: 90},
	)
	for _, want := range []error{ErrEmptyCategory, ErrNegativeSpend, ErrNonFinite, ErrLeverRange} {
		if !errors.Is(err, want) {
			t.Errorf("Inputs() = %v, missing %v", err, want)
		}
	}
}

func TestInputs_MaxMagnitudeAccepted(t *testing.T) {
	s := model.CashFlowSummary{
		BurnRate:   MaxMagnitude,
		Categories: []model.CategorySpend{{Name: "Rent", Amount: MaxMagnitude}},
	}
	p := model.UserProfile{CurrentSavings: MaxMagnitude, Goal: -MaxMagnitude}
	if err := Inputs(s, p, model.OptimizationLever{ReductionPercent: 50}); err != nil {
		t.Fatalf("Inputs(max) = %v, want nil", err)
	}
	if err := Result(projection.Compute(s, p, model.OptimizationLever{ReductionPercent: 50})); err != nil {
		t.Fatalf("Result(max) = %v, want nil", err)
	}
}

func TestResult(t *testing.T) {
	var r model.ProjectionResult
	if err := Result(r); err != nil {
		t.Fatalf("Result(zero) = %v, want nil", err)
	}

	r.Series[11] = math.Inf(1)
	if err := Result(r); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("Result(inf series) = %v, want ErrNonFinite", err)
	}

	r = model.ProjectionResult{GoalGap: math.NaN()}
	if err := Result(r); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("Result(nan gap) = %v, want ErrNonFinite", err)
	}
}
