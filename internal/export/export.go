// Package export writes projection results as CSV or JSON with amounts
// rounded to cents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/pipeline"
	"github.com/wealthpath/wealthpath/internal/projection"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// RoundedResult is the presentation view of a ProjectionResult: money
// rounded to cents, runway to one decimal place.
type RoundedResult struct {
	Series                []float64 `json:"series"`
	FinalBalance          float64   `json:"final_balance"`
	GoalMet               bool      `json:"goal_met"`
	Verdict               string    `json:"verdict"`
	TopCategory           string    `json:"top_category"`
	PotentialSavings      float64   `json:"potential_savings"`
	AdjustedBurnRate      float64   `json:"adjusted_burn_rate"`
	EmergencyRunwayMonths float64   `json:"emergency_runway_months"`
	TotalMonthlySpend     float64   `json:"total_monthly_spend"`
	GoalGap               float64   `json:"goal_gap"`
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Rounded converts a result to its rounded view.
func Rounded(r model.ProjectionResult) RoundedResult {
	series := make([]float64, len(r.Series))
	for i, v := range r.Series {
		series[i] = roundTo(v, 2)
	}
	return RoundedResult{
		Series:                series,
		FinalBalance:          roundTo(r.FinalBalance, 2),
		GoalMet:               r.GoalMet,
		Verdict:               r.Verdict(),
		TopCategory:           r.TopCategory,
		PotentialSavings:      roundTo(r.PotentialSavings, 2),
		AdjustedBurnRate:      roundTo(r.AdjustedBurnRate, 2),
		EmergencyRunwayMonths: roundTo(r.EmergencyRunwayMonths, 1),
		TotalMonthlySpend:     roundTo(r.TotalMonthlySpend, 2),
		GoalGap:               roundTo(r.GoalGap, 2),
	}
}

// WriteCSV writes one row per month followed by the summary metrics.
// Goal met and verdict are computed from unrounded values.
func WriteCSV(w io.Writer, r model.ProjectionResult) error {
	cw := csv.NewWriter(w)

	records := [][]string{{"month", "balance"}}
	for i, v := range r.Series {
		records = append(records, []string{strconv.Itoa(i + 1), money(v).StringFixed(2)})
	}
	records = append(records,
		[]string{"final_balance", money(r.FinalBalance).StringFixed(2)},
		[]string{"goal_met", strconv.FormatBool(r.GoalMet)},
		[]string{"verdict", r.Verdict()},
		[]string{"top_category", r.TopCategory},
		[]string{"potential_savings", money(r.PotentialSavings).StringFixed(2)},
		[]string{"adjusted_burn_rate", money(r.AdjustedBurnRate).StringFixed(2)},
		[]string{"emergency_runway_months", decimal.NewFromFloat(r.EmergencyRunwayMonths).StringFixed(1)},
		[]string{"total_monthly_spend", money(r.TotalMonthlySpend).StringFixed(2)},
		[]string{"goal_gap", money(r.GoalGap).StringFixed(2)},
	)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteJSON writes the rounded view as indented JSON.
func WriteJSON(w io.Writer, r model.ProjectionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Rounded(r)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteSweepCSV writes one row per lever setting.
func WriteSweepCSV(w io.Writer, points []model.SweepPoint) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"reduction_percent", "potential_savings", "adjusted_burn_rate", "final_balance", "goal_met"}}
	for _, p := range points {
		records = append(records, []string{
			decimal.NewFromFloat(p.ReductionPercent).String(),
			money(p.PotentialSavings).StringFixed(2),
			money(p.AdjustedBurnRate).StringFixed(2),
			money(p.FinalBalance).StringFixed(2),
			strconv.FormatBool(p.GoalMet),
		})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteBatchCSV writes one row per scenario. Invalid scenarios carry their
// validation error in the error column and empty metrics.
func WriteBatchCSV(w io.Writer, results []pipeline.ScenarioResult) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"scenario", "final_balance", "goal_met", "top_category", "potential_savings", "adjusted_burn_rate", "cash_flow", "error"}}
	for _, sr := range results {
		if sr.Err != nil {
			msg := strings.ReplaceAll(sr.Err.Error(), "\n", "; ")
			records = append(records, []string{sr.Scenario.Name, "", "", "", "", "", "", msg})
			continue
		}
		r := sr.Result
		records = append(records, []string{
			sr.Scenario.Name,
			money(r.FinalBalance).StringFixed(2),
			strconv.FormatBool(r.GoalMet),
			r.TopCategory,
			money(r.PotentialSavings).StringFixed(2),
			money(r.AdjustedBurnRate).StringFixed(2),
			projection.CashFlowLabel(sr.Scenario.Summary.BurnRate),
			"",
		})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteFile writes a result to path in the given format, creating parent
// directories. It returns the absolute path written.
func WriteFile(path, format string, r model.ProjectionResult) (string, error) {
	write, err := writerFor(format)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("creating export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

// Write writes a result to w in the given format.
func Write(w io.Writer, format string, r model.ProjectionResult) error {
	write, err := writerFor(format)
	if err != nil {
		return err
	}
	return write(w, r)
}

func writerFor(format string) (func(io.Writer, model.ProjectionResult) error, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return WriteCSV, nil
	case FormatJSON:
		return WriteJSON, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (use csv or json)", format)
	}
}
