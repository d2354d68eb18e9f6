package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/pipeline"
	"github.com/wealthpath/wealthpath/internal/projection"
	"github.com/wealthpath/wealthpath/internal/store"
)

func scenarioB() model.ProjectionResult {
	return projection.Compute(
		model.CashFlowSummary{
			BurnRate: -200,
			Categories: []model.CategorySpend{
				{Name: "Dining", Amount: 600},
				{Name: "Rent", Amount: 1500},
			},
		},
		model.UserProfile{CurrentSavings: 10000, Goal: 9000},
		model.OptimizationLever{ReductionPercent: 50},
	)
}

func TestRounded(t *testing.T) {
	r := Rounded(scenarioB())
	if len(r.Series) != model.HorizonMonths {
		t.Fatalf("len(Series) = %d, want %d", len(r.Series), model.HorizonMonths)
	}
	if r.Series[0] != 10550 || r.FinalBalance != 16600 {
		t.Errorf("Series[0]/FinalBalance = %v/%v, want 10550/16600", r.Series[0], r.FinalBalance)
	}
	// 10000 / 2100 = 4.76...
	if r.EmergencyRunwayMonths != 4.8 {
		t.Errorf("EmergencyRunwayMonths = %v, want 4.8", r.EmergencyRunwayMonths)
	}
	if r.Verdict != "On Track" || r.TopCategory != "Rent" {
		t.Errorf("Verdict/TopCategory = %q/%q", r.Verdict, r.TopCategory)
	}
}

func TestRoundedCents(t *testing.T) {
	r := Rounded(model.ProjectionResult{PotentialSavings: 12.345678, GoalGap: -0.004})
	if r.PotentialSavings != 12.35 {
		t.Errorf("PotentialSavings = %v, want 12.35", r.PotentialSavings)
	}
	if r.GoalGap != 0 {
		t.Errorf("GoalGap = %v, want 0", r.GoalGap)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, scenarioB()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv back: %v", err)
	}
	// header + 12 months + 9 summary rows
	if len(records) != 22 {
		t.Fatalf("got %d records, want 22", len(records))
	}
	if records[1][0] != "1" || records[1][1] != "10550.00" {
		t.Errorf("month 1 = %v", records[1])
	}
	if records[12][1] != "16600.00" {
		t.Errorf("month 12 = %v", records[12])
	}

	got := map[string]string{}
	for _, rec := range records[13:] {
		got[rec[0]] = rec[1]
	}
	want := map[string]string{
		"final_balance":           "16600.00",
		"goal_met":                "true",
		"verdict":                 "On Track",
		"top_category":            "Rent",
		"potential_savings":       "750.00",
		"adjusted_burn_rate":      "550.00",
		"emergency_runway_months": "4.8",
		"total_monthly_spend":     "2100.00",
		"goal_gap":                "7600.00",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, scenarioB()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var got RoundedResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got.AdjustedBurnRate != 550 || !got.GoalMet {
		t.Errorf("decoded = %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  \"series\"") {
		t.Errorf("output not indented:\n%s", buf.String())
	}
}

func TestWriteSweepCSV(t *testing.T) {
	points := []model.SweepPoint{
		{ReductionPercent: 0, AdjustedBurnRate: -200, FinalBalance: 7600},
		{ReductionPercent: 12.5, PotentialSavings: 187.5, AdjustedBurnRate: -12.5, FinalBalance: 9850, GoalMet: true},
	}
	var buf bytes.Buffer
	if err := WriteSweepCSV(&buf, points); err != nil {
		t.Fatalf("WriteSweepCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if strings.Join(records[2], ",") != "12.5,187.50,-12.50,9850.00,true" {
		t.Errorf("row = %v", records[2])
	}
}

func TestWriteBatchCSV(t *testing.T) {
	results := []pipeline.ScenarioResult{
		{Scenario: store.Scenario{Name: "ok", Summary: model.CashFlowSummary{BurnRate: 50}}, Result: scenarioB()},
		{Scenario: store.Scenario{Name: "bad"}, Err: errors.New("lever: invalid\nburn: bad")},
	}
	var buf bytes.Buffer
	if err := WriteBatchCSV(&buf, results); err != nil {
		t.Fatalf("WriteBatchCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[1][1] != "16600.00" || records[1][6] != "On track" {
		t.Errorf("valid row = %v", records[1])
	}
	if records[2][7] != "lever: invalid; burn: bad" || records[2][1] != "" {
		t.Errorf("invalid row = %v", records[2])
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "projection.json")
	abs, err := WriteFile(path, "JSON", scenarioB())
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("path %q not absolute", abs)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"final_balance": 16600`) {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}

func TestUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "pdf", scenarioB()); err == nil {
		t.Error("Write(pdf) = nil error, want error")
	}
	if _, err := WriteFile(filepath.Join(t.TempDir(), "x.pdf"), "pdf", scenarioB()); err == nil {
		t.Error("WriteFile(pdf) = nil error, want error")
	}
}
