package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wealthpath/wealthpath/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func names(s model.CashFlowSummary) string {
	out := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		out = append(out, c.Name)
	}
	return strings.Join(out, ",")
}

func TestLoadSummary_JSONObjectKeepsOrder(t *testing.T) {
	path := writeFile(t, "summary.json", `{
		"burn_rate": -200.5,
		"projection": [{"month": 1, "estimated_balance": 9799.5}],
		"categories": {"Shopping": 500, "Food": 500, "Housing": 120.25},
		"summary": "Negative Cash Flow"
	}`)

	s, err := LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if s.BurnRate != -200.5 {
		t.Errorf("BurnRate = %v, want -200.5", s.BurnRate)
	}
	if got := names(s); got != "Shopping,Food,Housing" {
		t.Errorf("category order = %q, want Shopping,Food,Housing", got)
	}
	if amt, _ := s.Amount("Housing"); amt != 120.25 {
		t.Errorf("Housing = %v, want 120.25", amt)
	}
}

func TestLoadSummary_JSONList(t *testing.T) {
	path := writeFile(t, "summary.json",
		`{"burn_rate": 10, "categories": [{"name": "Rent", "amount": 1500}, {"name": "Dining", "amount": 600}]}`)

	s, err := LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if got := names(s); got != "Rent,Dining" {
		t.Errorf("category order = %q, want Rent,Dining", got)
	}
}

func TestLoadSummary_JSONNoCategories(t *testing.T) {
	path := writeFile(t, "summary.json", `{"burn_rate": 100, "categories": null}`)

	s, err := LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if len(s.Categories) != 0 {
		t.Errorf("len(Categories) = %d, want 0", len(s.Categories))
	}
}

func TestLoadSummary_YAMLMappingKeepsOrder(t *testing.T) {
	path := writeFile(t, "summary.yaml", `
burn_rate: -200
categories:
  Travel: 80
  Rent: 1500
  Dining: 600
`)

	s, err := LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if got := names(s); got != "Travel,Rent,Dining" {
		t.Errorf("category order = %q, want Travel,Rent,Dining", got)
	}
}

func TestLoadSummary_YAMLList(t *testing.T) {
	path := writeFile(t, "summary.yml", `
burn_rate: 5
categories:
  - name: Food
    amount: 12.5
`)

	s, err := LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if len(s.Categories) != 1 || s.Categories[0].Amount != 12.5 {
		t.Errorf("Categories = %+v, want [Food 12.5]", s.Categories)
	}
}

func TestLoadSummary_TOMLArrayOfTables(t *testing.T) {
	path := writeFile(t, "summary.toml", `
burn_rate = -200

[[categories]]
name = "Dining"
amount = 600

[[categories]]
name = "Rent"
amount = 1500.5
`)

	s, err := LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if got := names(s); got != "Dining,Rent" {
		t.Errorf("category order = %q, want Dining,Rent", got)
	}
	if s.Categories[0].Amount != 600 {
		t.Errorf("Dining = %v, want 600 (integer TOML value)", s.Categories[0].Amount)
	}
}

func TestLoadSummary_TOMLTableSortsKeys(t *testing.T) {
	path := writeFile(t, "summary.toml", `
burn_rate = 50

[categories]
Rent = 1500
Dining = 600
Auto = 1500
`)

	s, err := LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if got := names(s); got != "Auto,Dining,Rent" {
		t.Errorf("category order = %q, want Auto,Dining,Rent", got)
	}
}

func TestLoadSummary_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSummary(dir); err == nil {
		t.Error("LoadSummary(dir) succeeded, want error")
	}
	if _, err := LoadSummary(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadSummary(missing) succeeded, want error")
	}
	if _, err := LoadSummary(writeFile(t, "summary.csv", "a,b")); err == nil {
		t.Error("LoadSummary(csv) succeeded, want unsupported format error")
	}
	if _, err := LoadSummary(writeFile(t, "bad.json", `{"categories": {"A": "x"}}`)); err == nil {
		t.Error("LoadSummary(bad amount) succeeded, want error")
	}
}

func TestDecodeSummaryJSON(t *testing.T) {
	s, err := DecodeSummaryJSON(strings.NewReader(`{"burn_rate": 1, "categories": {"B": 2, "A": 2}}`))
	if err != nil {
		t.Fatalf("DecodeSummaryJSON: %v", err)
	}
	if got := names(s); got != "B,A" {
		t.Errorf("category order = %q, want B,A", got)
	}
}
