// Package input loads cash-flow summaries produced by the statement analysis
// service from JSON, YAML or TOML documents.
package input

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wealthpath/wealthpath/internal/model"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk and on-the-wire shape of a cash-flow summary.
// Extra fields from the analysis response (projection, safety_buffer, ...)
// are ignored.
type Document struct {
	BurnRate   float64    `json:"burn_rate" yaml:"burn_rate" toml:"burn_rate"`
	Categories Categories `json:"categories" yaml:"categories" toml:"categories"`
}

// Summary converts the document into the engine's input type.
func (d Document) Summary() model.CashFlowSummary {
	return model.CashFlowSummary{
		BurnRate:   d.BurnRate,
		Categories: []model.CategorySpend(d.Categories),
	}
}

// FromSummary is the inverse of Document.Summary.
func FromSummary(s model.CashFlowSummary) Document {
	return Document{BurnRate: s.BurnRate, Categories: Categories(s.Categories)}
}

// LoadSummary reads a summary file. The format is picked from the extension.
func LoadSummary(path string) (model.CashFlowSummary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.CashFlowSummary{}, fmt.Errorf("accessing summary file: %w", err)
	}
	if info.IsDir() {
		return model.CashFlowSummary{}, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the local user
	if err != nil {
		return model.CashFlowSummary{}, fmt.Errorf("reading summary: %w", err)
	}

	var doc Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return model.CashFlowSummary{}, fmt.Errorf("parsing JSON summary: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return model.CashFlowSummary{}, fmt.Errorf("parsing YAML summary: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return model.CashFlowSummary{}, fmt.Errorf("parsing TOML summary: %w", err)
		}
	default:
		return model.CashFlowSummary{}, fmt.Errorf("unsupported summary format: %q", ext)
	}

	return doc.Summary(), nil
}

// DecodeSummaryJSON reads a JSON summary document from r.
func DecodeSummaryJSON(r io.Reader) (model.CashFlowSummary, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return model.CashFlowSummary{}, fmt.Errorf("decoding summary: %w", err)
	}
	return doc.Summary(), nil
}
