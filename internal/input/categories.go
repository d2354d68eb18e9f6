package input

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/wealthpath/wealthpath/internal/model"

	"gopkg.in/yaml.v3"
)

// Categories decodes either an object of name -> amount or a list of
// {name, amount} entries. Object keys keep their document order, which is
// the order used to break ties for the largest category.
type Categories []model.CategorySpend

// UnmarshalJSON implements json.Unmarshaler.
func (c *Categories) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}

	if data[0] == '[' {
		var items []model.CategorySpend
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("categories list: %w", err)
		}
		*c = items
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return fmt.Errorf("categories: expected object or array")
	}

	var out Categories
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		name, _ := tok.(string)

		var amount float64
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("categories[%q]: %w", name, err)
		}
		out = append(out, model.CategorySpend{Name: name, Amount: amount})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("categories: %w", err)
	}

	*c = out
	return nil
}

// MarshalJSON writes the list form so order survives a round trip.
func (c Categories) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]model.CategorySpend(c))
}

// UnmarshalYAML implements yaml.Unmarshaler using the node tree, which keeps
// mapping order.
func (c *Categories) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var items []model.CategorySpend
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("categories list: %w", err)
		}
		*c = items
		return nil
	case yaml.MappingNode:
		out := make(Categories, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			var amount float64
			if err := val.Decode(&amount); err != nil {
				return fmt.Errorf("categories[%q] (line %d): %w", key.Value, val.Line, err)
			}
			out = append(out, model.CategorySpend{Name: key.Value, Amount: amount})
		}
		*c = out
		return nil
	default:
		if value.Tag == "!!null" {
			*c = nil
			return nil
		}
		return fmt.Errorf("categories (line %d): expected mapping or sequence", value.Line)
	}
}

// UnmarshalTOML implements toml.Unmarshaler. Arrays of tables keep their
// order; a plain table has no usable order, so its keys are sorted.
func (c *Categories) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case []map[string]any:
		out := make(Categories, 0, len(v))
		for i, entry := range v {
			cs, err := tomlEntry(i, entry)
			if err != nil {
				return err
			}
			out = append(out, cs)
		}
		*c = out
	case []any:
		out := make(Categories, 0, len(v))
		for i, raw := range v {
			entry, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("categories[%d]: expected table", i)
			}
			cs, err := tomlEntry(i, entry)
			if err != nil {
				return err
			}
			out = append(out, cs)
		}
		*c = out
	case map[string]any:
		amounts := make(map[string]float64, len(v))
		for name, raw := range v {
			amount, ok := tomlNumber(raw)
			if !ok {
				return fmt.Errorf("categories[%q]: expected number", name)
			}
			amounts[name] = amount
		}
		*c = Categories(model.SummaryFromMap(0, amounts).Categories)
	default:
		return fmt.Errorf("categories: unsupported TOML type %T", data)
	}
	return nil
}

func tomlEntry(i int, entry map[string]any) (model.CategorySpend, error) {
	name, _ := entry["name"].(string)
	amount, ok := tomlNumber(entry["amount"])
	if !ok {
		return model.CategorySpend{}, fmt.Errorf("categories[%d]: amount must be a number", i)
	}
	return model.CategorySpend{Name: name, Amount: amount}, nil
}

func tomlNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
