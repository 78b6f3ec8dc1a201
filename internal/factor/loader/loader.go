package loader

import (
	"fmt"
	"os"

	"github.com/smallbiznis/custoscarbon/internal/config"
	"github.com/smallbiznis/custoscarbon/internal/factor/domain"
	"github.com/tidwall/gjson"
)

// LoadFile reads the canonical dataset file at path into a factor table.
func LoadFile(path string, aliases config.FieldAliases) (domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	table, err := ParseTable(data, aliases)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return table, nil
}

// ParseTable builds a factor table from a JSON array of heterogeneous objects.
// Items without a name, or whose factor is missing, zero or not a number, are skipped.
func ParseTable(data []byte, aliases config.FieldAliases) (domain.Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, domain.ErrDatasetMalformed
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, domain.ErrDatasetNotArray
	}

	defaultUnit := aliases.DefaultUnit
	if defaultUnit == "" {
		defaultUnit = config.DefaultUnit
	}

	table := domain.Table{}
	doc.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		name := resolveString(item, aliases.Name)
		if name == "" {
			return true
		}
		raw, ok := resolve(item, aliases.Factor)
		if !ok {
			return true
		}
		factor, err := parseFactor(raw)
		if err != nil || factor == 0 {
			return true
		}
		unit := resolveString(item, aliases.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		table[name] = domain.Value{Unit: unit, Factor: factor}
		return true
	})

	return table, nil
}
