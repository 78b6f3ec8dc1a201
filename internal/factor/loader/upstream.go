package loader

import (
	"fmt"

	"github.com/smallbiznis/custoscarbon/internal/config"
	"github.com/smallbiznis/custoscarbon/internal/factor/domain"
	"github.com/tidwall/gjson"
)

// upstreamEnvelopeKey holds the rows when the open-data API wraps them in an object.
const upstreamEnvelopeKey = "records"

// NormalizeUpstream converts an upstream payload into canonical dataset entries.
// The payload is either a JSON array or an object whose "records" field is one.
// Unparseable factors become 0 and items without a name are dropped.
func NormalizeUpstream(data []byte, aliases config.FieldAliases) ([]domain.Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, domain.ErrDatasetMalformed
	}
	doc := gjson.ParseBytes(data)
	if doc.IsObject() {
		doc = doc.Get(upstreamEnvelopeKey)
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("upstream payload: %w", domain.ErrDatasetNotArray)
	}

	defaultUnit := aliases.DefaultUnit
	if defaultUnit == "" {
		defaultUnit = config.DefaultUnit
	}

	entries := make([]domain.Entry, 0, len(doc.Array()))
	doc.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		name := resolveString(item, aliases.Name)
		if name == "" {
			return true
		}
		unit := resolveString(item, aliases.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		var factor float64
		if raw, ok := resolve(item, aliases.Factor); ok {
			if parsed, err := parseFactor(raw); err == nil {
				factor = parsed
			}
		}
		entries = append(entries, domain.Entry{Name: name, Unit: unit, Factor: factor})
		return true
	})

	return entries, nil
}
