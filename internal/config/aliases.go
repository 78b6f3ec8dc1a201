package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FieldAliases lists, per field, the JSON keys accepted for it. Earlier keys win.
type FieldAliases struct {
	Name        []string `mapstructure:"name"`
	Unit        []string `mapstructure:"unit"`
	Factor      []string `mapstructure:"factor"`
	DefaultUnit string   `mapstructure:"default_unit"`
}

// Aliases holds the key conventions of the canonical dataset file and of the upstream API.
type Aliases struct {
	Dataset  FieldAliases `mapstructure:"dataset"`
	Upstream FieldAliases `mapstructure:"upstream"`
}

const DefaultUnit = "unknown"

func DefaultAliases() Aliases {
	return Aliases{
		Dataset: FieldAliases{
			Name:        []string{"name", "項目名稱"},
			Unit:        []string{"unit", "單位"},
			Factor:      []string{"factor", "排放係數"},
			DefaultUnit: DefaultUnit,
		},
		Upstream: FieldAliases{
			Name:        []string{"項目名稱", "Name"},
			Unit:        []string{"單位", "Unit"},
			Factor:      []string{"排放係數", "CO2e"},
			DefaultUnit: DefaultUnit,
		},
	}
}

// LoadAliases reads aliases.yml when present and falls back to the built-in lists.
func LoadAliases(cfg Config) (Aliases, error) {
	v := viper.New()

	if cfg.AliasesFile != "" {
		v.SetConfigFile(cfg.AliasesFile)
	} else {
		v.SetConfigName("aliases")
		v.SetConfigType("yml")
		if cfg.DataDir != "" {
			v.AddConfigPath(cfg.DataDir)
		}
		v.AddConfigPath(".")
	}

	defaults := DefaultAliases()
	setFieldDefaults(v, "dataset", defaults.Dataset)
	setFieldDefaults(v, "upstream", defaults.Upstream)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Aliases{}, fmt.Errorf("read aliases config: %w", err)
		}
	}

	var aliases Aliases
	if err := v.Unmarshal(&aliases); err != nil {
		return Aliases{}, fmt.Errorf("decode aliases config: %w", err)
	}

	aliases.Dataset = aliases.Dataset.normalize()
	aliases.Upstream = aliases.Upstream.normalize()
	if err := validateAliases(aliases); err != nil {
		return Aliases{}, err
	}
	return aliases, nil
}

func setFieldDefaults(v *viper.Viper, section string, f FieldAliases) {
	v.SetDefault(section+".name", f.Name)
	v.SetDefault(section+".unit", f.Unit)
	v.SetDefault(section+".factor", f.Factor)
	v.SetDefault(section+".default_unit", f.DefaultUnit)
}

func (f FieldAliases) normalize() FieldAliases {
	return FieldAliases{
		Name:        compact(f.Name),
		Unit:        compact(f.Unit),
		Factor:      compact(f.Factor),
		DefaultUnit: strings.TrimSpace(f.DefaultUnit),
	}
}

func compact(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}

func validateAliases(a Aliases) error {
	for section, f := range map[string]FieldAliases{"dataset": a.Dataset, "upstream": a.Upstream} {
		if len(f.Name) == 0 {
			return fmt.Errorf("aliases: %s.name must list at least one key", section)
		}
		if len(f.Factor) == 0 {
			return fmt.Errorf("aliases: %s.factor must list at least one key", section)
		}
	}
	return nil
}
