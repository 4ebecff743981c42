package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tablesFile is the on-disk override format. Entries replace the built-in
// defaults per key; omitted keys keep their default values.
type tablesFile struct {
	BaseRates map[string]BaseRate   `yaml:"baseRates"`
	Additive  map[FeatureID]float64 `yaml:"additive"`
	Range     *Banding              `yaml:"range"`
}

// WithTablesFile overrides base rates, additive rule values and range
// banding from a YAML file. Pricing tables are deployment configuration, so
// a file that cannot be read or references unknown features fails engine
// construction.
func WithTablesFile(path string) Option {
	return func(e *Engine) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("pricing: read tables file: %w", err)
		}
		var tf tablesFile
		if err := yaml.Unmarshal(raw, &tf); err != nil {
			return fmt.Errorf("pricing: parse tables file %s: %w", path, err)
		}
		for tier, rate := range tf.BaseRates {
			e.baseRates[tier] = rate
		}
		for id, value := range tf.Additive {
			if err := e.overrideAdditive(id, value); err != nil {
				return fmt.Errorf("pricing: tables file %s: %w", path, err)
			}
		}
		if tf.Range != nil {
			e.banding = *tf.Range
		}
		return nil
	}
}

func (e *Engine) overrideAdditive(id FeatureID, value float64) error {
	for i := range e.rules {
		if e.rules[i].Feature == id && e.rules[i].Kind == KindAdditive {
			e.rules[i].Value = value
			return nil
		}
	}
	return fmt.Errorf("no additive rule for feature %q", id)
}
