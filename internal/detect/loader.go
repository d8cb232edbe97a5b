package detect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk format of an external rule table.
type ruleFile struct {
	Rules   []Rule `yaml:"rules"`
	Version int    `yaml:"version"`
}

// LoadRules reads a versioned rule table from a YAML file. The file replaces
// the built-in table wholesale; partial overrides are not supported.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}

	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported rule file version %d", file.Version)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rule file contains no rules")
	}

	for _, r := range file.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule without a name")
		}
		if len(r.Keywords) == 0 && len(r.Patterns) == 0 {
			return nil, fmt.Errorf("rule %q has neither keywords nor patterns", r.Name)
		}
	}

	return file.Rules, nil
}
