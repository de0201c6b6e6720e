package approach

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk shape of an approach configuration file.
type ruleFile struct {
	Approaches []Config `yaml:"approaches"`
}

// LoadFile reads approach configs from a YAML file. JSON files decode
// through the same path since JSON is a YAML subset.
//
// Example file:
//
//	approaches:
//	  - name: frequency-analysis
//	    minThresholds:
//	      fftEntropy: 1.5
//	  - name: low-volume
//	    maxThresholds:
//	      tripleCount: 100
//	    priority: 1
func LoadFile(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading approach file: %w", err)
	}

	cfgs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfgs, nil
}

// Parse decodes and validates approach configs from YAML (or JSON) bytes.
// Every config must pass Validate and names must be unique within the
// document.
func Parse(data []byte) ([]Config, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing approach file: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Approaches))
	for _, cfg := range f.Approaches {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[cfg.Name]; dup {
			return nil, fmt.Errorf("duplicate approach name %q", cfg.Name)
		}
		seen[cfg.Name] = struct{}{}
	}

	return f.Approaches, nil
}
