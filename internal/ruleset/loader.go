// Package ruleset loads a declarative YAML bundle of Decisions and builds
// the live decision.Decision values an Engine registers, the way
// nvandessel-floop's internal/config loads a FloopConfig: read defaults,
// then unmarshal a YAML document over them.
package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region load

// Load reads and parses a ruleset YAML file.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a ruleset YAML document already in memory.
func LoadFromBytes(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}
	if len(rs.Decisions) == 0 {
		return nil, fmt.Errorf("ruleset %q declares no decisions", rs.Name)
	}
	return &rs, nil
}

// #endregion load
