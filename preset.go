package strike

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a named set of parameter values, stored as YAML. The parameter
// addresses are the ones the engine's parameter store declares; unknown
// addresses and out-of-range values are tolerated and handled by the store.
type Preset struct {
	Name    string          `yaml:"name"`
	Version int             `yaml:"version"`
	Params  map[int]float32 `yaml:"params,omitempty"`
}

func (p *Preset) Copy() Preset {
	params := make(map[int]float32, len(p.Params))
	for k, v := range p.Params {
		params[k] = v
	}
	return Preset{Name: p.Name, Version: p.Version, Params: params}
}

// ParsePreset parses YAML preset contents.
func ParsePreset(contents []byte) (Preset, error) {
	var preset Preset
	if err := yaml.Unmarshal(contents, &preset); err != nil {
		return Preset{}, fmt.Errorf("could not parse preset: %w", err)
	}
	return preset, nil
}

// LoadPreset reads and parses a preset file.
func LoadPreset(path string) (Preset, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("could not read preset file: %w", err)
	}
	preset, err := ParsePreset(contents)
	if err != nil {
		return Preset{}, fmt.Errorf("in %v: %w", path, err)
	}
	return preset, nil
}
