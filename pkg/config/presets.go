package config

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named, shipped configuration.
type Preset struct {
	Name        string     `yaml:"-"`
	Description string     `yaml:"description"`
	Config      FileConfig `yaml:"config"`
}

// Layer returns the preset as a merge layer.
func (p Preset) Layer() (Layer, error) {
	return p.Config.Layer("preset:" + p.Name)
}

var loadPresets = sync.OnceValues(func() (map[string]Preset, error) {
	var presets map[string]Preset
	if err := yaml.Unmarshal(presetsYAML, &presets); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	for name, p := range presets {
		p.Name = name
		presets[name] = p
	}
	return presets, nil
})

// Presets returns every shipped preset, sorted by name.
func Presets() []Preset {
	presets, err := loadPresets()
	if err != nil {
		// presets.yaml is embedded and covered by tests
		panic(err)
	}
	out := make([]Preset, 0, len(presets))
	for _, name := range slices.Sorted(maps.Keys(presets)) {
		out = append(out, presets[name])
	}
	return out
}

// PresetNames returns the sorted preset names.
func PresetNames() []string {
	presets := Presets()
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// LookupPreset returns the preset called name.
func LookupPreset(name string) (Preset, error) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, &UnknownPresetError{Name: name, Available: PresetNames()}
}
