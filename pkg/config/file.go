package config

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileConfig is the on-disk configuration format shared by configuration
// files, sidecar files and presets.
//
//	preset: postgres
//	reporter: color
//	plugins: [./lint-plugins]
//	rules:
//	  no-select-star:              # enabled, no options
//	  disallow-foreign-key:
//	    excluded: [audit_log]
//	  require-primary-key: false   # disabled
//	disable: [disallow-not-in]
//	jobs: 4
//	timeout: 30s
//
// Jobs and Timeout are run settings read by the command line; they do not
// take part in rule resolution.
type FileConfig struct {
	Preset   string         `koanf:"preset" yaml:"preset,omitempty"`
	Reporter string         `koanf:"reporter" yaml:"reporter,omitempty"`
	Plugins  []string       `koanf:"plugins" yaml:"plugins,omitempty"`
	Rules    map[string]any `koanf:"rules" yaml:"rules,omitempty"`
	Disable  []string       `koanf:"disable" yaml:"disable,omitempty"`
	Jobs     int            `koanf:"jobs" yaml:"jobs,omitempty"`
	Timeout  time.Duration  `koanf:"timeout" yaml:"timeout,omitempty"`
}

// LoadFile reads a YAML (or JSON) configuration file. Unknown top-level
// keys are an error.
func LoadFile(path string) (FileConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return FileConfig{}, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := k.UnmarshalWithConf("", &fc, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &fc,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return FileConfig{}, fmt.Errorf("unable to decode config file %s: %w", path, err)
	}
	return fc, nil
}

// runKeys returns the keys set in fc that apply to a whole run rather than
// to single files.
func (fc FileConfig) runKeys() []string {
	var keys []string
	if fc.Preset != "" {
		keys = append(keys, "preset")
	}
	if fc.Reporter != "" {
		keys = append(keys, "reporter")
	}
	if len(fc.Plugins) > 0 {
		keys = append(keys, "plugins")
	}
	if fc.Jobs != 0 {
		keys = append(keys, "jobs")
	}
	if fc.Timeout != 0 {
		keys = append(keys, "timeout")
	}
	return keys
}

// Layer converts the file contents to a merge layer. A rule value may be
// empty (enabled without options), a mapping of options, or a boolean.
func (fc FileConfig) Layer(name string) (Layer, error) {
	l := Layer{
		Name:     name,
		Rules:    make(map[string]RuleOptions),
		Disable:  slices.Clone(fc.Disable),
		Reporter: fc.Reporter,
		Plugins:  slices.Clone(fc.Plugins),
	}

	for _, rule := range slices.Sorted(maps.Keys(fc.Rules)) {
		switch v := fc.Rules[rule].(type) {
		case nil:
			l.Rules[rule] = RuleOptions{}
		case bool:
			if v {
				l.Rules[rule] = RuleOptions{}
			} else {
				l.Disable = append(l.Disable, rule)
			}
		case map[string]any:
			l.Rules[rule] = RuleOptions(v).Clone()
		default:
			return Layer{}, fmt.Errorf("%s: rule %q: options must be a mapping, got %T", name, rule, v)
		}
	}
	return l, nil
}
