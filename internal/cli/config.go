package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coregx/rxnorm"
	"github.com/coregx/rxnorm/backend"
)

// FileConfig is the YAML file accepted by --config:
//
//	engine: regexp2
//	timeout: 5s
//	max_matches: 100
//	options:
//	  IgnoreCase: "true"
//
// Flags given on the command line override the file.
type FileConfig struct {
	Engine     string            `yaml:"engine"`
	Timeout    string            `yaml:"timeout"`
	MaxMatches int               `yaml:"max_matches"`
	Options    map[string]string `yaml:"options"`
}

// LoadFileConfig reads and decodes path. Unknown keys are rejected.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, nil
}

// engineSettings is the merged result of the config file and flags.
type engineSettings struct {
	engine  string
	options backend.Options
	config  rxnorm.Config
}

// settingsFlags are the per-command flags that can override the file.
type settingsFlags struct {
	engine     string
	options    []string
	timeout    time.Duration
	maxMatches int

	engineSet, timeoutSet, maxSet bool
}

// resolve merges the config file (if any) with flags. Flag options are
// applied after file options, so a flag wins for the same name.
func (sf *settingsFlags) resolve(root *RootOptions) (*engineSettings, error) {
	s := &engineSettings{
		engine:  sf.engine,
		options: backend.Options{},
		config:  rxnorm.DefaultConfig(),
	}
	s.config.Logger = root.Logger

	if root.Config != "" {
		fc, err := LoadFileConfig(root.Config)
		if err != nil {
			return nil, err
		}
		if fc.Engine != "" && !sf.engineSet {
			s.engine = fc.Engine
		}
		if fc.Timeout != "" {
			d, err := time.ParseDuration(fc.Timeout)
			if err != nil {
				return nil, fmt.Errorf("config timeout: %w", err)
			}
			s.config.HardTimeout = d
		}
		if fc.MaxMatches != 0 {
			s.config.MaxMatches = fc.MaxMatches
		}
		for k, v := range fc.Options {
			s.options[k] = v
		}
	}

	flagOpts, err := backend.ParseOptions(sf.options)
	if err != nil {
		return nil, err
	}
	for k, v := range flagOpts {
		s.options[k] = v
	}
	if sf.timeoutSet {
		s.config.HardTimeout = sf.timeout
	}
	if sf.maxSet {
		s.config.MaxMatches = sf.maxMatches
	}
	return s, nil
}
