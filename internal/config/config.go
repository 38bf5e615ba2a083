// Package config loads the YAML configuration that lists file sources.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clarabennett2626/logroute/internal/driver"
	"github.com/clarabennett2626/logroute/internal/logging"
	"github.com/clarabennett2626/logroute/internal/multiline"
	"github.com/clarabennett2626/logroute/internal/persist"
	"github.com/clarabennett2626/logroute/internal/pipe"
	"github.com/clarabennett2626/logroute/internal/source"
)

// EnvConfig names the environment variable Load reads the config path from.
const EnvConfig = "LOGROUTE_CONFIG"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the top-level configuration file.
type Config struct {
	// Version is the configuration format version. Versions before 3.0
	// select legacy compatibility.
	Version string `yaml:"version"`

	// PersistFile stores read positions across restarts. Empty disables
	// persistence.
	PersistFile string `yaml:"persist_file"`

	// MaxRecordSize bounds a single record in bytes.
	MaxRecordSize int `yaml:"max_record_size"`

	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig configures one file source.
type SourceConfig struct {
	ID    string `yaml:"id"`
	Group string `yaml:"group"`
	Path  string `yaml:"path"`

	// FollowFreq overrides the follow interval in milliseconds. Zero
	// disables following.
	FollowFreq *int `yaml:"follow_freq,omitempty"`

	MultiLine MultiLineConfig `yaml:"multi_line"`
}

// MultiLineConfig holds the multi-line settings of a source.
type MultiLineConfig struct {
	Mode    string `yaml:"mode"`
	Prefix  string `yaml:"prefix"`
	Garbage string `yaml:"garbage"`
}

// Load loads the file named by LOGROUTE_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your config file, or use --config", EnvConfig)
	}
	return LoadFile(path)
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for errors. Consistency between a
// multi-line mode and its patterns is checked when the source starts.
func (c *Config) Validate() error {
	var errs []error

	if _, err := source.CompatForVersion(c.Version); err != nil {
		errs = append(errs, err)
	}
	if c.MaxRecordSize < 0 {
		errs = append(errs, fmt.Errorf("max_record_size must not be negative"))
	}
	if len(c.Sources) == 0 {
		errs = append(errs, fmt.Errorf("no sources configured"))
	}

	ids := make(map[string]int)
	for i, s := range c.Sources {
		if s.Path == "" {
			errs = append(errs, fmt.Errorf("sources[%d].path is required", i))
		}
		if _, err := multiline.ParseMode(s.MultiLine.Mode); err != nil {
			errs = append(errs, fmt.Errorf("sources[%d].multi_line.mode: %w", i, err))
		}
		if s.ID == "" {
			continue
		}
		if j, dup := ids[s.ID]; dup {
			errs = append(errs, fmt.Errorf("sources[%d].id %q duplicates sources[%d]", i, s.ID, j))
		}
		ids[s.ID] = i
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Compat returns the compatibility mode selected by Version.
func (c *Config) Compat() source.Compat {
	compat, _ := source.CompatForVersion(c.Version)
	return compat
}

// Runtime builds the pipe configuration the drivers are bound to. It opens
// the persist file when one is configured.
func (c *Config) Runtime(log logging.Logger) (*pipe.Config, error) {
	rt := pipe.NewConfig(c.Compat())
	rt.Logger = log
	if c.MaxRecordSize > 0 {
		rt.MaxRecordSize = c.MaxRecordSize
	}
	if c.PersistFile != "" {
		store, err := persist.Open(c.PersistFile)
		if err != nil {
			return nil, err
		}
		rt.Persist = store
	}
	return rt, nil
}

// DriverOptions translates the source settings into driver options.
func (s SourceConfig) DriverOptions() ([]driver.Option, error) {
	mode, err := multiline.ParseMode(s.MultiLine.Mode)
	if err != nil {
		return nil, err
	}
	opts := []driver.Option{driver.WithMultiLine(mode, s.MultiLine.Prefix, s.MultiLine.Garbage)}
	if s.ID != "" {
		opts = append(opts, driver.WithID(s.ID))
	}
	if s.Group != "" {
		opts = append(opts, driver.WithGroup(s.Group))
	}
	if s.FollowFreq != nil {
		opts = append(opts, driver.WithFollowFreq(*s.FollowFreq))
	}
	return opts, nil
}
