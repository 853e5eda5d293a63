// Package config loads and validates the recovery run configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/enc3-recover/pkg/enc3"
	"github.com/dd0wney/enc3-recover/pkg/parallel"
	"github.com/dd0wney/enc3-recover/pkg/replace"
)

// Defaults
const (
	DefaultPollInterval   = 100 * time.Millisecond
	DefaultReportInterval = 2 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Delta is a cipher delta constant. In YAML it may be written as a decimal
// integer or as a 0x-prefixed hex string.
type Delta uint32

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Delta) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: delta must be a scalar", value.Line)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(value.Value), 0, 32)
	if err != nil {
		return fmt.Errorf("line %d: invalid delta %q: %w", value.Line, value.Value, err)
	}
	*d = Delta(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Delta) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d Delta) String() string {
	return fmt.Sprintf("0x%08x", uint32(d))
}

// ReplaceConfig controls in-place replacement.
type ReplaceConfig struct {
	Suffix           string `yaml:"suffix" validate:"required,excludesall=/\\"`
	RestoreOnFailure bool   `yaml:"restore_on_failure"`
}

// DiscoveryConfig controls the default file discovery pass used when no
// paths are given on the command line.
type DiscoveryConfig struct {
	Dirs  []string `yaml:"dirs" validate:"dive,required"`
	Files []string `yaml:"files" validate:"dive,required"`
	// Exclude drops a path when it contains every substring of any group.
	Exclude [][]string `yaml:"exclude" validate:"dive,min=1,dive,required"`
}

// Config is the full run configuration.
type Config struct {
	// Workers is the decode worker count; 0 selects parallel.DefaultWorkers.
	Workers         int           `yaml:"workers" validate:"min=0,max=4096"`
	PreferredDelta  Delta         `yaml:"preferred_delta"`
	CandidateDeltas []Delta       `yaml:"candidate_deltas" validate:"max=1024"`
	PollInterval    time.Duration `yaml:"poll_interval" validate:"gt=0"`
	ReportInterval  time.Duration `yaml:"report_interval" validate:"gtefield=PollInterval"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat       string        `yaml:"log_format" validate:"oneof=text json"`
	TUI             bool          `yaml:"tui"`
	MetricsFile     string        `yaml:"metrics_file"`

	Replace   ReplaceConfig   `yaml:"replace"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// Default returns the built-in configuration.
func Default() *Config {
	candidates := make([]Delta, len(enc3.DefaultCandidates))
	for i, c := range enc3.DefaultCandidates {
		candidates[i] = Delta(c)
	}
	return &Config{
		PreferredDelta:  Delta(enc3.DefaultDelta),
		CandidateDeltas: candidates,
		PollInterval:    DefaultPollInterval,
		ReportInterval:  DefaultReportInterval,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		Replace: ReplaceConfig{
			Suffix:           replace.DefaultSuffix,
			RestoreOnFailure: true,
		},
		Discovery: DiscoveryConfig{
			Dirs:    []string{"data", "modules", "mods", "layouts"},
			Files:   []string{"init.lua"},
			Exclude: [][]string{{"game_bot", "default_config"}},
		},
	}
}

// Write encodes c as YAML in the form Parse accepts.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// Load reads a YAML file over the defaults and validates the result. Keys
// absent from the file keep their default values; unknown keys are errors.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes YAML from r over the defaults and validates the result.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and returns the first violation.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalid)
	}
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// EffectiveWorkers resolves Workers, mapping 0 to the default.
func (c *Config) EffectiveWorkers() int {
	if c.Workers <= 0 {
		return parallel.DefaultWorkers()
	}
	return c.Workers
}

// Candidates returns the candidate deltas as raw values.
func (c *Config) Candidates() []uint32 {
	out := make([]uint32, len(c.CandidateDeltas))
	for i, d := range c.CandidateDeltas {
		out[i] = uint32(d)
	}
	return out
}

// BruteForcer builds a delta search from the configured deltas.
func (c *Config) BruteForcer() *enc3.BruteForcer {
	bf := enc3.NewBruteForcer()
	bf.Preferred = uint32(c.PreferredDelta)
	bf.Candidates = c.Candidates()
	return bf
}

// Replacer builds a replacer from the replace section.
func (c *Config) Replacer() *replace.Replacer {
	r := replace.New()
	r.Suffix = c.Replace.Suffix
	r.RestoreOnFailure = c.Replace.RestoreOnFailure
	return r
}
