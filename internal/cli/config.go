package cli

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toyz/markgen/internal/annotations"
	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
)

// DefaultConfigFile is read from the working directory when no --config is given
const DefaultConfigFile = "markgen.yaml"

// DefaultMaxRounds bounds the processing round loop
const DefaultMaxRounds = 16

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories or package patterns to scan
	Directories []string `yaml:"directories"`

	// Target is the qualified name of the generated type, e.g. example.com/app/registry.Handlers
	Target string `yaml:"target"`

	// Package is the package name used when Target has no package path
	Package string `yaml:"package"`

	// Marker is the marker to collect, written as namespace::name
	Marker string `yaml:"marker"`

	// OutputDir, when set, receives generated files under their package path
	OutputDir string `yaml:"output_dir"`

	// UsePackages loads Directories as package patterns through the go tool
	UsePackages bool `yaml:"packages"`

	// Report is the path of the YAML run report, empty to skip it
	Report string `yaml:"report"`

	// MaxRounds bounds the number of processing rounds
	MaxRounds int `yaml:"max_rounds"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"verbose"`

	// Quiet only shows errors
	Quiet bool `yaml:"quiet"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapFileSystemError("read", path, err)
	}
	return ParseConfig(bytes.NewReader(content), path)
}

// LoadConfigIfPresent reads path when it exists and returns an empty config otherwise
func LoadConfigIfPresent(path string) (Config, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Config{}, false, nil
	}
	config, err := LoadConfig(path)
	return config, err == nil, err
}

// ParseConfig decodes a YAML config document
func ParseConfig(r io.Reader, name string) (Config, error) {
	var config Config

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return Config{}, errors.WrapConfigurationError(name, "decode", err)
	}

	return config, nil
}

// Merge returns c with every non-zero field of overrides applied
func (c Config) Merge(overrides Config) Config {
	merged := c
	if len(overrides.Directories) > 0 {
		merged.Directories = overrides.Directories
	}
	if overrides.Target != "" {
		merged.Target = overrides.Target
	}
	if overrides.Package != "" {
		merged.Package = overrides.Package
	}
	if overrides.Marker != "" {
		merged.Marker = overrides.Marker
	}
	if overrides.OutputDir != "" {
		merged.OutputDir = overrides.OutputDir
	}
	if overrides.UsePackages {
		merged.UsePackages = true
	}
	if overrides.Report != "" {
		merged.Report = overrides.Report
	}
	if overrides.MaxRounds != 0 {
		merged.MaxRounds = overrides.MaxRounds
	}
	if overrides.Verbose {
		merged.Verbose = true
	}
	if overrides.Quiet {
		merged.Quiet = true
	}
	return merged
}

// WithDefaults fills in unset fields. A missing target is left for the processor to report.
func (c Config) WithDefaults() Config {
	if len(c.Directories) == 0 {
		c.Directories = []string{"./..."}
	}
	if c.Marker == "" {
		c.Marker = annotations.DefaultMarker
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	return c
}

// Validate checks the fields the CLI itself depends on
func (c Config) Validate() error {
	if _, err := annotations.NewMarkerParser(c.Marker); err != nil {
		return err
	}
	if c.MaxRounds < 0 {
		return errors.Newf(errors.ConfigurationErrorCode, "max_rounds must not be negative, got %d", c.MaxRounds)
	}
	if c.Verbose && c.Quiet {
		return errors.New(errors.ConfigurationErrorCode, "verbose and quiet cannot both be set")
	}
	return nil
}

// ProcessorOptions flattens the config into the processor's option map
func (c Config) ProcessorOptions() map[string]string {
	options := map[string]string{
		models.OptionTarget: c.Target,
		models.OptionMarker: c.Marker,
	}
	if c.Package != "" {
		options[models.OptionPackage] = c.Package
	}
	return options
}
