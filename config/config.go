package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. GRAPHWALK_WALKS.
const EnvPrefix = "GRAPHWALK"

// Config holds the settings of the graphwalk command. Environment variable
// names derive from field names; split_words maps LogLevel to LOG_LEVEL.
type Config struct {
	Input    string  `yaml:"input"`
	Output   string  `yaml:"output"`
	Walks    int     `yaml:"walks"`
	Length   int     `yaml:"length"`
	Sample   float64 `yaml:"sample"`
	Threads  int     `yaml:"threads"`
	Seed     uint64  `yaml:"seed"`
	LogLevel string  `yaml:"log_level" split_words:"true"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds the settings of server mode.
type ServerConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	BatchSize int    `yaml:"batch_size" split_words:"true"`
	OutputDir string `yaml:"output_dir" split_words:"true"`
	Strict    bool   `yaml:"strict"`
	// Session groups run records; empty means a random UUID per process.
	Session string `yaml:"session"`
	// Store is a run-record store URL: memory://, file://dir, sqlite://path,
	// postgres://..., redis://...; empty disables recording.
	Store string `yaml:"store"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Input:    "data/dbpedia_ml.nt",
		Output:   "walks.csv",
		Walks:    10,
		Length:   15,
		Sample:   1.0,
		Threads:  4,
		LogLevel: "info",
		Server: ServerConfig{
			Port:      8080,
			BatchSize: 100,
			OutputDir: "walks_output",
			Store:     "memory://",
		},
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then applies GRAPHWALK_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every setting out of range.
func (c *Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input file must be set"))
	}
	if c.Walks < 1 {
		errs = append(errs, fmt.Errorf("walks must be positive, got %d", c.Walks))
	}
	if c.Length < 1 {
		errs = append(errs, fmt.Errorf("length must be positive, got %d", c.Length))
	}
	if c.Sample < 0 || c.Sample > 1 {
		errs = append(errs, fmt.Errorf("sample rate must be within [0, 1], got %g", c.Sample))
	}
	if c.Threads < 1 {
		errs = append(errs, fmt.Errorf("threads must be positive, got %d", c.Threads))
	}
	if c.Server.Enabled {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Errorf("port must be within 1-65535, got %d", c.Server.Port))
		}
		if c.Server.BatchSize < 1 {
			errs = append(errs, fmt.Errorf("batch size must be positive, got %d", c.Server.BatchSize))
		}
	} else if c.Output == "" {
		errs = append(errs, errors.New("output file must be set"))
	}
	return errors.Join(errs...)
}
