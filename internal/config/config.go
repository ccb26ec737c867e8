package config

import (
	"os"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TelnetPorts  []uint16 `yaml:"telnetPorts"`
	TN3270Ports  []uint16 `yaml:"tn3270Ports"`
	TN3270Model  int      `yaml:"tn3270Model"`
	SummaryItems int      `yaml:"summaryItems"`
	Reassemble   bool     `yaml:"reassemble"`
	LogLevel     string   `yaml:"logLevel"`
	LogFormat    string   `yaml:"logFormat"`
}

func Default() *Config {
	return &Config{
		TelnetPorts:  []uint16{23, 992},
		TN3270Ports:  []uint16{},
		TN3270Model:  2,
		SummaryItems: 5,
		Reassemble:   true,
		LogLevel:     "info",
		LogFormat:    "auto",
	}
}

// Load reads filename over the defaults. Environment variables in the file
// are expanded before it is parsed.
func Load(filename string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", filename)
	}
	if err := Parse([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, errors.Wrapf(err, "config %s", filename)
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(filename)
}

func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse")
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		return errors.Errorf("logFormat %q is not one of auto, console, json", c.LogFormat)
	}
	if c.TN3270Model < 2 || c.TN3270Model > 5 {
		return errors.Errorf("tn3270Model %d is not between 2 and 5", c.TN3270Model)
	}
	if c.SummaryItems < 1 {
		return errors.Errorf("summaryItems must be positive, got %d", c.SummaryItems)
	}
	return nil
}

func (c *Config) IsTelnetPort(port uint16) bool {
	return slices.Contains(c.TelnetPorts, port) || c.IsTN3270Port(port)
}

func (c *Config) IsTN3270Port(port uint16) bool {
	return slices.Contains(c.TN3270Ports, port)
}
