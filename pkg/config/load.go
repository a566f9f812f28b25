package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration with hierarchy: defaults → YAML file → env → flags.
// The file path comes from --config or JEEVES_CONFIG_FILE.
func (c *Config) Load(args []string) error {
	c.ConfigFile = os.Getenv("JEEVES_CONFIG_FILE")

	// First pass only looks for --config so the file can sit below env and flags
	pre := pflag.NewFlagSet("config-file", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	pre.StringVar(&c.ConfigFile, "config", c.ConfigFile, "")
	_ = pre.Parse(args)

	if c.ConfigFile != "" {
		if err := c.LoadFromFile(c.ConfigFile); err != nil {
			return err
		}
	}

	c.LoadFromEnv()

	fs := pflag.NewFlagSet(c.ServiceName, pflag.ContinueOnError)
	c.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	return nil
}

// LoadFromFile overlays values from a YAML file. Keys absent from the file
// keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return c.LoadFromYAML(data)
}

// LoadFromYAML overlays values from YAML data (useful for testing)
func (c *Config) LoadFromYAML(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}
