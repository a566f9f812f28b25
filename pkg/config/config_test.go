package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := NewConfig()
	cfg.Entity = "sensor.sunshine_threshold"
	return cfg
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 10000, cfg.Floor)
	assert.Equal(t, 70000, cfg.Cap)
	assert.Equal(t, 10000, cfg.Buffer)
	assert.Equal(t, "sun.sun", cfg.SunEntity)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.Entity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing entity", mutate: func(c *Config) { c.Entity = "" }, wantErr: "valid entity"},
		{name: "missing sun entity", mutate: func(c *Config) { c.SunEntity = "" }, wantErr: "sun entity"},
		{name: "bad mqtt port", mutate: func(c *Config) { c.MQTTPort = 0 }, wantErr: "MQTT port"},
		{name: "bad redis port", mutate: func(c *Config) { c.RedisPort = 70000 }, wantErr: "Redis port"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "invalid log level"},
		// Envelope violations are repaired at runtime, never rejected
		{name: "floor above cap accepted", mutate: func(c *Config) { c.Floor, c.Cap = 50000, 10000 }},
		{name: "negative buffer accepted", mutate: func(c *Config) { c.Buffer = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	cfg := NewConfig()
	err := cfg.LoadFromYAML([]byte(`
floor: 5000
cap: 60000
entity: sensor.sunshine_threshold
debug: true
mqtt_broker: broker.local
`))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Floor)
	assert.Equal(t, 60000, cfg.Cap)
	assert.Equal(t, "sensor.sunshine_threshold", cfg.Entity)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "broker.local", cfg.MQTTBroker)

	// Keys absent from the file keep their defaults
	assert.Equal(t, 10000, cfg.Buffer)
	assert.Equal(t, 6379, cfg.RedisPort)
}

func TestLoadFromYAML_Invalid(t *testing.T) {
	cfg := NewConfig()
	assert.Error(t, cfg.LoadFromYAML([]byte("floor: [unclosed")))
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sunshine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
floor: 5000
cap: 60000
buffer: 2000
entity: sensor.from_file
`), 0o600))

	t.Setenv("JEEVES_CONFIG_FILE", "")
	t.Setenv("JEEVES_SUNSHINE_CAP", "65000")
	t.Setenv("JEEVES_SUNSHINE_BUFFER", "3000")

	cfg := NewConfig()
	err := cfg.Load([]string{"--config", path, "--buffer", "4000"})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, 5000, cfg.Floor, "file overrides default")
	assert.Equal(t, 65000, cfg.Cap, "env overrides file")
	assert.Equal(t, 4000, cfg.Buffer, "flag overrides env")
	assert.Equal(t, "sensor.from_file", cfg.Entity)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sunshine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entity: sensor.env_file\n"), 0o600))

	t.Setenv("JEEVES_CONFIG_FILE", path)

	cfg := NewConfig()
	require.NoError(t, cfg.Load(nil))
	assert.Equal(t, "sensor.env_file", cfg.Entity)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("JEEVES_CONFIG_FILE", "")

	cfg := NewConfig()
	err := cfg.Load([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestLoad_UnknownFlag(t *testing.T) {
	t.Setenv("JEEVES_CONFIG_FILE", "")

	cfg := NewConfig()
	assert.Error(t, cfg.Load([]string{"--no-such-flag"}))
}

func TestEffectiveLogLevel(t *testing.T) {
	cfg := NewConfig()
	cfg.LogLevel = "warn"
	assert.Equal(t, "warn", cfg.EffectiveLogLevel())

	cfg.Debug = true
	assert.Equal(t, "debug", cfg.EffectiveLogLevel())
}

func TestAddresses(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTAddress())
	assert.Equal(t, "localhost:6379", cfg.RedisAddress())
}
