package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

// Config holds the configuration for the sunshine agent
type Config struct {
	// MQTT configuration
	MQTTBroker   string `yaml:"mqtt_broker"`
	MQTTPort     int    `yaml:"mqtt_port"`
	MQTTUser     string `yaml:"mqtt_user"`
	MQTTPassword string `yaml:"mqtt_password"`
	MQTTClientID string `yaml:"mqtt_client_id"`

	// Redis configuration
	RedisHost     string `yaml:"redis_host"`
	RedisPort     int    `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Service configuration
	ServiceName string `yaml:"service_name"`
	HealthPort  int    `yaml:"health_port"`
	LogLevel    string `yaml:"log_level"`
	ConfigFile  string `yaml:"-"`

	// Sunshine threshold configuration
	Floor        int    `yaml:"floor"`
	Cap          int    `yaml:"cap"`
	Buffer       int    `yaml:"buffer"`
	Entity       string `yaml:"entity"`
	SunEntity    string `yaml:"sun_entity"`
	FriendlyName string `yaml:"friendly_name"`
	Debug        bool   `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:    "localhost",
		MQTTPort:      1883,
		MQTTUser:      "",
		MQTTPassword:  "",
		MQTTClientID:  "",
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,
		ServiceName:   "sunshine-agent",
		HealthPort:    8080,
		LogLevel:      "info",
		// Sunshine defaults
		Floor:        10000,
		Cap:          70000,
		Buffer:       10000,
		Entity:       "",
		SunEntity:    "sun.sun",
		FriendlyName: "Sunshine Threshold",
		Debug:        false,
	}
}

// LoadFromEnv loads configuration from environment variables with JEEVES_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("JEEVES_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("JEEVES_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("JEEVES_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("JEEVES_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("JEEVES_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("JEEVES_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("JEEVES_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("JEEVES_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("JEEVES_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Service configuration
	if v := os.Getenv("JEEVES_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("JEEVES_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("JEEVES_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Sunshine configuration
	if v := os.Getenv("JEEVES_SUNSHINE_FLOOR"); v != "" {
		if floor, err := strconv.Atoi(v); err == nil {
			c.Floor = floor
		}
	}
	if v := os.Getenv("JEEVES_SUNSHINE_CAP"); v != "" {
		if ceiling, err := strconv.Atoi(v); err == nil {
			c.Cap = ceiling
		}
	}
	if v := os.Getenv("JEEVES_SUNSHINE_BUFFER"); v != "" {
		if buffer, err := strconv.Atoi(v); err == nil {
			c.Buffer = buffer
		}
	}
	if v := os.Getenv("JEEVES_SUNSHINE_ENTITY"); v != "" {
		c.Entity = v
	}
	if v := os.Getenv("JEEVES_SUN_ENTITY"); v != "" {
		c.SunEntity = v
	}
	if v := os.Getenv("JEEVES_SUNSHINE_FRIENDLY_NAME"); v != "" {
		c.FriendlyName = v
	}
	if v := os.Getenv("JEEVES_SUNSHINE_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
}

// RegisterFlags binds every config field to a flag on fs
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	// MQTT flags
	fs.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	fs.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	fs.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	fs.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	fs.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	fs.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	fs.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	fs.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	fs.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Service flags
	fs.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	fs.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to a YAML config file")

	// Sunshine flags
	fs.IntVar(&c.Floor, "floor", c.Floor, "Seasonal minimum threshold (lx)")
	fs.IntVar(&c.Cap, "cap", c.Cap, "Seasonal maximum threshold at the summer solstice (lx)")
	fs.IntVar(&c.Buffer, "buffer", c.Buffer, "Nighttime threshold (lx)")
	fs.StringVar(&c.Entity, "entity", c.Entity, "Entity ID that receives the threshold")
	fs.StringVar(&c.SunEntity, "sun-entity", c.SunEntity, "Entity ID of the sun ephemeris feed")
	fs.StringVar(&c.FriendlyName, "friendly-name", c.FriendlyName, "Display name of the threshold sensor")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Log threshold calculation details")
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.Entity == "" {
		return fmt.Errorf("invalid configuration: sunshine needs a valid entity to store results")
	}
	if c.SunEntity == "" {
		return fmt.Errorf("sun entity is required")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// EffectiveLogLevel returns the configured log level, raised to debug when
// debug mode is on
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
