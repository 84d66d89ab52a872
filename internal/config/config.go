// Package config provides configuration management for the console server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Storage drivers.
const (
	StorageSQLite = "sqlite"
	StorageBolt   = "bolt"
	StorageMemory = "memory"
)

// DMX sinks.
const (
	SinkLog    = "log"
	SinkArtNet = "artnet"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Storage configuration
	StorageDriver  string
	DatabaseURL    string
	BoltPath       string
	PersistTimeout time.Duration

	// Record keys
	SceneStorageKey string
	ChannelNamesKey string

	// Optional YAML scene loaded when storage holds none
	SeedScenePath string

	// DMX output
	DMXSink         string
	ArtNetBroadcast string
	ArtNetPort      int
	ArtNetUniverse  int

	// Non-interactive mode (for Docker/CI)
	NonInteractive bool

	// CORS configuration
	CORSOrigin string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		// Storage
		StorageDriver:  getEnv("STORAGE_DRIVER", StorageSQLite),
		DatabaseURL:    getEnv("DATABASE_URL", "file:./dev.db"),
		BoltPath:       getEnv("BOLT_PATH", "./scene.bolt"),
		PersistTimeout: time.Duration(getEnvInt("PERSIST_TIMEOUT_MS", 2000)) * time.Millisecond,

		SceneStorageKey: getEnv("SCENE_STORAGE_KEY", "dmx_scene_v1"),
		ChannelNamesKey: getEnv("CHANNEL_NAMES_KEY", "channelNames"),
		SeedScenePath:   getEnv("SEED_SCENE_PATH", ""),

		// DMX
		DMXSink:         getEnv("DMX_SINK", SinkLog),
		ArtNetBroadcast: getEnv("ARTNET_BROADCAST", "255.255.255.255"),
		ArtNetPort:      getEnvInt("ARTNET_PORT", 6454),
		ArtNetUniverse:  getEnvInt("ARTNET_UNIVERSE", 1),

		// Non-interactive
		NonInteractive: getEnvBool("NON_INTERACTIVE", false),

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
