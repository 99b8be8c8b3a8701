package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Store    StoreConfig    `mapstructure:"store"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds the listener configuration of both transports
type ServerConfig struct {
	HTTP HTTPServerConfig `mapstructure:"http"`
	GRPC GRPCServerConfig `mapstructure:"grpc"`
}

// HTTPServerConfig holds REST and websocket listener settings
type HTTPServerConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// SessionsConfig holds game hosting limits
type SessionsConfig struct {
	MaxGames        int           `mapstructure:"max_games"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	FinishedTTL     time.Duration `mapstructure:"finished_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// AuthConfig holds seat token settings. An empty secret disables seats.
type AuthConfig struct {
	SeatSecret string        `mapstructure:"seat_secret"`
	SeatTTL    time.Duration `mapstructure:"seat_ttl"`
}

// StoreConfig selects where game snapshots are persisted
type StoreConfig struct {
	Driver     string        `mapstructure:"driver"`
	MongoURI   string        `mapstructure:"mongo_uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Store drivers
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
	mu  sync.RWMutex
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// HTTP server defaults
	v.SetDefault("server.http.enabled", true)
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.allowed_origins", []string{"*"})

	// gRPC server defaults
	v.SetDefault("server.grpc.enabled", true)
	v.SetDefault("server.grpc.host", "0.0.0.0")
	v.SetDefault("server.grpc.port", 50051)
	v.SetDefault("server.grpc.enable_reflection", true)
	v.SetDefault("server.grpc.graceful_shutdown_delay", 5)

	// Session defaults
	v.SetDefault("sessions.max_games", 100)
	v.SetDefault("sessions.idle_timeout", 30*time.Minute)
	v.SetDefault("sessions.finished_ttl", 5*time.Minute)
	v.SetDefault("sessions.cleanup_interval", time.Minute)

	v.SetDefault("auth.seat_secret", "")
	v.SetDefault("auth.seat_ttl", 24*time.Hour)

	// Store defaults
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.database", "chess")
	v.SetDefault("store.collection", "games")
	v.SetDefault("store.timeout", 5*time.Second)
}

// Init initializes the configuration
func Init(configPath string) error {
	mu.Lock()
	defer mu.Unlock()

	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/chess-rules-engine")
	}

	v.SetEnvPrefix("CHESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults like a missing default one.
		if configPath == "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Get returns the global config instance
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}
	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()

	envFile := fmt.Sprintf("config.%s.yaml", env)
	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}
	return reloadLocked()
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	mu.Lock()
	defer mu.Unlock()
	v.Set(key, value)
	_ = reloadLocked()
}

// reloadLocked re-decodes viper's view. The previous config is kept when the
// new one does not decode or validate.
func reloadLocked() error {
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// GetString gets a string value from config
func GetString(key string) string {
	return GetViper().GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return GetViper().GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return GetViper().GetBool(key)
}

// GetDuration gets a duration value from config
func GetDuration(key string) time.Duration {
	return GetViper().GetDuration(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives
// the reload error, if any; the previous config stays active on error.
func WatchConfig(onChange func(*Config, error)) {
	w := GetViper()
	w.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		err := reloadLocked()
		c := cfg
		mu.Unlock()
		if onChange != nil {
			onChange(c, err)
		}
	})
	w.WatchConfig()
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true,
	"error": true, "fatal": true, "panic": true, "disabled": true,
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if !logLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}

	if !c.Server.HTTP.Enabled && !c.Server.GRPC.Enabled {
		return fmt.Errorf("at least one of server.http and server.grpc must be enabled")
	}
	if c.Server.HTTP.Port <= 0 || c.Server.HTTP.Port > 65535 {
		return fmt.Errorf("server.http.port must be between 1 and 65535")
	}
	if c.Server.GRPC.Port <= 0 || c.Server.GRPC.Port > 65535 {
		return fmt.Errorf("server.grpc.port must be between 1 and 65535")
	}
	if c.Server.HTTP.Enabled && c.Server.GRPC.Enabled &&
		c.Server.HTTP.Port == c.Server.GRPC.Port && c.Server.HTTP.Host == c.Server.GRPC.Host {
		return fmt.Errorf("server.http and server.grpc cannot share %s:%d", c.Server.HTTP.Host, c.Server.HTTP.Port)
	}
	if c.Server.GRPC.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc.graceful_shutdown_delay must be non-negative")
	}

	if c.Sessions.MaxGames <= 0 {
		return fmt.Errorf("sessions.max_games must be positive")
	}
	if c.Sessions.IdleTimeout < 0 || c.Sessions.FinishedTTL < 0 {
		return fmt.Errorf("sessions timeouts must be non-negative")
	}
	if c.Sessions.CleanupInterval <= 0 {
		return fmt.Errorf("sessions.cleanup_interval must be positive")
	}

	if c.Auth.SeatTTL < 0 {
		return fmt.Errorf("auth.seat_ttl must be non-negative")
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.Store.MongoURI == "" || c.Store.Database == "" || c.Store.Collection == "" {
			return fmt.Errorf("store.mongo_uri, store.database and store.collection are required for the mongo driver")
		}
		if c.Store.Timeout <= 0 {
			return fmt.Errorf("store.timeout must be positive")
		}
	default:
		return fmt.Errorf("store.driver must be %s or %s, got %q", DriverMemory, DriverMongo, c.Store.Driver)
	}
	return nil
}
